package balsa

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// =============================================================================
// PARSING BENCHMARKS
// =============================================================================

func BenchmarkParse_Simple(b *testing.B) {
	engine := MustNew()
	source := `<h1>{{ headerText : string, friendlyName: "Header text", defaultValue: "Hello world!" }}</h1>`

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = engine.Parse(source)
	}
}

func BenchmarkParse_Page(b *testing.B) {
	engine := MustNew()
	source := benchmarkPage(20)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = engine.Parse(source)
	}
}

// =============================================================================
// RENDER BENCHMARKS
// =============================================================================

func BenchmarkRender_Source(b *testing.B) {
	engine := MustNew()
	source := `<h1>{{ headerText : string, defaultValue: "Hello world!" }}</h1>`
	overrides := Overrides{"headerText": String("Hi")}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = engine.Render(source, overrides)
	}
}

func BenchmarkRender_PreParsed(b *testing.B) {
	engine := MustNew()
	tmpl, _ := engine.Parse(benchmarkPage(20))
	overrides := Overrides{"title0": String("Override")}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = tmpl.Render(overrides)
	}
}

func BenchmarkRender_DefaultChain_10(b *testing.B) {
	benchmarkDefaultChain(b, 10)
}

func BenchmarkRender_DefaultChain_100(b *testing.B) {
	benchmarkDefaultChain(b, 100)
}

func benchmarkDefaultChain(b *testing.B, length int) {
	var sb strings.Builder
	sb.WriteString(`{{@ v0: string = "root" }}`)
	for i := 1; i < length; i++ {
		fmt.Fprintf(&sb, `{{@ v%d: string = $v%d }}`, i, i-1)
	}
	fmt.Fprintf(&sb, `{{ $v%d }}`, length-1)

	tmpl, err := MustNew().Parse(sb.String())
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = tmpl.Render(nil)
	}
}

func BenchmarkCatalogue(b *testing.B) {
	engine := MustNew()
	source := benchmarkPage(20)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = engine.Catalogue(source)
	}
}

// benchmarkPage builds a page with n sections, each with a typed title and a
// body defaulting to it.
func benchmarkPage(n int) string {
	var sb strings.Builder
	sb.WriteString(`{{@ accent: color = "#336699" }}<html><body>`)
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, `<section style="color: {{ $accent }}"><h2>{{ title%d, type: string, friendlyName: "Title %d", defaultValue: "Section %d" }}</h2>`, i, i, i)
		fmt.Fprintf(&sb, `<p>{{ body%d, defaultValue: $title%d }}</p><span>{{ count%d, type: number, defaultValue: %d }}</span></section>`, i, i, i, i)
	}
	sb.WriteString(`</body></html>`)
	return sb.String()
}

// =============================================================================
// STORAGE BENCHMARKS
// =============================================================================

func BenchmarkMemoryStorage_Save(b *testing.B) {
	storage := NewMemoryStorage()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = storage.Save(ctx, &StoredTemplate{
			Name:   fmt.Sprintf("template%d", i%100),
			Source: "Template content here",
		})
	}
}

func BenchmarkStorageEngine_Render(b *testing.B) {
	engine, _ := NewStorageEngine(StorageEngineConfig{Storage: NewMemoryStorage()})
	defer engine.Close()
	ctx := context.Background()

	_ = engine.Save(ctx, &StoredTemplate{
		Name:   "greeting",
		Source: `Hello {{ user, defaultValue: "guest" }}!`,
	})
	overrides := Overrides{"user": String("Alice")}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = engine.Render(ctx, "greeting", overrides)
	}
}

func BenchmarkCachedStorage_Get(b *testing.B) {
	cached := NewCachedStorage(NewMemoryStorage(), DefaultCacheConfig())
	defer cached.Close()
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		_ = cached.Save(ctx, &StoredTemplate{
			Name:   fmt.Sprintf("template%d", i),
			Source: "Template content here",
		})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = cached.Get(ctx, fmt.Sprintf("template%d", i%100))
	}
}

// =============================================================================
// CONCURRENT ACCESS BENCHMARKS
// =============================================================================

func BenchmarkRender_Concurrent(b *testing.B) {
	tmpl, _ := MustNew().Parse(benchmarkPage(5))

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			_, _ = tmpl.Render(Overrides{"count0": Number(float64(i))})
			i++
		}
	})
}

func BenchmarkMemoryStorage_Concurrent(b *testing.B) {
	storage := NewMemoryStorage()
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		_ = storage.Save(ctx, &StoredTemplate{
			Name:   fmt.Sprintf("template%d", i),
			Source: "Template content here",
		})
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			_, _ = storage.Get(ctx, fmt.Sprintf("template%d", i%100))
			i++
		}
	})
}
