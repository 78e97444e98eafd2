package balsa

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const headerTemplate = `<h1>{{ headerText : string, friendlyName: "Header text", defaultValue: "Hello world!" }}</h1>`

func TestEngine_New(t *testing.T) {
	engine, err := New()
	require.NoError(t, err)
	require.NotNil(t, engine)
	assert.Equal(t, 0, engine.TemplateCount())
}

func TestEngine_EndToEnd(t *testing.T) {
	engine := MustNew()

	out, err := engine.Render(headerTemplate, nil)
	require.NoError(t, err)
	assert.Equal(t, "<h1>Hello world!</h1>", out)

	cat, err := engine.Catalogue(headerTemplate)
	require.NoError(t, err)
	require.Equal(t, 1, cat.Len())

	entry := cat.Variables[0]
	assert.Equal(t, "headerText", entry.Name)
	assert.Equal(t, TypeString, entry.Type)
	assert.Equal(t, "Header text", entry.FriendlyName)
	assert.Equal(t, "Hello world!", entry.DefaultText)
	require.NotNil(t, entry.Default)
	assert.True(t, entry.Default.Equal(String("Hello world!")))
	assert.False(t, entry.Required)
	assert.Equal(t, 1, entry.Line)
}

func TestEngine_Render(t *testing.T) {
	tests := []struct {
		name      string
		source    string
		overrides Overrides
		expected  string
	}{
		{
			name:     "no placeholders",
			source:   "<p>plain <b>html</b>\n</p>",
			expected: "<p>plain <b>html</b>\n</p>",
		},
		{
			name:     "empty template",
			source:   "",
			expected: "",
		},
		{
			name:      "override replaces default",
			source:    headerTemplate,
			overrides: Overrides{"headerText": String("Welcome")},
			expected:  "<h1>Welcome</h1>",
		},
		{
			name:     "declaration emits nothing",
			source:   `{{@ a: string = "x" }}[{{ $a }}]`,
			expected: "[x]",
		},
		{
			name:     "default chain",
			source:   `{{@ a: string = "x"}} {{@ b: string = $a}}{{ $b }}`,
			expected: " x",
		},
		{
			name:     "forward reference",
			source:   `{{ $b }}|{{@ b: string = $a }}{{@ a: string = "late" }}`,
			expected: "late|",
		},
		{
			name:      "override flows to dependents",
			source:    `{{@ a: string = "x"}}{{@ b: string = $a}}{{ $b }}`,
			overrides: Overrides{"a": String("y")},
			expected:  "y",
		},
		{
			name:     "number and boolean",
			source:   `{{ n, type: number, defaultValue: 2.5 }} {{ ok, type: boolean, defaultValue: true }}`,
			expected: "2.5 true",
		},
		{
			name:     "integer number prints without fraction",
			source:   `{{@ n: number = 42 }}{{ $n }}`,
			expected: "42",
		},
		{
			name:     "strings are not escaped",
			source:   `{{@ s: string = "<b>&</b>" }}{{ $s }}`,
			expected: "<b>&</b>",
		},
		{
			name:      "color override",
			source:    `<p style="color: {{ fg, type: color, defaultValue: "#000" }}">`,
			overrides: Overrides{"fg": Color("rebeccapurple")},
			expected:  `<p style="color: rebeccapurple">`,
		},
		{
			name:      "string override accepted for color",
			source:    `{{ fg, type: color, defaultValue: "red" }}`,
			overrides: Overrides{"fg": String("#ff00ff")},
			expected:  "#ff00ff",
		},
		{
			name:     "closing braces inside string literal",
			source:   `{{ t, defaultValue: "a }} b" }}`,
			expected: "a }} b",
		},
		{
			name:      "unknown override is ignored",
			source:    `{{ a, defaultValue: "x" }}`,
			overrides: Overrides{"zzz": String("y")},
			expected:  "x",
		},
	}

	engine := MustNew()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := engine.Render(tt.source, tt.overrides)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestEngine_Render_Errors(t *testing.T) {
	tests := []struct {
		name      string
		source    string
		overrides Overrides
		check     func(error) bool
	}{
		{
			name:   "unterminated placeholder",
			source: "<p>{{ a",
			check:  IsSyntaxError,
		},
		{
			name:   "nested placeholder",
			source: "{{ a {{ b }} }}",
			check:  IsSyntaxError,
		},
		{
			name:   "unknown meta key",
			source: `{{ a, colour: "red" }}`,
			check:  IsSyntaxError,
		},
		{
			name:   "type conflict",
			source: `{{ a, type: string }}{{ a, type: number }}`,
			check:  IsTypeConflictError,
		},
		{
			name:   "default mismatch",
			source: `{{ a, type: string, defaultValue: 42 }}`,
			check:  IsTypeMismatchError,
		},
		{
			name:      "override mismatch",
			source:    headerTemplate,
			overrides: Overrides{"headerText": Number(42)},
			check:     IsTypeMismatchError,
		},
		{
			name:   "self reference",
			source: `{{@ c: string = $c}}`,
			check:  IsCyclicDefaultError,
		},
		{
			name:   "two-variable cycle",
			source: `{{@ a: string = $b}}{{@ b: string = $a}}`,
			check:  IsCyclicDefaultError,
		},
		{
			name:   "missing value",
			source: `{{ a }}`,
			check:  IsUnresolvedVariableError,
		},
		{
			name:   "undeclared reference",
			source: `{{ $nope }}`,
			check:  IsUnresolvedVariableError,
		},
	}

	engine := MustNew()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := engine.Render(tt.source, tt.overrides)
			require.Error(t, err)
			assert.Empty(t, out)
			assert.True(t, tt.check(err), "unexpected error kind: %v", err)
		})
	}
}

func TestEngine_CyclicDefault_NamesCycle(t *testing.T) {
	_, err := MustNew().Render(`{{@ c: string = $c}}`, nil)
	require.Error(t, err)

	var cyclic *CyclicDefaultError
	require.True(t, errors.As(err, &cyclic))
	assert.Equal(t, []string{"c"}, cyclic.Cycle)
}

func TestEngine_OverrideMismatch_NamesVariable(t *testing.T) {
	_, err := MustNew().Render(headerTemplate, Overrides{"headerText": Number(42)})
	require.Error(t, err)

	var mismatch *TypeMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "headerText", mismatch.Name)
	assert.Equal(t, TypeString, mismatch.Expected)
	assert.Equal(t, TypeNumber, mismatch.Actual)
}

func TestEngine_DefaultIdempotence(t *testing.T) {
	sources := []string{
		headerTemplate,
		`{{@ a: number = 3 }}{{ $a }} {{ b, type: boolean, defaultValue: false }}`,
		`{{@ a: string = "x"}}{{@ b: string = $a}}{{ $b }}`,
	}

	engine := MustNew()
	for _, source := range sources {
		t.Run(source, func(t *testing.T) {
			tmpl, err := engine.Parse(source)
			require.NoError(t, err)

			plain, err := tmpl.Render(nil)
			require.NoError(t, err)

			defaults, err := tmpl.Resolve(nil)
			require.NoError(t, err)

			withDefaults, err := tmpl.Render(defaults)
			require.NoError(t, err)
			assert.Equal(t, plain, withDefaults)
		})
	}
}

func TestEngine_Catalogue_MergesMetadata(t *testing.T) {
	cat, err := MustNew().Catalogue(`{{ title, type: number }} {{ title, friendlyName: "Title" }}`)
	require.NoError(t, err)
	require.Equal(t, 1, cat.Len())
	assert.Equal(t, TypeNumber, cat.Variables[0].Type)
	assert.Equal(t, "Title", cat.Variables[0].FriendlyName)
	assert.False(t, cat.Variables[0].TypeInferred)
}

func TestEngine_Parse_OnlySyntaxErrors(t *testing.T) {
	engine := MustNew()

	// conflicts surface from Catalogue and Render, not Parse
	tmpl, err := engine.Parse(`{{ a, type: string }}{{ a, type: number }}`)
	require.NoError(t, err)

	_, err = tmpl.Catalogue()
	assert.True(t, IsTypeConflictError(err))

	_, err = tmpl.Render(nil)
	assert.True(t, IsTypeConflictError(err))
}

func TestEngine_Options(t *testing.T) {
	t.Run("custom delimiters", func(t *testing.T) {
		engine := MustNew(WithDelimiters("[[", "]]"))
		out, err := engine.Render(`{{ keep }} [[ a, defaultValue: "x" ]]`, nil)
		require.NoError(t, err)
		assert.Equal(t, "{{ keep }} x", out)
	})

	t.Run("strict overrides", func(t *testing.T) {
		engine := MustNew(WithStrictOverrides(true))
		_, err := engine.Render(`{{ title, defaultValue: "x" }}`, Overrides{"titel": String("y")})
		require.Error(t, err)

		var unresolved *UnresolvedVariableError
		require.True(t, errors.As(err, &unresolved))
		assert.Equal(t, "titel", unresolved.Name)
		assert.Contains(t, unresolved.Suggestions, "title")
	})

	t.Run("max template size", func(t *testing.T) {
		engine := MustNew(WithMaxTemplateSize(4))
		_, err := engine.Parse("too long")
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgTemplateTooLarge)

		_, err = MustNew(WithMaxTemplateSize(0)).Parse("unlimited")
		assert.NoError(t, err)
	})

	t.Run("logger receives unknown override warning", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		engine := MustNew(WithLogger(zap.New(core)))

		_, err := engine.Render(`{{ a, defaultValue: "x" }}`, Overrides{"b": String("y")})
		require.NoError(t, err)
		assert.Equal(t, 1, logs.Len())
	})
}

func TestEngine_NamedTemplates(t *testing.T) {
	engine := MustNew()

	require.NoError(t, engine.RegisterTemplate("header", headerTemplate))
	engine.MustRegisterTemplate("footer", `<footer>{{ year, type: number, defaultValue: 2024 }}</footer>`)

	t.Run("duplicate name", func(t *testing.T) {
		err := engine.RegisterTemplate("header", "x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgTemplateExists)
	})

	t.Run("empty name", func(t *testing.T) {
		err := engine.RegisterTemplate("", "x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgEmptyTemplateName)
	})

	t.Run("invalid source", func(t *testing.T) {
		err := engine.RegisterTemplate("broken", "{{ a")
		require.Error(t, err)
		assert.False(t, engine.HasTemplate("broken"))
	})

	t.Run("list and render", func(t *testing.T) {
		assert.Equal(t, []string{"footer", "header"}, engine.ListTemplates())
		assert.Equal(t, 2, engine.TemplateCount())

		out, err := engine.RenderTemplate("footer", Overrides{"year": Number(2025)})
		require.NoError(t, err)
		assert.Equal(t, "<footer>2025</footer>", out)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := engine.RenderTemplate("missing", nil)
		require.Error(t, err)
		assert.True(t, IsNotFoundError(err))
	})

	t.Run("unregister", func(t *testing.T) {
		assert.True(t, engine.UnregisterTemplate("footer"))
		assert.False(t, engine.UnregisterTemplate("footer"))
		_, ok := engine.GetTemplate("footer")
		assert.False(t, ok)
	})
}

func TestTemplate_ConcurrentRender(t *testing.T) {
	tmpl, err := MustNew().Parse(`<p>{{ n, type: number, defaultValue: 0 }}</p>`)
	require.NoError(t, err)

	const workers = 32
	var wg sync.WaitGroup
	results := make([]string, workers)
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = tmpl.Render(Overrides{"n": Number(float64(i))})
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, fmt.Sprintf("<p>%d</p>", i), results[i])
	}
}

func TestTemplate_Normalized(t *testing.T) {
	tmpl, err := MustNew().Parse(`<a>{{  title ,type:string,   defaultValue:"x"  }}</a>`)
	require.NoError(t, err)
	assert.Equal(t, `<a>{{ title, type: string, defaultValue: "x" }}</a>`, tmpl.Normalized())

	again, err := MustNew().Parse(tmpl.Normalized())
	require.NoError(t, err)
	assert.Equal(t, tmpl.Normalized(), again.Normalized())
}

func TestTemplate_Source(t *testing.T) {
	tmpl, err := MustNew().Parse(headerTemplate)
	require.NoError(t, err)
	assert.Equal(t, headerTemplate, tmpl.Source())
}
