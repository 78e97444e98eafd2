// Package balsa is a template engine for HTML with editable, typed placeholders.
//
// A placeholder carries a variable reference plus the metadata an editor needs:
// a declared type, a human-readable label and a default value. The engine
// produces two things from a template: a catalogue of editable variables and
// the rendered output for a set of override values.
//
//	<h1>{{ headerText : string, friendlyName: "Header text", defaultValue: "Hello world!" }}</h1>
//
// # Basic Usage
//
//	engine := balsa.MustNew()
//	tmpl, err := engine.Parse(source)
//	if err != nil {
//	    return err
//	}
//	catalogue, err := tmpl.Catalogue()
//	out, err := tmpl.Render(balsa.Overrides{"headerText": balsa.String("Welcome")})
//
// # Placeholder Syntax
//
// Declaration, silent in the output. Several variables may share one placeholder:
//
//	{{@ accent: color = "#ff6600", columns: number = 3 }}
//
// Editable reference, declares or augments a variable and writes its value:
//
//	{{ title, type: string, friendlyName: "Page title", defaultValue: $siteName }}
//	{{ title : string }}
//
// Value reference, writes the value of a variable declared anywhere in the template:
//
//	{{ $title }}
//
// Supported types are string, number, boolean and color. A default may be a
// literal or a reference to another variable; references are resolved in
// dependency order and must not form a cycle.
//
// # Error Handling
//
// Every failure is a *cuserr.CustomError carrying an error code and metadata
// (line, column, offset, variable, expected and actual type). The typed cause
// is reachable with errors.As:
//
//	_, err := engine.Render(source, overrides)
//	if balsa.IsTypeMismatchError(err) {
//	    var mismatch *balsa.TypeMismatchError
//	    errors.As(err, &mismatch)
//	}
//
// # Configuration
//
//	engine, _ := balsa.New(
//	    balsa.WithDelimiters("[[", "]]"),
//	    balsa.WithStrictOverrides(true),
//	    balsa.WithLogger(logger),
//	)
package balsa
