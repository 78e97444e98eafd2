package balsa

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/itsatony/go-balsa/internal"
)

// Engine is the main entry point for parsing, cataloguing and rendering templates.
// It also keeps parsed templates by name. An Engine is safe for concurrent use.
type Engine struct {
	parser    *internal.Parser
	registry  *internal.Registry
	renderer  *internal.Renderer
	templates map[string]*Template // Named templates
	tmplMu    sync.RWMutex         // Protects templates map
	config    *engineConfig
	logger    *zap.Logger
}

// New creates a new balsa Engine with the given options.
func New(opts ...Option) (*Engine, error) {
	config := defaultEngineConfig()
	for _, opt := range opts {
		opt(config)
	}

	logger := config.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	scannerConfig := internal.ScannerConfig{
		OpenDelim:  config.openDelim,
		CloseDelim: config.closeDelim,
	}

	logger.Debug(LogMsgEngineCreated)
	return &Engine{
		parser:    internal.NewParserWithConfig(scannerConfig, logger),
		registry:  internal.NewRegistry(config.strictOverrides, logger),
		renderer:  internal.NewRenderer(logger),
		templates: make(map[string]*Template),
		config:    config,
		logger:    logger,
	}, nil
}

// MustNew creates a new Engine and panics if there's an error.
func MustNew(opts ...Option) *Engine {
	engine, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return engine
}

// Parse parses a template source string and returns a Template.
// The returned Template can be catalogued and rendered many times.
func (e *Engine) Parse(source string) (*Template, error) {
	if e.config.maxTemplateSize > 0 && len(source) > e.config.maxTemplateSize {
		return nil, NewTemplateTooLargeError(len(source), e.config.maxTemplateSize)
	}

	doc, err := e.parser.Parse(source)
	if err != nil {
		return nil, wrapPipelineError(err)
	}

	e.logger.Debug(LogMsgTemplateParsed, zap.Int(LogFieldSourceLength, len(source)))
	return newTemplate(source, doc, e), nil
}

// Catalogue is a convenience method that parses source and returns its variables.
func (e *Engine) Catalogue(source string) (*Catalogue, error) {
	tmpl, err := e.Parse(source)
	if err != nil {
		return nil, err
	}
	return tmpl.Catalogue()
}

// Render is a convenience method that parses and renders in one step.
// For templates that will be rendered multiple times, use Parse() instead.
func (e *Engine) Render(source string, overrides Overrides) (string, error) {
	tmpl, err := e.Parse(source)
	if err != nil {
		return "", err
	}
	return tmpl.Render(overrides)
}

// RegisterTemplate parses source and keeps it under name.
// Returns an error if a template with the same name already exists.
func (e *Engine) RegisterTemplate(name string, source string) error {
	if name == "" {
		return NewEmptyTemplateNameError()
	}

	e.tmplMu.Lock()
	defer e.tmplMu.Unlock()

	if _, exists := e.templates[name]; exists {
		return NewTemplateExistsError(name)
	}

	tmpl, err := e.Parse(source)
	if err != nil {
		return err
	}

	e.templates[name] = tmpl
	e.logger.Debug(LogMsgTemplateRegistered, zap.String(LogFieldTemplateName, name))
	return nil
}

// MustRegisterTemplate registers a template and panics on error.
func (e *Engine) MustRegisterTemplate(name string, source string) {
	if err := e.RegisterTemplate(name, source); err != nil {
		panic(err)
	}
}

// UnregisterTemplate removes a registered template by name.
// Returns true if the template existed and was removed, false otherwise.
func (e *Engine) UnregisterTemplate(name string) bool {
	e.tmplMu.Lock()
	defer e.tmplMu.Unlock()

	if _, exists := e.templates[name]; exists {
		delete(e.templates, name)
		return true
	}
	return false
}

// GetTemplate retrieves a registered template by name.
// Returns the template and true if found, or nil and false if not.
func (e *Engine) GetTemplate(name string) (*Template, bool) {
	e.tmplMu.RLock()
	defer e.tmplMu.RUnlock()

	tmpl, ok := e.templates[name]
	return tmpl, ok
}

// HasTemplate checks if a template is registered with the given name.
func (e *Engine) HasTemplate(name string) bool {
	e.tmplMu.RLock()
	defer e.tmplMu.RUnlock()

	_, ok := e.templates[name]
	return ok
}

// ListTemplates returns all registered template names in sorted order.
func (e *Engine) ListTemplates() []string {
	e.tmplMu.RLock()
	defer e.tmplMu.RUnlock()

	names := make([]string, 0, len(e.templates))
	for name := range e.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TemplateCount returns the number of registered templates.
func (e *Engine) TemplateCount() int {
	e.tmplMu.RLock()
	defer e.tmplMu.RUnlock()

	return len(e.templates)
}

// RenderTemplate renders a registered template by name.
func (e *Engine) RenderTemplate(name string, overrides Overrides) (string, error) {
	tmpl, ok := e.GetTemplate(name)
	if !ok {
		return "", NewTemplateNotFoundError(name)
	}
	return tmpl.Render(overrides)
}
