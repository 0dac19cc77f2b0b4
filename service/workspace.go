package service

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/ardnew/jtl/lang"
	"github.com/ardnew/jtl/log"
)

// Workspace errors.
var (
	ErrNotOpen      = lang.NewError("document not open")
	ErrStaleVersion = lang.NewError("stale document version")
)

// Workspace tracks open documents by URI and answers editor requests
// against them. Parse results are shared between documents with identical
// content and evicted once no open document holds that content. A Workspace
// is safe for concurrent use.
type Workspace struct {
	mu     sync.RWMutex
	docs   map[string]*document
	refs   map[string]int // open documents per content
	schema *Schema

	cache  *lang.Cache
	logger log.Logger
}

type document struct {
	version int
	text    string
	parsed  *lang.Parsed
}

// Option configures a [Workspace].
type Option func(*Workspace)

// WithLogger sets the logger for document lifecycle events.
func WithLogger(logger log.Logger) Option {
	return func(w *Workspace) {
		w.logger = logger
	}
}

// WithSchema sets the schema used for completion, hover, and validation.
func WithSchema(schema *Schema) Option {
	return func(w *Workspace) {
		w.schema = schema
	}
}

// NewWorkspace returns an empty Workspace.
func NewWorkspace(opts ...Option) *Workspace {
	w := &Workspace{docs: map[string]*document{}, refs: map[string]int{}}

	for _, opt := range opts {
		opt(w)
	}

	w.cache = lang.NewCache(w.logger)

	return w
}

// SetSchema replaces the schema.
func (w *Workspace) SetSchema(schema *Schema) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.schema = schema
}

// Open starts tracking a document, replacing any document open at uri.
func (w *Workspace) Open(ctx context.Context, uri string, version int, text string) {
	w.mu.Lock()
	w.store(ctx, uri, version, text)
	w.mu.Unlock()

	w.logger.DebugContext(ctx, "open document",
		slog.String("uri", uri),
		slog.Int("version", version),
	)
}

// Update replaces the content of an open document. The version must be
// greater than the current version.
func (w *Workspace) Update(
	ctx context.Context,
	uri string,
	version int,
	text string,
) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	doc, ok := w.docs[uri]
	if !ok {
		return ErrNotOpen.With(slog.String("uri", uri))
	}

	if version <= doc.version {
		return ErrStaleVersion.With(
			slog.String("uri", uri),
			slog.Int("version", version),
			slog.Int("current", doc.version),
		)
	}

	w.store(ctx, uri, version, text)

	w.logger.TraceContext(ctx, "update document",
		slog.String("uri", uri),
		slog.Int("version", version),
	)

	return nil
}

// Close stops tracking a document.
func (w *Workspace) Close(ctx context.Context, uri string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if doc, ok := w.docs[uri]; ok {
		delete(w.docs, uri)
		w.release(doc.text)
	}

	w.logger.DebugContext(ctx, "close document", slog.String("uri", uri))
}

// store parses text and installs it at uri, releasing the content it
// replaces. The caller holds w.mu.
func (w *Workspace) store(ctx context.Context, uri string, version int, text string) {
	w.refs[text]++

	doc := &document{version: version, text: text, parsed: w.cache.Parse(ctx, text)}

	if old, ok := w.docs[uri]; ok {
		w.release(old.text)
	}

	w.docs[uri] = doc
}

// release drops one reference to text and evicts its parse when none remain.
func (w *Workspace) release(text string) {
	w.refs[text]--

	if w.refs[text] > 0 {
		return
	}

	delete(w.refs, text)
	w.cache.Evict(text)
}

// Documents returns the URIs of the open documents in sorted order.
func (w *Workspace) Documents() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return slices.Sorted(maps.Keys(w.docs))
}

// Version returns the version of an open document.
func (w *Workspace) Version(uri string) (int, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	doc, ok := w.docs[uri]
	if !ok {
		return 0, false
	}

	return doc.version, true
}

func (w *Workspace) get(uri string) (*lang.Parsed, *Schema, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	doc, ok := w.docs[uri]
	if !ok {
		return nil, nil, ErrNotOpen.With(slog.String("uri", uri))
	}

	return doc.parsed, w.schema, nil
}

// Diagnose returns the findings for an open document: those of [Validate]
// if a schema is set, otherwise those of [Diagnose].
func (w *Workspace) Diagnose(uri string) ([]lang.Diagnostic, error) {
	parsed, schema, err := w.get(uri)
	if err != nil {
		return nil, err
	}

	return validate(parsed, schema), nil
}

// Complete returns the completions at a position of an open document.
func (w *Workspace) Complete(uri string, at lang.Position) ([]Completion, error) {
	parsed, schema, err := w.get(uri)
	if err != nil {
		return nil, err
	}

	return complete(parsed, at, schema), nil
}

// Hover describes the property segment at a position of an open document.
func (w *Workspace) Hover(uri string, at lang.Position) (Tooltip, bool, error) {
	parsed, schema, err := w.get(uri)
	if err != nil {
		return Tooltip{}, false, err
	}

	tip, ok := hover(parsed, at, schema)

	return tip, ok, nil
}
