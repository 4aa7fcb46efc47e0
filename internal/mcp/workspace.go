package mcp

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/a3tai/mcp-envelope-editor/internal/documents"
	"github.com/a3tai/mcp-envelope-editor/internal/envelope"
	"github.com/a3tai/mcp-envelope-editor/internal/interaction"
	"github.com/a3tai/mcp-envelope-editor/internal/payload"
	"github.com/a3tai/mcp-envelope-editor/internal/render"
)

// Workspace is the editing session shared by every tool call. The store and
// the gesture controller are single-writer, so all access goes through the
// workspace mutex.
type Workspace struct {
	mu         sync.Mutex
	store      *envelope.Store
	controller *interaction.Controller
	loader     *documents.Loader
	renderer   render.Renderer
	zoom       float64
	subject    string
	log        logrus.FieldLogger
}

// WorkspaceOption configures a Workspace
type WorkspaceOption func(*Workspace)

// WithZoom sets the zoom gestures are interpreted at
func WithZoom(zoom float64) WorkspaceOption {
	return func(w *Workspace) {
		if zoom > 0 {
			w.zoom = zoom
		}
	}
}

// WithEmailSubject sets the subject fresh envelopes start with
func WithEmailSubject(subject string) WorkspaceOption {
	return func(w *Workspace) { w.subject = subject }
}

// WithStoreOptions passes options through to the envelope store
func WithStoreOptions(opts ...envelope.Option) WorkspaceOption {
	return func(w *Workspace) {
		w.store = envelope.NewStore(append([]envelope.Option{envelope.WithLogger(w.log)}, opts...)...)
	}
}

// NewWorkspace creates an empty envelope backed by loader and renderer
func NewWorkspace(loader *documents.Loader, renderer render.Renderer, log logrus.FieldLogger, opts ...WorkspaceOption) (*Workspace, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader cannot be nil")
	}
	if renderer == nil {
		return nil, fmt.Errorf("renderer cannot be nil")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	w := &Workspace{
		loader:   loader,
		renderer: renderer,
		zoom:     1,
		log:      log,
	}
	w.store = envelope.NewStore(envelope.WithLogger(log))
	for _, opt := range opts {
		opt(w)
	}
	w.controller = interaction.NewController(w.store, log)
	w.applyDefaults()
	return w, nil
}

// applyDefaults seeds the settings of a fresh envelope
func (w *Workspace) applyDefaults() {
	if w.subject != "" {
		subject := w.subject
		w.store.SetSettings(envelope.SettingsUpdate{EmailSubject: &subject})
	}
}

// Do runs fn with exclusive access to the store and the controller
func (w *Workspace) Do(fn func(store *envelope.Store, ctl *interaction.Controller) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return fn(w.store, w.controller)
}

// Zoom returns the zoom gestures are interpreted at
func (w *Workspace) Zoom() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.zoom
}

// SetZoom changes the gesture zoom. Non-positive values are ignored.
func (w *Workspace) SetZoom(zoom float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if zoom > 0 {
		w.zoom = zoom
	}
}

// Loader returns the document loader
func (w *Workspace) Loader() *documents.Loader {
	return w.loader
}

// AddDocument loads a PDF from the document directory and registers it. The
// file is read outside the lock.
func (w *Workspace) AddDocument(ctx context.Context, path string) (envelope.Document, documents.Loaded, error) {
	loaded, err := w.loader.Load(ctx, path)
	if err != nil {
		return envelope.Document{}, documents.Loaded{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	doc := documents.AddToStore(w.store, loaded)
	w.store.SetActiveDocument(doc.ID)
	return doc, loaded, nil
}

// Viewport measures a page of a registered document at scale
func (w *Workspace) Viewport(ctx context.Context, documentID string, page int, scale float64) (render.Viewport, error) {
	w.mu.Lock()
	if _, ok := w.store.Document(documentID); !ok {
		w.mu.Unlock()
		return render.Viewport{}, fmt.Errorf("document not found: %s", documentID)
	}
	content, ok := w.store.Binaries().Get(documentID)
	w.mu.Unlock()
	if !ok {
		return render.Viewport{}, fmt.Errorf("document %s has no content", documentID)
	}

	doc, err := w.renderer.Open(ctx, content)
	if err != nil {
		return render.Viewport{}, err
	}
	defer doc.Close()
	return doc.Viewport(page, scale)
}

// Export generates the envelope payload from a snapshot of the store
func (w *Workspace) Export() payload.Envelope {
	w.mu.Lock()
	snap := w.store.Snapshot()
	w.mu.Unlock()
	return payload.Generate(snap)
}

// Reset drops the envelope, ending any gesture in progress
func (w *Workspace) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.controller.End()
	w.store.Reset()
	w.applyDefaults()
}
