// Package render reads page geometry out of uploaded documents so the
// overlay can be sized to match the rendered pages.
//
// Rasterizing page content is left to the viewer. An engine only has to report
// the page count and each page's dimensions; Viewport turns those into the
// pixel size of a page at a zoom scale.
package render

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// EngineType names a PDF library backing a Renderer
type EngineType string

const (
	EngineAuto       EngineType = "auto"
	EnginePDFCPU     EngineType = "pdfcpu"
	EngineLedongthuc EngineType = "ledongthuc"
)

// Engines lists the accepted engine names
var Engines = []EngineType{EngineAuto, EnginePDFCPU, EngineLedongthuc}

// ParseEngine validates an engine name
func ParseEngine(s string) (EngineType, error) {
	for _, e := range Engines {
		if string(e) == s {
			return e, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedEngine, s)
}

var (
	ErrUnsupportedEngine = errors.New("unsupported render engine")
	ErrEmptyContent      = errors.New("document content is empty")
	ErrInvalidPage       = errors.New("invalid page number")
	ErrDocumentClosed    = errors.New("document is closed")
	ErrNoPages           = errors.New("document has no pages")
)

// RenderError records which engine failed and during which operation
type RenderError struct {
	Engine EngineType `json:"engine"`
	Op     string     `json:"operation"`
	Err    error      `json:"error"`
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("%s engine error in %s: %v", e.Engine, e.Op, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// PageSize is a page's media box size in PDF points
type PageSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Unit   string  `json:"unit"`
}

// Viewport is the pixel size of one page at a zoom scale
type Viewport struct {
	Page   int     `json:"page"`
	Scale  float64 `json:"scale"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
}

// Renderer opens raw document bytes
type Renderer interface {
	Open(ctx context.Context, content []byte) (*Document, error)
	Engine() EngineType
}

// NewRenderer returns the renderer for an engine
func NewRenderer(engine EngineType, log logrus.FieldLogger) (Renderer, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	switch engine {
	case EnginePDFCPU:
		return &pdfcpuRenderer{log: log}, nil
	case EngineLedongthuc:
		return &ledongthucRenderer{log: log}, nil
	case EngineAuto, "":
		return &autoRenderer{
			primary:  &pdfcpuRenderer{log: log},
			fallback: &ledongthucRenderer{log: log},
			log:      log,
		}, nil
	default:
		return nil, &RenderError{Engine: engine, Op: "create", Err: fmt.Errorf("%w: %s", ErrUnsupportedEngine, engine)}
	}
}

// Document holds the page geometry read from one file
type Document struct {
	engine EngineType
	pages  []PageSize
	closed bool
}

// newDocument validates the page list produced by an engine
func newDocument(engine EngineType, pages []PageSize) (*Document, error) {
	if len(pages) == 0 {
		return nil, &RenderError{Engine: engine, Op: "open", Err: ErrNoPages}
	}
	return &Document{engine: engine, pages: pages}, nil
}

// Engine returns the engine that read the document
func (d *Document) Engine() EngineType {
	return d.engine
}

// PageCount returns the number of pages
func (d *Document) PageCount() int {
	return len(d.pages)
}

// PageSize returns the size of a 1-based page
func (d *Document) PageSize(page int) (PageSize, error) {
	if d.closed {
		return PageSize{}, &RenderError{Engine: d.engine, Op: "page_size", Err: ErrDocumentClosed}
	}
	if page < 1 || page > len(d.pages) {
		return PageSize{}, &RenderError{
			Engine: d.engine,
			Op:     "page_size",
			Err:    fmt.Errorf("%w: %d (document has %d pages)", ErrInvalidPage, page, len(d.pages)),
		}
	}
	return d.pages[page-1], nil
}

// Viewport returns the pixel size of page at scale. Scales <= 0 render at 1.
func (d *Document) Viewport(page int, scale float64) (Viewport, error) {
	size, err := d.PageSize(page)
	if err != nil {
		return Viewport{}, err
	}
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		scale = 1
	}
	return Viewport{
		Page:   page,
		Scale:  scale,
		Width:  int(math.Ceil(size.Width * scale)),
		Height: int(math.Ceil(size.Height * scale)),
	}, nil
}

// Close releases the document
func (d *Document) Close() error {
	d.closed = true
	return nil
}

// autoRenderer tries pdfcpu first and falls back to ledongthuc
type autoRenderer struct {
	primary  Renderer
	fallback Renderer
	log      logrus.FieldLogger
}

func (a *autoRenderer) Engine() EngineType {
	return EngineAuto
}

func (a *autoRenderer) Open(ctx context.Context, content []byte) (*Document, error) {
	doc, err := a.primary.Open(ctx, content)
	if err == nil {
		return doc, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}
	a.log.WithError(err).WithField("engine", a.fallback.Engine()).Debug("primary engine failed, trying fallback")

	doc, fallbackErr := a.fallback.Open(ctx, content)
	if fallbackErr != nil {
		return nil, &RenderError{
			Engine: EngineAuto,
			Op:     "open",
			Err:    fmt.Errorf("all engines failed: %w; %w", err, fallbackErr),
		}
	}
	return doc, nil
}

// checkOpen runs the checks shared by every engine before parsing
func checkOpen(ctx context.Context, engine EngineType, content []byte) error {
	if err := ctx.Err(); err != nil {
		return &RenderError{Engine: engine, Op: "open", Err: err}
	}
	if len(content) == 0 {
		return &RenderError{Engine: engine, Op: "open", Err: ErrEmptyContent}
	}
	return nil
}
