package render

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-envelope-editor/internal/render/rendertest"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestParseEngine(t *testing.T) {
	for _, e := range Engines {
		got, err := ParseEngine(string(e))
		require.NoError(t, err)
		assert.Equal(t, e, got)
	}
	_, err := ParseEngine("mupdf")
	assert.ErrorIs(t, err, ErrUnsupportedEngine)
}

func TestNewRenderer(t *testing.T) {
	tests := []struct {
		engine  EngineType
		want    EngineType
		wantErr bool
	}{
		{EnginePDFCPU, EnginePDFCPU, false},
		{EngineLedongthuc, EngineLedongthuc, false},
		{EngineAuto, EngineAuto, false},
		{"", EngineAuto, false},
		{"poppler", "", true},
	}
	for _, tt := range tests {
		t.Run(string(tt.engine), func(t *testing.T) {
			r, err := NewRenderer(tt.engine, quietLogger())
			if tt.wantErr {
				require.Error(t, err)
				var renderErr *RenderError
				assert.True(t, errors.As(err, &renderErr))
				assert.ErrorIs(t, err, ErrUnsupportedEngine)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Engine())
		})
	}
}

func TestRenderer_OpenPageGeometry(t *testing.T) {
	content := rendertest.PDF(rendertest.Letter, rendertest.A4Landscape)

	for _, engine := range Engines {
		t.Run(string(engine), func(t *testing.T) {
			r, err := NewRenderer(engine, quietLogger())
			require.NoError(t, err)

			doc, err := r.Open(context.Background(), content)
			require.NoError(t, err)
			defer doc.Close()

			assert.Equal(t, 2, doc.PageCount())

			first, err := doc.PageSize(1)
			require.NoError(t, err)
			assert.InDelta(t, 612, first.Width, 0.01)
			assert.InDelta(t, 792, first.Height, 0.01)

			second, err := doc.PageSize(2)
			require.NoError(t, err)
			assert.InDelta(t, 842, second.Width, 0.01)
			assert.InDelta(t, 595, second.Height, 0.01)
		})
	}
}

func TestRenderer_OpenErrors(t *testing.T) {
	for _, engine := range Engines {
		t.Run(string(engine), func(t *testing.T) {
			r, err := NewRenderer(engine, quietLogger())
			require.NoError(t, err)

			_, err = r.Open(context.Background(), nil)
			assert.Error(t, err)

			_, err = r.Open(context.Background(), []byte("this is not a pdf"))
			var renderErr *RenderError
			assert.True(t, errors.As(err, &renderErr), "got %v", err)

			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err = r.Open(ctx, rendertest.PDF())
			assert.ErrorIs(t, err, context.Canceled)
		})
	}
}

func TestDocument_Viewport(t *testing.T) {
	doc, err := newDocument(EnginePDFCPU, []PageSize{{Width: 612, Height: 792, Unit: "pt"}})
	require.NoError(t, err)

	tests := []struct {
		name  string
		scale float64
		want  Viewport
	}{
		{"identity", 1, Viewport{Page: 1, Scale: 1, Width: 612, Height: 792}},
		{"zoomed", 1.5, Viewport{Page: 1, Scale: 1.5, Width: 918, Height: 1188}},
		{"rounds up", 0.333, Viewport{Page: 1, Scale: 0.333, Width: 204, Height: 264}},
		{"zero treated as 1", 0, Viewport{Page: 1, Scale: 1, Width: 612, Height: 792}},
		{"negative treated as 1", -2, Viewport{Page: 1, Scale: 1, Width: 612, Height: 792}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := doc.Viewport(1, tt.scale)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err = doc.Viewport(2, 1)
	assert.ErrorIs(t, err, ErrInvalidPage)
	_, err = doc.Viewport(0, 1)
	assert.ErrorIs(t, err, ErrInvalidPage)
}

func TestDocument_Closed(t *testing.T) {
	doc, err := newDocument(EngineLedongthuc, []PageSize{defaultPageSize})
	require.NoError(t, err)
	require.NoError(t, doc.Close())

	_, err = doc.PageSize(1)
	assert.ErrorIs(t, err, ErrDocumentClosed)
}

func TestNewDocument_NoPages(t *testing.T) {
	_, err := newDocument(EnginePDFCPU, nil)
	assert.ErrorIs(t, err, ErrNoPages)
}

func TestRenderError(t *testing.T) {
	inner := errors.New("boom")
	err := &RenderError{Engine: EnginePDFCPU, Op: "open", Err: inner}
	assert.Equal(t, "pdfcpu engine error in open: boom", err.Error())
	assert.ErrorIs(t, err, inner)
}
