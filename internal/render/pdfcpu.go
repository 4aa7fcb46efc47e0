package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/sirupsen/logrus"
)

// pdfcpuRenderer reads page geometry with pdfcpu
type pdfcpuRenderer struct {
	log logrus.FieldLogger
}

func (p *pdfcpuRenderer) Engine() EngineType {
	return EnginePDFCPU
}

func (p *pdfcpuRenderer) Open(ctx context.Context, content []byte) (*Document, error) {
	if err := checkOpen(ctx, EnginePDFCPU, content); err != nil {
		return nil, err
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pdfCtx, err := api.ReadContext(bytes.NewReader(content), conf)
	if err != nil {
		return nil, &RenderError{
			Engine: EnginePDFCPU,
			Op:     "open",
			Err:    fmt.Errorf("failed to read PDF context: %w", err),
		}
	}

	if err := pdfCtx.EnsurePageCount(); err != nil {
		return nil, &RenderError{
			Engine: EnginePDFCPU,
			Op:     "open",
			Err:    fmt.Errorf("failed to ensure page count: %w", err),
		}
	}

	dims, err := pdfCtx.PageDims()
	if err != nil {
		return nil, &RenderError{
			Engine: EnginePDFCPU,
			Op:     "page_dims",
			Err:    fmt.Errorf("failed to read page dimensions: %w", err),
		}
	}

	pages := make([]PageSize, len(dims))
	for i, d := range dims {
		pages[i] = PageSize{Width: d.Width, Height: d.Height, Unit: "pt"}
	}

	p.log.WithFields(logrus.Fields{"engine": EnginePDFCPU, "pages": pdfCtx.PageCount}).Debug("document opened")
	return newDocument(EnginePDFCPU, pages)
}
