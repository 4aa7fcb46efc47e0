package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"
	"github.com/sirupsen/logrus"
)

// maxTreeDepth bounds the walk up the page tree
const maxTreeDepth = 32

// defaultPageSize is used when a page has no readable media box
var defaultPageSize = PageSize{Width: 612, Height: 792, Unit: "pt"}

// ledongthucRenderer reads page geometry with ledongthuc/pdf
type ledongthucRenderer struct {
	log logrus.FieldLogger
}

func (l *ledongthucRenderer) Engine() EngineType {
	return EngineLedongthuc
}

func (l *ledongthucRenderer) Open(ctx context.Context, content []byte) (doc *Document, err error) {
	if err := checkOpen(ctx, EngineLedongthuc, content); err != nil {
		return nil, err
	}

	// the library panics on some malformed objects
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = &RenderError{Engine: EngineLedongthuc, Op: "open", Err: fmt.Errorf("malformed PDF: %v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, &RenderError{
			Engine: EngineLedongthuc,
			Op:     "open",
			Err:    fmt.Errorf("failed to open PDF: %w", err),
		}
	}

	count := reader.NumPage()
	pages := make([]PageSize, 0, count)
	for i := 1; i <= count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, &RenderError{Engine: EngineLedongthuc, Op: "page_size", Err: err}
		}
		pages = append(pages, mediaBoxSize(reader.Page(i).V))
	}

	l.log.WithFields(logrus.Fields{"engine": EngineLedongthuc, "pages": count}).Debug("document opened")
	return newDocument(EngineLedongthuc, pages)
}

// mediaBoxSize reads MediaBox from the page or the nearest ancestor that
// defines it
func mediaBoxSize(v pdf.Value) PageSize {
	node := v
	for depth := 0; depth < maxTreeDepth && !node.IsNull(); depth++ {
		box := node.Key("MediaBox")
		if box.Len() != 4 {
			node = node.Key("Parent")
			continue
		}
		w := box.Index(2).Float64() - box.Index(0).Float64()
		h := box.Index(3).Float64() - box.Index(1).Float64()
		if w < 0 {
			w = -w
		}
		if h < 0 {
			h = -h
		}
		if w == 0 || h == 0 {
			break
		}
		return PageSize{Width: w, Height: h, Unit: "pt"}
	}
	return defaultPageSize
}
