package documents

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/a3tai/mcp-envelope-editor/internal/envelope"
	"github.com/a3tai/mcp-envelope-editor/internal/render"
)

// Loaded is a document read from disk, ready to be added to a store
type Loaded struct {
	Name      string            `json:"name"`
	Path      string            `json:"path"`
	Size      int64             `json:"size"`
	PageCount int               `json:"page_count"`
	Pages     []render.PageSize `json:"pages"`
	Content   []byte            `json:"-"`
}

// FileInfo describes a PDF found in the document directory
type FileInfo struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// DocumentAdder is the part of envelope.Store that registers documents
type DocumentAdder interface {
	AddDocument(name string, content []byte, pageCount int) envelope.Document
}

// Loader reads PDFs from the configured directory
type Loader struct {
	validator   *PathValidator
	renderer    render.Renderer
	maxFileSize int64
	log         logrus.FieldLogger
}

// NewLoader creates a loader rooted at dir
func NewLoader(dir string, renderer render.Renderer, maxFileSize int64, log logrus.FieldLogger) (*Loader, error) {
	validator, err := NewPathValidator(dir)
	if err != nil {
		return nil, err
	}
	if maxFileSize <= 0 {
		return nil, ErrInvalidMaxBytes
	}
	if renderer == nil {
		return nil, fmt.Errorf("renderer cannot be nil")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Loader{
		validator:   validator,
		renderer:    renderer,
		maxFileSize: maxFileSize,
		log:         log,
	}, nil
}

// Directory returns the directory documents are loaded from
func (l *Loader) Directory() string {
	return l.validator.Directory()
}

// MaxFileSize returns the size limit in bytes
func (l *Loader) MaxFileSize() int64 {
	return l.maxFileSize
}

// Load validates path, reads the file and reads its page geometry
func (l *Loader) Load(ctx context.Context, path string) (Loaded, error) {
	absPath, err := l.validator.Normalize(path)
	if err != nil {
		return Loaded{}, err
	}

	info, err := os.Stat(absPath)
	if os.IsNotExist(err) {
		return Loaded{}, fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return Loaded{}, fmt.Errorf("cannot access file: %w", err)
	}
	if err := l.checkFile(absPath, info); err != nil {
		return Loaded{}, err
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return Loaded{}, fmt.Errorf("failed to read file: %w", err)
	}

	loaded, err := l.Inspect(ctx, filepath.Base(absPath), content)
	if err != nil {
		return Loaded{}, err
	}
	loaded.Path = absPath
	return loaded, nil
}

// Inspect reads the page geometry of in-memory document bytes
func (l *Loader) Inspect(ctx context.Context, name string, content []byte) (Loaded, error) {
	if len(content) == 0 {
		return Loaded{}, fmt.Errorf("%w: %s", ErrEmptyFile, name)
	}
	if int64(len(content)) > l.maxFileSize {
		return Loaded{}, fmt.Errorf("%w: %d bytes (max: %d bytes)", ErrFileTooLarge, len(content), l.maxFileSize)
	}

	doc, err := l.renderer.Open(ctx, content)
	if err != nil {
		return Loaded{}, fmt.Errorf("failed to read %s: %w", name, err)
	}
	defer doc.Close()

	pages := make([]render.PageSize, 0, doc.PageCount())
	for p := 1; p <= doc.PageCount(); p++ {
		size, err := doc.PageSize(p)
		if err != nil {
			return Loaded{}, err
		}
		pages = append(pages, size)
	}

	l.log.WithFields(logrus.Fields{
		"name":   name,
		"pages":  len(pages),
		"engine": doc.Engine(),
	}).Debug("document inspected")

	return Loaded{
		Name:      name,
		Size:      int64(len(content)),
		PageCount: len(pages),
		Pages:     pages,
		Content:   content,
	}, nil
}

// AddToStore registers a loaded document. The bytes go to the store's
// binary table, not into the document record.
func AddToStore(store DocumentAdder, loaded Loaded) envelope.Document {
	return store.AddDocument(loaded.Name, loaded.Content, loaded.PageCount)
}

// List returns the PDFs under the document directory, sorted by path
func (l *Loader) List() ([]FileInfo, error) {
	dir := l.validator.Directory()
	var files []FileInfo

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// unreadable entries are skipped
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".pdf") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		files = append(files, FileInfo{
			Name:    d.Name(),
			Path:    path,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// checkFile applies the type and size rules to a file on disk
func (l *Loader) checkFile(path string, info os.FileInfo) error {
	if info.IsDir() {
		return fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return fmt.Errorf("%w: %s", ErrNotPDF, path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}
	if info.Size() > l.maxFileSize {
		return fmt.Errorf("%w: %d bytes (max: %d bytes)", ErrFileTooLarge, info.Size(), l.maxFileSize)
	}
	return nil
}
