package documents

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-envelope-editor/internal/envelope"
	"github.com/a3tai/mcp-envelope-editor/internal/render"
	"github.com/a3tai/mcp-envelope-editor/internal/render/rendertest"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newLoader(t *testing.T, dir string, maxSize int64) *Loader {
	t.Helper()
	r, err := render.NewRenderer(render.EngineAuto, quietLogger())
	require.NoError(t, err)
	l, err := NewLoader(dir, r, maxSize, quietLogger())
	require.NoError(t, err)
	return l
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestNewPathValidator(t *testing.T) {
	_, err := NewPathValidator("")
	assert.ErrorIs(t, err, ErrEmptyDirectory)

	v, err := NewPathValidator("/does/not/exist/yet")
	require.NoError(t, err)
	assert.Equal(t, "/does/not/exist/yet", v.Directory())
}

func TestPathValidator_Normalize(t *testing.T) {
	dir := t.TempDir()
	v, err := NewPathValidator(dir)
	require.NoError(t, err)

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr error
	}{
		{"relative file", "contract.pdf", filepath.Join(dir, "contract.pdf"), nil},
		{"nested relative", "sub/annex.pdf", filepath.Join(dir, "sub", "annex.pdf"), nil},
		{"absolute inside", filepath.Join(dir, "a.pdf"), filepath.Join(dir, "a.pdf"), nil},
		{"dot segments stay inside", "sub/../b.pdf", filepath.Join(dir, "b.pdf"), nil},
		{"escape with dot dot", "../outside.pdf", "", ErrOutsideDir},
		{"absolute outside", "/etc/passwd", "", ErrOutsideDir},
		{"empty", "", "", ErrEmptyPath},
		{"null bytes only", "\x00", "", ErrEmptyPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Normalize(tt.path)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPathValidator_SymlinkOutside(t *testing.T) {
	dir := t.TempDir()
	outside := t.TempDir()
	target := filepath.Join(outside, "secret.pdf")
	writeFile(t, target, rendertest.PDF())

	link := filepath.Join(dir, "link.pdf")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	v, err := NewPathValidator(dir)
	require.NoError(t, err)

	_, err = v.Normalize("link.pdf")
	assert.ErrorIs(t, err, ErrOutsideDir)
}

func TestNewLoader(t *testing.T) {
	r, err := render.NewRenderer(render.EngineAuto, quietLogger())
	require.NoError(t, err)

	_, err = NewLoader("", r, 1024, nil)
	assert.ErrorIs(t, err, ErrEmptyDirectory)
	_, err = NewLoader(t.TempDir(), r, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidMaxBytes)
	_, err = NewLoader(t.TempDir(), nil, 1024, nil)
	assert.Error(t, err)
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	content := rendertest.PDF(rendertest.Letter, rendertest.A4Landscape, rendertest.Letter)
	writeFile(t, filepath.Join(dir, "contract.pdf"), content)

	l := newLoader(t, dir, 10*1024*1024)
	loaded, err := l.Load(context.Background(), "contract.pdf")
	require.NoError(t, err)

	assert.Equal(t, "contract.pdf", loaded.Name)
	assert.Equal(t, filepath.Join(dir, "contract.pdf"), loaded.Path)
	assert.Equal(t, 3, loaded.PageCount)
	assert.Equal(t, int64(len(content)), loaded.Size)
	assert.Equal(t, content, loaded.Content)
	require.Len(t, loaded.Pages, 3)
	assert.InDelta(t, 842, loaded.Pages[1].Width, 0.01)
}

func TestLoader_LoadErrors(t *testing.T) {
	dir := t.TempDir()
	pdf := rendertest.PDF()
	writeFile(t, filepath.Join(dir, "notes.txt"), []byte("hello"))
	writeFile(t, filepath.Join(dir, "empty.pdf"), nil)
	writeFile(t, filepath.Join(dir, "big.pdf"), pdf)
	writeFile(t, filepath.Join(dir, "broken.pdf"), []byte("not a pdf at all"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.pdf"), 0o755))

	l := newLoader(t, dir, int64(len(pdf)-1))

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"wrong extension", "notes.txt", ErrNotPDF},
		{"empty file", "empty.pdf", ErrEmptyFile},
		{"too large", "big.pdf", ErrFileTooLarge},
		{"directory", "folder.pdf", ErrIsDirectory},
		{"outside", "../x.pdf", ErrOutsideDir},
		{"missing", "missing.pdf", nil},
		{"unparseable", "broken.pdf", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.Load(context.Background(), tt.path)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestAddToStore(t *testing.T) {
	dir := t.TempDir()
	content := rendertest.PDF(rendertest.Letter, rendertest.Letter)
	writeFile(t, filepath.Join(dir, "a.pdf"), content)

	l := newLoader(t, dir, 1<<20)
	loaded, err := l.Load(context.Background(), "a.pdf")
	require.NoError(t, err)

	store := envelope.NewStore(envelope.WithLogger(quietLogger()))
	doc := AddToStore(store, loaded)

	assert.Equal(t, "a.pdf", doc.Name)
	assert.Equal(t, 2, doc.PageCount)
	stored, ok := store.Binaries().Get(doc.ID)
	require.True(t, ok)
	assert.Equal(t, content, stored)
}

func TestLoader_List(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.pdf"), rendertest.PDF())
	writeFile(t, filepath.Join(dir, "a.PDF"), rendertest.PDF())
	writeFile(t, filepath.Join(dir, "sub", "c.pdf"), rendertest.PDF())
	writeFile(t, filepath.Join(dir, "readme.md"), []byte("#"))

	l := newLoader(t, dir, 1<<20)
	files, err := l.List()
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"a.PDF", "b.pdf", "c.pdf"}, names)
}

func TestLoader_ListMissingDirectory(t *testing.T) {
	l := newLoader(t, filepath.Join(t.TempDir(), "nope"), 1<<20)
	files, err := l.List()
	require.NoError(t, err)
	assert.Empty(t, files)
}
