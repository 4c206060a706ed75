// Package export writes rendered figures to disk in one or more formats.
package export

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/banshee-data/wg1plot/internal/canvas"
	"github.com/banshee-data/wg1plot/internal/fsutil"
	"github.com/banshee-data/wg1plot/internal/monitoring"
)

// DefaultFormats are written when Export is called without formats.
var DefaultFormats = []string{".pdf", ".png"}

// ErrFilename is returned for empty file names or names with a directory
// component.
var ErrFilename = errors.New("invalid file name")

// Figure is a rendered figure that can be encoded in several formats.
// *canvas.Figure implements it.
type Figure interface {
	WriteTo(w io.Writer, format string) (int64, error)
	Axes() [][]*canvas.Axes
}

var _ Figure = (*canvas.Figure)(nil)

// Export writes fig to targetDir/filename+ext for every extension in formats
// and returns the written paths. targetDir is created if missing. The
// extension ".html" writes an interactive page of the plotted series.
func Export(fsys fsutil.FileSystem, fig Figure, filename, targetDir string, formats ...string) ([]string, error) {
	if filename == "" || filename != filepath.Base(filename) {
		return nil, fmt.Errorf("%w: %q", ErrFilename, filename)
	}
	if len(formats) == 0 {
		formats = DefaultFormats
	}
	if targetDir == "" {
		targetDir = "."
	}
	if err := fsys.MkdirAll(targetDir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", targetDir, err)
	}

	written := make([]string, 0, len(formats))
	for _, format := range formats {
		ext := "." + strings.ToLower(strings.TrimPrefix(format, "."))
		path := filepath.Join(targetDir, filename+ext)
		if err := writeOne(fsys, fig, path, ext); err != nil {
			return written, err
		}
		monitoring.Logf("export: wrote %s", path)
		written = append(written, path)
	}
	return written, nil
}

func writeOne(fsys fsutil.FileSystem, fig Figure, path, ext string) (err error) {
	w, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	if ext == ".html" {
		title := strings.TrimSuffix(filepath.Base(path), ext)
		if err := WriteHTML(w, fig, title); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		return nil
	}
	if _, err := fig.WriteTo(w, ext); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
