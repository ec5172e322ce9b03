package imagegen

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"hashart/shutdown"
)

// maxFilenameLen keeps names well under common filesystem limits.
const maxFilenameLen = 200

// Writer saves renders into one output directory. Files are written to a
// temporary name and renamed into place, so a reader never sees a
// half-written image and an interrupted run leaves only temp files behind
// (see shutdown.RemovePartialRenders).
//
// Writer is safe for concurrent use as long as callers write different names.
type Writer struct {
	dir string
}

// NewWriter creates dir if needed and returns a Writer for it.
func NewWriter(dir string) (*Writer, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("imagegen: failed to create output directory: %w", err)
	}
	return &Writer{dir: dir}, nil
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Path returns where a file called name+ext would be written.
func (w *Writer) Path(name, ext string) string {
	return filepath.Join(w.dir, sanitizeFilename(name)+ext)
}

// WriteFile streams fn's output to name+ext and returns the final path and
// size. Any existing file of that name is replaced.
func (w *Writer) WriteFile(name, ext string, fn func(io.Writer) error) (string, int64, error) {
	if strings.TrimSpace(name) == "" {
		return "", 0, ErrEmptyFilename
	}
	final := w.Path(name, ext)

	tmp, err := os.CreateTemp(w.dir, shutdown.PartialRenderPattern)
	if err != nil {
		return "", 0, fmt.Errorf("imagegen: failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	cw := &countingWriter{w: tmp}
	buf := bufio.NewWriter(cw)
	if err := fn(buf); err != nil {
		return "", 0, err
	}
	if err := buf.Flush(); err != nil {
		return "", 0, fmt.Errorf("imagegen: failed to write %s: %w", filepath.Base(final), err)
	}
	if err := tmp.Sync(); err != nil {
		return "", 0, fmt.Errorf("imagegen: failed to sync %s: %w", filepath.Base(final), err)
	}
	if err := tmp.Close(); err != nil {
		return "", 0, fmt.Errorf("imagegen: failed to close %s: %w", filepath.Base(final), err)
	}
	// CreateTemp uses 0600; renders are meant to be shared.
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return "", 0, fmt.Errorf("imagegen: failed to chmod %s: %w", filepath.Base(final), err)
	}
	if err := os.Rename(tmpPath, final); err != nil {
		return "", 0, fmt.Errorf("imagegen: failed to move %s into place: %w", filepath.Base(final), err)
	}
	committed = true
	return final, cw.n, nil
}

// WriteBytes is WriteFile for data already in memory.
func (w *Writer) WriteBytes(name, ext string, data []byte) (string, int64, error) {
	return w.WriteFile(name, ext, func(out io.Writer) error {
		_, err := out.Write(data)
		return err
	})
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// sanitizeFilename replaces characters that are unsafe in filenames.
func sanitizeFilename(name string) string {
	unsafe := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|", "\n", "\r", "\t"}
	result := strings.TrimSpace(name)
	for _, char := range unsafe {
		result = strings.ReplaceAll(result, char, "_")
	}
	if len(result) > maxFilenameLen {
		result = result[:maxFilenameLen]
	}
	if result == "" || result == "." || result == ".." {
		result = "render"
	}
	return result
}
