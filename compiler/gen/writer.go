package gen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/syssam/magicdao/compiler/load"
)

// Writer writes the generated files of a package with parallel execution.
type Writer struct {
	cfg *Config

	mu      sync.Mutex
	metrics WriterMetrics
}

// WriterMetrics tracks generation output.
type WriterMetrics struct {
	FilesGenerated int
	TotalBytes     int64
}

// NewWriter creates a new writer.
func NewWriter(cfg *Config) *Writer {
	return &Writer{cfg: cfg}
}

// Metrics returns the generation metrics.
func (w *Writer) Metrics() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

// Write generates one file per entity of pkg and returns their paths in
// entity order.
func (w *Writer) Write(ctx context.Context, pkg *load.Package) ([]string, error) {
	dir := w.cfg.Target
	if dir == "" {
		dir = pkg.Dir
	}
	if dir == "" {
		return nil, NewConfigError("Target", nil, "missing target directory in config")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	paths := make([]string, len(pkg.Entities))
	eg, ctx := errgroup.WithContext(ctx)
	if w.cfg.Workers > 0 {
		eg.SetLimit(w.cfg.Workers)
	}
	for i, e := range pkg.Entities {
		paths[i] = filepath.Join(dir, w.cfg.FileName(e))
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return w.writeFile(pkg, e, paths[i])
			}
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

// writeFile generates a single file.
func (w *Writer) writeFile(pkg *load.Package, e *load.Entity, path string) error {
	out, err := Source(pkg, e, w.cfg)
	if err != nil {
		if out != nil {
			// Write unformatted file for debugging (errors intentionally ignored as we're already in error state)
			debugPath := path + ".error"
			_ = os.WriteFile(debugPath, out, 0o644)
			return fmt.Errorf("%w (unformatted written to %s)", err, debugPath)
		}
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return &GenerationError{File: path, Cause: err}
	}
	w.mu.Lock()
	w.metrics.FilesGenerated++
	w.metrics.TotalBytes += int64(len(out))
	w.mu.Unlock()
	return nil
}

// Generate is the convenience function that writes the files of pkg.
func Generate(ctx context.Context, pkg *load.Package, cfg *Config) ([]string, error) {
	if cfg == nil {
		return nil, NewConfigError("Config", nil, "missing config")
	}
	return NewWriter(cfg).Write(ctx, pkg)
}
