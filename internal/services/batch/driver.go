package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/phambaophuc/photomark/internal/models"
	"github.com/phambaophuc/photomark/internal/services/metadata"
	"github.com/phambaophuc/photomark/internal/services/processor"
	"github.com/phambaophuc/photomark/internal/services/storage"
	"go.uber.org/zap"
)

// Options is the fully resolved input/output contract of one run.
type Options struct {
	Input string
	// Output is a directory in directory mode and a file or existing
	// directory in single-file mode. Empty means DefaultOutputDir.
	Output string
	// OutputIsDir makes Output a directory in single-file mode as well,
	// created on demand.
	OutputIsDir bool
	// ForceDir rejects non-directory inputs.
	ForceDir  bool
	DirSuffix string
}

type outcome int

const (
	processed outcome = iota
	skipped
	failed
)

// Driver runs the resolver → source → compositor → writer pipeline one file
// at a time.
type Driver struct {
	processor *processor.ImageProcessor
	writer    *storage.LocalWriter
	logger    *zap.Logger
}

func NewDriver(p *processor.ImageProcessor, w *storage.LocalWriter, logger *zap.Logger) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{processor: p, writer: w, logger: logger}
}

// Run processes opts.Input with watermarks from src. Per-file failures are
// logged and counted; only problems with the input or output location, or a
// failing single-file run, are returned as errors.
func (d *Driver) Run(opts Options, src Source) (models.BatchResult, error) {
	target, err := Resolve(opts.Input)
	if err != nil {
		return models.BatchResult{}, err
	}

	if target.IsDir {
		return d.runDir(target.Path, opts, src)
	}
	if opts.ForceDir {
		return models.BatchResult{}, fmt.Errorf("%w: %s", ErrNotDirectory, target.Path)
	}
	return d.runFile(target.Path, opts, src)
}

func (d *Driver) runDir(dir string, opts Options, src Source) (models.BatchResult, error) {
	var result models.BatchResult

	outDir := opts.Output
	if outDir == "" {
		var err error
		if outDir, err = DefaultOutputDir(dir, opts.DirSuffix); err != nil {
			return result, err
		}
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return result, fmt.Errorf("failed to create output directory: %w", err)
	}

	files, err := ListImages(dir)
	if err != nil {
		return result, err
	}

	d.logger.Info("Processing directory",
		zap.String("input", dir),
		zap.String("output", outDir),
		zap.Int("images", len(files)))

	for _, path := range files {
		dst := filepath.Join(outDir, filepath.Base(path))
		d.record(&result, dst, d.processFile(path, dst, src))
	}

	d.logger.Info("Batch finished",
		zap.Int("processed", result.Processed),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed))

	return result, nil
}

func (d *Driver) runFile(path string, opts Options, src Source) (models.BatchResult, error) {
	var result models.BatchResult

	dst, err := singleOutputPath(path, opts)
	if err != nil {
		return result, err
	}

	o := d.processFile(path, dst, src)
	d.record(&result, dst, o)
	if o == failed {
		return result, fmt.Errorf("failed to watermark %s", path)
	}
	return result, nil
}

func singleOutputPath(path string, opts Options) (string, error) {
	name := filepath.Base(path)

	if opts.Output == "" {
		dir, err := DefaultOutputDir(filepath.Dir(path), opts.DirSuffix)
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, name), nil
	}

	if opts.OutputIsDir || strings.HasSuffix(opts.Output, string(filepath.Separator)) {
		return filepath.Join(opts.Output, name), nil
	}
	if info, err := os.Stat(opts.Output); err == nil && info.IsDir() {
		return filepath.Join(opts.Output, name), nil
	}
	return opts.Output, nil
}

func (d *Driver) record(result *models.BatchResult, dst string, o outcome) {
	switch o {
	case processed:
		result.Processed++
		result.Outputs = append(result.Outputs, dst)
	case skipped:
		result.Skipped++
	default:
		result.Failed++
	}
}

func (d *Driver) processFile(path, dst string, src Source) outcome {
	log := d.logger.With(zap.String("file", filepath.Base(path)))

	wm, err := src.Watermark(path)
	if errors.Is(err, metadata.ErrNoCaptureDate) {
		log.Info("Cannot extract capture date, skipping file")
		return skipped
	}
	if err != nil {
		log.Error("Failed to prepare watermark", zap.Error(err))
		return failed
	}

	img, err := d.processor.Open(path)
	if err != nil {
		log.Error("Failed to load image", zap.Error(err))
		return failed
	}

	out, err := d.processor.Apply(img, wm)
	if err != nil {
		log.Error("Failed to add watermark", zap.Error(err))
		return failed
	}

	if err := d.writer.Save(out, dst); err != nil {
		log.Error("Failed to write output", zap.Error(err))
		return failed
	}

	log.Info("Watermark added", zap.String("output", dst))
	return processed
}
