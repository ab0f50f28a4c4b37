package batch

import (
	"github.com/phambaophuc/photomark/internal/services/metadata"
	"github.com/phambaophuc/photomark/internal/services/processor"
)

// Source yields the watermark for one input file. An error wrapping
// metadata.ErrNoCaptureDate skips the file instead of failing it.
type Source interface {
	Watermark(path string) (processor.Watermark, error)
}

// FixedSource applies the same watermark to every file.
type FixedSource struct {
	Mark processor.Watermark
}

func (s FixedSource) Watermark(string) (processor.Watermark, error) {
	return s.Mark, nil
}

// DateSource stamps each file with its own capture date.
type DateSource struct {
	Extractor *metadata.Extractor
	Template  processor.TextWatermark
}

func (s *DateSource) Watermark(path string) (processor.Watermark, error) {
	date, ok := s.Extractor.CaptureDate(path)
	if !ok {
		return nil, metadata.ErrNoCaptureDate
	}

	wm := s.Template
	wm.Text = date
	return &wm, nil
}
