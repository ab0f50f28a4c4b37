package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/phambaophuc/photomark/internal/config"
	"github.com/phambaophuc/photomark/internal/models"
	"github.com/phambaophuc/photomark/internal/services/batch"
	"github.com/phambaophuc/photomark/internal/services/processor"
	"github.com/spf13/cobra"
)

var positionUsage = "watermark position: " + joinPositions()

type markOptions struct {
	input     string
	output    string
	text      string
	watermark string
	opacity   int
	fontSize  int
	color     string
	position  string
	scale     float64
	batch     bool
}

func newMarkCmd(a *app) *cobra.Command {
	o := &markOptions{}

	cmd := &cobra.Command{
		Use:   "mark",
		Short: "Stamp photos with a text or image watermark",
		Long: `Stamp a photo, or every photo in a directory, with a fixed text or a logo
image. Exactly one of --text and --watermark is required.

A directory input is processed as a batch and --output names the output
directory. For a single photo --output is the output file, whose extension
picks the encoding, or an existing directory.

Image watermarks are scaled to --scale times the photo width and placed at
the bottom-right corner.

Examples:
  photomark mark -i photo.jpg -o out.jpg --text "(c) 2024 Jane"
  photomark mark -i ./shots -o ./stamped --watermark logo.png --scale 0.15 --batch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMark(cmd, o)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.input, "input", "i", "", "photo or directory of photos")
	f.StringVarP(&o.output, "output", "o", "", "output file or directory")
	f.StringVarP(&o.text, "text", "t", "", "watermark text")
	f.StringVarP(&o.watermark, "watermark", "w", "", "watermark image file")
	f.IntVar(&o.opacity, "opacity", config.DefaultOpacity, "watermark opacity, 0-255")
	f.IntVar(&o.fontSize, "font-size", config.DefaultFontSize, "font size in pixels (text)")
	f.StringVar(&o.color, "color", config.DefaultColor, "text color as R,G,B (text)")
	f.StringVar(&o.position, "position", config.DefaultPosition, positionUsage+" (text)")
	f.Float64Var(&o.scale, "scale", config.DefaultScale, "watermark width as a fraction of the photo width (image)")
	f.BoolVarP(&o.batch, "batch", "b", false, "require the input to be a directory")

	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")
	cmd.MarkFlagsMutuallyExclusive("text", "watermark")
	cmd.MarkFlagsOneRequired("text", "watermark")

	return cmd
}

func (a *app) runMark(cmd *cobra.Command, o *markOptions) error {
	wm, err := a.buildMark(cmd, o)
	if err != nil {
		return err
	}

	_, err = a.driver().Run(batch.Options{
		Input:     o.input,
		Output:    o.output,
		ForceDir:  o.batch,
		DirSuffix: a.cfg.Output.DirSuffix,
	}, batch.FixedSource{Mark: wm})
	return err
}

func (a *app) buildMark(cmd *cobra.Command, o *markOptions) (processor.Watermark, error) {
	wc := a.cfg.Watermark
	builder := processor.NewBuilder(a.fonts(), a.logger)
	opacity := flagOr(cmd, "opacity", o.opacity, wc.Opacity)

	if cmd.Flags().Changed("watermark") {
		mark, err := processor.NewImageProcessor(a.logger).Open(o.watermark)
		if err != nil {
			return nil, fmt.Errorf("failed to load watermark image %s: %w", o.watermark, err)
		}
		return builder.Image(processor.ImageSettings{
			Source:  mark,
			Scale:   flagOr(cmd, "scale", o.scale, wc.Scale),
			Opacity: opacity,
		}), nil
	}

	if o.text == "" {
		return nil, errors.New("--text must not be empty")
	}
	return builder.Text(processor.TextSettings{
		Text:     o.text,
		FontSize: flagOr(cmd, "font-size", o.fontSize, wc.FontSize),
		Color:    flagOr(cmd, "color", o.color, wc.Color),
		Opacity:  opacity,
		Position: flagOr(cmd, "position", o.position, wc.Position),
	}), nil
}

func joinPositions() string {
	names := make([]string, len(models.Positions))
	for i, p := range models.Positions {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}
