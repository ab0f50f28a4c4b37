package cli

import (
	"github.com/phambaophuc/photomark/internal/config"
	"github.com/phambaophuc/photomark/internal/services/batch"
	"github.com/phambaophuc/photomark/internal/services/metadata"
	"github.com/phambaophuc/photomark/internal/services/processor"
	"github.com/spf13/cobra"
)

type dateOptions struct {
	input    string
	output   string
	fontSize int
	opacity  int
	color    string
	position string
}

func newDateCmd(a *app) *cobra.Command {
	o := &dateOptions{}

	cmd := &cobra.Command{
		Use:   "date",
		Short: "Stamp photos with their EXIF capture date",
		Long: `Stamp each photo with the date it was taken (YYYY-MM-DD), read from the
EXIF DateTimeOriginal field. Photos without that field are skipped.

Results go to <dir>/<dirname>_watermark/ unless --output is given.

Examples:
  photomark date -i ./holiday
  photomark date -i IMG_0001.jpg --position top-left --color 255,200,0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDate(cmd, o)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.input, "input", "i", "", "photo or directory of photos")
	f.StringVarP(&o.output, "output", "o", "", "output directory (default <dir>/<dirname>_watermark)")
	f.IntVar(&o.fontSize, "font-size", config.DefaultFontSize, "font size in pixels")
	f.IntVar(&o.opacity, "opacity", config.DefaultOpacity, "text opacity, 0-255")
	f.StringVar(&o.color, "color", config.DefaultColor, "text color as R,G,B")
	f.StringVar(&o.position, "position", config.DefaultPosition, positionUsage)
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func (a *app) runDate(cmd *cobra.Command, o *dateOptions) error {
	wc := a.cfg.Watermark
	builder := processor.NewBuilder(a.fonts(), a.logger)

	tmpl := builder.Text(processor.TextSettings{
		FontSize: flagOr(cmd, "font-size", o.fontSize, wc.FontSize),
		Color:    flagOr(cmd, "color", o.color, wc.Color),
		Opacity:  flagOr(cmd, "opacity", o.opacity, wc.Opacity),
		Position: flagOr(cmd, "position", o.position, wc.Position),
	})

	src := &batch.DateSource{
		Extractor: metadata.NewExtractor(a.logger),
		Template:  *tmpl,
	}

	_, err := a.driver().Run(batch.Options{
		Input:       o.input,
		Output:      o.output,
		OutputIsDir: true,
		DirSuffix:   a.cfg.Output.DirSuffix,
	}, src)
	return err
}
