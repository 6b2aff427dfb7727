package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ironsheep/imgedit/internal/codec"
	"github.com/ironsheep/imgedit/internal/config"
	"github.com/ironsheep/imgedit/internal/imaging"
)

type editOptions struct {
	rotate  int
	crop    string
	region  string
	resize  string
	filter  string
	plan    string
	format  string
	quality int
}

func newEditCmd(a *app) *cobra.Command {
	var opts editOptions

	cmd := &cobra.Command{
		Use:   "edit <input> <output>",
		Short: "Apply rotate, crop and resize edits to an image",
		Long: `Apply edits to an image and write the result.

Edits given as flags run in the order rotate, crop, region, resize.
A --plan file lists steps explicitly and cannot be combined with edit flags:

  steps:
    - rotate: 90
    - crop: {x: 10, y: 10, width: 200, height: 100}
    - resize: {width: 64, height: 32, filter: bilinear}
  output:
    format: jpeg
    quality: 85

The output format comes from --format, then the plan, then the output
file extension.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, a, &opts, args[0], args[1])
		},
	}

	f := cmd.Flags()
	f.IntVarP(&opts.rotate, "rotate", "r", 0, "rotate clockwise by a multiple of 90 degrees")
	f.StringVar(&opts.crop, "crop", "", "crop to x,y,width,height")
	f.StringVar(&opts.region, "region", "", "crop to a named region (top-left, center, right-half, ...)")
	f.StringVar(&opts.resize, "resize", "", "resize to WIDTHxHEIGHT")
	f.StringVar(&opts.filter, "filter", "", "resize filter: nearest, bilinear, catmullrom, lanczos")
	f.StringVarP(&opts.plan, "plan", "p", "", "YAML edit plan")
	f.StringVarP(&opts.format, "format", "f", "", "output format: png, jpeg, bmp")
	f.IntVarP(&opts.quality, "quality", "q", 0, "JPEG quality 1-100")
	return cmd
}

func runEdit(cmd *cobra.Command, a *app, opts *editOptions, input, output string) error {
	steps, out, err := opts.steps(cmd)
	if err != nil {
		return err
	}

	format, quality, err := resolveOutput(opts, out, output, a.cfg.JPEGQuality)
	if err != nil {
		return err
	}

	ed := a.newEditor()
	img, err := a.openImage(ed, input)
	if err != nil {
		return err
	}
	defer img.Close()

	srcW, srcH := img.Width(), img.Height()
	if err := img.Apply(steps); err != nil {
		return fmt.Errorf("edit %s: %w", input, err)
	}

	data, err := img.EncodeQuality(format, quality)
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	a.logger.Info("image written",
		zap.String("input", input),
		zap.String("output", output),
		zap.String("format", string(format)),
		zap.Int("steps", len(steps)),
		zap.Int("bytes", len(data)))
	fmt.Fprintf(cmd.OutOrStdout(), "%s %dx%d -> %s %dx%d (%s, %d bytes)\n",
		input, srcW, srcH, output, img.Width(), img.Height(), format, len(data))
	return nil
}

// steps builds the edit list from either the plan file or the flags.
func (o *editOptions) steps(cmd *cobra.Command) ([]config.Step, *config.Output, error) {
	flags := cmd.Flags()
	usesFlags := flags.Changed("rotate") || o.crop != "" || o.region != "" || o.resize != ""

	if o.plan != "" {
		if usesFlags {
			return nil, nil, fmt.Errorf("--plan cannot be combined with edit flags")
		}
		p, err := config.LoadPlan(o.plan)
		if err != nil {
			return nil, nil, err
		}
		return p.Steps, p.Output, nil
	}

	var steps []config.Step
	if flags.Changed("rotate") {
		steps = append(steps, config.RotateStep(o.rotate))
	}
	if o.crop != "" {
		r, err := parseRect(o.crop)
		if err != nil {
			return nil, nil, err
		}
		steps = append(steps, config.CropStep(r))
	}
	if o.region != "" {
		steps = append(steps, config.RegionStep(o.region))
	}
	if o.resize != "" {
		w, h, err := parseSize(o.resize)
		if err != nil {
			return nil, nil, err
		}
		steps = append(steps, config.ResizeTo(w, h, o.filter))
	} else if o.filter != "" {
		return nil, nil, fmt.Errorf("--filter requires --resize")
	}
	if len(steps) == 0 {
		return nil, nil, fmt.Errorf("no edits given; use --rotate, --crop, --region, --resize or --plan")
	}

	for i, s := range steps {
		if err := s.Validate(); err != nil {
			return nil, nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return steps, nil, nil
}

func resolveOutput(opts *editOptions, out *config.Output, path string, defQuality int) (codec.Format, int, error) {
	name := opts.format
	quality := opts.quality
	if out != nil {
		if name == "" {
			name = out.Format
		}
		if quality == 0 {
			quality = out.Quality
		}
	}
	if name == "" {
		name = filepath.Ext(path)
	}
	if quality == 0 {
		quality = defQuality
	}
	if quality < 1 || quality > 100 {
		return "", 0, fmt.Errorf("quality must be 1-100, got %d", quality)
	}

	format := codec.ParseFormat(name)
	if name == "" {
		format = codec.FormatPNG
	}
	if format == codec.FormatUnknown {
		return "", 0, fmt.Errorf("unknown output format %q", name)
	}
	if reg := codec.NewRegistry(); reg.Get(format) == nil {
		return "", 0, fmt.Errorf("cannot write %s; %s", format, reg)
	}
	return format, quality, nil
}

// parseRect parses "x,y,width,height".
func parseRect(s string) (imaging.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return imaging.Rect{}, fmt.Errorf("crop %q: want x,y,width,height", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return imaging.Rect{}, fmt.Errorf("crop %q: %w", s, err)
		}
		v[i] = n
	}
	return imaging.Rect{X: v[0], Y: v[1], Width: v[2], Height: v[3]}, nil
}

// parseSize parses "WIDTHxHEIGHT".
func parseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("resize %q: want WIDTHxHEIGHT", s)
	}
	w, err := strconv.Atoi(strings.TrimSpace(ws))
	if err != nil {
		return 0, 0, fmt.Errorf("resize %q: %w", s, err)
	}
	h, err := strconv.Atoi(strings.TrimSpace(hs))
	if err != nil {
		return 0, 0, fmt.Errorf("resize %q: %w", s, err)
	}
	return w, h, nil
}
