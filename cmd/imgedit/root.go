package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ironsheep/imgedit/internal/codec"
	"github.com/ironsheep/imgedit/internal/config"
	"github.com/ironsheep/imgedit/internal/editor"
	"github.com/ironsheep/imgedit/internal/logging"
)

// app carries the state shared by every subcommand once flags are parsed.
type app struct {
	verbose  bool
	envFile  string
	logLevel string
	logFile  string

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "imgedit",
		Short: "Rotate, crop and resize raster images",
		Long: `imgedit decodes PNG or JPEG images (plus GIF, BMP, TIFF and WebP),
applies right-angle rotations, crops and resizes, and writes the result
as PNG, JPEG or BMP.

Settings come from IMGEDIT_* environment variables, optionally loaded
from a .env file, and can be overridden by flags.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output (debug logging)")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", "", "load settings from this file instead of .env")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&a.logFile, "log-file", "", "also write JSON logs to this rotating file")
	root.SetVersionTemplate(fmt.Sprintf(
		"imgedit %s (%s/%s, %s)\n",
		Version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))

	root.AddCommand(
		newEditCmd(a),
		newInfoCmd(a),
		newPixelsCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads configuration, applies flag overrides and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.envFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.verbose {
		cfg.LogLevel = "debug"
	}
	if a.logFile != "" {
		cfg.LogFile = a.logFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logging.New(logging.Options{
		Level:       cfg.LogLevel,
		Development: cfg.Development,
		FilePath:    cfg.LogFile,
		Console:     cmd.ErrOrStderr(),
	})
	a.logger.Debug("configuration loaded",
		zap.String("command", cmd.Name()),
		zap.Int("workers", cfg.Workers),
		zap.Int64("max_pixels", cfg.MaxPixels),
		zap.String("resize_filter", cfg.ResizeFilter))
	return nil
}

func (a *app) newEditor() *editor.ImageEditor {
	return editor.New(editor.Config{
		Workers:      a.cfg.Workers,
		MaxPixels:    a.cfg.MaxPixels,
		AutoOrient:   a.cfg.AutoOrient,
		JPEGQuality:  a.cfg.JPEGQuality,
		ResizeFilter: a.cfg.Filter(),
	},
		editor.WithLogger(a.logger),
		editor.WithRegistry(codec.NewRegistry(codec.WithPNGCompression(a.cfg.PNGLevel()))),
	)
}

// openImage reads and decodes path.
func (a *app) openImage(ed *editor.ImageEditor, path string) (*editor.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	img, err := ed.CreateImage(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Skip config loading so version works with a broken environment.
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "imgedit %s\n", Version)
			fmt.Fprintf(out, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(out, "  Git commit: %s\n", GitCommit)
		},
	}
}
