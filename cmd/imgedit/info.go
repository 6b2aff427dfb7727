package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ironsheep/imgedit/internal/codec"
	"github.com/ironsheep/imgedit/internal/editor"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>...",
		Short: "Show format, dimensions and a pixel checksum for images",
		Long: `Decode each file and print its container format, dimensions, whether
every pixel is opaque, and an xxhash checksum of the decoded pixels.
Files are decoded concurrently, up to IMGEDIT_WORKERS at a time.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd.Context(), cmd.OutOrStdout(), a, args)
		},
	}
}

func runInfo(ctx context.Context, out io.Writer, a *app, paths []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ed := a.newEditor()

	futures := make([]*editor.Future, len(paths))
	readErrs := make([]error, len(paths))
	for i, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			readErrs[i] = fmt.Errorf("read %s: %w", path, err)
			continue
		}
		futures[i] = ed.CreateImageAsync(ctx, data)
	}

	header := color.New(color.FgCyan, color.Bold)
	label := color.New(color.FgHiBlack)
	errColor := color.New(color.FgRed)

	failed := 0
	for i, path := range paths {
		header.Fprintln(out, path)

		err := readErrs[i]
		var img *editor.Image
		if err == nil {
			img, err = futures[i].Wait(ctx)
		}
		if err != nil {
			failed++
			errColor.Fprintf(out, "  error: %v\n", err)
			continue
		}

		err = printInfo(out, label, img, ed.Registry())
		img.Close()
		if err != nil {
			failed++
			errColor.Fprintf(out, "  error: %v\n", err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be read", failed, len(paths))
	}
	return nil
}

func printInfo(out io.Writer, label *color.Color, img *editor.Image, reg *codec.Registry) error {
	buf, err := img.Buffer()
	if err != nil {
		return err
	}

	opaque := "no"
	if buf.Opaque() {
		opaque = "yes"
	}

	row := func(name, format string, args ...any) {
		label.Fprintf(out, "  %-11s", name+":")
		fmt.Fprintf(out, " "+format+"\n", args...)
	}
	row("Format", "%s (%s)", img.SourceFormat(), img.SourceFormat().MimeType())
	row("Dimensions", "%d x %d", buf.Width, buf.Height)
	row("Pixels", "%d", buf.Len())
	row("Opaque", "%s", opaque)
	row("Checksum", "%016x", buf.Checksum())
	if enc := reg.Get(img.SourceFormat()); enc != nil && enc.Lossy() {
		row("Note", "%s is lossy; checksums differ across decoders", strings.ToUpper(string(img.SourceFormat())))
	}
	return nil
}
