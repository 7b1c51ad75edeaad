package main

import (
	"fmt"

	"github.com/himanishpuri/vocalprep/pkg/vocalprep/audio"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/errs"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/formats"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/spect"
	"github.com/spf13/cobra"
)

func newRenderCmd() *cobra.Command {
	opts := spect.DefaultRenderOptions()
	var out string
	cmd := &cobra.Command{
		Use:   "render <audio-file>",
		Short: "Draw a spectrogram preview of an audio file as PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			format, ok := formats.AudioFromFilename(path)
			if !ok {
				return &errs.UnsupportedFormatError{Kind: "audio", Format: path, Valid: formatNames(formats.AudioFormats())}
			}
			samples, rate, err := audio.Read(path, format)
			if err != nil {
				return err
			}
			if out == "" {
				out = path + ".png"
			}
			if err := spect.RenderPNG(samples, rate, out, opts); err != nil {
				return err
			}
			fmt.Printf("Saved spectrogram to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "PNG file (default <audio-file>.png)")
	cmd.Flags().IntVar(&opts.Width, "width", opts.Width, "Image width in pixels")
	cmd.Flags().IntVar(&opts.Height, "height", opts.Height, "Image height in pixels")
	cmd.Flags().BoolVar(&opts.Log10, "log10", false, "Log-scale magnitudes")
	return cmd
}
