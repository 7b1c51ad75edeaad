package spect

import (
	"image"
	"image/draw"

	"github.com/eligwz/spectrogram"
)

// RenderOptions sizes the preview image.
type RenderOptions struct {
	Width  int
	Height int
	Log10  bool
}

func DefaultRenderOptions() RenderOptions {
	return RenderOptions{Width: 2048, Height: 512}
}

// RenderPNG draws a spectrogram preview of samples to a PNG file. It is a
// visual check only and does not use Params.
func RenderPNG(samples []float64, sampleRate int, path string, opts RenderOptions) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts = DefaultRenderOptions()
	}
	img := spectrogram.NewImage128(image.Rect(0, 0, opts.Width, opts.Height))

	black := spectrogram.ParseColor("000000")
	draw.Draw(img, img.Bounds(), image.NewUniform(black), image.Point{}, draw.Src)

	spectrogram.Drawfft(
		img,
		samples,
		uint32(sampleRate),
		uint32(opts.Height),
		false, // hamming window
		false, // fft
		true,  // magnitude
		opts.Log10,
	)
	return spectrogram.SavePng(img, path)
}
