package spect

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/mat"
)

// Transform turns raw audio into a spectrogram.
type Transform interface {
	Compute(samples []float64, sampleRate int, p Params) (*Arrays, error)
}

// TransformFunc adapts a function to Transform.
type TransformFunc func(samples []float64, sampleRate int, p Params) (*Arrays, error)

func (f TransformFunc) Compute(samples []float64, sampleRate int, p Params) (*Arrays, error) {
	return f(samples, sampleRate, p)
}

// STFT is the default transform: a Hann-windowed short-time FFT whose
// magnitude is optionally cropped to FreqCutoffs, log-scaled and floored
// at Thresh.
type STFT struct{}

// logFloor keeps log10 finite on silent frames.
const logFloor = 1e-10

func (STFT) Compute(samples []float64, sampleRate int, p Params) (*Arrays, error) {
	p = p.WithDefaults()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", sampleRate)
	}
	n, hop := p.FFTSize, p.StepSize
	if len(samples) < n {
		return nil, errors.New("input shorter than window size")
	}

	// bins 0..n/2 inclusive, optionally cropped to [lo, hi]
	fs := float64(sampleRate)
	var bins []int
	var freqs []float64
	for k := 0; k <= n/2; k++ {
		f := float64(k) * fs / float64(n)
		if p.FreqCutoffs != nil && (f < p.FreqCutoffs[0] || f > p.FreqCutoffs[1]) {
			continue
		}
		bins = append(bins, k)
		freqs = append(freqs, f)
	}
	if len(bins) == 0 {
		return nil, fmt.Errorf("freq_cutoffs %v leave no frequency bins at %d Hz", p.FreqCutoffs, sampleRate)
	}

	win := window.Hann(n)
	frames := (len(samples)-n)/hop + 1
	out := mat.NewDense(len(bins), frames, nil)
	times := make([]float64, frames)

	frame := make([]float64, n)
	for t := 0; t < frames; t++ {
		start := t * hop
		copy(frame, samples[start:start+n])
		for i := range frame {
			frame[i] *= win[i]
		}
		spec := fft.FFTReal(frame)
		for r, k := range bins {
			out.Set(r, t, cmplx.Abs(spec[k]))
		}
		times[t] = (float64(start) + float64(n)/2) / fs
	}

	if p.TransformType == TransformLogSpect {
		out.Apply(func(_, _ int, v float64) float64 {
			return math.Log10(math.Max(v, logFloor))
		}, out)
	}
	if p.Thresh != nil {
		floor := *p.Thresh
		out.Apply(func(_, _ int, v float64) float64 {
			return math.Max(v, floor)
		}, out)
	}

	return &Arrays{Spect: out, Freqs: freqs, Times: times}, nil
}
