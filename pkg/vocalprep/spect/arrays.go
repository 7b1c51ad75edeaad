package spect

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Keys name the arrays inside a spectrogram file.
type Keys struct {
	Spect string
	Freqs string
	Times string
}

func DefaultKeys() Keys { return DefaultParams().Keys() }

// Arrays is one spectrogram with its axes. Spect has one row per
// frequency bin and one column per time bin.
type Arrays struct {
	Spect *mat.Dense
	Freqs []float64
	Times []float64
}

// TimebinDecimals is the precision time-bin durations are rounded to, so
// that float noise in stored time vectors does not break comparisons.
const TimebinDecimals = 5

// TimebinDur is the mean spacing of the time-bin vector, rounded to
// TimebinDecimals.
func TimebinDur(times []float64) (float64, error) {
	if len(times) < 2 {
		return 0, errors.New("need at least two time bins to compute time bin duration")
	}
	var sum float64
	for i := 1; i < len(times); i++ {
		sum += times[i] - times[i-1]
	}
	mean := sum / float64(len(times)-1)
	pow := math.Pow(10, TimebinDecimals)
	return math.Round(mean*pow) / pow, nil
}

// NumTimebins is the number of columns of the spectrogram, or the length
// of the time vector when no matrix is loaded.
func (a *Arrays) NumTimebins() int {
	if a.Spect != nil {
		_, c := a.Spect.Dims()
		return c
	}
	return len(a.Times)
}

// NumFreqbins is the number of rows of the spectrogram.
func (a *Arrays) NumFreqbins() int {
	if a.Spect != nil {
		r, _ := a.Spect.Dims()
		return r
	}
	return len(a.Freqs)
}

// Duration returns the time-bin duration and the total duration in
// seconds (time bins times their duration).
func (a *Arrays) Duration() (timebinDur, duration float64, err error) {
	timebinDur, err = TimebinDur(a.Times)
	if err != nil {
		return 0, 0, err
	}
	return timebinDur, float64(a.NumTimebins()) * timebinDur, nil
}
