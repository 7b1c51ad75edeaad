package spect

import (
	"errors"
	"fmt"
)

const TransformLogSpect = "log_spect"

// Params configures spectrogram computation and names the arrays in the
// stored file.
type Params struct {
	FFTSize       int       `yaml:"fft_size"`
	StepSize      int       `yaml:"step_size"`
	FreqCutoffs   []float64 `yaml:"freq_cutoffs"`
	Thresh        *float64  `yaml:"thresh"`
	TransformType string    `yaml:"transform_type"`
	FreqbinsKey   string    `yaml:"freqbins_key"`
	TimebinsKey   string    `yaml:"timebins_key"`
	SpectKey      string    `yaml:"spect_key"`
}

func DefaultParams() Params {
	return Params{
		FFTSize:     512,
		StepSize:    64,
		FreqbinsKey: "f",
		TimebinsKey: "t",
		SpectKey:    "s",
	}
}

// WithDefaults fills unset fields from DefaultParams.
func (p Params) WithDefaults() Params {
	d := DefaultParams()
	if p.FFTSize == 0 {
		p.FFTSize = d.FFTSize
	}
	if p.StepSize == 0 {
		p.StepSize = d.StepSize
	}
	if p.FreqbinsKey == "" {
		p.FreqbinsKey = d.FreqbinsKey
	}
	if p.TimebinsKey == "" {
		p.TimebinsKey = d.TimebinsKey
	}
	if p.SpectKey == "" {
		p.SpectKey = d.SpectKey
	}
	return p
}

func (p Params) Validate() error {
	if p.FFTSize <= 0 || p.StepSize <= 0 {
		return fmt.Errorf("fft_size and step_size must be positive, got %d and %d", p.FFTSize, p.StepSize)
	}
	if p.FreqCutoffs != nil {
		if len(p.FreqCutoffs) != 2 {
			return fmt.Errorf("freq_cutoffs needs exactly two values, got %d", len(p.FreqCutoffs))
		}
		if p.FreqCutoffs[0] >= p.FreqCutoffs[1] {
			return fmt.Errorf("freq_cutoffs low %v must be below high %v", p.FreqCutoffs[0], p.FreqCutoffs[1])
		}
	}
	if p.TransformType != "" && p.TransformType != TransformLogSpect {
		return fmt.Errorf("unknown transform_type %q", p.TransformType)
	}
	if p.SpectKey == "" || p.FreqbinsKey == "" || p.TimebinsKey == "" {
		return errors.New("spect_key, freqbins_key and timebins_key must be set")
	}
	return nil
}

// Keys returns the array names used to store results.
func (p Params) Keys() Keys {
	return Keys{Spect: p.SpectKey, Freqs: p.FreqbinsKey, Times: p.TimebinsKey}
}
