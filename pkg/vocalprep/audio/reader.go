package audio

import (
	"errors"
	"fmt"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/himanishpuri/vocalprep/pkg/vocalprep/errs"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/formats"
)

// Read loads an audio file as mono samples and returns them with the sample
// rate. WAV samples are normalized to [-1, 1]; cbin samples keep their raw
// int16 counts.
func Read(path string, format formats.Audio) ([]float64, int, error) {
	switch format {
	case formats.AudioWav:
		return ReadWAV(path)
	case formats.AudioCbin:
		return ReadCbin(path)
	}
	return nil, 0, &errs.UnsupportedFormatError{Kind: "audio", Format: string(format)}
}

// ReadWAV decodes a PCM WAV file of any bit depth.
func ReadWAV(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, 0, fmt.Errorf("%s: not a valid WAV file", path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("reading samples from %s: %w", path, err)
	}
	if buf.Format == nil || buf.Format.SampleRate == 0 {
		return nil, 0, fmt.Errorf("%s: missing sample rate", path)
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = int(decoder.BitDepth)
	}
	samples, err := toMonoFloat64(buf.Data, buf.Format.NumChannels, bitDepth)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", path, err)
	}
	return samples, buf.Format.SampleRate, nil
}

// toMonoFloat64 scales interleaved integer samples to [-1, 1], averaging
// channels.
func toMonoFloat64(data []int, numChannels, bitDepth int) ([]float64, error) {
	if numChannels < 1 {
		return nil, errors.New("invalid channel count")
	}
	if bitDepth < 8 || bitDepth > 32 {
		return nil, fmt.Errorf("unsupported bit depth %d", bitDepth)
	}
	scale := 1.0 / float64(int64(1)<<(uint(bitDepth)-1))

	frames := len(data) / numChannels
	out := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < numChannels; c++ {
			sum += float64(data[i*numChannels+c])
		}
		out[i] = sum / float64(numChannels) * scale
	}
	return out, nil
}

// WriteWAV encodes mono samples in [-1, 1] as a 16-bit PCM WAV file.
func WriteWAV(path string, samples []float64, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	data := make([]int, len(samples))
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		data[i] = int(s * 32767)
	}

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return enc.Close()
}
