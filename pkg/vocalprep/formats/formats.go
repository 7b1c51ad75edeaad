// Package formats holds the fixed tables of file formats the dataset
// builder understands. The tables are initialized once and never mutated.
package formats

import (
	"sort"
	"strings"
)

// Audio is a raw-audio container format tag.
type Audio string

// Spect is a spectrogram array-container format tag.
type Spect string

// Annot is an annotation (transcription) format tag.
type Annot string

const (
	AudioCbin Audio = "cbin"
	AudioWav  Audio = "wav"

	SpectMat Spect = "mat"
	SpectNpz Spect = "npz"

	AnnotBirdsongrec Annot = "birdsongrec"
	AnnotCSV         Annot = "csv"
	AnnotKoumura     Annot = "koumura"
	AnnotNotmat      Annot = "notmat"
	AnnotPhn         Annot = "phn"
	AnnotTextGrid    Annot = "textgrid"
	AnnotYarden      Annot = "yarden"
)

// SpectMarker is the token this tool inserts between the audio filename
// and the container extension when it writes a spectrogram file.
const SpectMarker = ".spect"

var audioExt = map[Audio]string{
	AudioCbin: ".cbin",
	AudioWav:  ".wav",
}

var spectExt = map[Spect]string{
	SpectMat: ".mat",
	SpectNpz: ".npz",
}

var annotExt = map[Annot]string{
	AnnotBirdsongrec: ".xml",
	AnnotCSV:         ".csv",
	AnnotKoumura:     ".xml",
	AnnotNotmat:      ".not.mat",
	AnnotPhn:         ".phn",
	AnnotTextGrid:    ".TextGrid",
	AnnotYarden:      ".mat",
}

func (a Audio) Valid() bool {
	_, ok := audioExt[a]
	return ok
}

func (s Spect) Valid() bool {
	_, ok := spectExt[s]
	return ok
}

func (a Annot) Valid() bool {
	_, ok := annotExt[a]
	return ok
}

// Ext returns the file extension, with leading dot, for the format.
func (a Audio) Ext() string { return audioExt[a] }
func (s Spect) Ext() string { return spectExt[s] }
func (a Annot) Ext() string { return annotExt[a] }

// OutputExt is the full suffix of spectrogram files this tool writes,
// e.g. ".spect.npz".
func (s Spect) OutputExt() string { return SpectMarker + spectExt[s] }

// AudioFormats lists the valid audio formats in sorted order.
func AudioFormats() []Audio {
	out := make([]Audio, 0, len(audioExt))
	for a := range audioExt {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SpectFormats lists the valid array-container formats in sorted order.
func SpectFormats() []Spect {
	out := make([]Spect, 0, len(spectExt))
	for s := range spectExt {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// AnnotFormats lists the valid annotation formats in sorted order.
func AnnotFormats() []Annot {
	out := make([]Annot, 0, len(annotExt))
	for a := range annotExt {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// AudioFromFilename returns the audio format whose extension ends name,
// ignoring case.
func AudioFromFilename(name string) (Audio, bool) {
	lower := strings.ToLower(name)
	for a, ext := range audioExt {
		if strings.HasSuffix(lower, ext) {
			return a, true
		}
	}
	return "", false
}
