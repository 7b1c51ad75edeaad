// Package spect locates, computes and stores spectrograms.
package spect

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/himanishpuri/vocalprep/pkg/vocalprep/errs"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/formats"
)

// NamingRule recovers an audio filename from a spectrogram filename. The
// pattern is matched against the base name and its first submatch is the
// audio filename.
type NamingRule struct {
	Name    string
	Pattern *regexp.Regexp
}

// Matcher tries its rules in order and returns the first match.
type Matcher struct {
	rules []NamingRule
}

// NewMatcher returns a Matcher over rules, tried in the given order.
func NewMatcher(rules ...NamingRule) *Matcher {
	return &Matcher{rules: rules}
}

// DefaultMatcher knows the conventions of the pipelines that produce the
// supported formats:
//
//	bird1.cbin.spect.npz   marker token between audio and container ext
//	llb3_0001.wav.mat      audio ext directly followed by container ext
var DefaultMatcher = NewMatcher(defaultRules()...)

func defaultRules() []NamingRule {
	var audioExts, spectExts []string
	for _, a := range formats.AudioFormats() {
		audioExts = append(audioExts, regexp.QuoteMeta(strings.TrimPrefix(a.Ext(), ".")))
	}
	for _, s := range formats.SpectFormats() {
		spectExts = append(spectExts, regexp.QuoteMeta(strings.TrimPrefix(s.Ext(), ".")))
	}
	audio := `(.+\.(?i:` + strings.Join(audioExts, "|") + `))`
	container := `\.(?i:` + strings.Join(spectExts, "|") + `)$`

	return []NamingRule{
		{Name: "marker", Pattern: regexp.MustCompile(`^` + audio + `(?i:` + regexp.QuoteMeta(formats.SpectMarker) + `)` + container)},
		{Name: "double-extension", Pattern: regexp.MustCompile(`^` + audio + container)},
	}
}

// AudioFilename returns the audio filename embedded in spectPath's base
// name. The result is always a substring of spectPath.
func (m *Matcher) AudioFilename(spectPath string) (string, error) {
	name := filepath.Base(spectPath)
	for _, rule := range m.rules {
		if match := rule.Pattern.FindStringSubmatch(name); match != nil {
			return match[1], nil
		}
	}
	return "", &errs.UnrecognizedSpectrogramNamingError{Path: spectPath}
}

// FindAudioFilename applies DefaultMatcher.
func FindAudioFilename(spectPath string) (string, error) {
	return DefaultMatcher.AudioFilename(spectPath)
}
