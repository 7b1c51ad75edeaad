package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/himanishpuri/vocalprep/pkg/vocalprep"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/annot"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/dataset"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/formats"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/spect"
	"gopkg.in/yaml.v3"
)

// LabelSet accepts either a string, where every character is one label,
// or a list of labels.
type LabelSet []string

func (l *LabelSet) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			*l = nil
			return nil
		}
		*l = annot.ParseLabelSet(s).Sorted()
		return nil
	case yaml.SequenceNode:
		var labels []string
		if err := node.Decode(&labels); err != nil {
			return err
		}
		*l = labels
		return nil
	}
	return fmt.Errorf("line %d: labelset must be a string or a list", node.Line)
}

// Set returns the labels as an annot.LabelSet, nil when empty.
func (l LabelSet) Set() annot.LabelSet {
	return annot.NewLabelSet(l...)
}

type Split struct {
	Name        string   `yaml:"name"`
	DataDir     string   `yaml:"data_dir"`
	AudioDir    string   `yaml:"audio_dir"`
	AudioFormat string   `yaml:"audio_format"`
	SpectDir    string   `yaml:"spect_dir"`
	SpectFiles  []string `yaml:"spect_files"`
	SpectFormat string   `yaml:"spect_format"`
	AnnotFile   string   `yaml:"annot_file"`
	AnnotFormat string   `yaml:"annot_format"`
	LabelSet    LabelSet `yaml:"labelset"`
	OutputDir   string   `yaml:"output_dir"`
}

type Root struct {
	LogLevel    string       `yaml:"log_level"`
	DBPath      string       `yaml:"db_path"`
	OutputDir   string       `yaml:"output_dir"`
	CSVDir      string       `yaml:"csv_dir"`
	Workers     int          `yaml:"workers"`
	LabelSet    LabelSet     `yaml:"labelset"`
	SpectParams spect.Params `yaml:"spect_params"`
	Splits      []Split      `yaml:"splits"`
}

// Load reads the config at path. With an empty path it tries
// $VOCALPREP_CONFIG, then vocalprep.yaml and config/vocalprep.yaml.
func Load(path string) (*Root, error) {
	guess := []string{path}
	if path == "" {
		guess = []string{
			os.Getenv("VOCALPREP_CONFIG"),
			"vocalprep.yaml",
			filepath.Join("config", "vocalprep.yaml"),
		}
	}

	err := errors.New("no config file found")
	for _, p := range guess {
		if p == "" {
			continue
		}
		var cfg *Root
		cfg, err = loadFile(p)
		if err == nil {
			return cfg, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	return nil, err
}

func loadFile(path string) (*Root, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	var cfg Root
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.SpectParams = cfg.SpectParams.WithDefaults()
	return &cfg, nil
}

// Jobs turns the split sections into prep jobs. A split without its own
// labelset uses the top-level one.
func (r *Root) Jobs() ([]vocalprep.SplitJob, error) {
	if len(r.Splits) == 0 {
		return nil, errors.New("config has no splits")
	}
	jobs := make([]vocalprep.SplitJob, 0, len(r.Splits))
	for _, s := range r.Splits {
		ls := s.LabelSet
		if len(ls) == 0 {
			ls = r.LabelSet
		}
		jobs = append(jobs, vocalprep.SplitJob{
			Name: s.Name,
			Inputs: dataset.Inputs{
				DataDir:     s.DataDir,
				AudioDir:    s.AudioDir,
				AudioFormat: formats.Audio(s.AudioFormat),
				SpectDir:    s.SpectDir,
				SpectFiles:  s.SpectFiles,
				SpectFormat: formats.Spect(s.SpectFormat),
				AnnotFile:   s.AnnotFile,
				AnnotFormat: formats.Annot(s.AnnotFormat),
				LabelSet:    ls.Set(),
				OutputDir:   s.OutputDir,
				SpectParams: r.SpectParams,
			},
		})
	}
	return jobs, nil
}
