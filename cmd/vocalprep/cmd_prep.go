package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/himanishpuri/vocalprep/internal/config"
	"github.com/himanishpuri/vocalprep/pkg/logger"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/annot"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/dataset"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/formats"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/spect"
	"github.com/spf13/cobra"
)

type prepFlags struct {
	configPath  string
	split       string
	dataDir     string
	audioFormat string
	spectFormat string
	annotFormat string
	annotFile   string
	labelset    string
	outputDir   string
	csvDir      string
	save        bool
	namePrefix  string
	workers     int
	noProgress  bool
}

func newPrepCmd() *cobra.Command {
	var f prepFlags
	cmd := &cobra.Command{
		Use:   "prep",
		Short: "Build dataset tables, one per split",
		Long: `Build dataset tables from a YAML config (one table per split, prepared in
parallel) or, without --config, a single table from --data-dir.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrep(cmd.Context(), f)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.configPath, "config", "c", "", "YAML config with one section per split")
	fl.StringVar(&f.split, "split", "", "Split name for a single table built from flags")
	fl.StringVar(&f.dataDir, "data-dir", "", "Directory of audio or spectrogram files")
	fl.StringVar(&f.audioFormat, "audio-format", "", "Audio format: "+strings.Join(formatNames(formats.AudioFormats()), ", "))
	fl.StringVar(&f.spectFormat, "spect-format", "", "Spectrogram format: "+strings.Join(formatNames(formats.SpectFormats()), ", "))
	fl.StringVar(&f.annotFormat, "annot-format", "", "Annotation format")
	fl.StringVar(&f.annotFile, "annot-file", "", "Single annotation file covering all recordings")
	fl.StringVar(&f.labelset, "labelset", "", "Allowed labels, one per character")
	fl.StringVar(&f.outputDir, "output-dir", "", "Where spectrograms computed from audio are written")
	fl.StringVar(&f.csvDir, "csv-dir", "", "Write each table to <csv-dir>/<split>.csv")
	fl.BoolVar(&f.save, "save", false, "Store the tables in the database")
	fl.StringVar(&f.namePrefix, "name-prefix", "", "Prefix for stored table names")
	fl.IntVar(&f.workers, "workers", 0, "Splits prepared at once (default from config, else 3)")
	fl.BoolVar(&f.noProgress, "no-progress", false, "Disable progress bars")
	return cmd
}

func formatNames[T ~string](in []T) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}

func jobsFromFlags(f prepFlags) []vocalprep.SplitJob {
	split := f.split
	if split == "" {
		split = "train"
	}
	return []vocalprep.SplitJob{{
		Name: split,
		Inputs: dataset.Inputs{
			DataDir:     f.dataDir,
			AudioFormat: formats.Audio(f.audioFormat),
			SpectFormat: formats.Spect(f.spectFormat),
			AnnotFormat: formats.Annot(f.annotFormat),
			AnnotFile:   f.annotFile,
			LabelSet:    annot.ParseLabelSet(f.labelset),
			SpectParams: spect.DefaultParams(),
		},
	}}
}

func runPrep(ctx context.Context, f prepFlags) error {
	log := logger.GetLogger()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	var jobs []vocalprep.SplitJob
	workers := f.workers
	outputDir := f.outputDir
	csvDir := f.csvDir
	if f.configPath != "" {
		cfg, err := config.Load(f.configPath)
		if err != nil {
			return err
		}
		if cfg.LogLevel != "" && logLevel == "" {
			if lvl, err := logger.ParseLevel(cfg.LogLevel); err == nil {
				log.SetLevel(lvl)
			}
		}
		if cfg.DBPath != "" && !dbExplicit {
			dbPath = cfg.DBPath
		}
		if workers == 0 {
			workers = cfg.Workers
		}
		if outputDir == "" {
			outputDir = cfg.OutputDir
		}
		if csvDir == "" {
			csvDir = cfg.CSVDir
		}
		if jobs, err = cfg.Jobs(); err != nil {
			return err
		}
	} else {
		jobs = jobsFromFlags(f)
	}

	opts := []vocalprep.Option{vocalprep.WithOutputDir(outputDir)}
	if workers > 0 {
		opts = append(opts, vocalprep.WithWorkers(workers))
	}
	var bars *splitBars
	if !f.noProgress {
		bars = newSplitBars()
		opts = append(opts, vocalprep.WithProgress(bars.Progress))
	}

	svc, err := createService(opts...)
	if err != nil {
		return err
	}
	defer svc.Close()

	tables, err := svc.PrepSplits(ctx, jobs)
	if bars != nil {
		bars.Wait()
	}
	if err != nil {
		return err
	}

	for i, table := range tables {
		split := jobs[i].Name
		fmt.Printf("%-8s %5d rows  %8.1f s\n", split, table.Len(), table.TotalDuration())

		if csvDir != "" {
			path := filepath.Join(csvDir, split+".csv")
			if err := dataset.SaveCSV(path, table); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			log.Infof("wrote %s", path)
		}
		if f.save {
			if _, err := svc.SaveTable(f.namePrefix+split, table); err != nil {
				return err
			}
		}
	}
	return nil
}
