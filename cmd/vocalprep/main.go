package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/himanishpuri/vocalprep/pkg/logger"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep"
	"github.com/himanishpuri/vocalprep/pkg/vocalprep/errs"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

var version = "dev"

// Global flags
var (
	dbPath   string
	logFile  string
	logLevel string

	// dbExplicit is set when --db or VOCALPREP_DB_PATH chose the database,
	// which then wins over a config file's db_path.
	dbExplicit bool
)

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func setupLogging() error {
	log := logger.GetLogger()
	if logLevel != "" {
		lvl, err := logger.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		log.SetLevel(lvl)
	}
	if logFile != "" {
		log.SetOutput(&lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    50, // MB
			MaxBackups: 5,
			MaxAge:     30, // days
		})
		log.SetColorize(false)
	}
	return nil
}

// createService creates a new service with the global options plus opts
func createService(opts ...vocalprep.Option) (vocalprep.Service, error) {
	base := []vocalprep.Option{
		vocalprep.WithDBPath(dbPath),
		vocalprep.WithLogger(logger.GetLogger()),
	}
	return vocalprep.NewService(append(base, opts...)...)
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "vocalprep",
		Short:         "Assemble audio, spectrograms and annotations into training datasets",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			dbExplicit = cmd.Flags().Changed("db") || os.Getenv("VOCALPREP_DB_PATH") != ""
			return setupLogging()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&dbPath, "db", getEnvOrDefault("VOCALPREP_DB_PATH", "vocalprep.sqlite3"), "Path to the SQLite database file")
	flags.StringVar(&logFile, "log-file", "", "Write logs to this file, rotated by size")
	flags.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides LOG_LEVEL")

	rootCmd.AddCommand(newPrepCmd())
	rootCmd.AddCommand(newMergeCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newRenderCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.GetLogger().Errorf("%v", err)
		if errors.Is(err, errs.ErrConfig) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
