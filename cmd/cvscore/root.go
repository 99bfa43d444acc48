package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jobify/cv-scorer/internal/config"
	"jobify/cv-scorer/internal/logger"
)

const appName = "cvscore"

var (
	debugLogs bool
	jsonLogs  bool

	rootCmd = &cobra.Command{
		Use:           appName,
		Short:         "cvscore scores résumés against job postings and manages the scoring rubrics",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debugLogs, "debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&jsonLogs, "json", "j", false, "json format for logging")
}

// setup loads the environment configuration and builds the logger. Flags
// override LOG_DEBUG and LOG_JSON.
func setup() (*config.Config, *zap.Logger, error) {
	cfg := config.Load()

	if debugLogs {
		cfg.Log.Debug = true
	}
	if jsonLogs {
		cfg.Log.JSON = true
	}

	zl, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, nil, err
	}
	return cfg, zl, nil
}
