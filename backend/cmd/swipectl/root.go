package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TLN1/linkr-back/backend/internal/app/apiapp"
	"github.com/TLN1/linkr-back/backend/internal/config"
	"github.com/TLN1/linkr-back/backend/internal/infra/logger"
)

var (
	cfgFile  string
	logLevel string

	rootCmd = &cobra.Command{
		Use:           "swipectl",
		Short:         "swipectl operates the swipe and match engine from the command line",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $APP_CONFIG or configs/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")
}

func loadConfig() (config.Config, error) {
	path := cfgFile
	if path == "" {
		path = os.Getenv("APP_CONFIG")
	}
	if path == "" {
		path = "configs/config.yaml"
	}
	return config.Load(path)
}

// withEngine assembles the engine from config, runs fn and releases connections.
func withEngine(ctx context.Context, fn func(context.Context, *apiapp.Engine, *zap.Logger) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	log, err := logger.New(logger.Options{Level: cfg.Log.Level, Format: "console", Service: "swipectl"})
	if err != nil {
		return err
	}
	defer func() {
		_ = log.Sync()
	}()

	engine, err := apiapp.NewEngine(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		_ = engine.Close()
	}()

	return fn(ctx, engine, log)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
