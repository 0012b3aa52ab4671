package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/wavelab/fourierdraw/pkg/studio/config"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:           "fourierdraw",
	Short:         "Fourier series visualizer",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.InfoLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(renderCmd)
}

// loadConfig reads the config file and applies its log level.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return cfg, err
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		log.Logger = log.Logger.Level(level)
	}
	return cfg, nil
}
