package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/haikuchat/internal/config"
	"github.com/vovakirdan/haikuchat/internal/log"
)

var (
	configPath string
	logLevel   string

	cfg    config.Config
	logger *zerolog.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "haiku",
	Short: "Chat in haiku",
	Long: `haiku runs a chat relay and a terminal client where every message is
checked against the 5-7-5 syllable pattern.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// Logs go to stderr so that chat output owns stdout.
		boot := log.NewWithWriter(logLevel, os.Stderr)

		loaded, path, err := config.Load(boot, configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if cmd.Flags().Changed("log-level") {
			loaded.LogLevel = logLevel
		}
		cfg = loaded
		logger = log.NewWithWriter(cfg.LogLevel, os.Stderr)
		logger.Debug().Str("path", path).Msg("config loaded")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error, off)")

	rootCmd.AddCommand(relayCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(roomsCmd)
	rootCmd.AddCommand(guestCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
