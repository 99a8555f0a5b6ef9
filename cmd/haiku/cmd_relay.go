package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/haikuchat/internal/app"
)

var (
	relayAddr string
	relayDB   string
)

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Run the chat relay",
	Long: `Run the relay the chat client talks to: the websocket endpoint, message
history, the room directory and guest identities, persisted in SQLite.`,
	RunE: runRelay,
}

func init() {
	relayCmd.Flags().StringVar(&relayAddr, "addr", "", "HTTP listen address (overrides config)")
	relayCmd.Flags().StringVar(&relayDB, "db", "", "SQLite database path (overrides config)")
}

func runRelay(cmd *cobra.Command, _ []string) error {
	if relayAddr != "" {
		cfg.Addr = relayAddr
	}
	if relayDB != "" {
		cfg.DatabasePath = relayDB
	}

	application, err := app.New(&cfg, logger)
	if err != nil {
		return err
	}

	if err := application.Run(cmd.Context()); err != nil {
		logger.Error().Err(err).Msg("relay exited with error")
		return err
	}
	logger.Info().Msg("relay stopped")
	return nil
}
