package cli

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lodestone-ai/lodestone/internal/adapters/driving/api"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the HTTP API server exposing chat, ingestion and settings
endpoints. The server runs until interrupted.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:8000", "listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if chatService == nil || ingestService == nil || settingsService == nil {
		return errors.New("services not configured")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := api.NewServer(chatService, ingestService, settingsService)
	cmd.Printf("Listening on http://%s\n", serveAddr)
	return server.Run(ctx, serveAddr)
}
