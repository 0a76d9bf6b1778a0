package cli

import (
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/calbridge/internal/adapters/driven/config/file"
	"github.com/custodia-labs/calbridge/internal/adapters/driving/httpd"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the localhost JSON API",
	Long: `Serve starts the loopback HTTP API that browser surfaces talk to.

Sync results are broadcast to every connected websocket client; the
process runs until interrupted.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		addr := listenAddr
		if addr == "" {
			addr = configStore.GetString(configfile.KeyHTTPListen)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		server := httpd.NewServer(syncService, authService, assistantService, hub)
		if err := server.ListenAndServe(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "listen address (default "+httpd.DefaultListenAddr+")")
	rootCmd.AddCommand(serveCmd)
}
