package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/calbridge/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run as an MCP server over stdio",
	Long: `MCP exposes the sync and assistant services as Model Context Protocol
tools, so an LLM client can schedule events and summarise mail through
the same broker the other surfaces share.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		server, err := mcp.NewServer(&mcp.Ports{
			Sync:      syncService,
			Assistant: assistantService,
			Results:   results,
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return server.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
