package main

import (
	"log"
	"os"

	"github.com/aretw0/careerbot"
	"github.com/aretw0/careerbot/internal/cli"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the bot to AI agents as MCP tools: send_message,
inspect_conversation and reset_conversation, plus the dialog graph as a
resource.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd, map[string]string{"transport": "mcp.transport", "port": "mcp.port"}, os.Stderr)
		if err != nil {
			return err
		}
		// Keep stray log output off the JSON-RPC stream.
		log.SetOutput(os.Stderr)

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		rt, err := cli.Build(sigCtx, cfg, logger, nil)
		if err != nil {
			return err
		}
		defer rt.Close()

		return cli.RunMCP(sigCtx, rt, cfg.MCP, logger, careerbot.Version)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringP("transport", "t", "stdio", "Transport: stdio or sse")
	mcpCmd.Flags().IntP("port", "p", 8081, "Port for the sse transport")
}
