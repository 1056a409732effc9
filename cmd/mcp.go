package cmd

import (
	"github.com/kyhsueh/codegrade/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the codegrade MCP server",
	Long:  `Launch an MCP server that allows AI agents to score contributors and rank changed files via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Suppress header logs when running in MCP mode to avoid
		// polluting stdio which is used for the protocol.
		return sharedSetup(cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg)
	},
}
