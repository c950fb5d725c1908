package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"flowcap/internal/compiler"
	"flowcap/internal/ingest"
	"flowcap/internal/server"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP (Model Context Protocol) server on stdin/stdout",
	Long:  "Exposes recorded sessions as MCP compile tools. AI agents can discover sessions and compile them into workflows via the MCP protocol.",
	Args:  cobra.NoArgs,
	RunE:  serveMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func serveMCP(cmd *cobra.Command, args []string) error {
	sessions, err := ingest.LoadRecordings(recordingsDir)
	if err != nil {
		return fmt.Errorf("loading recordings: %w", err)
	}

	srv := server.NewMCPServer(compiler.New(), sessions)
	return srv.ServeStdio()
}
