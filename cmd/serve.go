package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"flowcap/internal/compiler"
	"flowcap/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP compile server",
	Args:  cobra.NoArgs,
	RunE:  serveCompile,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "port to listen on")
	serveCmd.Flags().StringVar(&aiConfig, "ai-config", "", "path to AI platform YAML config (enables ?mode=ai)")
	serveCmd.Flags().StringVar(&credsFile, "credentials-file", "", "path to .env-style credentials file")
	rootCmd.AddCommand(serveCmd)
}

func serveCompile(cmd *cobra.Command, args []string) error {
	comp := compiler.New()

	if aiConfig != "" {
		client, err := buildAIClient()
		if err != nil {
			return err
		}
		comp.Generator = client
	}

	srv := server.NewCompileServer(comp)
	addr := fmt.Sprintf(":%d", servePort)
	fmt.Printf("Starting compile server on %s\n", addr)
	fmt.Printf("  POST /compile          deterministic compilation\n")
	if comp.Generator != nil {
		fmt.Printf("  POST /compile?mode=ai  generative compilation\n")
	}
	return srv.ListenAndServe(addr)
}
