package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"flowcap/internal/ai"
	"flowcap/internal/compiler"
	"flowcap/internal/ingest"
	"flowcap/internal/render"
	"flowcap/internal/types"
)

var (
	useAI     bool
	aiConfig  string
	credsFile string
	minGap    float64
	gapBuffer float64
	maxWait   float64
)

var compileCmd = &cobra.Command{
	Use:   "compile <recording-file>",
	Short: "Compile a raw recording into a workflow definition",
	Args:  cobra.ExactArgs(1),
	RunE:  compileRecording,
}

func init() {
	compileCmd.Flags().BoolVar(&useAI, "ai", false, "use the generative path instead of deterministic synthesis")
	compileCmd.Flags().StringVar(&aiConfig, "ai-config", "", "path to AI platform YAML config")
	compileCmd.Flags().StringVar(&credsFile, "credentials-file", "", "path to .env-style credentials file")
	compileCmd.Flags().Float64Var(&minGap, "min-gap", 2.0, "minimum inter-event gap in seconds that triggers a wait step")
	compileCmd.Flags().Float64Var(&gapBuffer, "gap-buffer", 1.0, "seconds added to observed gaps")
	compileCmd.Flags().Float64Var(&maxWait, "max-wait", 10.0, "cap on inserted wait durations in seconds")
	rootCmd.AddCommand(compileCmd)
}

func compileRecording(cmd *cobra.Command, args []string) error {
	session, err := ingest.LoadRecording(args[0])
	if err != nil {
		return err
	}

	comp := compiler.New()
	comp.Gap = compiler.GapConfig{
		MinWaitThreshold: minGap,
		BufferSeconds:    gapBuffer,
		MaxWaitSeconds:   maxWait,
	}

	var workflow *types.WorkflowDefinition
	if useAI {
		client, err := buildAIClient()
		if err != nil {
			return err
		}
		comp.Generator = client
		workflow, err = comp.CompileWithGenerator(context.Background(), session)
		if err != nil {
			return err
		}
	} else {
		workflow, err = comp.CompileFromEvents(session)
		if err != nil {
			return err
		}
	}

	if outputFormat == "text" {
		fmt.Print(render.Text(workflow))
		return nil
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(workflow)
}

func buildAIClient() (*ai.Client, error) {
	cfg := ai.DefaultConfig()
	if aiConfig != "" {
		loaded, err := ai.LoadConfig(aiConfig)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if credsFile != "" {
		creds, err := ai.LoadCredentials(credsFile)
		if err != nil {
			return nil, fmt.Errorf("loading credentials: %w", err)
		}
		ai.ApplyCredentials(&cfg, creds)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no API key configured (set %s in a credentials file or api_key in the config)", ai.APIKeyVar)
	}
	return ai.NewClient(cfg), nil
}
