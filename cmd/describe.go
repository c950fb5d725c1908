package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"flowcap/internal/compiler"
	"flowcap/internal/render"
	"flowcap/internal/types"
)

var resolveVars bool

var describeCmd = &cobra.Command{
	Use:   "describe <workflow-file>",
	Short: "Show a compiled workflow in readable form",
	Args:  cobra.ExactArgs(1),
	RunE:  describeWorkflow,
}

func init() {
	describeCmd.Flags().BoolVar(&resolveVars, "resolve", false, "substitute workflow variables into step parameters")
	rootCmd.AddCommand(describeCmd)
}

func describeWorkflow(cmd *cobra.Command, args []string) error {
	workflow, err := loadWorkflow(args[0])
	if err != nil {
		return err
	}

	if resolveVars {
		workflow, err = compiler.ResolveVariables(workflow)
		if err != nil {
			return err
		}
	}

	if outputFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(workflow)
	}

	fmt.Print(render.Text(workflow))
	return nil
}

func loadWorkflow(path string) (*types.WorkflowDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workflow file %s: %w", path, err)
	}

	var workflow types.WorkflowDefinition
	if err := json.Unmarshal(data, &workflow); err != nil {
		return nil, fmt.Errorf("parsing workflow file %s: %w", path, err)
	}
	return &workflow, nil
}
