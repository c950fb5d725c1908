package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"flowcap/internal/compiler"
)

var validateCmd = &cobra.Command{
	Use:   "validate <workflow-file>",
	Short: "Validate a compiled workflow file",
	Args:  cobra.ExactArgs(1),
	RunE:  validateWorkflow,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateWorkflow(cmd *cobra.Command, args []string) error {
	workflow, err := loadWorkflow(args[0])
	if err != nil {
		return err
	}

	if err := compiler.ValidateWorkflow(workflow); err != nil {
		return err
	}

	fmt.Printf("Workflow %q is valid.\n", workflow.Name)
	return nil
}
