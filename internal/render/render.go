// Package render turns workflow definitions into a human-readable text
// projection. The rendering is one-way: it is meant for review, not
// for parsing back.
package render

import (
	"fmt"
	"sort"
	"strings"

	"flowcap/internal/types"
)

const rule = "======================================================================"
const stepRule = "----------------------------------------------------------------------"

// Text renders a workflow as readable text listing every step with its
// target, parameters and execution settings.
func Text(workflow *types.WorkflowDefinition) string {
	var b strings.Builder

	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "   WORKFLOW: %s\n", workflow.Name)
	b.WriteString(rule + "\n\n")

	fmt.Fprintf(&b, "Description: %s\n", workflow.Description)
	if workflow.Application != "" {
		fmt.Fprintf(&b, "Application: %s\n", workflow.Application)
	}
	fmt.Fprintf(&b, "Version: %s\n", workflow.Version)
	fmt.Fprintf(&b, "Workflow ID: %s\n", workflow.WorkflowID)
	fmt.Fprintf(&b, "Total Steps: %d\n\n", len(workflow.Steps))

	b.WriteString(rule + "\n")
	b.WriteString("   WORKFLOW STEPS\n")
	b.WriteString(rule + "\n\n")

	for i, step := range workflow.Steps {
		b.WriteString(stepRule + "\n")
		fmt.Fprintf(&b, "STEP %d: %s\n", i+1, step.StepID)
		b.WriteString(stepRule + "\n")
		fmt.Fprintf(&b, "Action: %s\n", step.Action)
		fmt.Fprintf(&b, "Description: %s\n\n", step.Description)

		if step.Selector != nil {
			writeSelector(&b, step.Selector)
		}

		if len(step.Parameters) > 0 {
			b.WriteString("Parameters:\n")
			for _, key := range sortedKeys(step.Parameters) {
				fmt.Fprintf(&b, "  • %s: %v\n", key, step.Parameters[key])
			}
			b.WriteString("\n")
		}

		b.WriteString("Execution Settings:\n")
		fmt.Fprintf(&b, "  • Wait After: %gs\n", step.WaitAfter)
		fmt.Fprintf(&b, "  • Retry Count: %d\n", step.RetryCount)
		fmt.Fprintf(&b, "  • On Failure: %s\n\n", step.OnFailure)
	}

	b.WriteString(rule + "\n")
	b.WriteString("   END OF WORKFLOW\n")
	b.WriteString(rule + "\n")

	return b.String()
}

func writeSelector(b *strings.Builder, selector *types.Selector) {
	b.WriteString("Target:\n")
	switch selector.Type {
	case types.SelectorCoordinates:
		if _, isDrag := selector.Coords["start_x"]; isDrag {
			fmt.Fprintf(b, "  • Drag from (%d, %d) to (%d, %d)\n",
				selector.Coords["start_x"], selector.Coords["start_y"],
				selector.Coords["end_x"], selector.Coords["end_y"])
		} else {
			fmt.Fprintf(b, "  • Coordinates: (%d, %d)\n", selector.Coords["x"], selector.Coords["y"])
		}
	case types.SelectorText:
		fmt.Fprintf(b, "  • Text Selector: %q\n", selector.Text)
		if selector.Fallback != nil {
			fmt.Fprintf(b, "  • Fallback Coordinates: (%d, %d)\n",
				selector.Fallback.Coords["x"], selector.Fallback.Coords["y"])
		}
	}
	b.WriteString("\n")
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
