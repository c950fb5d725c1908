package compiler

import (
	"fmt"
	"strings"

	"flowcap/internal/types"
)

// ValidationError collects multiple validation issues.
type ValidationError struct {
	Errors []string
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(ve.Errors, "\n  - "))
}

func (ve *ValidationError) Add(msg string) {
	ve.Errors = append(ve.Errors, msg)
}

func (ve *ValidationError) HasErrors() bool {
	return len(ve.Errors) > 0
}

// ValidateWorkflow checks a workflow definition against the schema
// invariants. Invalid shapes are rejected, never coerced: mouse steps
// must carry a selector, keyboard steps other than type_text must not,
// drags must carry end coordinates, and waits must carry a duration.
func ValidateWorkflow(workflow *types.WorkflowDefinition) error {
	ve := &ValidationError{}

	if workflow.WorkflowID == "" {
		ve.Add("'workflow_id' is required")
	}
	if workflow.Name == "" {
		ve.Add("'name' is required")
	}
	if len(workflow.Steps) == 0 {
		ve.Add("workflow must have at least one step")
	}

	stepIDs := make(map[string]int)
	for i, step := range workflow.Steps {
		if step.StepID == "" {
			ve.Add(fmt.Sprintf("step %d: 'step_id' is required", i+1))
			continue
		}
		if prev, exists := stepIDs[step.StepID]; exists {
			ve.Add(fmt.Sprintf("step %d: duplicate step_id %q (first at step %d)", i+1, step.StepID, prev+1))
		}
		stepIDs[step.StepID] = i

		if !step.Action.Valid() {
			ve.Add(fmt.Sprintf("step %q: unknown action %q", step.StepID, step.Action))
			continue
		}

		if step.Action.IsMouse() {
			if step.Selector == nil {
				ve.Add(fmt.Sprintf("step %q: action %q requires a selector", step.StepID, step.Action))
			} else if step.Selector.Type != types.SelectorText && step.Selector.Type != types.SelectorCoordinates {
				ve.Add(fmt.Sprintf("step %q: unknown selector type %q", step.StepID, step.Selector.Type))
			}
		} else if step.Selector != nil {
			// type_text may target the input field it types into; the
			// other keyboard actions never carry a selector.
			if step.Action != types.ActionTypeText {
				ve.Add(fmt.Sprintf("step %q: action %q must not carry a selector", step.StepID, step.Action))
			} else if step.Selector.Type != types.SelectorText && step.Selector.Type != types.SelectorCoordinates {
				ve.Add(fmt.Sprintf("step %q: unknown selector type %q", step.StepID, step.Selector.Type))
			}
		}

		switch step.Action {
		case types.ActionDrag:
			if _, ok := step.IntParam("end_x"); !ok {
				ve.Add(fmt.Sprintf("step %q: drag requires 'end_x' parameter", step.StepID))
			}
			if _, ok := step.IntParam("end_y"); !ok {
				ve.Add(fmt.Sprintf("step %q: drag requires 'end_y' parameter", step.StepID))
			}
		case types.ActionWait:
			if _, ok := step.Parameters["duration_seconds"]; !ok {
				ve.Add(fmt.Sprintf("step %q: wait requires 'duration_seconds' parameter", step.StepID))
			}
		}

		switch step.OnFailure {
		case "", types.FailureStop:
			// valid
		default:
			ve.Add(fmt.Sprintf("step %q: invalid on_failure value %q (only %q is supported)", step.StepID, step.OnFailure, types.FailureStop))
		}
	}

	checkVariableRefs(workflow, ve)

	if ve.HasErrors() {
		return ve
	}
	return nil
}
