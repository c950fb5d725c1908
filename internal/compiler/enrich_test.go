package compiler

import (
	"testing"
	"time"

	"flowcap/internal/types"
)

func TestEnrichFillsEmptyTextSelector(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	session := &types.SessionTimeline{
		Events: []types.EventLog{
			clickEvent(base, 540, 520, "Sign In", "Button"),
		},
	}
	workflow := &types.WorkflowDefinition{
		Steps: []types.WorkflowStep{
			{
				StepID:   "step-1",
				Action:   types.ActionClick,
				Selector: types.NewTextSelector("", 540, 520),
			},
		},
	}

	EnrichSelectors(workflow, session)

	if got := workflow.Steps[0].Selector.Text; got != "Sign In" {
		t.Errorf("selector text = %q, want Sign In", got)
	}
}

func TestEnrichLeavesNonEmptySelectorsAlone(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	session := &types.SessionTimeline{
		Events: []types.EventLog{
			clickEvent(base, 540, 520, "Other Name", "Button"),
		},
	}
	workflow := &types.WorkflowDefinition{
		Steps: []types.WorkflowStep{
			{
				StepID:   "step-1",
				Action:   types.ActionClick,
				Selector: types.NewTextSelector("Sign In", 540, 520),
			},
		},
	}

	EnrichSelectors(workflow, session)

	if got := workflow.Steps[0].Selector.Text; got != "Sign In" {
		t.Errorf("selector text = %q, should be untouched", got)
	}
}

func TestEnrichSkipsWhenNoMatchingEvent(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	session := &types.SessionTimeline{
		Events: []types.EventLog{
			clickEvent(base, 1, 1, "Far Away", "Button"),
		},
	}
	workflow := &types.WorkflowDefinition{
		Steps: []types.WorkflowStep{
			{
				StepID:   "step-1",
				Action:   types.ActionClick,
				Selector: types.NewTextSelector("", 540, 520),
			},
			{
				StepID: "step-2",
				Action: types.ActionPressKey,
			},
		},
	}

	EnrichSelectors(workflow, session)

	if got := workflow.Steps[0].Selector.Text; got != "" {
		t.Errorf("selector text = %q, want empty (no coordinate match)", got)
	}
}
