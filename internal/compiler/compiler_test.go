package compiler

import (
	"context"
	"errors"
	"testing"
	"time"

	"flowcap/internal/types"
)

func searchSession() *types.SessionTimeline {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	searchBar := clickEvent(base, 400, 80, "Search Bar", "Edit")
	typed := textEvent(base.Add(1*time.Second), "never gonna give")
	typed.Data["element_name"] = "Search Bar"
	return &types.SessionTimeline{
		SessionID:   "session-1705340207",
		StartTime:   base,
		Application: "Firefox Browser",
		Events: []types.EventLog{
			searchBar,
			typed,
			keyEvent(base.Add(2*time.Second), "Key.enter"),
			clickEvent(base.Add(8*time.Second), 300, 400, "First Result", "Hyperlink"),
		},
	}
}

func TestCompileFromEvents(t *testing.T) {
	workflow, err := New().CompileFromEvents(searchSession())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if workflow.WorkflowID != "session-1705340207-workflow" {
		t.Errorf("workflow_id = %q", workflow.WorkflowID)
	}
	if workflow.Name != "Search for 'never gonna give'" {
		t.Errorf("name = %q", workflow.Name)
	}
	if workflow.Version != "1.0.0" {
		t.Errorf("version = %q", workflow.Version)
	}
	if workflow.Application != "Firefox Browser" {
		t.Errorf("application = %q", workflow.Application)
	}

	// Four source steps plus a wait after Enter (6 second gap to the
	// result click).
	if len(workflow.Steps) != 5 {
		t.Fatalf("got %d steps: %+v", len(workflow.Steps), workflow.Steps)
	}
	// The typed event names its input field, so the type_text step
	// keeps a text selector and still validates.
	typed := workflow.Steps[1]
	if typed.Action != types.ActionTypeText {
		t.Fatalf("step 2 action = %q, want type_text", typed.Action)
	}
	if typed.Selector == nil || typed.Selector.Text != "Search Bar" {
		t.Errorf("type_text selector = %+v, want text selector Search Bar", typed.Selector)
	}
	wait := workflow.Steps[3]
	if wait.Action != types.ActionWait {
		t.Errorf("step 4 action = %q, want wait", wait.Action)
	}
	if wait.Description != "Wait 7.0s for page load and navigation" {
		t.Errorf("wait description = %q", wait.Description)
	}

	if got, _ := workflow.Metadata["event_count"].(int); got != 4 {
		t.Errorf("event_count = %v", workflow.Metadata["event_count"])
	}
	if got, _ := workflow.Metadata["wait_steps_inserted"].(int); got != 1 {
		t.Errorf("wait_steps_inserted = %v", workflow.Metadata["wait_steps_inserted"])
	}

	if err := ValidateWorkflow(workflow); err != nil {
		t.Errorf("compiled workflow failed validation: %v", err)
	}
}

func TestCompileFromEventsStepIDsSequential(t *testing.T) {
	session := searchSession()
	// A screenshot event produces no step; numbering must not skip.
	session.Events = append([]types.EventLog{
		{Timestamp: session.StartTime.Add(-time.Second), Type: types.EventScreenshot},
	}, session.Events...)

	workflow, err := New().CompileFromEvents(session)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if workflow.Steps[0].StepID != "step-1" {
		t.Errorf("first step id = %q, want step-1", workflow.Steps[0].StepID)
	}
}

func TestCompileFromEventsFallbackName(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	session := &types.SessionTimeline{
		SessionID:   "session-2",
		Application: "Notepad",
		Events: []types.EventLog{
			clickEvent(base, 10, 10, "File", "MenuItem"),
		},
	}

	workflow, err := New().CompileFromEvents(session)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if workflow.Name != "Notepad - User Session" {
		t.Errorf("name = %q", workflow.Name)
	}
}

// fakeGenerator returns a canned response without a network round trip.
type fakeGenerator struct {
	response string
	err      error
}

func (f fakeGenerator) GenerateWorkflow(ctx context.Context, session *types.SessionTimeline) (string, error) {
	return f.response, f.err
}

func TestCompileWithGeneratorSuccess(t *testing.T) {
	response := "```json\n" + `{
  "workflow_id": "session-1705340207-workflow",
  "name": "Web search",
  "version": "1.0.0",
  "steps": [
    {
      "step_id": "step-1",
      "action": "CLICK",
      "description": "Click the search bar",
      "selector": {"type": "text", "value": "", "fallback": {"type": "coordinates", "value": {"x": 400, "y": 80}}}
    },
    {
      "step_id": "step-2",
      "action": "type_text",
      "description": "Type the query",
      "parameters": {"text": "never gonna give"}
    }
  ]
}` + "\n```"

	comp := New()
	comp.Generator = fakeGenerator{response: response}

	workflow, err := comp.CompileWithGenerator(context.Background(), searchSession())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Upper-case action from the model is normalized.
	if workflow.Steps[0].Action != types.ActionClick {
		t.Errorf("action = %q, want click", workflow.Steps[0].Action)
	}
	// The empty text selector is enriched from the session event at the
	// fallback coordinates.
	if got := workflow.Steps[0].Selector.Text; got != "Search Bar" {
		t.Errorf("enriched selector text = %q, want Search Bar", got)
	}
}

func TestCompileWithGeneratorParseError(t *testing.T) {
	comp := New()
	comp.Generator = fakeGenerator{response: "I cannot help with that."}

	_, err := comp.CompileWithGenerator(context.Background(), searchSession())
	if err == nil {
		t.Fatal("expected an error")
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error type = %T, want *ParseError", err)
	}
	if pe.Raw != "I cannot help with that." {
		t.Errorf("raw = %q", pe.Raw)
	}
}

func TestCompileWithGeneratorInvalidWorkflow(t *testing.T) {
	// Valid JSON but the keyboard step illegally carries a selector.
	response := `{
  "workflow_id": "wf-1",
  "name": "bad",
  "steps": [
    {
      "step_id": "step-1",
      "action": "press_key",
      "selector": {"type": "coordinates", "value": {"x": 1, "y": 2}},
      "parameters": {"key": "enter"}
    }
  ]
}`

	comp := New()
	comp.Generator = fakeGenerator{response: response}

	_, err := comp.CompileWithGenerator(context.Background(), searchSession())
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
}

func TestCompileWithGeneratorNotConfigured(t *testing.T) {
	_, err := New().CompileWithGenerator(context.Background(), searchSession())
	if err == nil {
		t.Fatal("expected an error when no generator is set")
	}
}

func TestCompileWithGeneratorPropagatesGeneratorError(t *testing.T) {
	comp := New()
	comp.Generator = fakeGenerator{err: errors.New("rate limited")}

	_, err := comp.CompileWithGenerator(context.Background(), searchSession())
	if err == nil {
		t.Fatal("expected an error")
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		t.Error("transport errors must not be reported as parse errors")
	}
}
