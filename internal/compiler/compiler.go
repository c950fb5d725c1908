package compiler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"flowcap/internal/types"
)

// Generator produces a workflow from a serialized session. The
// response is free text expected to contain a JSON workflow object,
// possibly fenced; the compiler handles extraction and parsing.
type Generator interface {
	GenerateWorkflow(ctx context.Context, session *types.SessionTimeline) (string, error)
}

// Compiler turns recorded sessions into workflow definitions.
type Compiler struct {
	// Generator enables the generative path. Nil means deterministic
	// synthesis only.
	Generator Generator
	// Gap controls synthetic wait insertion.
	Gap GapConfig
}

// New creates a compiler with default gap thresholds.
func New() *Compiler {
	return &Compiler{Gap: DefaultGapConfig()}
}

// CompileFromEvents builds a workflow deterministically from the
// session's events: simplify, synthesize one step per event, infer the
// workflow's name, then insert waits for the observed timing gaps.
func (c *Compiler) CompileFromEvents(session *types.SessionTimeline) (*types.WorkflowDefinition, error) {
	simplified := SimplifyEvents(session.Events)

	steps := make([]types.WorkflowStep, 0, len(simplified))
	counter := 1
	for _, event := range simplified {
		step := SynthesizeStep(event, counter)
		if step == nil {
			continue
		}
		steps = append(steps, *step)
		counter++
	}

	name, description := inferWorkflowIntent(steps, session)

	workflow := &types.WorkflowDefinition{
		WorkflowID:  session.SessionID + "-workflow",
		Name:        name,
		Description: description,
		Version:     "1.0.0",
		Application: session.Application,
		Steps:       steps,
		Metadata: map[string]any{
			"source_session":   session.SessionID,
			"generated_at":     time.Now().UTC().Format(time.RFC3339),
			"event_count":      len(session.Events),
			"simplified_count": len(simplified),
		},
	}

	if err := ValidateWorkflow(workflow); err != nil {
		return nil, fmt.Errorf("synthesized workflow: %w", err)
	}

	InsertWaitSteps(workflow, session, c.Gap)
	return workflow, nil
}

// CompileWithGenerator builds a workflow through the generative path:
// the simplified session is handed to the Generator, its response
// parsed and validated, then the workflow is repaired and gap-analyzed
// the same way as the deterministic path.
func (c *Compiler) CompileWithGenerator(ctx context.Context, session *types.SessionTimeline) (*types.WorkflowDefinition, error) {
	if c.Generator == nil {
		return nil, errors.New("no generator configured")
	}

	simplified := *session
	simplified.Events = SimplifyEvents(session.Events)

	raw, err := c.Generator.GenerateWorkflow(ctx, &simplified)
	if err != nil {
		return nil, fmt.Errorf("generating workflow: %w", err)
	}

	payload, ok := ExtractJSON(raw)
	if !ok {
		return nil, &ParseError{Raw: raw, Err: errors.New("no JSON object found in response")}
	}

	var workflow types.WorkflowDefinition
	if err := json.Unmarshal([]byte(payload), &workflow); err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}
	if err := ValidateWorkflow(&workflow); err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}

	EnrichSelectors(&workflow, session)
	InsertWaitSteps(&workflow, session, c.Gap)
	return &workflow, nil
}

// inferWorkflowIntent derives a workflow name and description from the
// synthesized steps. Heuristic but deterministic: a typed search query
// names the workflow after itself, otherwise the session's application
// does.
func inferWorkflowIntent(steps []types.WorkflowStep, session *types.SessionTimeline) (string, string) {
	var hasTyping, hasSearch, hasVideo, hasYoutube bool
	for _, step := range steps {
		desc := strings.ToLower(step.Description)
		if step.Action == types.ActionTypeText {
			hasTyping = true
		}
		if strings.Contains(desc, "search") {
			hasSearch = true
		}
		if strings.Contains(desc, "video") {
			hasVideo = true
		}
		if strings.Contains(desc, "youtube") {
			hasYoutube = true
		}
	}

	if hasYoutube && hasVideo {
		return "Search and Watch YouTube Video",
			"User searches for a video on YouTube and interacts with it"
	}

	if hasSearch && hasTyping {
		for _, step := range steps {
			if step.Action != types.ActionTypeText {
				continue
			}
			if query := step.StringParam("text"); query != "" {
				return fmt.Sprintf("Search for '%s'", query),
					fmt.Sprintf("User performs a web search for '%s' and navigates results", query)
			}
			break
		}
		return "Web Search and Navigation",
			"User performs a web search and navigates through results"
	}

	return fmt.Sprintf("%s - User Session", session.Application),
		fmt.Sprintf("Recorded user session in %s", session.Application)
}
