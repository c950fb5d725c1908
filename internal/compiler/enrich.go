package compiler

import (
	"flowcap/internal/types"
)

// EnrichSelectors repairs text selectors whose value went missing
// during synthesis or generative post-processing. For every step with
// an empty text selector it scans the session for an event whose
// coordinates equal the selector's fallback point and copies that
// event's element name in. Nothing else is touched and no data is
// removed.
func EnrichSelectors(workflow *types.WorkflowDefinition, session *types.SessionTimeline) {
	for i := range workflow.Steps {
		step := &workflow.Steps[i]
		if step.Selector == nil || step.Selector.Type != types.SelectorText || step.Selector.Text != "" {
			continue
		}

		event, ok := findEventByFallback(step.Selector, session.Events)
		if !ok {
			continue
		}
		if name := event.String("element_name"); name != "" {
			step.Selector.Text = name
		}
	}
}

func findEventByFallback(selector *types.Selector, events []types.EventLog) (types.EventLog, bool) {
	if selector.Fallback == nil {
		return types.EventLog{}, false
	}
	fx, okX := selector.Fallback.Coord("x")
	fy, okY := selector.Fallback.Coord("y")
	if !okX || !okY {
		return types.EventLog{}, false
	}

	for _, event := range events {
		ex, _ := event.Int("x")
		ey, _ := event.Int("y")
		if ex == fx && ey == fy {
			return event, true
		}
	}
	return types.EventLog{}, false
}
