package compiler

import (
	"strings"

	"flowcap/internal/types"
)

// Accepted raw spellings for the Ctrl+C / Ctrl+V detection. Recording
// libraries have emitted both the named key and the literal control
// character over time; this is the exact accepted set.
var (
	ctrlKeyTokens  = []string{"ctrl", "ctrl_l"}
	copyKeyTokens  = []string{"c", `'\x03'`}
	pasteKeyTokens = []string{"v", `'\x16'`}
)

// matchStrategy is one independent way of recognizing that an event
// originated a step. Strategies are tried in a fixed order; the first
// applicable one wins.
type matchStrategy struct {
	name    string
	applies func(types.WorkflowStep) bool
	match   func(types.WorkflowStep, types.EventLog) bool
}

var kindStrategies = []matchStrategy{
	{
		name: "click-coordinates",
		applies: func(s types.WorkflowStep) bool {
			return s.Action == types.ActionClick || s.Action == types.ActionRightClick || s.Action == types.ActionDoubleClick
		},
		match: matchClickCoordinates,
	},
	{
		name:    "typed-text",
		applies: func(s types.WorkflowStep) bool { return s.Action == types.ActionTypeText },
		match:   matchTypedText,
	},
	{
		name:    "pressed-key",
		applies: func(s types.WorkflowStep) bool { return s.Action == types.ActionPressKey },
		match:   matchPressedKey,
	},
	{
		name:    "key-combination",
		applies: func(s types.WorkflowStep) bool { return s.Action == types.ActionKeyCombination },
		match:   matchKeyCombination,
	},
	{
		name:    "drag-start",
		applies: func(s types.WorkflowStep) bool { return s.Action == types.ActionDrag },
		match:   matchDragStart,
	},
	{
		name:    "scroll-coordinates",
		applies: func(s types.WorkflowStep) bool { return s.Action == types.ActionScroll },
		match:   matchScrollCoordinates,
	},
}

// CorrelateStep recovers the event that originated a step. Kind-specific
// strategies are tried first; when none matches, the event at the
// step's own index is returned as a best-effort positional fallback so
// the gap analyzer still obtains a timestamp. The fallback trades
// precision for availability and can mis-associate when many steps
// fail kind-specific matching.
func CorrelateStep(step types.WorkflowStep, events []types.EventLog, stepIndex int) (types.EventLog, bool) {
	for _, strat := range kindStrategies {
		if !strat.applies(step) {
			continue
		}
		for _, event := range events {
			if strat.match(step, event) {
				return event, true
			}
		}
	}

	if stepIndex >= 0 && stepIndex < len(events) {
		return events[stepIndex], true
	}
	return types.EventLog{}, false
}

func matchClickCoordinates(step types.WorkflowStep, event types.EventLog) bool {
	if event.Type != types.EventMouseClick {
		return false
	}
	if step.Selector == nil || step.Selector.Fallback == nil {
		return false
	}
	fx, okX := step.Selector.Fallback.Coord("x")
	fy, okY := step.Selector.Fallback.Coord("y")
	if !okX || !okY {
		return false
	}
	ex, _ := event.Int("x")
	ey, _ := event.Int("y")
	return ex == fx && ey == fy
}

func matchTypedText(step types.WorkflowStep, event types.EventLog) bool {
	return event.Type == types.EventTextInput && event.String("text") == step.StringParam("text")
}

func matchPressedKey(step types.WorkflowStep, event types.EventLog) bool {
	if event.Type != types.EventKeyPress {
		return false
	}
	return types.CanonicalKey(event.String("key")) == strings.ToLower(step.StringParam("key"))
}

func matchKeyCombination(step types.WorkflowStep, event types.EventLog) bool {
	if event.Type != types.EventKeyCombination {
		return false
	}
	stepKeys := lowerAll(step.StringsParam("keys"))
	eventKeys := lowerAll(event.Strings("keys"))

	if hasAnyToken(stepKeys, ctrlKeyTokens) && hasAnyToken(stepKeys, copyKeyTokens) {
		if hasAnyToken(eventKeys, ctrlKeyTokens) && hasAnyToken(eventKeys, copyKeyTokens) {
			return true
		}
	}
	if hasAnyToken(stepKeys, ctrlKeyTokens) && hasAnyToken(stepKeys, pasteKeyTokens) {
		if hasAnyToken(eventKeys, ctrlKeyTokens) && hasAnyToken(eventKeys, pasteKeyTokens) {
			return true
		}
	}
	return false
}

func matchDragStart(step types.WorkflowStep, event types.EventLog) bool {
	if event.Type != types.EventMouseDrag {
		return false
	}
	ex, _ := event.Int("start_x")
	ey, _ := event.Int("start_y")

	// Selector-encoded start, then parameter-encoded, then the
	// fallback point, in that order.
	if sx, ok := step.Selector.Coord("start_x"); ok {
		if sy, ok := step.Selector.Coord("start_y"); ok {
			if ex == sx && ey == sy {
				return true
			}
		}
	}
	if px, ok := step.IntParam("start_x"); ok {
		if py, ok := step.IntParam("start_y"); ok {
			if ex == px && ey == py {
				return true
			}
		}
	}
	if step.Selector != nil && step.Selector.Fallback != nil {
		if fx, ok := step.Selector.Fallback.Coord("x"); ok {
			if fy, ok := step.Selector.Fallback.Coord("y"); ok {
				if ex == fx && ey == fy {
					return true
				}
			}
		}
	}
	return false
}

func matchScrollCoordinates(step types.WorkflowStep, event types.EventLog) bool {
	if event.Type != types.EventScroll {
		return false
	}
	sx, okX := step.Selector.Coord("x")
	sy, okY := step.Selector.Coord("y")
	if !okX || !okY {
		return false
	}
	ex, _ := event.Int("x")
	ey, _ := event.Int("y")
	return ex == sx && ey == sy
}

func lowerAll(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = strings.ToLower(k)
	}
	return out
}

// hasAnyToken reports whether any key token contains one of the wanted
// spellings as a substring.
func hasAnyToken(keys, wanted []string) bool {
	for _, key := range keys {
		for _, want := range wanted {
			if key == want || (len(want) > 1 && strings.Contains(key, want)) {
				return true
			}
		}
	}
	return false
}
