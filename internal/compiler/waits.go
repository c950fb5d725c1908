package compiler

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"flowcap/internal/types"
)

// GapConfig controls synthetic wait insertion. Thresholds are passed
// explicitly rather than read from package state so callers can tune
// them per compilation.
type GapConfig struct {
	// MinWaitThreshold is the smallest inter-event gap, in seconds,
	// that triggers a wait step.
	MinWaitThreshold float64
	// BufferSeconds is added to the observed gap to absorb page-load
	// jitter.
	BufferSeconds float64
	// MaxWaitSeconds caps the inserted duration.
	MaxWaitSeconds float64
}

// DefaultGapConfig returns the standard thresholds.
func DefaultGapConfig() GapConfig {
	return GapConfig{
		MinWaitThreshold: 2.0,
		BufferSeconds:    1.0,
		MaxWaitSeconds:   10.0,
	}
}

// InsertWaitSteps walks consecutive step pairs, correlates both back
// to source events and inserts a synthetic wait step after the first
// of any pair whose timestamps are at least MinWaitThreshold apart.
// Pairs where either side fails to correlate are skipped silently;
// missing timing evidence is not an error. The workflow's step list is
// replaced by the expanded sequence and its metadata updated with the
// new total and the number of waits inserted.
func InsertWaitSteps(workflow *types.WorkflowDefinition, session *types.SessionTimeline, cfg GapConfig) {
	if len(workflow.Steps) == 0 || len(session.Events) == 0 {
		return
	}

	sorted := make([]types.EventLog, len(session.Events))
	copy(sorted, session.Events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	newSteps := make([]types.WorkflowStep, 0, len(workflow.Steps))
	for i, step := range workflow.Steps {
		newSteps = append(newSteps, step)
		if i >= len(workflow.Steps)-1 {
			continue
		}

		current, okCurrent := CorrelateStep(step, sorted, i)
		next, okNext := CorrelateStep(workflow.Steps[i+1], sorted, i+1)
		if !okCurrent || !okNext {
			continue
		}

		delta := next.Timestamp.Sub(current.Timestamp).Seconds()
		if delta < cfg.MinWaitThreshold {
			continue
		}

		duration := math.Min(round1(delta+cfg.BufferSeconds), cfg.MaxWaitSeconds)
		reason := waitReason(current, next)

		newSteps = append(newSteps, types.WorkflowStep{
			StepID:      step.StepID + "-wait",
			Action:      types.ActionWait,
			Description: fmt.Sprintf("Wait %ss for %s", formatSeconds(duration), reason),
			Parameters: map[string]any{
				"duration_seconds": duration,
				"original_gap":     round1(delta),
			},
			WaitAfter:  types.DefaultWaitAfter,
			RetryCount: types.DefaultRetryCount,
			OnFailure:  types.FailureStop,
		})
	}

	original := len(workflow.Steps)
	workflow.Steps = newSteps
	if workflow.Metadata == nil {
		workflow.Metadata = make(map[string]any)
	}
	workflow.Metadata["total_steps"] = len(newSteps)
	workflow.Metadata["wait_steps_inserted"] = len(newSteps) - original
}

// waitReason classifies why the UI needed time between two events.
// Rules are evaluated in a fixed priority order; the first match wins.
func waitReason(current, next types.EventLog) string {
	elementName := strings.ToLower(current.String("element_name"))

	if current.Type == types.EventKeyPress {
		if strings.Contains(types.CanonicalKey(current.String("key")), "enter") {
			return "page load and navigation"
		}
	}

	if strings.Contains(elementName, "search") || strings.Contains(elementName, "address") {
		return "search results to load"
	}

	switch current.Type {
	case types.EventMouseClick:
		elementType := strings.ToLower(current.String("element_type"))
		switch {
		case strings.Contains(elementName, "tab"):
			return "new tab to open"
		case strings.Contains(elementType, "button") || strings.Contains(elementType, "link"):
			return "page load after click"
		case strings.Contains(elementName, "window"):
			return "window to open"
		default:
			return "UI response"
		}

	case types.EventKeyCombination:
		keys := lowerAll(current.Strings("keys"))
		switch {
		case hasAnyToken(keys, copyKeyTokens):
			return "copy operation"
		case hasAnyToken(keys, pasteKeyTokens):
			return "paste operation"
		default:
			return "keyboard shortcut"
		}

	case types.EventMouseDrag:
		return "text selection"
	}

	return "action to complete"
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// formatSeconds renders a duration with one decimal ("4.4", "10.0").
func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
