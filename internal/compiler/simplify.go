package compiler

import (
	"strings"

	"flowcap/internal/types"
)

// SimplifyEvents collapses low-level typing fragments into logical
// text-entry events. It returns a new slice; the input is never
// mutated. Running it over an already-simplified sequence is a no-op.
func SimplifyEvents(events []types.EventLog) []types.EventLog {
	return groupTypingSequences(events)
}

// groupTypingSequences merges TYPE, PRESS(space), TYPE... runs into a
// single text_input event whose text joins the fragments with spaces.
// A run ends at the first event that is neither a text input nor a
// space key press following one.
func groupTypingSequences(events []types.EventLog) []types.EventLog {
	grouped := make([]types.EventLog, 0, len(events))

	i := 0
	for i < len(events) {
		if events[i].Type != types.EventTextInput {
			grouped = append(grouped, events[i])
			i++
			continue
		}

		var parts []string
		j := i
		for j < len(events) {
			if events[j].Type != types.EventTextInput {
				break
			}
			parts = append(parts, events[j].String("text"))
			j++

			if j >= len(events) || events[j].Type != types.EventKeyPress {
				break
			}
			if !strings.Contains(strings.ToLower(events[j].String("key")), "space") {
				break
			}
			parts = append(parts, " ")
			j++
		}

		if j > i+1 {
			grouped = append(grouped, mergeTypingRun(events[i], parts, j-i))
			i = j
		} else {
			grouped = append(grouped, events[i])
			i++
		}
	}

	return grouped
}

// mergeTypingRun builds the combined event. Element attributes come
// from the first event of the run; grouped_from records how many
// source events were merged.
func mergeTypingRun(first types.EventLog, parts []string, count int) types.EventLog {
	data := map[string]any{
		"text":         strings.TrimSpace(strings.Join(parts, "")),
		"grouped_from": count,
	}
	for _, key := range []string{"element_name", "element_type", "automation_id"} {
		if v := first.String(key); v != "" {
			data[key] = v
		}
	}

	return types.EventLog{
		Timestamp:     first.Timestamp,
		Type:          types.EventTextInput,
		Data:          data,
		ScreenshotRef: first.ScreenshotRef,
	}
}
