package compiler

import (
	"fmt"
	"strings"

	"flowcap/internal/types"
)

// SynthesizeStep maps one simplified event to a workflow step. It
// returns nil for events that are reference points rather than actions
// (screenshots) and for unknown event kinds.
func SynthesizeStep(event types.EventLog, stepNum int) *types.WorkflowStep {
	elementName := event.String("element_name")
	elementType := event.String("element_type")

	switch event.Type {
	case types.EventMouseClick:
		button := event.String("button")
		if button == "" {
			button = "left"
		}
		action := types.ActionClick
		if button == "right" {
			action = types.ActionRightClick
		}
		var params map[string]any
		if button != "left" {
			params = map[string]any{"button": button}
		}
		step := newStep(stepNum, action, describeClick(action, elementName, elementType, event))
		step.Selector = buildSelector(elementName, event)
		step.Parameters = params
		step.ScreenshotBefore = event.ScreenshotRef
		return step

	case types.EventMouseDoubleClick:
		step := newStep(stepNum, types.ActionDoubleClick, describeClick(types.ActionDoubleClick, elementName, elementType, event))
		step.Selector = buildSelector(elementName, event)
		return step

	case types.EventMouseDrag:
		startX, _ := event.Int("start_x")
		startY, _ := event.Int("start_y")
		endX, _ := event.Int("end_x")
		endY, _ := event.Int("end_y")

		desc := fmt.Sprintf("Drag from (%d, %d) to (%d, %d)", startX, startY, endX, endY)
		if event.String("user_intent") == "select_text_for_copy" {
			desc = fmt.Sprintf("Select text by dragging from (%d, %d) to (%d, %d)", startX, startY, endX, endY)
		}

		step := newStep(stepNum, types.ActionDrag, desc)
		step.Selector = types.NewDragSelector(startX, startY, endX, endY)
		// end coordinates are duplicated in parameters for consumers
		// that never look at selectors
		step.Parameters = map[string]any{"end_x": endX, "end_y": endY}
		return step

	case types.EventTextInput:
		text := event.String("text")
		groupedFrom, _ := event.Int("grouped_from")

		desc := fmt.Sprintf("Type '%s'", text)
		if groupedFrom > 1 {
			desc = fmt.Sprintf("Type complete text: '%s'", text)
		}
		if elementName != "" {
			desc += fmt.Sprintf(" into '%s'", elementName)
		}

		step := newStep(stepNum, types.ActionTypeText, desc)
		if elementName != "" {
			step.Selector = buildSelector(elementName, event)
		}
		step.Parameters = map[string]any{"text": text}
		return step

	case types.EventKeyPress:
		key := types.CanonicalKey(event.String("key"))
		display := displayKeyName(key)

		desc := fmt.Sprintf("Press %s key", display)
		if event.String("user_intent") == "submit_input" {
			desc = fmt.Sprintf("Submit by pressing %s", display)
		}

		step := newStep(stepNum, types.ActionPressKey, desc)
		step.Parameters = map[string]any{"key": key}
		return step

	case types.EventKeyCombination:
		return synthesizeKeyCombination(event, stepNum)

	case types.EventScroll:
		deltaX, _ := event.Int("delta_x")
		deltaY, _ := event.Int("delta_y")
		x, _ := event.Int("x")
		y, _ := event.Int("y")

		direction := "up"
		if deltaY > 0 {
			direction = "down"
		}

		step := newStep(stepNum, types.ActionScroll, fmt.Sprintf("Scroll %s", direction))
		step.Selector = types.NewPointSelector(x, y)
		step.Parameters = map[string]any{"delta_x": deltaX, "delta_y": deltaY}
		return step

	case types.EventNavigation:
		url := event.String("url")
		step := newStep(stepNum, types.ActionNavigate, fmt.Sprintf("Navigate to %s", url))
		step.Parameters = map[string]any{"url": url}
		return step

	case types.EventScreenshot:
		return nil
	}

	return nil
}

func synthesizeKeyCombination(event types.EventLog, stepNum int) *types.WorkflowStep {
	clipboard := event.String("clipboard_content")
	preview := clipboardPreview(clipboard)

	switch event.String("user_intent") {
	case "copy_to_clipboard":
		desc := "Copy selected text to clipboard (Ctrl+C)"
		if preview != "" {
			desc = fmt.Sprintf("Copy text to clipboard: '%s'", preview)
		}
		step := newStep(stepNum, types.ActionKeyCombination, desc)
		step.Parameters = map[string]any{
			"keys":              []string{"Ctrl", "C"},
			"clipboard_content": clipboard,
		}
		return step

	case "paste_from_clipboard":
		desc := "Paste from clipboard (Ctrl+V)"
		if preview != "" {
			desc = fmt.Sprintf("Paste text from clipboard: '%s'", preview)
		}
		step := newStep(stepNum, types.ActionKeyCombination, desc)
		step.Parameters = map[string]any{
			"keys":              []string{"Ctrl", "V"},
			"clipboard_content": clipboard,
		}
		return step
	}

	keys := event.Strings("keys")
	step := newStep(stepNum, types.ActionKeyCombination, fmt.Sprintf("Press %s", formatKeyCombination(keys)))
	step.Parameters = map[string]any{"keys": keys}
	return step
}

func newStep(stepNum int, action types.ActionType, description string) *types.WorkflowStep {
	return &types.WorkflowStep{
		StepID:      fmt.Sprintf("step-%d", stepNum),
		Action:      action,
		Description: description,
		WaitAfter:   types.DefaultWaitAfter,
		RetryCount:  types.DefaultRetryCount,
		OnFailure:   types.FailureStop,
	}
}

// buildSelector builds a text selector with coordinate fallback when
// an element name is known, otherwise a coordinate-only selector.
func buildSelector(elementName string, event types.EventLog) *types.Selector {
	x, _ := event.Int("x")
	y, _ := event.Int("y")

	if elementName != "" {
		return types.NewTextSelector(elementName, x, y)
	}
	return types.NewPointSelector(x, y)
}

// describeClick produces the human-readable description for a click
// step. Templates are keyed on the element type and name; the output
// is fully determined by the inputs.
func describeClick(action types.ActionType, elementName, elementType string, event types.EventLog) string {
	verb := "Click"
	if action == types.ActionRightClick {
		verb = "Right-click"
	}

	if elementName == "" {
		x, _ := event.Int("x")
		y, _ := event.Int("y")
		return fmt.Sprintf("%s at coordinates (%d, %d)", verb, x, y)
	}

	lower := strings.ToLower(elementName)
	switch {
	case strings.Contains(lower, "search") || strings.Contains(lower, "address"):
		if action == types.ActionRightClick {
			return fmt.Sprintf("Right-click on '%s'", elementName)
		}
		return fmt.Sprintf("Click on search/address bar: '%s'", elementName)
	case elementType == "Button":
		return fmt.Sprintf("%s the '%s' button", verb, elementName)
	case elementType == "Hyperlink":
		return fmt.Sprintf("%s on '%s' link", verb, elementName)
	case elementType == "ListItem":
		return fmt.Sprintf("Select '%s' from menu", elementName)
	case elementType == "Edit" || elementType == "ComboBox":
		return fmt.Sprintf("%s on '%s' input field", verb, elementName)
	default:
		return fmt.Sprintf("%s on '%s'", verb, elementName)
	}
}

// clipboardPreview truncates on runes so multibyte text is never cut
// mid-character.
func clipboardPreview(content string) string {
	trimmed := strings.TrimSpace(content)
	if runes := []rune(trimmed); len(runes) > 50 {
		return string(runes[:50])
	}
	return trimmed
}

var keyDisplayNames = map[string]string{
	"enter":     "Enter",
	"esc":       "Escape",
	"escape":    "Escape",
	"space":     "Space",
	"tab":       "Tab",
	"backspace": "Backspace",
	"delete":    "Delete",
	"up":        "↑",
	"down":      "↓",
	"left":      "←",
	"right":     "→",
}

func displayKeyName(key string) string {
	if name, ok := keyDisplayNames[strings.ToLower(key)]; ok {
		return name
	}
	return capitalize(key)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// formatKeyCombination renders raw key tokens as a readable combo such
// as "Ctrl+C". Control-character spellings of C and V are mapped back
// to their letters.
func formatKeyCombination(keys []string) string {
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		lower := strings.ToLower(key)
		switch {
		case strings.Contains(lower, "ctrl"):
			parts = append(parts, "Ctrl")
		case strings.Contains(lower, "alt"):
			parts = append(parts, "Alt")
		case strings.Contains(lower, "shift"):
			parts = append(parts, "Shift")
		case strings.Contains(lower, `'\x03'`) || strings.Contains(lower, "c"):
			parts = append(parts, "C")
		case strings.Contains(lower, `'\x16'`) || strings.Contains(lower, "v"):
			parts = append(parts, "V")
		default:
			parts = append(parts, strings.ToUpper(strings.ReplaceAll(lower, "'", "")))
		}
	}
	return strings.Join(parts, "+")
}
