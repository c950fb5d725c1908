package ingest

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"flowcap/internal/types"
)

// Recording is the raw capture format produced by the third-party
// recorder. Its command vocabulary and field layout differ from the
// event model; ConvertRecording adapts them.
type Recording struct {
	Metadata map[string]any   `json:"metadata"`
	Actions  []RecordedAction `json:"actions"`
}

// RecordedAction is one raw action in a recording.
type RecordedAction struct {
	Command    string           `json:"command"`
	Timestamp  string           `json:"timestamp"`
	Element    *RecordedElement `json:"element,omitempty"`
	Parameters map[string]any   `json:"parameters,omitempty"`
	Screenshot string           `json:"screenshot,omitempty"`
}

// RecordedElement carries the UI element captured with an action.
type RecordedElement struct {
	Name         string `json:"name"`
	ControlType  string `json:"control_type"`
	AutomationID string `json:"automation_id"`
}

var commandEventTypes = map[string]types.EventType{
	"CLICK":  types.EventMouseClick,
	"TYPE":   types.EventTextInput,
	"PRESS":  types.EventKeyPress,
	"SCROLL": types.EventScroll,
	"DRAG":   types.EventMouseDrag,
	"HOTKEY": types.EventKeyCombination,
	"COPY":   types.EventKeyCombination,
	"PASTE":  types.EventKeyCombination,
}

// Placeholder values the recorder emits when it could not resolve an
// element attribute.
var (
	unknownElementNames = map[string]bool{"": true, "Error": true, "N/A": true, "Unknown": true}
	unknownElementTypes = map[string]bool{"": true, "Unknown": true}
	unknownAutomationID = map[string]bool{"": true, "N/A": true}
)

// ConvertRecording adapts a raw recording to a SessionTimeline. The
// STOP sentinel and unrecognized commands are dropped. An action whose
// timestamp cannot be repaired is skipped with a warning; the rest of
// the recording still converts.
func ConvertRecording(rec *Recording) *types.SessionTimeline {
	events := make([]types.EventLog, 0, len(rec.Actions))

	for _, action := range rec.Actions {
		if action.Command == "STOP" {
			continue
		}
		eventType, ok := commandEventTypes[action.Command]
		if !ok {
			continue
		}

		timestamp, err := parseTimestamp(action.Timestamp)
		if err != nil {
			log.Printf("warning: skipping %s event: %v", action.Command, err)
			continue
		}

		events = append(events, types.EventLog{
			Timestamp:     timestamp,
			Type:          eventType,
			Data:          buildEventData(action),
			ScreenshotRef: action.Screenshot,
		})
	}

	return &types.SessionTimeline{
		SessionID:   sessionID(rec.Metadata),
		StartTime:   sessionStart(rec.Metadata),
		Application: application(rec.Metadata),
		Events:      events,
		Metadata:    rec.Metadata,
	}
}

func buildEventData(action RecordedAction) map[string]any {
	data := make(map[string]any, len(action.Parameters)+4)
	for k, v := range action.Parameters {
		data[k] = v
	}

	// "Button.left" -> "left"
	if button, ok := data["button"].(string); ok {
		data["button"] = strings.ToLower(strings.TrimPrefix(button, "Button."))
	}
	// "Key.enter" -> "enter"
	if key, ok := data["key"].(string); ok && strings.HasPrefix(key, "Key.") {
		data["key"] = types.CanonicalKey(key)
	}

	switch action.Command {
	case "COPY":
		data["user_intent"] = "copy_to_clipboard"
		data["clipboard_content"], _ = data["content"].(string)
	case "PASTE":
		data["user_intent"] = "paste_from_clipboard"
		data["clipboard_content"], _ = data["content"].(string)
	}

	if action.Element != nil {
		if !unknownElementNames[action.Element.Name] {
			data["element_name"] = action.Element.Name
		}
		if !unknownElementTypes[action.Element.ControlType] {
			data["element_type"] = action.Element.ControlType
		}
		if !unknownAutomationID[action.Element.AutomationID] {
			data["automation_id"] = action.Element.AutomationID
		}
	}

	return data
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// parseTimestamp repairs the recorder's known timestamp corruption (a
// stray "M" injected before a colon, "17:56M:47") and tries the known
// layouts.
func parseTimestamp(raw string) (time.Time, error) {
	cleaned := strings.ReplaceAll(raw, "M:", ":")
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp %q", raw)
}

func sessionID(metadata map[string]any) string {
	switch v := metadata["startTimeSeconds"].(type) {
	case float64:
		return fmt.Sprintf("session-%.0f", v)
	case string:
		return "session-" + v
	}
	return "session-" + uuid.NewString()
}

func sessionStart(metadata map[string]any) time.Time {
	if formatted, ok := metadata["startTimeFormatted"].(string); ok {
		if t, err := parseTimestamp(formatted); err == nil {
			return t
		}
	}
	return time.Now().UTC()
}

func application(metadata map[string]any) string {
	if app, ok := metadata["application"].(string); ok && app != "" {
		return app
	}
	return "Firefox Browser"
}
