package types

import (
	"strings"
	"time"
)

// EventType identifies the kind of a recorded interaction event.
type EventType string

const (
	EventMouseClick       EventType = "mouse_click"
	EventMouseDoubleClick EventType = "mouse_double_click"
	EventMouseDrag        EventType = "mouse_drag"
	EventScroll           EventType = "scroll"
	EventTextInput        EventType = "text_input"
	EventKeyPress         EventType = "key_press"
	EventKeyCombination   EventType = "key_combination"
	EventNavigation       EventType = "navigation"
	EventScreenshot       EventType = "screenshot"
)

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	switch t {
	case EventMouseClick, EventMouseDoubleClick, EventMouseDrag, EventScroll,
		EventTextInput, EventKeyPress, EventKeyCombination, EventNavigation,
		EventScreenshot:
		return true
	}
	return false
}

// EventLog is a single recorded interaction event. Data holds the
// kind-specific attributes (coordinates, button, text, key names,
// element_name, element_type, automation_id, clipboard_content,
// user_intent).
type EventLog struct {
	Timestamp     time.Time      `json:"timestamp"`
	Type          EventType      `json:"event_type"`
	Data          map[string]any `json:"data"`
	ScreenshotRef string         `json:"screenshot_ref,omitempty"`
}

// Int returns an integer attribute from the event data. JSON decoding
// produces float64 numbers, so both forms are accepted.
func (e EventLog) Int(key string) (int, bool) {
	return intValue(e.Data[key])
}

// String returns a string attribute from the event data.
func (e EventLog) String(key string) string {
	s, _ := e.Data[key].(string)
	return s
}

// Strings returns a list-of-strings attribute from the event data,
// such as the keys of a key combination.
func (e EventLog) Strings(key string) []string {
	switch v := e.Data[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	}
	return 0, false
}

// SessionTimeline is one recorded user-interaction session. Events are
// ordered by timestamp; every compilation pass relies on that ordering
// and returns a new slice rather than mutating in place.
type SessionTimeline struct {
	SessionID   string         `json:"session_id"`
	StartTime   time.Time      `json:"start_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Application string         `json:"application"`
	Events      []EventLog     `json:"events"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// CanonicalKey normalizes a raw key token from the recording library:
// the "Key." prefix is stripped and the result lower-cased, so
// "Key.enter" becomes "enter".
func CanonicalKey(raw string) string {
	return strings.ToLower(strings.TrimPrefix(raw, "Key."))
}
