package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ActionType identifies what a workflow step does when replayed.
type ActionType string

const (
	ActionClick          ActionType = "click"
	ActionRightClick     ActionType = "right_click"
	ActionDoubleClick    ActionType = "double_click"
	ActionTypeText       ActionType = "type_text"
	ActionPressKey       ActionType = "press_key"
	ActionKeyCombination ActionType = "key_combination"
	ActionScroll         ActionType = "scroll"
	ActionDrag           ActionType = "drag"
	ActionWait           ActionType = "wait"
	ActionNavigate       ActionType = "navigate"
)

// Valid reports whether a is one of the known action types.
func (a ActionType) Valid() bool {
	switch a {
	case ActionClick, ActionRightClick, ActionDoubleClick, ActionTypeText,
		ActionPressKey, ActionKeyCombination, ActionScroll, ActionDrag,
		ActionWait, ActionNavigate:
		return true
	}
	return false
}

// IsMouse reports whether the action targets a screen location and
// therefore requires a selector.
func (a ActionType) IsMouse() bool {
	switch a {
	case ActionClick, ActionRightClick, ActionDoubleClick, ActionScroll, ActionDrag:
		return true
	}
	return false
}

// IsKeyboard reports whether the action is keyboard-driven. Of these
// only type_text may carry a selector, naming the field it types into.
func (a ActionType) IsKeyboard() bool {
	switch a {
	case ActionTypeText, ActionPressKey, ActionKeyCombination:
		return true
	}
	return false
}

// UnmarshalJSON accepts both the canonical lower-case form and the
// upper-case form that generative models tend to emit ("TYPE_TEXT").
func (a *ActionType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*a = ActionType(strings.ToLower(s))
	return nil
}

// SelectorType distinguishes the selector variants.
type SelectorType string

const (
	SelectorText        SelectorType = "text"
	SelectorCoordinates SelectorType = "coordinates"
)

// Selector locates a UI element at replay time. A text selector holds
// the visible label in Text plus an optional coordinate Fallback; a
// coordinates selector holds a point {x,y} or, for drags, the
// rectangle {start_x,start_y,end_x,end_y} in Coords.
type Selector struct {
	Type     SelectorType
	Text     string
	Coords   map[string]int
	Fallback *Selector
}

// NewTextSelector builds a text selector with a coordinate fallback.
func NewTextSelector(label string, x, y int) *Selector {
	return &Selector{
		Type:     SelectorText,
		Text:     label,
		Fallback: NewPointSelector(x, y),
	}
}

// NewPointSelector builds a coordinates selector for a single point.
func NewPointSelector(x, y int) *Selector {
	return &Selector{
		Type:   SelectorCoordinates,
		Coords: map[string]int{"x": x, "y": y},
	}
}

// NewDragSelector builds a coordinates selector spanning a drag.
func NewDragSelector(startX, startY, endX, endY int) *Selector {
	return &Selector{
		Type: SelectorCoordinates,
		Coords: map[string]int{
			"start_x": startX,
			"start_y": startY,
			"end_x":   endX,
			"end_y":   endY,
		},
	}
}

type selectorWire struct {
	Type     SelectorType    `json:"type"`
	Value    json.RawMessage `json:"value"`
	Fallback *Selector       `json:"fallback,omitempty"`
}

// MarshalJSON writes the wire shape {"type","value","fallback"} where
// value is a string for text selectors and an object for coordinates.
func (s Selector) MarshalJSON() ([]byte, error) {
	var value any
	switch s.Type {
	case SelectorText:
		value = s.Text
	case SelectorCoordinates:
		value = s.Coords
	default:
		return nil, fmt.Errorf("unknown selector type %q", s.Type)
	}
	return json.Marshal(struct {
		Type     SelectorType `json:"type"`
		Value    any          `json:"value"`
		Fallback *Selector    `json:"fallback,omitempty"`
	}{s.Type, value, s.Fallback})
}

// UnmarshalJSON decodes the value field according to the selector type.
func (s *Selector) UnmarshalJSON(b []byte) error {
	var wire selectorWire
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	s.Type = wire.Type
	s.Fallback = wire.Fallback
	switch wire.Type {
	case SelectorText:
		if len(wire.Value) > 0 {
			if err := json.Unmarshal(wire.Value, &s.Text); err != nil {
				return fmt.Errorf("text selector value: %w", err)
			}
		}
	case SelectorCoordinates:
		if len(wire.Value) > 0 {
			if err := json.Unmarshal(wire.Value, &s.Coords); err != nil {
				return fmt.Errorf("coordinates selector value: %w", err)
			}
		}
	default:
		return fmt.Errorf("unknown selector type %q", wire.Type)
	}
	return nil
}

// Coord returns a named coordinate from a coordinates selector.
func (s *Selector) Coord(key string) (int, bool) {
	if s == nil || s.Coords == nil {
		return 0, false
	}
	v, ok := s.Coords[key]
	return v, ok
}

// WorkflowStep is one entry in a compiled workflow.
type WorkflowStep struct {
	StepID           string         `json:"step_id"`
	Action           ActionType     `json:"action"`
	Description      string         `json:"description"`
	Selector         *Selector      `json:"selector,omitempty"`
	Parameters       map[string]any `json:"parameters,omitempty"`
	WaitAfter        float64        `json:"wait_after"`
	RetryCount       int            `json:"retry_count"`
	OnFailure        string         `json:"on_failure"`
	ScreenshotBefore string         `json:"screenshot_before,omitempty"`
	ScreenshotAfter  string         `json:"screenshot_after,omitempty"`
}

// IntParam returns an integer parameter, accepting the float64 form
// produced by JSON decoding.
func (s WorkflowStep) IntParam(key string) (int, bool) {
	return intValue(s.Parameters[key])
}

// StringParam returns a string parameter.
func (s WorkflowStep) StringParam(key string) string {
	v, _ := s.Parameters[key].(string)
	return v
}

// StringsParam returns a list-of-strings parameter.
func (s WorkflowStep) StringsParam(key string) []string {
	switch v := s.Parameters[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}

// Default execution policy applied to synthesized steps.
const (
	DefaultWaitAfter  = 0.5
	DefaultRetryCount = 3
	FailureStop       = "stop"
)

// WorkflowDefinition is an ordered, replayable automation workflow.
type WorkflowDefinition struct {
	WorkflowID    string         `json:"workflow_id"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Version       string         `json:"version"`
	Application   string         `json:"application"`
	Steps         []WorkflowStep `json:"steps"`
	Variables     map[string]any `json:"variables,omitempty"`
	Preconditions []string       `json:"preconditions,omitempty"`
	Metadata      map[string]any `json:"metadata"`
}
