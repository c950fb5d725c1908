package compiler

import (
	"reflect"
	"testing"
	"time"

	"flowcap/internal/types"
)

func textEvent(ts time.Time, text string) types.EventLog {
	return types.EventLog{
		Timestamp: ts,
		Type:      types.EventTextInput,
		Data:      map[string]any{"text": text},
	}
}

func keyEvent(ts time.Time, key string) types.EventLog {
	return types.EventLog{
		Timestamp: ts,
		Type:      types.EventKeyPress,
		Data:      map[string]any{"key": key},
	}
}

func clickEvent(ts time.Time, x, y int, name, elemType string) types.EventLog {
	data := map[string]any{"x": x, "y": y}
	if name != "" {
		data["element_name"] = name
	}
	if elemType != "" {
		data["element_type"] = elemType
	}
	return types.EventLog{Timestamp: ts, Type: types.EventMouseClick, Data: data}
}

func TestSimplifyGroupsTypingRun(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	events := []types.EventLog{
		textEvent(base, "never"),
		keyEvent(base.Add(1*time.Second), "space"),
		textEvent(base.Add(2*time.Second), "gonna"),
		keyEvent(base.Add(3*time.Second), "space"),
		textEvent(base.Add(4*time.Second), "give"),
	}

	simplified := SimplifyEvents(events)

	if len(simplified) != 1 {
		t.Fatalf("expected 1 event, got %d", len(simplified))
	}
	merged := simplified[0]
	if merged.Type != types.EventTextInput {
		t.Errorf("type = %q, want text_input", merged.Type)
	}
	if got := merged.String("text"); got != "never gonna give" {
		t.Errorf("text = %q, want %q", got, "never gonna give")
	}
	if count, _ := merged.Int("grouped_from"); count != 5 {
		t.Errorf("grouped_from = %d, want 5", count)
	}
	if !merged.Timestamp.Equal(base) {
		t.Errorf("timestamp = %v, want first event's %v", merged.Timestamp, base)
	}
}

func TestSimplifyIdempotent(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	events := []types.EventLog{
		clickEvent(base, 100, 100, "Search Bar", "Edit"),
		textEvent(base.Add(1*time.Second), "hello"),
		keyEvent(base.Add(2*time.Second), "space"),
		textEvent(base.Add(3*time.Second), "world"),
		keyEvent(base.Add(4*time.Second), "enter"),
	}

	once := SimplifyEvents(events)
	twice := SimplifyEvents(once)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("simplify is not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestSimplifyRunStopsAtNonSpaceKey(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	events := []types.EventLog{
		textEvent(base, "hello"),
		keyEvent(base.Add(1*time.Second), "enter"),
		textEvent(base.Add(2*time.Second), "world"),
	}

	simplified := SimplifyEvents(events)

	if len(simplified) != 3 {
		t.Fatalf("expected 3 events, got %d", len(simplified))
	}
	if simplified[0].String("text") != "hello" {
		t.Errorf("first text = %q, want hello", simplified[0].String("text"))
	}
	if simplified[1].Type != types.EventKeyPress {
		t.Errorf("second event type = %q, want key_press", simplified[1].Type)
	}
}

func TestSimplifyPassesThroughNonTyping(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	events := []types.EventLog{
		clickEvent(base, 10, 20, "OK", "Button"),
		{Timestamp: base.Add(time.Second), Type: types.EventScroll, Data: map[string]any{"x": 5, "y": 6, "delta_y": 3}},
	}

	simplified := SimplifyEvents(events)

	if !reflect.DeepEqual(events, simplified) {
		t.Errorf("non-typing events should pass through unchanged")
	}
}

func TestSimplifyKeepsElementAttributes(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	first := textEvent(base, "rick")
	first.Data["element_name"] = "Search Bar"
	first.Data["element_type"] = "Edit"
	events := []types.EventLog{
		first,
		keyEvent(base.Add(1*time.Second), "space"),
		textEvent(base.Add(2*time.Second), "astley"),
	}

	simplified := SimplifyEvents(events)

	if len(simplified) != 1 {
		t.Fatalf("expected 1 event, got %d", len(simplified))
	}
	if got := simplified[0].String("element_name"); got != "Search Bar" {
		t.Errorf("element_name = %q, want Search Bar", got)
	}
	if got := simplified[0].String("element_type"); got != "Edit" {
		t.Errorf("element_type = %q, want Edit", got)
	}
}
