package compiler

import (
	"testing"
)

func TestExtractJSONFenced(t *testing.T) {
	text := "Here is the workflow:\n```json\n{\"workflow_id\": \"wf-1\"}\n```\nLet me know!"

	payload, ok := ExtractJSON(text)
	if !ok {
		t.Fatal("expected extraction to succeed")
	}
	if payload != `{"workflow_id": "wf-1"}` {
		t.Errorf("payload = %q", payload)
	}
}

func TestExtractJSONBareFence(t *testing.T) {
	text := "```\n{\"a\": 1}\n```"

	payload, ok := ExtractJSON(text)
	if !ok {
		t.Fatal("expected extraction to succeed")
	}
	if payload != `{"a": 1}` {
		t.Errorf("payload = %q", payload)
	}
}

func TestExtractJSONEmbeddedInProse(t *testing.T) {
	text := `Sure! The compiled workflow is {"workflow_id": "wf-1", "steps": []} as requested.`

	payload, ok := ExtractJSON(text)
	if !ok {
		t.Fatal("expected extraction to succeed")
	}
	if payload != `{"workflow_id": "wf-1", "steps": []}` {
		t.Errorf("payload = %q", payload)
	}
}

func TestExtractJSONSingleQuoteRepair(t *testing.T) {
	text := `{'workflow_id': 'wf-1'}`

	payload, ok := ExtractJSON(text)
	if !ok {
		t.Fatal("expected repair to succeed")
	}
	if payload != `{"workflow_id": "wf-1"}` {
		t.Errorf("payload = %q", payload)
	}
}

func TestExtractJSONPlainObject(t *testing.T) {
	payload, ok := ExtractJSON(`  {"x": 1}  `)
	if !ok || payload != `{"x": 1}` {
		t.Errorf("payload = %q, ok = %v", payload, ok)
	}
}

func TestExtractJSONNoObject(t *testing.T) {
	if _, ok := ExtractJSON("I could not produce a workflow, sorry."); ok {
		t.Error("prose without an object must not extract")
	}
	if _, ok := ExtractJSON(""); ok {
		t.Error("empty input must not extract")
	}
	if _, ok := ExtractJSON("{ broken"); ok {
		t.Error("unbalanced braces must not extract")
	}
}
