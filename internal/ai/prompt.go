package ai

import (
	"encoding/json"
	"fmt"

	"flowcap/internal/types"
)

const systemPrompt = "You are an automation engineer. You convert recorded user sessions " +
	"into replayable workflow definitions and respond with JSON only."

const promptTemplate = `Analyze this user session recording and generate a structured workflow definition.

SESSION DATA:
%s

Based on the event logs provided, create a JSON workflow definition that can replay these actions.

Output ONLY valid JSON matching this schema:
{
    "workflow_id": "string",
    "name": "string - descriptive name for the workflow",
    "description": "string - what this workflow accomplishes",
    "version": "1.0.0",
    "application": "string - target application name",
    "steps": [
        {
            "step_id": "string",
            "action": "click|right_click|double_click|type_text|press_key|key_combination|scroll|drag|wait|navigate",
            "description": "string - human readable description",
            "selector": {
                "type": "text",
                "value": "visible text or label of UI element",
                "fallback": {
                    "type": "coordinates",
                    "value": {"x": 0, "y": 0}
                }
            },
            "parameters": {},
            "wait_after": 0.5,
            "retry_count": 3,
            "on_failure": "stop"
        }
    ],
    "variables": {},
    "preconditions": [],
    "metadata": {}
}

IMPORTANT: For click actions, ALWAYS include both:
1. Primary selector with type "text" (the visible label/text of the element)
2. Fallback selector with type "coordinates" (the exact x,y from event data)

Keyboard actions press_key and key_combination must have selector set to null. A type_text action may carry a text selector naming the input field it types into.

Generate the workflow JSON:`

// BuildPrompt serializes the (already simplified) session and embeds
// it in the workflow-generation prompt.
func BuildPrompt(session *types.SessionTimeline) (string, error) {
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serializing session: %w", err)
	}
	return fmt.Sprintf(promptTemplate, data), nil
}
