package server

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"flowcap/internal/compiler"
	"flowcap/internal/types"
)

func mcpTestServer() *MCPServer {
	base := time.Date(2024, 1, 15, 17, 56, 47, 0, time.UTC)
	sessions := map[string]*types.SessionTimeline{
		"session-1": {
			SessionID:   "session-1",
			Application: "Firefox Browser",
			Events: []types.EventLog{
				{
					Timestamp: base,
					Type:      types.EventMouseClick,
					Data:      map[string]any{"x": 540, "y": 520, "element_name": "Sign In", "element_type": "Button"},
				},
			},
		},
	}
	return NewMCPServer(compiler.New(), sessions)
}

func TestMCPInitialize(t *testing.T) {
	srv := mcpTestServer()

	resp := srv.handleRequest(jsonRPCRequest{JSONRPC: "2.0", ID: 1, Method: "initialize"})
	if resp == nil {
		t.Fatal("expected a response")
	}
	result, ok := resp.Result.(mcpInitializeResult)
	if !ok {
		t.Fatalf("result type = %T", resp.Result)
	}
	if result.ServerInfo.Name != "flowcap" {
		t.Errorf("server name = %q", result.ServerInfo.Name)
	}
}

func TestMCPInitializedNotificationHasNoResponse(t *testing.T) {
	srv := mcpTestServer()

	if resp := srv.handleRequest(jsonRPCRequest{JSONRPC: "2.0", Method: "notifications/initialized"}); resp != nil {
		t.Errorf("notification got a response: %+v", resp)
	}
}

func TestMCPToolsList(t *testing.T) {
	srv := mcpTestServer()

	resp := srv.handleRequest(jsonRPCRequest{JSONRPC: "2.0", ID: 2, Method: "tools/list"})
	result, ok := resp.Result.(mcpToolsResult)
	if !ok {
		t.Fatalf("result type = %T", resp.Result)
	}
	names := make(map[string]bool)
	for _, tool := range result.Tools {
		names[tool.Name] = true
	}
	if !names["list_sessions"] || !names["compile_session"] {
		t.Errorf("tools = %v, want list_sessions and compile_session", names)
	}
}

func TestMCPListSessionsTool(t *testing.T) {
	srv := mcpTestServer()
	params, _ := json.Marshal(mcpCallToolParams{Name: "list_sessions"})

	resp := srv.handleRequest(jsonRPCRequest{JSONRPC: "2.0", ID: 3, Method: "tools/call", Params: params})
	result, ok := resp.Result.(mcpCallToolResult)
	if !ok {
		t.Fatalf("result type = %T", resp.Result)
	}
	if result.IsError {
		t.Fatalf("tool errored: %s", result.Content[0].Text)
	}
	if !strings.Contains(result.Content[0].Text, "session-1") {
		t.Errorf("listing missing session-1: %s", result.Content[0].Text)
	}
}

func TestMCPCompileSessionTool(t *testing.T) {
	srv := mcpTestServer()
	params, _ := json.Marshal(mcpCallToolParams{
		Name:      "compile_session",
		Arguments: map[string]any{"session_id": "session-1"},
	})

	resp := srv.handleRequest(jsonRPCRequest{JSONRPC: "2.0", ID: 4, Method: "tools/call", Params: params})
	result := resp.Result.(mcpCallToolResult)
	if result.IsError {
		t.Fatalf("tool errored: %s", result.Content[0].Text)
	}

	var workflow types.WorkflowDefinition
	if err := json.Unmarshal([]byte(result.Content[0].Text), &workflow); err != nil {
		t.Fatalf("tool output is not a workflow: %v", err)
	}
	if workflow.WorkflowID != "session-1-workflow" {
		t.Errorf("workflow_id = %q", workflow.WorkflowID)
	}
}

func TestMCPCompileUnknownSession(t *testing.T) {
	srv := mcpTestServer()
	params, _ := json.Marshal(mcpCallToolParams{
		Name:      "compile_session",
		Arguments: map[string]any{"session_id": "missing"},
	})

	resp := srv.handleRequest(jsonRPCRequest{JSONRPC: "2.0", ID: 5, Method: "tools/call", Params: params})
	result := resp.Result.(mcpCallToolResult)
	if !result.IsError {
		t.Error("unknown session should report a tool error")
	}
}

func TestMCPUnknownMethod(t *testing.T) {
	srv := mcpTestServer()

	resp := srv.handleRequest(jsonRPCRequest{JSONRPC: "2.0", ID: 6, Method: "resources/list"})
	if resp.Error == nil {
		t.Error("unknown method should return a JSON-RPC error")
	}
}
