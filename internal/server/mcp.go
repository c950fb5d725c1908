package server

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"flowcap/internal/compiler"
	"flowcap/internal/types"
)

// MCPServer implements a JSON-RPC based MCP (Model Context Protocol)
// server that exposes recorded sessions as compile tools. It reads
// from stdin and writes to stdout.
type MCPServer struct {
	compiler *compiler.Compiler
	sessions map[string]*types.SessionTimeline
}

// NewMCPServer creates a new MCP server over the given sessions.
func NewMCPServer(c *compiler.Compiler, sessions map[string]*types.SessionTimeline) *MCPServer {
	return &MCPServer{compiler: c, sessions: sessions}
}

// JSON-RPC types
type jsonRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type jsonRPCResponse struct {
	JSONRPC string `json:"jsonrpc"`
	ID      any    `json:"id"`
	Result  any    `json:"result,omitempty"`
	Error   any    `json:"error,omitempty"`
}

type jsonRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// MCP protocol types
type mcpInitializeResult struct {
	ProtocolVersion string         `json:"protocolVersion"`
	Capabilities    map[string]any `json:"capabilities"`
	ServerInfo      mcpServerInfo  `json:"serverInfo"`
}

type mcpServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type mcpTool struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	InputSchema any    `json:"inputSchema"`
}

type mcpToolsResult struct {
	Tools []mcpTool `json:"tools"`
}

type mcpCallToolParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

type mcpCallToolResult struct {
	Content []mcpContent `json:"content"`
	IsError bool         `json:"isError,omitempty"`
}

type mcpContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ServeStdio runs the MCP server on stdin/stdout.
func (s *MCPServer) ServeStdio() error {
	decoder := json.NewDecoder(os.Stdin)
	encoder := json.NewEncoder(os.Stdout)

	for {
		var req jsonRPCRequest
		if err := decoder.Decode(&req); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("decoding request: %w", err)
		}

		resp := s.handleRequest(req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				return fmt.Errorf("encoding response: %w", err)
			}
		}
	}
}

func (s *MCPServer) handleRequest(req jsonRPCRequest) *jsonRPCResponse {
	switch req.Method {
	case "initialize":
		return &jsonRPCResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result: mcpInitializeResult{
				ProtocolVersion: "2024-11-05",
				Capabilities: map[string]any{
					"tools": map[string]any{},
				},
				ServerInfo: mcpServerInfo{
					Name:    "flowcap",
					Version: "0.1.0",
				},
			},
		}

	case "notifications/initialized":
		// No response needed for notifications.
		return nil

	case "tools/list":
		return &jsonRPCResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  s.listTools(),
		}

	case "tools/call":
		var params mcpCallToolParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return &jsonRPCResponse{
				JSONRPC: "2.0",
				ID:      req.ID,
				Error:   jsonRPCError{Code: -32602, Message: "invalid params: " + err.Error()},
			}
		}
		result, isError := s.callTool(params)
		return &jsonRPCResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result: mcpCallToolResult{
				Content: []mcpContent{{Type: "text", Text: result}},
				IsError: isError,
			},
		}

	default:
		return &jsonRPCResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   jsonRPCError{Code: -32601, Message: "method not found: " + req.Method},
		}
	}
}

func (s *MCPServer) listTools() mcpToolsResult {
	tools := []mcpTool{
		{
			Name:        "list_sessions",
			Description: "List the recorded sessions available for compilation.",
			InputSchema: map[string]any{"type": "object"},
		},
		{
			Name:        "compile_session",
			Description: "Compile a recorded session into a replayable workflow definition.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"session_id": map[string]any{
						"type":        "string",
						"description": "Session id as returned by list_sessions.",
					},
				},
				"required": []string{"session_id"},
			},
		},
	}
	return mcpToolsResult{Tools: tools}
}

func (s *MCPServer) callTool(params mcpCallToolParams) (string, bool) {
	switch params.Name {
	case "list_sessions":
		type sessionInfo struct {
			SessionID   string `json:"session_id"`
			Application string `json:"application"`
			Events      int    `json:"events"`
		}
		infos := make([]sessionInfo, 0, len(s.sessions))
		for _, session := range s.sessions {
			infos = append(infos, sessionInfo{
				SessionID:   session.SessionID,
				Application: session.Application,
				Events:      len(session.Events),
			})
		}
		out, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return fmt.Sprintf("error marshaling sessions: %v", err), true
		}
		return string(out), false

	case "compile_session":
		id, _ := params.Arguments["session_id"].(string)
		session, ok := s.sessions[id]
		if !ok {
			return fmt.Sprintf("session %q not found", id), true
		}

		workflow, err := s.compiler.CompileFromEvents(session)
		if err != nil {
			return fmt.Sprintf("error: %v", err), true
		}

		out, err := json.MarshalIndent(workflow, "", "  ")
		if err != nil {
			return fmt.Sprintf("error marshaling workflow: %v", err), true
		}
		return string(out), false

	default:
		return fmt.Sprintf("tool %q not found", params.Name), true
	}
}
