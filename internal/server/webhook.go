package server

import (
	"encoding/json"
	"net/http"

	"flowcap/internal/compiler"
	"flowcap/internal/ingest"
	"flowcap/internal/types"
)

// CompileServer serves HTTP requests that compile raw recordings into
// workflow definitions.
type CompileServer struct {
	compiler *compiler.Compiler
}

// NewCompileServer creates a new compile server.
func NewCompileServer(c *compiler.Compiler) *CompileServer {
	return &CompileServer{compiler: c}
}

// ListenAndServe starts the HTTP server.
func (s *CompileServer) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/compile", s.handleCompile)
	return http.ListenAndServe(addr, mux)
}

func (s *CompileServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleCompile accepts a raw recording as the request body and
// responds with the compiled workflow. ?mode=ai selects the generative
// path when a generator is configured.
func (s *CompileServer) handleCompile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var rec ingest.Recording
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	session := ingest.ConvertRecording(&rec)
	if len(session.Events) == 0 {
		writeError(w, http.StatusBadRequest, "recording has no usable events")
		return
	}

	var workflow *types.WorkflowDefinition
	var err error
	if r.URL.Query().Get("mode") == "ai" {
		if s.compiler.Generator == nil {
			writeError(w, http.StatusBadRequest, "generative mode requested but no generator is configured")
			return
		}
		workflow, err = s.compiler.CompileWithGenerator(r.Context(), session)
	} else {
		workflow, err = s.compiler.CompileFromEvents(session)
	}
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(workflow)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
