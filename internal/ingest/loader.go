package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"flowcap/internal/types"
)

// LoadRecording reads and converts a single raw recording file.
func LoadRecording(path string) (*types.SessionTimeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading recording file %s: %w", path, err)
	}

	var rec Recording
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parsing recording file %s: %w", path, err)
	}

	session := ConvertRecording(&rec)
	if len(session.Events) == 0 {
		return nil, fmt.Errorf("recording file %s: no usable events", path)
	}
	return session, nil
}

// LoadRecordings reads all JSON recording files from a directory,
// recursively, keyed by session id.
func LoadRecordings(dir string) (map[string]*types.SessionTimeline, error) {
	sessions := make(map[string]*types.SessionTimeline)

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.ToLower(filepath.Ext(d.Name())) != ".json" {
			return nil
		}

		session, err := LoadRecording(path)
		if err != nil {
			return err
		}

		if _, exists := sessions[session.SessionID]; exists {
			return fmt.Errorf("duplicate session id %q in %s", session.SessionID, path)
		}
		sessions[session.SessionID] = session
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading recordings from %s: %w", dir, err)
	}

	return sessions, nil
}
