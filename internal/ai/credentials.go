package ai

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// APIKeyVar is the credentials key holding the platform API key.
const APIKeyVar = "FLOWCAP_API_KEY"

// LoadCredentials reads a .env-style credentials file (KEY=VALUE per
// line). Lines starting with # are comments. Empty lines are skipped.
func LoadCredentials(path string) (map[string]string, error) {
	creds := make(map[string]string)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening credentials file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("credentials file line %d: invalid format (expected KEY=VALUE)", lineNum)
		}

		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		// Strip surrounding quotes.
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		creds[key] = value
	}

	return creds, scanner.Err()
}

// ApplyCredentials merges credentials into the config. The API key
// from the credentials file wins over one baked into the config.
func ApplyCredentials(cfg *Config, creds map[string]string) {
	if key, ok := creds[APIKeyVar]; ok && key != "" {
		cfg.APIKey = key
	}
}
