package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"flowcap/internal/types"
)

// Client calls a chat-completion platform to generate workflows from
// sessions. It implements the compiler's Generator interface; the
// response is raw model text, JSON extraction happens in the compiler.
type Client struct {
	cfg       Config
	http      *http.Client
	platforms *platformRegistry
}

// NewClient builds a client from the given configuration.
func NewClient(cfg Config) *Client {
	cfg.applyDefaults()

	transport := &http.Transport{}
	if cfg.ProxyURL != "" {
		if proxyURL, err := url.Parse(cfg.ProxyURL); err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
			Transport: transport,
		},
		platforms: defaultPlatforms(),
	}
}

// Platforms returns the supported platform names.
func (c *Client) Platforms() []string {
	return c.platforms.names()
}

// GenerateWorkflow serializes the session into the workflow prompt and
// asks the configured platform for a response.
func (c *Client) GenerateWorkflow(ctx context.Context, session *types.SessionTimeline) (string, error) {
	prompt, err := BuildPrompt(session)
	if err != nil {
		return "", fmt.Errorf("building prompt: %w", err)
	}

	fn, ok := c.platforms.get(c.cfg.Platform)
	if !ok {
		return "", fmt.Errorf("unsupported platform %q (available: %s)", c.cfg.Platform, strings.Join(c.platforms.names(), ", "))
	}
	return fn(ctx, c, prompt)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		Text string `json:"text"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func generateOpenAI(ctx context.Context, c *Client, prompt string) (string, error) {
	endpoint := c.cfg.Endpoint
	if endpoint == "" {
		endpoint = "https://api.openai.com/v1/chat/completions"
	}
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}
	return c.postChat(ctx, endpoint, headers, chatRequest{
		Model:       c.cfg.Model,
		Messages:    promptMessages(prompt),
		Temperature: 0.1,
	})
}

func generateAzure(ctx context.Context, c *Client, prompt string) (string, error) {
	endpoint := c.cfg.Endpoint
	if !strings.HasSuffix(endpoint, "/chat/completions") {
		endpoint = strings.TrimSuffix(endpoint, "/") + "/chat/completions"
	}
	headers := map[string]string{"api-key": c.cfg.APIKey}
	if c.cfg.APIVersion != "" {
		headers["api-version"] = c.cfg.APIVersion
	}
	return c.postChat(ctx, endpoint, headers, chatRequest{
		Messages:    promptMessages(prompt),
		Temperature: 0.1,
	})
}

func generateDeepSeek(ctx context.Context, c *Client, prompt string) (string, error) {
	endpoint := c.cfg.Endpoint
	if endpoint == "" {
		endpoint = "https://api.deepseek.com/v1/chat/completions"
	}
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}
	return c.postChat(ctx, endpoint, headers, chatRequest{
		Model:       c.cfg.Model,
		Messages:    promptMessages(prompt),
		Temperature: 0.1,
	})
}

func promptMessages(prompt string) []chatMessage {
	return []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: prompt},
	}
}

func (c *Client) postChat(ctx context.Context, endpoint string, headers map[string]string, reqBody chatRequest) (string, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("serializing request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parsing response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil && parsed.Error.Message != "" {
			return "", fmt.Errorf("platform error: %s", parsed.Error.Message)
		}
		return "", fmt.Errorf("request failed with status %d: %s", resp.StatusCode, body)
	}

	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("response has no choices: %s", body)
	}
	choice := parsed.Choices[0]
	if choice.Message.Content != "" {
		return choice.Message.Content, nil
	}
	if choice.Text != "" {
		return choice.Text, nil
	}
	return "", fmt.Errorf("response has no content: %s", body)
}
