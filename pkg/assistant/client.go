package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ai-research-chat-be/pkg/chat"
	"ai-research-chat-be/pkg/chatdomain"

	"github.com/google/uuid"
)

// Client calls the external AI workflow service over HTTP. One service hosts
// both domains; the per-domain route comes from the domain config.
type Client struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

var _ chat.AssistantEndpoint = &Client{}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// --- Request/Response structs (internal to this package) ---

type askRequest struct {
	SessionKey string   `json:"session_key"`
	Message    string   `json:"message"`
	Categories []string `json:"categories,omitempty"`
}

type askResponse struct {
	Reply     string `json:"reply"`
	Citations []struct {
		SourceID string `json:"source_id"`
		Excerpt  string `json:"excerpt,omitempty"`
	} `json:"citations,omitempty"`
}

// Ask sends one user message to the workflow endpoint for the given domain
// and returns the raw annotated reply plus its citation payload. The call is
// retry-safe from the caller's perspective; this client never retries itself.
func (c *Client) Ask(ctx context.Context, domain chatdomain.Domain, sessionKey uuid.UUID, userText string, opts chat.SendOptions) (*chat.EndpointResponse, error) {
	cfg := chatdomain.ConfigFor(domain)

	payload, err := json.Marshal(askRequest{
		SessionKey: sessionKey.String(),
		Message:    userText,
		Categories: opts.Categories,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := c.BaseURL + cfg.EndpointRoute
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("assistant request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("assistant error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var parsed askResponse
	if err := json.Unmarshal(bodyBytes, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	out := &chat.EndpointResponse{Reply: parsed.Reply}
	for _, cit := range parsed.Citations {
		out.Citations = append(out.Citations, chat.EndpointCitation{
			SourceID: cit.SourceID,
			Excerpt:  cit.Excerpt,
		})
	}
	return out, nil
}
