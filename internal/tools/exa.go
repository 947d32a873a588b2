package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultExaBaseURL = "https://api.exa.ai"

// ExaClient is a SearchProvider backed by the Exa search API. Exa returns
// page text alongside each hit, so results usually need no enrichment.
type ExaClient struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

func NewExaClient(apiKey string) *ExaClient {
	return &ExaClient{
		APIKey:  apiKey,
		BaseURL: defaultExaBaseURL,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type exaRequest struct {
	Query      string      `json:"query"`
	NumResults int         `json:"numResults"`
	Contents   exaContents `json:"contents"`
}

type exaContents struct {
	Text bool `json:"text"`
}

type exaResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Text    string `json:"text"`
		Favicon string `json:"favicon"`
	} `json:"results"`
}

func (c *ExaClient) Search(ctx context.Context, query string, numResults int) ([]Source, error) {
	body, err := json.Marshal(exaRequest{
		Query:      query,
		NumResults: numResults,
		Contents:   exaContents{Text: true},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.APIKey)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("exa request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("exa returned status %d: %s", resp.StatusCode, snippet)
	}

	var parsed exaResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode exa response: %v", err)
	}

	sources := make([]Source, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		sources = append(sources, Source{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: r.Text,
			Favicon: r.Favicon,
		})
	}
	return sources, nil
}
