package tools

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-shiori/go-readability"
	"github.com/microcosm-cc/bluemonday"
)

// PageEnricher fetches a result URL and extracts the main content as clean
// text, for providers that return hits without page text.
type PageEnricher struct {
	UserAgent string
	MaxChars  int
	Client    *http.Client

	sanitizer *bluemonday.Policy
}

func NewPageEnricher() *PageEnricher {
	return &PageEnricher{
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		MaxChars:  maxSourceChars,
		Client:    &http.Client{Timeout: 20 * time.Second},
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (e *PageEnricher) Fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("User-Agent", e.UserAgent)

	resp, err := e.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL: status code %d", resp.StatusCode)
	}

	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse URL: %v", err)
	}

	article, err := readability.FromReader(resp.Body, parsedURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse article: %v", err)
	}

	content := e.sanitizer.Sanitize(article.TextContent)
	if len(content) > e.MaxChars {
		content = content[:e.MaxChars] + "..."
	}
	return content, nil
}
