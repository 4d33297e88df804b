package lookup

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	defaultWikipediaURL = "https://en.wikipedia.org/api/rest_v1/page/summary/"

	// SpokenSummaryLimit caps encyclopedia answers so they stay short when read aloud.
	SpokenSummaryLimit = 150
)

// Wikipedia fetches page summaries from the Wikipedia REST API.
type Wikipedia struct {
	client  *http.Client
	baseURL string
	limit   int
}

func NewWikipedia(baseURL string, timeout time.Duration) *Wikipedia {
	if baseURL == "" {
		baseURL = defaultWikipediaURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Wikipedia{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		limit:   SpokenSummaryLimit,
	}
}

func (w *Wikipedia) Query(ctx context.Context, topic string) (string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", ErrNotFound
	}

	title := strings.ReplaceAll(topic, " ", "_")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+url.PathEscape(title), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create wikipedia request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "skye-assistant/1.0")

	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("wikipedia request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read wikipedia response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("wikipedia API error (status %d): %s",
			resp.StatusCode, gjson.GetBytes(body, "detail").String())
	}

	extract := gjson.GetBytes(body, "extract").String()
	if strings.TrimSpace(extract) == "" {
		return "", ErrNotFound
	}
	return Trim(extract, w.limit), nil
}
