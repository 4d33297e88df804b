package lookup

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

const defaultWeatherURL = "https://wttr.in/"

// Weather looks up current conditions for a city on wttr.in.
type Weather struct {
	client  *http.Client
	baseURL string
}

// NewWeather creates a weather lookup. An empty baseURL uses wttr.in.
func NewWeather(baseURL string, timeout time.Duration) *Weather {
	if baseURL == "" {
		baseURL = defaultWeatherURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Weather{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// Query returns a one-line summary such as "Weather in London: Light rain, 15°C".
func (w *Weather) Query(ctx context.Context, city string) (string, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return "", ErrNotFound
	}

	endpoint := w.baseURL + url.PathEscape(city) + "?format=j1"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create weather request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read weather response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("weather API error (status %d)", resp.StatusCode)
	case !gjson.ValidBytes(body):
		return "", fmt.Errorf("weather API returned invalid JSON")
	}

	current := gjson.GetBytes(body, "current_condition.0")
	if !current.Exists() {
		return "", ErrNotFound
	}

	name := gjson.GetBytes(body, "nearest_area.0.areaName.0.value").String()
	if name == "" {
		name = titleCase(city)
	}
	desc := strings.TrimSpace(current.Get("weatherDesc.0.value").String())
	temp := current.Get("temp_C").String()

	if desc == "" {
		return fmt.Sprintf("Weather in %s: %s°C", name, temp), nil
	}
	return fmt.Sprintf("Weather in %s: %s, %s°C", name, desc, temp), nil
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
