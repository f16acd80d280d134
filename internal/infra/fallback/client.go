// internal/infra/fallback/client.go
package fallback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"tutor_insights_bot/internal/domain/classifier"
)

const defaultTimeout = 15 * time.Second

// HTTPClient consumes the external LLM-based fallback classifier endpoint.
// Any non-success response, malformed payload or "unknown" verdict is reported
// as ErrUnavailable so the pipeline degrades to a clarification instead of
// surfacing a network error. One shot, no retries.
type HTTPClient struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

func NewHTTPClient(url, apiKey string) *HTTPClient {
	return &HTTPClient{
		url:    url,
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

type classifyRequest struct {
	Question    string `json:"question"`
	TodayDate   string `json:"today_date"`
	PriorIntent string `json:"priorIntent,omitempty"`
}

type classifyResponse struct {
	Intent string             `json:"intent"`
	Slots  map[string]float64 `json:"slots,omitempty"`
}

// Classify asks the external endpoint for an intent. The endpoint answers 503
// when it has no model credential configured; that and every other failure
// mode collapse into classifier.ErrUnavailable.
func (c *HTTPClient) Classify(ctx context.Context, question string, today time.Time, priorIntent string) (*classifier.Classification, error) {
	if c.url == "" {
		return nil, classifier.ErrUnavailable
	}

	body, err := json.Marshal(classifyRequest{
		Question:    question,
		TodayDate:   today.Format("2006-01-02"),
		PriorIntent: priorIntent,
	})
	if err != nil {
		return nil, fmt.Errorf("error encoding classify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error building classify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifier.ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// 503 means the server has no model credential; treat every
		// non-success identically.
		io.Copy(io.Discard, resp.Body)
		return nil, classifier.ErrUnavailable
	}

	var parsed classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, classifier.ErrUnavailable
	}
	if parsed.Intent == "" || parsed.Intent == "unknown" {
		return nil, classifier.ErrUnavailable
	}

	return &classifier.Classification{Intent: parsed.Intent, Slots: parsed.Slots}, nil
}
