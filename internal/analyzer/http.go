// Package analyzer provides reflection generators for journal entries.
package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	"github.com/mindweave/mindweave-server/internal/model"
)

// AnalyzePath is the route of the reflection endpoint.
const AnalyzePath = "/api/analyze"

// maxResponseBytes caps how much of an analyzer response is read.
const maxResponseBytes = 1 << 20

// DefaultResponseFields are the JSON paths tried, in order, for the reflection text.
var DefaultResponseFields = []string{"reflection", "analysis"}

var (
	ErrMalformedResponse = errors.New("analyzer response is not valid JSON")
	ErrMissingReflection = errors.New("analyzer response has no reflection text")
)

// StatusError is returned for any non-2xx analyzer response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("analyzer responded with status %d: %s", e.StatusCode, e.Body)
}

// AnalyzeRequest is the body of POST /api/analyze.
type AnalyzeRequest struct {
	EntryText string `json:"entry_text"`
}

var _ model.Analyzer = (*HTTPClient)(nil)

// HTTPClient calls a remote reflection endpoint.
type HTTPClient struct {
	endpoint string
	client   *http.Client
	fields   []string
}

// NewHTTPClient creates a client for the analyzer at baseURL.
// A nil client uses http.DefaultClient; empty fields use DefaultResponseFields.
func NewHTTPClient(baseURL string, client *http.Client, fields []string) *HTTPClient {
	if client == nil {
		client = http.DefaultClient
	}
	if len(fields) == 0 {
		fields = DefaultResponseFields
	}
	return &HTTPClient{
		endpoint: strings.TrimRight(baseURL, "/") + AnalyzePath,
		client:   client,
		fields:   fields,
	}
}

// Analyze posts entryText and extracts the reflection from the response.
func (c *HTTPClient) Analyze(ctx context.Context, entryText string) (string, error) {
	payload, err := json.Marshal(AnalyzeRequest{EntryText: entryText})
	if err != nil {
		return "", fmt.Errorf("failed to encode analyze request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call analyzer: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read analyzer response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(body), 256)}
	}

	return ExtractReflection(body, c.fields)
}

// ExtractReflection returns the first non-blank string found at one of fields.
func ExtractReflection(body []byte, fields []string) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", ErrMalformedResponse
	}
	for _, field := range fields {
		v := gjson.GetBytes(body, field)
		if v.Type != gjson.String {
			continue
		}
		if text := strings.TrimSpace(v.String()); text != "" {
			return text, nil
		}
	}
	return "", ErrMissingReflection
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
