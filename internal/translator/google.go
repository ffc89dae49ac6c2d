package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const googleAPIURL = "https://translation.googleapis.com/language/translate/v2"

// GoogleClient talks to the Google Cloud Translation v2 REST endpoint.
type GoogleClient struct {
	apiKey     string
	projectID  string
	baseURL    string
	httpClient *http.Client
}

// GoogleRequest represents a translate request body
type GoogleRequest struct {
	Query  []string `json:"q"`
	Target string   `json:"target"`
	Format string   `json:"format"`
}

// GoogleResponse represents a translate response body
type GoogleResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText string `json:"translatedText"`
		} `json:"translations"`
	} `json:"data"`
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewGoogleClient creates a translation client. The API key is required;
// projectID is optional and only forwarded as the quota project header.
func NewGoogleClient(apiKey, projectID string) (*GoogleClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	return &GoogleClient{
		apiKey:    apiKey,
		projectID: projectID,
		baseURL:   googleAPIURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

// SetEndpoint overrides the API endpoint, for self-hosted proxies and tests.
func (c *GoogleClient) SetEndpoint(endpoint string) {
	if endpoint != "" {
		c.baseURL = endpoint
	}
}

// Translate translates text to the target language.
func (c *GoogleClient) Translate(ctx context.Context, text, targetLang string) (string, error) {
	req := GoogleRequest{
		Query:  []string{text},
		Target: targetLang,
		Format: "text",
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := c.baseURL + "?key=" + url.QueryEscape(c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.projectID != "" {
		httpReq.Header.Set("x-goog-user-project", c.projectID)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var googleResp GoogleResponse
	if err := json.Unmarshal(body, &googleResp); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
		}
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if googleResp.Error.Message != "" {
			return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, googleResp.Error.Message)
		}
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	if len(googleResp.Data.Translations) == 0 {
		return "", fmt.Errorf("no translations in response")
	}

	return googleResp.Data.Translations[0].TranslatedText, nil
}
