package data

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"ratescope/internal/model"
)

// OpenEIClient fetches URDB tariff pages from the OpenEI utility-rates API.
type OpenEIClient struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

// NewOpenEIClient creates a client for the OpenEI utility-rates API.
// If baseURL is empty, defaults to "https://api.openei.org".
func NewOpenEIClient(apiKey string, baseURL string) *OpenEIClient {
	if baseURL == "" {
		baseURL = "https://api.openei.org"
	}
	return &OpenEIClient{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// OpenEIError represents an error from the OpenEI API.
type OpenEIError struct {
	StatusCode int
	Code       string
	Message    string
	RetryAfter string
}

func (e *OpenEIError) Error() string {
	return e.Message
}

// FetchTariff fetches a single tariff page by its URDB page id and parses
// it through the same validation path as file-loaded tariffs.
func (c *OpenEIClient) FetchTariff(pageID string) (*model.Tariff, error) {
	if c.APIKey == "" {
		return nil, &OpenEIError{Code: "MISSING_API_KEY", Message: "OpenEI API key is required"}
	}
	if pageID == "" {
		return nil, fmt.Errorf("page id is required")
	}

	if cache := GetCache(); cache != nil {
		if cached, found := cache.Get(pageID); found {
			log.Printf("[OpenEI] Cache hit: page %s", pageID)
			return cached, nil
		}
	}

	u, err := url.Parse(c.BaseURL + "/utility_rates")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("version", "7")
	q.Set("format", "json")
	q.Set("detail", "full")
	q.Set("getpage", pageID)
	q.Set("api_key", c.APIKey)
	u.RawQuery = q.Encode()

	log.Printf("[OpenEI] Request: GET %s (page=%s)", u.Path, pageID)

	req, err := http.NewRequest("GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.Client.Do(req)
	if err != nil {
		log.Printf("[OpenEI] Request failed: %v (duration: %v)", err, time.Since(start))
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	log.Printf("[OpenEI] Response: %d %s (duration: %v, page=%s)", resp.StatusCode, resp.Status, time.Since(start), pageID)

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusForbidden, http.StatusUnauthorized:
		return nil, &OpenEIError{
			StatusCode: resp.StatusCode,
			Code:       "INVALID_API_KEY",
			Message:    "Invalid OpenEI API key or insufficient permissions",
		}
	case http.StatusTooManyRequests:
		retryAfter := resp.Header.Get("Retry-After")
		return nil, &OpenEIError{
			StatusCode: resp.StatusCode,
			Code:       "RATE_LIMIT_EXCEEDED",
			Message:    fmt.Sprintf("Rate limit exceeded. Retry after: %s", retryAfter),
			RetryAfter: retryAfter,
		}
	default:
		return nil, &OpenEIError{
			StatusCode: resp.StatusCode,
			Code:       "API_ERROR",
			Message:    fmt.Sprintf("API returned status %d: %s", resp.StatusCode, resp.Status),
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	tariff, err := ParseTariff(raw)
	if err != nil {
		return nil, err
	}

	if cache := GetCache(); cache != nil {
		cache.Set(pageID, tariff)
		log.Printf("[OpenEI] Cached page %s", pageID)
	}
	return tariff, nil
}
