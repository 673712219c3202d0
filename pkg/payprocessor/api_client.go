package payprocessor

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/shopspring/decimal"
)

const defaultBaseURL = "https://api.payfeed.example.com/v1"

// SettledTransaction is one settled charge from the processor feed. Amount
// and Fee arrive as decimal strings and stay decimal end to end.
type SettledTransaction struct {
	ExternalRef string          `json:"external_ref"`
	Amount      decimal.Decimal `json:"amount"`
	Fee         decimal.Decimal `json:"fee"`
	SettledAt   time.Time       `json:"settled_at"`
	Description string          `json:"description"`
}

// transactionsResponse wraps the feed's list payload
type transactionsResponse struct {
	Data []SettledTransaction `json:"data"`
}

// Client represents a payment-processor feed API client
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new feed client. PAYFEED_BASE_URL overrides the
// endpoint for staging environments.
func NewClient(apiKey string) *Client {
	baseURL := os.Getenv("PAYFEED_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				IdleConnTimeout:       10 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: 30 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
	}
}

// GetSettledTransactions fetches settled charges for a bounded date range.
// The feed caps a single request at 366 days; callers validate before calling.
func (c *Client) GetSettledTransactions(start, end time.Time) ([]SettledTransaction, error) {
	params := url.Values{}
	params.Set("from", start.UTC().Format("2006-01-02"))
	params.Set("to", end.UTC().Format("2006-01-02"))

	endpoint := fmt.Sprintf("%s/transactions?%s", c.baseURL, params.Encode())
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch settled transactions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	var payload transactionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode feed response: %w", err)
	}
	return payload.Data, nil
}
