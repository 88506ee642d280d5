/*
Package market holds the shared market-data state.

This file defines the HTTP client for the external quote source (CoinAPI).
The server treats the source as an opaque collaborator returning the full
list of tradable assets with prices.
*/
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	// defaultBaseURL is the CoinAPI REST endpoint root.
	defaultBaseURL = "https://rest.coinapi.io"

	// assetsPath lists every asset known to the source.
	assetsPath = "/v1/assets/"

	// requestTimeout bounds one fetch of the full asset list.
	requestTimeout = 30 * time.Second
)

// Client fetches asset records from CoinAPI.
type Client struct {
	// HTTPClient performs the requests. Defaults to a client with a bounded timeout.
	HTTPClient *http.Client

	// BaseURL is the endpoint root, overridable for tests.
	BaseURL string

	// APIKey is sent as the X-CoinAPI-Key header.
	APIKey string
}

// NewClient returns a CoinAPI client authenticating with the given key.
func NewClient(apiKey string) *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: requestTimeout},
		BaseURL:    defaultBaseURL,
		APIKey:     apiKey,
	}
}

// FetchAssets retrieves the full asset list from the quote source.
// The records are returned unfiltered; NewSnapshot applies the
// cryptocurrency and positive-price filters.
func (c *Client) FetchAssets(ctx context.Context) ([]Offer, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+assetsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("building assets request: %w", err)
	}
	req.Header.Set("X-CoinAPI-Key", c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting assets: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quote source returned %s", resp.Status)
	}

	var offers []Offer
	if err := json.NewDecoder(resp.Body).Decode(&offers); err != nil {
		return nil, fmt.Errorf("decoding assets response: %w", err)
	}

	return offers, nil
}
