package imgw

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const requestTimeout = 10 * time.Second

// Client fetches synoptic observations from the IMGW public data API.
type Client struct {
	base   string
	client *http.Client
}

func NewClient(base string) *Client {
	return &Client{
		base: strings.TrimSuffix(base, "/"),
		client: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Fetch returns the decoded JSON body for the station. The API answers with
// either a single object or an array of objects; the caller normalizes it.
func (c *Client) Fetch(ctx context.Context, stationID int) (any, error) {
	url := c.base + "/" + strconv.Itoa(stationID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("newRequest: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get %s: unexpected status %s", url, resp.Status)
	}

	var payload any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return payload, nil
}
