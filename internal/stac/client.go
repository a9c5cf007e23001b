package stac

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/bryanfinkel/satellite-backend-go/internal/models"
)

// DefaultCollection is the imagery collection searched when none is given
const DefaultCollection = "sentinel-2-l2a"

// SearchError reports a failed search request against the STAC API
type SearchError struct {
	URL    string
	Status int
	Err    error
}

func (e *SearchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("imagery search %s failed: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("imagery search %s failed: %v", e.URL, e.Err)
}

func (e *SearchError) Unwrap() error { return e.Err }

// Asset is one downloadable artifact of a STAC item
type Asset struct {
	Href  string `json:"href"`
	Type  string `json:"type,omitempty"`
	Title string `json:"title,omitempty"`
}

// Item is one imagery scene returned by a search
type Item struct {
	ID         string                 `json:"id"`
	Collection string                 `json:"collection,omitempty"`
	Properties map[string]interface{} `json:"properties,omitempty"`
	Assets     map[string]Asset       `json:"assets"`
}

// Client searches a STAC catalog for satellite imagery
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given STAC API root URL
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type searchRequest struct {
	Collections []string   `json:"collections"`
	BBox        [4]float64 `json:"bbox"`
	Datetime    string     `json:"datetime"`
	Limit       int        `json:"limit"`
}

type searchResponse struct {
	Features []Item `json:"features"`
}

// Search queries the catalog for scenes covering bbox within the date range.
// Dates are ISO dates or datetimes, combined as "start/end" per the STAC spec.
func (c *Client) Search(ctx context.Context, bbox models.BoundingBox, startDate, endDate string, limit int) ([]Item, error) {
	if limit <= 0 {
		limit = 3
	}

	url := c.baseURL + "/search"
	body, err := json.Marshal(searchRequest{
		Collections: []string{DefaultCollection},
		BBox:        bbox,
		Datetime:    fmt.Sprintf("%s/%s", startDate, endDate),
		Limit:       limit,
	})
	if err != nil {
		return nil, &SearchError{URL: url, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &SearchError{URL: url, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &SearchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &SearchError{URL: url, Status: resp.StatusCode}
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &SearchError{URL: url, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	return result.Features, nil
}

// BandURLs extracts the red and NIR asset hrefs from an item
func BandURLs(item Item) (redURL, nirURL string, err error) {
	red, ok := item.Assets["red"]
	if !ok {
		return "", "", fmt.Errorf("item %s has no red band asset", item.ID)
	}
	nir, ok := item.Assets["nir"]
	if !ok {
		return "", "", fmt.Errorf("item %s has no nir band asset", item.ID)
	}
	return red.Href, nir.Href, nil
}
