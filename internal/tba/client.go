// Package tba provides a minimal client for The Blue Alliance API v3.
package tba

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the root endpoint for The Blue Alliance API v3.
const DefaultBaseURL = "https://www.thebluealliance.com/api/v3"

// Client is a minimal TBA API client.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient returns a TBA client authenticated with the given read key.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Alliance is one side of a match.
type Alliance struct {
	TeamKeys []string `json:"team_keys"`
	Score    int      `json:"score"`
}

// Match holds the fields we need from /event/{key}/matches.
type Match struct {
	Key         string `json:"key"`
	CompLevel   string `json:"comp_level"`
	SetNumber   int    `json:"set_number"`
	MatchNumber int    `json:"match_number"`
	ActualTime  int64  `json:"actual_time"`
	Alliances   struct {
		Red  Alliance `json:"red"`
		Blue Alliance `json:"blue"`
	} `json:"alliances"`
}

// TeamNumber strips the "frc" prefix from a team key.
func TeamNumber(key string) string {
	return strings.TrimPrefix(key, "frc")
}

// EventMatches returns every match of the event.
func (c *Client) EventMatches(ctx context.Context, eventKey string) ([]Match, error) {
	var out []Match
	if err := c.get(ctx, "/event/"+eventKey+"/matches", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// get performs an authenticated GET request and JSON-decodes the body into out.
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-TBA-Auth-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: HTTP %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
