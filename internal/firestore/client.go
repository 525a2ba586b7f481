// Package firestore provides a minimal Firestore REST v1 client that lists a
// document tree for the fetcher.
package firestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/frcscout/fuelscout/internal/tree"
)

// Config locates a database and carries its credentials. Token takes
// precedence over APIKey when both are set.
type Config struct {
	BaseURL  string
	Project  string
	Database string
	Token    string
	APIKey   string
	PageSize int
	Timeout  time.Duration
}

// Client lists Firestore collections and documents.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient returns a client for cfg.
func NewClient(cfg Config) *Client {
	if cfg.Database == "" {
		cfg.Database = "(default)"
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 300
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}}
}

var _ tree.Store = (*Client)(nil)

// document is one entry of a documents.list response.
type document struct {
	Name   string         `json:"name"`
	Fields map[string]any `json:"fields"`
}

type listDocumentsResponse struct {
	Documents     []document `json:"documents"`
	NextPageToken string     `json:"nextPageToken"`
}

type listCollectionIDsResponse struct {
	CollectionIDs []string `json:"collectionIds"`
	NextPageToken string   `json:"nextPageToken"`
}

// List returns the children of p. A collection path (odd number of segments)
// yields its documents; documents that exist only as parents of
// sub-collections come back without fields. A document path yields its
// sub-collection ids, all without fields.
func (c *Client) List(ctx context.Context, p string) ([]tree.Document, error) {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil, fmt.Errorf("empty path")
	}
	if len(strings.Split(p, "/"))%2 == 1 {
		return c.listDocuments(ctx, p)
	}
	return c.listCollectionIDs(ctx, p)
}

func (c *Client) listDocuments(ctx context.Context, collection string) ([]tree.Document, error) {
	var out []tree.Document
	token := ""
	for {
		q := url.Values{}
		q.Set("pageSize", strconv.Itoa(c.cfg.PageSize))
		q.Set("showMissing", "true")
		if token != "" {
			q.Set("pageToken", token)
		}
		var resp listDocumentsResponse
		if err := c.do(ctx, http.MethodGet, c.documentsURL(collection), q, nil, &resp); err != nil {
			return nil, err
		}
		for _, d := range resp.Documents {
			out = append(out, tree.Document{ID: path.Base(d.Name), Fields: d.Fields})
		}
		if resp.NextPageToken == "" {
			return out, nil
		}
		token = resp.NextPageToken
	}
}

func (c *Client) listCollectionIDs(ctx context.Context, doc string) ([]tree.Document, error) {
	var out []tree.Document
	token := ""
	for {
		body := map[string]any{"pageSize": c.cfg.PageSize}
		if token != "" {
			body["pageToken"] = token
		}
		var resp listCollectionIDsResponse
		if err := c.do(ctx, http.MethodPost, c.documentsURL(doc)+":listCollectionIds", nil, body, &resp); err != nil {
			return nil, err
		}
		for _, id := range resp.CollectionIDs {
			out = append(out, tree.Document{ID: id})
		}
		if resp.NextPageToken == "" {
			return out, nil
		}
		token = resp.NextPageToken
	}
}

func (c *Client) documentsURL(p string) string {
	return fmt.Sprintf("%s/projects/%s/databases/%s/documents/%s",
		c.cfg.BaseURL, c.cfg.Project, c.cfg.Database, p)
}

// do performs one authenticated request and JSON-decodes the response into out.
func (c *Client) do(ctx context.Context, method, rawURL string, q url.Values, body any, out any) error {
	if q == nil {
		q = url.Values{}
	}
	if c.cfg.Token == "" && c.cfg.APIKey != "" {
		q.Set("key", c.cfg.APIKey)
	}
	if len(q) > 0 {
		rawURL += "?" + q.Encode()
	}

	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, rdr)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s %s: HTTP %d", method, req.URL.Path, resp.StatusCode)
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	return dec.Decode(out)
}
