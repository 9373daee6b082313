// Package plone is a small client for the Plone REST API endpoints the
// front end reads: content and navigation.
package plone

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nzambello/ploneview/pkg/core"
	"github.com/nzambello/ploneview/pkg/log"
	"github.com/nzambello/ploneview/pkg/version"
)

// ErrNotFound is returned when the backend has no content at a path.
var ErrNotFound = errors.New("content not found")

// APIError is a backend failure other than a missing resource.
type APIError struct {
	URL        string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("plone API %s: status %d: %s", e.URL, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("plone API %s: status %d", e.URL, e.StatusCode)
}

// maxBody bounds the size of a decoded response.
const maxBody = 32 << 20

// Client talks to a Plone site root. It is safe for concurrent use.
type Client struct {
	base   string
	http   *http.Client
	logger *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds every request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// NewClient returns a client for the site rooted at base, such as
// http://backend:8080/Plone.
func NewClient(base string, opts ...Option) *Client {
	c := &Client{
		base:   strings.TrimSuffix(base, "/"),
		http:   &http.Client{},
		logger: log.ForService("plone"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Base returns the site root URL.
func (c *Client) Base() string { return c.base }

// Content fetches the content object at path, relative to the site root.
// Components named in expand are inlined in @components.
func (c *Client) Content(ctx context.Context, path string, expand ...string) (core.Document, error) {
	u := c.base + "/" + strings.TrimPrefix(path, "/")
	if len(expand) > 0 {
		u += "?" + url.Values{"expand": {strings.Join(expand, ",")}}.Encode()
	}
	var doc core.Document
	if err := c.get(ctx, u, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// NavItem is an entry of the @navigation endpoint.
type NavItem struct {
	ID          string    `json:"@id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ReviewState string    `json:"review_state"`
	Items       []NavItem `json:"items"`
}

type navigationResponse struct {
	Items []NavItem `json:"items"`
}

// Navigation fetches the navigation tree of the language root lang, depth
// levels deep.
func (c *Client) Navigation(ctx context.Context, lang string, depth int) ([]NavItem, error) {
	u := c.base
	if lang != "" {
		u += "/" + url.PathEscape(lang)
	}
	u += "/@navigation?" + url.Values{"expand.navigation.depth": {strconv.Itoa(depth)}}.Encode()

	var nav navigationResponse
	if err := c.get(ctx, u, &nav); err != nil {
		return nil, err
	}
	return nav.Items, nil
}

func (c *Client) get(ctx context.Context, u string, v any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()
	c.logger.Debugf("GET %s: %d in %s", u, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", u, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return &APIError{URL: u, StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if isErrorPayload(raw) {
		return fmt.Errorf("%s: %s: %w", u, errorMessage(body), ErrNotFound)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// isErrorPayload reports whether a 200 response is an error document.
// Content never has a top level "error" key and always has "@id".
func isErrorPayload(raw map[string]any) bool {
	if _, ok := raw["error"]; ok {
		return true
	}
	if t, ok := raw["type"].(string); ok && t != "" {
		_, hasID := raw["@id"]
		return !hasID
	}
	return false
}

// errorMessage extracts the message of a Plone error document.
func errorMessage(body []byte) string {
	var payload struct {
		Type    string `json:"type"`
		Message string `json:"message"`
		Error   any    `json:"error"`
	}
	if json.Unmarshal(body, &payload) != nil {
		return ""
	}
	switch e := payload.Error.(type) {
	case string:
		return e
	case map[string]any:
		if m := core.String(e, "message"); m != "" {
			return m
		}
		return core.String(e, "type")
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Type
}
