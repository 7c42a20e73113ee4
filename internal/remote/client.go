// Package remote reads the demo task API once and previews the raw
// response. Nothing it returns is merged into local state.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tidwall/pretty"

	"github.com/Makepad-fr/tada/internal/model"
)

// DefaultURL is the hosted demo API.
const DefaultURL = "https://imprints-task-manager.onrender.com/api/tasks"

// maxBody caps how much of a response is read.
const maxBody = 4 << 20

var (
	// ErrNotJSON is wrapped when the response body does not parse as JSON.
	ErrNotJSON = errors.New("response is not valid JSON")
	// ErrTooLarge is wrapped when the body exceeds the read limit.
	ErrTooLarge = errors.New("response too large")
)

// Preview is the outcome of one fetch.
type Preview struct {
	URL    string
	Status int
	// Raw is the response body pretty-printed with two-space indent.
	Raw string
	// Success and Total mirror the API envelope when present.
	Success *bool
	Total   *int
	// Tasks holds the decoded "tasks" array, if the body had one.
	Tasks []model.Task
}

type envelope struct {
	Success *bool           `json:"success"`
	Total   *int            `json:"total"`
	Tasks   json.RawMessage `json:"tasks"`
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client fetches a single fixed URL.
type Client struct {
	url    string
	http   *http.Client
	logger *log.Logger
}

// NewClient returns a client for url; an empty url means DefaultURL.
func NewClient(url string, opts ...Option) *Client {
	if strings.TrimSpace(url) == "" {
		url = DefaultURL
	}
	c := &Client{
		url:    url,
		http:   http.DefaultClient,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the endpoint this client reads.
func (c *Client) URL() string { return c.url }

// FetchTasks issues one GET. There is no retry; cancel via ctx.
func (c *Client) FetchTasks(ctx context.Context) (*Preview, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("fetching remote tasks", "url", c.url)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", c.url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if len(body) > maxBody {
		return nil, fmt.Errorf("fetch %s (status %d): %w: over %d bytes", c.url, resp.StatusCode, ErrTooLarge, maxBody)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("fetch %s (status %d): %w", c.url, resp.StatusCode, ErrNotJSON)
	}

	p := &Preview{
		URL:    c.url,
		Status: resp.StatusCode,
		Raw:    strings.TrimRight(string(pretty.Pretty(body)), "\n"),
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err == nil {
		p.Success = env.Success
		p.Total = env.Total
		if len(env.Tasks) > 0 && env.Tasks[0] == '[' {
			if err := json.Unmarshal(env.Tasks, &p.Tasks); err != nil {
				c.logger.Warn("remote tasks have unexpected shape", "err", err)
			}
		}
	}
	if p.Tasks != nil {
		c.logger.Info("fetched tasks from API", "count", len(p.Tasks), "status", p.Status)
	} else {
		c.logger.Info("fetched remote response", "status", p.Status)
	}
	return p, nil
}

// ErrorText is the inline message shown when a fetch fails.
func ErrorText(url string, err error) string {
	return fmt.Sprintf("Error: %v\n\nMake sure the task API is reachable at %s.", err, url)
}
