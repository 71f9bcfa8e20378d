// Package churchtools is a minimal client for the ChurchTools REST API,
// covering the endpoints the group-building widget needs.
package churchtools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// Options configures a Client.
type Options struct {
	// BaseURL is the API root, e.g. https://example.church.tools/api.
	BaseURL string
	// Token is sent as a Login authorization header when set.
	Token string
	// Timeout is the per-request timeout. Zero means 15 seconds.
	Timeout time.Duration
	// MaxPages caps paginated fetches. Zero means 100.
	MaxPages int
	Logger   zerolog.Logger
}

// Client talks to one ChurchTools instance.
type Client struct {
	baseURL  string
	token    string
	http     *http.Client
	maxPages int
	logger   zerolog.Logger
}

// New creates a Client for the given instance.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = 100
	}
	// The jar keeps the session cookie from a username/password login.
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL:  opts.BaseURL,
		token:    opts.Token,
		http:     &http.Client{Timeout: timeout, Jar: jar},
		maxPages: maxPages,
		logger:   opts.Logger.With().Str("client", "churchtools").Logger(),
	}
}

// Get fetches path and decodes the response (unwrapping a data envelope if
// present) into out.
func (c *Client) Get(ctx context.Context, path string, params url.Values, out any) error {
	raw, err := c.do(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return err
	}
	return decodeData(raw, out)
}

// Post sends body as JSON to path and decodes the response into out, which
// may be nil when the caller does not need it.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	raw, err := c.do(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decodeData(raw, out)
}

// Put sends body as JSON to path and decodes the response into out, which
// may be nil when the caller does not need it.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	raw, err := c.do(ctx, http.MethodPut, path, nil, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decodeData(raw, out)
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body any) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("creating %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Login "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s %s response: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(resp.StatusCode, raw)
		c.logger.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("request failed")
		return nil, apiErr
	}
	return raw, nil
}

// decodeData unwraps a { data: ... } envelope when present and decodes the
// payload into out.
func decodeData(raw []byte, out any) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 {
		raw = env.Data
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// GetAllPages fetches every page of a collection endpoint. When the response
// carries pagination metadata, pages are requested until current reaches
// lastPage. Without metadata it falls back to incrementing the page parameter
// until an empty page comes back. Either way the loop stops after the
// client's page cap.
func GetAllPages[T any](ctx context.Context, c *Client, path string, params url.Values) ([]T, error) {
	if params == nil {
		params = url.Values{}
	}

	var all []T
	page := 1
	for i := 0; i < c.maxPages; i++ {
		params.Set("page", strconv.Itoa(page))
		raw, err := c.do(ctx, http.MethodGet, path, params, nil)
		if err != nil {
			return nil, err
		}

		var env envelope
		payload := raw
		if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 {
			payload = env.Data
		} else {
			env.Meta = nil
		}

		var items []T
		if err := json.Unmarshal(payload, &items); err != nil {
			return nil, fmt.Errorf("decoding page %d of %s: %w", page, path, err)
		}
		all = append(all, items...)

		if env.Meta != nil && env.Meta.Pagination != nil {
			p := env.Meta.Pagination
			if p.Current >= p.LastPage {
				break
			}
		} else if len(items) == 0 {
			break
		}
		page++
	}
	return all, nil
}
