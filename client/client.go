// Package client is a Go client for the public API, with the loading state
// and debounced search the web pages use.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/CPU-commits/CareerNest/aggregate"
	"github.com/CPU-commits/CareerNest/forms"
	"github.com/CPU-commits/CareerNest/models"
	"github.com/CPU-commits/CareerNest/res"
)

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

// Client sends exactly one request per call. Failures go back to the
// caller, who decides whether to try again.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type ListingPage struct {
	Listings   []map[string]interface{} `json:"listings"`
	Total      int64                    `json:"total"`
	Page       int                      `json:"page"`
	Limit      int                      `json:"limit"`
	TotalPages int                      `json:"totalPages"`
}

func decodeError(resp *http.Response) error {
	var envelope res.Response
	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Message == "" {
		return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: envelope.Message}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Search returns at most five matches, newest first. An empty result is
// an empty slice, not an error.
func (c *Client) Search(ctx context.Context, q string) ([]aggregate.Item, error) {
	items := []aggregate.Item{}
	err := c.do(ctx, http.MethodGet, "/api/search", url.Values{"q": {q}}, nil, &items)
	return items, err
}

func (c *Client) WhatsNew(ctx context.Context, q string, limit int) ([]aggregate.Item, error) {
	query := url.Values{}
	if q != "" {
		query.Set("q", q)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var envelope struct {
		Body struct {
			Items []aggregate.Item `json:"items"`
		} `json:"body"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/whats-new", query, nil, &envelope); err != nil {
		return nil, err
	}
	if envelope.Body.Items == nil {
		return []aggregate.Item{}, nil
	}
	return envelope.Body.Items, nil
}

func (c *Client) List(ctx context.Context, kind models.Kind, query url.Values) (*ListingPage, error) {
	spec, ok := models.GetKind(kind)
	if !ok {
		return nil, fmt.Errorf("unknown content type %q", kind)
	}
	var envelope struct {
		Body ListingPage `json:"body"`
	}
	if err := c.do(ctx, http.MethodGet, "/api"+spec.Prefix, query, nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Body, nil
}

// Register validates the form locally and only then calls the API.
func (c *Client) Register(ctx context.Context, form *forms.RegisterForm) error {
	if err := forms.Validate(form); err != nil {
		return &APIError{StatusCode: http.StatusBadRequest, Message: forms.Message(err)}
	}
	return c.do(ctx, http.MethodPost, "/api/auth/register", nil, form, nil)
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}
