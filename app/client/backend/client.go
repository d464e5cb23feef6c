// Package backend posts finished transport-request records to the store
// service. One attempt per record: a failure is returned to the caller for
// logging and journaling, never retried here.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"medintake/app/config"
	"medintake/app/service/schema"

	"github.com/samber/do"
	"github.com/samber/oops"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type payload struct {
	Intent schema.Intent     `json:"intent"`
	Data   map[string]string `json:"data"`
}

func NewClient(di *do.Injector) (*Client, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return New(cfg.Backend.URL, time.Duration(cfg.Backend.TimeoutSeconds)*time.Second), nil
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) Submit(ctx context.Context, intent schema.Intent, record map[string]string) error {
	body, err := json.Marshal(payload{Intent: intent, Data: record})
	if err != nil {
		return oops.Errorf("failed to marshal record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/store/", bytes.NewReader(body))
	if err != nil {
		return oops.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return oops.Errorf("failed to post record: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return oops.
			With("status", resp.StatusCode).
			With("body", string(snippet)).
			Errorf("backend rejected record")
	}

	return nil
}
