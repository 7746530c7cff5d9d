package ctl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sourced/pkg/types"
)

// APIError is a non-2xx answer from the daemon.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sourced: %d %s", e.Status, e.Message)
}

// Client talks to a sourced daemon.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient returns a client for the daemon at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	debug("%s %s", method, req.URL)
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var e types.ErrorResponse
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if json.Unmarshal(b, &e) != nil || e.Error == "" {
			e.Error = strings.TrimSpace(string(b))
		}
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func esc(s string) string { return url.PathEscape(s) }

func (c *Client) ListSources(ctx context.Context) ([]types.SourceInfo, error) {
	var out types.SourcesResponse
	err := c.do(ctx, http.MethodGet, "/sources", nil, &out)
	return out.Sources, err
}

func (c *Client) Source(ctx context.Context, name string) (types.SourceInfo, error) {
	var out types.SourceInfo
	err := c.do(ctx, http.MethodGet, "/sources/"+esc(name), nil, &out)
	return out, err
}

func (c *Client) AddSource(ctx context.Context, spec types.SourceSpec) (types.SourceInfo, error) {
	var out types.SourceInfo
	err := c.do(ctx, http.MethodPost, "/sources", spec, &out)
	return out, err
}

func (c *Client) Broadcast(ctx context.Context, name string, ev types.Event) (types.BroadcastResult, error) {
	var out types.BroadcastResult
	err := c.do(ctx, http.MethodPost, "/sources/"+esc(name)+"/events", ev, &out)
	return out, err
}

func (c *Client) AttachSink(ctx context.Context, source string, spec types.SinkSpec) (types.SinkInfo, error) {
	var out types.SinkInfo
	err := c.do(ctx, http.MethodPost, "/sources/"+esc(source)+"/sinks", spec, &out)
	return out, err
}

func (c *Client) DetachSink(ctx context.Context, source, id string) error {
	return c.do(ctx, http.MethodDelete, "/sources/"+esc(source)+"/sinks/"+esc(id), nil, nil)
}

func (c *Client) DropSink(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/sinks/"+esc(id), nil, nil)
}

func (c *Client) Sink(ctx context.Context, id string) (types.SinkInfo, error) {
	var out types.SinkInfo
	err := c.do(ctx, http.MethodGet, "/sinks/"+esc(id), nil, &out)
	return out, err
}

func (c *Client) SinkEvents(ctx context.Context, id string) ([]types.Event, error) {
	var out types.SinkEventsResponse
	err := c.do(ctx, http.MethodGet, "/sinks/"+esc(id)+"/events", nil, &out)
	return out.Events, err
}

func (c *Client) Resize(ctx context.Context, name string, width, height int) (types.BroadcastResult, error) {
	var out types.BroadcastResult
	err := c.do(ctx, http.MethodPost, "/sources/"+esc(name)+"/resize", types.ResizeRequest{Width: width, Height: height}, &out)
	return out, err
}

func (c *Client) Focus(ctx context.Context, name string) (types.BroadcastResult, error) {
	var out types.BroadcastResult
	err := c.do(ctx, http.MethodPost, "/sources/"+esc(name)+"/focus", nil, &out)
	return out, err
}

func (c *Client) Write(ctx context.Context, name, data string, complete bool) (types.BroadcastResult, error) {
	var out types.BroadcastResult
	err := c.do(ctx, http.MethodPost, "/sources/"+esc(name)+"/write", types.WriteRequest{Data: data, Complete: complete}, &out)
	return out, err
}

func (c *Client) Status(ctx context.Context) (types.StatusResponse, error) {
	var out types.StatusResponse
	err := c.do(ctx, http.MethodGet, "/status", nil, &out)
	return out, err
}

// WaitReady polls /readyz until it answers 200 or timeout elapses.
func (c *Client) WaitReady(ctx context.Context, timeout, every time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	for {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/readyz", nil)
		resp, err := c.HTTP.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		select {
		case <-time.After(every):
		case <-ctx.Done():
			return fmt.Errorf("timed out waiting for %s/readyz", c.BaseURL)
		}
	}
}
