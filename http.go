package goRoles

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

func (c *Client) endpoint(path string) string {
	if path == "" || path == "/" {
		return c.baseURL
	}
	return c.baseURL + path
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), rdr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// send executes req and returns the raw body of a 2xx response. Non-2xx
// responses become *APIError.
func (c *Client) send(req *http.Request, path string) ([]byte, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	c.metrics.Observe(MetricRequestLatency, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.config.Transport.MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", req.Method, path, err)
	}

	requestID := ""
	if resp.Request != nil {
		requestID = resp.Request.Header.Get(c.requestIDHeader())
	}

	c.logger.Debug("role api request",
		"method", req.Method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"elapsed", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			Method:     req.Method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(data),
			RequestID:  requestID,
		}
	}
	return data, nil
}

// do sends one JSON request and decodes the response into out when out is
// non-nil. The raw body is returned either way.
func (c *Client) do(ctx context.Context, method, path string, body, out any) ([]byte, error) {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	data, err := c.send(req, path)
	if err != nil {
		return nil, err
	}
	if out != nil {
		if err := decodeJSON(data, out); err != nil {
			return data, fmt.Errorf("%s %s: %w", method, path, err)
		}
	}
	return data, nil
}

func (c *Client) requestIDHeader() string {
	if c.config.Transport.RequestIDHeader == "" {
		return "X-Request-ID"
	}
	return c.config.Transport.RequestIDHeader
}

func decodeJSON(data []byte, out any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("%w: empty body", ErrDecodeResponse)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrDecodeResponse, err)
	}
	return nil
}

func errorMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Message != "" {
		return body.Message
	}
	text := strings.TrimSpace(string(data))
	if len(text) > 200 {
		text = text[:200]
	}
	if strings.HasPrefix(text, "{") || strings.HasPrefix(text, "<") {
		return ""
	}
	return text
}
