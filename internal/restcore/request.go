package restcore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/cloblabs/clob-go/internal/errs"
)

// geoblockBody is the reply shape the venue uses when refusing a request on
// geolocation grounds.
type geoblockBody struct {
	Blocked bool   `json:"blocked"`
	IP      string `json:"ip"`
	Country string `json:"country"`
	Region  string `json:"region"`
}

// errorBody is the generic error reply shape: a single message under one of
// two field names depending on the surface.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Do performs req, decoding a 2xx JSON reply into result (which may be nil
// for endpoints whose reply the caller discards). Non-2xx replies map onto
// internal/errs kinds; 5xx and 429 are retried with exponential backoff.
func (c *Client) Do(ctx context.Context, req Request, result any) error {
	var lastErr error
	backoff := c.retryBackoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Add jitter: backoff * (0.5 to 1.5)
			jitter := backoff/2 + time.Duration(rand.Int64N(int64(backoff)))
			c.logger.Debug("retrying request",
				"attempt", attempt,
				"backoff", jitter,
				"path", req.Path,
			)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(jitter):
			}

			backoff *= 2
		}

		err := c.doRequest(ctx, req, result)
		if err == nil {
			return nil
		}

		lastErr = err

		var statusErr *errs.StatusError
		if !errors.As(err, &statusErr) || !statusErr.IsRetryable() {
			return err
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *Client) doRequest(ctx context.Context, req Request, result any) error {
	fullURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	var bodyStr string
	var bodyReader io.Reader
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return errs.Internal("marshal request body", err)
		}
		bodyStr = string(raw)
		bodyReader = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, fullURL, bodyReader)
	if err != nil {
		return errs.Internal("create request", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if req.Signer != nil {
		signed, err := req.Signer.SignedHeaders(ctx, req.Method, req.Path, bodyStr)
		if err != nil {
			return err
		}
		for k, vs := range signed {
			for _, v := range vs {
				httpReq.Header.Set(k, v)
			}
		}
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return mapStatusError(resp.StatusCode, req.Method, req.Path, body)
	}

	if result == nil {
		return nil
	}
	// A 2xx with a literal null body is the venue's way of saying "no such
	// resource" on a few lookup endpoints; surface it as a status error
	// rather than leaving result zero-valued.
	if isJSONNull(body) {
		return &errs.StatusError{
			StatusCode: http.StatusNotFound,
			Method:     req.Method,
			Path:       req.Path,
			Message:    "resource not found",
		}
	}
	if err := json.Unmarshal(body, result); err != nil {
		return errs.Internal("unmarshal response", err)
	}

	return nil
}

func isJSONNull(body []byte) bool {
	return string(bytes.TrimSpace(body)) == "null" || len(bytes.TrimSpace(body)) == 0
}

// mapStatusError folds a non-2xx reply into the right error kind: geoblock
// refusals carry their own detection payload; everything else becomes a
// StatusError with whatever message the body offered.
func mapStatusError(status int, method, path string, body []byte) error {
	if status == http.StatusForbidden {
		var gb geoblockBody
		if err := json.Unmarshal(body, &gb); err == nil && gb.Blocked {
			return &errs.GeoblockError{IP: gb.IP, Country: gb.Country, Region: gb.Region}
		}
	}

	msg := http.StatusText(status)
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if eb.Error != "" {
			msg = eb.Error
		} else if eb.Message != "" {
			msg = eb.Message
		}
	}

	return &errs.StatusError{
		StatusCode: status,
		Method:     method,
		Path:       path,
		Message:    msg,
	}
}
