package restcore

import (
	"context"
	"net/http"
	"net/url"
)

// Get performs a GET with retries.
func (c *Client) Get(ctx context.Context, path string, query url.Values, s HeaderSigner, result any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query, Signer: s}, result)
}

// Post performs a POST with retries.
func (c *Client) Post(ctx context.Context, path string, body any, s HeaderSigner, result any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body, Signer: s}, result)
}

// Delete performs a DELETE with retries.
func (c *Client) Delete(ctx context.Context, path string, body any, s HeaderSigner, result any) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path, Body: body, Signer: s}, result)
}
