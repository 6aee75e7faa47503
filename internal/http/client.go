package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"
)

// Client wraps HTTP operations with Deezer-specific configuration.
//
// Client provides:
//   - A shared connection pool with a cookie jar (the gateway issues
//     session cookies on refresh that later calls must carry)
//   - A suppressed User-Agent header (the upstream rejects some
//     default library agents, so none is sent)
//   - Raw response access for streaming downloads
//   - In-memory fetching for small payloads like cover art
//
// Example usage:
//
//	client := NewClient()
//
//	// Fetch cover art into memory
//	img, err := client.GetBytes(ctx, coverURL)
//
//	// Stream a large file, inspecting headers first
//	resp, err := client.Get(ctx, streamURL)
//	defer resp.Body.Close()
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates the shared HTTP client.
//
// The client is configured with:
//   - 300 second timeout, enough for lossless tracks on slow links
//   - an in-memory cookie jar
//   - no User-Agent header
func NewClient() *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		httpClient: &http.Client{
			Timeout: 300 * time.Second,
			Jar:     jar,
		},
	}
}

// Do executes a prepared request through the shared pool, applying the
// User-Agent policy. The response is returned unread; the caller owns
// the body.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		// An explicitly empty value stops net/http from sending its
		// default agent string.
		req.Header.Set("User-Agent", c.userAgent)
	}
	return c.httpClient.Do(req)
}

// Get performs a GET request and returns the raw response without
// checking the status code. Use this for streaming reads where the
// caller needs the headers before deciding how to proceed.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// GetBytes performs a GET request and returns the response body as
// bytes. Non-200 responses are an error.
//
// Use this for small payloads like cover art. For track audio use Get
// and stream the body.
//
// Example:
//
//	data, err := client.GetBytes(ctx, "https://cdn.example/cover.jpg")
func (c *Client) GetBytes(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// ProgressWriter wraps a writer to track download progress.
//
// Use this to monitor chunked reads by providing an OnUpdate callback
// that receives the bytes written so far and the total expected bytes.
//
// Example:
//
//	pw := &ProgressWriter{
//	    Writer: &buf,
//	    Total:  resp.ContentLength,
//	    OnUpdate: func(written, total int64) {
//	        fmt.Printf("%d / %d bytes\n", written, total)
//	    },
//	}
//	io.Copy(pw, resp.Body)
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes (from Content-Length header).
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with current progress.
	// Parameters are (bytesWritten, totalExpected).
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}
