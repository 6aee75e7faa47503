// Package http provides the shared HTTP client for Deezer requests.
//
// The Client in this package handles:
//   - A process-wide connection pool with a cookie jar
//   - Suppressing the User-Agent header on every request
//   - Raw response access for streaming track downloads
//   - In-memory fetches for small payloads like cover art
//
// # Basic Usage
//
//	client := http.NewClient()
//
//	// Fetch cover art
//	img, err := client.GetBytes(ctx, coverURL)
//
//	// Stream a track, headers first
//	resp, err := client.Get(ctx, streamURL)
//	defer resp.Body.Close()
//
// # Progress Tracking
//
// The ProgressWriter type can be used to wrap any io.Writer for progress tracking:
//
//	pw := &http.ProgressWriter{
//	    Writer:   &buf,
//	    Total:    resp.ContentLength,
//	    OnUpdate: func(written, total int64) { /* update UI */ },
//	}
package http
