package deezer

import (
	"context"
	"net/url"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Default result limits for Search.
const (
	DefaultAlbumLimit = 3
	DefaultTotalLimit = 50
)

// AlbumResult is one album entry of a combined search, reduced to the
// fields a picker UI displays.
type AlbumResult struct {
	// Title is the album title.
	Title string

	// Artist is the main artist name.
	Artist string

	// Cover is the medium resolution cover URL.
	Cover string

	// Link is the Deezer page URL.
	Link string
}

// TrackResult is one track entry of a combined search.
type TrackResult struct {
	// Title is the track title.
	Title string

	// Artist is the main artist name.
	Artist string

	// Album is the title of the album the track appears on.
	Album string

	// Cover is the medium resolution cover URL of that album.
	Cover string

	// Link is the Deezer page URL.
	Link string
}

// SearchResult bundles the truncated album and track entries of one
// combined search, each in the provider's relevance order.
type SearchResult struct {
	Albums []AlbumResult
	Tracks []TrackResult
}

// SearchAlbums runs an unauthenticated album search and returns the
// raw result entries verbatim, in provider order.
func (s *Session) SearchAlbums(ctx context.Context, query string) ([]gjson.Result, error) {
	return s.find(ctx, "search/album", query)
}

// SearchTracks runs an unauthenticated track search and returns the
// raw result entries verbatim, in provider order.
func (s *Session) SearchTracks(ctx context.Context, query string) ([]gjson.Result, error) {
	return s.find(ctx, "search", query)
}

func (s *Session) find(ctx context.Context, path, query string) ([]gjson.Result, error) {
	body, err := s.publicGet(ctx, path, url.Values{"q": {query}})
	if err != nil {
		return nil, err
	}
	return gjson.GetBytes(body, "data").Array(), nil
}

// Search runs the album and track searches concurrently and projects
// the results into display summaries.
//
// Albums are truncated to albumLimit entries and tracks to
// totalLimit-albumLimit, so the combined result never exceeds
// totalLimit. The provider's relevance order is preserved; nothing is
// re-sorted.
//
// Example:
//
//	res, err := session.Search(ctx, "daft punk", deezer.DefaultAlbumLimit, deezer.DefaultTotalLimit)
//	for _, album := range res.Albums {
//	    fmt.Println(album.Artist, "-", album.Title)
//	}
func (s *Session) Search(ctx context.Context, query string, albumLimit, totalLimit int) (*SearchResult, error) {
	var (
		rawAlbums []gjson.Result
		rawTracks []gjson.Result
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rawAlbums, err = s.SearchAlbums(gctx, query)
		return err
	})
	g.Go(func() error {
		var err error
		rawTracks, err = s.SearchTracks(gctx, query)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rawAlbums = truncate(rawAlbums, albumLimit)
	rawTracks = truncate(rawTracks, totalLimit-albumLimit)

	result := &SearchResult{
		Albums: make([]AlbumResult, 0, len(rawAlbums)),
		Tracks: make([]TrackResult, 0, len(rawTracks)),
	}
	for _, raw := range rawAlbums {
		result.Albums = append(result.Albums, AlbumResult{
			Title:  raw.Get("title").String(),
			Artist: raw.Get("artist.name").String(),
			Cover:  raw.Get("cover_medium").String(),
			Link:   raw.Get("link").String(),
		})
	}
	for _, raw := range rawTracks {
		result.Tracks = append(result.Tracks, TrackResult{
			Title:  raw.Get("title").String(),
			Artist: raw.Get("artist.name").String(),
			Album:  raw.Get("album.title").String(),
			Cover:  raw.Get("album.cover_medium").String(),
			Link:   raw.Get("link").String(),
		})
	}

	s.log.Debug("search finished",
		zap.String("query", query),
		zap.Int("albums", len(result.Albums)),
		zap.Int("tracks", len(result.Tracks)))

	return result, nil
}

func truncate(results []gjson.Result, limit int) []gjson.Result {
	if limit < 0 {
		limit = 0
	}
	if len(results) > limit {
		return results[:limit]
	}
	return results
}
