package deezer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/handiism/deezer-downloader/internal/deezer/dto"
	"github.com/handiism/deezer-downloader/internal/model"
)

// codeNoData is the public API error code for an ID that does not
// resolve.
const codeNoData = 800

// Catalog resolves tracks and albums by ID and owns the process-wide
// identity cache.
//
// Every resolution path consults the cache, so resolving the same ID
// twice returns the same instance, and hydrating a track through one
// reference is visible through all of them. Concurrent resolution of
// the same uncached ID is coalesced into a single upstream request.
//
// Example:
//
//	catalog := deezer.NewCatalog(session)
//	track, err := catalog.Track(ctx, 3135556)
//	if err != nil {
//	    var notFound *deezer.NotFoundError
//	    if errors.As(err, &notFound) {
//	        // no such track
//	    }
//	}
type Catalog struct {
	session *Session
	cache   *Cache
	flight  singleflight.Group
	log     *zap.Logger
}

// NewCatalog creates a catalog backed by the given session's transport
// and gateway credentials.
func NewCatalog(session *Session) *Catalog {
	return &Catalog{
		session: session,
		cache:   NewCache(),
		log:     session.log,
	}
}

// Track resolves a track by ID, from cache or via one public API
// lookup. The returned instance is canonical: later lookups of the
// same ID return the same pointer.
func (c *Catalog) Track(ctx context.Context, id int64) (*model.Track, error) {
	if track, ok := c.cache.Track(id); ok {
		return track, nil
	}

	key := fmt.Sprintf("track/%d", id)
	v, err, _ := c.flight.Do(key, func() (any, error) {
		if track, ok := c.cache.Track(id); ok {
			return track, nil
		}

		body, err := c.session.publicGet(ctx, key, nil)
		if err != nil {
			return nil, err
		}

		var payload dto.Track
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, fmt.Errorf("decode track %d: %w", id, err)
		}
		if err := apiError("track", id, payload.Error); err != nil {
			return nil, err
		}

		c.log.Debug("resolved track", zap.Int64("id", id))
		return c.cache.PutTrack(payload.ToModel()), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.Track), nil
}

// Album resolves an album by ID, from cache or via one public API
// lookup.
func (c *Catalog) Album(ctx context.Context, id int64) (*model.Album, error) {
	if album, ok := c.cache.Album(id); ok {
		return album, nil
	}

	key := fmt.Sprintf("album/%d", id)
	v, err, _ := c.flight.Do(key, func() (any, error) {
		if album, ok := c.cache.Album(id); ok {
			return album, nil
		}

		body, err := c.session.publicGet(ctx, key, nil)
		if err != nil {
			return nil, err
		}

		var payload dto.Album
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, fmt.Errorf("decode album %d: %w", id, err)
		}
		if err := apiError("album", id, payload.Error); err != nil {
			return nil, err
		}

		c.log.Debug("resolved album",
			zap.Int64("id", id),
			zap.Int("tracks", len(payload.Tracks.Data)))
		return c.cache.PutAlbum(payload.ToModel()), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.Album), nil
}

// TrackAlbum resolves the album a track belongs to.
func (c *Catalog) TrackAlbum(ctx context.Context, track *model.Track) (*model.Album, error) {
	return c.Album(ctx, track.AlbumID)
}

// AlbumTracks materializes a Track per member-track summary of the
// album, without any network call. Already cached tracks are returned
// as-is; new ones are created from the summary and cached, inheriting
// the album's release date. Results are in album track order.
func (c *Catalog) AlbumTracks(album *model.Album) []*model.Track {
	tracks := make([]*model.Track, 0, len(album.Summaries))
	for i, summary := range album.Summaries {
		if cached, ok := c.cache.Track(summary.ID); ok {
			tracks = append(tracks, cached)
			continue
		}

		track := &model.Track{
			ID:          summary.ID,
			AlbumID:     album.ID,
			Artist:      summary.Artist,
			Title:       summary.Title,
			TitleShort:  summary.TitleShort,
			Duration:    summary.Duration,
			Rank:        summary.Rank,
			Link:        summary.Link,
			PreviewLink: summary.Preview,
			Number:      summary.TrackPosition,
			DiskNumber:  summary.DiskNumber,
			ReleaseDate: album.ReleaseDate,
		}
		if track.Number == 0 {
			track.Number = i + 1
		}
		if track.DiskNumber == 0 {
			track.DiskNumber = 1
		}
		tracks = append(tracks, c.cache.PutTrack(track))
	}
	return tracks
}

// Hydrate fetches the extended tag block for a track via the gateway
// page lookup and attaches it, replacing any previous block.
//
// The contributor payload is normalized: the provider sometimes sends
// a bare list instead of a role mapping, in which case composer and
// author stay unset. Lyric fields are only populated when the response
// carries a lyrics section.
func (c *Catalog) Hydrate(ctx context.Context, track *model.Track) error {
	res, err := c.session.CallPrivate(ctx, methodPageTrack, map[string]any{"sng_id": track.ID})
	if err != nil {
		return fmt.Errorf("hydrate track %d: %w", track.ID, err)
	}

	extra := &model.ExtendedTags{
		MD5Origin:    res.Get("DATA.MD5_ORIGIN").String(),
		MediaVersion: res.Get("DATA.MEDIA_VERSION").String(),
		Copyright:    res.Get("DATA.COPYRIGHT").String(),
	}

	if contributors := res.Get("DATA.SNG_CONTRIBUTORS"); contributors.IsObject() {
		extra.Composer = stringList(contributors.Get("composer"))
		extra.Author = stringList(contributors.Get("author"))
	}

	if lyrics := res.Get("LYRICS"); lyrics.Exists() {
		extra.Lyrics = lyrics.Get("LYRICS_TEXT").String()
		extra.LyricsCopyright = lyrics.Get("LYRICS_COPYRIGHTS").String()
		if writers := lyrics.Get("LYRICS_WRITERS").String(); writers != "" {
			extra.LyricsWriters = strings.Split(writers, ", ")
		}
		for _, line := range lyrics.Get("LYRICS_SYNC_JSON").Array() {
			extra.LyricsSync = append(extra.LyricsSync, model.SyncedLyric{
				Timestamp:    line.Get("lrc_timestamp").String(),
				Milliseconds: line.Get("milliseconds").String(),
				Duration:     line.Get("duration").String(),
				Line:         line.Get("line").String(),
			})
		}
	}

	track.Extra = extra
	return nil
}

// apiError maps a public API error envelope to the error taxonomy.
func apiError(kind string, id int64, payload *dto.ErrorPayload) error {
	if payload == nil {
		return nil
	}
	if payload.Code == codeNoData {
		return &NotFoundError{Kind: kind, ID: id}
	}
	return &APIError{Type: payload.Type, Message: payload.Message, Code: payload.Code}
}

func stringList(res gjson.Result) []string {
	arr := res.Array()
	if len(arr) == 0 {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		out = append(out, item.String())
	}
	return out
}
