package download

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/handiism/deezer-downloader/internal/audio"
	"github.com/handiism/deezer-downloader/internal/deezer"
	ihttp "github.com/handiism/deezer-downloader/internal/http"
	ioutils "github.com/handiism/deezer-downloader/internal/io"
	"github.com/handiism/deezer-downloader/internal/model"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a download progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// ProgressFunc receives byte progress while a track body is read.
// total is the declared content length, or -1 when unknown.
//
// Calls are dispatched fire-and-forget: the read loop never waits for
// the callback and a panicking callback is swallowed. Callbacks must
// synchronize their own state.
type ProgressFunc func(current, total int64)

// Manager coordinates track and album downloads.
//
// A Manager owns a catalog over its session, so repeated downloads of
// the same content reuse cached entities. All methods are safe for
// concurrent use.
type Manager struct {
	session  *deezer.Session
	catalog  *deezer.Catalog
	http     *ihttp.Client
	tagger   *audio.Tagger
	images   *ioutils.ImageService
	playlist *audio.PlaylistCreator
	log      *zap.Logger

	concurrency int
	skipFailed  bool
	onEvent     func(ProgressEvent)

	downloadedTracks int32
	failedTracks     int32
	downloadedBytes  int64

	// streamURL computes the CDN location; tests substitute a stub.
	streamURL func(md5Origin, mediaVersion string, trackID int64, qualityCode string) (string, error)
}

// Options configures a Manager. The zero value selects three
// concurrent track downloads, the fail-fast album policy, no event
// callback, and no logging.
type Options struct {
	// Concurrency bounds the parallel track downloads of one album.
	Concurrency int

	// SkipFailedTracks switches album downloads from fail-fast to
	// best-effort: failed slots stay nil and the failures come back as
	// one aggregated error.
	SkipFailedTracks bool

	// OnEvent receives coarse progress notifications for UI surfaces.
	OnEvent func(ProgressEvent)

	// Logger receives debug and warning traces. zap.NewNop() when nil.
	Logger *zap.Logger
}

// NewManager creates a download Manager on top of an authenticated
// session.
func NewManager(session *deezer.Session, opts *Options) *Manager {
	if opts == nil {
		opts = &Options{}
	}

	m := &Manager{
		session:     session,
		catalog:     deezer.NewCatalog(session),
		http:        session.HTTPClient(),
		tagger:      audio.NewTagger(),
		images:      ioutils.NewImageService(),
		playlist:    audio.NewPlaylistCreator(true),
		log:         opts.Logger,
		concurrency: opts.Concurrency,
		skipFailed:  opts.SkipFailedTracks,
		onEvent:     opts.OnEvent,
		streamURL:   deezer.StreamURL,
	}
	if m.log == nil {
		m.log = zap.NewNop()
	}
	if m.concurrency <= 0 {
		m.concurrency = 3
	}
	return m
}

// Catalog exposes the manager's entity catalog so callers can resolve
// and inspect content before downloading it.
func (m *Manager) Catalog() *deezer.Catalog {
	return m.catalog
}

// Stats reports how many track downloads finished and failed since the
// manager was created.
func (m *Manager) Stats() (downloaded, failed int32) {
	return atomic.LoadInt32(&m.downloadedTracks), atomic.LoadInt32(&m.failedTracks)
}

// BytesDownloaded reports the total audio bytes fetched since the
// manager was created.
func (m *Manager) BytesDownloaded() int64 {
	return atomic.LoadInt64(&m.downloadedBytes)
}

// ByURL downloads whatever a provider page URL points at.
//
// Track links produce a single-element result; album links produce one
// element per member track. Link kinds without a download path, like
// playlists, return *UnsupportedKindError. Strings that are not
// provider links at all return *deezer.InvalidURLError.
func (m *Manager) ByURL(ctx context.Context, rawURL string, bitrate model.Bitrate, onProgress ProgressFunc) ([][]byte, error) {
	link, err := deezer.ParseLink(rawURL)
	if err != nil {
		return nil, err
	}

	switch link.Kind {
	case deezer.LinkTrack:
		data, err := m.TrackByID(ctx, link.ID, bitrate, onProgress)
		if err != nil {
			return nil, err
		}
		return [][]byte{data}, nil

	case deezer.LinkAlbum:
		album, err := m.catalog.Album(ctx, link.ID)
		if err != nil {
			return nil, err
		}
		return m.Album(ctx, album, bitrate)

	default:
		return nil, &UnsupportedKindError{Kind: string(link.Kind)}
	}
}

// TrackByID resolves a track and downloads it.
func (m *Manager) TrackByID(ctx context.Context, id int64, bitrate model.Bitrate, onProgress ProgressFunc) ([]byte, error) {
	track, err := m.catalog.Track(ctx, id)
	if err != nil {
		return nil, err
	}
	return m.Track(ctx, track, bitrate, onProgress)
}

// Track downloads one track into memory at the requested bitrate,
// stepping down FLAC, MP3_320, MP3_256, then MP3_128 whenever the CDN
// declares an empty stream. When MP3_128 is empty too the result is
// *DownloadError.
//
// The track is hydrated first if needed. onProgress, when non-nil,
// receives running byte counts while the body is read.
func (m *Manager) Track(ctx context.Context, track *model.Track, bitrate model.Bitrate, onProgress ProgressFunc) ([]byte, error) {
	data, _, err := m.trackBytes(ctx, track, bitrate, onProgress)
	return data, err
}

// trackBytes is Track plus the bitrate the download ended up at, which
// the save pipeline needs to pick the container format.
func (m *Manager) trackBytes(ctx context.Context, track *model.Track, bitrate model.Bitrate, onProgress ProgressFunc) ([]byte, model.Bitrate, error) {
	if !track.Hydrated() {
		if err := m.catalog.Hydrate(ctx, track); err != nil {
			m.fail(track, err)
			return nil, "", err
		}
	}

	for quality := bitrate; ; {
		streamURL, err := m.streamURL(track.Extra.MD5Origin, track.Extra.MediaVersion, track.ID, quality.Code())
		if err != nil {
			m.fail(track, err)
			return nil, "", err
		}

		m.log.Debug("requesting stream",
			zap.Int64("track", track.ID),
			zap.String("bitrate", quality.String()))

		resp, err := m.http.Get(ctx, streamURL)
		if err != nil {
			m.fail(track, err)
			return nil, "", err
		}

		// A declared zero length means this quality does not exist for
		// the track. Unknown lengths (-1) stream normally.
		if resp.ContentLength == 0 {
			resp.Body.Close()

			next, ok := quality.Next()
			if !ok {
				err := &DownloadError{TrackID: track.ID}
				m.fail(track, err)
				return nil, "", err
			}

			m.log.Warn("stream missing, stepping down",
				zap.Int64("track", track.ID),
				zap.String("from", quality.String()),
				zap.String("to", next.String()))
			m.notify(ProgressEvent{
				Message: fmt.Sprintf("No %s stream for %s, trying %s", quality, track.Title, next),
				Level:   LevelWarning,
			})
			quality = next
			continue
		}

		data, err := m.readBody(resp.Body, resp.ContentLength, onProgress)
		resp.Body.Close()
		if err != nil {
			m.fail(track, err)
			return nil, "", fmt.Errorf("read stream for track %d: %w", track.ID, err)
		}

		atomic.AddInt32(&m.downloadedTracks, 1)
		atomic.AddInt64(&m.downloadedBytes, int64(len(data)))
		m.notify(ProgressEvent{
			Message: fmt.Sprintf("Downloaded: %s [%s]", track.Title, quality),
			Level:   LevelVerbose,
		})
		return data, quality, nil
	}
}

// Album downloads every member track of an album concurrently. Results
// are positionally aligned with album track order no matter which
// download finishes first.
//
// The default policy fails the whole album on the first track error.
// With SkipFailedTracks the remaining tracks keep going, failed slots
// stay nil, and the collected failures come back joined.
func (m *Manager) Album(ctx context.Context, album *model.Album, bitrate model.Bitrate) ([][]byte, error) {
	tracks := m.catalog.AlbumTracks(album)
	results := make([][]byte, len(tracks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)

	if !m.skipFailed {
		for i, track := range tracks {
			g.Go(func() error {
				data, err := m.Track(gctx, track, bitrate, nil)
				if err != nil {
					return fmt.Errorf("track %d (%s): %w", track.ID, track.Title, err)
				}
				results[i] = data
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return results, nil
	}

	failures := make([]error, len(tracks))
	for i, track := range tracks {
		g.Go(func() error {
			data, err := m.Track(gctx, track, bitrate, nil)
			if err != nil {
				failures[i] = fmt.Errorf("track %d (%s): %w", track.ID, track.Title, err)
				m.notify(ProgressEvent{
					Message: fmt.Sprintf("Error downloading %s: %v", track.Title, err),
					Level:   LevelError,
				})
				return nil
			}
			results[i] = data
			return nil
		})
	}
	g.Wait()

	return results, errors.Join(failures...)
}

// readBody copies the stream into memory, reporting progress after
// every chunk.
func (m *Manager) readBody(r io.Reader, total int64, onProgress ProgressFunc) ([]byte, error) {
	var buf bytes.Buffer
	if total > 0 {
		buf.Grow(int(total))
	}

	counter := &ihttp.ProgressWriter{
		Writer: &buf,
		Total:  total,
		OnUpdate: func(written, total int64) {
			m.dispatch(onProgress, written, total)
		},
	}
	if _, err := io.Copy(counter, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// dispatch runs a progress callback without ever blocking or killing
// the download on its account.
func (m *Manager) dispatch(onProgress ProgressFunc, current, total int64) {
	if onProgress == nil {
		return
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				m.log.Warn("progress callback panicked", zap.Any("panic", r))
			}
		}()
		onProgress(current, total)
	}()
}

func (m *Manager) fail(track *model.Track, err error) {
	atomic.AddInt32(&m.failedTracks, 1)
	m.log.Debug("track download failed",
		zap.Int64("track", track.ID),
		zap.Error(err))
}

func (m *Manager) notify(event ProgressEvent) {
	if m.onEvent != nil {
		m.onEvent(event)
	}
}
