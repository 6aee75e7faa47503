package download

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/handiism/deezer-downloader/internal/deezer"
	ioutils "github.com/handiism/deezer-downloader/internal/io"
	"github.com/handiism/deezer-downloader/internal/model"
)

// SaveOptions configures where and how downloaded tracks land on disk.
type SaveOptions struct {
	// Dir is the base output directory. Album folders are created
	// beneath it as <Artist>/<Album>.
	Dir string

	// Bitrate is the preferred quality. The usual step-down applies
	// when a stream is missing.
	Bitrate model.Bitrate

	// CoverSize selects the cover resolution embedded in tags.
	CoverSize model.CoverSize

	// CoverMaxEdge, when positive, downscales the cover so neither
	// edge exceeds it before embedding.
	CoverMaxEdge int

	// WritePlaylist adds an extended M3U playlist to the album
	// directory after an album download.
	WritePlaylist bool

	// OnProgress receives byte progress for each track body.
	OnProgress ProgressFunc
}

// SaveTrack downloads one track, tags it, and writes it below
// opts.Dir as <Artist>/<Album>/<NN Title>.<ext>. It returns the final
// file path.
//
// The audio lands under a temporary name first and is renamed only
// after tagging succeeds, so an interrupted run never leaves a
// half-tagged file at the final path.
func (m *Manager) SaveTrack(ctx context.Context, track *model.Track, opts SaveOptions) (string, error) {
	data, quality, err := m.trackBytes(ctx, track, opts.Bitrate, opts.OnProgress)
	if err != nil {
		return "", err
	}

	album, err := m.catalog.TrackAlbum(ctx, track)
	if err != nil {
		return "", err
	}

	cover := m.coverArt(ctx, album, opts)
	return m.saveTrackBytes(track, album, data, quality, cover, opts)
}

// SaveAlbum downloads every member track of an album to disk. The
// returned paths are positionally aligned with album track order.
//
// The failure policy matches Album: the first track error aborts the
// whole album by default, while SkipFailedTracks keeps going, leaves
// failed slots empty, and returns the collected failures joined. The
// playlist, when requested, lists only the files that made it.
func (m *Manager) SaveAlbum(ctx context.Context, album *model.Album, opts SaveOptions) ([]string, error) {
	tracks := m.catalog.AlbumTracks(album)
	paths := make([]string, len(tracks))

	// One fetch and resize, shared by every member track.
	cover := m.coverArt(ctx, album, opts)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)

	saveOne := func(track *model.Track) (string, error) {
		data, quality, err := m.trackBytes(gctx, track, opts.Bitrate, opts.OnProgress)
		if err != nil {
			return "", err
		}
		return m.saveTrackBytes(track, album, data, quality, cover, opts)
	}

	if !m.skipFailed {
		for i, track := range tracks {
			g.Go(func() error {
				path, err := saveOne(track)
				if err != nil {
					return fmt.Errorf("track %d (%s): %w", track.ID, track.Title, err)
				}
				paths[i] = path
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		m.writePlaylist(album, paths, opts)
		return paths, nil
	}

	failures := make([]error, len(tracks))
	for i, track := range tracks {
		g.Go(func() error {
			path, err := saveOne(track)
			if err != nil {
				failures[i] = fmt.Errorf("track %d (%s): %w", track.ID, track.Title, err)
				m.notify(ProgressEvent{
					Message: fmt.Sprintf("Error downloading %s: %v", track.Title, err),
					Level:   LevelError,
				})
				return nil
			}
			paths[i] = path
			return nil
		})
	}
	g.Wait()

	m.writePlaylist(album, paths, opts)

	return paths, errors.Join(failures...)
}

// SaveByURL downloads whatever a provider page URL points at and
// writes the files below opts.Dir. Track links produce one path,
// album links one per member track.
func (m *Manager) SaveByURL(ctx context.Context, rawURL string, opts SaveOptions) ([]string, error) {
	link, err := deezer.ParseLink(rawURL)
	if err != nil {
		return nil, err
	}

	switch link.Kind {
	case deezer.LinkTrack:
		track, err := m.catalog.Track(ctx, link.ID)
		if err != nil {
			return nil, err
		}
		path, err := m.SaveTrack(ctx, track, opts)
		if err != nil {
			return nil, err
		}
		return []string{path}, nil

	case deezer.LinkAlbum:
		album, err := m.catalog.Album(ctx, link.ID)
		if err != nil {
			return nil, err
		}
		return m.SaveAlbum(ctx, album, opts)

	default:
		return nil, &UnsupportedKindError{Kind: string(link.Kind)}
	}
}

// saveTrackBytes writes downloaded audio into the album directory,
// tags it, and renames it to its final name.
func (m *Manager) saveTrackBytes(track *model.Track, album *model.Album, data []byte, quality model.Bitrate, cover []byte, opts SaveOptions) (string, error) {
	dir := filepath.Join(opts.Dir, ioutils.AlbumDir(album.Artist, album.Title))
	if err := ioutils.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("create album directory: %w", err)
	}

	// The tagger dispatches on the extension, so the temporary name
	// keeps the real one.
	tmpPath := filepath.Join(dir, uuid.New().String()+quality.Ext())
	if err := ioutils.WriteFile(tmpPath, data); err != nil {
		return "", fmt.Errorf("write track file: %w", err)
	}

	if err := m.tagger.Tag(tmpPath, track, album, cover); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("tag %s: %w", track.Title, err)
	}

	finalPath := filepath.Join(dir, ioutils.TrackFileName(track.Number, track.Title, quality.Ext()))
	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("rename track file: %w", err)
	}

	m.notify(ProgressEvent{
		Message: fmt.Sprintf("Saved: %s", filepath.Base(finalPath)),
		Level:   LevelSuccess,
	})
	return finalPath, nil
}

// coverArt fetches and prepares the cover bytes embedded in tags. A
// missing cover degrades to untagged artwork instead of failing the
// download. Both branches end in JPEG, matching the MIME type the
// tagger declares.
func (m *Manager) coverArt(ctx context.Context, album *model.Album, opts SaveOptions) []byte {
	cover, err := album.Cover(ctx, m.http, opts.CoverSize)
	if err != nil {
		m.log.Warn("cover download failed",
			zap.Int64("album", album.ID),
			zap.Error(err))
		m.notify(ProgressEvent{
			Message: fmt.Sprintf("Error downloading cover for %s: %v", album.Title, err),
			Level:   LevelWarning,
		})
		return nil
	}

	if opts.CoverMaxEdge > 0 {
		if resized, err := m.images.ResizeImage(ctx, cover, opts.CoverMaxEdge, opts.CoverMaxEdge); err == nil {
			cover = resized
		}
	} else if converted, err := m.images.ConvertToJPEG(ctx, cover); err == nil {
		cover = converted
	}
	return cover
}

func (m *Manager) writePlaylist(album *model.Album, paths []string, opts SaveOptions) {
	if !opts.WritePlaylist {
		return
	}

	dir := filepath.Join(opts.Dir, ioutils.AlbumDir(album.Artist, album.Title))
	content := m.playlist.CreatePlaylist(album, paths)
	path := filepath.Join(dir, ioutils.SanitizeFileName(album.Title)+".m3u8")

	if err := ioutils.WriteFile(path, []byte(content)); err != nil {
		m.notify(ProgressEvent{
			Message: fmt.Sprintf("Error creating playlist: %v", err),
			Level:   LevelWarning,
		})
		return
	}
	m.notify(ProgressEvent{
		Message: fmt.Sprintf("Created playlist for %s", album.Title),
		Level:   LevelSuccess,
	})
}
