package model

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Album represents a Deezer album with its metadata and the member
// track summaries embedded in the album payload.
//
// Cover art is linked at four resolutions. The bytes of each size are
// fetched lazily on first access and cached on the instance, so
// repeated tagging of an album's tracks downloads the artwork once.
//
// Example:
//
//	album, _ := catalog.Album(ctx, 302127)
//	cover, _ := album.Cover(ctx, httpClient, model.CoverXL)
type Album struct {
	// ID is the provider-assigned album ID. Immutable once set.
	ID int64

	// Artist is the main album artist name.
	Artist string

	// Title is the album title.
	Title string

	// Cover links at the four resolutions the provider serves.
	CoverSmallLink  string
	CoverMediumLink string
	CoverBigLink    string
	CoverXLLink     string

	// Duration is the total album length in seconds.
	Duration int

	// Genres lists the album genre names.
	Genres []string

	// Label is the record label.
	Label string

	// Link is the canonical Deezer page URL for the album.
	Link string

	// RecordType distinguishes album/single/ep releases.
	RecordType string

	// ReleaseDate is the album release date.
	ReleaseDate time.Time

	// TotalTracks is the number of tracks on the album.
	TotalTracks int

	// UPC is the Universal Product Code.
	UPC string

	// Summaries holds the raw member-track summaries from the album
	// payload. Track records are materialized from these on demand,
	// without further network calls.
	Summaries []TrackSummary

	coverMu sync.Mutex
	covers  map[CoverSize][]byte
}

// TrackSummary is the reduced track record embedded in album payloads.
// Fields the provider omits from summaries stay at their zero value.
type TrackSummary struct {
	ID             int64
	Title          string
	TitleShort     string
	Artist         string
	Duration       int
	Rank           int64
	Link           string
	Preview        string
	TrackPosition  int
	DiskNumber     int
	ExplicitLyrics bool
}

// Fetcher retrieves the raw bytes behind a URL. The shared HTTP client
// satisfies it; tests can substitute fixtures.
type Fetcher interface {
	GetBytes(ctx context.Context, url string) ([]byte, error)
}

// CoverSize selects one of the four cover art resolutions.
type CoverSize int

const (
	CoverSmall CoverSize = iota
	CoverMedium
	CoverBig
	CoverXL
)

// String returns the provider's name for the size, which is also what
// the settings file stores.
func (cs CoverSize) String() string {
	switch cs {
	case CoverSmall:
		return "small"
	case CoverMedium:
		return "medium"
	case CoverBig:
		return "big"
	default:
		return "xl"
	}
}

// ParseCoverSize maps a settings value to a CoverSize. Unknown values
// fall back to CoverXL.
func ParseCoverSize(s string) CoverSize {
	switch s {
	case "small":
		return CoverSmall
	case "medium":
		return CoverMedium
	case "big":
		return CoverBig
	default:
		return CoverXL
	}
}

// CoverLink returns the URL of the cover at the requested size.
func (a *Album) CoverLink(size CoverSize) string {
	switch size {
	case CoverSmall:
		return a.CoverSmallLink
	case CoverMedium:
		return a.CoverMediumLink
	case CoverBig:
		return a.CoverBigLink
	default:
		return a.CoverXLLink
	}
}

// Cover returns the cover art bytes at the requested size, fetching
// them on first access and serving the cached copy afterwards. The
// cached bytes are never replaced.
func (a *Album) Cover(ctx context.Context, f Fetcher, size CoverSize) ([]byte, error) {
	a.coverMu.Lock()
	defer a.coverMu.Unlock()

	if data, ok := a.covers[size]; ok {
		return data, nil
	}

	link := a.CoverLink(size)
	if link == "" {
		return nil, fmt.Errorf("album %d has no %s cover", a.ID, size)
	}

	data, err := f.GetBytes(ctx, link)
	if err != nil {
		return nil, fmt.Errorf("fetch %s cover: %w", size, err)
	}

	if a.covers == nil {
		a.covers = make(map[CoverSize][]byte)
	}
	a.covers[size] = data

	return data, nil
}
