package dto

import (
	"fmt"

	"github.com/handiism/deezer-downloader/internal/model"
)

// Track is the public API track payload. Full lookups and the member
// summaries embedded in album payloads share this shape; summaries
// simply omit several fields, which then stay at their zero value.
type Track struct {
	Error *ErrorPayload `json:"error"`

	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	TitleShort     string    `json:"title_short"`
	ISRC           string    `json:"isrc"`
	Link           string    `json:"link"`
	Duration       int       `json:"duration"`
	TrackPosition  int       `json:"track_position"`
	DiskNumber     int       `json:"disk_number"`
	Rank           int64     `json:"rank"`
	ReleaseDate    APIDate   `json:"release_date"`
	Preview        string    `json:"preview"`
	BPM            float64   `json:"bpm"`
	Gain           float64   `json:"gain"`
	ExplicitLyrics bool      `json:"explicit_lyrics"`
	Contributors   []Artist  `json:"contributors"`
	Artist         *Artist   `json:"artist"`
	Album          *AlbumRef `json:"album"`
}

// AlbumRef is the reduced album object nested in track payloads.
type AlbumRef struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	CoverMedium string `json:"cover_medium"`
}

// ToModel converts the payload to a model.Track.
func (t *Track) ToModel() *model.Track {
	track := &model.Track{
		ID:          t.ID,
		Title:       t.Title,
		TitleShort:  t.TitleShort,
		ISRC:        t.ISRC,
		Link:        t.Link,
		Duration:    t.Duration,
		Number:      t.TrackPosition,
		DiskNumber:  t.DiskNumber,
		Rank:        t.Rank,
		ReleaseDate: t.ReleaseDate.Time,
		PreviewLink: t.Preview,
		BPM:         t.BPM,
		ReplayGain:  FormatGain(t.Gain),
	}

	if t.Artist != nil {
		track.Artist = t.Artist.Name
	}
	if t.Album != nil {
		track.AlbumID = t.Album.ID
	}
	for _, contributor := range t.Contributors {
		track.Artists = append(track.Artists, contributor.Name)
	}

	return track
}

// ToSummary converts a member entry of an album payload to the reduced
// summary record carried on the album model.
func (t *Track) ToSummary() model.TrackSummary {
	summary := model.TrackSummary{
		ID:             t.ID,
		Title:          t.Title,
		TitleShort:     t.TitleShort,
		Duration:       t.Duration,
		Rank:           t.Rank,
		Link:           t.Link,
		Preview:        t.Preview,
		TrackPosition:  t.TrackPosition,
		DiskNumber:     t.DiskNumber,
		ExplicitLyrics: t.ExplicitLyrics,
	}
	if t.Artist != nil {
		summary.Artist = t.Artist.Name
	}
	return summary
}

// FormatGain renders a raw loudness value the way tags store it, e.g.
// a gain of -12.4 becomes "-6.00 dB".
func FormatGain(gain float64) string {
	return fmt.Sprintf("%.2f dB", (gain+18.4)*-1)
}
