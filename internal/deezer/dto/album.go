package dto

import "github.com/handiism/deezer-downloader/internal/model"

// Album is the public API album payload.
type Album struct {
	Error *ErrorPayload `json:"error"`

	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	UPC         string    `json:"upc"`
	Link        string    `json:"link"`
	CoverSmall  string    `json:"cover_small"`
	CoverMedium string    `json:"cover_medium"`
	CoverBig    string    `json:"cover_big"`
	CoverXL     string    `json:"cover_xl"`
	Genres      GenreList `json:"genres"`
	Label       string    `json:"label"`
	TotalTracks int       `json:"nb_tracks"`
	Duration    int       `json:"duration"`
	ReleaseDate APIDate   `json:"release_date"`
	RecordType  string    `json:"record_type"`
	Artist      *Artist   `json:"artist"`
	Tracks      TrackList `json:"tracks"`
}

// GenreList wraps the genre array envelope.
type GenreList struct {
	Data []Genre `json:"data"`
}

// Genre is one genre entry.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TrackList wraps the member-track array envelope.
type TrackList struct {
	Data []Track `json:"data"`
}

// ToModel converts the payload to a model.Album, including the member
// track summaries used for lazy track materialization.
func (a *Album) ToModel() *model.Album {
	album := &model.Album{
		ID:              a.ID,
		Title:           a.Title,
		UPC:             a.UPC,
		Link:            a.Link,
		CoverSmallLink:  a.CoverSmall,
		CoverMediumLink: a.CoverMedium,
		CoverBigLink:    a.CoverBig,
		CoverXLLink:     a.CoverXL,
		Label:           a.Label,
		TotalTracks:     a.TotalTracks,
		Duration:        a.Duration,
		ReleaseDate:     a.ReleaseDate.Time,
		RecordType:      a.RecordType,
	}

	if a.Artist != nil {
		album.Artist = a.Artist.Name
	}
	for _, genre := range a.Genres.Data {
		album.Genres = append(album.Genres, genre.Name)
	}
	for i := range a.Tracks.Data {
		album.Summaries = append(album.Summaries, a.Tracks.Data[i].ToSummary())
	}

	return album
}
