package model

import "time"

// Track represents a single Deezer track.
//
// Core fields are populated from one public API lookup (or from the
// track summaries embedded in an album payload, in which case some of
// them stay at their zero value until a full lookup happens).
//
// Extended fields live in Extra and are only available from the
// authenticated page lookup. Extra is nil until that lookup has run,
// which is a different state than an empty value: a hydrated track with
// no lyrics has a non-nil Extra whose lyric fields are empty.
//
// Example:
//
//	track, _ := catalog.Track(ctx, 3135556)
//	fmt.Println(track.Artist, "-", track.Title)
//	if track.Extra == nil {
//	    // stream URLs cannot be derived yet
//	}
type Track struct {
	// ID is the provider-assigned track ID. Immutable once set.
	ID int64

	// AlbumID is the ID of the album this track belongs to.
	AlbumID int64

	// Artist is the main artist name.
	Artist string

	// Artists lists every contributing artist, in provider order.
	Artists []string

	// BPM is the beats per minute, zero when the provider has none.
	BPM float64

	// DiskNumber is the disc the track appears on (1-indexed).
	DiskNumber int

	// Duration is the track length in seconds.
	Duration int

	// ISRC is the International Standard Recording Code.
	ISRC string

	// Link is the canonical Deezer page URL for the track.
	Link string

	// Number is the position of the track on its disc (1-indexed).
	Number int

	// PreviewLink points to a 30 second MP3 preview.
	PreviewLink string

	// Rank is the Deezer popularity rank.
	Rank int64

	// ReplayGain is the track loudness, pre-formatted for tagging
	// (for example "-6.00 dB").
	ReplayGain string

	// ReleaseDate is the track release date. Zero when the provider
	// sent no parseable date.
	ReleaseDate time.Time

	// Title is the full track title.
	Title string

	// TitleShort is the title without version/remix suffixes.
	TitleShort string

	// Extra holds the fields that require the authenticated page
	// lookup. nil until hydrated; a hydration replaces the whole
	// block.
	Extra *ExtendedTags
}

// Hydrated reports whether the extended tag block has been fetched.
// Stream URL derivation requires a hydrated track.
func (t *Track) Hydrated() bool {
	return t.Extra != nil
}

// ExtendedTags carries the track fields only served by the
// authenticated page lookup.
type ExtendedTags struct {
	// MD5Origin is the origin content hash used in stream URL
	// derivation.
	MD5Origin string

	// MediaVersion is the media revision counter, also part of the
	// stream URL derivation input.
	MediaVersion string

	// Composer and Author come from the contributor mapping. Both are
	// nil when the provider delivered the contributors as a bare list
	// instead of a mapping.
	Composer []string
	Author   []string

	// Copyright is the phonographic copyright line.
	Copyright string

	// Lyrics is the plain lyrics text, empty when the track has none.
	Lyrics string

	// LyricsSync holds time-synchronized lyric lines, nil when the
	// track has no lyrics section.
	LyricsSync []SyncedLyric

	// LyricsCopyright is the copyright line of the lyrics themselves.
	LyricsCopyright string

	// LyricsWriters lists the lyric writers, split from the provider's
	// comma separated string. nil when the track has no lyrics
	// section.
	LyricsWriters []string
}

// SyncedLyric is one line of time-synchronized lyrics. The provider
// serves the numeric fields as strings and they are kept verbatim.
type SyncedLyric struct {
	// Timestamp is the LRC style timestamp, e.g. "[00:12.340]".
	Timestamp string

	// Milliseconds is the line offset from the track start.
	Milliseconds string

	// Duration is how long the line is displayed.
	Duration string

	// Line is the lyric text.
	Line string
}
