package download

import "fmt"

// DownloadError is returned when a track has no usable stream at the
// requested bitrate or any fallback below it.
//
// This typically occurs when:
//   - The track is not licensed for the account's region
//   - The account tier does not include the requested quality and the
//     lower qualities are also unavailable
//   - The track was pulled from the catalog after indexing
type DownloadError struct {
	// TrackID is the track that could not be downloaded.
	TrackID int64
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download: no stream available for track %d at any bitrate", e.TrackID)
}

// UnsupportedKindError is returned for well-formed provider links
// whose kind has no download path, such as playlists or artist pages.
type UnsupportedKindError struct {
	// Kind is the link kind segment, e.g. "playlist".
	Kind string
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("download: unsupported link kind %q", e.Kind)
}
