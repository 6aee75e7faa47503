// Package download provides the download orchestration logic for
// fetching tracks and albums from Deezer.
//
// # Manager
//
// The Manager coordinates the entire download process:
//
//  1. Parse input URLs
//  2. Resolve track and album metadata through the catalog
//  3. Compute the CDN stream location and fetch the audio
//  4. Step down through lower bitrates when a stream is missing
//  5. Tag files with ID3 or Vorbis metadata and embedded cover art
//  6. Generate playlists (optional)
//
// # Basic Usage
//
//	session := deezer.NewSession(arl, nil)
//	manager := download.NewManager(session, &download.Options{
//	    OnEvent: func(event download.ProgressEvent) {
//	        fmt.Println(event.Message)
//	    },
//	})
//
//	// In memory
//	data, err := manager.ByURL(ctx, "https://www.deezer.com/track/3135556", model.BitrateFLAC, nil)
//
//	// On disk, tagged and renamed
//	paths, err := manager.SaveByURL(ctx, "https://www.deezer.com/album/302127", download.SaveOptions{
//	    Dir:     "downloads",
//	    Bitrate: model.BitrateMP3320,
//	})
//
// # Concurrency
//
// Album downloads fetch member tracks in parallel, bounded by
// Options.Concurrency. Results and saved paths stay positionally
// aligned with album track order no matter which download finishes
// first.
//
// # Progress Tracking
//
// Coarse progress is reported via a callback that receives
// ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// Byte-level progress for individual track bodies is reported through
// the per-call ProgressFunc.
//
// # Bitrate Fallback
//
// When the CDN declares an empty stream for the requested quality the
// Manager steps down FLAC, MP3 320, MP3 256, then MP3 128. A track
// with no stream at any quality fails with *DownloadError.
package download
