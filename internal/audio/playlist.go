package audio

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/handiism/deezer-downloader/internal/model"
)

// PlaylistCreator generates M3U playlists for saved albums.
//
// The playlist lists the given files in album track order: pass the
// saved file paths positionally aligned with the album's track list.
// Empty entries, from tracks that failed to download, are left out.
//
// Example:
//
//	creator := NewPlaylistCreator(true)
//	content := creator.CreatePlaylist(album, savedFiles)
//	os.WriteFile(filepath.Join(dir, "Discovery.m3u8"), []byte(content), 0644)
//
//	// Result:
//	// #EXTM3U
//	// #EXTINF:320,Daft Punk - One More Time
//	// 01 One More Time.mp3
type PlaylistCreator struct {
	extended bool // include #EXTINF lines with duration/title
}

// NewPlaylistCreator creates a PlaylistCreator. extended selects the
// extended M3U dialect with #EXTINF metadata lines.
func NewPlaylistCreator(extended bool) *PlaylistCreator {
	return &PlaylistCreator{extended: extended}
}

// CreatePlaylist renders playlist content for an album.
//
// files holds one saved path per album track, in track order; entries
// are reduced to their base name, so the playlist works when it sits
// in the same directory as the tracks.
func (p *PlaylistCreator) CreatePlaylist(album *model.Album, files []string) string {
	var sb strings.Builder

	if p.extended {
		sb.WriteString("#EXTM3U\n")
	}

	for i, file := range files {
		if file == "" {
			continue
		}
		if p.extended {
			title, duration := "", 0
			if i < len(album.Summaries) {
				title = album.Summaries[i].Title
				duration = album.Summaries[i].Duration
			}
			sb.WriteString(fmt.Sprintf("#EXTINF:%d,%s - %s\n", duration, album.Artist, title))
		}
		sb.WriteString(filepath.Base(file) + "\n")
	}

	return sb.String()
}
