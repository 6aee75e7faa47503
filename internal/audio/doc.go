// Package audio provides audio file manipulation services including
// metadata tagging and playlist generation.
//
// # Tagging
//
// Use the Tagger to write provider metadata into downloaded files:
//
//	tagger := audio.NewTagger()
//	err := tagger.Tag(path, track, album, coverBytes)
//
// MP3 files get ID3v2 frames:
//   - Title, Artist, Album Artist, Album, Genre, Label
//   - Track Number (n/total), Disc Number, Year, Release Date, BPM, ISRC
//   - Copyright, replay gain, Lyrics (when hydrated)
//   - Cover Art (attached picture)
//
// FLAC files get the equivalent vorbis comments plus a front-cover
// picture block; existing comment and picture blocks are replaced.
//
// # Playlist Generation
//
// Generate an M3U playlist for a saved album:
//
//	creator := audio.NewPlaylistCreator(true) // extended M3U
//	content := creator.CreatePlaylist(album, savedFiles)
//	os.WriteFile(playlistPath, []byte(content), 0644)
package audio
