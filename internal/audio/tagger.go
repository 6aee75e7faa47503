package audio

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bogem/id3v2"
	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"

	"github.com/handiism/deezer-downloader/internal/model"
)

// Tagger writes provider metadata into downloaded audio files.
//
// The container format is picked by file extension: .mp3 gets ID3v2
// text frames, .flac gets a vorbis comment block. Existing metadata is
// replaced, matching a fresh download from the provider.
//
// Example:
//
//	tagger := NewTagger()
//	err := tagger.Tag("/music/Daft Punk/Discovery/04 Harder.mp3", track, album, coverJPEG)
type Tagger struct{}

// NewTagger creates a Tagger.
func NewTagger() *Tagger {
	return &Tagger{}
}

// Tag writes full metadata for a track into the file at path. cover,
// when non-nil, is embedded as the front-cover picture and must be
// JPEG data. Lyrics and copyright come from the track's extended block
// and are skipped when the track was never hydrated.
func (t *Tagger) Tag(path string, track *model.Track, album *model.Album, cover []byte) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return t.tagMP3(path, track, album, cover)
	case ".flac":
		return t.tagFLAC(path, track, album, cover)
	default:
		return fmt.Errorf("audio: no tagger for %q files", filepath.Ext(path))
	}
}

func (t *Tagger) tagMP3(path string, track *model.Track, album *model.Album, cover []byte) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open mp3 tags: %w", err)
	}
	defer tag.Close()

	copyright, lyrics := extendedFields(track)

	tag.SetAlbum(album.Title)
	tag.SetTitle(track.Title)
	tag.SetArtist(track.Artist)
	tag.AddTextFrame("TPE2", id3v2.EncodingUTF8, album.Artist)

	if track.BPM > 0 {
		tag.AddTextFrame("TBPM", id3v2.EncodingUTF8, formatBPM(track.BPM))
	}
	if len(album.Genres) > 0 {
		tag.SetGenre(strings.Join(album.Genres, ", "))
	}
	if copyright != "" {
		tag.AddTextFrame("TCOP", id3v2.EncodingUTF8, copyright)
	}
	if !track.ReleaseDate.IsZero() {
		tag.AddTextFrame("TDAT", id3v2.EncodingUTF8, track.ReleaseDate.Format("0201"))
		tag.AddTextFrame("TYER", id3v2.EncodingUTF8, strconv.Itoa(track.ReleaseDate.Year()))
	}
	if track.DiskNumber > 0 {
		tag.AddTextFrame("TPOS", id3v2.EncodingUTF8, strconv.Itoa(track.DiskNumber))
	}
	if album.Label != "" {
		tag.AddTextFrame("TPUB", id3v2.EncodingUTF8, album.Label)
	}
	tag.AddTextFrame("TRCK", id3v2.EncodingUTF8, fmt.Sprintf("%d/%d", track.Number, album.TotalTracks))
	if track.ISRC != "" {
		tag.AddTextFrame("TSRC", id3v2.EncodingUTF8, track.ISRC)
	}
	if track.ReplayGain != "" {
		tag.AddUserDefinedTextFrame(id3v2.UserDefinedTextFrame{
			Encoding:    id3v2.EncodingUTF8,
			Description: "replaygain_track_gain",
			Value:       track.ReplayGain,
		})
	}
	if lyrics != "" {
		tag.AddUnsynchronisedLyricsFrame(id3v2.UnsynchronisedLyricsFrame{
			Encoding:          id3v2.EncodingUTF8,
			Language:          "eng",
			ContentDescriptor: "",
			Lyrics:            lyrics,
		})
	}

	if cover != nil {
		tag.DeleteFrames(tag.CommonID("Attached picture"))
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    "image/jpeg",
			PictureType: id3v2.PTFrontCover,
			Description: "Cover",
			Picture:     cover,
		})
	}

	return tag.Save()
}

func (t *Tagger) tagFLAC(path string, track *model.Track, album *model.Album, cover []byte) error {
	f, err := flac.ParseFile(path)
	if err != nil {
		return fmt.Errorf("parse flac: %w", err)
	}

	copyright, lyrics := extendedFields(track)

	cmt := flacvorbis.New()
	add := func(field, value string) {
		if value != "" {
			_ = cmt.Add(field, value)
		}
	}
	add(flacvorbis.FIELD_ALBUM, album.Title)
	add("ALBUMARTIST", album.Artist)
	add(flacvorbis.FIELD_ARTIST, track.Artist)
	if track.BPM > 0 {
		add("BPM", formatBPM(track.BPM))
	}
	add(flacvorbis.FIELD_COPYRIGHT, copyright)
	if !track.ReleaseDate.IsZero() {
		add(flacvorbis.FIELD_DATE, track.ReleaseDate.Format("2006-01-02"))
		add("YEAR", strconv.Itoa(track.ReleaseDate.Year()))
	}
	for _, genre := range album.Genres {
		_ = cmt.Add(flacvorbis.FIELD_GENRE, genre)
	}
	add(flacvorbis.FIELD_ISRC, track.ISRC)
	add("LYRICS", lyrics)
	add("REPLAYGAIN_TRACK_GAIN", track.ReplayGain)
	add(flacvorbis.FIELD_TITLE, track.Title)
	add(flacvorbis.FIELD_TRACKNUMBER, strconv.Itoa(track.Number))

	cmtBlock := cmt.Marshal()
	replaced := false
	for i, block := range f.Meta {
		if block.Type == flac.VorbisComment {
			f.Meta[i] = &cmtBlock
			replaced = true
			break
		}
	}
	if !replaced {
		f.Meta = append(f.Meta, &cmtBlock)
	}

	if cover != nil {
		picture, err := flacpicture.NewFromImageData(flacpicture.PictureTypeFrontCover, "Cover", cover, "image/jpeg")
		if err != nil {
			return fmt.Errorf("build flac picture: %w", err)
		}
		pictureBlock := picture.Marshal()

		for i := len(f.Meta) - 1; i >= 0; i-- {
			if f.Meta[i].Type == flac.Picture {
				f.Meta = append(f.Meta[:i], f.Meta[i+1:]...)
			}
		}
		f.Meta = append(f.Meta, &pictureBlock)
	}

	return f.Save(path)
}

func extendedFields(track *model.Track) (copyright, lyrics string) {
	if track.Extra == nil {
		return "", ""
	}
	return track.Extra.Copyright, track.Extra.Lyrics
}

func formatBPM(bpm float64) string {
	return strconv.FormatFloat(bpm, 'f', -1, 64)
}
