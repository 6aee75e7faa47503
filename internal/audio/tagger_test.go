package audio

import (
	"bytes"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bogem/id3v2"
	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"

	"github.com/handiism/deezer-downloader/internal/model"
)

func testTaggerTrack() *model.Track {
	return &model.Track{
		ID:          3135556,
		AlbumID:     302127,
		Artist:      "Daft Punk",
		BPM:         123,
		DiskNumber:  1,
		Duration:    320,
		ISRC:        "GBDUW0000059",
		Number:      1,
		ReplayGain:  "-6.00 dB",
		ReleaseDate: time.Date(2001, 3, 7, 0, 0, 0, 0, time.UTC),
		Title:       "One More Time",
		Extra: &model.ExtendedTags{
			Copyright: "2001 Daft Life Ltd.",
			Lyrics:    "One more time...",
		},
	}
}

func testTaggerAlbum() *model.Album {
	return &model.Album{
		ID:          302127,
		Artist:      "Daft Punk",
		Title:       "Discovery",
		Genres:      []string{"Dance", "Electro"},
		Label:       "Parlophone",
		TotalTracks: 14,
	}
}

func encodeCoverJPEG(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encoding cover fixture failed: %v", err)
	}
	return buf.Bytes()
}

// minimalFLAC builds the smallest container go-flac will parse: the
// stream marker, a lone zeroed STREAMINFO block flagged as last, and
// some stand-in frame data behind the frame sync code go-flac requires
// at the start of the audio stream.
func minimalFLAC() []byte {
	buf := []byte("fLaC")
	buf = append(buf, 0x80, 0x00, 0x00, 0x22)
	buf = append(buf, make([]byte, 34)...)
	buf = append(buf, 0xFF, 0xF8)
	buf = append(buf, []byte("fake flac audio data")...)
	return buf
}

func TestTagger_MP3(t *testing.T) {
	path := filepath.Join(t.TempDir(), "01 One More Time.mp3")
	if err := os.WriteFile(path, []byte("fake mp3 audio data"), 0644); err != nil {
		t.Fatalf("writing fixture failed: %v", err)
	}
	cover := encodeCoverJPEG(t)

	if err := NewTagger().Tag(path, testTaggerTrack(), testTaggerAlbum(), cover); err != nil {
		t.Fatalf("Tag failed: %v", err)
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("reopening tagged file failed: %v", err)
	}
	defer tag.Close()

	if got := tag.Title(); got != "One More Time" {
		t.Errorf("title = %q, want %q", got, "One More Time")
	}
	if got := tag.Album(); got != "Discovery" {
		t.Errorf("album = %q, want %q", got, "Discovery")
	}
	if got := tag.Artist(); got != "Daft Punk" {
		t.Errorf("artist = %q, want %q", got, "Daft Punk")
	}
	if got := tag.Genre(); got != "Dance, Electro" {
		t.Errorf("genre = %q, want %q", got, "Dance, Electro")
	}

	frames := []struct {
		id   string
		want string
	}{
		{"TPE2", "Daft Punk"},
		{"TBPM", "123"},
		{"TCOP", "2001 Daft Life Ltd."},
		{"TDAT", "0703"},
		{"TYER", "2001"},
		{"TPOS", "1"},
		{"TPUB", "Parlophone"},
		{"TRCK", "1/14"},
		{"TSRC", "GBDUW0000059"},
	}
	for _, tt := range frames {
		if got := tag.GetTextFrame(tt.id).Text; got != tt.want {
			t.Errorf("%s = %q, want %q", tt.id, got, tt.want)
		}
	}

	var gain string
	for _, frame := range tag.GetFrames(tag.CommonID("User defined text information frame")) {
		udt, ok := frame.(id3v2.UserDefinedTextFrame)
		if ok && udt.Description == "replaygain_track_gain" {
			gain = udt.Value
		}
	}
	if gain != "-6.00 dB" {
		t.Errorf("replaygain_track_gain = %q, want %q", gain, "-6.00 dB")
	}

	lyricsFrames := tag.GetFrames(tag.CommonID("Unsynchronised lyrics/text transcription"))
	if len(lyricsFrames) != 1 {
		t.Fatalf("got %d lyrics frames, want 1", len(lyricsFrames))
	}
	uslt, ok := lyricsFrames[0].(id3v2.UnsynchronisedLyricsFrame)
	if !ok {
		t.Fatalf("unexpected lyrics frame type %T", lyricsFrames[0])
	}
	if uslt.Lyrics != "One more time..." {
		t.Errorf("lyrics = %q, want %q", uslt.Lyrics, "One more time...")
	}

	picFrames := tag.GetFrames(tag.CommonID("Attached picture"))
	if len(picFrames) != 1 {
		t.Fatalf("got %d picture frames, want 1", len(picFrames))
	}
	pic, ok := picFrames[0].(id3v2.PictureFrame)
	if !ok {
		t.Fatalf("unexpected picture frame type %T", picFrames[0])
	}
	if pic.MimeType != "image/jpeg" {
		t.Errorf("picture mime = %q, want %q", pic.MimeType, "image/jpeg")
	}
	if !bytes.Equal(pic.Picture, cover) {
		t.Error("embedded cover differs from input")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading tagged file failed: %v", err)
	}
	if !bytes.Contains(data, []byte("fake mp3 audio data")) {
		t.Error("audio data lost while tagging")
	}
}

func TestTagger_MP3OptionalFieldsSkipped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "01 Untitled.mp3")
	if err := os.WriteFile(path, []byte("fake mp3 audio data"), 0644); err != nil {
		t.Fatalf("writing fixture failed: %v", err)
	}

	track := &model.Track{ID: 1, Artist: "Unknown", Title: "Untitled", Number: 1}
	album := &model.Album{ID: 2, Artist: "Unknown", Title: "Untitled Album", TotalTracks: 1}

	if err := NewTagger().Tag(path, track, album, nil); err != nil {
		t.Fatalf("Tag failed: %v", err)
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("reopening tagged file failed: %v", err)
	}
	defer tag.Close()

	for _, id := range []string{"TBPM", "TCOP", "TDAT", "TYER", "TPUB", "TSRC"} {
		if got := tag.GetTextFrame(id).Text; got != "" {
			t.Errorf("%s = %q, want absent", id, got)
		}
	}
	if got := tag.GetFrames(tag.CommonID("Unsynchronised lyrics/text transcription")); len(got) != 0 {
		t.Errorf("got %d lyrics frames, want 0", len(got))
	}
	if got := tag.GetFrames(tag.CommonID("Attached picture")); len(got) != 0 {
		t.Errorf("got %d picture frames, want 0", len(got))
	}
	if got := tag.GetTextFrame("TRCK").Text; got != "1/1" {
		t.Errorf("TRCK = %q, want %q", got, "1/1")
	}
}

func TestTagger_FLAC(t *testing.T) {
	path := filepath.Join(t.TempDir(), "01 One More Time.flac")
	if err := os.WriteFile(path, minimalFLAC(), 0644); err != nil {
		t.Fatalf("writing fixture failed: %v", err)
	}
	cover := encodeCoverJPEG(t)

	if err := NewTagger().Tag(path, testTaggerTrack(), testTaggerAlbum(), cover); err != nil {
		t.Fatalf("Tag failed: %v", err)
	}

	f, err := flac.ParseFile(path)
	if err != nil {
		t.Fatalf("reopening tagged file failed: %v", err)
	}

	var cmt *flacvorbis.MetaDataBlockVorbisComment
	pictures := 0
	for _, block := range f.Meta {
		switch block.Type {
		case flac.VorbisComment:
			cmt, err = flacvorbis.ParseFromMetaDataBlock(*block)
			if err != nil {
				t.Fatalf("parsing vorbis comment failed: %v", err)
			}
		case flac.Picture:
			pictures++
			pic, err := flacpicture.ParseFromMetaDataBlock(*block)
			if err != nil {
				t.Fatalf("parsing picture block failed: %v", err)
			}
			if pic.MIME != "image/jpeg" {
				t.Errorf("picture mime = %q, want %q", pic.MIME, "image/jpeg")
			}
			if !bytes.Equal(pic.ImageData, cover) {
				t.Error("embedded cover differs from input")
			}
		}
	}
	if cmt == nil {
		t.Fatal("no vorbis comment block written")
	}
	if pictures != 1 {
		t.Errorf("got %d picture blocks, want 1", pictures)
	}

	fields := []struct {
		field string
		want  []string
	}{
		{flacvorbis.FIELD_TITLE, []string{"One More Time"}},
		{flacvorbis.FIELD_ALBUM, []string{"Discovery"}},
		{"ALBUMARTIST", []string{"Daft Punk"}},
		{flacvorbis.FIELD_ARTIST, []string{"Daft Punk"}},
		{"BPM", []string{"123"}},
		{flacvorbis.FIELD_COPYRIGHT, []string{"2001 Daft Life Ltd."}},
		{flacvorbis.FIELD_DATE, []string{"2001-03-07"}},
		{"YEAR", []string{"2001"}},
		{flacvorbis.FIELD_GENRE, []string{"Dance", "Electro"}},
		{flacvorbis.FIELD_ISRC, []string{"GBDUW0000059"}},
		{"LYRICS", []string{"One more time..."}},
		{"REPLAYGAIN_TRACK_GAIN", []string{"-6.00 dB"}},
		{flacvorbis.FIELD_TRACKNUMBER, []string{"1"}},
	}
	for _, tt := range fields {
		got, err := cmt.Get(tt.field)
		if err != nil {
			t.Errorf("reading %s failed: %v", tt.field, err)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("%s = %v, want %v", tt.field, got, tt.want)
			continue
		}
		for i := range tt.want {
			if got[i] != tt.want[i] {
				t.Errorf("%s[%d] = %q, want %q", tt.field, i, got[i], tt.want[i])
			}
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading tagged file failed: %v", err)
	}
	if !bytes.Contains(data, []byte("fake flac audio data")) {
		t.Error("audio data lost while tagging")
	}
}

func TestTagger_FLACRetagReplacesBlocks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "01 One More Time.flac")
	if err := os.WriteFile(path, minimalFLAC(), 0644); err != nil {
		t.Fatalf("writing fixture failed: %v", err)
	}
	cover := encodeCoverJPEG(t)

	tagger := NewTagger()
	for i := 0; i < 2; i++ {
		if err := tagger.Tag(path, testTaggerTrack(), testTaggerAlbum(), cover); err != nil {
			t.Fatalf("Tag run %d failed: %v", i+1, err)
		}
	}

	f, err := flac.ParseFile(path)
	if err != nil {
		t.Fatalf("reopening tagged file failed: %v", err)
	}

	comments, pictures := 0, 0
	for _, block := range f.Meta {
		switch block.Type {
		case flac.VorbisComment:
			comments++
		case flac.Picture:
			pictures++
		}
	}
	if comments != 1 {
		t.Errorf("got %d vorbis comment blocks, want 1", comments)
	}
	if pictures != 1 {
		t.Errorf("got %d picture blocks, want 1", pictures)
	}
}

func TestTagger_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "01 One More Time.wav")
	if err := os.WriteFile(path, []byte("riff"), 0644); err != nil {
		t.Fatalf("writing fixture failed: %v", err)
	}

	err := NewTagger().Tag(path, testTaggerTrack(), testTaggerAlbum(), nil)
	if err == nil {
		t.Fatal("expected error for unsupported extension, got nil")
	}
}
