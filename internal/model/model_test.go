package model

import (
	"context"
	"errors"
	"testing"
)

func TestParseBitrate(t *testing.T) {
	tests := []struct {
		input string
		want  Bitrate
	}{
		{"FLAC", BitrateFLAC},
		{"flac", BitrateFLAC},
		{" mp3_320 ", BitrateMP3320},
		{"MP3_256", BitrateMP3256},
		{"MP3_128", BitrateMP3128},
		{"ogg", Bitrate("OGG")},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseBitrate(tt.input); got != tt.want {
				t.Errorf("ParseBitrate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBitrate_Code(t *testing.T) {
	tests := []struct {
		bitrate Bitrate
		want    string
	}{
		{BitrateFLAC, "9"},
		{BitrateMP3320, "3"},
		{BitrateMP3256, "5"},
		{BitrateMP3128, "1"},
		{Bitrate("MP3"), "1"},
		{Bitrate(""), "1"},
	}

	for _, tt := range tests {
		t.Run(string(tt.bitrate), func(t *testing.T) {
			if got := tt.bitrate.Code(); got != tt.want {
				t.Errorf("Code() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBitrate_Next(t *testing.T) {
	// Walking down from FLAC must visit every quality exactly once and
	// stop at MP3_128.
	want := []Bitrate{BitrateMP3320, BitrateMP3256, BitrateMP3128}

	b := BitrateFLAC
	var chain []Bitrate
	for {
		next, ok := b.Next()
		if !ok {
			break
		}
		chain = append(chain, next)
		b = next
	}

	if len(chain) != len(want) {
		t.Fatalf("chain length = %d, want %d", len(chain), len(want))
	}
	for i := range want {
		if chain[i] != want[i] {
			t.Errorf("chain[%d] = %q, want %q", i, chain[i], want[i])
		}
	}

	if _, ok := BitrateMP3128.Next(); ok {
		t.Error("MP3_128 should be the end of the chain")
	}
	if _, ok := Bitrate("OGG").Next(); ok {
		t.Error("unknown bitrates should not continue the chain")
	}
}

func TestBitrate_Ext(t *testing.T) {
	if got := BitrateFLAC.Ext(); got != ".flac" {
		t.Errorf("FLAC ext = %q, want .flac", got)
	}
	if got := BitrateMP3320.Ext(); got != ".mp3" {
		t.Errorf("MP3_320 ext = %q, want .mp3", got)
	}
}

func TestParseCoverSize(t *testing.T) {
	tests := []struct {
		input string
		want  CoverSize
	}{
		{"small", CoverSmall},
		{"medium", CoverMedium},
		{"big", CoverBig},
		{"xl", CoverXL},
		{"huge", CoverXL},
		{"", CoverXL},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseCoverSize(tt.input); got != tt.want {
				t.Errorf("ParseCoverSize(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

type countingFetcher struct {
	calls int
	data  []byte
	err   error
}

func (f *countingFetcher) GetBytes(_ context.Context, _ string) ([]byte, error) {
	f.calls++
	return f.data, f.err
}

func TestAlbum_CoverCaching(t *testing.T) {
	album := &Album{
		ID:          302127,
		CoverXLLink: "https://cdn.example/xl.jpg",
	}
	fetcher := &countingFetcher{data: []byte("jpeg-bytes")}

	first, err := album.Cover(context.Background(), fetcher, CoverXL)
	if err != nil {
		t.Fatalf("first Cover() error: %v", err)
	}
	second, err := album.Cover(context.Background(), fetcher, CoverXL)
	if err != nil {
		t.Fatalf("second Cover() error: %v", err)
	}

	if string(first) != "jpeg-bytes" || string(second) != "jpeg-bytes" {
		t.Errorf("cover bytes = %q / %q, want jpeg-bytes", first, second)
	}
	if fetcher.calls != 1 {
		t.Errorf("fetcher called %d times, want 1", fetcher.calls)
	}
}

func TestAlbum_CoverMissingLink(t *testing.T) {
	album := &Album{ID: 1}
	fetcher := &countingFetcher{data: []byte("unused")}

	if _, err := album.Cover(context.Background(), fetcher, CoverSmall); err == nil {
		t.Fatal("expected error for missing cover link")
	}
	if fetcher.calls != 0 {
		t.Errorf("fetcher called %d times, want 0", fetcher.calls)
	}
}

func TestAlbum_CoverFetchError(t *testing.T) {
	album := &Album{ID: 1, CoverBigLink: "https://cdn.example/big.jpg"}
	wantErr := errors.New("boom")
	fetcher := &countingFetcher{err: wantErr}

	if _, err := album.Cover(context.Background(), fetcher, CoverBig); !errors.Is(err, wantErr) {
		t.Fatalf("Cover() error = %v, want wrapped %v", err, wantErr)
	}

	// Failed fetches must not poison the cache.
	fetcher.err = nil
	fetcher.data = []byte("ok")
	data, err := album.Cover(context.Background(), fetcher, CoverBig)
	if err != nil {
		t.Fatalf("retry Cover() error: %v", err)
	}
	if string(data) != "ok" {
		t.Errorf("retry cover = %q, want ok", data)
	}
}

func TestTrack_Hydrated(t *testing.T) {
	track := &Track{ID: 1}
	if track.Hydrated() {
		t.Error("fresh track should not be hydrated")
	}

	track.Extra = &ExtendedTags{MD5Origin: "abc", MediaVersion: "1"}
	if !track.Hydrated() {
		t.Error("track with Extra should be hydrated")
	}
}
