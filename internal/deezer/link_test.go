package deezer

import (
	"errors"
	"testing"
)

func TestParseLink(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantKind LinkKind
		wantID   int64
		wantErr  bool
	}{
		{
			name:     "track with www",
			url:      "https://www.deezer.com/track/3135556",
			wantKind: LinkTrack,
			wantID:   3135556,
		},
		{
			name:     "album without www",
			url:      "https://deezer.com/album/302127",
			wantKind: LinkAlbum,
			wantID:   302127,
		},
		{
			name:     "locale segment",
			url:      "https://www.deezer.com/en/track/3135556",
			wantKind: LinkTrack,
			wantID:   3135556,
		},
		{
			name:     "plain http with locale",
			url:      "http://www.deezer.com/fr/album/302127",
			wantKind: LinkAlbum,
			wantID:   302127,
		},
		{
			name:     "playlist kind parses",
			url:      "https://www.deezer.com/playlist/1234567",
			wantKind: LinkKind("playlist"),
			wantID:   1234567,
		},
		{
			name:     "query string ignored",
			url:      "https://www.deezer.com/track/3135556?utm_source=share",
			wantKind: LinkTrack,
			wantID:   3135556,
		},
		{
			name:     "trailing slash ignored",
			url:      "https://www.deezer.com/album/302127/",
			wantKind: LinkAlbum,
			wantID:   302127,
		},
		{
			name:    "wrong host",
			url:     "https://example.com/track/3135556",
			wantErr: true,
		},
		{
			name:    "missing id",
			url:     "https://www.deezer.com/track/",
			wantErr: true,
		},
		{
			name:    "id overflows",
			url:     "https://www.deezer.com/track/99999999999999999999",
			wantErr: true,
		},
		{
			name:    "not a url",
			url:     "three dog night",
			wantErr: true,
		},
		{
			name:    "empty string",
			url:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link, err := ParseLink(tt.url)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.url)
				}
				var invalid *InvalidURLError
				if !errors.As(err, &invalid) {
					t.Errorf("error type = %T, want *InvalidURLError", err)
				} else if invalid.URL != tt.url {
					t.Errorf("error URL = %q, want %q", invalid.URL, tt.url)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if link.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", link.Kind, tt.wantKind)
			}
			if link.ID != tt.wantID {
				t.Errorf("ID = %d, want %d", link.ID, tt.wantID)
			}
		})
	}
}
