package model

import "strings"

// Bitrate identifies a download quality offered by the provider.
//
// When a track is unavailable at the requested bitrate the download
// path walks the fixed degradation chain
// FLAC → MP3_320 → MP3_256 → MP3_128 one step at a time.
type Bitrate string

const (
	BitrateFLAC   Bitrate = "FLAC"
	BitrateMP3320 Bitrate = "MP3_320"
	BitrateMP3256 Bitrate = "MP3_256"
	BitrateMP3128 Bitrate = "MP3_128"
)

// ParseBitrate normalizes a user supplied bitrate label. Unrecognized
// labels are kept verbatim; they derive stream URLs with the lowest
// quality code.
func ParseBitrate(s string) Bitrate {
	return Bitrate(strings.ToUpper(strings.TrimSpace(s)))
}

// Code returns the quality selector embedded in stream URLs. Any label
// outside the known set maps to the MP3_128 code.
func (b Bitrate) Code() string {
	switch b {
	case BitrateFLAC:
		return "9"
	case BitrateMP3320:
		return "3"
	case BitrateMP3256:
		return "5"
	default:
		return "1"
	}
}

// Next returns the bitrate one step down the degradation chain. The
// second return is false at the bottom of the chain, including for
// unrecognized labels, which already download at the lowest quality.
func (b Bitrate) Next() (Bitrate, bool) {
	switch b {
	case BitrateFLAC:
		return BitrateMP3320, true
	case BitrateMP3320:
		return BitrateMP3256, true
	case BitrateMP3256:
		return BitrateMP3128, true
	default:
		return b, false
	}
}

// Ext returns the container file extension for audio delivered at this
// bitrate, including the dot.
func (b Bitrate) Ext() string {
	if b == BitrateFLAC {
		return ".flac"
	}
	return ".mp3"
}

func (b Bitrate) String() string {
	return string(b)
}
