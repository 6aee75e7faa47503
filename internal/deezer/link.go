package deezer

import (
	"regexp"
	"strconv"
)

// LinkKind is the entity kind segment of a Deezer page URL.
type LinkKind string

// Link kinds with a download path. Other kinds (playlist, artist, ...)
// parse fine but are rejected by the download dispatcher.
const (
	LinkTrack LinkKind = "track"
	LinkAlbum LinkKind = "album"
)

// Link is the parsed form of a Deezer page URL.
type Link struct {
	// Kind is the entity kind segment, e.g. "track" or "playlist".
	Kind LinkKind

	// ID is the numeric entity ID.
	ID int64
}

// linkPattern matches Deezer page URLs with an optional www prefix and
// an optional locale segment, e.g.
// https://www.deezer.com/en/track/3135556.
var linkPattern = regexp.MustCompile(`^https?://(?:www\.)?deezer\.com/(?:\w+/)?(\w+)/(\d+)`)

// ParseLink extracts the entity kind and ID from a Deezer page URL.
//
// Returns *InvalidURLError when the string does not match the link
// shape. The kind is not validated here; callers decide which kinds
// they support.
//
// Example:
//
//	link, err := deezer.ParseLink("https://www.deezer.com/en/album/302127")
//	// link.Kind == deezer.LinkAlbum, link.ID == 302127
func ParseLink(rawURL string) (Link, error) {
	m := linkPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return Link{}, &InvalidURLError{URL: rawURL}
	}

	id, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return Link{}, &InvalidURLError{URL: rawURL}
	}

	return Link{Kind: LinkKind(m[1]), ID: id}, nil
}
