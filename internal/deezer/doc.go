// Package deezer talks to the Deezer web API: the documented public
// endpoints and the private gateway the web player uses.
//
// The package handles three main use cases:
//
//  1. Maintaining an authenticated gateway session from an arl cookie
//  2. Resolving tracks and albums into model types, with hydration for
//     the tag and stream fields only the gateway exposes
//  3. Computing the encrypted CDN stream URL for a track
//
// # Sessions
//
// A Session wraps the arl cookie and keeps the short-lived gateway
// token fresh behind the scenes:
//
//	session := deezer.NewSession(arl, nil)
//	if err := session.Refresh(ctx); err != nil {
//	    log.Fatal(err) // deezer.ErrLoginFailed when the cookie is stale
//	}
//
// # Resolving Content
//
// A Catalog resolves IDs into canonical instances and caches them, so a
// track reached through two albums is the same value:
//
//	catalog := deezer.NewCatalog(session)
//	track, err := catalog.Track(ctx, 3135556)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := catalog.Hydrate(ctx, track); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%s (md5 origin %s)\n", track.Title, track.Extra.MD5Origin)
//
// # Stream URLs
//
// With a hydrated track, StreamURL derives the CDN location for a given
// quality code:
//
//	url, err := deezer.StreamURL(track.Extra.MD5Origin, track.Extra.MediaVersion,
//	    track.ID, model.BitrateFLAC.Code())
//
// # Gateway Protocol
//
// The gateway is a single POST endpoint dispatched by a method query
// parameter. Every call carries the arl cookie and a CSRF token
// obtained from deezer.getUserData; responses wrap their payload in a
// results member and report failures through an error member. This
// package hides all of that and surfaces failures as typed errors.
package deezer
