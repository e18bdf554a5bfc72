// Package cover maps raw cover references to presentable image URLs.
//
// Covers in the sheet are absolute URLs, protocol-relative URLs or bare
// filenames. The Resolver normalizes them to https and routes them through
// an image resizing proxy:
//
//	r := cover.NewResolver(cover.DefaultConfig())
//	r.Resolve("//example.com/x.jpg", cover.Thumb)
//	// https://images.weserv.nl/?url=example.com%2Fx.jpg&w=400&h=400&fit=cover
//
// An empty reference resolves to the placeholder URL, never to "", so callers
// don't need a separate null check. Resolution is deterministic for a given
// (reference, options) pair and never fails; image load errors are left to
// the consumer, which should swap in Placeholder().
package cover
