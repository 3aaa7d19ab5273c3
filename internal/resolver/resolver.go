// Package resolver turns free-text queries and media URLs into playable
// track metadata. The shipped implementation shells out to yt-dlp; the
// Resolver interface keeps the extractor swappable and mockable.
package resolver

import "context"

// Result is the metadata for one resolved track. StreamURL is the
// direct audio locator consumed by the playback backend.
type Result struct {
	Title           string
	StreamURL       string
	PageURL         string
	DurationSeconds int
	ThumbnailURL    string
}

// Resolver resolves a query into track metadata. A direct media URL
// resolves that exact resource; anything else is treated as a search
// term and the first result is returned.
//
// Resolution errors are non-retriable at this layer and surface to the
// caller unchanged.
type Resolver interface {
	Resolve(ctx context.Context, query string) (Result, error)
}
