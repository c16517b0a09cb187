// Package storage persists submitted report images. Files are partitioned
// by the authority a report was routed to, with filenames prefixed by a
// timestamp to keep them collision-resistant.
package storage

import "context"

// Store saves image bytes and returns a URL the stored image is served from.
type Store interface {
	Save(ctx context.Context, data []byte, authority, filename string) (string, error)
}
