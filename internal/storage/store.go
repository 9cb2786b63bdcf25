// Package storage holds user media in object storage. Records only ever keep
// the object path; URLs are resolved from the path when read.
package storage

import (
	"context"
	"io"
)

// ObjectStore uploads objects and resolves their paths to fetchable URLs.
type ObjectStore interface {
	Upload(ctx context.Context, path, contentType string, body io.Reader) error
	URL(ctx context.Context, path string) (string, error)
}
