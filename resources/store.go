// Package resources resolves the sources of <img> elements to drawables using named image stores.
package resources

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by a Store that has no image with the requested name.
var ErrNotFound = errors.New("resource not found")

// A Store holds encoded images by name.
type Store interface {
	// Open returns the encoded image with the given name, or an error wrapping ErrNotFound.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}
