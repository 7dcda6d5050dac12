package resources

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
)

var imageExtensions = []string{"", ".png", ".jpg", ".jpeg", ".gif"}

// FS is a Store backed by a file system. A name may omit the image's extension.
type FS struct {
	fsys fs.FS
}

// NewFS creates a Store that reads images from fsys.
func NewFS(fsys fs.FS) *FS {
	return &FS{fsys: fsys}
}

// Open implements Store.
func (s *FS) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	name = strings.TrimPrefix(path.Clean("/"+name), "/")
	if name == "" || !fs.ValidPath(name) {
		return nil, fmt.Errorf("opening %q: %w", name, ErrNotFound)
	}

	for _, ext := range imageExtensions {
		f, err := s.fsys.Open(name + ext)
		if err == nil {
			info, err := f.Stat()
			if err == nil && info.IsDir() {
				f.Close()
				continue
			}
			return f, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("opening %q: %w", name+ext, err)
		}
	}
	return nil, fmt.Errorf("opening %q: %w", name, ErrNotFound)
}
