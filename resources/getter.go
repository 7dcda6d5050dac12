package resources

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/charmbracelet/log"
	"github.com/nfnt/resize"

	"github.com/rohitmishra4444/html-textview/internal/logging"
	"github.com/rohitmishra4444/html-textview/spanned"
)

// Image size limits.
const (
	MaxImageWidth  = 4096
	MaxImageHeight = 4096
)

// ImageGetter resolves image sources by consulting its stores in order: usually the application's own store first,
// then a stock fallback.
type ImageGetter struct {
	stores   []Store
	maxWidth int
	logger   *log.Logger
}

// An ImageGetterOption configures an ImageGetter.
type ImageGetterOption func(g *ImageGetter)

// WithMaxWidth scales images wider than width down to width, keeping their aspect ratio.
func WithMaxWidth(width int) ImageGetterOption {
	return func(g *ImageGetter) {
		g.maxWidth = width
	}
}

// WithLogger sets the logger used to report images that cannot be resolved.
func WithLogger(logger *log.Logger) ImageGetterOption {
	return func(g *ImageGetter) {
		g.logger = logger
	}
}

// NewImageGetter creates an ImageGetter that looks up images in stores.
func NewImageGetter(stores []Store, options ...ImageGetterOption) *ImageGetter {
	g := &ImageGetter{stores: stores}
	for _, o := range options {
		o(g)
	}
	if g.logger == nil {
		g.logger = logging.Default()
	}
	return g
}

// GetImage resolves source to a drawable. It returns nil if no store has a decodable image with that name.
func (g *ImageGetter) GetImage(source string) *spanned.Drawable {
	return g.GetImageContext(context.Background(), source)
}

// GetImageContext is like GetImage, but uses ctx for store lookups.
func (g *ImageGetter) GetImageContext(ctx context.Context, source string) *spanned.Drawable {
	img, err := g.load(ctx, source)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			g.logger.Error("source could not be found", "source", source)
		} else {
			g.logger.Error("source could not be loaded", "source", source, "err", err)
		}
		return nil
	}

	if g.maxWidth > 0 && img.Bounds().Dx() > g.maxWidth {
		img = resize.Thumbnail(uint(g.maxWidth), uint(img.Bounds().Dy()), img, resize.Bicubic)
	}
	b := img.Bounds()
	return &spanned.Drawable{Image: img, Bounds: image.Rect(0, 0, b.Dx(), b.Dy())}
}

func (g *ImageGetter) load(ctx context.Context, source string) (image.Image, error) {
	for _, s := range g.stores {
		rc, err := s.Open(ctx, source)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", source, err)
		}

		// Oversized images are rejected from their header, before any pixels are decoded.
		config, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding %q: %w", source, err)
		}
		if config.Width > MaxImageWidth || config.Height > MaxImageHeight {
			return nil, fmt.Errorf("image too large: %dx%d (max %dx%d)", config.Width, config.Height, MaxImageWidth, MaxImageHeight)
		}

		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding %q: %w", source, err)
		}
		return img, nil
	}
	return nil, fmt.Errorf("loading %q: %w", source, ErrNotFound)
}
