package kitty

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/nfnt/resize"
)

// The maximum number of base64 bytes carried by a single graphics command.
const chunkSize = 4096

type encodeOptions struct {
	columns  int
	rows     int
	maxWidth uint
}

// An EncodeOption affects the behavior of Encode.
type EncodeOption func(o *encodeOptions)

// WithColumns sets the number of terminal cells the image spans horizontally. The terminal scales the image to fit.
func WithColumns(columns int) EncodeOption {
	return func(o *encodeOptions) {
		o.columns = columns
	}
}

// WithRows sets the number of terminal cells the image spans vertically.
func WithRows(rows int) EncodeOption {
	return func(o *encodeOptions) {
		o.rows = rows
	}
}

// WithMaxWidth downscales images that are wider than the given number of pixels before they are transmitted.
func WithMaxWidth(pixels uint) EncodeOption {
	return func(o *encodeOptions) {
		o.maxWidth = pixels
	}
}

func fprintf(w io.Writer, written *int, f string, args ...interface{}) error {
	n, err := fmt.Fprintf(w, f, args...)
	*written += n
	return err
}

func encodePayload(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := base64.NewEncoder(base64.StdEncoding, &buf)
	if err := png.Encode(enc, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode encodes an image to a Writer using the kitty graphics protocol. The image is transmitted as PNG data in
// chunks of at most 4096 bytes and displayed at the cursor. Encode returns the number of bytes written.
func Encode(w io.Writer, img image.Image, opts ...EncodeOption) (int, error) {
	var options encodeOptions
	for _, o := range opts {
		o(&options)
	}

	if options.maxWidth != 0 && uint(img.Bounds().Dx()) > options.maxWidth {
		img = resize.Resize(options.maxWidth, 0, img, resize.Bilinear)
	}

	data, err := encodePayload(img)
	if err != nil {
		return 0, err
	}

	written := 0
	for first := true; first || len(data) > 0; first = false {
		if first {
			if err := fprintf(w, &written, "\x1b_Gf=100,a=T,"); err != nil {
				return written, err
			}
			if options.columns > 0 {
				if err := fprintf(w, &written, "c=%d,", options.columns); err != nil {
					return written, err
				}
			}
			if options.rows > 0 {
				if err := fprintf(w, &written, "r=%d,", options.rows); err != nil {
					return written, err
				}
			}
		} else {
			if err := fprintf(w, &written, "\x1b_G"); err != nil {
				return written, err
			}
		}

		more, b := 0, data
		if len(data) > chunkSize {
			more, b = 1, data[:chunkSize]
		}
		if err := fprintf(w, &written, "m=%d;", more); err != nil {
			return written, err
		}
		n, err := w.Write(b)
		written += n
		if err != nil {
			return written, err
		}
		if err := fprintf(w, &written, "\x1b\\"); err != nil {
			return written, err
		}

		data = data[len(b):]
	}

	return written, nil
}
