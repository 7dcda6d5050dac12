package resources

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"io"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohitmishra4444/html-textview/internal/logging"
)

func encodePNG(t *testing.T, w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 0xff, A: 0xff})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// oversizedPNG returns a tiny PNG whose header claims the given dimensions.
func oversizedPNG(t *testing.T, w, h uint32) []byte {
	data := encodePNG(t, 1, 1)
	// IHDR: length at 8, type at 12, width and height at 16 and 20, CRC after the 13 data bytes.
	binary.BigEndian.PutUint32(data[16:], w)
	binary.BigEndian.PutUint32(data[20:], h)
	binary.BigEndian.PutUint32(data[29:], crc32.ChecksumIEEE(data[12:29]))
	return data
}

func TestFSStore(t *testing.T) {
	fsys := fstest.MapFS{
		"logo.png":   {Data: []byte("png")},
		"photo.jpeg": {Data: []byte("jpeg")},
		"exact.gif":  {Data: []byte("gif")},
		"dir.png":    {Mode: fs.ModeDir | 0o755},
	}
	store := NewFS(fsys)
	ctx := context.Background()

	cases := []struct {
		name     string
		expected string
	}{
		{"logo", "png"},
		{"logo.png", "png"},
		{"photo", "jpeg"},
		{"exact.gif", "gif"},
		{"/logo", "png"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rc, err := store.Open(ctx, c.name)
			require.NoError(t, err)
			defer rc.Close()

			data, err := io.ReadAll(rc)
			require.NoError(t, err)
			assert.Equal(t, c.expected, string(data))
		})
	}

	_, err := store.Open(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Open(ctx, "")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Open(ctx, "dir")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	store, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Put(ctx, "icon", []byte("one")))
	require.NoError(t, store.Put(ctx, "icon", []byte("two")))

	rc, err := store.Open(ctx, "icon")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	_, err = store.Open(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestImageGetter(t *testing.T) {
	ctx := context.Background()
	stock, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	defer stock.Close()
	require.NoError(t, stock.Put(ctx, "stock", encodePNG(t, 3, 2)))
	require.NoError(t, stock.Put(ctx, "app", encodePNG(t, 9, 9)))

	app := NewFS(fstest.MapFS{
		"app.png":     {Data: encodePNG(t, 5, 4)},
		"wide.png":    {Data: encodePNG(t, 100, 50)},
		"corrupt.png": {Data: []byte("not an image")},
	})

	var logs bytes.Buffer
	getter := NewImageGetter([]Store{app, stock}, WithMaxWidth(20), WithLogger(logging.NewWithWriter(&logs, "debug")))

	d := getter.GetImage("app")
	require.NotNil(t, d)
	assert.Equal(t, image.Rect(0, 0, 5, 4), d.Bounds)

	d = getter.GetImage("stock")
	require.NotNil(t, d)
	assert.Equal(t, image.Rect(0, 0, 3, 2), d.Bounds)

	d = getter.GetImage("wide")
	require.NotNil(t, d)
	assert.Equal(t, 20, d.Bounds.Dx())
	assert.Equal(t, 10, d.Bounds.Dy())

	assert.Nil(t, getter.GetImage("missing"))
	assert.Contains(t, logs.String(), "source could not be found")
	assert.Contains(t, logs.String(), "missing")

	assert.Nil(t, getter.GetImage("corrupt"))
	assert.Contains(t, logs.String(), "source could not be loaded")
}

func TestImageGetterRejectsOversizedHeader(t *testing.T) {
	store := NewFS(fstest.MapFS{
		"huge.png": {Data: oversizedPNG(t, 20000, 20000)},
		"tall.png": {Data: oversizedPNG(t, 1, MaxImageHeight+1)},
	})

	var logs bytes.Buffer
	getter := NewImageGetter([]Store{store}, WithLogger(logging.NewWithWriter(&logs, "debug")))

	assert.Nil(t, getter.GetImage("huge"))
	assert.Contains(t, logs.String(), "image too large: 20000x20000")

	assert.Nil(t, getter.GetImage("tall"))
	assert.Contains(t, logs.String(), "image too large: 1x4097")
}
