package kitty

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var commandRegexp = regexp.MustCompile(`\x1b_G([^;]*);([^\x1b]*)\x1b\\`)

func solid(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 0x80, A: 0xff})
		}
	}
	return img
}

func noise(w, h int) image.Image {
	rng := rand.New(rand.NewSource(1))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	rng.Read(img.Pix)
	return img
}

func decodeCommands(t *testing.T, out string) ([]string, image.Image) {
	matches := commandRegexp.FindAllStringSubmatch(out, -1)
	require.NotEmpty(t, matches)

	var keys []string
	var payload strings.Builder
	for _, m := range matches {
		keys = append(keys, m[1])
		payload.WriteString(m[2])
	}
	data, err := base64.StdEncoding.DecodeString(payload.String())
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return keys, img
}

func TestEncodeSmall(t *testing.T) {
	var buf bytes.Buffer
	n, err := Encode(&buf, solid(4, 2), WithColumns(10))
	require.NoError(t, err)
	assert.Equal(t, buf.Len(), n)

	keys, img := decodeCommands(t, buf.String())
	assert.Equal(t, []string{"f=100,a=T,c=10,m=0"}, keys)
	assert.Equal(t, image.Rect(0, 0, 4, 2), img.Bounds())
}

func TestEncodeChunks(t *testing.T) {
	var buf bytes.Buffer
	_, err := Encode(&buf, noise(200, 200))
	require.NoError(t, err)

	keys, img := decodeCommands(t, buf.String())
	require.Greater(t, len(keys), 1)
	assert.Equal(t, "f=100,a=T,m=1", keys[0])
	for _, k := range keys[1 : len(keys)-1] {
		assert.Equal(t, "m=1", k)
	}
	assert.Equal(t, "m=0", keys[len(keys)-1])
	assert.Equal(t, image.Rect(0, 0, 200, 200), img.Bounds())

	for _, m := range commandRegexp.FindAllStringSubmatch(buf.String(), -1) {
		assert.LessOrEqual(t, len(m[2]), chunkSize)
	}
}

func TestEncodeMaxWidth(t *testing.T) {
	var buf bytes.Buffer
	_, err := Encode(&buf, solid(100, 50), WithMaxWidth(20), WithRows(3))
	require.NoError(t, err)

	keys, img := decodeCommands(t, buf.String())
	assert.Equal(t, "f=100,a=T,r=3,m=0", keys[0])
	assert.Equal(t, 20, img.Bounds().Dx())
	assert.Equal(t, 10, img.Bounds().Dy())
}
