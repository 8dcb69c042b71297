package processor

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand"
	"testing"

	"github.com/ds124wfegd/WB_L3/thumbnailer/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestThumbnailDimensions checks that every source shape ends up as an edge x edge square
func TestThumbnailDimensions(t *testing.T) {
	tests := []struct {
		name           string
		originalWidth  int
		originalHeight int
		edge           int
	}{
		{name: "landscape source", originalWidth: 800, originalHeight: 600, edge: 128},
		{name: "portrait source", originalWidth: 300, originalHeight: 900, edge: 128},
		{name: "square source", originalWidth: 500, originalHeight: 500, edge: 64},
		{name: "source smaller than thumbnail", originalWidth: 10, originalHeight: 20, edge: 128},
		{name: "single pixel", originalWidth: 1, originalHeight: 1, edge: 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := encodePNG(t, solidImage(tt.originalWidth, tt.originalHeight, color.RGBA{R: 100, G: 150, B: 200, A: 255}))

			p := NewImageProcessor(entity.ThumbnailSpec{EdgeLength: tt.edge})
			thumb, err := p.Thumbnail(src)

			require.NoError(t, err)
			require.NotNil(t, thumb)
			assert.Equal(t, entity.ContentTypePNG, thumb.ContentType)

			cfg, err := png.DecodeConfig(bytes.NewReader(thumb.Data))
			require.NoError(t, err)
			assert.Equal(t, tt.edge, cfg.Width)
			assert.Equal(t, tt.edge, cfg.Height)
		})
	}
}

func TestThumbnailIsDeterministic(t *testing.T) {
	src := encodePNG(t, noiseImage(320, 240, 7))
	p := NewImageProcessor(entity.ThumbnailSpec{EdgeLength: 128})

	first, err := p.Thumbnail(src)
	require.NoError(t, err)
	second, err := p.Thumbnail(src)
	require.NoError(t, err)

	assert.Equal(t, first.Data, second.Data)
	assert.Equal(t, len(first.Data), first.Len())
}

func TestThumbnailRejectsInput(t *testing.T) {
	var jpegBuf bytes.Buffer
	require.NoError(t, jpeg.Encode(&jpegBuf, solidImage(40, 40, color.RGBA{A: 255}), nil))

	tests := []struct {
		name    string
		data    []byte
		spec    entity.ThumbnailSpec
		wantErr error
	}{
		{
			name:    "garbage bytes",
			data:    []byte("definitely not an image"),
			wantErr: entity.ErrTransformFailed,
		},
		{
			name:    "empty input",
			data:    nil,
			wantErr: entity.ErrTransformFailed,
		},
		{
			name:    "jpeg input",
			data:    jpegBuf.Bytes(),
			wantErr: entity.ErrUnsupportedFormat,
		},
		{
			name:    "raster above pixel limit",
			data:    encodePNG(t, solidImage(20, 20, color.RGBA{A: 255})),
			spec:    entity.ThumbnailSpec{EdgeLength: 8, MaxDecodedPixels: 100},
			wantErr: entity.ErrImageTooLarge,
		},
		{
			name:    "truncated png",
			data:    encodePNG(t, noiseImage(64, 64, 3))[:200],
			wantErr: entity.ErrTransformFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewImageProcessor(tt.spec)
			thumb, err := p.Thumbnail(tt.data)

			require.Error(t, err)
			assert.Nil(t, thumb)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, entity.ErrTransformFailed)
		})
	}
}

func TestNewImageProcessorDefaults(t *testing.T) {
	p := NewImageProcessor(entity.ThumbnailSpec{}).(*imageProcessor)

	assert.Equal(t, DefaultEdgeLength, p.spec.EdgeLength)
	assert.Equal(t, int64(DefaultMaxDecodedPixels), p.spec.MaxDecodedPixels)
}

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func noiseImage(w, h int, seed int64) *image.RGBA {
	rnd := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	rnd.Read(img.Pix)
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
