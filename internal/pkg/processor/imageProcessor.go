package processor

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/ds124wfegd/WB_L3/thumbnailer/internal/entity"
	"github.com/sirupsen/logrus"
)

const (
	inputFormat = "png"

	DefaultEdgeLength       = 128
	DefaultMaxDecodedPixels = 40_000_000
)

type ImageProcessor interface {
	Thumbnail(data []byte) (*entity.EncodedThumbnail, error)
}

type imageProcessor struct {
	spec entity.ThumbnailSpec
}

func NewImageProcessor(spec entity.ThumbnailSpec) ImageProcessor {
	if spec.EdgeLength <= 0 {
		spec.EdgeLength = DefaultEdgeLength
	}
	if spec.MaxDecodedPixels <= 0 {
		spec.MaxDecodedPixels = DefaultMaxDecodedPixels
	}
	return &imageProcessor{spec: spec}
}

// Thumbnail decodes a PNG, resizes it to an EdgeLength square and re-encodes it as PNG.
// The aspect ratio of the source is not preserved.
func (p *imageProcessor) Thumbnail(data []byte) (*entity.EncodedThumbnail, error) {
	img, err := p.loadImage(data)
	if err != nil {
		return nil, err
	}

	processed := imaging.Resize(img, p.spec.EdgeLength, p.spec.EdgeLength, imaging.Lanczos)
	if processed.Bounds().Dx() != p.spec.EdgeLength || processed.Bounds().Dy() != p.spec.EdgeLength {
		return nil, fmt.Errorf("%w: resize produced %dx%d", entity.ErrTransformFailed,
			processed.Bounds().Dx(), processed.Bounds().Dy())
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, processed, imaging.PNG); err != nil {
		return nil, fmt.Errorf("%w: encode png: %w", entity.ErrTransformFailed, err)
	}

	logrus.WithFields(logrus.Fields{
		"edge":  p.spec.EdgeLength,
		"bytes": buf.Len(),
	}).Info("thumbnail created")

	return &entity.EncodedThumbnail{Data: buf.Bytes(), ContentType: entity.ContentTypePNG}, nil
}

func (p *imageProcessor) loadImage(data []byte) (image.Image, error) {
	// Dimensions are checked before the full decode so a small crafted file cannot
	// expand into an oversized raster.
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrTransformFailed, err)
	}
	if format != inputFormat {
		return nil, fmt.Errorf("%w: %w: %s", entity.ErrTransformFailed, entity.ErrUnsupportedFormat, format)
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > p.spec.MaxDecodedPixels {
		return nil, fmt.Errorf("%w: %w: %dx%d", entity.ErrTransformFailed, entity.ErrImageTooLarge, cfg.Width, cfg.Height)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", entity.ErrTransformFailed, format, err)
	}
	return img, nil
}
