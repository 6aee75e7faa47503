package ioutils

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration

	"golang.org/x/image/draw"
)

// ImageService provides image processing operations for cover art.
//
// ImageService is used to:
//   - Downscale covers to the configured embed size
//   - Convert covers to JPEG (the format declared when embedding)
//
// Example usage:
//
//	svc := NewImageService()
//
//	cover, _ := album.Cover(ctx, client, model.CoverXL)
//	resized, _ := svc.ResizeImage(ctx, cover, 800, 800)
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// ResizeImage resizes an image to fit within the given maximum
// dimensions, preserving aspect ratio. Images already inside the
// bounds are kept at their size but re-encoded.
//
// Returns JPEG-encoded bytes. The Catmull-Rom kernel is used for the
// scale, trading speed for quality; covers are small enough that this
// does not matter.
//
// Example:
//
//	// Fit within 800x800
//	resized, err := svc.ResizeImage(ctx, coverData, 800, 800)
//	// A 1000x1000 cover becomes 800x800
//	// A 500x500 cover stays 500x500 (but re-encoded)
func (s *ImageService) ResizeImage(ctx context.Context, data []byte, maxWidth, maxHeight int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width > maxWidth || height > maxHeight {
		ratio := float64(width) / float64(height)
		if float64(maxWidth)/float64(maxHeight) > ratio {
			// Height is the limiting factor
			width = int(float64(maxHeight) * ratio)
			height = maxHeight
		} else {
			// Width is the limiting factor
			height = int(float64(maxWidth) / ratio)
			width = maxWidth
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// ConvertToJPEG re-encodes an image as JPEG with 90% quality.
//
// Covers normally arrive as JPEG already, but the embed path declares
// a JPEG MIME type, so anything else is converted to keep the tag
// honest.
func (s *ImageService) ConvertToJPEG(ctx context.Context, data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
