package ioutils

import (
	"bytes"
	"context"
	"image"
	_ "image/gif" // GIF decoder registration
	"image/jpeg"
	_ "image/png" // PNG decoder registration

	"golang.org/x/image/draw"
)

// ImageService provides image processing operations for covers.
//
// ImageService is used to:
//   - Resize covers before saving them to disk
//   - Convert covers to JPEG
//   - Downscale previews for the terminal
//
// Example usage:
//
//	svc := NewImageService()
//
//	resized, _ := svc.ResizeImage(ctx, data, 900, 900)
//	thumb, _ := svc.Thumbnail(ctx, data, 24, 24)
type ImageService struct {
	quality int
}

// NewImageService creates an ImageService encoding JPEG at quality 90.
func NewImageService() *ImageService {
	return &ImageService{quality: 90}
}

// fit returns the size of a w×h image scaled down to fit within maxW×maxH,
// keeping the aspect ratio. Images that already fit are left as they are.
func fit(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}
	ratio := float64(w) / float64(h)
	if float64(maxW)/float64(maxH) > ratio {
		return max(1, int(float64(maxH)*ratio)), maxH
	}
	return maxW, max(1, int(float64(maxW)/ratio))
}

// ResizeImage resizes an image to fit within maxWidth×maxHeight and returns
// it JPEG-encoded. Smaller images are re-encoded without scaling.
//
// The Catmull-Rom kernel is used for scaling.
//
// Example:
//
//	// A 1500x1000 image becomes 900x600
//	resized, err := svc.ResizeImage(ctx, imageData, 900, 900)
func (s *ImageService) ResizeImage(ctx context.Context, data []byte, maxWidth, maxHeight int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width, height := fit(bounds.Dx(), bounds.Dy(), maxWidth, maxHeight)

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	return s.encode(dst)
}

// ConvertToJPEG re-encodes any decodable image as JPEG.
func (s *ImageService) ConvertToJPEG(ctx context.Context, data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return s.encode(img)
}

// Thumbnail decodes data and scales it to fit within maxWidth×maxHeight
// pixels. Unlike ResizeImage it also scales small images up, so previews
// always fill their box along one axis.
func (s *ImageService) Thumbnail(ctx context.Context, data []byte, maxWidth, maxHeight int) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width, height := maxWidth, maxHeight
	if bounds.Dx()*maxHeight > bounds.Dy()*maxWidth {
		height = max(1, bounds.Dy()*maxWidth/bounds.Dx())
	} else {
		width = max(1, bounds.Dx()*maxHeight/bounds.Dy())
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst, nil
}

func (s *ImageService) encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: s.quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
