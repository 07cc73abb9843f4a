package imageprocessor

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ImageSize - ограничивающий прямоугольник
type ImageSize struct {
	Name   string
	Width  int
	Height int
}

var (
	SizeThumbnail = ImageSize{Name: "thumbnail", Width: 150, Height: 150}
	SizeMedium    = ImageSize{Name: "medium", Width: 800, Height: 800}
	SizeLarge     = ImageSize{Name: "large", Width: 1600, Height: 1600}
)

// Result - закодированная картинка и ее параметры
type Result struct {
	Data        []byte
	ContentType string
	Ext         string
	Width       int
	Height      int
}

func (r *Result) Reader() io.Reader {
	return bytes.NewReader(r.Data)
}

// Processor handles image processing operations
type Processor struct {
	quality int // JPEG quality (1-100)
}

func NewProcessor(quality int) *Processor {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	return &Processor{
		quality: quality,
	}
}

// Fit уменьшает картинку до size с сохранением пропорций; меньшие не увеличиваются.
// JPEG остается JPEG, остальные форматы перекодируются в PNG
func (p *Processor) Fit(reader io.Reader, size ImageSize) (*Result, error) {
	img, format, err := image.Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > size.Width || bounds.Dy() > size.Height {
		img = p.resize(img, size.Width, size.Height)
	}

	var buf bytes.Buffer
	result := &Result{Width: img.Bounds().Dx(), Height: img.Bounds().Dy()}

	switch format {
	case "jpeg":
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.quality}); err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
		result.ContentType, result.Ext = "image/jpeg", ".jpg"
	default:
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("failed to encode PNG: %w", err)
		}
		result.ContentType, result.Ext = "image/png", ".png"
	}

	result.Data = buf.Bytes()
	return result, nil
}

// resize вписывает картинку в maxWidth x maxHeight
func (p *Processor) resize(img image.Image, maxWidth, maxHeight int) image.Image {
	bounds := img.Bounds()
	ratio := float64(bounds.Dx()) / float64(bounds.Dy())

	newWidth, newHeight := maxWidth, maxHeight
	if float64(maxWidth)/float64(maxHeight) > ratio {
		newWidth = int(float64(maxHeight) * ratio)
	} else {
		newHeight = int(float64(maxWidth) / ratio)
	}
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// IsValidImage checks if the reader contains a decodable image
func IsValidImage(reader io.Reader) bool {
	_, _, err := image.DecodeConfig(reader)
	return err == nil
}
