package service

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"strings"

	_ "image/gif"
	_ "image/png"

	"openwall/internal/models"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultImageMaxEdge = 300
	JPEGQuality         = 90
	WebPQuality         = 70
)

// ImageService normalizes attached images before they enter a post, comment
// or avatar: decode, scale the longest edge down to the configured maximum,
// re-encode, and wrap as a data URL that travels inline with the record.
type ImageService struct {
	format      string
	maxEdge     int
	jpegQuality int
	webpQuality int
}

// ImageOptions configures the normalization output.
type ImageOptions struct {
	Format      string // jpeg | webp
	MaxEdge     int
	JPEGQuality int
	WebPQuality int
}

func NewImageService(opts ImageOptions) *ImageService {
	if opts.Format == "" {
		opts.Format = "jpeg"
	}
	if opts.MaxEdge <= 0 {
		opts.MaxEdge = DefaultImageMaxEdge
	}
	if opts.JPEGQuality <= 0 {
		opts.JPEGQuality = JPEGQuality
	}
	if opts.WebPQuality <= 0 {
		opts.WebPQuality = WebPQuality
	}
	return &ImageService{
		format:      opts.Format,
		maxEdge:     opts.MaxEdge,
		jpegQuality: opts.JPEGQuality,
		webpQuality: opts.WebPQuality,
	}
}

// NormalizeToDataURL decodes raw image bytes, scales them down, and returns
// the re-encoded image as a base64 data URL.
func (s *ImageService) NormalizeToDataURL(data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", models.NewValidationError("Unsupported or corrupt image")
	}

	resized := resizeToFit(img, s.maxEdge, s.maxEdge)

	var encoded []byte
	var mimeType string
	switch s.format {
	case "webp":
		encoded, err = encodeWebP(resized, s.webpQuality)
		mimeType = "image/webp"
	default:
		encoded, err = encodeJPEG(resized, s.jpegQuality)
		mimeType = "image/jpeg"
	}
	if err != nil {
		return "", models.NewInternalError(err)
	}

	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(encoded), nil
}

// ToDataURL wraps raw image bytes as a data URL without resizing or
// re-encoding. Deprecated: use NormalizeToDataURL instead.
func (s *ImageService) ToDataURL(data []byte) (string, error) {
	_, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", models.NewValidationError("Unsupported or corrupt image")
	}
	return "data:image/" + format + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// DecodeDataURL returns the raw bytes of a base64 data URL.
func DecodeDataURL(dataURL string) ([]byte, error) {
	idx := strings.Index(dataURL, ";base64,")
	if !strings.HasPrefix(dataURL, "data:") || idx == -1 {
		return nil, fmt.Errorf("not a base64 data URL")
	}
	return base64.StdEncoding.DecodeString(dataURL[idx+len(";base64,"):])
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
