// Package photos decodes report photos and stores them.
package photos

import (
	"bytes"
	"encoding/base64"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"participium/internal/domain"

	_ "golang.org/x/image/webp"
)

// Supported formats, as reported by image.Decode.
const (
	FormatJPEG = "jpeg"
	FormatPNG  = "png"
	FormatWebP = "webp"
)

// MaxPixels caps width times height so a small upload cannot declare a huge canvas.
const MaxPixels = 40_000_000

// Image is a decoded photo kept in its original encoding.
type Image struct {
	Format string
	Data   []byte
	Width  int
	Height int
}

// ContentType returns the MIME type of the image.
func (i Image) ContentType() string {
	return "image/" + i.Format
}

// Ext returns the file extension used when the image is stored.
func (i Image) Ext() string {
	if i.Format == FormatJPEG {
		return ".jpg"
	}
	return "." + i.Format
}

func sniff(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return FormatJPEG
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return FormatPNG
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return FormatWebP
	}
	return ""
}

// Decode checks that data is a JPEG, PNG or WebP image that decodes cleanly.
func Decode(data []byte) (Image, error) {
	if len(data) == 0 {
		return Image{}, domain.BadRequest(domain.ReasonInvalidPhoto, "Photo is not a valid image")
	}
	format := sniff(data)
	if format == "" {
		return Image{}, domain.BadRequest(domain.ReasonUnsupportedFormat, "Photo has unsupported format")
	}
	cfg, declared, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || declared != format || cfg.Width <= 0 || cfg.Height <= 0 {
		return Image{}, domain.BadRequest(domain.ReasonInvalidPhoto, "Photo is not a valid image")
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return Image{}, domain.BadRequest(domain.ReasonInvalidPhoto, "Photo is too large (%dx%d)", cfg.Width, cfg.Height)
	}
	img, decoded, err := image.Decode(bytes.NewReader(data))
	if err != nil || decoded != format {
		return Image{}, domain.BadRequest(domain.ReasonInvalidPhoto, "Photo is not a valid image")
	}
	b := img.Bounds()
	return Image{Format: format, Data: data, Width: b.Dx(), Height: b.Dy()}, nil
}

// DecodeAll decodes every photo after checking the count window.
func DecodeAll(photos [][]byte, limits domain.PhotoLimits) ([]Image, error) {
	if err := domain.ValidatePhotoCount(len(photos), limits); err != nil {
		return nil, err
	}
	out := make([]Image, 0, len(photos))
	for _, p := range photos {
		img, err := Decode(p)
		if err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, nil
}

// ParseDataURI extracts the payload of "data:image/<fmt>;base64,<payload>".
// A bare base64 string is accepted too.
func ParseDataURI(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	payload := s
	if strings.HasPrefix(s, "data:") {
		meta, rest, ok := strings.Cut(s[len("data:"):], ",")
		if !ok || !strings.HasSuffix(meta, ";base64") {
			return nil, domain.BadRequest(domain.ReasonInvalidPhoto, "Photo is not a valid image")
		}
		switch strings.TrimSuffix(meta, ";base64") {
		case "image/jpeg", "image/jpg", "image/png", "image/webp":
		default:
			return nil, domain.BadRequest(domain.ReasonUnsupportedFormat, "Photo has unsupported format")
		}
		payload = rest
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, domain.BadRequest(domain.ReasonInvalidPhoto, "Photo is not a valid image")
	}
	return data, nil
}
