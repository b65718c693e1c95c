package utils

import (
	"bytes"
	"fmt"
	"html"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"strings"
	"unicode/utf8"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/microcosm-cc/bluemonday"
	_ "golang.org/x/image/webp"
)

// SanitizedImage is a re-encoded avatar ready to be written to storage.
type SanitizedImage struct {
	Data      *bytes.Reader
	Extension string
	MimeType  string
	Width     int
	Height    int
}

// SanitizeImage decodes the pending image and encodes it again, which drops
// EXIF and any trailing payload. PNG stays PNG, everything else becomes JPEG.
func SanitizeImage(pending *domain.PendingImage, maxDecodedSize int64) (*SanitizedImage, error) {
	// A crafted header can claim huge dimensions; check before allocating.
	if int64(pending.Width)*int64(pending.Height)*4 > maxDecodedSize {
		return nil, fmt.Errorf("image too large: %dx%d pixels, decoded size would exceed %d bytes limit",
			pending.Width, pending.Height, maxDecodedSize)
	}

	img, format, err := image.Decode(pending.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	var buf bytes.Buffer
	out := &SanitizedImage{Width: img.Bounds().Dx(), Height: img.Bounds().Dy()}
	if format == "png" {
		err = png.Encode(&buf, img)
		out.Extension, out.MimeType = ".png", "image/png"
	} else {
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
		out.Extension, out.MimeType = ".jpg", "image/jpeg"
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	out.Data = bytes.NewReader(buf.Bytes())
	return out, nil
}

var strictPolicy = bluemonday.StrictPolicy()

// SanitizeText strips every HTML tag from user text (chat messages, review
// comments, notes) and trims surrounding whitespace. The result is plain
// text: entities escaped by the policy are decoded again, since clients
// render these fields as text and not as HTML.
func SanitizeText(text string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(text)))
}

// TextLength counts runes, which is what length limits on user text mean.
func TextLength(text string) int {
	return utf8.RuneCountInString(text)
}
