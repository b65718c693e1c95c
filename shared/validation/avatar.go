package validation

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
	_ "golang.org/x/image/webp"
)

// MaxAvatarDimension bounds width and height of a decoded avatar.
const MaxAvatarDimension = 4096

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ValidateAvatar checks an uploaded profile image. The MIME type is sniffed
// from content rather than trusted from the client, and the image header must
// decode. The returned file is rewound and owned by the caller.
func ValidateAvatar(fileHeader *multipart.FileHeader, allowedMimes []string, maxSize int64) (*domain.PendingImage, error) {
	if fileHeader.Size > maxSize {
		return nil, fmt.Errorf("%w: avatar exceeds %.1f MB", ErrPayloadTooLarge, FormatSizeMB(maxSize))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}

	mimeType, err := sniffMimeType(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	if !BuildAllowedMimeMap(allowedMimes)[mimeType] {
		file.Close()
		return nil, fmt.Errorf("%w: %s (file: %s)", ErrInvalidMimeType, mimeType, fileHeader.Filename)
	}

	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("%w: file is not a valid image", ErrInvalidImage)
	}
	if cfg.Width > MaxAvatarDimension || cfg.Height > MaxAvatarDimension {
		file.Close()
		return nil, fmt.Errorf("%w: image is larger than %dx%d", ErrInvalidImage, MaxAvatarDimension, MaxAvatarDimension)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to rewind uploaded file: %w", err)
	}

	return &domain.PendingImage{
		Filename:  fileHeader.Filename,
		Extension: extensions[mimeType],
		MimeType:  mimeType,
		SizeBytes: fileHeader.Size,
		Width:     cfg.Width,
		Height:    cfg.Height,
		Data:      file,
	}, nil
}

func BuildAllowedMimeMap(mimes []string) map[string]bool {
	allowed := make(map[string]bool, len(mimes))
	for _, m := range mimes {
		allowed[m] = true
	}
	return allowed
}

func sniffMimeType(file multipart.File) (string, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind uploaded file: %w", err)
	}
	return http.DetectContentType(head[:n]), nil
}
