package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/errors"
	"github.com/google/uuid"
)

const avatarsDir = "avatars"

type Storage struct {
	rootPath string
}

func New(rootPath string) (*Storage, error) {
	p := filepath.Clean(rootPath)
	if err := os.MkdirAll(p, 0755); err != nil {
		return nil, fmt.Errorf("failed to create root storage directory %s: %w", p, err)
	}
	return &Storage{rootPath: p}, nil
}

// SaveAvatar writes the image under avatars/<userId>/ with a random name and
// returns the path relative to the storage root.
func (s *Storage) SaveAvatar(data io.Reader, userId domain.UserId, extension string) (string, error) {
	ext := strings.ToLower(filepath.Ext("x" + filepath.Clean(extension)))
	filename := uuid.NewString() + ext

	relativePath := filepath.Join(avatarsDir, strconv.FormatInt(userId, 10), filename)
	fullPath := filepath.Join(s.rootPath, relativePath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create subdirectories: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, data); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to copy file data: %w", err)
	}
	return relativePath, nil
}

// Read opens a stored file. Paths escaping the root are treated as missing.
func (s *Storage) Read(relativePath string) (io.ReadSeekCloser, error) {
	fullPath, ok := s.resolve(relativePath)
	if !ok {
		return nil, errors.NotFound("File not found")
	}
	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("File not found")
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// DeleteFile removes a single file. A missing file is not an error.
func (s *Storage) DeleteFile(relativePath string) error {
	fullPath, ok := s.resolve(relativePath)
	if !ok {
		return nil
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *Storage) resolve(relativePath string) (string, bool) {
	if relativePath == "" {
		return "", false
	}
	fullPath := filepath.Join(s.rootPath, filepath.Clean("/"+relativePath))
	if !strings.HasPrefix(fullPath, s.rootPath+string(filepath.Separator)) {
		return "", false
	}
	return fullPath, true
}
