package service

import "io"

type MediaStorage interface {
	// SaveAvatar stores an already sanitized image under the user's directory
	// and returns the path relative to the media root.
	SaveAvatar(data io.Reader, userId int64, extension string) (string, error)

	// Read opens a stored file given its relative path.
	Read(filePath string) (io.ReadSeekCloser, error)

	// DeleteFile removes a single file.
	DeleteFile(filePath string) error
}
