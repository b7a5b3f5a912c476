package filehandler

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DefaultMaxUploadBytes caps accepted uploads at 100 MiB. Short clips are the
// expected input; anything larger is almost certainly a mistake.
const DefaultMaxUploadBytes = 100 * 1024 * 1024

// ErrUploadTooLarge is returned when an upload exceeds the size cap.
var ErrUploadTooLarge = errors.New("upload exceeds size limit")

// Upload is a video upload saved to a temp file.
type Upload struct {
	Path     string
	MIMEType string
	Size     int64
}

// SaveUpload validates the filename extension and streams the upload to a
// uuid-named temp file, enforcing maxBytes (0 means DefaultMaxUploadBytes).
// The caller owns the file and should Remove it when done.
func SaveUpload(r io.Reader, filename string, maxBytes int64) (*Upload, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	mimeType, err := GetMIMEType(ext)
	if err != nil {
		return nil, err
	}

	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}

	dir := filepath.Join(os.TempDir(), "coachlens-uploads")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	path := filepath.Join(dir, uuid.NewString()+ext)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload file: %w", err)
	}

	// Copy one byte past the limit so overruns are detectable.
	size, err := io.Copy(f, io.LimitReader(r, maxBytes+1))
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to write upload: %w", err)
	}
	if size > maxBytes {
		os.Remove(path)
		return nil, fmt.Errorf("%w (max %d bytes)", ErrUploadTooLarge, maxBytes)
	}

	log.Info().
		Str("path", path).
		Str("mime_type", mimeType).
		Int64("size_bytes", size).
		Msg("Upload saved")

	return &Upload{Path: path, MIMEType: mimeType, Size: size}, nil
}

// Remove deletes the saved upload file. Safe to call more than once.
func (u *Upload) Remove() {
	if u == nil || u.Path == "" {
		return
	}
	if err := os.Remove(u.Path); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("path", u.Path).Msg("Failed to remove upload")
	}
}
