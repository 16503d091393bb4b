// Package imagestore is the file-system storage collaborator for book
// image attachments. It owns saving uploaded files under the uploads
// root and releasing refs that no book points at anymore.
package imagestore

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const publicPrefix = "/uploads"

var (
	ErrNotImage = errors.New("imagestore: only image files are allowed")
	ErrTooLarge = errors.New("imagestore: file exceeds the size limit")
	ErrEmpty    = errors.New("imagestore: file is empty")
)

type Store struct {
	root     string
	maxBytes int64
}

// New creates the uploads directory if needed and returns the store.
func New(root string, maxBytes int64) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads directory: %w", err)
	}
	return &Store{root: root, maxBytes: maxBytes}, nil
}

// Root is the directory static file serving should expose.
func (s *Store) Root() string { return s.root }

// SaveUpload persists one multipart file and returns its public ref
// ("/uploads/<name>"). The content is sniffed, not trusted from the
// header; anything that is not image/* is rejected.
func (s *Store) SaveUpload(header *multipart.FileHeader) (string, error) {
	if header.Size > 0 && header.Size > s.maxBytes {
		return "", ErrTooLarge
	}

	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	buffer := make([]byte, 512)
	bytesRead, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}
	if bytesRead == 0 {
		return "", ErrEmpty
	}

	detected := mimetype.Detect(buffer[:bytesRead])
	if !strings.HasPrefix(detected.String(), "image/") {
		return "", ErrNotImage
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	extension := detected.Extension()
	if extension == "" {
		extension = filepath.Ext(header.Filename)
	}
	name := uuid.NewString() + extension
	destination := filepath.Join(s.root, name)

	out, err := os.OpenFile(destination, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}

	written, err := io.Copy(out, io.LimitReader(file, s.maxBytes+1))
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(destination)
		return "", err
	}
	if written > s.maxBytes {
		_ = os.Remove(destination)
		return "", ErrTooLarge
	}

	return publicPrefix + "/" + name, nil
}

// Release removes the file behind a ref. Best effort: a missing file or
// a ref outside the uploads root is logged and ignored, so deleting a
// book never fails on attachment cleanup.
func (s *Store) Release(ref string) {
	name := path.Base(strings.TrimSpace(ref))
	if name == "" || name == "." || name == "/" {
		return
	}

	target := filepath.Join(s.root, name)
	relative, err := filepath.Rel(s.root, target)
	if err != nil || relative == "." || strings.HasPrefix(relative, "..") {
		log.Warn().Str("ref", ref).Msg("refusing to release ref outside uploads root")
		return
	}

	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		log.Error().Err(err).Str("ref", ref).Msg("error releasing image file")
	}
}
