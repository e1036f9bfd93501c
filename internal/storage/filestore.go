// Package storage is a local-disk blob store for uploaded images and
// audio. Files are stored under content-randomized names, so concurrent
// uploads never contend on a live path; deletes are idempotent.
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/alkmanistik/alkify-music-api/internal/logger"

	"github.com/google/uuid"
)

var ErrFileNotFound = errors.New("file not found")

type Store struct {
	ImagesDir string
	AudiosDir string
}

func NewStore(imagesDir, audiosDir string) *Store {
	return &Store{ImagesDir: imagesDir, AudiosDir: audiosDir}
}

// Save stores an uploaded file under dir with a random name, keeping
// the original extension, and returns the generated name.
func (s *Store) Save(dir string, file *multipart.FileHeader) (string, error) {
	if file == nil || file.Size == 0 {
		return "", fmt.Errorf("file is empty")
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	return s.SaveReader(dir, filepath.Ext(file.Filename), src)
}

// SaveReader stores the contents of r under dir as a new file named
// uuid+ext and returns the name.
func (s *Store) SaveReader(dir, ext string, r io.Reader) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	name := uuid.NewString() + strings.ToLower(ext)
	path := filepath.Join(dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write file %s: %w", path, err)
	}

	logger.Info(logger.EventFileStore, "File stored", logger.Fields("path", path))
	return name, nil
}

// Open returns a reader over the named file, or ErrFileNotFound.
func (s *Store) Open(dir, name string) (io.ReadCloser, error) {
	if name == "" || filepath.Base(name) != name {
		return nil, fmt.Errorf("invalid file name %q", name)
	}

	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", name, ErrFileNotFound)
		}
		return nil, err
	}
	return f, nil
}

// Delete removes the named file. Deleting a file that does not exist
// only logs a warning.
func (s *Store) Delete(dir, name string) error {
	if name == "" || filepath.Base(name) != name {
		return fmt.Errorf("invalid file name %q", name)
	}

	path := filepath.Join(dir, name)
	err := os.Remove(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn(logger.EventFileStore, "File not found for deletion", logger.Fields("path", path))
			return nil
		}
		return fmt.Errorf("failed to delete file %s: %w", path, err)
	}
	logger.Info(logger.EventFileStore, "File deleted", logger.Fields("path", path))
	return nil
}
