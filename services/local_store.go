package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/legal-sheba/legal-sheba-api/utils"
)

// LocalFileStore keeps attachments in a directory on the local disk
type LocalFileStore struct {
	dir string
}

// NewLocalFileStore creates a store rooted at dir
func NewLocalFileStore(dir string) *LocalFileStore {
	return &LocalFileStore{dir: dir}
}

// Dir returns the directory files are stored in
func (s *LocalFileStore) Dir() string {
	return s.dir
}

func (s *LocalFileStore) Save(ctx context.Context, name string, body io.Reader, contentType string) error {
	if err := utils.SaveFile(s.dir, name, body); err != nil {
		var fileErr *utils.FileUploadError
		if errors.As(err, &fileErr) {
			return ErrInvalidFilename
		}
		return err
	}
	return nil
}

func (s *LocalFileStore) Locate(ctx context.Context, name string) (StoredFile, error) {
	if err := utils.ValidateFilename(name); err != nil {
		return StoredFile{}, ErrInvalidFilename
	}

	path := filepath.Join(s.dir, name)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return StoredFile{}, ErrFileNotFound
		}
		return StoredFile{}, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return StoredFile{}, ErrFileNotFound
	}

	return StoredFile{Name: name, Path: path}, nil
}

func (s *LocalFileStore) Delete(ctx context.Context, name string) error {
	if err := utils.ValidateFilename(name); err != nil {
		return ErrInvalidFilename
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
