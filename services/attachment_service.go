package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"

	"github.com/gabriel-vasile/mimetype"

	"github.com/legal-sheba/legal-sheba-api/models"
	"github.com/legal-sheba/legal-sheba-api/utils"
)

// Attachment identifies an uploaded file to be referenced by a message.
// URL is the API path the file is downloaded from.
type Attachment struct {
	FilePath string `json:"file_path"`
	FileType string `json:"file_type"`
	URL      string `json:"url"`
}

// AttachmentService validates, types and stores message attachments
type AttachmentService struct {
	store FileStore
}

// NewAttachmentService creates a new attachment service backed by store
func NewAttachmentService(store FileStore) *AttachmentService {
	return &AttachmentService{store: store}
}

// Upload stores fileHeader under a fresh name. The returned FilePath is the
// name to send with a message and to download the file by.
func (s *AttachmentService) Upload(ctx context.Context, p models.Principal, fileHeader *multipart.FileHeader) (*Attachment, error) {
	if !p.HasRole() {
		return nil, ErrInsufficientRole
	}

	if err := utils.ValidateAttachment(fileHeader); err != nil {
		return nil, uploadError(err)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			slog.Warn("failed to close uploaded file", "error", closeErr)
		}
	}()

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to detect file type: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind file: %w", err)
	}

	name := utils.UniqueFilename(fileHeader.Filename)
	if err := s.store.Save(ctx, name, file, mtype.String()); err != nil {
		return nil, err
	}

	return &Attachment{FilePath: name, FileType: mtype.String(), URL: utils.GetFileURL(name)}, nil
}

// Fetch locates a stored attachment by name
func (s *AttachmentService) Fetch(ctx context.Context, name string) (StoredFile, error) {
	if err := utils.ValidateFilename(name); err != nil {
		return StoredFile{}, ErrInvalidFilename
	}
	return s.store.Locate(ctx, name)
}

func uploadError(err error) error {
	var fileErr *utils.FileUploadError
	if errors.As(err, &fileErr) {
		return &Error{Kind: KindBadRequest, Code: fileErr.Code, Message: fileErr.Message}
	}
	return err
}
