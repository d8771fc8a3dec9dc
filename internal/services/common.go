package services

import (
	"context"
	"github.com/maxaizer/job-board/internal/apperr"
	"github.com/maxaizer/job-board/internal/clients/media"
	"github.com/maxaizer/job-board/internal/domain/models"
	"github.com/maxaizer/job-board/internal/logger"
	"github.com/maxaizer/job-board/internal/repositories"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"io"
)

type BlobStore interface {
	Upload(ctx context.Context, file io.Reader, options media.UploadOptions) (string, error)
}

// FileInput is one uploaded multipart file.
type FileInput struct {
	Reader      io.Reader
	Filename    string
	ContentType string
}

func requirePrincipal(actor *models.Account) error {
	if actor == nil {
		return apperr.Unauthenticated("authentication required")
	}
	return nil
}

// notFoundOr turns a missing record into a NotFound with the given message and
// wraps anything else as an internal failure.
func notFoundOr(err error, message string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperr.NotFound(message)
	}
	return errors.Wrap(err, message)
}

func upload(ctx context.Context, blobs BlobStore, file *FileInput, options media.UploadOptions) (string, error) {
	url, err := blobs.Upload(ctx, file.Reader, options)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeMediaApi).
			Errorf("failed to upload %q to %s: %v", file.Filename, options.Folder, err)
		return "", apperr.Upstream("File upload failed", err)
	}
	return url, nil
}
