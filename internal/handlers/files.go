package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/maxaizer/job-board/internal/apperr"
	"github.com/maxaizer/job-board/internal/services"
	"github.com/pkg/errors"
	"net/http"
)

const (
	fileField     = "file"
	maxUploadSize = 5 << 20
)

// formFile returns the optional multipart file of a request and a func releasing it.
func formFile(c *gin.Context) (*services.FileInput, func(), error) {

	noop := func() {}

	header, err := c.FormFile(fileField)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, apperr.Validation("Invalid file upload", map[string]string{fileField: err.Error()})
	}

	if header.Size > maxUploadSize {
		return nil, noop, apperr.Validation("File is too large, the limit is 5MB", map[string]string{fileField: "too large"})
	}

	file, err := header.Open()
	if err != nil {
		return nil, noop, errors.Wrap(err, "failed to open uploaded file")
	}

	return &services.FileInput{
		Reader:      file,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	}, func() { _ = file.Close() }, nil
}
