package media

import (
	"context"
	"fmt"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"github.com/maxaizer/job-board/internal/metrics"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"io"
	"path/filepath"
	"strings"
	"time"
)

type ResourceType string

const (
	ResourceImage ResourceType = "image"
	ResourceRaw   ResourceType = "raw"
)

const (
	ProfilesFolder = "profiles"
	ResumesFolder  = "resumes"
	LogosFolder    = "logos"

	SquarePhotoTransform = "c_fill,h_400,w_400/q_auto"
)

type UploadOptions struct {
	Folder       string
	ResourceType ResourceType
	Transform    string
	// Filename is the client's original name; raw uploads keep its extension.
	Filename string
}

type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
}

type CloudinaryStore struct {
	api uploadAPI
}

func NewCloudinaryStore(cloudinaryURL string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid cloudinary url")
	}

	return &CloudinaryStore{api: &cld.Upload}, nil
}

// Upload stores the file and returns its public https url.
func (s *CloudinaryStore) Upload(ctx context.Context, file io.Reader, options UploadOptions) (string, error) {

	if file == nil {
		return "", errors.New("no file to upload")
	}

	params := uploader.UploadParams{
		Folder:         options.Folder,
		ResourceType:   string(lo.Ternary(options.ResourceType == "", ResourceImage, options.ResourceType)),
		Transformation: options.Transform,
	}
	if options.ResourceType == ResourceRaw {
		params.PublicID = uuid.NewString() + strings.ToLower(filepath.Ext(options.Filename))
		params.UseFilename = lo.ToPtr(false)
	}

	start := time.Now()
	result, err := s.api.Upload(ctx, file, params)
	metrics.UploadDuration.WithLabelValues(options.Folder).Observe(time.Since(start).Seconds())

	if err != nil {
		return "", errors.Wrap(err, "upload failed")
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("upload rejected: %s", result.Error.Message)
	}
	if result.SecureURL == "" {
		return "", errors.New("upload returned no url")
	}

	return result.SecureURL, nil
}

// RawResumeURL points pdf resumes that were stored as images at the raw delivery
// path, which serves the original bytes.
func RawResumeURL(url string) string {
	if strings.Contains(url, "/image/upload/") && strings.HasSuffix(strings.ToLower(url), ".pdf") {
		return strings.Replace(url, "/image/upload/", "/raw/upload/", 1)
	}
	return url
}
