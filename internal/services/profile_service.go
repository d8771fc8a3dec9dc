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
	"strings"
)

const (
	resumeNotFoundMessage = "Resume not found"
	defaultResumeName     = "resume.pdf"
	invalidFileMessage    = "Invalid file type. Only images, PDF, DOC, and DOCX files are allowed."
)

var resumeContentTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

type resumeOpener interface {
	Open(ctx context.Context, url string) (io.ReadCloser, error)
}

// ProfileUpdate holds the fields to change; empty values are left as they are.
// Skills is a comma separated list.
type ProfileUpdate struct {
	Fullname    string
	Email       string
	PhoneNumber string
	Bio         string
	Skills      string
	File        *FileInput
}

type Resume struct {
	Body     io.ReadCloser
	Filename string
}

type ProfileService struct {
	accounts accountRepository
	blobs    BlobStore
	resumes  resumeOpener
}

func NewProfileService(accounts accountRepository, blobs BlobStore, resumes resumeOpener) *ProfileService {
	return &ProfileService{accounts: accounts, blobs: blobs, resumes: resumes}
}

func (s *ProfileService) UpdateProfile(ctx context.Context, actor *models.Account, update ProfileUpdate) (*models.Account, error) {

	if err := requirePrincipal(actor); err != nil {
		return nil, err
	}

	account, err := s.accounts.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, notFoundOr(err, "User not found")
	}

	if email := strings.ToLower(strings.TrimSpace(update.Email)); email != "" && email != account.Email {
		if _, err = s.accounts.GetByEmail(ctx, email); err == nil {
			return nil, apperr.Conflict(emailTakenMessage)
		} else if !errors.Is(err, repositories.ErrNotFound) {
			return nil, errors.Wrap(err, "failed to check email")
		}
		account.Email = email
	}

	if update.Fullname != "" {
		account.Fullname = strings.TrimSpace(update.Fullname)
	}
	if update.PhoneNumber != "" {
		account.PhoneNumber = strings.TrimSpace(update.PhoneNumber)
	}
	if update.Bio != "" {
		account.Profile.Bio = update.Bio
	}
	if update.Skills != "" {
		account.Profile.SetSkills(strings.Split(update.Skills, ","))
	}

	if update.File != nil {
		if err = s.attach(ctx, account, update.File); err != nil {
			return nil, err
		}
	}

	if err = s.accounts.Update(ctx, account); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperr.Conflict(emailTakenMessage)
		}
		return nil, errors.Wrap(err, "failed to update profile")
	}

	return account, nil
}

// attach stores a document as the resume and an image as the profile photo.
func (s *ProfileService) attach(ctx context.Context, account *models.Account, file *FileInput) error {

	contentType := strings.ToLower(file.ContentType)

	switch {
	case resumeContentTypes[contentType]:
		url, err := upload(ctx, s.blobs, file, media.UploadOptions{
			Folder:       media.ResumesFolder,
			ResourceType: media.ResourceRaw,
			Filename:     file.Filename,
		})
		if err != nil {
			return err
		}
		account.Profile.ResumeURL = url
		account.Profile.ResumeOriginalName = file.Filename

	case strings.HasPrefix(contentType, "image/"):
		url, err := upload(ctx, s.blobs, file, media.UploadOptions{
			Folder:    media.ProfilesFolder,
			Transform: media.SquarePhotoTransform,
			Filename:  file.Filename,
		})
		if err != nil {
			return err
		}
		account.Profile.PhotoURL = url

	default:
		return apperr.Validation(invalidFileMessage, map[string]string{"file": contentType})
	}

	return nil
}

// OpenResume streams the stored resume of an account. The caller closes the body.
func (s *ProfileService) OpenResume(ctx context.Context, actor *models.Account, accountID string) (*Resume, error) {

	if err := requirePrincipal(actor); err != nil {
		return nil, err
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, notFoundOr(err, resumeNotFoundMessage)
	}
	if !account.HasResume() {
		return nil, apperr.NotFound(resumeNotFoundMessage)
	}

	body, err := s.resumes.Open(ctx, media.RawResumeURL(account.Profile.ResumeURL))
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeMediaApi).
			Errorf("failed to fetch resume of %s: %v", account.ID, err)
		return nil, apperr.Upstream("Failed to fetch resume", err)
	}

	filename := account.Profile.ResumeOriginalName
	if filename == "" {
		filename = defaultResumeName
	}

	return &Resume{Body: body, Filename: filename}, nil
}
