package services

import (
	"context"
	"github.com/google/uuid"
	"github.com/maxaizer/job-board/internal/apperr"
	"github.com/maxaizer/job-board/internal/clients/media"
	"github.com/maxaizer/job-board/internal/domain/models"
	"github.com/maxaizer/job-board/internal/logger"
	"github.com/maxaizer/job-board/internal/metrics"
	"github.com/maxaizer/job-board/internal/repositories"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"strings"
)

const (
	incorrectCredentialsMessage = "Incorrect email or password"
	roleMismatchMessage         = "Account doesn't exist with current role"
	emailTakenMessage           = "User already exist with this email"
)

type accountRepository interface {
	Add(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	Update(ctx context.Context, account *models.Account) error
}

type RegisterInput struct {
	Fullname    string
	Email       string
	PhoneNumber string
	Password    string
	Role        string
	Photo       *FileInput
}

type AuthService struct {
	accounts accountRepository
	tokens   *TokenCodec
	blobs    BlobStore
}

func NewAuthService(accounts accountRepository, tokens *TokenCodec, blobs BlobStore) *AuthService {
	return &AuthService{accounts: accounts, tokens: tokens, blobs: blobs}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.Account, error) {

	missing := map[string]string{}
	for field, value := range map[string]string{
		"fullname":    input.Fullname,
		"email":       input.Email,
		"phoneNumber": input.PhoneNumber,
		"password":    input.Password,
		"role":        input.Role,
	} {
		if strings.TrimSpace(value) == "" {
			missing[field] = "required"
		}
	}
	if len(missing) > 0 {
		return nil, apperr.Validation("All fields are required", missing)
	}

	role, err := models.ToRegistrableRole(input.Role)
	if err != nil {
		return nil, apperr.Validation("Invalid role", map[string]string{"role": "must be seeker or recruiter"})
	}

	if _, err = s.accounts.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperr.Conflict(emailTakenMessage)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, errors.Wrap(err, "failed to check email")
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		ID:           uuid.NewString(),
		Fullname:     strings.TrimSpace(input.Fullname),
		Email:        input.Email,
		PhoneNumber:  strings.TrimSpace(input.PhoneNumber),
		PasswordHash: hash,
		Role:         role,
	}

	if input.Photo != nil {
		account.Profile.PhotoURL, err = upload(ctx, s.blobs, input.Photo, media.UploadOptions{
			Folder:    media.ProfilesFolder,
			Transform: media.SquarePhotoTransform,
			Filename:  input.Photo.Filename,
		})
		if err != nil {
			return nil, err
		}
	}

	if err = s.accounts.Add(ctx, account); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperr.Conflict(emailTakenMessage)
		}
		return nil, errors.Wrap(err, "failed to add account")
	}

	log.Infof("registered %s account %s", account.Role, account.ID)
	return account, nil
}

// Authenticate checks credentials and the role the client claims to log in as.
func (s *AuthService) Authenticate(ctx context.Context, email, password, role string) (string, *models.Account, error) {

	if strings.TrimSpace(email) == "" || password == "" || strings.TrimSpace(role) == "" {
		return "", nil, apperr.Validation("All fields are required", nil)
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		metrics.AuthAttempts.WithLabelValues("bad_credentials").Inc()
		return "", nil, apperr.Unauthenticated(incorrectCredentialsMessage)
	}
	if err != nil {
		return "", nil, errors.Wrap(err, "failed to load account")
	}

	if !passwordMatches(account.PasswordHash, password) {
		metrics.AuthAttempts.WithLabelValues("bad_credentials").Inc()
		return "", nil, apperr.Unauthenticated(incorrectCredentialsMessage)
	}

	if models.Role(strings.ToLower(strings.TrimSpace(role))) != account.Role {
		metrics.AuthAttempts.WithLabelValues("role_mismatch").Inc()
		return "", nil, apperr.Validation(roleMismatchMessage, nil)
	}

	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		return "", nil, err
	}

	metrics.AuthAttempts.WithLabelValues("success").Inc()
	return token, account, nil
}

// ResolvePrincipal loads the current state of the account a token was issued to.
func (s *AuthService) ResolvePrincipal(ctx context.Context, token string) (*models.Account, error) {

	if token == "" {
		return nil, apperr.Unauthenticated("User not authenticated")
	}

	accountID, err := s.tokens.Parse(token)
	if err != nil {
		return nil, apperr.Unauthenticated("Invalid token")
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperr.Unauthenticated("Invalid token")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load principal")
	}

	return account, nil
}

// SeedAdmin creates the administrator account if no account uses the email yet.
func (s *AuthService) SeedAdmin(ctx context.Context, email, password string) error {

	existing, err := s.accounts.GetByEmail(ctx, email)
	if err == nil {
		if existing.Role != models.RoleAdmin {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeAuth).Warnf("admin seed skipped: %s is registered as %s", existing.Email, existing.Role)
		}
		return nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return errors.Wrap(err, "failed to check admin account")
	}

	hash, err := hashPassword(password)
	if err != nil {
		return err
	}

	admin := &models.Account{
		ID:           uuid.NewString(),
		Fullname:     "Administrator",
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	if err = s.accounts.Add(ctx, admin); err != nil {
		return errors.Wrap(err, "failed to add admin account")
	}

	log.Infof("admin account %s created", admin.Email)
	return nil
}

// SessionMaxAge is the session cookie lifetime in seconds.
func (s *AuthService) SessionMaxAge() int {
	return int(s.tokens.TTL().Seconds())
}
