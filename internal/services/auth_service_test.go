package services

import (
	"github.com/maxaizer/job-board/internal/apperr"
	"github.com/maxaizer/job-board/internal/clients/media"
	"github.com/maxaizer/job-board/internal/domain/models"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

func Test_Register_SecondAttemptWithSameEmailConflicts(t *testing.T) {
	env := newEnvironment(t)

	first := env.register("jane", models.RoleSeeker)
	assert.Equal(t, models.RoleSeeker, first.Role)
	assert.NotEqual(t, "secret-jane", first.PasswordHash)

	_, err := env.auth.Register(env.ctx, RegisterInput{
		Fullname:    "Jane Again",
		Email:       "JANE@example.com",
		PhoneNumber: "1",
		Password:    "other",
		Role:        "recruiter",
	})
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func Test_Register_RejectsAdminRoleAndMissingFields(t *testing.T) {
	env := newEnvironment(t)

	_, err := env.auth.Register(env.ctx, RegisterInput{
		Fullname: "Eve", Email: "eve@example.com", PhoneNumber: "1", Password: "x", Role: "admin",
	})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = env.auth.Register(env.ctx, RegisterInput{Fullname: "Eve", Role: "seeker"})
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	assert.Contains(t, appErr.Fields, "email")
	assert.Contains(t, appErr.Fields, "password")
}

func Test_Register_UploadsProfilePhoto(t *testing.T) {
	env := newEnvironment(t)
	env.blobs.On("Upload", mock.Anything, mock.Anything, mock.MatchedBy(func(o media.UploadOptions) bool {
		return o.Folder == media.ProfilesFolder && o.Transform == media.SquarePhotoTransform
	})).Return("https://cdn.example.com/p.png", nil)

	account, err := env.auth.Register(env.ctx, RegisterInput{
		Fullname: "Sam", Email: "sam@example.com", PhoneNumber: "1", Password: "x", Role: "seeker",
		Photo: &FileInput{Reader: strings.NewReader("png"), Filename: "me.png", ContentType: "image/png"},
	})

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/p.png", account.Profile.PhotoURL)
	env.blobs.AssertExpectations(t)
}

func Test_Register_UploadFailureIsUpstream(t *testing.T) {
	env := newEnvironment(t)
	env.blobs.On("Upload", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("boom"))

	_, err := env.auth.Register(env.ctx, RegisterInput{
		Fullname: "Sam", Email: "sam@example.com", PhoneNumber: "1", Password: "x", Role: "seeker",
		Photo: &FileInput{Reader: strings.NewReader("png"), Filename: "me.png", ContentType: "image/png"},
	})

	assert.True(t, apperr.Is(err, apperr.KindUpstream))
}

func Test_Authenticate_RequiresPasswordAndRole(t *testing.T) {
	env := newEnvironment(t)
	env.register("jane", models.RoleSeeker)

	token, account, err := env.auth.Authenticate(env.ctx, "jane@example.com", "secret-jane", "seeker")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "jane@example.com", account.Email)

	_, _, err = env.auth.Authenticate(env.ctx, "jane@example.com", "wrong", "seeker")
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindUnauthenticated, appErr.Kind)
	assert.Equal(t, "Incorrect email or password", appErr.Message)

	_, _, err = env.auth.Authenticate(env.ctx, "nobody@example.com", "secret-jane", "seeker")
	appErr, ok = apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "Incorrect email or password", appErr.Message)

	_, _, err = env.auth.Authenticate(env.ctx, "jane@example.com", "secret-jane", "recruiter")
	appErr, ok = apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	assert.Equal(t, "Account doesn't exist with current role", appErr.Message)
}

func Test_ResolvePrincipal_LoadsCurrentAccount(t *testing.T) {
	env := newEnvironment(t)
	env.register("jane", models.RoleSeeker)
	token, _, err := env.auth.Authenticate(env.ctx, "jane@example.com", "secret-jane", "seeker")
	require.NoError(t, err)

	principal, err := env.auth.ResolvePrincipal(env.ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "jane", principal.Fullname)

	_, err = env.auth.ResolvePrincipal(env.ctx, token+"x")
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))

	_, err = env.auth.ResolvePrincipal(env.ctx, "")
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))
}

func Test_SeedAdmin_IsIdempotent(t *testing.T) {
	env := newEnvironment(t)

	first := env.admin()
	second := env.admin()

	assert.Equal(t, models.RoleAdmin, first.Role)
	assert.Equal(t, first.ID, second.ID)

	_, account, err := env.auth.Authenticate(env.ctx, "admin@example.com", "admin-secret", "admin")
	require.NoError(t, err)
	assert.Equal(t, first.ID, account.ID)
}
