package services

import (
	"context"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/job-board/internal/clients/media"
	"github.com/maxaizer/job-board/internal/domain/models"
	"github.com/maxaizer/job-board/internal/repositories"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

var dbCtx *repositories.DbContext

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "jobboard-services")
	if err != nil {
		log.Fatal(err)
	}

	dbCtx, err = repositories.NewDbContext(filepath.Join(dir, "testdatabase.db"))
	if err != nil {
		log.Fatalf("could not create db context: %s", err)
	}
	if err = dbCtx.Migrate(); err != nil {
		log.Fatalf("could not migrate db: %s", err)
	}

	code := m.Run()

	_ = dbCtx.Close()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func clearDb() {
	dbCtx.DB.Exec("DELETE FROM applications WHERE TRUE")
	dbCtx.DB.Exec("DELETE FROM postings WHERE TRUE")
	dbCtx.DB.Exec("DELETE FROM organizations WHERE TRUE")
	dbCtx.DB.Exec("DELETE FROM accounts WHERE TRUE")
}

type mockBlobStore struct {
	mock.Mock
}

func (m *mockBlobStore) Upload(ctx context.Context, file io.Reader, options media.UploadOptions) (string, error) {
	args := m.Called(ctx, file, options)
	return args.String(0), args.Error(1)
}

type mockResumeOpener struct {
	mock.Mock
}

func (m *mockResumeOpener) Open(ctx context.Context, url string) (io.ReadCloser, error) {
	args := m.Called(ctx, url)
	body, _ := args.Get(0).(io.ReadCloser)
	return body, args.Error(1)
}

type environment struct {
	t            *testing.T
	ctx          context.Context
	bus          EventBus.Bus
	blobs        *mockBlobStore
	resumes      *mockResumeOpener
	auth         *AuthService
	organization *OrganizationService
	posting      *PostingService
	application  *ApplicationService
	profile      *ProfileService
}

func newEnvironment(t *testing.T) *environment {
	t.Cleanup(clearDb)

	bus := EventBus.New()
	blobs := &mockBlobStore{}
	resumes := &mockResumeOpener{}

	accounts := repositories.NewAccountsRepository(dbCtx.DB)
	organizations := repositories.NewOrganizationsRepository(dbCtx.DB)
	postings := repositories.NewPostingsRepository(dbCtx.DB)
	applications := repositories.NewApplicationsRepository(dbCtx.DB)

	postingService, err := NewPostingService(bus, postings, organizations)
	require.NoError(t, err)

	return &environment{
		t:            t,
		ctx:          context.Background(),
		bus:          bus,
		blobs:        blobs,
		resumes:      resumes,
		auth:         NewAuthService(accounts, NewTokenCodec("test-secret", 24*time.Hour), blobs),
		organization: NewOrganizationService(organizations, blobs),
		posting:      postingService,
		application:  NewApplicationService(bus, applications, postings),
		profile:      NewProfileService(accounts, blobs, resumes),
	}
}

func (e *environment) register(name string, role models.Role) *models.Account {
	account, err := e.auth.Register(e.ctx, RegisterInput{
		Fullname:    name,
		Email:       name + "@example.com",
		PhoneNumber: "+100000000",
		Password:    "secret-" + name,
		Role:        string(role),
	})
	require.NoError(e.t, err)
	return account
}

func (e *environment) admin() *models.Account {
	require.NoError(e.t, e.auth.SeedAdmin(e.ctx, "admin@example.com", "admin-secret"))
	account, err := repositories.NewAccountsRepository(dbCtx.DB).GetByEmail(e.ctx, "admin@example.com")
	require.NoError(e.t, err)
	return account
}

func (e *environment) company(owner *models.Account, name string) *models.Organization {
	organization, err := e.organization.Register(e.ctx, owner, name)
	require.NoError(e.t, err)
	return organization
}

func (e *environment) job(owner *models.Account, organization *models.Organization, title string) *models.Posting {
	posting, err := e.posting.Create(e.ctx, owner, PostingInput{
		Title:          title,
		OrganizationID: organization.ID,
		Location:       "Berlin",
		Type:           "Full-time",
		Salary:         60000,
	})
	require.NoError(e.t, err)
	return posting
}
