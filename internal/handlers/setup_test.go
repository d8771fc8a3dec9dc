package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"github.com/asaskevich/EventBus"
	"github.com/gin-gonic/gin"
	"github.com/maxaizer/job-board/internal/clients/media"
	"github.com/maxaizer/job-board/internal/repositories"
	"github.com/maxaizer/job-board/internal/services"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"
	"time"
)

var dbCtx *repositories.DbContext

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	dir, err := os.MkdirTemp("", "jobboard-handlers")
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

type server struct {
	t       *testing.T
	router  *gin.Engine
	auth    *services.AuthService
	blobs   *mockBlobStore
	resumes *mockResumeOpener
}

func newServer(t *testing.T, loginAttemptsPerMinute float64) *server {
	t.Cleanup(clearDb)

	bus := EventBus.New()
	blobs := &mockBlobStore{}
	resumes := &mockResumeOpener{}

	accounts := repositories.NewAccountsRepository(dbCtx.DB)
	organizations := repositories.NewOrganizationsRepository(dbCtx.DB)
	postings := repositories.NewPostingsRepository(dbCtx.DB)
	applications := repositories.NewApplicationsRepository(dbCtx.DB)

	postingService, err := services.NewPostingService(bus, postings, organizations)
	require.NoError(t, err)
	auth := services.NewAuthService(accounts, services.NewTokenCodec("handlers-secret", time.Hour), blobs)

	router := NewRouter(Dependencies{
		Auth:                   auth,
		Profiles:               services.NewProfileService(accounts, blobs, resumes),
		Organizations:          services.NewOrganizationService(organizations, blobs),
		Postings:               postingService,
		Applications:           services.NewApplicationService(bus, applications, postings),
		DB:                     dbCtx,
		AllowedOrigins:         []string{"http://localhost:5173"},
		LoginAttemptsPerMinute: loginAttemptsPerMinute,
	})

	return &server{t: t, router: router, auth: auth, blobs: blobs, resumes: resumes}
}

type upload struct {
	filename    string
	contentType string
	content     []byte
}

func (s *server) do(method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *server) json(method, path, token string, payload any) *httptest.ResponseRecorder {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(s.t, err)
		body = bytes.NewReader(raw)
	}
	return s.do(method, path, token, body, "application/json")
}

func (s *server) multipart(method, path, token string, fields map[string]string, file *upload) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, value := range fields {
		require.NoError(s.t, writer.WriteField(name, value))
	}
	if file != nil {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="file"; filename="`+file.filename+`"`)
		header.Set("Content-Type", file.contentType)
		part, err := writer.CreatePart(header)
		require.NoError(s.t, err)
		_, err = part.Write(file.content)
		require.NoError(s.t, err)
	}
	require.NoError(s.t, writer.Close())
	return s.do(method, path, token, &buf, writer.FormDataContentType())
}

// signup registers an account and logs it in, returning the account id and token.
func (s *server) signup(name, role string) (string, string) {
	w := s.multipart(http.MethodPost, "/api/v1/user/register", "", map[string]string{
		"fullname":    name,
		"email":       name + "@example.com",
		"phoneNumber": "+100000000",
		"password":    "secret-" + name,
		"role":        role,
	}, nil)
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	w = s.json(http.MethodPost, "/api/v1/user/login", "", map[string]string{
		"email":    name + "@example.com",
		"password": "secret-" + name,
		"role":     role,
	})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	decode(s.t, w, &body)
	return body.User.ID, body.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, target any) {
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), target), w.Body.String())
}

type errorBody struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}
