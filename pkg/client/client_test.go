package client

import (
	"bytes"
	"context"
	"encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"io"
	"net/http"
	"path/filepath"
	"testing"
)

type mockHTTPClient struct {
	mock.Mock
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	return args.Get(0).(*http.Response), args.Error(1)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}

func newTestClient(httpClient HTTPClient) *Client {
	c := NewClient("http://jobs.local/")
	c.SetHTTPClient(httpClient)
	return c
}

func Test_Client_LoginStoresSessionAndAuthenticatesLaterCalls(t *testing.T) {
	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		if req.URL.String() != "http://jobs.local/api/v1/user/login" || req.Method != http.MethodPost {
			return false
		}
		var body map[string]string
		_ = json.NewDecoder(req.Body).Decode(&body)
		return body["email"] == "sam@example.com" && body["role"] == "seeker"
	})).Return(jsonResponse(200, `{"token":"t0k","user":{"id":"u1","fullname":"Sam","role":"seeker"},"success":true}`), nil)

	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.URL.String() == "http://jobs.local/api/v1/application/user/u1" &&
			req.Header.Get("Authorization") == "Bearer t0k"
	})).Return(jsonResponse(200, `{"applications":[{"id":"a1","posting_id":"p1","status":"pending"}]}`), nil)

	c := newTestClient(mockClient)
	session, err := NewSession(nil)
	require.NoError(t, err)

	user, err := c.Login(context.Background(), session, "sam@example.com", "secret", "seeker")
	require.NoError(t, err)
	assert.Equal(t, "Sam", user.Fullname)
	assert.True(t, session.Authenticated())

	applications, err := c.MyApplications(context.Background(), session)
	require.NoError(t, err)
	require.Len(t, applications, 1)
	assert.Equal(t, "p1", applications[0].JobID)
	mockClient.AssertExpectations(t)
}

func Test_Client_MyApplicationsRequiresLogin(t *testing.T) {
	c := newTestClient(&mockHTTPClient{})
	session, _ := NewSession(nil)

	_, err := c.MyApplications(context.Background(), session)

	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func Test_Client_SearchJobsEncodesQuery(t *testing.T) {
	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.URL.String() == "http://jobs.local/api/v1/job/all?category=Technology&page=2&query=go+dev&salary=100000%2B"
	})).Return(jsonResponse(200, `{"jobs":[{"id":"p1","title":"Go dev"}],"pagination":{"total":21,"page":2,"limit":20,"pages":2}}`), nil)

	page, err := newTestClient(mockClient).SearchJobs(context.Background(), JobQuery{
		Query:    "go dev",
		Category: "Technology",
		Salary:   "100000+",
		Page:     2,
	})

	require.NoError(t, err)
	assert.Len(t, page.Jobs, 1)
	assert.Equal(t, 2, page.Pagination.Pages)
	mockClient.AssertExpectations(t)
}

func Test_Client_ErrorResponsesBecomeAPIErrors(t *testing.T) {
	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.Anything).Return(jsonResponse(409,
		`{"success":false,"message":"You have already applied for this job"}`), nil)

	session, _ := NewSession(nil)
	_, err := newTestClient(mockClient).Apply(context.Background(), session, "p1")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "You have already applied for this job", apiErr.Message)
}

func Test_Client_LogoutClearsSessionEvenOnFailure(t *testing.T) {
	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.Anything).Return(jsonResponse(502, "bad gateway"), nil)

	store := NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, store.Save(Snapshot{Token: "t0k", User: &User{ID: "u1"}}))
	session, err := NewSession(store)
	require.NoError(t, err)
	require.True(t, session.Authenticated())

	err = newTestClient(mockClient).Logout(context.Background(), session)

	assert.Error(t, err)
	assert.False(t, session.Authenticated())
	restored, err := NewSession(store)
	require.NoError(t, err)
	assert.False(t, restored.Authenticated())
}

func Test_Client_RegisterSendsMultipartForm(t *testing.T) {
	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		if err := req.ParseMultipartForm(1 << 20); err != nil {
			return false
		}
		return req.FormValue("email") == "rita@example.com" && req.FormValue("role") == "recruiter"
	})).Return(jsonResponse(201, `{"user":{"id":"u2","role":"recruiter"},"success":true}`), nil)

	user, err := newTestClient(mockClient).Register(context.Background(), Registration{
		Fullname:    "Rita",
		Email:       "rita@example.com",
		PhoneNumber: "+1",
		Password:    "secret",
		Role:        "recruiter",
	})

	require.NoError(t, err)
	assert.Equal(t, "u2", user.ID)
}
