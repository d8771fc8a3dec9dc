package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
)

var ErrNotLoggedIn = errors.New("session is not logged in")

func (c *Client) Register(ctx context.Context, registration Registration) (*User, error) {
	r, err := multipartRequest(http.MethodPost, "/user/register", nil, map[string]string{
		"fullname":    registration.Fullname,
		"email":       registration.Email,
		"phoneNumber": registration.PhoneNumber,
		"password":    registration.Password,
		"role":        registration.Role,
	})
	if err != nil {
		return nil, err
	}

	var resp struct {
		User User `json:"user"`
	}
	if err = c.call(ctx, r, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Login authenticates and stores the token and user in the session.
func (c *Client) Login(ctx context.Context, session *Session, email, password, role string) (*User, error) {
	r, err := c.jsonRequest(http.MethodPost, "/user/login", nil, map[string]string{
		"email":    email,
		"password": password,
		"role":     role,
	})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
	if err = c.call(ctx, r, &resp); err != nil {
		return nil, err
	}

	if err = session.set(Snapshot{Token: resp.Token, User: &resp.User}); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Logout forgets the session locally even when the server can't be reached.
func (c *Client) Logout(ctx context.Context, session *Session) error {
	callErr := c.call(ctx, request{method: http.MethodGet, path: "/user/logout", session: session}, nil)
	if err := session.clear(); err != nil {
		return err
	}
	return callErr
}

type ProfileChanges struct {
	Fullname    string
	Email       string
	PhoneNumber string
	Bio         string
	Skills      string
}

func (c *Client) UpdateProfile(ctx context.Context, session *Session, changes ProfileChanges) (*User, error) {
	r, err := multipartRequest(http.MethodPut, "/user/profile/update", session, map[string]string{
		"fullname":    changes.Fullname,
		"email":       changes.Email,
		"phoneNumber": changes.PhoneNumber,
		"bio":         changes.Bio,
		"skills":      changes.Skills,
	})
	if err != nil {
		return nil, err
	}

	var resp struct {
		User User `json:"user"`
	}
	if err = c.call(ctx, r, &resp); err != nil {
		return nil, err
	}
	if err = session.setUser(&resp.User); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) SearchJobs(ctx context.Context, query JobQuery) (*JobPage, error) {
	path := "/job/all"
	if params := query.ToUrlParams(); len(params) > 0 {
		path += "?" + params.Encode()
	}

	var page JobPage
	if err := c.call(ctx, request{method: http.MethodGet, path: path}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) FeaturedJobs(ctx context.Context) ([]Job, error) {
	var resp struct {
		Jobs []Job `json:"jobs"`
	}
	if err := c.call(ctx, request{method: http.MethodGet, path: "/job/featured"}, &resp); err != nil {
		return nil, err
	}
	return resp.Jobs, nil
}

func (c *Client) CategoryCounts(ctx context.Context) ([]CategoryCount, error) {
	var resp struct {
		Categories []CategoryCount `json:"categories"`
	}
	if err := c.call(ctx, request{method: http.MethodGet, path: "/job/counts"}, &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

func (c *Client) GetJob(ctx context.Context, id string) (*Job, error) {
	var resp struct {
		Job Job `json:"job"`
	}
	if err := c.call(ctx, request{method: http.MethodGet, path: "/job/" + url.PathEscape(id)}, &resp); err != nil {
		return nil, err
	}
	return &resp.Job, nil
}

func (c *Client) PostJob(ctx context.Context, session *Session, job NewJob) (*Job, error) {
	r, err := c.jsonRequest(http.MethodPost, "/job/postjob", session, job)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Job Job `json:"job"`
	}
	if err = c.call(ctx, r, &resp); err != nil {
		return nil, err
	}
	return &resp.Job, nil
}

func (c *Client) OwnJobs(ctx context.Context, session *Session) ([]Job, error) {
	var resp struct {
		Jobs []Job `json:"jobs"`
	}
	r := request{method: http.MethodGet, path: "/job/getadminjobs", session: session}
	if err := c.call(ctx, r, &resp); err != nil {
		return nil, err
	}
	return resp.Jobs, nil
}

func (c *Client) SetJobStatus(ctx context.Context, session *Session, id, status string) (*Job, error) {
	r, err := c.jsonRequest(http.MethodPatch, "/job/"+url.PathEscape(id)+"/status", session, map[string]string{"status": status})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Job Job `json:"job"`
	}
	if err = c.call(ctx, r, &resp); err != nil {
		return nil, err
	}
	return &resp.Job, nil
}

func (c *Client) DeleteJob(ctx context.Context, session *Session, id string) error {
	return c.call(ctx, request{method: http.MethodDelete, path: "/job/" + url.PathEscape(id), session: session}, nil)
}

func (c *Client) RegisterCompany(ctx context.Context, session *Session, name string) (*Company, error) {
	r, err := c.jsonRequest(http.MethodPost, "/company/register", session, map[string]string{"companyName": name})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Company Company `json:"company"`
	}
	if err = c.call(ctx, r, &resp); err != nil {
		return nil, err
	}
	return &resp.Company, nil
}

func (c *Client) OwnCompanies(ctx context.Context, session *Session) ([]Company, error) {
	var resp struct {
		Companies []Company `json:"companies"`
	}
	r := request{method: http.MethodGet, path: "/company/getcompany", session: session}
	if err := c.call(ctx, r, &resp); err != nil {
		return nil, err
	}
	return resp.Companies, nil
}

func (c *Client) Apply(ctx context.Context, session *Session, jobID string) (*Application, error) {
	r, err := c.jsonRequest(http.MethodPost, "/application", session, map[string]string{"jobId": jobID})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Application Application `json:"application"`
	}
	if err = c.call(ctx, r, &resp); err != nil {
		return nil, err
	}
	return &resp.Application, nil
}

// MyApplications lists the applications of the logged in user.
func (c *Client) MyApplications(ctx context.Context, session *Session) ([]Application, error) {
	user := session.User()
	if user == nil {
		return nil, ErrNotLoggedIn
	}

	var resp struct {
		Applications []Application `json:"applications"`
	}
	r := request{method: http.MethodGet, path: "/application/user/" + url.PathEscape(user.ID), session: session}
	if err := c.call(ctx, r, &resp); err != nil {
		return nil, err
	}
	return resp.Applications, nil
}

func (c *Client) Applicants(ctx context.Context, session *Session, jobID string) ([]Applicant, error) {
	var resp struct {
		Applicants []Applicant `json:"applicants"`
	}
	r := request{method: http.MethodGet, path: "/application/posting/" + url.PathEscape(jobID), session: session}
	if err := c.call(ctx, r, &resp); err != nil {
		return nil, err
	}
	return resp.Applicants, nil
}

func (c *Client) SetApplicationStatus(ctx context.Context, session *Session, id, status string) (*Application, error) {
	r, err := c.jsonRequest(http.MethodPatch, "/application/"+url.PathEscape(id)+"/status", session,
		map[string]string{"status": status})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Application Application `json:"application"`
	}
	if err = c.call(ctx, r, &resp); err != nil {
		return nil, err
	}
	return &resp.Application, nil
}

func multipartRequest(method, path string, session *Session, fields map[string]string) (request, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, value := range fields {
		if value == "" {
			continue
		}
		if err := writer.WriteField(name, value); err != nil {
			return request{}, fmt.Errorf("error writing form field %s: %v", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return request{}, fmt.Errorf("error closing form: %v", err)
	}

	return request{
		method:      method,
		path:        path,
		session:     session,
		body:        &buf,
		contentType: writer.FormDataContentType(),
	}, nil
}
