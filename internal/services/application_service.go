package services

import (
	"context"
	"github.com/asaskevich/EventBus"
	"github.com/google/uuid"
	"github.com/maxaizer/job-board/internal/access"
	"github.com/maxaizer/job-board/internal/apperr"
	"github.com/maxaizer/job-board/internal/domain/events"
	"github.com/maxaizer/job-board/internal/domain/models"
	"github.com/maxaizer/job-board/internal/metrics"
	"github.com/maxaizer/job-board/internal/repositories"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"strings"
)

const (
	applicationNotFoundMessage = "Application not found"
	alreadyAppliedMessage      = "You have already applied for this job"
	notAcceptingMessage        = "posting is not accepting applications"
)

type applicationRepository interface {
	Add(ctx context.Context, application *models.Application) error
	GetByID(ctx context.Context, id string) (*models.Application, error)
	Exists(ctx context.Context, postingID, applicantID string) (bool, error)
	GetByApplicant(ctx context.Context, applicantID string) ([]models.Application, error)
	GetByPosting(ctx context.Context, postingID string) ([]models.Application, error)
	UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) error
}

type postingReader interface {
	GetByID(ctx context.Context, id string) (*models.Posting, error)
}

type ApplicationService struct {
	applications applicationRepository
	postings     postingReader
	bus          EventBus.Bus
}

func NewApplicationService(bus EventBus.Bus, applications applicationRepository,
	postings postingReader) *ApplicationService {
	return &ApplicationService{applications: applications, postings: postings, bus: bus}
}

func (s *ApplicationService) Apply(ctx context.Context, actor *models.Account, postingID string) (*models.Application, error) {

	if err := access.Authorize(actor, access.ApplyToPosting, access.Resource{Name: "job"}).Err(); err != nil {
		return nil, err
	}

	if strings.TrimSpace(postingID) == "" {
		return nil, apperr.Validation("Job id is required", map[string]string{"jobId": "required"})
	}

	posting, err := s.postings.GetByID(ctx, postingID)
	if err != nil {
		return nil, notFoundOr(err, jobNotFoundMessage)
	}

	if !posting.IsActive() {
		return nil, apperr.Validation(notAcceptingMessage, map[string]string{"status": string(posting.Status)})
	}

	exists, err := s.applications.Exists(ctx, posting.ID, actor.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check existing application")
	}
	if exists {
		return nil, apperr.Conflict(alreadyAppliedMessage)
	}

	application := &models.Application{
		ID:          uuid.NewString(),
		PostingID:   posting.ID,
		ApplicantID: actor.ID,
		Status:      models.ApplicationPending,
	}
	if err = s.applications.Add(ctx, application); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperr.Conflict(alreadyAppliedMessage)
		}
		return nil, errors.Wrap(err, "failed to add application")
	}
	application.Posting = posting

	s.bus.Publish(events.ApplicationSubmittedTopic, events.ApplicationSubmitted{
		ApplicationID: application.ID,
		PostingID:     posting.ID,
		PostingTitle:  posting.Title,
		ApplicantName: actor.Fullname,
	})
	return application, nil
}

// ListForApplicant returns the applications of one seeker, newest first.
func (s *ApplicationService) ListForApplicant(ctx context.Context, actor *models.Account,
	applicantID string) ([]models.Application, error) {

	resource := access.Resource{Name: "Applications", OwnerID: applicantID}
	if err := access.Authorize(actor, access.ReadOwn, resource).Err(); err != nil {
		return nil, err
	}

	applications, err := s.applications.GetByApplicant(ctx, applicantID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get applications")
	}
	return applications, nil
}

// ListForPosting returns a posting's applicants. Only the posting owner and
// administrators see them.
func (s *ApplicationService) ListForPosting(ctx context.Context, actor *models.Account,
	postingID string) ([]models.ApplicantView, error) {

	if err := requirePrincipal(actor); err != nil {
		return nil, err
	}

	posting, err := s.postings.GetByID(ctx, postingID)
	if err != nil {
		return nil, notFoundOr(err, jobNotFoundMessage)
	}

	resource := access.Resource{Name: "Job", OwnerID: posting.OwnerID}
	if err = access.Authorize(actor, access.ReadOwn, resource).Err(); err != nil {
		return nil, err
	}

	applications, err := s.applications.GetByPosting(ctx, posting.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get applicants")
	}

	return lo.Map(applications, func(application models.Application, _ int) models.ApplicantView {
		view := models.ApplicantView{Application: application}
		if application.Applicant != nil {
			view.Applicant = application.Applicant.Summary()
		}
		return view
	}), nil
}

// UpdateStatus moves an application out of pending. Terminal statuses are final;
// repeating the current status changes nothing.
func (s *ApplicationService) UpdateStatus(ctx context.Context, actor *models.Account, id string,
	status string) (*models.Application, error) {

	next, err := models.ToApplicationStatus(strings.ToLower(strings.TrimSpace(status)))
	if err != nil {
		return nil, apperr.Validation(invalidStatusMessage, map[string]string{"status": err.Error()})
	}

	if err = requirePrincipal(actor); err != nil {
		return nil, err
	}

	application, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, applicationNotFoundMessage)
	}

	posting, err := s.postings.GetByID(ctx, application.PostingID)
	if err != nil {
		return nil, notFoundOr(err, jobNotFoundMessage)
	}

	resource := access.Resource{Name: "Application", OwnerID: posting.OwnerID}
	if err = access.Authorize(actor, access.UpdateApplicationStatus, resource).Err(); err != nil {
		return nil, err
	}

	previous := application.Status
	if err = previous.CheckTransition(next); err != nil {
		return nil, apperr.New(apperr.KindConflict, "Application has already been "+string(previous), err)
	}
	if previous == next {
		return application, nil
	}

	if err = s.applications.UpdateStatus(ctx, application.ID, next); err != nil {
		return nil, notFoundOr(err, applicationNotFoundMessage)
	}
	application.Status = next

	metrics.ApplicationTransitions.WithLabelValues(string(next)).Inc()
	s.bus.Publish(events.ApplicationStatusChangedTopic, events.ApplicationStatusChanged{
		ApplicationID: application.ID,
		PostingTitle:  posting.Title,
		From:          previous,
		To:            next,
	})
	log.Infof("application %s moved from %s to %s", application.ID, previous, next)
	return application, nil
}
