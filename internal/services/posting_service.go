package services

import (
	"context"
	"github.com/asaskevich/EventBus"
	"github.com/google/uuid"
	"github.com/maxaizer/job-board/internal/access"
	"github.com/maxaizer/job-board/internal/apperr"
	"github.com/maxaizer/job-board/internal/domain/events"
	"github.com/maxaizer/job-board/internal/domain/models"
	"github.com/maxaizer/job-board/internal/repositories"
	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"strings"
	"time"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
	featuredLimit    = 6

	jobNotFoundMessage    = "Job not found"
	categoryCountsKey     = "category_counts"
	categoryCountsTTL     = time.Minute
	invalidStatusMessage  = "Invalid status value"
	companyMissingMessage = "Company information is required"
)

type postingRepository interface {
	Add(ctx context.Context, posting *models.Posting) error
	GetByID(ctx context.Context, id string) (*models.Posting, error)
	GetByOwner(ctx context.Context, ownerID string) ([]models.Posting, error)
	Update(ctx context.Context, posting *models.Posting) error
	Search(ctx context.Context, filter repositories.PostingFilter, limit, offset int) ([]models.Posting, int64, error)
	GetFeatured(ctx context.Context, limit int) ([]models.Posting, error)
	CountActiveByCategory(ctx context.Context, category models.Category) (int64, error)
	RemoveWithApplications(ctx context.Context, id string) (int64, error)
}

type organizationReader interface {
	GetByID(ctx context.Context, id string) (*models.Organization, error)
}

type PostingInput struct {
	Title          string
	OrganizationID string
	Location       string
	Type           string
	Category       string
	Salary         int64
	Description    string
	Status         string
	Featured       bool
}

// PostingUpdate holds the fields of a full update; nil values are left as they are.
type PostingUpdate struct {
	Title          *string
	OrganizationID *string
	Location       *string
	Type           *string
	Category       *string
	Salary         *int64
	Description    *string
	Status         *string
	Featured       *bool
}

type SearchQuery struct {
	Location string
	Type     string
	Salary   string
	Query    string
	Category string
	Page     int
	Limit    int
}

type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

type SearchResult struct {
	Postings   []models.Posting `json:"jobs"`
	Pagination Pagination       `json:"pagination"`
}

type PostingService struct {
	postings      postingRepository
	organizations organizationReader
	bus           EventBus.Bus
	cache         *gocache.Cache
}

func NewPostingService(bus EventBus.Bus, postings postingRepository,
	organizations organizationReader) (*PostingService, error) {

	s := &PostingService{
		postings:      postings,
		organizations: organizations,
		bus:           bus,
		cache:         gocache.New(categoryCountsTTL, 2*categoryCountsTTL),
	}

	if err := bus.Subscribe(events.PostingChangedTopic, s.onPostingChanged); err != nil {
		return nil, err
	}
	if err := bus.Subscribe(events.PostingDeletedTopic, s.onPostingDeleted); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *PostingService) Create(ctx context.Context, actor *models.Account, input PostingInput) (*models.Posting, error) {

	// role gate first, so seekers are refused before any lookup
	roleGate := access.Resource{Name: "company", OwnerID: ownerIDOf(actor)}
	if err := access.Authorize(actor, access.CreatePosting, roleGate).Err(); err != nil {
		return nil, err
	}

	posting := &models.Posting{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(input.Title),
		Location:    strings.TrimSpace(input.Location),
		Type:        strings.TrimSpace(input.Type),
		Salary:      input.Salary,
		Description: input.Description,
		Status:      models.PostingActive,
		Featured:    input.Featured,
	}

	fields := map[string]string{}
	if posting.Title == "" {
		fields["title"] = "required"
	}
	if input.Salary < 0 {
		fields["salary"] = "must not be negative"
	}
	category, err := models.ToCategory(input.Category)
	if err != nil {
		fields["category"] = err.Error()
	}
	posting.Category = category
	if input.Status != "" {
		if posting.Status, err = models.ToPostingStatus(input.Status); err != nil {
			fields["status"] = err.Error()
		}
	}
	if len(fields) > 0 {
		return nil, apperr.Validation("Invalid job data", fields)
	}

	if strings.TrimSpace(input.OrganizationID) == "" {
		return nil, apperr.Validation(companyMissingMessage, map[string]string{"companyId": "required"})
	}

	organization, err := s.organizations.GetByID(ctx, input.OrganizationID)
	if err != nil {
		return nil, notFoundOr(err, companyNotFoundMessage)
	}

	resource := access.Resource{Name: "Company", OwnerID: organization.OwnerID}
	if err = access.Authorize(actor, access.CreatePosting, resource).Err(); err != nil {
		return nil, err
	}

	posting.OrganizationID = organization.ID
	posting.OwnerID = organization.OwnerID

	if err = s.postings.Add(ctx, posting); err != nil {
		return nil, errors.Wrap(err, "failed to add job")
	}
	posting.Organization = organization

	s.bus.Publish(events.PostingChangedTopic, events.PostingChanged{PostingID: posting.ID, Status: posting.Status})
	log.Infof("job %s posted under company %s", posting.ID, organization.ID)
	return posting, nil
}

func (s *PostingService) Search(ctx context.Context, query SearchQuery) (*SearchResult, error) {

	filter := repositories.PostingFilter{
		Location: strings.TrimSpace(query.Location),
		Type:     strings.TrimSpace(query.Type),
		Category: strings.TrimSpace(query.Category),
		Query:    strings.TrimSpace(query.Query),
	}

	if query.Salary != "" {
		min, max, err := models.SalaryBand(query.Salary).Range()
		if err != nil {
			return nil, apperr.Validation("Invalid salary range", map[string]string{"salary": err.Error()})
		}
		filter.SalaryMin, filter.SalaryMax = &min, max
	}

	page, limit := normalizePage(query.Page, query.Limit)

	postings, total, err := s.postings.Search(ctx, filter, limit, (page-1)*limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to search jobs")
	}

	return &SearchResult{
		Postings: postings,
		Pagination: Pagination{
			Total: total,
			Page:  page,
			Limit: limit,
			Pages: int((total + int64(limit) - 1) / int64(limit)),
		},
	}, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

func (s *PostingService) Get(ctx context.Context, id string) (*models.Posting, error) {
	posting, err := s.postings.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, jobNotFoundMessage)
	}
	return posting, nil
}

func (s *PostingService) Featured(ctx context.Context) ([]models.Posting, error) {
	postings, err := s.postings.GetFeatured(ctx, featuredLimit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get featured jobs")
	}
	return postings, nil
}

// Counts returns the number of active postings in every category.
func (s *PostingService) Counts(ctx context.Context) ([]models.CategoryCount, error) {

	if cached, found := s.cache.Get(categoryCountsKey); found {
		return cached.([]models.CategoryCount), nil
	}

	counts := make([]models.CategoryCount, len(models.Categories))
	g, gCtx := errgroup.WithContext(ctx)

	for i, category := range models.Categories {
		g.Go(func() error {
			count, err := s.postings.CountActiveByCategory(gCtx, category)
			if err != nil {
				return errors.Wrapf(err, "failed to count %s jobs", category)
			}
			counts[i] = models.CategoryCount{Category: category, Count: count}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.cache.Set(categoryCountsKey, counts, gocache.DefaultExpiration)
	return counts, nil
}

func (s *PostingService) ListOwn(ctx context.Context, actor *models.Account) ([]models.Posting, error) {
	if err := requirePrincipal(actor); err != nil {
		return nil, err
	}

	postings, err := s.postings.GetByOwner(ctx, actor.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get jobs")
	}
	return postings, nil
}

// Update replaces any subset of a posting's fields. Only administrators may do this.
func (s *PostingService) Update(ctx context.Context, actor *models.Account, id string,
	update PostingUpdate) (*models.Posting, error) {

	if err := access.Authorize(actor, access.ReplacePosting, access.Resource{Name: "job"}).Err(); err != nil {
		return nil, err
	}

	fields := map[string]string{}
	var category models.Category
	var status models.PostingStatus
	var err error

	if update.Category != nil {
		if category, err = models.ToCategory(*update.Category); err != nil {
			fields["category"] = err.Error()
		}
	}
	if update.Status != nil {
		if status, err = models.ToPostingStatus(*update.Status); err != nil {
			fields["status"] = err.Error()
		}
	}
	if update.Salary != nil && *update.Salary < 0 {
		fields["salary"] = "must not be negative"
	}
	if update.Title != nil && strings.TrimSpace(*update.Title) == "" {
		fields["title"] = "must not be empty"
	}
	if len(fields) > 0 {
		return nil, apperr.Validation("Invalid job data", fields)
	}

	posting, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.OrganizationID != nil && *update.OrganizationID != posting.OrganizationID {
		organization, err := s.organizations.GetByID(ctx, *update.OrganizationID)
		if err != nil {
			return nil, notFoundOr(err, companyNotFoundMessage)
		}
		posting.OrganizationID = organization.ID
		posting.OwnerID = organization.OwnerID
		posting.Organization = organization
	}
	if update.Title != nil {
		posting.Title = strings.TrimSpace(*update.Title)
	}
	if update.Location != nil {
		posting.Location = *update.Location
	}
	if update.Type != nil {
		posting.Type = *update.Type
	}
	if update.Category != nil {
		posting.Category = category
	}
	if update.Salary != nil {
		posting.Salary = *update.Salary
	}
	if update.Description != nil {
		posting.Description = *update.Description
	}
	if update.Status != nil {
		posting.Status = status
	}
	if update.Featured != nil {
		posting.Featured = *update.Featured
	}

	if err = s.postings.Update(ctx, posting); err != nil {
		return nil, errors.Wrap(err, "failed to update job")
	}

	s.bus.Publish(events.PostingChangedTopic, events.PostingChanged{PostingID: posting.ID, Status: posting.Status})
	return posting, nil
}

// SetStatus changes a posting's lifecycle status. Setting the current status is a no-op.
func (s *PostingService) SetStatus(ctx context.Context, actor *models.Account, id string,
	status string) (*models.Posting, error) {

	next, err := models.ToPostingStatus(status)
	if err != nil {
		return nil, apperr.Validation(invalidStatusMessage, map[string]string{"status": err.Error()})
	}

	posting, err := s.authorizedPosting(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if posting.Status == next {
		return posting, nil
	}

	posting.Status = next
	if err = s.postings.Update(ctx, posting); err != nil {
		return nil, errors.Wrap(err, "failed to update job status")
	}

	s.bus.Publish(events.PostingChangedTopic, events.PostingChanged{PostingID: posting.ID, Status: posting.Status})
	log.Infof("job %s status set to %s by %s", posting.ID, posting.Status, actor.ID)
	return posting, nil
}

// Delete removes a posting together with all of its applications.
func (s *PostingService) Delete(ctx context.Context, actor *models.Account, id string) error {

	posting, err := s.authorizedPosting(ctx, actor, id)
	if err != nil {
		return err
	}

	removed, err := s.postings.RemoveWithApplications(ctx, posting.ID)
	if err != nil {
		return notFoundOr(err, jobNotFoundMessage)
	}

	s.bus.Publish(events.PostingDeletedTopic, events.PostingDeleted{PostingID: posting.ID, RemovedApplications: removed})
	log.Infof("job %s removed by %s with %d applications", posting.ID, actor.ID, removed)
	return nil
}

func (s *PostingService) authorizedPosting(ctx context.Context, actor *models.Account, id string) (*models.Posting, error) {

	if err := requirePrincipal(actor); err != nil {
		return nil, err
	}

	posting, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	resource := access.Resource{Name: "Job", OwnerID: posting.OwnerID}
	if err = access.Authorize(actor, access.MutatePosting, resource).Err(); err != nil {
		return nil, err
	}

	return posting, nil
}

func (s *PostingService) onPostingChanged(_ events.PostingChanged) {
	s.cache.Delete(categoryCountsKey)
}

func (s *PostingService) onPostingDeleted(_ events.PostingDeleted) {
	s.cache.Delete(categoryCountsKey)
}

func ownerIDOf(actor *models.Account) string {
	if actor == nil {
		return ""
	}
	return actor.ID
}
