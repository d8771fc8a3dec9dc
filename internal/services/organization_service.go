package services

import (
	"context"
	"github.com/google/uuid"
	"github.com/maxaizer/job-board/internal/access"
	"github.com/maxaizer/job-board/internal/apperr"
	"github.com/maxaizer/job-board/internal/clients/media"
	"github.com/maxaizer/job-board/internal/domain/models"
	"github.com/maxaizer/job-board/internal/repositories"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"strings"
)

const (
	companyNotFoundMessage = "Company not found"
	companyTakenMessage    = "You can't register same company"
)

type organizationRepository interface {
	Add(ctx context.Context, organization *models.Organization) error
	GetByID(ctx context.Context, id string) (*models.Organization, error)
	GetByName(ctx context.Context, name string) (*models.Organization, error)
	GetByOwner(ctx context.Context, ownerID string) ([]models.Organization, error)
	Update(ctx context.Context, organization *models.Organization) error
}

// OrganizationUpdate holds the fields to change; empty values are left as they are.
type OrganizationUpdate struct {
	Name        string
	Description string
	Website     string
	Location    string
	Logo        *FileInput
}

type OrganizationService struct {
	organizations organizationRepository
	blobs         BlobStore
}

func NewOrganizationService(organizations organizationRepository, blobs BlobStore) *OrganizationService {
	return &OrganizationService{organizations: organizations, blobs: blobs}
}

func (s *OrganizationService) Register(ctx context.Context, actor *models.Account, name string) (*models.Organization, error) {

	if err := access.Authorize(actor, access.CreateOrganization, access.Resource{Name: "company"}).Err(); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("Company name is required", map[string]string{"companyName": "required"})
	}

	if err := s.ensureNameFree(ctx, name, ""); err != nil {
		return nil, err
	}

	organization := &models.Organization{ID: uuid.NewString(), Name: name, OwnerID: actor.ID}
	if err := s.organizations.Add(ctx, organization); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperr.Conflict(companyTakenMessage)
		}
		return nil, errors.Wrap(err, "failed to add company")
	}

	log.Infof("company %s registered by %s", organization.ID, actor.ID)
	return organization, nil
}

func (s *OrganizationService) ListOwn(ctx context.Context, actor *models.Account) ([]models.Organization, error) {
	if err := requirePrincipal(actor); err != nil {
		return nil, err
	}

	organizations, err := s.organizations.GetByOwner(ctx, actor.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get companies")
	}
	return organizations, nil
}

func (s *OrganizationService) Get(ctx context.Context, id string) (*models.Organization, error) {
	organization, err := s.organizations.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, companyNotFoundMessage)
	}
	return organization, nil
}

func (s *OrganizationService) Update(ctx context.Context, actor *models.Account, id string,
	update OrganizationUpdate) (*models.Organization, error) {

	if err := requirePrincipal(actor); err != nil {
		return nil, err
	}

	organization, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	resource := access.Resource{Name: "Company", OwnerID: organization.OwnerID}
	if err = access.Authorize(actor, access.MutateOrganization, resource).Err(); err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(update.Name); name != "" && name != organization.Name {
		if err = s.ensureNameFree(ctx, name, organization.ID); err != nil {
			return nil, err
		}
		organization.Name = name
	}
	if update.Description != "" {
		organization.Description = update.Description
	}
	if update.Website != "" {
		organization.Website = update.Website
	}
	if update.Location != "" {
		organization.Location = update.Location
	}

	if update.Logo != nil {
		organization.LogoURL, err = upload(ctx, s.blobs, update.Logo, media.UploadOptions{
			Folder:   media.LogosFolder,
			Filename: update.Logo.Filename,
		})
		if err != nil {
			return nil, err
		}
	}

	if err = s.organizations.Update(ctx, organization); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperr.Conflict(companyTakenMessage)
		}
		return nil, errors.Wrap(err, "failed to update company")
	}

	return organization, nil
}

func (s *OrganizationService) ensureNameFree(ctx context.Context, name, selfID string) error {
	existing, err := s.organizations.GetByName(ctx, name)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "failed to check company name")
	}
	if existing.ID != selfID {
		return apperr.Conflict(companyTakenMessage)
	}
	return nil
}
