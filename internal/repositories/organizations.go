package repositories

import (
	"context"
	"github.com/maxaizer/job-board/internal/domain/models"
	"gorm.io/gorm"
)

type Organizations struct {
	db *gorm.DB
}

func NewOrganizationsRepository(db *gorm.DB) *Organizations {
	return &Organizations{db: db}
}

func (repo *Organizations) Add(ctx context.Context, organization *models.Organization) error {
	return translate(repo.db.WithContext(ctx).Create(organization).Error)
}

func (repo *Organizations) GetByID(ctx context.Context, id string) (*models.Organization, error) {
	var organization models.Organization
	if err := repo.db.WithContext(ctx).First(&organization, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &organization, nil
}

func (repo *Organizations) GetByName(ctx context.Context, name string) (*models.Organization, error) {
	var organization models.Organization
	if err := repo.db.WithContext(ctx).First(&organization, "name = ?", name).Error; err != nil {
		return nil, translate(err)
	}
	return &organization, nil
}

func (repo *Organizations) GetByOwner(ctx context.Context, ownerID string) ([]models.Organization, error) {
	organizations := make([]models.Organization, 0)
	if err := repo.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&organizations).Error; err != nil {
		return nil, err
	}
	return organizations, nil
}

func (repo *Organizations) Update(ctx context.Context, organization *models.Organization) error {
	return translate(repo.db.WithContext(ctx).Save(organization).Error)
}
