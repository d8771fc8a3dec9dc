package repositories

import (
	"context"
	"github.com/maxaizer/job-board/internal/domain/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Applications struct {
	db *gorm.DB
}

func NewApplicationsRepository(db *gorm.DB) *Applications {
	return &Applications{db: db}
}

func (repo *Applications) Add(ctx context.Context, application *models.Application) error {
	return translate(repo.db.WithContext(ctx).Omit(clause.Associations).Create(application).Error)
}

func (repo *Applications) GetByID(ctx context.Context, id string) (*models.Application, error) {
	var application models.Application
	if err := repo.db.WithContext(ctx).First(&application, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &application, nil
}

func (repo *Applications) Exists(ctx context.Context, postingID, applicantID string) (bool, error) {
	var count int64
	err := repo.db.WithContext(ctx).Model(&models.Application{}).
		Where("posting_id = ? AND applicant_id = ?", postingID, applicantID).
		Count(&count).Error
	return count > 0, err
}

func (repo *Applications) GetByApplicant(ctx context.Context, applicantID string) ([]models.Application, error) {
	applications := make([]models.Application, 0)
	if err := repo.db.WithContext(ctx).
		Preload("Posting").
		Preload("Posting.Organization").
		Where("applicant_id = ?", applicantID).
		Order("created_at DESC").
		Find(&applications).Error; err != nil {
		return nil, err
	}
	return applications, nil
}

func (repo *Applications) GetByPosting(ctx context.Context, postingID string) ([]models.Application, error) {
	applications := make([]models.Application, 0)
	if err := repo.db.WithContext(ctx).
		Preload("Applicant").
		Where("posting_id = ?", postingID).
		Order("created_at DESC").
		Find(&applications).Error; err != nil {
		return nil, err
	}
	return applications, nil
}

func (repo *Applications) CountByPosting(ctx context.Context, postingID string) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).Model(&models.Application{}).
		Where("posting_id = ?", postingID).
		Count(&count).Error
	return count, err
}

func (repo *Applications) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) error {
	res := repo.db.WithContext(ctx).Model(&models.Application{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveOrphans deletes applications whose posting no longer exists.
func (repo *Applications) RemoveOrphans(ctx context.Context) (int64, error) {
	existing := repo.db.Model(&models.Posting{}).Select("id")
	res := repo.db.WithContext(ctx).
		Where("posting_id NOT IN (?)", existing).
		Delete(&models.Application{})
	return res.RowsAffected, res.Error
}
