package repositories

import (
	"context"
	"github.com/maxaizer/job-board/internal/domain/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"strings"
)

type PostingFilter struct {
	Location  string
	Type      string
	Category  string
	Query     string
	SalaryMin *int64
	SalaryMax *int64
}

type Postings struct {
	db *gorm.DB
}

func NewPostingsRepository(db *gorm.DB) *Postings {
	return &Postings{db: db}
}

func (repo *Postings) Add(ctx context.Context, posting *models.Posting) error {
	return translate(repo.db.WithContext(ctx).Omit(clause.Associations).Create(posting).Error)
}

func (repo *Postings) GetByID(ctx context.Context, id string) (*models.Posting, error) {
	var posting models.Posting
	if err := repo.db.WithContext(ctx).Preload("Organization").First(&posting, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &posting, nil
}

func (repo *Postings) GetByOwner(ctx context.Context, ownerID string) ([]models.Posting, error) {
	postings := make([]models.Posting, 0)
	if err := repo.db.WithContext(ctx).
		Preload("Organization").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&postings).Error; err != nil {
		return nil, err
	}
	return postings, nil
}

func (repo *Postings) Update(ctx context.Context, posting *models.Posting) error {
	return translate(repo.db.WithContext(ctx).Omit(clause.Associations).Save(posting).Error)
}

// Search returns one page of active postings matching the filter plus the total
// number of matches.
func (repo *Postings) Search(ctx context.Context, filter PostingFilter, limit, offset int) ([]models.Posting, int64, error) {

	var total int64
	if err := repo.filtered(ctx, filter).Model(&models.Posting{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	postings := make([]models.Posting, 0, limit)
	if total == 0 {
		return postings, 0, nil
	}

	err := repo.filtered(ctx, filter).
		Select("postings.*").
		Preload("Organization").
		Order("postings.featured DESC").
		Order("postings.created_at DESC").
		Order("postings.id").
		Limit(limit).
		Offset(offset).
		Find(&postings).Error
	if err != nil {
		return nil, 0, err
	}

	return postings, total, nil
}

func (repo *Postings) filtered(ctx context.Context, filter PostingFilter) *gorm.DB {
	query := repo.db.WithContext(ctx).
		Table("postings").
		Where("postings.status = ?", models.PostingActive)

	if filter.Location != "" {
		query = query.Where("postings.location = ?", filter.Location)
	}
	if filter.Type != "" {
		query = query.Where("postings.type = ?", filter.Type)
	}
	if filter.Category != "" {
		query = query.Where("postings.category = ?", filter.Category)
	}
	if filter.SalaryMin != nil {
		query = query.Where("postings.salary >= ?", *filter.SalaryMin)
	}
	if filter.SalaryMax != nil {
		query = query.Where("postings.salary <= ?", *filter.SalaryMax)
	}

	if text := strings.TrimSpace(filter.Query); text != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(text)) + "%"
		query = query.
			Joins("LEFT JOIN organizations ON organizations.id = postings.organization_id").
			Where(repo.db.
				Where(`LOWER(postings.title) LIKE ? ESCAPE '\'`, pattern).
				Or(`LOWER(organizations.name) LIKE ? ESCAPE '\'`, pattern).
				Or(`LOWER(postings.description) LIKE ? ESCAPE '\'`, pattern))
	}

	return query
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (repo *Postings) GetFeatured(ctx context.Context, limit int) ([]models.Posting, error) {
	postings := make([]models.Posting, 0, limit)
	if err := repo.db.WithContext(ctx).
		Preload("Organization").
		Where("featured = ? AND status = ?", true, models.PostingActive).
		Order("created_at DESC").
		Limit(limit).
		Find(&postings).Error; err != nil {
		return nil, err
	}
	return postings, nil
}

func (repo *Postings) CountActiveByCategory(ctx context.Context, category models.Category) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&models.Posting{}).
		Where("category = ? AND status = ?", category, models.PostingActive).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// RemoveWithApplications deletes the posting's applications and then the posting,
// both inside one transaction.
func (repo *Postings) RemoveWithApplications(ctx context.Context, postingID string) (int64, error) {
	var removedApplications int64

	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("posting_id = ?", postingID).Delete(&models.Application{})
		if res.Error != nil {
			return res.Error
		}
		removedApplications = res.RowsAffected

		res = tx.Delete(&models.Posting{}, "id = ?", postingID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})

	return removedApplications, err
}
