package repositories

import (
	"context"
	"github.com/maxaizer/job-board/internal/domain/models"
	"gorm.io/gorm"
	"strings"
)

type Accounts struct {
	db *gorm.DB
}

func NewAccountsRepository(db *gorm.DB) *Accounts {
	return &Accounts{db: db}
}

func (repo *Accounts) Add(ctx context.Context, account *models.Account) error {
	account.Email = normalizeEmail(account.Email)
	return translate(repo.db.WithContext(ctx).Create(account).Error)
}

func (repo *Accounts) GetByID(ctx context.Context, id string) (*models.Account, error) {
	var account models.Account
	if err := repo.db.WithContext(ctx).First(&account, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &account, nil
}

func (repo *Accounts) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	if err := repo.db.WithContext(ctx).First(&account, "email = ?", normalizeEmail(email)).Error; err != nil {
		return nil, translate(err)
	}
	return &account, nil
}

func (repo *Accounts) Update(ctx context.Context, account *models.Account) error {
	account.Email = normalizeEmail(account.Email)
	return translate(repo.db.WithContext(ctx).Save(account).Error)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
