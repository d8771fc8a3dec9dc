package models

import (
	"fmt"
	"time"
)

type PostingStatus string

const (
	PostingActive PostingStatus = "Active"
	PostingPaused PostingStatus = "Paused"
	PostingClosed PostingStatus = "Closed"
)

func ToPostingStatus(s string) (PostingStatus, error) {
	switch PostingStatus(s) {
	case PostingActive, PostingPaused, PostingClosed:
		return PostingStatus(s), nil
	default:
		return "", fmt.Errorf("invalid posting status: %q", s)
	}
}

type Category string

const DefaultCategory Category = "Other"

var Categories = []Category{
	"Technology", "Business", "Design", "Marketing",
	"Healthcare", "Education", "Hospitality", "Finance",
	DefaultCategory,
}

func ToCategory(s string) (Category, error) {
	if s == "" {
		return DefaultCategory, nil
	}
	for _, category := range Categories {
		if string(category) == s {
			return category, nil
		}
	}
	return "", fmt.Errorf("invalid category: %q", s)
}

type SalaryBand string

const (
	SalaryUpTo50k   SalaryBand = "0-50000"
	Salary50kTo100k SalaryBand = "50000-100000"
	SalaryFrom100k  SalaryBand = "100000+"
)

// Range returns the inclusive bounds of the band; max is nil for an open band.
func (b SalaryBand) Range() (min int64, max *int64, err error) {
	bound := func(v int64) *int64 { return &v }
	switch b {
	case SalaryUpTo50k:
		return 0, bound(50000), nil
	case Salary50kTo100k:
		return 50000, bound(100000), nil
	case SalaryFrom100k:
		return 100000, nil, nil
	default:
		return 0, nil, fmt.Errorf("invalid salary band: %q", string(b))
	}
}

type Posting struct {
	ID             string        `gorm:"primaryKey;size:36" json:"id"`
	Title          string        `gorm:"not null" json:"title"`
	OrganizationID string        `gorm:"size:36;index;not null" json:"organization_id"`
	Organization   *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	OwnerID        string        `gorm:"size:36;index;not null" json:"owner_id"`
	Location       string        `gorm:"index" json:"location"`
	Type           string        `json:"type"`
	Category       Category      `gorm:"index" json:"category"`
	Salary         int64         `json:"salary"`
	Description    string        `gorm:"type:text" json:"description"`
	Status         PostingStatus `gorm:"size:16;index;not null" json:"status"`
	Featured       bool          `json:"featured"`
	CreatedAt      time.Time     `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

func (p *Posting) IsActive() bool {
	return p.Status == PostingActive
}

type CategoryCount struct {
	Category Category `json:"category"`
	Count    int64    `json:"count"`
}
