package models

import (
	"errors"
	"fmt"
	"time"
)

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

var ErrTerminalStatus = errors.New("application status is final")

func ToApplicationStatus(s string) (ApplicationStatus, error) {
	switch ApplicationStatus(s) {
	case ApplicationPending, ApplicationAccepted, ApplicationRejected:
		return ApplicationStatus(s), nil
	default:
		return "", fmt.Errorf("invalid application status: %q", s)
	}
}

func (s ApplicationStatus) IsTerminal() bool {
	return s == ApplicationAccepted || s == ApplicationRejected
}

// CheckTransition allows pending -> any and a no-op to the current status.
func (s ApplicationStatus) CheckTransition(next ApplicationStatus) error {
	if s == next {
		return nil
	}
	if s.IsTerminal() {
		return ErrTerminalStatus
	}
	return nil
}

type Application struct {
	ID          string            `gorm:"primaryKey;size:36" json:"id"`
	PostingID   string            `gorm:"size:36;not null;uniqueIndex:idx_posting_applicant" json:"posting_id"`
	Posting     *Posting          `gorm:"foreignKey:PostingID" json:"posting,omitempty"`
	ApplicantID string            `gorm:"size:36;not null;uniqueIndex:idx_posting_applicant;index" json:"applicant_id"`
	Applicant   *Account          `gorm:"foreignKey:ApplicantID" json:"-"`
	Status      ApplicationStatus `gorm:"size:16;not null" json:"status"`
	CreatedAt   time.Time         `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ApplicantView is an application as its posting's owner sees it.
type ApplicantView struct {
	Application
	Applicant AccountSummary `json:"applicant"`
}
