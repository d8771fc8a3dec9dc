package models

import (
	"encoding/json"
	"errors"
	"github.com/samber/lo"
	"strings"
	"time"
)

type Role string

const (
	RoleSeeker    Role = "seeker"
	RoleRecruiter Role = "recruiter"
	RoleAdmin     Role = "admin"
)

var ErrInvalidRole = errors.New("invalid role")

// ToRegistrableRole accepts only the roles open to public registration.
func ToRegistrableRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleSeeker:
		return RoleSeeker, nil
	case RoleRecruiter:
		return RoleRecruiter, nil
	default:
		return "", ErrInvalidRole
	}
}

type Profile struct {
	Bio                string `gorm:"type:text"`
	Skills             string
	ResumeURL          string
	ResumeOriginalName string
	PhotoURL           string
}

func (p *Profile) SkillsAsArray() []string {
	if p.Skills == "" {
		return []string{}
	}
	return strings.Split(p.Skills, ",")
}

// SetSkills stores a trimmed, deduplicated skill set.
func (p *Profile) SetSkills(skills []string) {
	cleaned := lo.Uniq(lo.Compact(lo.Map(skills, func(item string, _ int) string {
		return strings.TrimSpace(strings.ReplaceAll(item, ",", " "))
	})))
	p.Skills = strings.Join(cleaned, ",")
}

func (p Profile) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Bio                string   `json:"bio"`
		Skills             []string `json:"skills"`
		Resume             string   `json:"resume,omitempty"`
		ResumeOriginalName string   `json:"resume_original_name,omitempty"`
		ProfilePhoto       string   `json:"profile_photo,omitempty"`
	}{
		Bio:                p.Bio,
		Skills:             p.SkillsAsArray(),
		Resume:             p.ResumeURL,
		ResumeOriginalName: p.ResumeOriginalName,
		ProfilePhoto:       p.PhotoURL,
	})
}

type Account struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Fullname     string    `json:"fullname"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PhoneNumber  string    `json:"phone_number"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         Role      `gorm:"size:16;not null" json:"role"`
	Profile      Profile   `gorm:"embedded;embeddedPrefix:profile_" json:"profile"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (a *Account) HasResume() bool {
	return a.Profile.ResumeURL != ""
}

// Summary is the part of an account shown to recruiters reviewing applicants.
type AccountSummary struct {
	ID          string  `json:"id"`
	Fullname    string  `json:"fullname"`
	Email       string  `json:"email"`
	PhoneNumber string  `json:"phone_number"`
	Profile     Profile `json:"profile"`
}

func (a *Account) Summary() AccountSummary {
	return AccountSummary{
		ID:          a.ID,
		Fullname:    a.Fullname,
		Email:       a.Email,
		PhoneNumber: a.PhoneNumber,
		Profile:     a.Profile,
	}
}
