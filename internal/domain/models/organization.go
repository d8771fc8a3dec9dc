package models

import "time"

type Organization struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Website     string    `json:"website"`
	Location    string    `json:"location"`
	LogoURL     string    `json:"logo"`
	OwnerID     string    `gorm:"size:36;index;not null" json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
