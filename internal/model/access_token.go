package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccessToken represents a bearer credential owned by a user. Only the
// SHA-256 hash of the secret is stored; the plaintext form is returned once
// at issuance.
type AccessToken struct {
	ID         uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	UserID     uint       `json:"user_id" gorm:"not null;index"`
	Name       string     `json:"name" gorm:"size:255;not null"`
	TokenHash  string     `json:"-" gorm:"uniqueIndex;size:64;not null"`
	ExpiresAt  *time.Time `json:"expires_at"` // nil = never expires
	LastUsedAt *time.Time `json:"last_used_at"`
	CreatedAt  time.Time  `json:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

// BeforeCreate sets UUID before creating the record.
func (t *AccessToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
