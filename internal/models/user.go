package models

import "time"

// User represents an account holder. Every other record is owned by one.
type User struct {
	Base
	Email            string      `gorm:"uniqueIndex;not null" json:"email"`
	Password         string      `gorm:"not null" json:"-"`
	Name             string      `gorm:"not null" json:"name"`
	IsActive         bool        `gorm:"not null" json:"is_active"`
	RefreshTokenHash string      `gorm:"size:64" json:"-"`
	LastLoginAt      *time.Time  `json:"last_login_at,omitempty"`
	Config           *UserConfig `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"config,omitempty"`
}
