package models

import "github.com/shopspring/decimal"

// Freelancer is a collaborator whose day rate prefills budget items.
type Freelancer struct {
	Base
	UserID    string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string          `gorm:"size:100;not null" json:"name"`
	Role      string          `gorm:"size:100" json:"role"`
	DailyRate decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"daily_rate"`
}
