package models

import "github.com/shopspring/decimal"

// DefaultBrandColor is applied when a user never picked one.
const DefaultBrandColor = "#00ffa3"

// UserConfig holds a user's pricing parameters and the branding printed on
// their budgets. HourlyRate is derived during onboarding and may be
// overridden in settings.
type UserConfig struct {
	Base
	UserID      string          `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	MonthlyGoal decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"monthly_goal"`
	HourlyRate  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"hourly_rate"`
	CompanyName string          `gorm:"size:100" json:"company_name"`
	TaxID       string          `gorm:"size:20" json:"tax_id"`
	Address     string          `gorm:"size:200" json:"address"`
	WhatsApp    string          `gorm:"size:20" json:"whatsapp"`
	LogoURL     string          `gorm:"size:500" json:"logo_url"`
	BrandColor  string          `gorm:"size:7" json:"brand_color"`
}
