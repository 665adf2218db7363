package models

import "github.com/shopspring/decimal"

// Equipment is a piece of gear whose rental value prefills budget items.
type Equipment struct {
	Base
	UserID        string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name          string          `gorm:"size:100;not null" json:"name"`
	PurchaseValue decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"purchase_value"`
	RentalValue   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"rental_value"`
}

// TableName keeps the singular table name; "equipment" has no plural.
func (Equipment) TableName() string {
	return "equipment"
}
