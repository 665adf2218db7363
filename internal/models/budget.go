package models

import (
	"time"

	"cineorca/internal/uuid"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BudgetStatus represents where a quote stands with the client
type BudgetStatus string

const (
	BudgetStatusPending  BudgetStatus = "Pending"
	BudgetStatusApproved BudgetStatus = "Approved"
	BudgetStatusLost     BudgetStatus = "Lost"
)

// BudgetStatuses lists every valid status, in dashboard order.
var BudgetStatuses = []BudgetStatus{BudgetStatusApproved, BudgetStatusPending, BudgetStatusLost}

// Valid reports whether s is one of the known statuses.
func (s BudgetStatus) Valid() bool {
	switch s {
	case BudgetStatusPending, BudgetStatusApproved, BudgetStatusLost:
		return true
	}
	return false
}

// Budget is a priced quote for a client engagement.
//
// The client fields are a snapshot taken when the budget is saved.
// TotalCost and FinalPrice are written only by the pricing calculator.
type Budget struct {
	Base
	UserID string `gorm:"type:uuid;not null;index:idx_budget_user_date,priority:1;index:idx_budget_user_status,priority:1" json:"user_id"`

	Client        string `gorm:"size:100;not null" json:"client"`
	ClientTaxID   string `gorm:"size:20" json:"client_tax_id"`
	ClientPhone   string `gorm:"size:20" json:"client_phone"`
	ClientAddress string `gorm:"size:200" json:"client_address"`

	Title       string       `gorm:"size:100;not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Date        time.Time    `gorm:"not null;index:idx_budget_user_date,priority:2" json:"date"`
	Status      BudgetStatus `gorm:"size:20;not null;index:idx_budget_user_status,priority:2" json:"status"`

	LaborDays     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"labor_days"`
	MarginPercent int             `gorm:"not null" json:"margin_percent"`
	TaxPercent    decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"tax_percent"`
	ExtraCost     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"extra_cost"`
	TotalCost     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_cost"`
	FinalPrice    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"final_price"`

	Items []BudgetItem `gorm:"foreignKey:BudgetID;constraint:OnDelete:CASCADE" json:"items"`
}

// BudgetItem is one line of a budget. Items have no identity of their own:
// the whole set is replaced every time the budget is saved.
type BudgetItem struct {
	ID        string          `gorm:"type:uuid;primaryKey" json:"-"`
	BudgetID  string          `gorm:"type:uuid;not null;index" json:"-"`
	Name      string          `gorm:"size:100;not null" json:"name"`
	ItemType  string          `gorm:"size:20" json:"type"`
	Value     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"value"`
	Days      decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"days"`
	CreatedAt time.Time       `json:"-"`
}

// BeforeCreate hook generates a UUIDv7 for new items
func (i *BudgetItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New()
	}
	return nil
}
