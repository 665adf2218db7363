package models

// Client is a customer record used to prefill new budgets. Budgets copy the
// client fields they need, so editing a client never rewrites old quotes.
type Client struct {
	Base
	UserID  string `gorm:"type:uuid;not null;index:idx_client_user_active,priority:1" json:"user_id"`
	Name    string `gorm:"size:100;not null" json:"name"`
	TaxID   string `gorm:"size:20" json:"tax_id"`
	Phone   string `gorm:"size:20" json:"phone"`
	Address string `gorm:"size:200" json:"address"`
	Active  bool   `gorm:"not null;index:idx_client_user_active,priority:2" json:"active"`
}
