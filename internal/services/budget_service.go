package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "cineorca/internal/errors"
	"cineorca/internal/logger"
	"cineorca/internal/models"
	"cineorca/internal/pricing"
)

// Defaults for item fields the client leaves out.
const (
	DefaultItemName = "Item"
	DefaultItemType = "other"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// CreateBudget prices and stores a new Pending budget.
func (s *budgetService) CreateBudget(userID string, in BudgetInput) (*models.Budget, error) {
	return s.save(userID, "", in)
}

// UpdateBudget re-prices an existing budget and replaces all of its items.
// Status and creation date are kept unless the input carries a date.
func (s *budgetService) UpdateBudget(userID, budgetID string, in BudgetInput) (*models.Budget, error) {
	return s.save(userID, budgetID, in)
}

// save runs the whole write in one transaction: load or start the header,
// drop the previous items, decode and insert the new ones, then store the
// computed cost and price. Any failure leaves the stored budget untouched.
func (s *budgetService) save(userID, budgetID string, in BudgetInput) (*models.Budget, error) {
	var budget *models.Budget

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		if budgetID != "" {
			budget, err = findBudget(tx, userID, budgetID)
			if err != nil {
				return err
			}
		} else {
			budget = &models.Budget{
				UserID: userID,
				Status: models.BudgetStatusPending,
				Date:   time.Now().UTC(),
			}
		}

		cfg, err := findConfig(tx, userID)
		if err != nil {
			return err
		}

		applyBudgetInput(budget, in)

		if budget.ID == "" {
			err = tx.Omit(clause.Associations).Create(budget).Error
		} else {
			err = tx.Omit(clause.Associations).Save(budget).Error
		}
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := tx.Where("budget_id = ?", budget.ID).Delete(&models.BudgetItem{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		items, err := decodeItems(in.Items)
		if err != nil {
			return err
		}
		for i := range items {
			items[i].BudgetID = budget.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		result := pricing.Calculate(pricingInput(cfg.HourlyRate, budget, items))
		budget.TotalCost = result.TotalCost
		budget.FinalPrice = result.FinalPrice
		if err := tx.Model(budget).Updates(map[string]interface{}{
			"total_cost":  result.TotalCost,
			"final_price": result.FinalPrice,
		}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		budget.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("budget saved",
		"user_id", userID,
		"budget_id", budget.ID,
		"items", len(budget.Items),
		"final_price", budget.FinalPrice.StringFixed(pricing.Places),
	)
	return budget, nil
}

// applyBudgetInput copies the form onto the header, taking a fresh client
// snapshot.
func applyBudgetInput(b *models.Budget, in BudgetInput) {
	b.Client = truncate(strings.TrimSpace(in.Client), 100)
	b.ClientTaxID = truncate(in.ClientTaxID, 20)
	b.ClientPhone = truncate(in.ClientPhone, 20)
	b.ClientAddress = truncate(in.ClientAddress, 200)
	b.Title = truncate(strings.TrimSpace(in.Title), 100)
	b.Description = in.Description
	if in.Date != nil {
		b.Date = in.Date.UTC()
	}
	b.LaborDays = pricing.Round(in.LaborDays)
	b.MarginPercent = in.MarginPercent
	b.TaxPercent = pricing.Round(in.TaxPercent)
	b.ExtraCost = pricing.Round(in.ExtraCost)
}

func pricingInput(hourlyRate decimal.Decimal, b *models.Budget, items []models.BudgetItem) pricing.Input {
	in := pricing.Input{
		HourlyRate:    hourlyRate,
		LaborDays:     b.LaborDays,
		ExtraCost:     b.ExtraCost,
		MarginPercent: b.MarginPercent,
		TaxPercent:    b.TaxPercent,
		Items:         make([]pricing.Item, len(items)),
	}
	for i, item := range items {
		in.Items[i] = pricing.Item{Value: item.Value, Days: item.Days}
	}
	return in
}

// itemPayload is one element of the items list. Pointer fields tell an
// absent key from an empty one.
type itemPayload struct {
	Name  *pricing.Text `json:"name"`
	Type  *pricing.Text `json:"type"`
	Value pricing.Text  `json:"value"`
	Days  presentText   `json:"days"`
}

// presentText records whether its key appeared at all, null included.
type presentText struct {
	Set  bool
	Text pricing.Text
}

func (p *presentText) UnmarshalJSON(b []byte) error {
	p.Set = true
	return p.Text.UnmarshalJSON(b)
}

// decodeItems parses the items list. It accepts a JSON array or a JSON
// string holding one. Empty input means no items. Anything that is not a
// list of objects yields ErrInvalidItems.
func decodeItems(raw json.RawMessage) ([]models.BudgetItem, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInvalidItems, err)
		}
		raw = bytes.TrimSpace([]byte(inner))
		if len(raw) == 0 {
			return nil, nil
		}
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidItems, err)
	}

	items := make([]models.BudgetItem, 0, len(elems))
	for _, elem := range elems {
		elem = bytes.TrimSpace(elem)
		if len(elem) == 0 || elem[0] != '{' {
			return nil, apperrors.ErrInvalidItems
		}
		var p itemPayload
		if err := json.Unmarshal(elem, &p); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInvalidItems, err)
		}
		items = append(items, p.toModel())
	}
	return items, nil
}

func (p itemPayload) toModel() models.BudgetItem {
	item := models.BudgetItem{
		Name:     DefaultItemName,
		ItemType: DefaultItemType,
		Value:    p.Value.Decimal(),
		Days:     decimal.NewFromInt(1),
	}
	if p.Name != nil {
		if name := strings.TrimSpace(string(*p.Name)); name != "" {
			item.Name = truncate(name, 100)
		}
	}
	if p.Type != nil {
		if typ := strings.TrimSpace(string(*p.Type)); typ != "" {
			item.ItemType = truncate(typ, 20)
		}
	}
	if p.Days.Set {
		item.Days = p.Days.Text.Decimal()
	}
	return item
}

func findBudget(db *gorm.DB, userID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := db.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC, id ASC")
}

// GetBudgetByID returns a budget with its items if it belongs to the user.
func (s *budgetService) GetBudgetByID(userID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	err := s.db.Preload("Items", orderedItems).
		Where("id = ? AND user_id = ?", budgetID, userID).
		First(&budget).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if budget.Items == nil {
		budget.Items = []models.BudgetItem{}
	}
	return &budget, nil
}

// GetBudgetPrint returns a budget with the owner's branding. A user without
// a config still gets the budget, with a nil config.
func (s *budgetService) GetBudgetPrint(userID, budgetID string) (*BudgetPrint, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	cfg, err := findConfig(s.db, userID)
	if err != nil && !errors.Is(err, apperrors.ErrOnboardingRequired) {
		return nil, err
	}
	return &BudgetPrint{Budget: budget, Config: cfg}, nil
}

// GetBudgetOptions lists what the budget form offers for prefill. Only
// active clients are offered.
func (s *budgetService) GetBudgetOptions(userID string) (*BudgetOptions, error) {
	cfg, err := findConfig(s.db, userID)
	if err != nil {
		return nil, err
	}

	opts := &BudgetOptions{
		Config:      cfg,
		Equipment:   []models.Equipment{},
		Freelancers: []models.Freelancer{},
		Clients:     []models.Client{},
	}
	if err := s.db.Where("user_id = ?", userID).Order("name ASC").Find(&opts.Equipment).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Where("user_id = ?", userID).Order("name ASC").Find(&opts.Freelancers).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Where("user_id = ? AND active = ?", userID, true).Order("name ASC").Find(&opts.Clients).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return opts, nil
}

// ChangeStatus moves a budget to another status. Prices are not touched.
func (s *budgetService) ChangeStatus(userID, budgetID string, status models.BudgetStatus) (*models.Budget, error) {
	if !status.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid budget status")
	}

	budget, err := findBudget(s.db, userID, budgetID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(budget).Update("status", status).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budget, nil
}

// DeleteBudget permanently removes a budget and its items.
func (s *budgetService) DeleteBudget(userID, budgetID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		budget, err := findBudget(tx, userID, budgetID)
		if err != nil {
			return err
		}
		if err := tx.Where("budget_id = ?", budget.ID).Delete(&models.BudgetItem{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Unscoped().Delete(budget).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}
