package services

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "cineorca/internal/errors"
	"cineorca/internal/models"
	"cineorca/internal/pagination"
	"cineorca/internal/pricing"
)

// equipmentService handles equipment-related business logic.
type equipmentService struct {
	db *gorm.DB
}

// NewEquipmentService creates a new EquipmentServicer.
func NewEquipmentService(db *gorm.DB) EquipmentServicer {
	return &equipmentService{db: db}
}

// CreateEquipment creates a new piece of equipment for the user.
func (s *equipmentService) CreateEquipment(userID, name string, purchaseValue, rentalValue decimal.Decimal) (*models.Equipment, error) {
	name = truncate(strings.TrimSpace(name), 100)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "equipment name is required")
	}

	e := &models.Equipment{
		UserID:        userID,
		Name:          name,
		PurchaseValue: pricing.Round(purchaseValue),
		RentalValue:   pricing.Round(rentalValue),
	}
	if err := s.db.Create(e).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return e, nil
}

// GetUserEquipment returns a paginated list of the user's equipment.
func (s *equipmentService) GetUserEquipment(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Equipment], error) {
	page.Defaults()

	base := s.db.Model(&models.Equipment{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var equipment []models.Equipment
	if err := base.Order("name ASC").Scopes(pagination.Paginate(page)).Find(&equipment).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(equipment, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetEquipmentByID returns equipment by ID if it belongs to the user.
func (s *equipmentService) GetEquipmentByID(userID, equipmentID string) (*models.Equipment, error) {
	var e models.Equipment
	if err := s.db.Where("id = ? AND user_id = ?", equipmentID, userID).First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEquipmentNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &e, nil
}

// UpdateEquipment replaces an equipment's fields.
func (s *equipmentService) UpdateEquipment(userID, equipmentID, name string, purchaseValue, rentalValue decimal.Decimal) (*models.Equipment, error) {
	name = truncate(strings.TrimSpace(name), 100)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "equipment name is required")
	}

	e, err := s.GetEquipmentByID(userID, equipmentID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":           name,
		"purchase_value": pricing.Round(purchaseValue),
		"rental_value":   pricing.Round(rentalValue),
	}
	if err := s.db.Model(e).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return e, nil
}

// DeleteEquipment soft-deletes a piece of equipment.
func (s *equipmentService) DeleteEquipment(userID, equipmentID string) error {
	result := s.db.Where("id = ? AND user_id = ?", equipmentID, userID).Delete(&models.Equipment{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrEquipmentNotFound
	}
	return nil
}
