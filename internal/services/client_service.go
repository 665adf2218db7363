package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "cineorca/internal/errors"
	"cineorca/internal/models"
	"cineorca/internal/pagination"
)

// clientService handles client-related business logic.
type clientService struct {
	db *gorm.DB
}

// NewClientService creates a new ClientServicer.
func NewClientService(db *gorm.DB) ClientServicer {
	return &clientService{db: db}
}

// normalize trims the input and cuts every field to its column width.
func (in ClientInput) normalize() ClientInput {
	in.Name = truncate(strings.TrimSpace(in.Name), 100)
	in.TaxID = truncate(strings.TrimSpace(in.TaxID), 20)
	in.Phone = truncate(strings.TrimSpace(in.Phone), 20)
	in.Address = truncate(strings.TrimSpace(in.Address), 200)
	return in
}

// CreateClient creates a new active client.
func (s *clientService) CreateClient(userID string, in ClientInput) (*models.Client, error) {
	in = in.normalize()
	if in.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "client name is required")
	}

	client := &models.Client{
		UserID:  userID,
		Name:    in.Name,
		TaxID:   in.TaxID,
		Phone:   in.Phone,
		Address: in.Address,
		Active:  true,
	}
	if err := s.db.Create(client).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return client, nil
}

// QuickSave creates a client from the budget form. When the user already has
// a client with the same name that client is returned unchanged and
// existing is true.
func (s *clientService) QuickSave(userID string, in ClientInput) (*models.Client, bool, error) {
	in = in.normalize()
	if in.Name == "" {
		return nil, false, apperrors.WithMessage(apperrors.ErrInvalidInput, "client name is required")
	}

	var found models.Client
	err := s.db.Where("user_id = ? AND name = ?", userID, in.Name).First(&found).Error
	if err == nil {
		return &found, true, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	client, err := s.CreateClient(userID, in)
	if err != nil {
		return nil, false, err
	}
	return client, false, nil
}

// GetUserClients returns a paginated list of the user's clients, optionally
// filtered by active flag, ordered by name.
func (s *clientService) GetUserClients(userID string, active *bool, page pagination.PageRequest) (*pagination.PageResponse[models.Client], error) {
	page.Defaults()

	base := s.db.Model(&models.Client{}).Where("user_id = ?", userID)
	if active != nil {
		base = base.Where("active = ?", *active)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var clients []models.Client
	if err := base.Order("name ASC").Scopes(pagination.Paginate(page)).Find(&clients).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(clients, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetClientByID returns a client by ID if it belongs to the user.
func (s *clientService) GetClientByID(userID, clientID string) (*models.Client, error) {
	var client models.Client
	if err := s.db.Where("id = ? AND user_id = ?", clientID, userID).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrClientNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &client, nil
}

// UpdateClient replaces a client's fields. Active is only changed when set.
func (s *clientService) UpdateClient(userID, clientID string, in ClientInput) (*models.Client, error) {
	in = in.normalize()
	if in.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "client name is required")
	}

	client, err := s.GetClientByID(userID, clientID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":    in.Name,
		"tax_id":  in.TaxID,
		"phone":   in.Phone,
		"address": in.Address,
	}
	if in.Active != nil {
		updates["active"] = *in.Active
	}

	if err := s.db.Model(client).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return client, nil
}

// DeleteClient soft-deletes a client. Budgets keep their snapshot.
func (s *clientService) DeleteClient(userID, clientID string) error {
	result := s.db.Where("id = ? AND user_id = ?", clientID, userID).Delete(&models.Client{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrClientNotFound
	}
	return nil
}
