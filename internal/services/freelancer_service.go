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

// freelancerService handles freelancer-related business logic.
type freelancerService struct {
	db *gorm.DB
}

// NewFreelancerService creates a new FreelancerServicer.
func NewFreelancerService(db *gorm.DB) FreelancerServicer {
	return &freelancerService{db: db}
}

// CreateFreelancer creates a new freelancer for the user.
func (s *freelancerService) CreateFreelancer(userID, name, role string, dailyRate decimal.Decimal) (*models.Freelancer, error) {
	name = truncate(strings.TrimSpace(name), 100)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "freelancer name is required")
	}

	f := &models.Freelancer{
		UserID:    userID,
		Name:      name,
		Role:      truncate(strings.TrimSpace(role), 100),
		DailyRate: pricing.Round(dailyRate),
	}
	if err := s.db.Create(f).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return f, nil
}

// GetUserFreelancers returns a paginated list of the user's freelancers.
func (s *freelancerService) GetUserFreelancers(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Freelancer], error) {
	page.Defaults()

	base := s.db.Model(&models.Freelancer{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var freelancers []models.Freelancer
	if err := base.Order("name ASC").Scopes(pagination.Paginate(page)).Find(&freelancers).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(freelancers, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetFreelancerByID returns a freelancer by ID if it belongs to the user.
func (s *freelancerService) GetFreelancerByID(userID, freelancerID string) (*models.Freelancer, error) {
	var f models.Freelancer
	if err := s.db.Where("id = ? AND user_id = ?", freelancerID, userID).First(&f).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFreelancerNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &f, nil
}

// UpdateFreelancer replaces a freelancer's fields.
func (s *freelancerService) UpdateFreelancer(userID, freelancerID, name, role string, dailyRate decimal.Decimal) (*models.Freelancer, error) {
	name = truncate(strings.TrimSpace(name), 100)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "freelancer name is required")
	}

	f, err := s.GetFreelancerByID(userID, freelancerID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":       name,
		"role":       truncate(strings.TrimSpace(role), 100),
		"daily_rate": pricing.Round(dailyRate),
	}
	if err := s.db.Model(f).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return f, nil
}

// DeleteFreelancer soft-deletes a freelancer.
func (s *freelancerService) DeleteFreelancer(userID, freelancerID string) error {
	result := s.db.Where("id = ? AND user_id = ?", freelancerID, userID).Delete(&models.Freelancer{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrFreelancerNotFound
	}
	return nil
}
