package services

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "cineorca/internal/errors"
	"cineorca/internal/logger"
	"cineorca/internal/models"
	"cineorca/internal/pricing"
)

// configService handles per-user pricing configuration.
type configService struct {
	db *gorm.DB
}

// NewConfigService creates a new ConfigServicer.
func NewConfigService(db *gorm.DB) ConfigServicer {
	return &configService{db: db}
}

// GetConfig returns the user's configuration, or ErrOnboardingRequired when
// the user has none yet.
func (s *configService) GetConfig(userID string) (*models.UserConfig, error) {
	return findConfig(s.db, userID)
}

func findConfig(db *gorm.DB, userID string) (*models.UserConfig, error) {
	var cfg models.UserConfig
	if err := db.Where("user_id = ?", userID).First(&cfg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOnboardingRequired
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &cfg, nil
}

// loadOrNewConfig returns the stored config, or an unsaved one for the user.
func (s *configService) loadOrNewConfig(userID string) (*models.UserConfig, error) {
	cfg, err := findConfig(s.db, userID)
	if errors.Is(err, apperrors.ErrOnboardingRequired) {
		return &models.UserConfig{UserID: userID, BrandColor: models.DefaultBrandColor}, nil
	}
	return cfg, err
}

// CompleteOnboarding stores the monthly goal and derives the hourly rate
// from it. The config row is created when missing.
func (s *configService) CompleteOnboarding(userID string, goal, fixedCosts, workingDays decimal.Decimal) (*models.UserConfig, error) {
	cfg, err := s.loadOrNewConfig(userID)
	if err != nil {
		return nil, err
	}

	cfg.MonthlyGoal = pricing.Round(goal)
	cfg.HourlyRate = pricing.HourlyRateFromGoal(goal, fixedCosts, workingDays)

	if err := s.db.Save(cfg).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Infow("onboarding completed",
		"user_id", userID,
		"monthly_goal", cfg.MonthlyGoal.StringFixed(pricing.Places),
		"hourly_rate", cfg.HourlyRate.StringFixed(pricing.Places),
	)
	return cfg, nil
}

// UpdateSettings replaces the branding fields. A blank brand color resets to
// the default.
func (s *configService) UpdateSettings(userID string, in SettingsInput) (*models.UserConfig, error) {
	cfg, err := s.loadOrNewConfig(userID)
	if err != nil {
		return nil, err
	}

	cfg.CompanyName = truncate(strings.TrimSpace(in.CompanyName), 100)
	cfg.TaxID = truncate(strings.TrimSpace(in.TaxID), 20)
	cfg.Address = truncate(strings.TrimSpace(in.Address), 200)
	cfg.WhatsApp = truncate(strings.TrimSpace(in.WhatsApp), 20)
	cfg.LogoURL = truncate(strings.TrimSpace(in.LogoURL), 500)
	cfg.BrandColor = strings.TrimSpace(in.BrandColor)
	if cfg.BrandColor == "" {
		cfg.BrandColor = models.DefaultBrandColor
	}
	if in.HourlyRate != nil {
		cfg.HourlyRate = pricing.Round(*in.HourlyRate)
	}
	if in.MonthlyGoal != nil {
		cfg.MonthlyGoal = pricing.Round(*in.MonthlyGoal)
	}

	if err := s.db.Save(cfg).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return cfg, nil
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
