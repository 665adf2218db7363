package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "cineorca/internal/errors"
	"cineorca/internal/models"
	"cineorca/internal/pricing"
	"cineorca/internal/services"
)

// DashboardPath is where a completed onboarding sends the client.
const DashboardPath = "/api/v1/dashboard"

// ConfigHandler handles onboarding and settings requests.
type ConfigHandler struct {
	configService services.ConfigServicer
	auditService  services.AuditServicer
}

// NewConfigHandler creates a new ConfigHandler.
func NewConfigHandler(configService services.ConfigServicer, auditService services.AuditServicer) *ConfigHandler {
	return &ConfigHandler{configService: configService, auditService: auditService}
}

// OnboardingRequest carries the figures the hourly rate is derived from.
// Numbers may be sent as strings with a comma or dot separator.
type OnboardingRequest struct {
	Goal  pricing.Text `json:"goal" swaggertype:"string" example:"8000"`
	Costs pricing.Text `json:"costs" swaggertype:"string" example:"2000"`
	Days  pricing.Text `json:"days" swaggertype:"string" example:"20"`
}

// OnboardingStatus reports whether the user has priced their time yet.
type OnboardingStatus struct {
	Completed bool               `json:"completed"`
	Config    *models.UserConfig `json:"config"`
	Next      string             `json:"next,omitempty"`
}

// SettingsRequest holds the branding fields. Rates are only changed when sent.
type SettingsRequest struct {
	CompanyName string        `json:"company_name" binding:"max=100"`
	TaxID       string        `json:"tax_id" binding:"max=20"`
	Address     string        `json:"address" binding:"max=200"`
	WhatsApp    string        `json:"whatsapp" binding:"max=20"`
	LogoURL     string        `json:"logo_url" binding:"omitempty,url,max=500"`
	BrandColor  string        `json:"brand_color" binding:"omitempty,hex_color"`
	HourlyRate  *pricing.Text `json:"hourly_rate" swaggertype:"string"`
	MonthlyGoal *pricing.Text `json:"monthly_goal" swaggertype:"string"`
}

func optionalDecimal(t *pricing.Text) *decimal.Decimal {
	if t == nil {
		return nil
	}
	d := t.Decimal()
	return &d
}

// GetOnboarding reports the onboarding state
// @Summary     Get onboarding state
// @Tags        config
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} OnboardingStatus
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /onboarding [get]
func (h *ConfigHandler) GetOnboarding(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	cfg, err := h.configService.GetConfig(userID)
	if err != nil && !errors.Is(err, apperrors.ErrOnboardingRequired) {
		respondWithError(c, err)
		return
	}

	status := OnboardingStatus{Config: cfg}
	if cfg != nil && cfg.HourlyRate.IsPositive() {
		status.Completed = true
		status.Next = DashboardPath
	}
	c.JSON(http.StatusOK, status)
}

// CompleteOnboarding derives and stores the hourly rate
// @Summary     Complete onboarding
// @Description hourly_rate = ((goal + costs) / days) / 8, with 20 days when days is zero
// @Tags        config
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body OnboardingRequest true "Monthly goal, fixed costs and working days"
// @Success     200 {object} OnboardingStatus
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /onboarding [post]
func (h *ConfigHandler) CompleteOnboarding(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req OnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	cfg, err := h.configService.CompleteOnboarding(userID, req.Goal.Decimal(), req.Costs.Decimal(), req.Days.Decimal())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditUpdate, "user_config", cfg.ID, c.ClientIP(), map[string]interface{}{
		"monthly_goal": cfg.MonthlyGoal.StringFixed(pricing.Places),
		"hourly_rate":  cfg.HourlyRate.StringFixed(pricing.Places),
	})

	c.JSON(http.StatusOK, OnboardingStatus{Completed: true, Config: cfg, Next: DashboardPath})
}

// GetSettings returns the user's configuration
// @Summary     Get settings
// @Tags        config
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.UserConfig
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     428 {object} ErrorResponse "Onboarding required"
// @Router      /settings [get]
func (h *ConfigHandler) GetSettings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	cfg, err := h.configService.GetConfig(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// UpdateSettings replaces the branding fields
// @Summary     Update settings
// @Tags        config
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SettingsRequest true "Branding and optional rate overrides"
// @Success     200 {object} models.UserConfig
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /settings [put]
func (h *ConfigHandler) UpdateSettings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	cfg, err := h.configService.UpdateSettings(userID, services.SettingsInput{
		CompanyName: req.CompanyName,
		TaxID:       req.TaxID,
		Address:     req.Address,
		WhatsApp:    req.WhatsApp,
		LogoURL:     req.LogoURL,
		BrandColor:  req.BrandColor,
		HourlyRate:  optionalDecimal(req.HourlyRate),
		MonthlyGoal: optionalDecimal(req.MonthlyGoal),
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditUpdate, "user_config", cfg.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, cfg)
}
