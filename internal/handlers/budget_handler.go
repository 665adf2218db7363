package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "cineorca/internal/errors"
	"cineorca/internal/models"
	"cineorca/internal/pricing"
	"cineorca/internal/services"
)

// BudgetDateLayout is the accepted format of the optional budget date.
const BudgetDateLayout = "2006-01-02"

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
	auditService  services.AuditServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, auditService services.AuditServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, auditService: auditService}
}

// BudgetRequest represents the request payload for creating or updating a budget.
// Numeric fields accept strings or numbers, with a comma or a dot.
type BudgetRequest struct {
	Client        string          `json:"client"`
	ClientTaxID   string          `json:"client_tax_id"`
	ClientPhone   string          `json:"client_phone"`
	ClientAddress string          `json:"client_address"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Date          string          `json:"date" example:"2026-03-15"`
	LaborDays     pricing.Text    `json:"labor_days" swaggertype:"string" example:"2"`
	MarginPercent pricing.Text    `json:"margin_percent" swaggertype:"string" example:"30"`
	TaxPercent    pricing.Text    `json:"tax_percent" swaggertype:"string" example:"10"`
	ExtraCost     pricing.Text    `json:"extra_cost" swaggertype:"string" example:"0"`
	Items         json.RawMessage `json:"items" swaggertype:"array,object"`
}

// StatusRequest is the status segment of the change-status route.
type StatusRequest struct {
	Status models.BudgetStatus `uri:"status" binding:"budget_status"`
}

func (r BudgetRequest) toInput() (services.BudgetInput, error) {
	in := services.BudgetInput{
		Client:        r.Client,
		ClientTaxID:   r.ClientTaxID,
		ClientPhone:   r.ClientPhone,
		ClientAddress: r.ClientAddress,
		Title:         r.Title,
		Description:   r.Description,
		LaborDays:     r.LaborDays.Decimal(),
		MarginPercent: r.MarginPercent.Int(pricing.DefaultMarginPercent),
		TaxPercent:    r.TaxPercent.Decimal(),
		ExtraCost:     r.ExtraCost.Decimal(),
		Items:         r.Items,
	}
	if d := strings.TrimSpace(r.Date); d != "" {
		t, err := time.ParseInLocation(BudgetDateLayout, d, time.UTC)
		if err != nil {
			return in, apperrors.WithMessage(apperrors.ErrInvalidInput, "date must be YYYY-MM-DD")
		}
		in.Date = &t
	}
	return in, nil
}

// GetBudgetOptions returns everything the budget form can prefill from
// @Summary     Budget form options
// @Description Pricing config, equipment, freelancers and active clients
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.BudgetOptions
// @Failure     428 {object} ErrorResponse "Onboarding required"
// @Router      /budgets/options [get]
func (h *BudgetHandler) GetBudgetOptions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	opts, err := h.budgetService.GetBudgetOptions(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, opts)
}

// CreateBudget prices and stores a new budget
// @Summary     Create a budget
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body BudgetRequest true "Budget data"
// @Success     201 {object} models.Budget
// @Failure     400 {object} ErrorResponse "Invalid input or items"
// @Failure     428 {object} ErrorResponse "Onboarding required"
// @Router      /budgets [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req BudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	in, err := req.toInput()
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.CreateBudget(userID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditCreate, "budget", budget.ID, c.ClientIP(),
		map[string]interface{}{"title": budget.Title, "final_price": budget.FinalPrice.StringFixed(pricing.Places)})

	c.JSON(http.StatusCreated, budget)
}

// GetBudgetByID returns a budget with its items
// @Summary     Get a budget
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} models.Budget
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id} [get]
func (h *BudgetHandler) GetBudgetByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.GetBudgetByID(userID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, budget)
}

// UpdateBudget replaces a budget's fields and items and reprices it
// @Summary     Update a budget
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string        true "Budget ID"
// @Param       request body BudgetRequest true "Budget data"
// @Success     200 {object} models.Budget
// @Failure     400 {object} ErrorResponse "Invalid input or items"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req BudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	in, err := req.toInput()
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.UpdateBudget(userID, id, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditUpdate, "budget", id, c.ClientIP(),
		map[string]interface{}{"final_price": budget.FinalPrice.StringFixed(pricing.Places)})

	c.JSON(http.StatusOK, budget)
}

// PrintBudget returns a budget together with the branding to print it under
// @Summary     Printable budget
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} services.BudgetPrint
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id}/print [get]
func (h *BudgetHandler) PrintBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	doc, err := h.budgetService.GetBudgetPrint(userID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// ChangeStatus moves a budget to Pending, Approved or Lost. Any other status
// is ignored and the client is sent back to the dashboard.
// @Summary     Change budget status
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id     path string true "Budget ID"
// @Param       status path string true "New status" Enums(Pending, Approved, Lost)
// @Success     200 {object} models.Budget
// @Success     303 "Unknown status, redirected to the dashboard"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id}/status/{status} [post]
func (h *BudgetHandler) ChangeStatus(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req StatusRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.Redirect(http.StatusSeeOther, DashboardPath)
		return
	}
	status := req.Status

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.ChangeStatus(userID, id, status)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditStatus, "budget", id, c.ClientIP(),
		map[string]interface{}{"status": string(status)})

	c.JSON(http.StatusOK, budget)
}

// DeleteBudget removes a budget and its items
// @Summary     Delete a budget
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} MessageResponse
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteBudget(userID, id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditDelete, "budget", id, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Budget deleted"})
}
