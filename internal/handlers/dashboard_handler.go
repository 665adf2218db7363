package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cineorca/internal/pricing"
	"cineorca/internal/services"
)

// DashboardHandler serves the monthly revenue summary.
type DashboardHandler struct {
	dashboardService services.DashboardServicer
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService services.DashboardServicer) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetDashboard returns totals, goal progress and the month's budgets
// @Summary     Dashboard
// @Description Totals per status for the month, yearly approved revenue and a page of budgets
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Param       month query int false "Month 1-12, defaults to the current month"
// @Param       year  query int false "Year, defaults to the current year"
// @Param       page  query int false "Page of the budget list"
// @Success     200 {object} services.Dashboard
// @Failure     400 {object} ErrorResponse "Month out of range"
// @Failure     428 {object} ErrorResponse "Onboarding required"
// @Router      /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	now := time.Now().UTC()
	month := pricing.ParseInt(c.Query("month"), int(now.Month()))
	year := pricing.ParseInt(c.Query("year"), now.Year())
	page := pricing.ParseInt(c.Query("page"), 1)

	dash, err := h.dashboardService.GetDashboard(userID, month, year, page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}
