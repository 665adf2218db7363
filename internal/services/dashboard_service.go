package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "cineorca/internal/errors"
	"cineorca/internal/models"
	"cineorca/internal/pagination"
	"cineorca/internal/pricing"
)

// dashboardService aggregates a user's budgets. Nothing is cached: every
// call reads the current rows.
type dashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new DashboardServicer.
func NewDashboardService(db *gorm.DB) DashboardServicer {
	return &dashboardService{db: db}
}

// TotalByStatus sums the final price of the user's budgets with the given
// status dated inside the window. No match gives zero.
func (s *dashboardService) TotalByStatus(userID string, window Window, status models.BudgetStatus) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := s.db.Model(&models.Budget{}).
		Select("COALESCE(SUM(final_price), 0) AS total").
		Where("user_id = ? AND status = ? AND date >= ? AND date < ?", userID, status, window.From, window.To).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return pricing.Round(row.Total), nil
}

// YearlySeries returns approved revenue per calendar month of the year,
// January first. Months without approved budgets are zero.
func (s *dashboardService) YearlySeries(userID string, year int) ([12]decimal.Decimal, error) {
	var series [12]decimal.Decimal
	for i := range series {
		series[i] = decimal.Zero
	}

	window := YearWindow(year)
	var rows []struct {
		Date       time.Time
		FinalPrice decimal.Decimal
	}
	err := s.db.Model(&models.Budget{}).
		Select("date, final_price").
		Where("user_id = ? AND status = ? AND date >= ? AND date < ?", userID, models.BudgetStatusApproved, window.From, window.To).
		Scan(&rows).Error
	if err != nil {
		return series, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for _, row := range rows {
		m := row.Date.UTC().Month() - 1
		series[m] = series[m].Add(row.FinalPrice)
	}
	for i := range series {
		series[i] = pricing.Round(series[i])
	}
	return series, nil
}

// GetDashboard builds the monthly summary: status totals, goal progress, the
// approved series of the year and one page of the month's budgets, newest
// first.
func (s *dashboardService) GetDashboard(userID string, month, year, page int) (*Dashboard, error) {
	if month < int(time.January) || month > int(time.December) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}

	cfg, err := findConfig(s.db, userID)
	if err != nil {
		return nil, err
	}

	window := MonthWindow(year, time.Month(month))
	d := &Dashboard{Month: month, Year: year, MonthlyGoal: cfg.MonthlyGoal}

	if d.TotalApproved, err = s.TotalByStatus(userID, window, models.BudgetStatusApproved); err != nil {
		return nil, err
	}
	if d.TotalPending, err = s.TotalByStatus(userID, window, models.BudgetStatusPending); err != nil {
		return nil, err
	}
	if d.TotalLost, err = s.TotalByStatus(userID, window, models.BudgetStatusLost); err != nil {
		return nil, err
	}
	d.GoalPercent = pricing.GoalPercent(d.TotalApproved, cfg.MonthlyGoal)
	d.StatusSeries = [3]decimal.Decimal{d.TotalApproved, d.TotalPending, d.TotalLost}

	if d.RevenueSeries, err = s.YearlySeries(userID, year); err != nil {
		return nil, err
	}

	req := pagination.PageRequest{Page: page, PageSize: pagination.DashboardPageSize}
	req.Defaults()

	base := s.db.Model(&models.Budget{}).
		Where("user_id = ? AND date >= ? AND date < ?", userID, window.From, window.To)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Order("date DESC").Scopes(pagination.Paginate(req)).Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	d.Budgets = pagination.NewPageResponse(budgets, req.Page, req.PageSize, totalItems)

	return d, nil
}
