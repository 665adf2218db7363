package services

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"cineorca/internal/models"
	"cineorca/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	Register(email, password, name string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID string, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// SettingsInput carries the editable branding fields. HourlyRate and
// MonthlyGoal are only changed when non-nil.
type SettingsInput struct {
	CompanyName string
	TaxID       string
	Address     string
	WhatsApp    string
	LogoURL     string
	BrandColor  string
	HourlyRate  *decimal.Decimal
	MonthlyGoal *decimal.Decimal
}

// ConfigServicer defines the contract for per-user pricing configuration.
type ConfigServicer interface {
	GetConfig(userID string) (*models.UserConfig, error)
	CompleteOnboarding(userID string, goal, fixedCosts, workingDays decimal.Decimal) (*models.UserConfig, error)
	UpdateSettings(userID string, in SettingsInput) (*models.UserConfig, error)
}

// ClientInput holds the editable fields of a client.
type ClientInput struct {
	Name    string
	TaxID   string
	Phone   string
	Address string
	Active  *bool
}

// ClientServicer defines the contract for client-related business logic.
type ClientServicer interface {
	CreateClient(userID string, in ClientInput) (*models.Client, error)
	QuickSave(userID string, in ClientInput) (client *models.Client, existing bool, err error)
	GetUserClients(userID string, active *bool, page pagination.PageRequest) (*pagination.PageResponse[models.Client], error)
	GetClientByID(userID, clientID string) (*models.Client, error)
	UpdateClient(userID, clientID string, in ClientInput) (*models.Client, error)
	DeleteClient(userID, clientID string) error
}

// FreelancerServicer defines the contract for freelancer-related business logic.
type FreelancerServicer interface {
	CreateFreelancer(userID, name, role string, dailyRate decimal.Decimal) (*models.Freelancer, error)
	GetUserFreelancers(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Freelancer], error)
	GetFreelancerByID(userID, freelancerID string) (*models.Freelancer, error)
	UpdateFreelancer(userID, freelancerID, name, role string, dailyRate decimal.Decimal) (*models.Freelancer, error)
	DeleteFreelancer(userID, freelancerID string) error
}

// EquipmentServicer defines the contract for equipment-related business logic.
type EquipmentServicer interface {
	CreateEquipment(userID, name string, purchaseValue, rentalValue decimal.Decimal) (*models.Equipment, error)
	GetUserEquipment(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Equipment], error)
	GetEquipmentByID(userID, equipmentID string) (*models.Equipment, error)
	UpdateEquipment(userID, equipmentID, name string, purchaseValue, rentalValue decimal.Decimal) (*models.Equipment, error)
	DeleteEquipment(userID, equipmentID string) error
}

// BudgetInput is a parsed budget form. Numeric fields have already been
// coerced; Items is still raw so that a malformed list aborts the save
// transaction instead of being rejected up front.
type BudgetInput struct {
	Client        string
	ClientTaxID   string
	ClientPhone   string
	ClientAddress string
	Title         string
	Description   string
	Date          *time.Time
	LaborDays     decimal.Decimal
	MarginPercent int
	TaxPercent    decimal.Decimal
	ExtraCost     decimal.Decimal
	Items         json.RawMessage
}

// BudgetOptions is everything a budget form offers for prefill.
type BudgetOptions struct {
	Config      *models.UserConfig  `json:"config"`
	Equipment   []models.Equipment  `json:"equipment"`
	Freelancers []models.Freelancer `json:"freelancers"`
	Clients     []models.Client     `json:"clients"`
}

// BudgetPrint is a budget together with the branding it is printed under.
type BudgetPrint struct {
	Budget *models.Budget     `json:"budget"`
	Config *models.UserConfig `json:"config"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID string, in BudgetInput) (*models.Budget, error)
	UpdateBudget(userID, budgetID string, in BudgetInput) (*models.Budget, error)
	GetBudgetByID(userID, budgetID string) (*models.Budget, error)
	GetBudgetPrint(userID, budgetID string) (*BudgetPrint, error)
	GetBudgetOptions(userID string) (*BudgetOptions, error)
	ChangeStatus(userID, budgetID string, status models.BudgetStatus) (*models.Budget, error)
	DeleteBudget(userID, budgetID string) error
}

// Window is a half-open time range [From, To).
type Window struct {
	From time.Time
	To   time.Time
}

// MonthWindow returns the window covering the given calendar month in UTC.
func MonthWindow(year int, month time.Month) Window {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Window{From: from, To: from.AddDate(0, 1, 0)}
}

// YearWindow returns the window covering the given calendar year in UTC.
func YearWindow(year int) Window {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return Window{From: from, To: from.AddDate(1, 0, 0)}
}

// Dashboard summarizes one month of a user's budgets.
type Dashboard struct {
	Month         int                                     `json:"month"`
	Year          int                                     `json:"year"`
	TotalApproved decimal.Decimal                         `json:"total_approved"`
	TotalPending  decimal.Decimal                         `json:"total_pending"`
	TotalLost     decimal.Decimal                         `json:"total_lost"`
	MonthlyGoal   decimal.Decimal                         `json:"monthly_goal"`
	GoalPercent   int                                     `json:"goal_percent"`
	RevenueSeries [12]decimal.Decimal                     `json:"revenue_series"`
	StatusSeries  [3]decimal.Decimal                      `json:"status_series"`
	Budgets       pagination.PageResponse[models.Budget] `json:"budgets"`
}

// DashboardServicer defines the contract for budget aggregation.
type DashboardServicer interface {
	TotalByStatus(userID string, window Window, status models.BudgetStatus) (decimal.Decimal, error)
	YearlySeries(userID string, year int) ([12]decimal.Decimal, error)
	GetDashboard(userID string, month, year, page int) (*Dashboard, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
