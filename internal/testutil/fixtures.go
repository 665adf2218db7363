package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"cineorca/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		Name:     "Test User",
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestUserConfig creates an onboarded config for the user.
func CreateTestUserConfig(t *testing.T, db *gorm.DB, userID, hourlyRate, monthlyGoal string) *models.UserConfig {
	t.Helper()

	cfg := &models.UserConfig{
		UserID:      userID,
		HourlyRate:  decimal.RequireFromString(hourlyRate),
		MonthlyGoal: decimal.RequireFromString(monthlyGoal),
		CompanyName: "Test Films",
		BrandColor:  models.DefaultBrandColor,
	}
	if err := db.Create(cfg).Error; err != nil {
		t.Fatalf("failed to create test user config: %v", err)
	}
	return cfg
}

// CreateTestClient creates an active client.
func CreateTestClient(t *testing.T, db *gorm.DB, userID string) *models.Client {
	t.Helper()

	client := &models.Client{
		UserID: userID,
		Name:   fmt.Sprintf("Test Client %d", nextID()),
		Phone:  "5511999990000",
		Active: true,
	}
	if err := db.Create(client).Error; err != nil {
		t.Fatalf("failed to create test client: %v", err)
	}
	return client
}

// CreateTestFreelancer creates a freelancer with a 500.00 day rate.
func CreateTestFreelancer(t *testing.T, db *gorm.DB, userID string) *models.Freelancer {
	t.Helper()

	f := &models.Freelancer{
		UserID:    userID,
		Name:      fmt.Sprintf("Test Freelancer %d", nextID()),
		Role:      "Gaffer",
		DailyRate: decimal.NewFromInt(500),
	}
	if err := db.Create(f).Error; err != nil {
		t.Fatalf("failed to create test freelancer: %v", err)
	}
	return f
}

// CreateTestEquipment creates a piece of equipment renting for 200.00.
func CreateTestEquipment(t *testing.T, db *gorm.DB, userID string) *models.Equipment {
	t.Helper()

	e := &models.Equipment{
		UserID:        userID,
		Name:          fmt.Sprintf("Test Camera %d", nextID()),
		PurchaseValue: decimal.NewFromInt(20000),
		RentalValue:   decimal.NewFromInt(200),
	}
	if err := db.Create(e).Error; err != nil {
		t.Fatalf("failed to create test equipment: %v", err)
	}
	return e
}

// CreateTestBudget creates a budget with a fixed final price, bypassing the
// calculator. Use it for aggregation tests only.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID string, status models.BudgetStatus, finalPrice string, date time.Time) *models.Budget {
	t.Helper()

	price := decimal.RequireFromString(finalPrice)
	budget := &models.Budget{
		UserID:        userID,
		Client:        "Fixture Client",
		Title:         fmt.Sprintf("Test Budget %d", nextID()),
		Date:          date.UTC(),
		Status:        status,
		MarginPercent: 30,
		TotalCost:     price,
		FinalPrice:    price,
		Items: []models.BudgetItem{
			{Name: "Item", ItemType: "other", Value: price, Days: decimal.NewFromInt(1)},
		},
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}
