package testutil_test

import (
	"testing"
	"time"

	"cineorca/internal/errors"
	"cineorca/internal/models"
	"cineorca/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	var count int64
	for _, table := range []string{"users", "user_configs", "clients", "freelancers", "equipment", "budgets", "budget_items", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestSetupTestDB_Isolated(t *testing.T) {
	db1 := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db1)
	db2 := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db2)

	testutil.CreateTestUser(t, db1)

	var count int64
	db2.Model(&models.User{}).Count(&count)
	if count != 0 {
		t.Errorf("expected empty second database, found %d users", count)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == "" {
		t.Fatal("user should have an ID")
	}

	cfg := testutil.CreateTestUserConfig(t, db, user.ID, "50", "10000")
	testutil.AssertDecimal(t, cfg.HourlyRate, "50")

	client := testutil.CreateTestClient(t, db, user.ID)
	if !client.Active {
		t.Error("expected active client")
	}

	f := testutil.CreateTestFreelancer(t, db, user.ID)
	testutil.AssertDecimal(t, f.DailyRate, "500")

	e := testutil.CreateTestEquipment(t, db, user.ID)
	testutil.AssertDecimal(t, e.RentalValue, "200")

	budget := testutil.CreateTestBudget(t, db, user.ID, models.BudgetStatusApproved, "1500.50", time.Now())
	testutil.AssertDecimal(t, budget.FinalPrice, "1500.50")
	if len(budget.Items) != 1 || budget.Items[0].ID == "" {
		t.Errorf("expected one persisted item, got %+v", budget.Items)
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrBudgetNotFound, "custom message")
	testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
