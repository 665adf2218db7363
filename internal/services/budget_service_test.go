package services

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"cineorca/internal/models"
	"cineorca/internal/testutil"
)

func scenarioInput(margin int, items string) BudgetInput {
	return BudgetInput{
		Client:        "Acme",
		ClientTaxID:   "12.345.678/0001-90",
		Title:         "Launch film",
		LaborDays:     decimal.NewFromInt(2),
		MarginPercent: margin,
		TaxPercent:    decimal.NewFromInt(5),
		ExtraCost:     decimal.NewFromInt(100),
		Items:         json.RawMessage(items),
	}
}

const scenarioItems = `[{"name":"Camera","type":"equipment","value":"200","days":1},{"name":"Gaffer","type":"freelancer","value":80,"days":"2"}]`

func TestCreateBudget(t *testing.T) {
	t.Run("prices_scenario_a", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestUserConfig(t, db, user.ID, "50", "10000")

		budget, err := svc.CreateBudget(user.ID, scenarioInput(30, scenarioItems))
		testutil.AssertNoError(t, err)

		if budget.ID == "" {
			t.Fatal("expected budget ID")
		}
		if budget.Status != models.BudgetStatusPending {
			t.Errorf("expected Pending, got %s", budget.Status)
		}
		testutil.AssertDecimal(t, budget.TotalCost, "1260")
		testutil.AssertDecimal(t, budget.FinalPrice, "1938.46")
		if len(budget.Items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(budget.Items))
		}

		stored, err := svc.GetBudgetByID(user.ID, budget.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, stored.FinalPrice, "1938.46")
		if len(stored.Items) != 2 || stored.Items[0].Name != "Camera" {
			t.Errorf("unexpected stored items %+v", stored.Items)
		}
	})

	t.Run("truncates_snapshot_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestUserConfig(t, db, user.ID, "50", "10000")

		in := scenarioInput(30, "")
		in.Client = strings.Repeat("c", 101)
		in.Title = strings.Repeat("t", 150)
		budget, err := svc.CreateBudget(user.ID, in)
		testutil.AssertNoError(t, err)

		if len(budget.Client) != 100 || len(budget.Title) != 100 {
			t.Errorf("expected client and title cut to 100, got %d and %d", len(budget.Client), len(budget.Title))
		}
	})

	t.Run("markup_at_limit_keeps_cost", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestUserConfig(t, db, user.ID, "50", "10000")

		in := scenarioInput(60, scenarioItems)
		in.TaxPercent = decimal.NewFromInt(40)
		budget, err := svc.CreateBudget(user.ID, in)
		testutil.AssertNoError(t, err)

		testutil.AssertDecimal(t, budget.FinalPrice, "1260")
	})

	t.Run("items_as_json_string", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestUserConfig(t, db, user.ID, "50", "10000")

		encoded, _ := json.Marshal(scenarioItems)
		budget, err := svc.CreateBudget(user.ID, scenarioInput(30, string(encoded)))
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, budget.FinalPrice, "1938.46")
	})

	t.Run("item_defaults", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestUserConfig(t, db, user.ID, "0", "0")

		budget, err := svc.CreateBudget(user.ID, BudgetInput{
			Title: "Defaults",
			Items: json.RawMessage(`[{"value":"12,5"}]`),
		})
		testutil.AssertNoError(t, err)

		item := budget.Items[0]
		if item.Name != DefaultItemName || item.ItemType != DefaultItemType {
			t.Errorf("expected default name and type, got %q %q", item.Name, item.ItemType)
		}
		testutil.AssertDecimal(t, item.Days, "1")
		testutil.AssertDecimal(t, item.Value, "12.50")
		testutil.AssertDecimal(t, budget.TotalCost, "12.50")
	})

	t.Run("empty_items", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestUserConfig(t, db, user.ID, "50", "10000")

		for _, raw := range []string{"", "null", `""`, "[]"} {
			budget, err := svc.CreateBudget(user.ID, scenarioInput(30, raw))
			testutil.AssertNoError(t, err)
			if len(budget.Items) != 0 {
				t.Errorf("items %q: expected no items, got %d", raw, len(budget.Items))
			}
		}
	})

	t.Run("snapshot_truncated", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestUserConfig(t, db, user.ID, "50", "10000")

		in := scenarioInput(30, "[]")
		in.ClientPhone = "+55 (11) 99999-0000 ext 123"
		budget, err := svc.CreateBudget(user.ID, in)
		testutil.AssertNoError(t, err)
		if len(budget.ClientPhone) != 20 {
			t.Errorf("expected phone truncated to 20, got %q", budget.ClientPhone)
		}
	})

	t.Run("malformed_items_writes_nothing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestUserConfig(t, db, user.ID, "50", "10000")

		for _, raw := range []string{`{"name":"x"}`, `"not json"`, `[1,2]`, `[null]`, `[{"name":`} {
			_, err := svc.CreateBudget(user.ID, scenarioInput(30, raw))
			testutil.AssertAppError(t, err, "INVALID_ITEMS")
		}

		var count int64
		db.Model(&models.Budget{}).Count(&count)
		if count != 0 {
			t.Errorf("expected no budgets after failed saves, got %d", count)
		}
	})

	t.Run("requires_onboarding", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateBudget(user.ID, scenarioInput(30, scenarioItems))
		testutil.AssertAppError(t, err, "ONBOARDING_REQUIRED")
	})
}

func TestUpdateBudget(t *testing.T) {
	t.Run("replaces_items_and_reprices", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestUserConfig(t, db, user.ID, "50", "10000")

		budget, err := svc.CreateBudget(user.ID, scenarioInput(30, scenarioItems))
		testutil.AssertNoError(t, err)
		_, err = svc.ChangeStatus(user.ID, budget.ID, models.BudgetStatusApproved)
		testutil.AssertNoError(t, err)

		updated, err := svc.UpdateBudget(user.ID, budget.ID, scenarioInput(30, `[{"name":"Drone","value":100}]`))
		testutil.AssertNoError(t, err)

		// 800 labor + 100 extra + 100 item = 1000 / 0.65
		testutil.AssertDecimal(t, updated.TotalCost, "1000")
		testutil.AssertDecimal(t, updated.FinalPrice, "1538.46")

		stored, err := svc.GetBudgetByID(user.ID, budget.ID)
		testutil.AssertNoError(t, err)
		if len(stored.Items) != 1 || stored.Items[0].Name != "Drone" {
			t.Errorf("expected items to be replaced, got %+v", stored.Items)
		}
		if stored.Status != models.BudgetStatusApproved {
			t.Errorf("edit must keep status, got %s", stored.Status)
		}

		var itemCount int64
		db.Model(&models.BudgetItem{}).Count(&itemCount)
		if itemCount != 1 {
			t.Errorf("expected old items to be deleted, found %d rows", itemCount)
		}
	})

	t.Run("malformed_items_keeps_previous", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestUserConfig(t, db, user.ID, "50", "10000")

		budget, err := svc.CreateBudget(user.ID, scenarioInput(30, scenarioItems))
		testutil.AssertNoError(t, err)

		in := scenarioInput(10, `{"broken":true}`)
		in.Title = "Changed"
		_, err = svc.UpdateBudget(user.ID, budget.ID, in)
		testutil.AssertAppError(t, err, "INVALID_ITEMS")

		stored, err := svc.GetBudgetByID(user.ID, budget.ID)
		testutil.AssertNoError(t, err)
		if stored.Title != "Launch film" {
			t.Errorf("header must be rolled back, got title %q", stored.Title)
		}
		if len(stored.Items) != 2 {
			t.Errorf("previous items must survive, got %d", len(stored.Items))
		}
		testutil.AssertDecimal(t, stored.FinalPrice, "1938.46")
	})

	t.Run("other_users_budget", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		testutil.CreateTestUserConfig(t, db, owner.ID, "50", "10000")
		testutil.CreateTestUserConfig(t, db, intruder.ID, "500", "10000")

		budget, err := svc.CreateBudget(owner.ID, scenarioInput(30, scenarioItems))
		testutil.AssertNoError(t, err)

		in := scenarioInput(30, "[]")
		in.Title = "Hijacked"
		_, err = svc.UpdateBudget(intruder.ID, budget.ID, in)
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")

		stored, err := svc.GetBudgetByID(owner.ID, budget.ID)
		testutil.AssertNoError(t, err)
		if stored.Title != "Launch film" || len(stored.Items) != 2 {
			t.Errorf("budget must be untouched, got %+v", stored)
		}
		testutil.AssertDecimal(t, stored.FinalPrice, "1938.46")
	})

	t.Run("explicit_date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestUserConfig(t, db, user.ID, "50", "10000")

		budget, err := svc.CreateBudget(user.ID, scenarioInput(30, "[]"))
		testutil.AssertNoError(t, err)

		date := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
		in := scenarioInput(30, "[]")
		in.Date = &date
		updated, err := svc.UpdateBudget(user.ID, budget.ID, in)
		testutil.AssertNoError(t, err)
		if !updated.Date.Equal(date) {
			t.Errorf("expected %v, got %v", date, updated.Date)
		}
	})
}

func TestGetBudgetByID_OtherUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewBudgetService(db)
	owner := testutil.CreateTestUser(t, db)
	intruder := testutil.CreateTestUser(t, db)
	budget := testutil.CreateTestBudget(t, db, owner.ID, models.BudgetStatusPending, "100", time.Now())

	_, err := svc.GetBudgetByID(intruder.ID, budget.ID)
	testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
}

func TestGetBudgetPrint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewBudgetService(db)
	user := testutil.CreateTestUser(t, db)
	budget := testutil.CreateTestBudget(t, db, user.ID, models.BudgetStatusApproved, "100", time.Now())

	view, err := svc.GetBudgetPrint(user.ID, budget.ID)
	testutil.AssertNoError(t, err)
	if view.Config != nil {
		t.Error("expected nil config for a user without one")
	}
	if len(view.Budget.Items) != 1 {
		t.Errorf("expected items in print view, got %d", len(view.Budget.Items))
	}

	testutil.CreateTestUserConfig(t, db, user.ID, "50", "10000")
	view, err = svc.GetBudgetPrint(user.ID, budget.ID)
	testutil.AssertNoError(t, err)
	if view.Config == nil || view.Config.CompanyName != "Test Films" {
		t.Errorf("expected branding config, got %+v", view.Config)
	}
}

func TestGetBudgetOptions(t *testing.T) {
	t.Run("lists_prefill_data", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		testutil.CreateTestUserConfig(t, db, user.ID, "50", "10000")

		testutil.CreateTestEquipment(t, db, user.ID)
		testutil.CreateTestFreelancer(t, db, user.ID)
		testutil.CreateTestClient(t, db, user.ID)
		inactive := testutil.CreateTestClient(t, db, user.ID)
		db.Model(inactive).Update("active", false)
		testutil.CreateTestEquipment(t, db, other.ID)

		opts, err := svc.GetBudgetOptions(user.ID)
		testutil.AssertNoError(t, err)

		if len(opts.Equipment) != 1 || len(opts.Freelancers) != 1 {
			t.Errorf("expected 1 equipment and 1 freelancer, got %d and %d", len(opts.Equipment), len(opts.Freelancers))
		}
		if len(opts.Clients) != 1 {
			t.Errorf("expected only the active client, got %d", len(opts.Clients))
		}
		if opts.Config == nil {
			t.Error("expected config")
		}
	})

	t.Run("requires_onboarding", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.GetBudgetOptions(user.ID)
		testutil.AssertAppError(t, err, "ONBOARDING_REQUIRED")
	})
}

func TestChangeStatus(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID, models.BudgetStatusPending, "100", time.Now())

		_, err := svc.ChangeStatus(user.ID, budget.ID, models.BudgetStatusLost)
		testutil.AssertNoError(t, err)

		stored, _ := svc.GetBudgetByID(user.ID, budget.ID)
		if stored.Status != models.BudgetStatusLost {
			t.Errorf("expected Lost, got %s", stored.Status)
		}
		testutil.AssertDecimal(t, stored.FinalPrice, "100")
	})

	t.Run("invalid_status", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID, models.BudgetStatusPending, "100", time.Now())

		_, err := svc.ChangeStatus(user.ID, budget.ID, "Won")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("other_users_budget", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, owner.ID, models.BudgetStatusPending, "100", time.Now())

		_, err := svc.ChangeStatus(intruder.ID, budget.ID, models.BudgetStatusApproved)
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")

		stored, _ := svc.GetBudgetByID(owner.ID, budget.ID)
		if stored.Status != models.BudgetStatusPending {
			t.Errorf("status must not change, got %s", stored.Status)
		}
	})
}

func TestDeleteBudget(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewBudgetService(db)
	owner := testutil.CreateTestUser(t, db)
	intruder := testutil.CreateTestUser(t, db)
	budget := testutil.CreateTestBudget(t, db, owner.ID, models.BudgetStatusPending, "100", time.Now())

	testutil.AssertAppError(t, svc.DeleteBudget(intruder.ID, budget.ID), "BUDGET_NOT_FOUND")
	testutil.AssertNoError(t, svc.DeleteBudget(owner.ID, budget.ID))

	_, err := svc.GetBudgetByID(owner.ID, budget.ID)
	testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")

	var items int64
	db.Model(&models.BudgetItem{}).Where("budget_id = ?", budget.ID).Count(&items)
	if items != 0 {
		t.Errorf("expected items to be deleted, found %d", items)
	}
}

func TestDecodeItems(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{"array", `[{"name":"a"},{"name":"b"}]`, 2, false},
		{"string_wrapped", `"[{\"name\":\"a\"}]"`, 1, false},
		{"blank_string", `"  "`, 0, false},
		{"whitespace", "  ", 0, false},
		{"object", `{"name":"a"}`, 0, true},
		{"number", `42`, 0, true},
		{"string_of_object", `"{}"`, 0, true},
		{"non_object_element", `["a"]`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := decodeItems(json.RawMessage(tt.raw))
			if tt.wantErr {
				testutil.AssertAppError(t, err, "INVALID_ITEMS")
				return
			}
			testutil.AssertNoError(t, err)
			if len(items) != tt.want {
				t.Errorf("expected %d items, got %d", tt.want, len(items))
			}
		})
	}
}

func TestDecodeItems_Days(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"absent", `[{"name":"a"}]`, "1"},
		{"null", `[{"name":"a","days":null}]`, "0"},
		{"empty", `[{"name":"a","days":""}]`, "0"},
		{"comma", `[{"name":"a","days":"2,5"}]`, "2.5"},
		{"number", `[{"name":"a","days":3}]`, "3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := decodeItems(json.RawMessage(tt.raw))
			testutil.AssertNoError(t, err)
			if len(items) != 1 {
				t.Fatalf("expected 1 item, got %d", len(items))
			}
			testutil.AssertDecimal(t, items[0].Days, tt.want)
		})
	}
}
