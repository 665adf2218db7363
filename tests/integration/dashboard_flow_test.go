package integration

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"cineorca/internal/models"
)

func TestDashboardFlow_MonthlyTotalsAndGoal(t *testing.T) {
	app := setupApp(t)
	token, _ := app.onboardedUser(t, "dash@test.com")

	// Goal 6000: one approved budget of 1938.46 gives 32%.
	approved := app.createBudget(t, token, scenarioBudget)
	pending := app.createBudget(t, token, `{"client":"B","title":"Pending one","extra_cost":"100","margin_percent":"0"}`)
	lost := app.createBudget(t, token, `{"client":"C","title":"Lost one","extra_cost":"50","margin_percent":"0"}`)

	for id, status := range map[string]string{
		approved["id"].(string): "Approved",
		lost["id"].(string):     "Lost",
	} {
		rec := app.request("POST", "/api/v1/budgets/"+id+"/status/"+status, "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("status change failed: %d", rec.Code)
		}
	}

	// A budget from last year must not count toward this month.
	lastYear := time.Now().UTC().AddDate(-1, 0, 0)
	old := app.createBudget(t, token, fmt.Sprintf(`{"client":"Old","title":"Old","extra_cost":"999","date":%q}`, lastYear.Format("2006-01-02")))
	app.DB.Model(&models.Budget{}).Where("id = ?", old["id"]).Update("status", models.BudgetStatusApproved)

	rec := app.request("GET", "/api/v1/dashboard", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	dash := parseJSON(t, rec)

	if dash["total_approved"] != "1938.46" {
		t.Errorf("expected approved 1938.46, got %v", dash["total_approved"])
	}
	if dash["total_pending"] != pending["final_price"] {
		t.Errorf("expected pending %v, got %v", pending["final_price"], dash["total_pending"])
	}
	if dash["total_lost"] != lost["final_price"] {
		t.Errorf("expected lost %v, got %v", lost["final_price"], dash["total_lost"])
	}
	if dash["goal_percent"] != float64(32) {
		t.Errorf("expected goal percent 32, got %v", dash["goal_percent"])
	}

	series := dash["revenue_series"].([]interface{})
	if len(series) != 12 {
		t.Fatalf("expected 12 months, got %d", len(series))
	}
	month := int(time.Now().UTC().Month())
	if series[month-1] != "1938.46" {
		t.Errorf("expected this month's revenue 1938.46, got %v", series[month-1])
	}

	budgets := dash["budgets"].(map[string]interface{})
	if budgets["total_items"] != float64(3) {
		t.Errorf("expected 3 budgets this month, got %v", budgets["total_items"])
	}

	// The other user sees nothing of this.
	otherToken, _ := app.onboardedUser(t, "other-dash@test.com")
	rec = app.request("GET", "/api/v1/dashboard", "", otherToken)
	other := parseJSON(t, rec)
	if other["total_approved"] != "0" {
		t.Errorf("expected isolated totals, got %v", other["total_approved"])
	}
}

func TestDashboardFlow_InvalidMonth(t *testing.T) {
	app := setupApp(t)
	token, _ := app.onboardedUser(t, "month@test.com")

	rec := app.request("GET", "/api/v1/dashboard?month=13", "", token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
