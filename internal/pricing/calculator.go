package pricing

import "github.com/shopspring/decimal"

const (
	// WorkdayHours converts an hourly rate into a daily rate.
	WorkdayHours = 8

	// DefaultMarginPercent applies when a budget carries no usable margin.
	DefaultMarginPercent = 30

	// DefaultWorkingDays applies during onboarding when no working days are given.
	DefaultWorkingDays = 20
)

var (
	hundred    = decimal.NewFromInt(100)
	one        = decimal.NewFromInt(1)
	minDivisor = decimal.RequireFromString("0.01")
)

// Item is one priced line of a budget.
type Item struct {
	Value decimal.Decimal
	Days  decimal.Decimal
}

// Input holds everything the calculator needs for one budget.
type Input struct {
	HourlyRate    decimal.Decimal
	LaborDays     decimal.Decimal
	ExtraCost     decimal.Decimal
	Items         []Item
	MarginPercent int
	TaxPercent    decimal.Decimal
}

// Result holds the derived figures of a budget.
type Result struct {
	DailyRate  decimal.Decimal `json:"daily_rate"`
	LaborCost  decimal.Decimal `json:"labor_cost"`
	ItemsCost  decimal.Decimal `json:"items_cost"`
	TotalCost  decimal.Decimal `json:"total_cost"`
	Divisor    decimal.Decimal `json:"divisor"`
	FinalPrice decimal.Decimal `json:"final_price"`
}

// Calculate prices a budget.
//
// Margin and tax are fractions of the final price, not of the cost:
// final = total / (1 - margin/100 - tax/100). When that divisor is 0.01 or
// less the final price equals the total cost.
func Calculate(in Input) Result {
	dailyRate := in.HourlyRate.Mul(decimal.NewFromInt(WorkdayHours))
	laborCost := in.LaborDays.Mul(dailyRate)

	itemsCost := decimal.Zero
	for _, item := range in.Items {
		itemsCost = itemsCost.Add(item.Value.Mul(item.Days))
	}

	totalCost := laborCost.Add(in.ExtraCost).Add(itemsCost)

	markup := decimal.NewFromInt(int64(in.MarginPercent)).Div(hundred).
		Add(in.TaxPercent.Div(hundred))
	divisor := one.Sub(markup)

	finalPrice := totalCost
	if divisor.GreaterThan(minDivisor) {
		finalPrice = totalCost.Div(divisor)
	}

	return Result{
		DailyRate:  Round(dailyRate),
		LaborCost:  Round(laborCost),
		ItemsCost:  Round(itemsCost),
		TotalCost:  Round(totalCost),
		Divisor:    divisor,
		FinalPrice: Round(finalPrice),
	}
}

// HourlyRateFromGoal derives the onboarding hourly rate from a monthly income
// goal, monthly fixed costs and working days per month. Zero working days
// falls back to DefaultWorkingDays.
func HourlyRateFromGoal(goal, fixedCosts, workingDays decimal.Decimal) decimal.Decimal {
	if workingDays.IsZero() {
		workingDays = decimal.NewFromInt(DefaultWorkingDays)
	}
	perDay := goal.Add(fixedCosts).Div(workingDays)
	return Round(perDay.Div(decimal.NewFromInt(WorkdayHours)))
}

// GoalPercent returns approved revenue as a whole percentage of the monthly
// goal. It is not capped at 100 and is 0 when no goal is set.
func GoalPercent(approved, goal decimal.Decimal) int {
	if !goal.IsPositive() {
		return 0
	}
	return int(approved.Div(goal).Mul(hundred).Round(0).IntPart())
}
