package cost

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Call is one priced call recorded by a Tracker.
type Call struct {
	Family string
	Model  string
	Usage  Usage
	Amount decimal.Decimal
}

// BudgetError is returned once recorded spend reaches the budget.
type BudgetError struct {
	Limit decimal.Decimal
	Total decimal.Decimal
}

func (e *BudgetError) Error() string {
	return fmt.Sprintf("budget %s exceeded (current total %s)", Format(e.Limit, 4), Format(e.Total, 4))
}

// Tracker accumulates usage and spend across calls. It is not safe for
// concurrent use.
type Tracker struct {
	usage  Usage
	total  decimal.Decimal
	calls  []Call
	budget decimal.Decimal
}

// NewTracker returns a tracker. A zero or negative budget (in cents) disables
// the ceiling.
func NewTracker(budget decimal.Decimal) *Tracker {
	return &Tracker{budget: budget}
}

// Record adds a call to the running totals.
func (t *Tracker) Record(c Call) {
	if t == nil {
		return
	}
	t.calls = append(t.calls, c)
	t.total = t.total.Add(c.Amount)
	t.usage = Add(t.usage, Normalize(c.Usage))
}

// CheckBudget returns a *BudgetError once the total has reached the budget.
func (t *Tracker) CheckBudget() error {
	if t == nil || !t.budget.IsPositive() {
		return nil
	}
	if t.total.GreaterThanOrEqual(t.budget) {
		return &BudgetError{Limit: t.budget, Total: t.total}
	}
	return nil
}

// Total returns the accumulated amount in cents.
func (t *Tracker) Total() decimal.Decimal {
	if t == nil {
		return decimal.Zero
	}
	return t.total
}

// Usage returns the accumulated usage.
func (t *Tracker) Usage() Usage {
	if t == nil {
		return Usage{}
	}
	return t.usage
}

// Calls returns a copy of the recorded calls.
func (t *Tracker) Calls() []Call {
	if t == nil {
		return nil
	}
	out := make([]Call, len(t.calls))
	copy(out, t.calls)
	return out
}
