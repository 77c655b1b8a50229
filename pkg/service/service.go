// Package service validates caller options against the catalog and turns
// them into transport calls. Each family has a builder that records the
// first invalid option it sees and a service that issues calls and returns
// normalized, cost-annotated results.
//
// Builders and services are not safe for concurrent use; give each
// goroutine its own.
package service

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"
	"github.com/zen-systems/gptcore/pkg/catalog"
	"github.com/zen-systems/gptcore/pkg/cost"
	"github.com/zen-systems/gptcore/pkg/transport"
)

// base carries what every service shares.
type base struct {
	transport transport.Transport
	logger    *slog.Logger
	tracker   *cost.Tracker
}

func newBase(t transport.Transport, logger *slog.Logger, tracker *cost.Tracker) (base, error) {
	if t == nil {
		return base{}, invalid("transport", nil, "must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return base{transport: t, logger: logger, tracker: tracker}, nil
}

// before runs the checks every call needs ahead of the transport.
func (b base) before(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.tracker.CheckBudget()
}

func (b base) record(family catalog.Family, model string, usage cost.Usage, amount decimal.Decimal) {
	b.tracker.Record(cost.Call{Family: string(family), Model: model, Usage: usage, Amount: amount})
	b.logger.Debug("call completed",
		"family", family,
		"model", model,
		"input_tokens", usage.InputTokens,
		"output_tokens", usage.OutputTokens,
		"cost_cents", amount.String(),
	)
}
