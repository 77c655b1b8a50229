// Package cost turns catalog prices and usage counts into amounts in cents.
// All arithmetic is fixed-point; nothing is rounded until display.
package cost

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/zen-systems/gptcore/pkg/capability"
	"github.com/zen-systems/gptcore/pkg/catalog"
)

// Kind selects which unit price applies.
type Kind int

const (
	Input Kind = iota
	CachedInput
	Output
)

func (k Kind) String() string {
	switch k {
	case Input:
		return "input"
	case CachedInput:
		return "cached_input"
	case Output:
		return "output"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Priced is implemented by every catalog descriptor.
type Priced interface {
	Prices() catalog.Pricing
}

// Cost returns unitPrice * units. CachedInput uses the input price when the
// model has no cached rate.
func Cost(d Priced, units int64, kind Kind) decimal.Decimal {
	p := d.Prices()
	n := decimal.NewFromInt(units)
	switch kind {
	case CachedInput:
		if p.HasCachedInput {
			return p.CachedInput.Mul(n)
		}
		return p.Input.Mul(n)
	case Output:
		return p.Output.Mul(n)
	default:
		return p.Input.Mul(n)
	}
}

// Usage counts billable units for one call. Cached input tokens are a subset of
// InputTokens and reasoning tokens a subset of OutputTokens.
type Usage struct {
	InputTokens       int64 `json:"input_tokens" yaml:"input_tokens"`
	CachedInputTokens int64 `json:"cached_input_tokens" yaml:"cached_input_tokens"`
	OutputTokens      int64 `json:"output_tokens" yaml:"output_tokens"`
	ReasoningTokens   int64 `json:"reasoning_tokens" yaml:"reasoning_tokens"`
	TotalTokens       int64 `json:"total_tokens" yaml:"total_tokens"`
}

// Normalize fills TotalTokens when the provider left it out.
func Normalize(u Usage) Usage {
	if u.TotalTokens == 0 && (u.InputTokens > 0 || u.OutputTokens > 0) {
		u.TotalTokens = u.InputTokens + u.OutputTokens
	}
	return u
}

// Add sums two usage records field by field.
func Add(a, b Usage) Usage {
	return Usage{
		InputTokens:       a.InputTokens + b.InputTokens,
		CachedInputTokens: a.CachedInputTokens + b.CachedInputTokens,
		OutputTokens:      a.OutputTokens + b.OutputTokens,
		ReasoningTokens:   a.ReasoningTokens + b.ReasoningTokens,
		TotalTokens:       a.TotalTokens + b.TotalTokens,
	}
}

// ForUsage prices a whole usage record: uncached input, cached input and output.
func ForUsage(d Priced, u Usage) decimal.Decimal {
	cached := u.CachedInputTokens
	if cached > u.InputTokens {
		cached = u.InputTokens
	}
	return Cost(d, u.InputTokens-cached, Input).
		Add(Cost(d, cached, CachedInput)).
		Add(Cost(d, u.OutputTokens, Output))
}

// SearchCall returns the flat fee for the given number of web searches at a context
// size. Non-search models and unpriced sizes cost nothing.
func SearchCall(m *catalog.ChatModel, size capability.SearchContextSize, calls int64) decimal.Decimal {
	if m == nil || calls <= 0 {
		return decimal.Zero
	}
	price, ok := m.SearchCallPrices[size]
	if !ok {
		return decimal.Zero
	}
	return price.Mul(decimal.NewFromInt(calls))
}

// Dollars converts an amount in cents to dollars.
func Dollars(cents decimal.Decimal) decimal.Decimal {
	return cents.Shift(-2)
}

// Format renders an amount in cents as a dollar string with the given digits.
func Format(cents decimal.Decimal, digits int32) string {
	return "$" + Dollars(cents).StringFixed(digits)
}
