// Package history accumulates the turns of one chat session for providers
// that need the whole conversation resubmitted on every call.
package history

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"github.com/zen-systems/gptcore/pkg/cost"
	"github.com/zen-systems/gptcore/pkg/prompt"
	"github.com/zen-systems/gptcore/pkg/transport"
)

// Turn is one prompt/response pair.
type Turn struct {
	Prompt     string
	Response   string
	ResponseID string
	Model      string
	Usage      cost.Usage
	Cost       decimal.Decimal
	At         time.Time
}

// History is an ordered list of turns with running token totals. It is not
// safe for concurrent use.
type History struct {
	id      string
	turns   []Turn
	input   int64
	output  int64
	tracker *cost.Tracker
}

// New starts an empty history. budget is in cents; zero disables it.
func New(budget decimal.Decimal) *History {
	return &History{
		id:      ulid.Make().String(),
		tracker: cost.NewTracker(budget),
	}
}

// ID identifies the session.
func (h *History) ID() string { return h.id }

// Append records a turn. Negative counters are treated as zero so totals
// never decrease.
func (h *History) Append(t Turn) {
	t.Usage = cost.Normalize(clamp(t.Usage))
	if t.At.IsZero() {
		t.At = time.Now()
	}
	h.turns = append(h.turns, t)
	h.input += t.Usage.InputTokens
	h.output += t.Usage.OutputTokens
	h.tracker.Record(cost.Call{Family: "chat", Model: t.Model, Usage: t.Usage, Amount: t.Cost})
}

func clamp(u cost.Usage) cost.Usage {
	u.InputTokens = max(0, u.InputTokens)
	u.CachedInputTokens = max(0, u.CachedInputTokens)
	u.OutputTokens = max(0, u.OutputTokens)
	u.ReasoningTokens = max(0, u.ReasoningTokens)
	u.TotalTokens = max(0, u.TotalTokens)
	return u
}

// AppendPrompt records a completed chat call.
func (h *History) AppendPrompt(p *prompt.ChatPrompt) {
	h.Append(Turn{
		Prompt:     p.Input,
		Response:   p.Output,
		ResponseID: p.ID,
		Model:      p.Model,
		Usage:      p.Usage,
		Cost:       p.Cost,
		At:         p.CreatedAt,
	})
}

// Turns returns a copy of the recorded turns.
func (h *History) Turns() []Turn {
	out := make([]Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

// Len returns the number of turns.
func (h *History) Len() int { return len(h.turns) }

// Messages flattens the turns into alternating user and assistant messages.
// The result always has an even length.
func (h *History) Messages() []transport.Message {
	texts := make([]string, 0, 2*len(h.turns))
	for _, t := range h.turns {
		texts = append(texts, t.Prompt, t.Response)
	}
	msgs := make([]transport.Message, len(texts))
	for i, text := range texts {
		role := transport.RoleUser
		if i%2 == 1 {
			role = transport.RoleAssistant
		}
		msgs[i] = transport.Message{Role: role, Content: text}
	}
	return msgs
}

// LastResponseID returns the provider ID of the latest turn, or "".
func (h *History) LastResponseID() string {
	if len(h.turns) == 0 {
		return ""
	}
	return h.turns[len(h.turns)-1].ResponseID
}

func (h *History) InputTokens() int64  { return h.input }
func (h *History) OutputTokens() int64 { return h.output }
func (h *History) TotalTokens() int64  { return h.input + h.output }

// Cost returns the accumulated spend in cents.
func (h *History) Cost() decimal.Decimal { return h.tracker.Total() }

// CheckBudget reports a *cost.BudgetError once spend reaches the budget.
func (h *History) CheckBudget() error { return h.tracker.CheckBudget() }
