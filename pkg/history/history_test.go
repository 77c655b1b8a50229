package history

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/zen-systems/gptcore/pkg/cost"
	"github.com/zen-systems/gptcore/pkg/prompt"
	"github.com/zen-systems/gptcore/pkg/transport"
)

func TestMessagesAlternateAndStayEven(t *testing.T) {
	h := New(decimal.Zero)
	if h.ID() == "" {
		t.Fatalf("expected session id")
	}
	if len(h.Messages()) != 0 {
		t.Fatalf("expected empty message list")
	}

	var wantIn, wantOut int64
	for n := 1; n <= 5; n++ {
		in, out := int64(n*10), int64(n*3)
		h.Append(Turn{
			Prompt:   "q",
			Response: "a",
			Usage:    cost.Usage{InputTokens: in, OutputTokens: out},
		})
		wantIn += in
		wantOut += out

		msgs := h.Messages()
		if len(msgs) != 2*n {
			t.Fatalf("after %d turns: %d messages", n, len(msgs))
		}
		for i, m := range msgs {
			want := transport.RoleUser
			if i%2 == 1 {
				want = transport.RoleAssistant
			}
			if m.Role != want {
				t.Fatalf("message %d role = %s, want %s", i, m.Role, want)
			}
		}
		if h.TotalTokens() != wantIn+wantOut {
			t.Fatalf("total = %d, want %d", h.TotalTokens(), wantIn+wantOut)
		}
	}
	if h.InputTokens() != wantIn || h.OutputTokens() != wantOut {
		t.Fatalf("in/out = %d/%d", h.InputTokens(), h.OutputTokens())
	}
}

func TestTotalsNeverDecrease(t *testing.T) {
	h := New(decimal.Zero)
	h.Append(Turn{Usage: cost.Usage{InputTokens: 5, OutputTokens: 5}})
	before := h.TotalTokens()
	h.Append(Turn{Usage: cost.Usage{InputTokens: -3, OutputTokens: -1, TotalTokens: -4, ReasoningTokens: -2}})
	if h.TotalTokens() != before {
		t.Fatalf("total moved from %d to %d", before, h.TotalTokens())
	}
	if h.InputTokens() != 5 || h.OutputTokens() != 5 {
		t.Fatalf("in/out = %d/%d", h.InputTokens(), h.OutputTokens())
	}
	if got := h.Turns()[1].Usage; got != (cost.Usage{}) {
		t.Fatalf("stored usage not clamped: %+v", got)
	}
	h.Append(Turn{Usage: cost.Usage{InputTokens: 2, OutputTokens: -7}})
	if h.TotalTokens() != before+2 {
		t.Fatalf("total = %d, want %d", h.TotalTokens(), before+2)
	}
}

func TestAppendPromptTracksCostAndLastID(t *testing.T) {
	h := New(decimal.NewFromInt(1))
	if h.LastResponseID() != "" {
		t.Fatalf("expected no last id")
	}
	h.AppendPrompt(&prompt.ChatPrompt{
		ID:     "resp_abc",
		Model:  "gpt-5-mini",
		Input:  "hi",
		Output: "hello",
		Usage:  cost.Usage{InputTokens: 2, OutputTokens: 1, TotalTokens: 3},
		Cost:   decimal.RequireFromString("0.4"),
	})
	if h.LastResponseID() != "resp_abc" {
		t.Fatalf("last id = %q", h.LastResponseID())
	}
	if err := h.CheckBudget(); err != nil {
		t.Fatalf("unexpected budget error: %v", err)
	}
	h.AppendPrompt(&prompt.ChatPrompt{ID: "resp_def", Cost: decimal.RequireFromString("0.6")})
	if !h.Cost().Equal(decimal.NewFromInt(1)) {
		t.Fatalf("cost = %s", h.Cost())
	}
	if err := h.CheckBudget(); err == nil {
		t.Fatalf("expected budget error")
	}
	turns := h.Turns()
	if len(turns) != 2 || turns[0].Response != "hello" {
		t.Fatalf("unexpected turns: %+v", turns)
	}
}
