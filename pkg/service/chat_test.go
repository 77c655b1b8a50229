package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/zen-systems/gptcore/pkg/capability"
	"github.com/zen-systems/gptcore/pkg/catalog"
	"github.com/zen-systems/gptcore/pkg/config"
	"github.com/zen-systems/gptcore/pkg/cost"
	"github.com/zen-systems/gptcore/pkg/history"
	"github.com/zen-systems/gptcore/pkg/transport"
)

func TestChatMaxOutputTokensOverLimit(t *testing.T) {
	m, err := catalog.LookupChat("gpt-5-mini")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	over := m.MaxOutputTokens + 1

	builders := map[string]*ChatBuilder{
		"model first":   NewChatBuilder().Model("gpt-5-mini").MaxOutputTokens(over),
		"limit first":   NewChatBuilder().MaxOutputTokens(over).Model("gpt-5-mini"),
		"default model": NewChatBuilder().MaxOutputTokens(over),
	}
	for name, b := range builders {
		stub := transport.NewStub()
		svc, err := b.Build(stub)
		var ip *InvalidParameterError
		if !errors.As(err, &ip) {
			t.Fatalf("%s: expected InvalidParameterError, got %v", name, err)
		}
		if svc != nil {
			t.Fatalf("%s: expected no service", name)
		}
		if stub.Calls != 0 {
			t.Fatalf("%s: transport called %d times", name, stub.Calls)
		}
	}

	svc, err := NewChatBuilder().Model("gpt-5-mini").MaxOutputTokens(m.MaxOutputTokens).Build(transport.NewStub())
	if err != nil || svc == nil {
		t.Fatalf("limit itself should be accepted: %v", err)
	}
}

func TestChatParameterRanges(t *testing.T) {
	tests := []struct {
		name  string
		b     *ChatBuilder
		param string
	}{
		{"temperature low", NewChatBuilder().Temperature(-0.1), "temperature"},
		{"temperature high", NewChatBuilder().Temperature(2.01), "temperature"},
		{"top_p high", NewChatBuilder().TopP(1.5), "top_p"},
		{"frequency penalty", NewChatBuilder().FrequencyPenalty(-2.5), "frequency_penalty"},
		{"presence penalty", NewChatBuilder().PresencePenalty(3), "presence_penalty"},
		{"n", NewChatBuilder().N(0), "n"},
		{"max output", NewChatBuilder().MaxOutputTokens(0), "max_output_tokens"},
		{"effort", NewChatBuilder().ReasoningEffort("extreme"), "reasoning_effort"},
		{"search size", NewChatBuilder().SearchContextSize("huge"), "search_context_size"},
	}
	for _, tt := range tests {
		var ip *InvalidParameterError
		if !errors.As(tt.b.Err(), &ip) {
			t.Errorf("%s: expected InvalidParameterError, got %v", tt.name, tt.b.Err())
			continue
		}
		if ip.Param != tt.param {
			t.Errorf("%s: param = %s, want %s", tt.name, ip.Param, tt.param)
		}
		if !IsValidation(tt.b.Err()) {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}

	b := NewChatBuilder().Model("gpt-4.1").Temperature(0).Temperature(2).TopP(0).TopP(1)
	if err := b.Err(); err != nil {
		t.Fatalf("boundary values rejected: %v", err)
	}
}

func TestChatFirstErrorSticks(t *testing.T) {
	b := NewChatBuilder().Temperature(5).Model("no-such-model").TopP(9)
	var ip *InvalidParameterError
	if !errors.As(b.Err(), &ip) || ip.Param != "temperature" {
		t.Fatalf("expected the temperature error to stick, got %v", b.Err())
	}
}

func TestChatUnknownModel(t *testing.T) {
	_, err := NewChatBuilder().Model("gpt-9000").Build(transport.NewStub())
	var um *catalog.UnknownModelError
	if !errors.As(err, &um) {
		t.Fatalf("expected UnknownModelError, got %v", err)
	}
}

func TestChatSamplingUnsupported(t *testing.T) {
	_, err := NewChatBuilder().Model("gpt-5").Temperature(0.5).Build(transport.NewStub())
	var uc *UnsupportedCapabilityError
	if !errors.As(err, &uc) || uc.Capability != "temperature" {
		t.Fatalf("expected unsupported temperature, got %v", err)
	}
}

func TestChatToolsCheckedAgainstModel(t *testing.T) {
	_, err := NewChatBuilder().Model("gpt-4o-search-preview").Tools(capability.ToolCodeInterpreter).Build(transport.NewStub())
	var uc *UnsupportedCapabilityError
	if !errors.As(err, &uc) || uc.Value != string(capability.ToolCodeInterpreter) {
		t.Fatalf("expected unsupported tool, got %v", err)
	}

	stub := transport.NewStub()
	svc, err := NewChatBuilder().Model("gpt-5").Tools(capability.ToolWebSearch).Build(stub)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, err := svc.Create(context.Background(), "news?"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := stub.LastResponse.Tools; len(got) != 1 || got[0] != "web_search" {
		t.Fatalf("tools = %v", got)
	}
}

func TestChatReasoningNegotiation(t *testing.T) {
	tests := []struct {
		model     string
		preferred capability.ReasoningEffort
		want      capability.ReasoningEffort
		wire      string
	}{
		{"o3", "", capability.ReasoningLow, "low"},
		{"o3", capability.ReasoningMinimal, capability.ReasoningLow, "low"},
		{"o3", capability.ReasoningHigh, capability.ReasoningHigh, "high"},
		{"gpt-5-pro", capability.ReasoningLow, capability.ReasoningHigh, "high"},
		{"gpt-5.1", "", capability.ReasoningNone, "none"},
		{"gpt-5.2", capability.ReasoningXHigh, capability.ReasoningXHigh, "xhigh"},
		{"gpt-4.1", capability.ReasoningHigh, capability.ReasoningNone, ""},
	}
	for _, tt := range tests {
		stub := transport.NewStub()
		b := NewChatBuilder().Model(tt.model)
		if tt.preferred != "" {
			b.ReasoningEffort(tt.preferred)
		}
		svc, err := b.Build(stub)
		if err != nil {
			t.Fatalf("%s: build: %v", tt.model, err)
		}
		if svc.ReasoningEffort() != tt.want {
			t.Errorf("%s/%s: negotiated %s, want %s", tt.model, tt.preferred, svc.ReasoningEffort(), tt.want)
		}
		if _, err := svc.Create(context.Background(), "think"); err != nil {
			t.Fatalf("%s: create: %v", tt.model, err)
		}
		if stub.LastResponse.ReasoningEffort != tt.wire {
			t.Errorf("%s: wire effort %q, want %q", tt.model, stub.LastResponse.ReasoningEffort, tt.wire)
		}
	}
}

func TestChatCreate(t *testing.T) {
	stub := transport.NewStub()
	svc, err := NewChatBuilder().Instructions("  be brief ").User("u1").Build(stub)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if svc.Model().Name != catalog.DefaultChatModel {
		t.Fatalf("default model = %s", svc.Model().Name)
	}
	p, err := svc.Create(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if stub.Calls != 1 || stub.LastResponse == nil {
		t.Fatalf("expected one responses call")
	}
	if stub.LastResponse.Instructions != "be brief" || stub.LastResponse.User != "u1" {
		t.Fatalf("unexpected payload: %+v", stub.LastResponse)
	}
	if p.ID != "resp_stub1" || !strings.HasPrefix(p.Output, "stub response:") {
		t.Fatalf("unexpected prompt: %+v", p)
	}
	if !p.Cost.IsPositive() {
		t.Fatalf("expected a positive cost, got %s", p.Cost)
	}

	if _, err := svc.Create(context.Background(), "   "); !IsValidation(err) {
		t.Fatalf("expected blank input to be rejected, got %v", err)
	}
	if stub.Calls != 1 {
		t.Fatalf("blank input reached the transport")
	}
}

func TestChatContinue(t *testing.T) {
	stub := transport.NewStub()
	svc, err := NewChatBuilder().Build(stub)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for _, id := range []string{"", "chatcmpl-123", "resp_", "resp_abc-def", "RESP_abc"} {
		_, err := svc.Continue(context.Background(), id, "more")
		var ip *InvalidParameterError
		if !errors.As(err, &ip) || ip.Param != "previous_response_id" {
			t.Fatalf("id %q: expected InvalidParameterError, got %v", id, err)
		}
	}
	if stub.Calls != 0 {
		t.Fatalf("invalid ids reached the transport")
	}

	p, err := svc.Continue(context.Background(), "resp_abc123", "more")
	if err != nil {
		t.Fatalf("continue: %v", err)
	}
	if stub.LastResponse.PreviousResponseID != "resp_abc123" || p.PreviousResponseID != "resp_abc123" {
		t.Fatalf("previous id not forwarded")
	}
}

func TestChatSearchModel(t *testing.T) {
	stub := transport.NewStub()
	stub.Response = &transport.RawResponse{
		ID:          "chatcmpl-1",
		Text:        " answer ",
		SearchCalls: transport.Int64(1),
		Usage:       &transport.RawUsage{InputTokens: transport.Int64(0), OutputTokens: transport.Int64(0)},
	}
	svc, err := NewChatBuilder().Model("gpt-4o-mini-search-preview").Build(stub)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	p, err := svc.Create(context.Background(), "weather?")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if stub.LastCompletion == nil || stub.LastResponse != nil {
		t.Fatalf("search models must use chat completions")
	}
	if stub.LastCompletion.SearchContextSize != "medium" {
		t.Fatalf("search context size = %q", stub.LastCompletion.SearchContextSize)
	}
	// 2750 cents per thousand calls.
	if want := decimal.RequireFromString("2.75"); !p.Cost.Equal(want) {
		t.Fatalf("cost = %s, want %s", p.Cost, want)
	}
	if p.Output != "answer" {
		t.Fatalf("output = %q", p.Output)
	}

	_, err = svc.Continue(context.Background(), "resp_abc", "more")
	var uc *UnsupportedCapabilityError
	if !errors.As(err, &uc) {
		t.Fatalf("expected continuation to be unsupported, got %v", err)
	}

	_, err = NewChatBuilder().Model("gpt-5").SearchContextSize(capability.SearchContextHigh).Build(stub)
	if !errors.As(err, &uc) {
		t.Fatalf("expected search size on a non-search model to fail, got %v", err)
	}
}

func TestChatWithHistory(t *testing.T) {
	stub := transport.NewStub()
	svc, err := NewChatBuilder().Instructions("sys").Build(stub)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	h := history.New(decimal.Zero)
	if _, err := svc.CreateWithHistory(context.Background(), h, "first"); err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, err := svc.CreateWithHistory(context.Background(), h, "second"); err != nil {
		t.Fatalf("second: %v", err)
	}
	msgs := stub.LastCompletion.Messages
	// system, user, assistant, user
	if len(msgs) != 4 {
		t.Fatalf("messages = %d", len(msgs))
	}
	if msgs[0].Role != transport.RoleSystem || msgs[1].Content != "first" || msgs[2].Role != transport.RoleAssistant || msgs[3].Content != "second" {
		t.Fatalf("unexpected messages: %+v", msgs)
	}
	if h.Len() != 2 || len(h.Messages()) != 4 {
		t.Fatalf("history not appended")
	}
	if h.TotalTokens() != h.InputTokens()+h.OutputTokens() || h.TotalTokens() == 0 {
		t.Fatalf("bad totals")
	}

	if _, err := svc.CreateWithHistory(context.Background(), nil, "x"); !IsValidation(err) {
		t.Fatalf("expected nil history to be rejected, got %v", err)
	}
}

func TestChatTransportErrorPropagates(t *testing.T) {
	stub := transport.NewStub()
	stub.Err = &transport.Error{Op: "create response", Status: 500, Err: errors.New("boom")}
	svc, err := NewChatBuilder().Build(stub)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	_, err = svc.Create(context.Background(), "hi")
	if err != stub.Err {
		t.Fatalf("expected the transport error unmodified, got %v", err)
	}
	if stub.Calls != 1 {
		t.Fatalf("expected exactly one attempt, got %d", stub.Calls)
	}
}

func TestChatBudget(t *testing.T) {
	stub := transport.NewStub()
	tracker := cost.NewTracker(decimal.RequireFromString("0.000001"))
	svc, err := NewChatBuilder().Tracker(tracker).Build(stub)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, err := svc.Create(context.Background(), "hello world"); err != nil {
		t.Fatalf("first call: %v", err)
	}
	_, err = svc.Create(context.Background(), "again")
	var be *cost.BudgetError
	if !errors.As(err, &be) {
		t.Fatalf("expected BudgetError, got %v", err)
	}
	if stub.Calls != 1 {
		t.Fatalf("over-budget call reached the transport")
	}
	if len(tracker.Calls()) != 1 {
		t.Fatalf("tracker calls = %d", len(tracker.Calls()))
	}
}

func TestChatApplySettings(t *testing.T) {
	temp := 0.4
	stub := transport.NewStub()
	svc, err := NewChatBuilder().Apply(config.ChatSettings{
		Model:            "gpt-4.1-mini",
		DeveloperMessage: "dev",
		Temperature:      &temp,
		N:                1,
		MaxTokens:        100,
	}).Build(stub)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, err := svc.Create(context.Background(), "hi"); err != nil {
		t.Fatalf("create: %v", err)
	}
	req := stub.LastResponse
	if req.Model != "gpt-4.1-mini" || req.Instructions != "dev" {
		t.Fatalf("unexpected payload: %+v", req)
	}
	if req.Temperature == nil || *req.Temperature != 0.4 || req.MaxOutputTokens == nil || *req.MaxOutputTokens != 100 {
		t.Fatalf("settings not applied: %+v", req)
	}

	b := NewChatBuilder().Apply(config.ChatSettings{ReasoningEffort: "bogus"})
	if !IsValidation(b.Err()) {
		t.Fatalf("expected bad effort to be rejected, got %v", b.Err())
	}
}

func TestBuildRequiresTransport(t *testing.T) {
	if _, err := NewChatBuilder().Build(nil); !IsValidation(err) {
		t.Fatalf("expected nil transport to be rejected, got %v", err)
	}
}
