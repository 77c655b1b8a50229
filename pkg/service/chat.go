package service

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/zen-systems/gptcore/pkg/capability"
	"github.com/zen-systems/gptcore/pkg/catalog"
	"github.com/zen-systems/gptcore/pkg/config"
	"github.com/zen-systems/gptcore/pkg/cost"
	"github.com/zen-systems/gptcore/pkg/history"
	"github.com/zen-systems/gptcore/pkg/prompt"
	"github.com/zen-systems/gptcore/pkg/request"
	"github.com/zen-systems/gptcore/pkg/transport"
)

// responseID matches the identifiers the responses endpoint assigns.
var responseID = regexp.MustCompile(`^resp_[A-Za-z0-9]+$`)

// ChatBuilder collects options for a ChatService.
type ChatBuilder struct {
	errs
	model            *catalog.ChatModel
	instructions     string
	user             string
	temperature      *float64
	topP             *float64
	frequencyPenalty *float64
	presencePenalty  *float64
	n                *int64
	maxOutputTokens  *int64
	effort           capability.ReasoningEffort
	tools            []capability.Tool
	searchSize       capability.SearchContextSize
	store            *bool
	logger           *slog.Logger
	tracker          *cost.Tracker
}

// NewChatBuilder returns a builder for the default chat model.
func NewChatBuilder() *ChatBuilder {
	return &ChatBuilder{}
}

// Apply copies configured defaults into the builder. Zero values are skipped.
func (b *ChatBuilder) Apply(s config.ChatSettings) *ChatBuilder {
	if s.Model != "" {
		b.Model(s.Model)
	}
	if s.User != "" {
		b.User(s.User)
	}
	if s.DeveloperMessage != "" {
		b.Instructions(s.DeveloperMessage)
	}
	if s.Temperature != nil {
		b.Temperature(*s.Temperature)
	}
	if s.TopP != nil {
		b.TopP(*s.TopP)
	}
	if s.FrequencyPenalty != nil {
		b.FrequencyPenalty(*s.FrequencyPenalty)
	}
	if s.PresencePenalty != nil {
		b.PresencePenalty(*s.PresencePenalty)
	}
	if s.N > 1 {
		b.N(s.N)
	}
	if s.MaxTokens > 0 {
		b.MaxOutputTokens(s.MaxTokens)
	}
	if s.ReasoningEffort != "" {
		e, err := capability.ParseReasoningEffort(s.ReasoningEffort)
		if err != nil {
			b.fail(invalid("reasoning_effort", s.ReasoningEffort, "unknown effort"))
		} else {
			b.ReasoningEffort(e)
		}
	}
	return b
}

// Model selects the model by name. A blank name keeps the default.
func (b *ChatBuilder) Model(name string) *ChatBuilder {
	m, err := catalog.LookupChat(name)
	if err != nil {
		b.fail(err)
		return b
	}
	if m != nil {
		b.model = m
	}
	return b
}

// Instructions sets the developer message sent ahead of the input.
func (b *ChatBuilder) Instructions(s string) *ChatBuilder {
	b.instructions = strings.TrimSpace(s)
	return b
}

func (b *ChatBuilder) User(s string) *ChatBuilder {
	b.user = s
	return b
}

func (b *ChatBuilder) Temperature(v float64) *ChatBuilder {
	if err := checkRange("temperature", v, 0, 2); err != nil {
		b.fail(err)
		return b
	}
	b.temperature = &v
	return b
}

func (b *ChatBuilder) TopP(v float64) *ChatBuilder {
	if err := checkRange("top_p", v, 0, 1); err != nil {
		b.fail(err)
		return b
	}
	b.topP = &v
	return b
}

func (b *ChatBuilder) FrequencyPenalty(v float64) *ChatBuilder {
	if err := checkRange("frequency_penalty", v, -2, 2); err != nil {
		b.fail(err)
		return b
	}
	b.frequencyPenalty = &v
	return b
}

func (b *ChatBuilder) PresencePenalty(v float64) *ChatBuilder {
	if err := checkRange("presence_penalty", v, -2, 2); err != nil {
		b.fail(err)
		return b
	}
	b.presencePenalty = &v
	return b
}

// N sets the number of completions requested from the chat completions
// endpoint. Only the first is returned.
func (b *ChatBuilder) N(n int64) *ChatBuilder {
	if n < 1 || n > 128 {
		b.fail(invalid("n", n, "must be within [1, 128]"))
		return b
	}
	b.n = &n
	return b
}

// MaxOutputTokens caps generated tokens. The model ceiling is checked here
// when a model is already selected and again by Build.
func (b *ChatBuilder) MaxOutputTokens(n int64) *ChatBuilder {
	if n < 1 {
		b.fail(invalid("max_output_tokens", n, "must be positive"))
		return b
	}
	if b.model != nil {
		b.fail(checkMaxOutput(b.model, n))
	}
	b.maxOutputTokens = &n
	return b
}

// ReasoningEffort sets the preferred effort. Unsupported preferences are
// negotiated down at Build rather than rejected.
func (b *ChatBuilder) ReasoningEffort(e capability.ReasoningEffort) *ChatBuilder {
	if _, err := capability.ParseReasoningEffort(string(e)); err != nil {
		b.fail(invalid("reasoning_effort", e, "unknown effort"))
		return b
	}
	b.effort = e
	return b
}

// Tools enables built-in tools.
func (b *ChatBuilder) Tools(tools ...capability.Tool) *ChatBuilder {
	b.tools = append(b.tools, tools...)
	return b
}

// SearchContextSize sets how much web context a search model retrieves.
func (b *ChatBuilder) SearchContextSize(s capability.SearchContextSize) *ChatBuilder {
	size, err := capability.ParseSearchContextSize(string(s))
	if err != nil {
		b.fail(invalid("search_context_size", s, "must be low, medium or high"))
		return b
	}
	b.searchSize = size
	return b
}

// Store controls whether the provider keeps the response for continuation.
func (b *ChatBuilder) Store(v bool) *ChatBuilder {
	b.store = &v
	return b
}

func (b *ChatBuilder) Logger(l *slog.Logger) *ChatBuilder {
	b.logger = l
	return b
}

// Tracker records every priced call and enforces its budget.
func (b *ChatBuilder) Tracker(t *cost.Tracker) *ChatBuilder {
	b.tracker = t
	return b
}

// Err returns the first error recorded by a setter.
func (b *ChatBuilder) Err() error { return b.err }

func checkMaxOutput(m *catalog.ChatModel, n int64) error {
	if n > m.MaxOutputTokens {
		return invalid("max_output_tokens", n, "exceeds the model limit for "+m.Name)
	}
	return nil
}

// Build validates the collected options against the selected model and
// returns a service bound to t.
func (b *ChatBuilder) Build(t transport.Transport) (*ChatService, error) {
	if b.err != nil {
		return nil, b.err
	}
	m := b.model
	if m == nil {
		var err error
		if m, err = catalog.LookupChat(catalog.DefaultChatModel); err != nil {
			return nil, err
		}
	}
	if b.maxOutputTokens != nil {
		if err := checkMaxOutput(m, *b.maxOutputTokens); err != nil {
			return nil, err
		}
	}
	if !m.Sampling {
		if b.temperature != nil {
			return nil, &UnsupportedCapabilityError{Model: m.Name, Capability: "temperature"}
		}
		if b.topP != nil {
			return nil, &UnsupportedCapabilityError{Model: m.Name, Capability: "top_p"}
		}
	}
	for _, tool := range b.tools {
		if !m.Tools.Has(tool) {
			return nil, &UnsupportedCapabilityError{Model: m.Name, Capability: "tool", Value: string(tool)}
		}
	}
	size := b.searchSize
	if m.IsSearch() {
		if size == "" {
			size = capability.SearchContextMedium
		}
	} else if size != "" {
		return nil, &UnsupportedCapabilityError{Model: m.Name, Capability: "search context size", Value: string(size)}
	}

	common, err := newBase(t, b.logger, b.tracker)
	if err != nil {
		return nil, err
	}

	effort := capability.Negotiate(b.effort, m.ReasoningEfforts)
	if b.effort != "" && effort != b.effort {
		common.logger.Warn("reasoning effort not supported, negotiated",
			"model", m.Name, "requested", b.effort, "effort", effort)
	}

	return &ChatService{
		base: common,
		tmpl: request.Chat{
			Model:             m,
			Instructions:      b.instructions,
			Temperature:       b.temperature,
			TopP:              b.topP,
			FrequencyPenalty:  b.frequencyPenalty,
			PresencePenalty:   b.presencePenalty,
			N:                 b.n,
			MaxOutputTokens:   b.maxOutputTokens,
			ReasoningEffort:   effort,
			Tools:             append([]capability.Tool(nil), b.tools...),
			SearchContextSize: size,
			User:              b.user,
			Store:             b.store,
		},
	}, nil
}

// ChatService issues text generation calls with a fixed set of options.
type ChatService struct {
	base
	tmpl request.Chat
}

// Model returns the selected model.
func (s *ChatService) Model() *catalog.ChatModel { return s.tmpl.Model }

// ReasoningEffort returns the negotiated effort.
func (s *ChatService) ReasoningEffort() capability.ReasoningEffort { return s.tmpl.ReasoningEffort }

func (s *ChatService) request(input string) (request.Chat, error) {
	if strings.TrimSpace(input) == "" {
		return request.Chat{}, invalid("input", nil, "must not be blank")
	}
	req := s.tmpl
	req.Input = input
	return req, nil
}

// Create sends input as a fresh conversation.
func (s *ChatService) Create(ctx context.Context, input string) (*prompt.ChatPrompt, error) {
	req, err := s.request(input)
	if err != nil {
		return nil, err
	}
	return s.send(ctx, req)
}

// Continue sends input as a follow-up to a stored response.
func (s *ChatService) Continue(ctx context.Context, previousID, input string) (*prompt.ChatPrompt, error) {
	if s.tmpl.Model.IsSearch() {
		return nil, &UnsupportedCapabilityError{Model: s.tmpl.Model.Name, Capability: "response continuation"}
	}
	if !responseID.MatchString(previousID) {
		return nil, invalid("previous_response_id", previousID, "must look like resp_<id>")
	}
	req, err := s.request(input)
	if err != nil {
		return nil, err
	}
	req.PreviousResponseID = previousID
	return s.send(ctx, req)
}

// CreateWithHistory resubmits the whole conversation in h followed by input
// and appends the result to h.
func (s *ChatService) CreateWithHistory(ctx context.Context, h *history.History, input string) (*prompt.ChatPrompt, error) {
	if h == nil {
		return nil, invalid("history", nil, "must not be nil")
	}
	req, err := s.request(input)
	if err != nil {
		return nil, err
	}
	req.History = h.Messages()
	p, err := s.sendCompletion(ctx, req)
	if err != nil {
		return nil, err
	}
	h.AppendPrompt(p)
	return p, nil
}

func (s *ChatService) send(ctx context.Context, req request.Chat) (*prompt.ChatPrompt, error) {
	if req.Model.IsSearch() {
		return s.sendCompletion(ctx, req)
	}
	if err := s.before(ctx); err != nil {
		return nil, err
	}
	s.logger.Debug("creating response", "model", req.Model.Name, "continuation", req.IsContinuation())
	raw, err := s.transport.CreateResponse(ctx, req.ResponsePayload())
	if err != nil {
		return nil, err
	}
	return s.finish(req, raw), nil
}

func (s *ChatService) sendCompletion(ctx context.Context, req request.Chat) (*prompt.ChatPrompt, error) {
	if err := s.before(ctx); err != nil {
		return nil, err
	}
	s.logger.Debug("creating chat completion", "model", req.Model.Name, "history", len(req.History))
	raw, err := s.transport.CreateChatCompletion(ctx, req.CompletionPayload())
	if err != nil {
		return nil, err
	}
	return s.finish(req, raw), nil
}

func (s *ChatService) finish(req request.Chat, raw *transport.RawResponse) *prompt.ChatPrompt {
	p := prompt.NewChatPrompt(req, raw)
	s.record(req.Model.Family, req.Model.Name, p.Usage, p.Cost)
	return p
}
