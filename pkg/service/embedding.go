package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/zen-systems/gptcore/pkg/catalog"
	"github.com/zen-systems/gptcore/pkg/config"
	"github.com/zen-systems/gptcore/pkg/cost"
	"github.com/zen-systems/gptcore/pkg/prompt"
	"github.com/zen-systems/gptcore/pkg/request"
	"github.com/zen-systems/gptcore/pkg/transport"
)

// EmbeddingBuilder collects options for an EmbeddingService.
type EmbeddingBuilder struct {
	errs
	model      *catalog.EmbeddingModel
	dimensions int64
	user       string
	logger     *slog.Logger
	tracker    *cost.Tracker
}

func NewEmbeddingBuilder() *EmbeddingBuilder {
	return &EmbeddingBuilder{}
}

// Apply copies configured defaults into the builder.
func (b *EmbeddingBuilder) Apply(s config.EmbeddingSettings) *EmbeddingBuilder {
	if s.Model != "" {
		b.Model(s.Model)
	}
	if s.User != "" {
		b.User(s.User)
	}
	if s.Dimensions != 0 {
		b.Dimensions(s.Dimensions)
	}
	return b
}

func (b *EmbeddingBuilder) Model(name string) *EmbeddingBuilder {
	m, err := catalog.LookupEmbedding(name)
	if err != nil {
		b.fail(err)
		return b
	}
	if m != nil {
		b.model = m
	}
	return b
}

// Dimensions overrides the vector length.
func (b *EmbeddingBuilder) Dimensions(n int64) *EmbeddingBuilder {
	if n < 1 {
		b.fail(invalid("dimensions", n, "must be positive"))
		return b
	}
	if b.model != nil {
		b.fail(checkDimensions(b.model, n))
	}
	b.dimensions = n
	return b
}

func (b *EmbeddingBuilder) User(s string) *EmbeddingBuilder {
	b.user = s
	return b
}

func (b *EmbeddingBuilder) Logger(l *slog.Logger) *EmbeddingBuilder {
	b.logger = l
	return b
}

func (b *EmbeddingBuilder) Tracker(t *cost.Tracker) *EmbeddingBuilder {
	b.tracker = t
	return b
}

func (b *EmbeddingBuilder) Err() error { return b.err }

func checkDimensions(m *catalog.EmbeddingModel, n int64) error {
	if n < m.MinDimensions || n > m.MaxDimensions {
		return invalid("dimensions", n,
			fmt.Sprintf("must be within [%d, %d] for %s", m.MinDimensions, m.MaxDimensions, m.Name))
	}
	return nil
}

// Build returns a service bound to t.
func (b *EmbeddingBuilder) Build(t transport.Transport) (*EmbeddingService, error) {
	if b.err != nil {
		return nil, b.err
	}
	m := b.model
	if m == nil {
		var err error
		if m, err = catalog.LookupEmbedding(catalog.DefaultEmbeddingModel); err != nil {
			return nil, err
		}
	}
	dims := m.Dimensions
	if b.dimensions != 0 {
		if err := checkDimensions(m, b.dimensions); err != nil {
			return nil, err
		}
		dims = b.dimensions
	}
	common, err := newBase(t, b.logger, b.tracker)
	if err != nil {
		return nil, err
	}
	return &EmbeddingService{
		base: common,
		tmpl: request.Embedding{Model: m, Dimensions: dims, User: b.user},
	}, nil
}

// EmbeddingService turns text into vectors.
type EmbeddingService struct {
	base
	tmpl request.Embedding
}

func (s *EmbeddingService) Model() *catalog.EmbeddingModel { return s.tmpl.Model }

// Dimensions returns the vector length the service requests.
func (s *EmbeddingService) Dimensions() int64 { return s.tmpl.Dimensions }

// Create embeds input.
func (s *EmbeddingService) Create(ctx context.Context, input string) (*prompt.EmbeddingPrompt, error) {
	if strings.TrimSpace(input) == "" {
		return nil, invalid("input", nil, "must not be blank")
	}
	if err := s.before(ctx); err != nil {
		return nil, err
	}
	req := s.tmpl
	req.Input = input
	s.logger.Debug("creating embedding", "model", req.Model.Name, "dimensions", req.Dimensions)
	raw, err := s.transport.CreateEmbedding(ctx, req.Payload())
	if err != nil {
		return nil, err
	}
	p := prompt.NewEmbeddingPrompt(req, raw)
	s.record(catalog.FamilyEmbedding, req.Model.Name, p.Usage, p.Cost)
	return p, nil
}
