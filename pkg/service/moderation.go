package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/zen-systems/gptcore/pkg/catalog"
	"github.com/zen-systems/gptcore/pkg/config"
	"github.com/zen-systems/gptcore/pkg/cost"
	"github.com/zen-systems/gptcore/pkg/prompt"
	"github.com/zen-systems/gptcore/pkg/request"
	"github.com/zen-systems/gptcore/pkg/transport"
)

// ModerationBuilder collects options for a ModerationService.
type ModerationBuilder struct {
	errs
	model   *catalog.ModerationModel
	logger  *slog.Logger
	tracker *cost.Tracker
}

func NewModerationBuilder() *ModerationBuilder {
	return &ModerationBuilder{}
}

func (b *ModerationBuilder) Apply(s config.ModerationSettings) *ModerationBuilder {
	if s.Model != "" {
		b.Model(s.Model)
	}
	return b
}

func (b *ModerationBuilder) Model(name string) *ModerationBuilder {
	m, err := catalog.LookupModeration(name)
	if err != nil {
		b.fail(err)
		return b
	}
	if m != nil {
		b.model = m
	}
	return b
}

func (b *ModerationBuilder) Logger(l *slog.Logger) *ModerationBuilder {
	b.logger = l
	return b
}

func (b *ModerationBuilder) Tracker(t *cost.Tracker) *ModerationBuilder {
	b.tracker = t
	return b
}

func (b *ModerationBuilder) Err() error { return b.err }

func (b *ModerationBuilder) Build(t transport.Transport) (*ModerationService, error) {
	if b.err != nil {
		return nil, b.err
	}
	m := b.model
	if m == nil {
		var err error
		if m, err = catalog.LookupModeration(catalog.DefaultModerationModel); err != nil {
			return nil, err
		}
	}
	common, err := newBase(t, b.logger, b.tracker)
	if err != nil {
		return nil, err
	}
	return &ModerationService{base: common, model: m}, nil
}

// ModerationService classifies text against the moderation categories.
type ModerationService struct {
	base
	model *catalog.ModerationModel
}

func (s *ModerationService) Model() *catalog.ModerationModel { return s.model }

// Create classifies input.
func (s *ModerationService) Create(ctx context.Context, input string) (*prompt.ModerationPrompt, error) {
	if strings.TrimSpace(input) == "" {
		return nil, invalid("input", nil, "must not be blank")
	}
	if err := s.before(ctx); err != nil {
		return nil, err
	}
	req := request.Moderation{Model: s.model, Input: input}
	s.logger.Debug("creating moderation", "model", s.model.Name)
	raw, err := s.transport.CreateModeration(ctx, req.Payload())
	if err != nil {
		return nil, err
	}
	p := prompt.NewModerationPrompt(req, raw)
	s.record(catalog.FamilyModeration, s.model.Name, cost.Usage{}, decimal.Zero)
	if p.Rating.Flagged {
		s.logger.Info("input flagged", "model", s.model.Name, "id", p.ID)
	}
	return p, nil
}
