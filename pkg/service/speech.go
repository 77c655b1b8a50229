package service

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/zen-systems/gptcore/pkg/capability"
	"github.com/zen-systems/gptcore/pkg/catalog"
	"github.com/zen-systems/gptcore/pkg/config"
	"github.com/zen-systems/gptcore/pkg/cost"
	"github.com/zen-systems/gptcore/pkg/prompt"
	"github.com/zen-systems/gptcore/pkg/request"
	"github.com/zen-systems/gptcore/pkg/transport"
)

// SpeechFormats are the audio encodings the speech endpoint can return.
var SpeechFormats = []string{"mp3", "opus", "aac", "flac", "wav", "pcm"}

const (
	minSpeed = 0.25
	maxSpeed = 4.0
)

// SpeechBuilder collects options for a SpeechService.
type SpeechBuilder struct {
	errs
	model        *catalog.SpeechModel
	voice        capability.Voice
	instructions string
	format       string
	speed        *float64
	logger       *slog.Logger
	tracker      *cost.Tracker
}

func NewSpeechBuilder() *SpeechBuilder {
	return &SpeechBuilder{}
}

func (b *SpeechBuilder) Apply(s config.SpeechSettings) *SpeechBuilder {
	if s.Model != "" {
		b.Model(s.Model)
	}
	if s.Voice != "" {
		b.Voice(capability.Voice(s.Voice))
	}
	if s.Instructions != "" {
		b.Instructions(s.Instructions)
	}
	if s.Format != "" {
		b.Format(s.Format)
	}
	if s.Speed != nil {
		b.Speed(*s.Speed)
	}
	return b
}

func (b *SpeechBuilder) Model(name string) *SpeechBuilder {
	m, err := catalog.LookupSpeech(name)
	if err != nil {
		b.fail(err)
		return b
	}
	if m != nil {
		b.model = m
	}
	return b
}

// Voice selects the voice. It must be one the model offers.
func (b *SpeechBuilder) Voice(v capability.Voice) *SpeechBuilder {
	v = capability.Voice(strings.ToLower(strings.TrimSpace(string(v))))
	if v == "" {
		b.fail(invalid("voice", nil, "must not be blank"))
		return b
	}
	if b.model != nil {
		b.fail(checkVoice(b.model, v))
	}
	b.voice = v
	return b
}

// Instructions sets delivery instructions, such as tone or pacing.
func (b *SpeechBuilder) Instructions(s string) *SpeechBuilder {
	b.instructions = strings.TrimSpace(s)
	if b.model != nil {
		b.fail(checkInstructions(b.model, b.instructions))
	}
	return b
}

// Format sets the audio encoding of the result.
func (b *SpeechBuilder) Format(f string) *SpeechBuilder {
	f = strings.ToLower(strings.TrimSpace(f))
	for _, ok := range SpeechFormats {
		if f == ok {
			b.format = f
			return b
		}
	}
	b.fail(invalid("format", f, "must be one of "+strings.Join(SpeechFormats, ", ")))
	return b
}

// Speed sets the playback rate, 1.0 being normal.
func (b *SpeechBuilder) Speed(v float64) *SpeechBuilder {
	if err := checkRange("speed", v, minSpeed, maxSpeed); err != nil {
		b.fail(err)
		return b
	}
	b.speed = &v
	return b
}

func (b *SpeechBuilder) Logger(l *slog.Logger) *SpeechBuilder {
	b.logger = l
	return b
}

func (b *SpeechBuilder) Tracker(t *cost.Tracker) *SpeechBuilder {
	b.tracker = t
	return b
}

func (b *SpeechBuilder) Err() error { return b.err }

func checkVoice(m *catalog.SpeechModel, v capability.Voice) error {
	if !m.Voices.Has(v) {
		return &UnsupportedCapabilityError{Model: m.Name, Capability: "voice", Value: string(v)}
	}
	return nil
}

func checkInstructions(m *catalog.SpeechModel, s string) error {
	if s != "" && !m.Instructions {
		return &UnsupportedCapabilityError{Model: m.Name, Capability: "instructions"}
	}
	return nil
}

// Build validates voice and instructions against the model and returns a
// service bound to t.
func (b *SpeechBuilder) Build(t transport.Transport) (*SpeechService, error) {
	if b.err != nil {
		return nil, b.err
	}
	m := b.model
	if m == nil {
		var err error
		if m, err = catalog.LookupSpeech(catalog.DefaultSpeechModel); err != nil {
			return nil, err
		}
	}
	voice := b.voice
	if voice == "" {
		voice = capability.VoiceAlloy
	}
	if err := checkVoice(m, voice); err != nil {
		return nil, err
	}
	if err := checkInstructions(m, b.instructions); err != nil {
		return nil, err
	}
	format := b.format
	if format == "" {
		format = "mp3"
	}
	common, err := newBase(t, b.logger, b.tracker)
	if err != nil {
		return nil, err
	}
	return &SpeechService{
		base: common,
		tmpl: request.Speech{
			Model:        m,
			Voice:        voice,
			Instructions: b.instructions,
			Format:       format,
			Speed:        b.speed,
		},
	}, nil
}

// SpeechService synthesizes audio from text.
type SpeechService struct {
	base
	tmpl request.Speech
}

func (s *SpeechService) Model() *catalog.SpeechModel { return s.tmpl.Model }

func (s *SpeechService) Voice() capability.Voice { return s.tmpl.Voice }

// Format returns the audio encoding, which is also the usual file extension.
func (s *SpeechService) Format() string { return s.tmpl.Format }

// Create synthesizes input.
func (s *SpeechService) Create(ctx context.Context, input string) (*prompt.SpeechPrompt, error) {
	if strings.TrimSpace(input) == "" {
		return nil, invalid("input", nil, "must not be blank")
	}
	m := s.tmpl.Model
	if n := int64(utf8.RuneCountInString(input)); m.MaxInputChars > 0 && n > m.MaxInputChars {
		return nil, invalid("input", n, "longer than the model limit in characters")
	}
	if err := s.before(ctx); err != nil {
		return nil, err
	}
	req := s.tmpl
	req.Input = input
	s.logger.Debug("creating speech", "model", m.Name, "voice", req.Voice, "format", req.Format)
	raw, err := s.transport.CreateSpeech(ctx, req.Payload())
	if err != nil {
		return nil, err
	}
	p := prompt.NewSpeechPrompt(req, raw)
	s.record(catalog.FamilySpeech, m.Name, p.Usage, p.Cost)
	return p, nil
}
