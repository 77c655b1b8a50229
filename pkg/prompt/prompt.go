// Package prompt turns raw provider records into typed, cost-annotated
// results. Normalization is deterministic and never fails on a missing
// optional field: absent counters are 0, absent timestamps are the zero time
// and unreported moderation categories are unflagged with a zero score.
package prompt

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/zen-systems/gptcore/pkg/capability"
	"github.com/zen-systems/gptcore/pkg/catalog"
	"github.com/zen-systems/gptcore/pkg/cost"
	"github.com/zen-systems/gptcore/pkg/request"
	"github.com/zen-systems/gptcore/pkg/transport"
)

// ChatPrompt is the outcome of one text generation call. Cost is in cents.
type ChatPrompt struct {
	ID                 string
	Model              string
	Status             string
	Input              string
	Instructions       string
	Output             string
	PreviousResponseID string
	ReasoningEffort    capability.ReasoningEffort
	CreatedAt          time.Time
	CompletedAt        time.Time
	Usage              cost.Usage
	SearchCalls        int64
	Cost               decimal.Decimal
}

// EmbeddingPrompt is the outcome of one embedding call.
type EmbeddingPrompt struct {
	Model      string
	Input      string
	Dimensions int64
	Vector     []float64
	Vectors    [][]float64
	Usage      cost.Usage
	Cost       decimal.Decimal
}

// ModerationPrompt is the outcome of one moderation call. Rating is the
// verdict for the first (usually only) input.
type ModerationPrompt struct {
	ID      string
	Model   string
	Input   string
	Rating  Rating
	Ratings []Rating
	Cost    decimal.Decimal
}

// SpeechPrompt is synthesized audio plus what produced it.
type SpeechPrompt struct {
	Model       string
	Voice       capability.Voice
	Input       string
	Format      string
	ContentType string
	Audio       []byte
	Usage       cost.Usage
	Cost        decimal.Decimal
	// Estimated is set when the provider reported no usage and Usage was
	// derived from the input text. Audio output tokens are then not counted.
	Estimated bool
}

// AudioTask distinguishes transcription from translation results.
type AudioTask string

const (
	TaskTranscription AudioTask = "transcription"
	TaskTranslation   AudioTask = "translation"
)

// AudioPrompt is recognized text from an audio payload.
type AudioPrompt struct {
	Task     AudioTask
	Model    string
	FileName string
	Language string
	Text     string
	Duration time.Duration
	Usage    cost.Usage
	Cost     decimal.Decimal
}

func val(p *int64) int64 {
	if p == nil || *p < 0 {
		return 0
	}
	return *p
}

func usageOf(raw *transport.RawUsage) cost.Usage {
	if raw == nil {
		return cost.Usage{}
	}
	return cost.Normalize(cost.Usage{
		InputTokens:       val(raw.InputTokens),
		CachedInputTokens: val(raw.CachedInputTokens),
		OutputTokens:      val(raw.OutputTokens),
		ReasoningTokens:   val(raw.ReasoningTokens),
		TotalTokens:       val(raw.TotalTokens),
	})
}

func unixTime(sec int64) time.Time {
	if sec <= 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

// NewChatPrompt normalizes a chat response for req.
func NewChatPrompt(req request.Chat, raw *transport.RawResponse) *ChatPrompt {
	p := &ChatPrompt{
		Model:              req.Model.Name,
		Input:              req.Input,
		Instructions:       req.Instructions,
		PreviousResponseID: req.PreviousResponseID,
		ReasoningEffort:    req.ReasoningEffort,
	}
	if raw == nil {
		return p
	}
	p.ID = raw.ID
	p.Status = raw.Status
	p.Output = strings.TrimSpace(raw.Text)
	p.CreatedAt = unixTime(raw.CreatedAt)
	if raw.CompletedAt != nil {
		p.CompletedAt = unixTime(*raw.CompletedAt)
	}
	p.Usage = usageOf(raw.Usage)
	p.SearchCalls = val(raw.SearchCalls)
	p.Cost = cost.ForUsage(req.Model, p.Usage).
		Add(cost.SearchCall(req.Model, req.SearchContextSize, p.SearchCalls))
	return p
}

// NewEmbeddingPrompt normalizes an embedding response for req.
func NewEmbeddingPrompt(req request.Embedding, raw *transport.RawEmbedding) *EmbeddingPrompt {
	p := &EmbeddingPrompt{
		Model:      req.Model.Name,
		Input:      req.Input,
		Dimensions: req.Dimensions,
	}
	if raw == nil {
		return p
	}
	p.Vectors = raw.Vectors
	if len(raw.Vectors) > 0 {
		p.Vector = raw.Vectors[0]
		p.Dimensions = int64(len(p.Vector))
	}
	p.Usage = usageOf(raw.Usage)
	p.Cost = cost.Cost(req.Model, p.Usage.InputTokens, cost.Input)
	return p
}

// NewModerationPrompt normalizes a moderation response for req.
func NewModerationPrompt(req request.Moderation, raw *transport.RawModeration) *ModerationPrompt {
	p := &ModerationPrompt{
		Model: req.Model.Name,
		Input: req.Input,
		Cost:  decimal.Zero,
	}
	if raw == nil {
		return p
	}
	p.ID = raw.ID
	for _, r := range raw.Results {
		p.Ratings = append(p.Ratings, NewRating(r))
	}
	if len(p.Ratings) > 0 {
		p.Rating = p.Ratings[0]
	}
	return p
}

// NewSpeechPrompt normalizes synthesized audio for req. Character-priced
// models bill by input length; token-priced models by reported usage.
func NewSpeechPrompt(req request.Speech, raw *transport.RawSpeech) *SpeechPrompt {
	p := &SpeechPrompt{
		Model:  req.Model.Name,
		Voice:  req.Voice,
		Input:  req.Input,
		Format: req.Format,
	}
	if raw != nil {
		p.Audio = raw.Audio
		p.ContentType = raw.ContentType
		p.Usage = usageOf(raw.Usage)
	}
	chars := int64(utf8.RuneCountInString(req.Input))
	switch req.Model.Unit {
	case catalog.UnitCharacters:
		p.Cost = cost.Cost(req.Model, chars, cost.Input)
	default:
		if p.Usage == (cost.Usage{}) && chars > 0 {
			p.Usage = cost.Normalize(cost.Usage{InputTokens: (chars + charsPerToken - 1) / charsPerToken})
			p.Estimated = true
		}
		p.Cost = cost.ForUsage(req.Model, p.Usage)
	}
	return p
}

// charsPerToken approximates text tokens for speech input when the speech
// endpoint returns no usage.
const charsPerToken = 4

func newAudioPrompt(task AudioTask, req request.Audio, raw *transport.RawTranscription) *AudioPrompt {
	p := &AudioPrompt{
		Task:     task,
		Model:    req.Model.Name,
		FileName: req.FileName,
		Language: req.Language,
		Cost:     decimal.Zero,
	}
	if raw == nil {
		return p
	}
	text := raw.Text
	if len(raw.Segments) > 0 {
		text = strings.Join(raw.Segments, "")
	}
	p.Text = strings.TrimSpace(text)
	if raw.Language != "" {
		p.Language = raw.Language
	}
	p.Usage = usageOf(raw.Usage)

	var seconds float64
	if raw.Duration != nil && *raw.Duration > 0 {
		seconds = *raw.Duration
		p.Duration = time.Duration(seconds * float64(time.Second))
	}
	switch req.Model.Unit {
	case catalog.UnitSeconds:
		p.Cost = cost.Cost(req.Model, int64(math.Ceil(seconds)), cost.Input)
	default:
		p.Cost = cost.ForUsage(req.Model, p.Usage)
	}
	return p
}

// NewTranscriptionPrompt normalizes a transcription for req. Segmented text
// is joined in order with no separator.
func NewTranscriptionPrompt(req request.Audio, raw *transport.RawTranscription) *AudioPrompt {
	return newAudioPrompt(TaskTranscription, req, raw)
}

// NewTranslationPrompt normalizes an English translation for req.
func NewTranslationPrompt(req request.Audio, raw *transport.RawTranscription) *AudioPrompt {
	return newAudioPrompt(TaskTranslation, req, raw)
}
