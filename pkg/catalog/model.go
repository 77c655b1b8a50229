package catalog

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/zen-systems/gptcore/pkg/capability"
)

// PriceScale is the number of decimal digits kept in every unit price.
const PriceScale int32 = 8

var million = decimal.NewFromInt(1_000_000)

// UnitPrice converts a "cents per million units" amount into a per-unit price
// in cents, rounded half-up at the given scale.
func UnitPrice(centsPerMillion decimal.Decimal, scale int32) decimal.Decimal {
	return centsPerMillion.DivRound(million, scale)
}

// Pricing holds per-unit prices in cents. CachedInput is only meaningful when
// HasCachedInput is set.
type Pricing struct {
	Input          decimal.Decimal
	CachedInput    decimal.Decimal
	HasCachedInput bool
	Output         decimal.Decimal
}

// perMillion builds a Pricing from cents-per-million literals. An empty cached
// literal means the model has no discounted cached-input rate.
func perMillion(input, cached, output string) Pricing {
	p := Pricing{
		Input:  UnitPrice(decimal.RequireFromString(input), PriceScale),
		Output: UnitPrice(decimal.RequireFromString(output), PriceScale),
	}
	if cached != "" {
		p.CachedInput = UnitPrice(decimal.RequireFromString(cached), PriceScale)
		p.HasCachedInput = true
	}
	return p
}

// PriceUnit names what a model bills by.
type PriceUnit string

const (
	UnitTokens     PriceUnit = "tokens"
	UnitCharacters PriceUnit = "characters"
	UnitSeconds    PriceUnit = "seconds"
)

// Family groups descriptors that share a request shape.
type Family string

const (
	FamilyChat          Family = "chat"
	FamilyReasoning     Family = "reasoning"
	FamilySearch        Family = "search"
	FamilyEmbedding     Family = "embedding"
	FamilyModeration    Family = "moderation"
	FamilySpeech        Family = "speech"
	FamilyTranscription Family = "transcription"
	FamilyTranslation   Family = "translation"
)

// ChatModel describes a text generation model served by the responses and chat
// completions endpoints. Reasoning and search models share this record.
type ChatModel struct {
	Name             string
	Family           Family
	Speed            capability.SpeedTier
	Performance      capability.PerformanceTier
	Input            capability.Set[capability.Modality]
	Output           capability.Set[capability.Modality]
	Tools            capability.Set[capability.Tool]
	ReasoningEfforts capability.Set[capability.ReasoningEffort]
	// Sampling is false for models that reject temperature and top_p.
	Sampling        bool
	ContextWindow   int64
	MaxOutputTokens int64
	Pricing         Pricing
	// SearchCallPrices are per-call prices in cents, search models only.
	SearchCallPrices map[capability.SearchContextSize]decimal.Decimal
	KnowledgeCutoff  *time.Time
}

func (m *ChatModel) Prices() Pricing { return m.Pricing }

// IsSearch reports whether the model bills a per-call web search fee.
func (m *ChatModel) IsSearch() bool { return len(m.SearchCallPrices) > 0 }

// EmbeddingModel describes a vector embedding model.
type EmbeddingModel struct {
	Name           string
	Speed          capability.SpeedTier
	Performance    capability.PerformanceTier
	Dimensions     int64
	MinDimensions  int64
	MaxDimensions  int64
	MaxInputTokens int64
	Pricing        Pricing
}

func (m *EmbeddingModel) Prices() Pricing { return m.Pricing }

// ModerationModel describes a content classification model.
type ModerationModel struct {
	Name           string
	Input          capability.Set[capability.Modality]
	MaxInputTokens int64
	Pricing        Pricing
}

func (m *ModerationModel) Prices() Pricing { return m.Pricing }

// SpeechModel describes a text-to-speech model.
type SpeechModel struct {
	Name        string
	Speed       capability.SpeedTier
	Performance capability.PerformanceTier
	Voices      capability.Set[capability.Voice]
	// Instructions is true for the model that accepts free-text delivery
	// instructions alongside the input.
	Instructions  bool
	MaxInputChars int64
	Unit          PriceUnit
	Pricing       Pricing
}

func (m *SpeechModel) Prices() Pricing { return m.Pricing }

// AudioModel describes a speech-to-text model used for transcription or
// translation into English.
type AudioModel struct {
	Name        string
	Speed       capability.SpeedTier
	Performance capability.PerformanceTier
	Unit        PriceUnit
	Pricing     Pricing
}

func (m *AudioModel) Prices() Pricing { return m.Pricing }

func cutoff(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func searchPrices(low, medium, high string) map[capability.SearchContextSize]decimal.Decimal {
	perCall := func(centsPerThousand string) decimal.Decimal {
		return decimal.RequireFromString(centsPerThousand).DivRound(decimal.NewFromInt(1000), PriceScale)
	}
	return map[capability.SearchContextSize]decimal.Decimal{
		capability.SearchContextLow:    perCall(low),
		capability.SearchContextMedium: perCall(medium),
		capability.SearchContextHigh:   perCall(high),
	}
}
