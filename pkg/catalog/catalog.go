// Package catalog holds the fixed table of models the client knows about,
// with their prices, limits and capability sets.
//
// Tables are built once during package initialization and must be treated as
// read-only; they are safe for concurrent use.
package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// UnknownModelError is returned when a non-blank name matches no catalog entry.
type UnknownModelError struct {
	Family Family
	Name   string
}

func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("unknown %s model %q", e.Family, e.Name)
}

var dateSuffix = regexp.MustCompile(`-(\d{4}-\d{2}-\d{2}|\d{8})$`)

// NormalizeName lower-cases and trims a model name and strips a trailing
// release date stamp such as "-2025-04-16".
func NormalizeName(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	return dateSuffix.ReplaceAllString(key, "")
}

type index[T any] struct {
	family Family
	byName map[string]*T
	order  []*T
}

func newIndex[T any](family Family, name func(*T) string, tables ...[]T) *index[T] {
	ix := &index[T]{family: family, byName: make(map[string]*T)}
	for _, table := range tables {
		for i := range table {
			m := &table[i]
			ix.byName[strings.ToLower(name(m))] = m
			ix.order = append(ix.order, m)
		}
	}
	return ix
}

// lookup returns (nil, nil) for a blank name so callers can apply a default.
func (ix *index[T]) lookup(name string) (*T, error) {
	key := NormalizeName(name)
	if key == "" {
		return nil, nil
	}
	if m, ok := ix.byName[key]; ok {
		return m, nil
	}
	return nil, &UnknownModelError{Family: ix.family, Name: name}
}

func (ix *index[T]) list() []*T {
	out := make([]*T, len(ix.order))
	copy(out, ix.order)
	return out
}

var (
	chatIndex          = newIndex(FamilyChat, func(m *ChatModel) string { return m.Name }, chatModels, reasoningModels, searchModels)
	embeddingIndex     = newIndex(FamilyEmbedding, func(m *EmbeddingModel) string { return m.Name }, embeddingModels)
	moderationIndex    = newIndex(FamilyModeration, func(m *ModerationModel) string { return m.Name }, moderationModels)
	speechIndex        = newIndex(FamilySpeech, func(m *SpeechModel) string { return m.Name }, speechModels)
	transcriptionIndex = newIndex(FamilyTranscription, func(m *AudioModel) string { return m.Name }, transcriptionModels)
	translationIndex   = newIndex(FamilyTranslation, func(m *AudioModel) string { return m.Name }, translationModels)
)

// LookupChat resolves a chat, reasoning or search model. A blank name yields
// (nil, nil).
func LookupChat(name string) (*ChatModel, error) { return chatIndex.lookup(name) }

// LookupEmbedding resolves an embedding model. A blank name yields (nil, nil).
func LookupEmbedding(name string) (*EmbeddingModel, error) { return embeddingIndex.lookup(name) }

// LookupModeration resolves a moderation model. A blank name yields (nil, nil).
func LookupModeration(name string) (*ModerationModel, error) { return moderationIndex.lookup(name) }

// LookupSpeech resolves a speech model. A blank name yields (nil, nil).
func LookupSpeech(name string) (*SpeechModel, error) { return speechIndex.lookup(name) }

// LookupTranscription resolves a transcription model. A blank name yields (nil, nil).
func LookupTranscription(name string) (*AudioModel, error) { return transcriptionIndex.lookup(name) }

// LookupTranslation resolves a translation model. A blank name yields (nil, nil).
func LookupTranslation(name string) (*AudioModel, error) { return translationIndex.lookup(name) }

// ChatModels returns chat, reasoning and search models in table order.
func ChatModels() []*ChatModel { return chatIndex.list() }

func EmbeddingModels() []*EmbeddingModel   { return embeddingIndex.list() }
func ModerationModels() []*ModerationModel { return moderationIndex.list() }
func SpeechModels() []*SpeechModel         { return speechIndex.list() }
func TranscriptionModels() []*AudioModel   { return transcriptionIndex.list() }
func TranslationModels() []*AudioModel     { return translationIndex.list() }

// ChatModelsIn returns the chat-shaped models of one family.
func ChatModelsIn(family Family) []*ChatModel {
	var out []*ChatModel
	for _, m := range chatIndex.order {
		if m.Family == family {
			out = append(out, m)
		}
	}
	return out
}

// Validate checks table invariants and returns every violation found.
func Validate() []error {
	var errs []error
	check := func(family Family, name string, p Pricing) {
		if p.Input.IsNegative() || p.Output.IsNegative() || p.CachedInput.IsNegative() {
			errs = append(errs, fmt.Errorf("%s model %q: negative price", family, name))
		}
	}
	for _, m := range chatIndex.order {
		check(m.Family, m.Name, m.Pricing)
		if m.ContextWindow < m.MaxOutputTokens {
			errs = append(errs, fmt.Errorf("%s model %q: context window %d below max output %d",
				m.Family, m.Name, m.ContextWindow, m.MaxOutputTokens))
		}
		for size, price := range m.SearchCallPrices {
			if price.IsNegative() {
				errs = append(errs, fmt.Errorf("%s model %q: negative %s search price", m.Family, m.Name, size))
			}
		}
	}
	for _, m := range embeddingIndex.order {
		check(FamilyEmbedding, m.Name, m.Pricing)
		if m.Dimensions < m.MinDimensions || m.Dimensions > m.MaxDimensions {
			errs = append(errs, fmt.Errorf("embedding model %q: dimensions %d outside [%d, %d]",
				m.Name, m.Dimensions, m.MinDimensions, m.MaxDimensions))
		}
	}
	for _, m := range moderationIndex.order {
		check(FamilyModeration, m.Name, m.Pricing)
	}
	for _, m := range speechIndex.order {
		check(FamilySpeech, m.Name, m.Pricing)
		if m.Voices.Len() == 0 {
			errs = append(errs, fmt.Errorf("speech model %q: no voices", m.Name))
		}
	}
	for _, m := range transcriptionIndex.order {
		check(FamilyTranscription, m.Name, m.Pricing)
	}
	return errs
}

func init() {
	mustBeValid(Validate())
}

// mustBeValid panics on table violations.
func mustBeValid(errs []error) {
	if len(errs) > 0 {
		panic(fmt.Sprintf("catalog: invalid model table: %v", errors.Join(errs...)))
	}
}
