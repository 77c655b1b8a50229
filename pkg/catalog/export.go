package catalog

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ModelView is the serializable form of a descriptor used by Export.
// Prices are cents per million units.
type ModelView struct {
	Name             string            `yaml:"name"`
	Family           Family            `yaml:"family"`
	Speed            string            `yaml:"speed,omitempty"`
	Performance      string            `yaml:"performance,omitempty"`
	Unit             PriceUnit         `yaml:"unit"`
	InputModalities  []string          `yaml:"input_modalities,omitempty"`
	OutputModalities []string          `yaml:"output_modalities,omitempty"`
	Tools            []string          `yaml:"tools,omitempty"`
	ReasoningEfforts []string          `yaml:"reasoning_efforts,omitempty"`
	Voices           []string          `yaml:"voices,omitempty"`
	ContextWindow    int64             `yaml:"context_window,omitempty"`
	MaxOutputTokens  int64             `yaml:"max_output_tokens,omitempty"`
	Dimensions       int64             `yaml:"dimensions,omitempty"`
	InputPrice       string            `yaml:"input_price"`
	CachedInputPrice string            `yaml:"cached_input_price,omitempty"`
	OutputPrice      string            `yaml:"output_price"`
	SearchCallPrices map[string]string `yaml:"search_call_prices,omitempty"`
	KnowledgeCutoff  string            `yaml:"knowledge_cutoff,omitempty"`
}

func pricingView(v *ModelView, p Pricing) {
	v.InputPrice = p.Input.Mul(million).String()
	v.OutputPrice = p.Output.Mul(million).String()
	if p.HasCachedInput {
		v.CachedInputPrice = p.CachedInput.Mul(million).String()
	}
}

// Views flattens the catalog, optionally restricted to one family.
func Views(family Family) []ModelView {
	var out []ModelView
	want := func(f Family) bool { return family == "" || family == f }

	for _, m := range chatIndex.order {
		if !want(m.Family) {
			continue
		}
		v := ModelView{
			Name:             m.Name,
			Family:           m.Family,
			Speed:            m.Speed.String(),
			Performance:      m.Performance.String(),
			Unit:             UnitTokens,
			InputModalities:  m.Input.Strings(),
			OutputModalities: m.Output.Strings(),
			Tools:            m.Tools.Strings(),
			ReasoningEfforts: m.ReasoningEfforts.Strings(),
			ContextWindow:    m.ContextWindow,
			MaxOutputTokens:  m.MaxOutputTokens,
		}
		pricingView(&v, m.Pricing)
		if m.IsSearch() {
			v.SearchCallPrices = make(map[string]string, len(m.SearchCallPrices))
			for size, price := range m.SearchCallPrices {
				v.SearchCallPrices[string(size)] = price.String()
			}
		}
		if m.KnowledgeCutoff != nil {
			v.KnowledgeCutoff = m.KnowledgeCutoff.Format("2006-01-02")
		}
		out = append(out, v)
	}
	if want(FamilyEmbedding) {
		for _, m := range embeddingIndex.order {
			v := ModelView{
				Name:        m.Name,
				Family:      FamilyEmbedding,
				Speed:       m.Speed.String(),
				Performance: m.Performance.String(),
				Unit:        UnitTokens,
				Dimensions:  m.Dimensions,
			}
			pricingView(&v, m.Pricing)
			out = append(out, v)
		}
	}
	if want(FamilyModeration) {
		for _, m := range moderationIndex.order {
			v := ModelView{
				Name:            m.Name,
				Family:          FamilyModeration,
				Unit:            UnitTokens,
				InputModalities: m.Input.Strings(),
			}
			pricingView(&v, m.Pricing)
			out = append(out, v)
		}
	}
	if want(FamilySpeech) {
		for _, m := range speechIndex.order {
			v := ModelView{
				Name:        m.Name,
				Family:      FamilySpeech,
				Speed:       m.Speed.String(),
				Performance: m.Performance.String(),
				Unit:        m.Unit,
				Voices:      m.Voices.Strings(),
			}
			pricingView(&v, m.Pricing)
			out = append(out, v)
		}
	}
	audio := func(family Family, ix *index[AudioModel]) {
		if !want(family) {
			return
		}
		for _, m := range ix.order {
			v := ModelView{
				Name:        m.Name,
				Family:      family,
				Speed:       m.Speed.String(),
				Performance: m.Performance.String(),
				Unit:        m.Unit,
			}
			pricingView(&v, m.Pricing)
			out = append(out, v)
		}
	}
	audio(FamilyTranscription, transcriptionIndex)
	audio(FamilyTranslation, translationIndex)
	return out
}

// Export writes the catalog, or one family of it, as YAML.
func Export(w io.Writer, family Family) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Views(family)); err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}
	return enc.Close()
}
