// Package capability defines the closed sets of traits used to tag catalog
// models: modalities, tools, reasoning efforts, voices and tiers.
package capability

import (
	"fmt"
	"sort"
	"strings"
)

// Modality is an input or output medium a model accepts or produces.
type Modality string

const (
	ModalityText  Modality = "text"
	ModalityImage Modality = "image"
	ModalityAudio Modality = "audio"
	ModalityVideo Modality = "video"
)

// Tool is a built-in tool a chat model can call.
type Tool string

const (
	ToolFunctionCalling Tool = "function_calling"
	ToolWebSearch       Tool = "web_search"
	ToolFileSearch      Tool = "file_search"
	ToolCodeInterpreter Tool = "code_interpreter"
	ToolImageGeneration Tool = "image_generation"
	ToolComputerUse     Tool = "computer_use"
	ToolMCP             Tool = "mcp"
)

// Voice is a speech synthesis voice.
type Voice string

const (
	VoiceAlloy   Voice = "alloy"
	VoiceAsh     Voice = "ash"
	VoiceBallad  Voice = "ballad"
	VoiceCoral   Voice = "coral"
	VoiceEcho    Voice = "echo"
	VoiceFable   Voice = "fable"
	VoiceNova    Voice = "nova"
	VoiceOnyx    Voice = "onyx"
	VoiceSage    Voice = "sage"
	VoiceShimmer Voice = "shimmer"
	VoiceVerse   Voice = "verse"
	VoiceMarin   Voice = "marin"
	VoiceCedar   Voice = "cedar"
)

// SpeedTier is the relative latency class of a model.
type SpeedTier int

const (
	SpeedSlowest SpeedTier = iota + 1
	SpeedSlow
	SpeedMedium
	SpeedFast
	SpeedFastest
)

func (s SpeedTier) String() string {
	switch s {
	case SpeedSlowest:
		return "slowest"
	case SpeedSlow:
		return "slow"
	case SpeedMedium:
		return "medium"
	case SpeedFast:
		return "fast"
	case SpeedFastest:
		return "fastest"
	default:
		return fmt.Sprintf("speed(%d)", int(s))
	}
}

// PerformanceTier rates output quality (or reasoning depth for reasoning models).
type PerformanceTier int

const (
	PerformanceLowest PerformanceTier = iota + 1
	PerformanceLow
	PerformanceAverage
	PerformanceHigh
	PerformanceHighest
)

func (p PerformanceTier) String() string {
	switch p {
	case PerformanceLowest:
		return "lowest"
	case PerformanceLow:
		return "low"
	case PerformanceAverage:
		return "average"
	case PerformanceHigh:
		return "high"
	case PerformanceHighest:
		return "highest"
	default:
		return fmt.Sprintf("performance(%d)", int(p))
	}
}

// SearchContextSize selects how much retrieved web context a search model uses.
type SearchContextSize string

const (
	SearchContextLow    SearchContextSize = "low"
	SearchContextMedium SearchContextSize = "medium"
	SearchContextHigh   SearchContextSize = "high"
)

// ParseSearchContextSize accepts "low", "medium" or "high" in any case.
func ParseSearchContextSize(s string) (SearchContextSize, error) {
	switch size := SearchContextSize(strings.ToLower(strings.TrimSpace(s))); size {
	case SearchContextLow, SearchContextMedium, SearchContextHigh:
		return size, nil
	}
	return "", fmt.Errorf("unknown search context size %q", s)
}

// Set is an immutable-by-convention membership set over a capability type.
type Set[T ~string] map[T]struct{}

// NewSet returns a set holding the given values.
func NewSet[T ~string](values ...T) Set[T] {
	s := make(Set[T], len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Has reports whether v is a member.
func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

// Len returns the number of members.
func (s Set[T]) Len() int {
	return len(s)
}

// Sorted returns the members in lexical order.
func (s Set[T]) Sorted() []T {
	out := make([]T, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Strings returns the sorted members as plain strings.
func (s Set[T]) Strings() []string {
	sorted := s.Sorted()
	out := make([]string, len(sorted))
	for i, v := range sorted {
		out[i] = string(v)
	}
	return out
}
