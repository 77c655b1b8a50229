package capability

import (
	"fmt"
	"strings"
)

// ReasoningEffort is how much hidden reasoning a model spends before answering.
type ReasoningEffort string

const (
	ReasoningNone    ReasoningEffort = "none"
	ReasoningMinimal ReasoningEffort = "minimal"
	ReasoningLow     ReasoningEffort = "low"
	ReasoningMedium  ReasoningEffort = "medium"
	ReasoningHigh    ReasoningEffort = "high"
	ReasoningXHigh   ReasoningEffort = "xhigh"
)

// ReasoningOrder is the total order used when negotiating an effort.
// Negotiation walks it front to back and takes the first supported entry.
var ReasoningOrder = []ReasoningEffort{
	ReasoningNone,
	ReasoningMinimal,
	ReasoningLow,
	ReasoningMedium,
	ReasoningHigh,
	ReasoningXHigh,
}

// ParseReasoningEffort maps a case-insensitive name to a ReasoningEffort.
func ParseReasoningEffort(s string) (ReasoningEffort, error) {
	want := ReasoningEffort(strings.ToLower(strings.TrimSpace(s)))
	for _, e := range ReasoningOrder {
		if e == want {
			return e, nil
		}
	}
	return "", fmt.Errorf("unknown reasoning effort %q", s)
}

// LowestSupported returns the first effort in ReasoningOrder contained in
// supported, or ReasoningNone when supported is empty.
func LowestSupported(supported Set[ReasoningEffort]) ReasoningEffort {
	for _, e := range ReasoningOrder {
		if supported.Has(e) {
			return e
		}
	}
	return ReasoningNone
}

// Negotiate keeps preferred when supported contains it and otherwise falls back
// to LowestSupported. An empty preferred means no caller preference.
func Negotiate(preferred ReasoningEffort, supported Set[ReasoningEffort]) ReasoningEffort {
	if preferred != "" && supported.Has(preferred) {
		return preferred
	}
	return LowestSupported(supported)
}
