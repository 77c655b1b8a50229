package prompt

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/zen-systems/gptcore/pkg/transport"
)

// Category is one of the fixed moderation categories.
type Category int

const (
	Harassment Category = iota
	HarassmentThreatening
	Hate
	HateThreatening
	Illicit
	IllicitViolent
	SelfHarm
	SelfHarmInstructions
	SelfHarmIntent
	Sexual
	SexualMinors
	Violence
	ViolenceGraphic

	numCategories
)

var categoryNames = [numCategories]string{
	"harassment",
	"harassment/threatening",
	"hate",
	"hate/threatening",
	"illicit",
	"illicit/violent",
	"self-harm",
	"self-harm/instructions",
	"self-harm/intent",
	"sexual",
	"sexual/minors",
	"violence",
	"violence/graphic",
}

func (c Category) String() string {
	if c < 0 || c >= numCategories {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryNames[c]
}

// Categories lists every category in encoding order.
func Categories() []Category {
	out := make([]Category, numCategories)
	for i := range out {
		out[i] = Category(i)
	}
	return out
}

// Flag is the verdict for one category.
type Flag struct {
	Flagged bool
	Score   float64
}

// Rating is the per-category verdict for one moderated input.
type Rating struct {
	Flagged bool
	Flags   [numCategories]Flag
}

// NewRating builds a Rating from a raw result. Categories the provider did not
// report become Flag{false, 0}.
func NewRating(raw transport.RawModerationResult) Rating {
	r := Rating{Flagged: raw.Flagged}
	for i, name := range categoryNames {
		r.Flags[i] = Flag{
			Flagged: raw.Categories[name],
			Score:   raw.Scores[name],
		}
	}
	return r
}

// Flag returns the verdict for c.
func (r Rating) Flag(c Category) Flag {
	if c < 0 || c >= numCategories {
		return Flag{}
	}
	return r.Flags[c]
}

// Filter selects which categories Render prints.
type Filter int

const (
	FilterAll Filter = iota
	FilterPositive
	FilterNegative
)

// ParseFilter maps "all", "positive" or "negative" to a Filter.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "positive":
		return FilterPositive, nil
	case "negative":
		return FilterNegative, nil
	}
	return FilterAll, fmt.Errorf("unknown rating filter %q", s)
}

// Render prints one line per selected category, in category order.
func (r Rating) Render(filter Filter) string {
	var b strings.Builder
	fmt.Fprintf(&b, "flagged: %t\n", r.Flagged)
	for i, f := range r.Flags {
		if filter == FilterPositive && !f.Flagged {
			continue
		}
		if filter == FilterNegative && f.Flagged {
			continue
		}
		fmt.Fprintf(&b, "%s: %t (%.6f)\n", categoryNames[i], f.Flagged, f.Score)
	}
	return b.String()
}

func (r Rating) String() string {
	return r.Render(FilterAll)
}

const (
	ratingVersion = 1
	ratingSize    = 1 + int(numCategories)*9 + 1
)

// MarshalBinary encodes the rating as: version byte, then per category a flag
// byte and the big-endian IEEE 754 score, then the overall flag byte.
func (r Rating) MarshalBinary() ([]byte, error) {
	buf := make([]byte, ratingSize)
	buf[0] = ratingVersion
	off := 1
	for _, f := range r.Flags {
		buf[off] = boolByte(f.Flagged)
		binary.BigEndian.PutUint64(buf[off+1:], math.Float64bits(f.Score))
		off += 9
	}
	buf[off] = boolByte(r.Flagged)
	return buf, nil
}

// UnmarshalBinary decodes the layout written by MarshalBinary.
func (r *Rating) UnmarshalBinary(data []byte) error {
	if len(data) != ratingSize {
		return fmt.Errorf("rating: expected %d bytes, got %d", ratingSize, len(data))
	}
	if data[0] != ratingVersion {
		return fmt.Errorf("rating: unsupported version %d", data[0])
	}
	var out Rating
	off := 1
	for i := range out.Flags {
		flagged, err := byteBool(data[off])
		if err != nil {
			return fmt.Errorf("rating: %s: %w", categoryNames[i], err)
		}
		out.Flags[i] = Flag{
			Flagged: flagged,
			Score:   math.Float64frombits(binary.BigEndian.Uint64(data[off+1:])),
		}
		off += 9
	}
	flagged, err := byteBool(data[off])
	if err != nil {
		return fmt.Errorf("rating: overall: %w", err)
	}
	out.Flagged = flagged
	*r = out
	return nil
}

// RatingFromBytes decodes a rating written by MarshalBinary.
func RatingFromBytes(data []byte) (Rating, error) {
	var r Rating
	err := r.UnmarshalBinary(data)
	return r, err
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func byteBool(b byte) (bool, error) {
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, fmt.Errorf("invalid flag byte %#x", b)
}
