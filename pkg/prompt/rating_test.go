package prompt

import (
	"math"
	"strings"
	"testing"

	"github.com/zen-systems/gptcore/pkg/transport"
)

func sampleRating() Rating {
	r := Rating{Flagged: true}
	for i := range r.Flags {
		r.Flags[i] = Flag{Flagged: i%3 == 0, Score: float64(i) / 13.0}
	}
	r.Flags[SelfHarmIntent].Score = math.SmallestNonzeroFloat64
	r.Flags[Violence].Score = 0.9999999999999999
	return r
}

func TestRatingRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		rating Rating
	}{
		{name: "zero", rating: Rating{}},
		{name: "mixed", rating: sampleRating()},
		{name: "all flagged", rating: func() Rating {
			r := Rating{Flagged: true}
			for i := range r.Flags {
				r.Flags[i] = Flag{Flagged: true, Score: 1}
			}
			return r
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.rating.MarshalBinary()
			if err != nil {
				t.Fatalf("MarshalBinary() error = %v", err)
			}
			got, err := RatingFromBytes(data)
			if err != nil {
				t.Fatalf("RatingFromBytes() error = %v", err)
			}
			if got != tt.rating {
				t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, tt.rating)
			}
		})
	}
}

func TestRatingLayout(t *testing.T) {
	r := Rating{Flagged: true}
	r.Flags[Harassment] = Flag{Flagged: true, Score: 0.5}
	data, _ := r.MarshalBinary()

	if len(data) != 119 {
		t.Fatalf("expected 119 bytes, got %d", len(data))
	}
	if data[0] != 1 {
		t.Fatalf("expected version 1, got %d", data[0])
	}
	if data[1] != 1 {
		t.Fatal("expected harassment flag byte set")
	}
	// 0.5 is 0x3FE0000000000000.
	if data[2] != 0x3F || data[3] != 0xE0 {
		t.Fatalf("unexpected score bytes % x", data[2:10])
	}
	if data[len(data)-1] != 1 {
		t.Fatal("expected overall flag as last byte")
	}
}

func TestRatingRejectsBadInput(t *testing.T) {
	good, _ := sampleRating().MarshalBinary()

	if _, err := RatingFromBytes(good[:10]); err == nil {
		t.Error("expected error for short input")
	}

	badVersion := append([]byte(nil), good...)
	badVersion[0] = 9
	if _, err := RatingFromBytes(badVersion); err == nil {
		t.Error("expected error for unknown version")
	}

	badFlag := append([]byte(nil), good...)
	badFlag[1] = 7
	if _, err := RatingFromBytes(badFlag); err == nil {
		t.Error("expected error for invalid flag byte")
	}
}

func TestNewRatingDefaultsMissingCategories(t *testing.T) {
	raw := transport.RawModerationResult{
		Flagged:    true,
		Categories: map[string]bool{"violence": true, "hate": false},
		Scores:     map[string]float64{"violence": 0.87, "hate": 0.01},
	}
	r := NewRating(raw)

	if !r.Flagged {
		t.Error("expected overall flag")
	}
	if f := r.Flag(Violence); !f.Flagged || f.Score != 0.87 {
		t.Errorf("violence = %+v", f)
	}
	if f := r.Flag(Illicit); f.Flagged || f.Score != 0 {
		t.Errorf("expected absent illicit to default, got %+v", f)
	}
	if f := r.Flag(IllicitViolent); f != (Flag{}) {
		t.Errorf("expected absent illicit/violent to default, got %+v", f)
	}
}

func TestRatingRender(t *testing.T) {
	r := Rating{Flagged: true}
	r.Flags[Hate] = Flag{Flagged: true, Score: 0.75}

	all := r.Render(FilterAll)
	if strings.Count(all, "\n") != 14 {
		t.Errorf("expected header plus 13 lines, got:\n%s", all)
	}

	positive := r.Render(FilterPositive)
	if !strings.Contains(positive, "hate: true (0.750000)") {
		t.Errorf("positive render missing hate:\n%s", positive)
	}
	if strings.Contains(positive, "violence") {
		t.Errorf("positive render should skip unflagged categories:\n%s", positive)
	}

	negative := r.Render(FilterNegative)
	if strings.Contains(negative, "hate:") {
		t.Errorf("negative render should skip flagged categories:\n%s", negative)
	}
	if strings.Count(negative, "\n") != 13 {
		t.Errorf("expected header plus 12 lines, got:\n%s", negative)
	}
}

func TestParseFilter(t *testing.T) {
	for input, want := range map[string]Filter{"": FilterAll, "ALL": FilterAll, "positive": FilterPositive, "Negative": FilterNegative} {
		got, err := ParseFilter(input)
		if err != nil || got != want {
			t.Errorf("ParseFilter(%q) = %v, %v", input, got, err)
		}
	}
	if _, err := ParseFilter("some"); err == nil {
		t.Error("expected error for unknown filter")
	}
}

func TestCategoryNames(t *testing.T) {
	cats := Categories()
	if len(cats) != 13 {
		t.Fatalf("expected 13 categories, got %d", len(cats))
	}
	if cats[0].String() != "harassment" || cats[12].String() != "violence/graphic" {
		t.Errorf("unexpected category order: %v", cats)
	}
}
