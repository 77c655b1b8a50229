package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/zen-systems/gptcore/pkg/config"
	"github.com/zen-systems/gptcore/pkg/prompt"
	"github.com/zen-systems/gptcore/pkg/transport"
)

func TestEmbeddingDimensions(t *testing.T) {
	tests := []struct {
		model   string
		dims    int64
		wantErr bool
		wire    *int64
	}{
		{"text-embedding-3-small", 0, false, transport.Int64(1536)},
		{"text-embedding-3-small", 256, false, transport.Int64(256)},
		{"text-embedding-3-small", 1536, false, transport.Int64(1536)},
		{"text-embedding-3-small", 1537, true, nil},
		{"text-embedding-3-large", 3072, false, transport.Int64(3072)},
		{"text-embedding-ada-002", 0, false, nil},
		{"text-embedding-ada-002", 1000, true, nil},
	}
	for _, tt := range tests {
		stub := transport.NewStub()
		b := NewEmbeddingBuilder().Model(tt.model)
		if tt.dims != 0 {
			b.Dimensions(tt.dims)
		}
		svc, err := b.Build(stub)
		if tt.wantErr {
			var ip *InvalidParameterError
			if !errors.As(err, &ip) || ip.Param != "dimensions" {
				t.Errorf("%s/%d: expected dimensions error, got %v", tt.model, tt.dims, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s/%d: build: %v", tt.model, tt.dims, err)
		}
		if _, err := svc.Create(context.Background(), "vectorize me"); err != nil {
			t.Fatalf("%s/%d: create: %v", tt.model, tt.dims, err)
		}
		got := stub.LastEmbedding.Dimensions
		switch {
		case tt.wire == nil && got != nil:
			t.Errorf("%s: dimensions should be omitted, got %d", tt.model, *got)
		case tt.wire != nil && (got == nil || *got != *tt.wire):
			t.Errorf("%s/%d: wire dimensions = %v, want %d", tt.model, tt.dims, got, *tt.wire)
		}
	}
}

func TestEmbeddingDimensionsCheckedAfterModelSwitch(t *testing.T) {
	_, err := NewEmbeddingBuilder().Dimensions(3000).Model("text-embedding-3-small").Build(transport.NewStub())
	if !IsValidation(err) {
		t.Fatalf("expected dimensions to be rechecked at build, got %v", err)
	}
	if err := NewEmbeddingBuilder().Dimensions(0).Err(); !IsValidation(err) {
		t.Fatalf("expected zero dimensions to be rejected, got %v", err)
	}
}

func TestEmbeddingCreate(t *testing.T) {
	stub := transport.NewStub()
	stub.Embedding = &transport.RawEmbedding{
		Model:   "text-embedding-3-small",
		Vectors: [][]float64{{0.1, 0.2}},
		Usage:   &transport.RawUsage{InputTokens: transport.Int64(1_000_000)},
	}
	svc, err := NewEmbeddingBuilder().Apply(config.EmbeddingSettings{User: "u"}).Build(stub)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	p, err := svc.Create(context.Background(), "hello")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(p.Vector) != 2 {
		t.Fatalf("vector = %v", p.Vector)
	}
	// 2 cents per million tokens.
	if !p.Cost.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("cost = %s", p.Cost)
	}
	if stub.LastEmbedding.User != "u" {
		t.Fatalf("user not forwarded")
	}
	if _, err := svc.Create(context.Background(), ""); !IsValidation(err) {
		t.Fatalf("expected blank input to be rejected")
	}
}

func TestModerationCreate(t *testing.T) {
	stub := transport.NewStub()
	stub.Moderation = &transport.RawModeration{
		ID:    "modr-1",
		Model: "omni-moderation-latest",
		Results: []transport.RawModerationResult{{
			Flagged:    true,
			Categories: map[string]bool{"violence": true},
			Scores:     map[string]float64{"violence": 0.9},
		}},
	}
	svc, err := NewModerationBuilder().Build(stub)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if svc.Model().Name != "omni-moderation-latest" {
		t.Fatalf("default model = %s", svc.Model().Name)
	}
	p, err := svc.Create(context.Background(), "text")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !p.Rating.Flagged {
		t.Fatalf("expected flagged rating")
	}
	f := p.Rating.Flag(prompt.Violence)
	if !f.Flagged || f.Score != 0.9 {
		t.Fatalf("violence = %+v", f)
	}
	if h := p.Rating.Flag(prompt.Harassment); h.Flagged || h.Score != 0 {
		t.Fatalf("absent category should be zero, got %+v", h)
	}
	if !p.Cost.IsZero() {
		t.Fatalf("moderation should be free, got %s", p.Cost)
	}

	_, err = NewModerationBuilder().Apply(config.ModerationSettings{Model: "bogus"}).Build(stub)
	if err == nil {
		t.Fatalf("expected unknown model error")
	}
}
