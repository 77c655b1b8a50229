package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestOpenAI(t *testing.T, h http.HandlerFunc) *OpenAI {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	o, err := NewOpenAI("sk-test", WithBaseURL(srv.URL+"/"))
	if err != nil {
		t.Fatalf("NewOpenAI: %v", err)
	}
	return o
}

func TestOpenAICreateEmbedding(t *testing.T) {
	var body map[string]any
	o := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("authorization = %q", got)
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"object": "list",
			"model": "text-embedding-3-small",
			"data": [{"object": "embedding", "index": 0, "embedding": [0.5, -0.25]}],
			"usage": {"prompt_tokens": 3, "total_tokens": 3}
		}`))
	})

	raw, err := o.CreateEmbedding(context.Background(), &EmbeddingRequest{
		Model:      "text-embedding-3-small",
		Input:      "hello there world",
		Dimensions: Int64(2),
	})
	if err != nil {
		t.Fatalf("CreateEmbedding: %v", err)
	}
	if body["dimensions"] != float64(2) || body["input"] != "hello there world" {
		t.Fatalf("unexpected body %v", body)
	}
	if len(raw.Vectors) != 1 || raw.Vectors[0][1] != -0.25 {
		t.Fatalf("vectors = %v", raw.Vectors)
	}
	if raw.Usage == nil || *raw.Usage.InputTokens != 3 {
		t.Fatalf("usage = %+v", raw.Usage)
	}
}

func TestOpenAIErrorCarriesStatus(t *testing.T) {
	o := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "slow down", "type": "rate_limit"}}`))
	})

	_, err := o.CreateModeration(context.Background(), &ModerationRequest{Model: "omni-moderation-latest", Input: "x"})
	var te *Error
	if !errors.As(err, &te) {
		t.Fatalf("expected *Error, got %T %v", err, err)
	}
	if te.Status != http.StatusTooManyRequests || te.Op != "create moderation" {
		t.Fatalf("unexpected error %+v", te)
	}
	if !te.RateLimited() || !Retryable(err) {
		t.Fatal("429 should be retryable")
	}
}

func TestOpenAIRateLimitHonoursContext(t *testing.T) {
	o := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not be sent")
	})
	o.limiter = nil
	if err := o.wait(context.Background()); err != nil {
		t.Fatalf("wait without limiter: %v", err)
	}

	limited, err := NewOpenAI("sk-test", WithRateLimit(0.001))
	if err != nil {
		t.Fatal(err)
	}
	// consume the single burst token
	if err := limited.wait(context.Background()); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := limited.wait(ctx); err == nil {
		t.Fatal("expected canceled wait to fail")
	}
}
