package request

import (
	"testing"

	"github.com/zen-systems/gptcore/pkg/capability"
	"github.com/zen-systems/gptcore/pkg/catalog"
	"github.com/zen-systems/gptcore/pkg/transport"
)

func mustChat(t *testing.T, name string) *catalog.ChatModel {
	t.Helper()
	m, err := catalog.LookupChat(name)
	if err != nil || m == nil {
		t.Fatalf("LookupChat(%q): %v", name, err)
	}
	return m
}

func TestResponsePayloadOmitsUnsupportedEffort(t *testing.T) {
	c := Chat{Model: mustChat(t, "gpt-4.1"), Input: "hi", ReasoningEffort: capability.ReasoningNone}
	if got := c.ResponsePayload().ReasoningEffort; got != "" {
		t.Fatalf("expected no effort for gpt-4.1, got %q", got)
	}

	c = Chat{Model: mustChat(t, "gpt-5.1"), Input: "hi", ReasoningEffort: capability.ReasoningNone}
	if got := c.ResponsePayload().ReasoningEffort; got != "none" {
		t.Fatalf("expected explicit none for gpt-5.1, got %q", got)
	}
}

func TestCompletionPayloadOrdersMessages(t *testing.T) {
	c := Chat{
		Model:        mustChat(t, "gpt-4o"),
		Instructions: "be brief",
		History: []transport.Message{
			{Role: transport.RoleUser, Content: "one"},
			{Role: transport.RoleAssistant, Content: "two"},
		},
		Input: "three",
	}
	msgs := c.CompletionPayload().Messages
	roles := []string{transport.RoleSystem, transport.RoleUser, transport.RoleAssistant, transport.RoleUser}
	if len(msgs) != len(roles) {
		t.Fatalf("expected %d messages, got %d", len(roles), len(msgs))
	}
	for i, role := range roles {
		if msgs[i].Role != role {
			t.Errorf("message %d role = %q, want %q", i, msgs[i].Role, role)
		}
	}
	if msgs[3].Content != "three" {
		t.Errorf("expected input last, got %q", msgs[3].Content)
	}
}

func TestEmbeddingPayloadDimensions(t *testing.T) {
	small, _ := catalog.LookupEmbedding("text-embedding-3-small")
	ada, _ := catalog.LookupEmbedding("text-embedding-ada-002")

	p := Embedding{Model: small, Input: "x", Dimensions: 256}.Payload()
	if p.Dimensions == nil || *p.Dimensions != 256 {
		t.Fatalf("expected dimensions 256, got %v", p.Dimensions)
	}
	p = Embedding{Model: ada, Input: "x", Dimensions: 1536}.Payload()
	if p.Dimensions != nil {
		t.Fatalf("expected no dimensions for fixed-size model, got %d", *p.Dimensions)
	}
}

func TestAudioPayloadVerboseForSecondBilledModels(t *testing.T) {
	whisper, _ := catalog.LookupTranscription("whisper-1")
	mini, _ := catalog.LookupTranscription("gpt-4o-mini-transcribe")

	if p := (Audio{Model: whisper}).Payload(nil); !p.Verbose {
		t.Fatal("whisper-1 bills by the second and needs the verbose body")
	}
	if p := (Audio{Model: mini, Language: "de"}).Payload(nil); p.Verbose || p.Language != "de" {
		t.Fatalf("unexpected payload %+v", p)
	}
}
