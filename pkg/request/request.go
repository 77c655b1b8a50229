// Package request holds the immutable, already-validated request values that
// builders produce and normalizers read back. Values are passed by copy and
// never shared across calls.
package request

import (
	"github.com/zen-systems/gptcore/pkg/capability"
	"github.com/zen-systems/gptcore/pkg/catalog"
	"github.com/zen-systems/gptcore/pkg/transport"
)

// Chat is one text generation call.
type Chat struct {
	Model              *catalog.ChatModel
	Input              string
	Instructions       string
	PreviousResponseID string
	// History is the resubmitted conversation, oldest first, without Input.
	History           []transport.Message
	Temperature       *float64
	TopP              *float64
	FrequencyPenalty  *float64
	PresencePenalty   *float64
	N                 *int64
	MaxOutputTokens   *int64
	ReasoningEffort   capability.ReasoningEffort
	Tools             []capability.Tool
	SearchContextSize capability.SearchContextSize
	User              string
	Store             *bool
}

// IsContinuation reports whether the call continues a server-side conversation.
func (c Chat) IsContinuation() bool { return c.PreviousResponseID != "" }

// effort returns the wire value, or "" when the model takes no effort at all.
func (c Chat) effort() string {
	if c.Model == nil || !c.Model.ReasoningEfforts.Has(c.ReasoningEffort) {
		return ""
	}
	return string(c.ReasoningEffort)
}

// ResponsePayload renders the call for the responses endpoint.
func (c Chat) ResponsePayload() *transport.ResponseRequest {
	tools := make([]string, len(c.Tools))
	for i, t := range c.Tools {
		tools[i] = string(t)
	}
	return &transport.ResponseRequest{
		Model:              c.Model.Name,
		Instructions:       c.Instructions,
		Input:              c.Input,
		PreviousResponseID: c.PreviousResponseID,
		Temperature:        c.Temperature,
		TopP:               c.TopP,
		MaxOutputTokens:    c.MaxOutputTokens,
		ReasoningEffort:    c.effort(),
		Tools:              tools,
		User:               c.User,
		Store:              c.Store,
	}
}

// CompletionPayload renders the call for the chat completions endpoint with
// the instructions as a system message, then History, then Input.
func (c Chat) CompletionPayload() *transport.CompletionRequest {
	messages := make([]transport.Message, 0, len(c.History)+2)
	if c.Instructions != "" {
		messages = append(messages, transport.Message{Role: transport.RoleSystem, Content: c.Instructions})
	}
	messages = append(messages, c.History...)
	messages = append(messages, transport.Message{Role: transport.RoleUser, Content: c.Input})

	return &transport.CompletionRequest{
		Model:               c.Model.Name,
		Messages:            messages,
		Temperature:         c.Temperature,
		TopP:                c.TopP,
		FrequencyPenalty:    c.FrequencyPenalty,
		PresencePenalty:     c.PresencePenalty,
		N:                   c.N,
		MaxCompletionTokens: c.MaxOutputTokens,
		ReasoningEffort:     c.effort(),
		SearchContextSize:   string(c.SearchContextSize),
		User:                c.User,
	}
}

// Embedding is one vectorization call. Dimensions is always set: either the
// caller override or the model's natural size.
type Embedding struct {
	Model      *catalog.EmbeddingModel
	Input      string
	Dimensions int64
	User       string
}

func (e Embedding) Payload() *transport.EmbeddingRequest {
	req := &transport.EmbeddingRequest{Model: e.Model.Name, Input: e.Input, User: e.User}
	// The fixed-size model rejects the dimensions parameter.
	if e.Model.MinDimensions != e.Model.MaxDimensions {
		req.Dimensions = transport.Int64(e.Dimensions)
	}
	return req
}

// Moderation is one classification call.
type Moderation struct {
	Model *catalog.ModerationModel
	Input string
}

func (m Moderation) Payload() *transport.ModerationRequest {
	return &transport.ModerationRequest{Model: m.Model.Name, Input: m.Input}
}

// Speech is one synthesis call.
type Speech struct {
	Model        *catalog.SpeechModel
	Input        string
	Voice        capability.Voice
	Instructions string
	Format       string
	Speed        *float64
}

func (s Speech) Payload() *transport.SpeechRequest {
	return &transport.SpeechRequest{
		Model:        s.Model.Name,
		Input:        s.Input,
		Voice:        string(s.Voice),
		Instructions: s.Instructions,
		Format:       s.Format,
		Speed:        s.Speed,
	}
}

// Audio is one transcription or translation call. The payload itself is
// staged by the service and attached at send time.
type Audio struct {
	Model       *catalog.AudioModel
	FileName    string
	Size        int64
	Language    string
	Prompt      string
	Temperature *float64
}

func (a Audio) Payload(file transport.NamedReader) *transport.AudioRequest {
	return &transport.AudioRequest{
		Model:       a.Model.Name,
		File:        file,
		Language:    a.Language,
		Prompt:      a.Prompt,
		Temperature: a.Temperature,
		Verbose:     a.Model.Unit == catalog.UnitSeconds,
	}
}
