// Package transport is the outbound edge of the client: it sends validated
// request payloads to the provider and hands back raw, provider-shaped records.
//
// Optional provider fields are pointers (or absent map keys) so the normalizers
// in package prompt can tell "missing" from "zero".
package transport

import (
	"context"
	"io"
)

// Transport sends one request per call. Implementations must not retry and
// must report provider failures as *Error.
type Transport interface {
	CreateResponse(ctx context.Context, req *ResponseRequest) (*RawResponse, error)
	CreateChatCompletion(ctx context.Context, req *CompletionRequest) (*RawResponse, error)
	CreateEmbedding(ctx context.Context, req *EmbeddingRequest) (*RawEmbedding, error)
	CreateModeration(ctx context.Context, req *ModerationRequest) (*RawModeration, error)
	CreateSpeech(ctx context.Context, req *SpeechRequest) (*RawSpeech, error)
	CreateTranscription(ctx context.Context, req *AudioRequest) (*RawTranscription, error)
	CreateTranslation(ctx context.Context, req *AudioRequest) (*RawTranscription, error)
}

// ResponseRequest is the payload for the responses endpoint.
type ResponseRequest struct {
	Model              string
	Instructions       string
	Input              string
	PreviousResponseID string
	Temperature        *float64
	TopP               *float64
	MaxOutputTokens    *int64
	ReasoningEffort    string
	Tools              []string
	User               string
	Store              *bool
}

// Message is one entry of a resubmitted conversation.
type Message struct {
	Role    string
	Content string
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// CompletionRequest is the payload for the chat completions endpoint, used when
// the whole history is resubmitted and for search models.
type CompletionRequest struct {
	Model               string
	Messages            []Message
	Temperature         *float64
	TopP                *float64
	FrequencyPenalty    *float64
	PresencePenalty     *float64
	N                   *int64
	MaxCompletionTokens *int64
	ReasoningEffort     string
	SearchContextSize   string
	User                string
}

// EmbeddingRequest is the payload for the embeddings endpoint.
type EmbeddingRequest struct {
	Model      string
	Input      string
	Dimensions *int64
	User       string
}

// ModerationRequest is the payload for the moderations endpoint.
type ModerationRequest struct {
	Model string
	Input string
}

// SpeechRequest is the payload for the speech endpoint.
type SpeechRequest struct {
	Model        string
	Input        string
	Voice        string
	Instructions string
	Format       string
	Speed        *float64
}

// AudioRequest is the payload for the transcription and translation endpoints.
// File must carry a name with the audio extension.
type AudioRequest struct {
	Model       string
	File        NamedReader
	Language    string
	Prompt      string
	Temperature *float64
	// Verbose asks for the detailed body, which carries the audio duration
	// needed to price models billed by the second.
	Verbose bool
}

// NamedReader is an audio payload with a file name, such as *os.File.
type NamedReader interface {
	io.Reader
	Name() string
}

// RawUsage carries provider token counters; nil fields were not reported.
type RawUsage struct {
	InputTokens       *int64
	CachedInputTokens *int64
	OutputTokens      *int64
	ReasoningTokens   *int64
	TotalTokens       *int64
}

// RawResponse is a text generation result from either chat endpoint.
type RawResponse struct {
	ID          string
	Model       string
	Status      string
	CreatedAt   int64
	CompletedAt *int64
	Text        string
	Usage       *RawUsage
	// SearchCalls counts web searches the provider ran, when reported.
	SearchCalls *int64
}

// RawEmbedding holds one vector per input.
type RawEmbedding struct {
	Model   string
	Vectors [][]float64
	Usage   *RawUsage
}

// RawModerationResult is one classified input. Categories and Scores are keyed
// by the provider category name; a missing key means not reported.
type RawModerationResult struct {
	Flagged    bool
	Categories map[string]bool
	Scores     map[string]float64
}

// RawModeration is a moderation verdict.
type RawModeration struct {
	ID      string
	Model   string
	Results []RawModerationResult
}

// RawSpeech is synthesized audio returned as-is.
type RawSpeech struct {
	Audio       []byte
	ContentType string
	Usage       *RawUsage
}

// RawTranscription is recognized text, either whole or as ordered segments.
type RawTranscription struct {
	Text     string
	Segments []string
	Language string
	Duration *float64
	Usage    *RawUsage
}

// Int64 returns a pointer to v.
func Int64(v int64) *int64 { return &v }

// Float64 returns a pointer to v.
func Float64(v float64) *float64 { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }
