package transport

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

// Stub returns canned records and counts calls. It is used for dry runs and
// tests; set Err to make every call fail.
type Stub struct {
	Response      *RawResponse
	Embedding     *RawEmbedding
	Moderation    *RawModeration
	Speech        *RawSpeech
	Transcription *RawTranscription
	Err           error

	Calls int

	LastResponse   *ResponseRequest
	LastCompletion *CompletionRequest
	LastEmbedding  *EmbeddingRequest
	LastModeration *ModerationRequest
	LastSpeech     *SpeechRequest
	LastAudio      *AudioRequest
	// LastAudioBody holds what was read from the staged audio file.
	LastAudioBody []byte
}

// NewStub creates a stub whose chat replies echo the input.
func NewStub() *Stub {
	return &Stub{}
}

func (s *Stub) call() error {
	s.Calls++
	return s.Err
}

func (s *Stub) echo(model, input string) *RawResponse {
	if s.Response != nil {
		r := *s.Response
		return &r
	}
	return &RawResponse{
		ID:        fmt.Sprintf("resp_stub%d", s.Calls),
		Model:     model,
		Status:    "completed",
		CreatedAt: time.Now().Unix(),
		Text:      "stub response:\n" + input,
		Usage: &RawUsage{
			InputTokens:  Int64(int64(len(strings.Fields(input)))),
			OutputTokens: Int64(int64(len(strings.Fields(input)) + 2)),
		},
	}
}

func (s *Stub) CreateResponse(_ context.Context, req *ResponseRequest) (*RawResponse, error) {
	s.LastResponse = req
	if err := s.call(); err != nil {
		return nil, err
	}
	return s.echo(req.Model, req.Input), nil
}

func (s *Stub) CreateChatCompletion(_ context.Context, req *CompletionRequest) (*RawResponse, error) {
	s.LastCompletion = req
	if err := s.call(); err != nil {
		return nil, err
	}
	var last string
	if n := len(req.Messages); n > 0 {
		last = req.Messages[n-1].Content
	}
	r := s.echo(req.Model, last)
	r.ID = strings.Replace(r.ID, "resp_", "chatcmpl-", 1)
	return r, nil
}

func (s *Stub) CreateEmbedding(_ context.Context, req *EmbeddingRequest) (*RawEmbedding, error) {
	s.LastEmbedding = req
	if err := s.call(); err != nil {
		return nil, err
	}
	if s.Embedding != nil {
		return s.Embedding, nil
	}
	dims := int64(8)
	if req.Dimensions != nil {
		dims = *req.Dimensions
	}
	return &RawEmbedding{
		Model:   req.Model,
		Vectors: [][]float64{make([]float64, dims)},
		Usage:   &RawUsage{InputTokens: Int64(int64(len(strings.Fields(req.Input))))},
	}, nil
}

func (s *Stub) CreateModeration(_ context.Context, req *ModerationRequest) (*RawModeration, error) {
	s.LastModeration = req
	if err := s.call(); err != nil {
		return nil, err
	}
	if s.Moderation != nil {
		return s.Moderation, nil
	}
	return &RawModeration{
		ID:      fmt.Sprintf("modr-stub%d", s.Calls),
		Model:   req.Model,
		Results: []RawModerationResult{{}},
	}, nil
}

func (s *Stub) CreateSpeech(_ context.Context, req *SpeechRequest) (*RawSpeech, error) {
	s.LastSpeech = req
	if err := s.call(); err != nil {
		return nil, err
	}
	if s.Speech != nil {
		return s.Speech, nil
	}
	return &RawSpeech{Audio: []byte(req.Input), ContentType: "audio/mpeg"}, nil
}

func (s *Stub) readAudio(req *AudioRequest) error {
	s.LastAudio = req
	if req.File != nil {
		body, err := io.ReadAll(req.File)
		if err != nil {
			return err
		}
		s.LastAudioBody = body
	}
	return nil
}

func (s *Stub) CreateTranscription(_ context.Context, req *AudioRequest) (*RawTranscription, error) {
	if err := s.readAudio(req); err != nil {
		return nil, err
	}
	if err := s.call(); err != nil {
		return nil, err
	}
	if s.Transcription != nil {
		return s.Transcription, nil
	}
	return &RawTranscription{Text: "stub transcription", Language: req.Language}, nil
}

func (s *Stub) CreateTranslation(_ context.Context, req *AudioRequest) (*RawTranscription, error) {
	if err := s.readAudio(req); err != nil {
		return nil, err
	}
	if err := s.call(); err != nil {
		return nil, err
	}
	if s.Transcription != nil {
		return s.Transcription, nil
	}
	return &RawTranscription{Text: "stub translation", Language: "en"}, nil
}

var _ Transport = (*Stub)(nil)
