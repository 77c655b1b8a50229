package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/zen-systems/gptcore/pkg/catalog"
	"github.com/zen-systems/gptcore/pkg/config"
	"github.com/zen-systems/gptcore/pkg/cost"
	"github.com/zen-systems/gptcore/pkg/prompt"
	"github.com/zen-systems/gptcore/pkg/request"
	"github.com/zen-systems/gptcore/pkg/transport"
)

// AudioExtensions are the file types the audio endpoints accept.
var AudioExtensions = []string{".flac", ".m4a", ".mp3", ".mp4", ".mpeg", ".mpga", ".oga", ".ogg", ".wav", ".webm"}

// audioOptions are shared by the transcription and translation builders.
type audioOptions struct {
	errs
	language    string
	prompt      string
	temperature *float64
	tempDir     string
	logger      *slog.Logger
	tracker     *cost.Tracker
}

func (o *audioOptions) setLanguage(s string) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 2 || s[0] < 'a' || s[0] > 'z' || s[1] < 'a' || s[1] > 'z' {
		o.fail(invalid("language", s, "must be a two-letter ISO-639-1 code"))
		return
	}
	o.language = s
}

func (o *audioOptions) setTemperature(v float64) {
	if err := checkRange("temperature", v, 0, 1); err != nil {
		o.fail(err)
		return
	}
	o.temperature = &v
}

func (o *audioOptions) apply(s config.AudioSettings) {
	if s.Prompt != "" {
		o.prompt = s.Prompt
	}
	if s.Temperature != nil {
		o.setTemperature(*s.Temperature)
	}
}

// audioService stages a payload and runs one audio call.
type audioService struct {
	base
	tmpl    request.Audio
	tempDir string
}

type audioSource struct {
	name string
	data []byte
	path string
}

type audioCall func(context.Context, *transport.AudioRequest) (*transport.RawTranscription, error)

func (s *audioService) run(ctx context.Context, src audioSource, call audioCall) (request.Audio, *transport.RawTranscription, error) {
	req := s.tmpl
	ext := strings.ToLower(filepath.Ext(src.name))
	if !validAudioExt(ext) {
		return req, nil, invalid("file", src.name, "extension must be one of "+strings.Join(AudioExtensions, ", "))
	}

	size := int64(len(src.data))
	if src.path != "" {
		info, err := os.Stat(src.path)
		if err != nil {
			return req, nil, fmt.Errorf("reading audio file: %w", err)
		}
		if info.IsDir() {
			return req, nil, invalid("file", src.path, "is a directory")
		}
		size = info.Size()
	}
	if size == 0 {
		return req, nil, invalid("file", src.name, "is empty")
	}
	if size > MaxAudioBytes {
		return req, nil, &PayloadTooLargeError{Size: size, Limit: MaxAudioBytes}
	}
	if err := s.before(ctx); err != nil {
		return req, nil, err
	}

	f, size, err := s.stage(src, ext)
	if err != nil {
		return req, nil, err
	}
	defer s.discard(f)

	req.FileName = filepath.Base(src.name)
	req.Size = size
	s.logger.Debug("sending audio", "model", req.Model.Name, "file", req.FileName, "bytes", size)
	raw, err := call(ctx, req.Payload(f))
	return req, raw, err
}

// stage copies the payload into a temporary file that keeps the extension
// and returns the staged size. Files are copied through a limited reader, so
// a file that grew after it was checked is still rejected. The file is
// removed here if staging fails.
func (s *audioService) stage(src audioSource, ext string) (f *os.File, n int64, err error) {
	f, err = os.CreateTemp(s.tempDir, "gptcore-*"+ext)
	if err != nil {
		return nil, 0, fmt.Errorf("staging audio: %w", err)
	}
	defer func() {
		if err != nil {
			s.discard(f)
			f = nil
		}
	}()

	if src.path != "" {
		in, err := os.Open(src.path)
		if err != nil {
			return f, 0, fmt.Errorf("staging audio: %w", err)
		}
		defer in.Close()
		if n, err = io.Copy(f, io.LimitReader(in, MaxAudioBytes+1)); err != nil {
			return f, n, fmt.Errorf("staging audio: %w", err)
		}
	} else {
		w, err := f.Write(src.data)
		if err != nil {
			return f, 0, fmt.Errorf("staging audio: %w", err)
		}
		n = int64(w)
	}
	if n > MaxAudioBytes {
		return f, n, &PayloadTooLargeError{Size: n, Limit: MaxAudioBytes}
	}
	if n == 0 {
		return f, n, invalid("file", src.name, "is empty")
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return f, n, fmt.Errorf("staging audio: %w", err)
	}
	return f, n, nil
}

func (s *audioService) discard(f *os.File) {
	name := f.Name()
	_ = f.Close()
	if err := os.Remove(name); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("failed to remove staged audio", "path", name, "error", err)
	}
}

func validAudioExt(ext string) bool {
	for _, e := range AudioExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

func lookupAudio(lookup func(string) (*catalog.AudioModel, error), m *catalog.AudioModel, fallback string) (*catalog.AudioModel, error) {
	if m != nil {
		return m, nil
	}
	return lookup(fallback)
}

// TranscriptionBuilder collects options for a TranscriptionService.
type TranscriptionBuilder struct {
	audioOptions
	model *catalog.AudioModel
}

func NewTranscriptionBuilder() *TranscriptionBuilder {
	return &TranscriptionBuilder{}
}

func (b *TranscriptionBuilder) Apply(s config.AudioSettings) *TranscriptionBuilder {
	if s.Model != "" {
		b.Model(s.Model)
	}
	if s.Language != "" {
		b.Language(s.Language)
	}
	b.apply(s)
	return b
}

func (b *TranscriptionBuilder) Model(name string) *TranscriptionBuilder {
	m, err := catalog.LookupTranscription(name)
	if err != nil {
		b.fail(err)
		return b
	}
	if m != nil {
		b.model = m
	}
	return b
}

// Language hints the spoken language as an ISO-639-1 code.
func (b *TranscriptionBuilder) Language(s string) *TranscriptionBuilder {
	b.setLanguage(s)
	return b
}

// Prompt guides spelling and style of the transcript.
func (b *TranscriptionBuilder) Prompt(s string) *TranscriptionBuilder {
	b.prompt = s
	return b
}

func (b *TranscriptionBuilder) Temperature(v float64) *TranscriptionBuilder {
	b.setTemperature(v)
	return b
}

// TempDir sets where payloads are staged. Empty means os.TempDir.
func (b *TranscriptionBuilder) TempDir(dir string) *TranscriptionBuilder {
	b.tempDir = dir
	return b
}

func (b *TranscriptionBuilder) Logger(l *slog.Logger) *TranscriptionBuilder {
	b.logger = l
	return b
}

func (b *TranscriptionBuilder) Tracker(t *cost.Tracker) *TranscriptionBuilder {
	b.tracker = t
	return b
}

func (b *TranscriptionBuilder) Err() error { return b.err }

func (b *TranscriptionBuilder) Build(t transport.Transport) (*TranscriptionService, error) {
	if b.err != nil {
		return nil, b.err
	}
	m, err := lookupAudio(catalog.LookupTranscription, b.model, catalog.DefaultTranscriptionModel)
	if err != nil {
		return nil, err
	}
	common, err := newBase(t, b.logger, b.tracker)
	if err != nil {
		return nil, err
	}
	return &TranscriptionService{audioService{
		base:    common,
		tempDir: b.tempDir,
		tmpl: request.Audio{
			Model:       m,
			Language:    b.language,
			Prompt:      b.prompt,
			Temperature: b.temperature,
		},
	}}, nil
}

// TranscriptionService turns speech into text in the spoken language.
type TranscriptionService struct {
	audioService
}

func (s *TranscriptionService) Model() *catalog.AudioModel { return s.tmpl.Model }

// CreateFromBytes transcribes data; name supplies the audio extension.
func (s *TranscriptionService) CreateFromBytes(ctx context.Context, name string, data []byte) (*prompt.AudioPrompt, error) {
	return s.create(ctx, audioSource{name: name, data: data})
}

// CreateFromFile transcribes the file at path.
func (s *TranscriptionService) CreateFromFile(ctx context.Context, path string) (*prompt.AudioPrompt, error) {
	return s.create(ctx, audioSource{name: path, path: path})
}

func (s *TranscriptionService) create(ctx context.Context, src audioSource) (*prompt.AudioPrompt, error) {
	req, raw, err := s.run(ctx, src, s.transport.CreateTranscription)
	if err != nil {
		return nil, err
	}
	p := prompt.NewTranscriptionPrompt(req, raw)
	s.record(catalog.FamilyTranscription, req.Model.Name, p.Usage, p.Cost)
	return p, nil
}

// TranslationBuilder collects options for a TranslationService.
type TranslationBuilder struct {
	audioOptions
	model *catalog.AudioModel
}

func NewTranslationBuilder() *TranslationBuilder {
	return &TranslationBuilder{}
}

func (b *TranslationBuilder) Apply(s config.AudioSettings) *TranslationBuilder {
	if s.Model != "" {
		b.Model(s.Model)
	}
	b.apply(s)
	return b
}

func (b *TranslationBuilder) Model(name string) *TranslationBuilder {
	m, err := catalog.LookupTranslation(name)
	if err != nil {
		b.fail(err)
		return b
	}
	if m != nil {
		b.model = m
	}
	return b
}

// Prompt guides the style of the English output.
func (b *TranslationBuilder) Prompt(s string) *TranslationBuilder {
	b.prompt = s
	return b
}

func (b *TranslationBuilder) Temperature(v float64) *TranslationBuilder {
	b.setTemperature(v)
	return b
}

// TempDir sets where payloads are staged. Empty means os.TempDir.
func (b *TranslationBuilder) TempDir(dir string) *TranslationBuilder {
	b.tempDir = dir
	return b
}

func (b *TranslationBuilder) Logger(l *slog.Logger) *TranslationBuilder {
	b.logger = l
	return b
}

func (b *TranslationBuilder) Tracker(t *cost.Tracker) *TranslationBuilder {
	b.tracker = t
	return b
}

func (b *TranslationBuilder) Err() error { return b.err }

func (b *TranslationBuilder) Build(t transport.Transport) (*TranslationService, error) {
	if b.err != nil {
		return nil, b.err
	}
	m, err := lookupAudio(catalog.LookupTranslation, b.model, catalog.DefaultTranslationModel)
	if err != nil {
		return nil, err
	}
	common, err := newBase(t, b.logger, b.tracker)
	if err != nil {
		return nil, err
	}
	return &TranslationService{audioService{
		base:    common,
		tempDir: b.tempDir,
		tmpl: request.Audio{
			Model:       m,
			Prompt:      b.prompt,
			Temperature: b.temperature,
		},
	}}, nil
}

// TranslationService turns speech in any supported language into English text.
type TranslationService struct {
	audioService
}

func (s *TranslationService) Model() *catalog.AudioModel { return s.tmpl.Model }

// CreateFromBytes translates data; name supplies the audio extension.
func (s *TranslationService) CreateFromBytes(ctx context.Context, name string, data []byte) (*prompt.AudioPrompt, error) {
	return s.create(ctx, audioSource{name: name, data: data})
}

// CreateFromFile translates the file at path.
func (s *TranslationService) CreateFromFile(ctx context.Context, path string) (*prompt.AudioPrompt, error) {
	return s.create(ctx, audioSource{name: path, path: path})
}

func (s *TranslationService) create(ctx context.Context, src audioSource) (*prompt.AudioPrompt, error) {
	req, raw, err := s.run(ctx, src, s.transport.CreateTranslation)
	if err != nil {
		return nil, err
	}
	p := prompt.NewTranslationPrompt(req, raw)
	s.record(catalog.FamilyTranslation, req.Model.Name, p.Usage, p.Cost)
	return p, nil
}
