package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"golang.org/x/time/rate"
)

// OpenAI implements Transport on top of the official OpenAI Go SDK.
type OpenAI struct {
	client  openai.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

type openAIConfig struct {
	baseURL string
	rps     float64
	logger  *slog.Logger
	extra   []option.RequestOption
}

// Option configures the OpenAI transport.
type Option func(*openAIConfig)

// WithBaseURL points the client at a compatible endpoint.
func WithBaseURL(url string) Option {
	return func(c *openAIConfig) { c.baseURL = url }
}

// WithRateLimit caps outgoing requests per second.
func WithRateLimit(rps float64) Option {
	return func(c *openAIConfig) { c.rps = rps }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *openAIConfig) { c.logger = logger }
}

// WithRequestOptions passes extra SDK options through, e.g. an HTTP client.
func WithRequestOptions(opts ...option.RequestOption) Option {
	return func(c *openAIConfig) { c.extra = append(c.extra, opts...) }
}

// NewOpenAI creates a transport authenticated with apiKey. SDK retries are
// disabled; failures surface to the caller unchanged.
func NewOpenAI(apiKey string, opts ...Option) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	cfg := openAIConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
	}
	reqOpts = append(reqOpts, cfg.extra...)

	t := &OpenAI{
		client: openai.NewClient(reqOpts...),
		logger: cfg.logger,
	}
	if cfg.rps > 0 {
		t.limiter = rate.NewLimiter(rate.Limit(cfg.rps), 1)
	}
	return t, nil
}

func (o *OpenAI) wait(ctx context.Context) error {
	if o.limiter == nil {
		return nil
	}
	if err := o.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return nil
}

func wrapError(op string, err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &Error{Op: op, Status: apiErr.StatusCode, Err: err}
	}
	return &Error{Op: op, Err: err}
}

func ptr(v int64) *int64 { return &v }

// Tools that the responses endpoint accepts without extra configuration.
var bareTools = map[string]map[string]any{
	"web_search":       {"type": "web_search"},
	"image_generation": {"type": "image_generation"},
	"code_interpreter": {"type": "code_interpreter", "container": map[string]any{"type": "auto"}},
}

// CreateResponse calls the responses endpoint.
func (o *OpenAI) CreateResponse(ctx context.Context, req *ResponseRequest) (*RawResponse, error) {
	if err := o.wait(ctx); err != nil {
		return nil, err
	}

	params := responses.ResponseNewParams{
		Input: responses.ResponseNewParamsInputUnion{OfString: openai.String(req.Input)},
		Model: shared.ResponsesModel(req.Model),
	}
	if req.Instructions != "" {
		params.Instructions = openai.String(req.Instructions)
	}
	if req.PreviousResponseID != "" {
		params.PreviousResponseID = openai.String(req.PreviousResponseID)
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}
	if req.TopP != nil {
		params.TopP = openai.Float(*req.TopP)
	}
	if req.MaxOutputTokens != nil {
		params.MaxOutputTokens = openai.Int(*req.MaxOutputTokens)
	}
	if req.ReasoningEffort != "" {
		params.Reasoning = shared.ReasoningParam{Effort: shared.ReasoningEffort(req.ReasoningEffort)}
	}
	if req.User != "" {
		params.User = openai.String(req.User)
	}
	if req.Store != nil {
		params.Store = openai.Bool(*req.Store)
	}

	var callOpts []option.RequestOption
	var tools []map[string]any
	for _, name := range req.Tools {
		if tool, ok := bareTools[name]; ok {
			tools = append(tools, tool)
			continue
		}
		o.logger.Debug("tool needs caller configuration, not sent", "tool", name, "model", req.Model)
	}
	if len(tools) > 0 {
		callOpts = append(callOpts, option.WithJSONSet("tools", tools))
	}

	resp, err := o.client.Responses.New(ctx, params, callOpts...)
	if err != nil {
		return nil, wrapError("create response", err)
	}

	var searches int64
	for _, item := range resp.Output {
		if item.Type == "web_search_call" {
			searches++
		}
	}

	return &RawResponse{
		ID:        resp.ID,
		Model:     string(resp.Model),
		Status:    string(resp.Status),
		CreatedAt: int64(resp.CreatedAt),
		Text:      resp.OutputText(),
		Usage: &RawUsage{
			InputTokens:       ptr(resp.Usage.InputTokens),
			CachedInputTokens: ptr(resp.Usage.InputTokensDetails.CachedTokens),
			OutputTokens:      ptr(resp.Usage.OutputTokens),
			ReasoningTokens:   ptr(resp.Usage.OutputTokensDetails.ReasoningTokens),
			TotalTokens:       ptr(resp.Usage.TotalTokens),
		},
		SearchCalls: ptr(searches),
	}, nil
}

// CreateChatCompletion calls the chat completions endpoint with a full message list.
func (o *OpenAI) CreateChatCompletion(ctx context.Context, req *CompletionRequest) (*RawResponse, error) {
	if err := o.wait(ctx); err != nil {
		return nil, err
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case RoleSystem:
			messages = append(messages, openai.SystemMessage(m.Content))
		case RoleAssistant:
			messages = append(messages, openai.AssistantMessage(m.Content))
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(req.Model),
		Messages: messages,
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}
	if req.TopP != nil {
		params.TopP = openai.Float(*req.TopP)
	}
	if req.FrequencyPenalty != nil {
		params.FrequencyPenalty = openai.Float(*req.FrequencyPenalty)
	}
	if req.PresencePenalty != nil {
		params.PresencePenalty = openai.Float(*req.PresencePenalty)
	}
	if req.N != nil {
		params.N = openai.Int(*req.N)
	}
	if req.MaxCompletionTokens != nil {
		params.MaxCompletionTokens = openai.Int(*req.MaxCompletionTokens)
	}
	if req.ReasoningEffort != "" {
		params.ReasoningEffort = shared.ReasoningEffort(req.ReasoningEffort)
	}
	if req.User != "" {
		params.User = openai.String(req.User)
	}

	var callOpts []option.RequestOption
	if req.SearchContextSize != "" {
		callOpts = append(callOpts, option.WithJSONSet("web_search_options",
			map[string]any{"search_context_size": req.SearchContextSize}))
	}

	resp, err := o.client.Chat.Completions.New(ctx, params, callOpts...)
	if err != nil {
		return nil, wrapError("create chat completion", err)
	}

	var text string
	if len(resp.Choices) > 0 {
		text = resp.Choices[0].Message.Content
	}
	raw := &RawResponse{
		ID:        resp.ID,
		Model:     resp.Model,
		CreatedAt: resp.Created,
		Text:      text,
		Usage: &RawUsage{
			InputTokens:       ptr(resp.Usage.PromptTokens),
			CachedInputTokens: ptr(resp.Usage.PromptTokensDetails.CachedTokens),
			OutputTokens:      ptr(resp.Usage.CompletionTokens),
			ReasoningTokens:   ptr(resp.Usage.CompletionTokensDetails.ReasoningTokens),
			TotalTokens:       ptr(resp.Usage.TotalTokens),
		},
	}
	if req.SearchContextSize != "" {
		raw.SearchCalls = ptr(1)
	}
	return raw, nil
}

// CreateEmbedding calls the embeddings endpoint.
func (o *OpenAI) CreateEmbedding(ctx context.Context, req *EmbeddingRequest) (*RawEmbedding, error) {
	if err := o.wait(ctx); err != nil {
		return nil, err
	}

	params := openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(req.Input)},
		Model: openai.EmbeddingModel(req.Model),
	}
	if req.Dimensions != nil {
		params.Dimensions = openai.Int(*req.Dimensions)
	}
	if req.User != "" {
		params.User = openai.String(req.User)
	}

	resp, err := o.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, wrapError("create embedding", err)
	}

	vectors := make([][]float64, 0, len(resp.Data))
	for _, d := range resp.Data {
		vectors = append(vectors, d.Embedding)
	}
	return &RawEmbedding{
		Model:   resp.Model,
		Vectors: vectors,
		Usage: &RawUsage{
			InputTokens: ptr(resp.Usage.PromptTokens),
			TotalTokens: ptr(resp.Usage.TotalTokens),
		},
	}, nil
}

// CreateModeration calls the moderations endpoint.
func (o *OpenAI) CreateModeration(ctx context.Context, req *ModerationRequest) (*RawModeration, error) {
	if err := o.wait(ctx); err != nil {
		return nil, err
	}

	resp, err := o.client.Moderations.New(ctx, openai.ModerationNewParams{
		Input: openai.ModerationNewParamsInputUnion{OfString: openai.String(req.Input)},
		Model: openai.ModerationModel(req.Model),
	})
	if err != nil {
		return nil, wrapError("create moderation", err)
	}

	out := &RawModeration{ID: resp.ID, Model: resp.Model}
	for _, r := range resp.Results {
		c, s := r.Categories, r.CategoryScores
		out.Results = append(out.Results, RawModerationResult{
			Flagged: r.Flagged,
			Categories: map[string]bool{
				"harassment":             c.Harassment,
				"harassment/threatening": c.HarassmentThreatening,
				"hate":                   c.Hate,
				"hate/threatening":       c.HateThreatening,
				"illicit":                c.Illicit,
				"illicit/violent":        c.IllicitViolent,
				"self-harm":              c.SelfHarm,
				"self-harm/instructions": c.SelfHarmInstructions,
				"self-harm/intent":       c.SelfHarmIntent,
				"sexual":                 c.Sexual,
				"sexual/minors":          c.SexualMinors,
				"violence":               c.Violence,
				"violence/graphic":       c.ViolenceGraphic,
			},
			Scores: map[string]float64{
				"harassment":             s.Harassment,
				"harassment/threatening": s.HarassmentThreatening,
				"hate":                   s.Hate,
				"hate/threatening":       s.HateThreatening,
				"illicit":                s.Illicit,
				"illicit/violent":        s.IllicitViolent,
				"self-harm":              s.SelfHarm,
				"self-harm/instructions": s.SelfHarmInstructions,
				"self-harm/intent":       s.SelfHarmIntent,
				"sexual":                 s.Sexual,
				"sexual/minors":          s.SexualMinors,
				"violence":               s.Violence,
				"violence/graphic":       s.ViolenceGraphic,
			},
		})
	}
	return out, nil
}

// CreateSpeech calls the speech endpoint and reads the whole audio body.
func (o *OpenAI) CreateSpeech(ctx context.Context, req *SpeechRequest) (*RawSpeech, error) {
	if err := o.wait(ctx); err != nil {
		return nil, err
	}

	params := openai.AudioSpeechNewParams{
		Input: req.Input,
		Model: openai.SpeechModel(req.Model),
		Voice: openai.AudioSpeechNewParamsVoice(req.Voice),
	}
	if req.Instructions != "" {
		params.Instructions = openai.String(req.Instructions)
	}
	if req.Format != "" {
		params.ResponseFormat = openai.AudioSpeechNewParamsResponseFormat(req.Format)
	}
	if req.Speed != nil {
		params.Speed = openai.Float(*req.Speed)
	}

	res, err := o.client.Audio.Speech.New(ctx, params)
	if err != nil {
		return nil, wrapError("create speech", err)
	}
	defer res.Body.Close()

	audio, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &Error{Op: "read speech", Status: res.StatusCode, Err: err}
	}
	return &RawSpeech{Audio: audio, ContentType: res.Header.Get("Content-Type")}, nil
}

// CreateTranscription calls the transcriptions endpoint.
func (o *OpenAI) CreateTranscription(ctx context.Context, req *AudioRequest) (*RawTranscription, error) {
	if err := o.wait(ctx); err != nil {
		return nil, err
	}

	params := openai.AudioTranscriptionNewParams{
		File:  req.File,
		Model: openai.AudioModel(req.Model),
	}
	if req.Language != "" {
		params.Language = openai.String(req.Language)
	}
	if req.Prompt != "" {
		params.Prompt = openai.String(req.Prompt)
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}
	if req.Verbose {
		params.ResponseFormat = openai.AudioResponseFormatVerboseJSON
	}

	resp, err := o.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return nil, wrapError("create transcription", err)
	}
	out := &RawTranscription{Text: resp.Text, Language: req.Language}
	switch resp.Usage.Type {
	case "tokens":
		u := resp.Usage
		out.Usage = &RawUsage{
			InputTokens:  ptr(u.InputTokens),
			OutputTokens: ptr(u.OutputTokens),
			TotalTokens:  ptr(u.TotalTokens),
		}
	case "duration":
		seconds := resp.Usage.Seconds
		out.Duration = &seconds
	}
	if out.Duration == nil && req.Verbose {
		out.Duration = verboseDuration(resp.RawJSON())
	}
	return out, nil
}

// CreateTranslation calls the translations endpoint; output is always English.
func (o *OpenAI) CreateTranslation(ctx context.Context, req *AudioRequest) (*RawTranscription, error) {
	if err := o.wait(ctx); err != nil {
		return nil, err
	}

	params := openai.AudioTranslationNewParams{
		File:  req.File,
		Model: openai.AudioModel(req.Model),
	}
	if req.Prompt != "" {
		params.Prompt = openai.String(req.Prompt)
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}
	if req.Verbose {
		params.ResponseFormat = openai.AudioTranslationNewParamsResponseFormatVerboseJSON
	}

	resp, err := o.client.Audio.Translations.New(ctx, params)
	if err != nil {
		return nil, wrapError("create translation", err)
	}
	out := &RawTranscription{Text: resp.Text, Language: "en"}
	if req.Verbose {
		out.Duration = verboseDuration(resp.RawJSON())
	}
	return out, nil
}

// verboseDuration reads the top-level duration of a verbose_json body, which
// the SDK response types do not expose.
func verboseDuration(body string) *float64 {
	var v struct {
		Duration *float64 `json:"duration"`
	}
	if err := json.Unmarshal([]byte(body), &v); err != nil {
		return nil
	}
	return v.Duration
}

var _ Transport = (*OpenAI)(nil)
