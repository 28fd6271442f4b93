package generator

import (
	"context"
	"errors"
	"net/http"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// GroqBaseURL is Groq's OpenAI-compatible endpoint.
const GroqBaseURL = "https://api.groq.com/openai/v1/"

// OpenAILLM implements LLMClient using the official openai-go SDK (chat
// completions) against any OpenAI-compatible endpoint.
type OpenAILLM struct {
	client openai.Client
}

// NewOpenAILLMFromConfig builds the client. A missing API key is not an
// error here; the endpoint rejects the first call instead.
func NewOpenAILLMFromConfig(cfg *LLMSettings) (*OpenAILLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		base := cfg.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		opts = append(opts, option.WithBaseURL(base))
	}
	return &OpenAILLM{client: openai.NewClient(opts...)}, nil
}

func (o *OpenAILLM) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(req.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt.User),
		},
		MaxTokens:   openai.Int(int64(maxTokens)),
		Temperature: openai.Float(req.Temperature),
	})
	if err != nil {
		return "", classify(req.Model, err)
	}
	if len(resp.Choices) == 0 {
		return "", &CompletionError{Kind: ErrorEmpty, Model: req.Model, Err: errors.New("openai: empty choices")}
	}
	return resp.Choices[0].Message.Content, nil
}

func classify(model string, err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		kind := ErrorService
		if apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden {
			kind = ErrorAuth
		}
		return &CompletionError{Kind: kind, Model: model, StatusCode: apiErr.StatusCode, Err: err}
	}
	return &CompletionError{Kind: ErrorTransport, Model: model, Err: err}
}
