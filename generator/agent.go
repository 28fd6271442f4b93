package generator

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Agent runs one request through prompt, completion, parsing and
// normalization.
type Agent struct {
	llm       LLMClient
	models    []string
	maxTokens int
	logger    logrus.FieldLogger
	now       func() time.Time
}

// AgentOption customizes an Agent.
type AgentOption func(*Agent)

// WithModels restricts requests to the given model ids. The first one is
// the default offered by the form.
func WithModels(models ...string) AgentOption {
	return func(a *Agent) { a.models = models }
}

// WithMaxTokens overrides DefaultMaxTokens.
func WithMaxTokens(n int) AgentOption {
	return func(a *Agent) {
		if n > 0 {
			a.maxTokens = n
		}
	}
}

// WithLogger attaches a logger; the default discards output.
func WithLogger(l logrus.FieldLogger) AgentOption {
	return func(a *Agent) {
		if l != nil {
			a.logger = l
		}
	}
}

func NewAgent(llm LLMClient, opts ...AgentOption) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	discard := logrus.New()
	discard.SetLevel(logrus.PanicLevel)
	a := &Agent{
		llm:       llm,
		maxTokens: DefaultMaxTokens,
		logger:    discard,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Models returns the accepted model ids in display order.
func (a *Agent) Models() []string {
	return append([]string(nil), a.models...)
}

// Generate validates req and, if valid, makes exactly one completion call.
// Validation failures return *ValidationError without touching the
// network; remote failures return *CompletionError.
func (a *Agent) Generate(ctx context.Context, req Request) (Result, error) {
	if err := req.Validate(a.models); err != nil {
		return Result{}, err
	}

	prompt := BuildPrompt(req)
	log := a.logger.WithFields(logrus.Fields{
		"model":    req.Model,
		"platform": req.Platform,
		"tone":     req.Tone,
		"captions": req.CaptionCount,
	})
	log.Debug("calling completion endpoint")

	raw, err := a.llm.Complete(ctx, CompletionRequest{
		Model:       req.Model,
		Prompt:      prompt,
		MaxTokens:   a.maxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		var ce *CompletionError
		if !errors.As(err, &ce) {
			err = &CompletionError{Kind: ErrorTransport, Model: req.Model, Err: err}
		}
		return Result{}, err
	}

	parsed := ParseReply(raw)
	captions, hashtags, plan := Normalize(parsed.Value)
	log.WithFields(logrus.Fields{
		"method":       parsed.Kind,
		"got_captions": len(captions),
		"got_hashtags": len(hashtags),
		"got_plan":     len(plan),
	}).Debug("reply parsed")

	return Result{
		ID:        uuid.NewString(),
		Topic:     req.Topic,
		Platform:  req.Platform,
		Tone:      req.Tone,
		Model:     req.Model,
		Captions:  captions,
		Hashtags:  hashtags,
		Plan:      plan,
		Raw:       raw,
		Method:    parsed.Kind,
		CreatedAt: a.now(),
	}, nil
}
