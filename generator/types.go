package generator

import (
	"fmt"
	"strings"
	"time"
)

// Platform is the social network a generation targets.
type Platform string

const (
	PlatformInstagram Platform = "Instagram"
	PlatformLinkedIn  Platform = "LinkedIn"
	PlatformTwitter   Platform = "Twitter (X)"
	PlatformFacebook  Platform = "Facebook"
)

// Platforms lists the selectable platforms in form order.
var Platforms = []Platform{PlatformInstagram, PlatformLinkedIn, PlatformTwitter, PlatformFacebook}

// Tone is the requested voice of the copy.
type Tone string

const (
	ToneCasual        Tone = "Casual"
	ToneProfessional  Tone = "Professional"
	ToneFunny         Tone = "Funny"
	ToneInspirational Tone = "Inspirational"
)

// Tones lists the selectable tones in form order.
var Tones = []Tone{ToneCasual, ToneProfessional, ToneFunny, ToneInspirational}

const (
	MinCaptions     = 1
	MaxCaptions     = 6
	DefaultCaptions = 3

	DefaultTemperature = 0.7
	DefaultTopic       = "Eco-friendly water bottle"
)

// Request describes one form submission. It is built per submission and
// dropped once the Result exists.
type Request struct {
	Topic        string   `json:"topic"`
	Platform     Platform `json:"platform"`
	Tone         Tone     `json:"tone"`
	CaptionCount int      `json:"caption_count"`
	Model        string   `json:"model"`
	Temperature  float64  `json:"temperature"`
}

// Caption is one generated caption.
type Caption struct {
	Text string `json:"text"`
}

// PlanEntry is one day of the content plan. Day is whatever label the
// model used and is not guaranteed to read "Day N".
type PlanEntry struct {
	Day  string `json:"day"`
	Idea string `json:"idea"`
}

// Result is the canonical outcome of one successful generation.
type Result struct {
	ID        string      `json:"id"`
	Topic     string      `json:"topic"`
	Platform  Platform    `json:"platform"`
	Tone      Tone        `json:"tone"`
	Model     string      `json:"model"`
	Captions  []Caption   `json:"captions"`
	Hashtags  []string    `json:"hashtags"`
	Plan      []PlanEntry `json:"plan"`
	Raw       string      `json:"raw"`
	Method    ParseKind   `json:"method"`
	CreatedAt time.Time   `json:"created_at"`
}

// Summary is the one-line label used for history entries.
func (r Result) Summary() string {
	return fmt.Sprintf("%s — %s (%s)", r.Topic, r.Platform, r.Tone)
}

// Fields returns the captions, hashtags and plan in the dynamic shape the
// normalizer consumes.
func (r Result) Fields() map[string]any {
	captions := make([]any, 0, len(r.Captions))
	for _, c := range r.Captions {
		captions = append(captions, map[string]any{"text": c.Text})
	}
	hashtags := make([]any, 0, len(r.Hashtags))
	for _, h := range r.Hashtags {
		hashtags = append(hashtags, h)
	}
	plan := make([]any, 0, len(r.Plan))
	for _, p := range r.Plan {
		plan = append(plan, map[string]any{"day": p.Day, "idea": p.Idea})
	}
	return map[string]any{
		"captions": captions,
		"hashtags": hashtags,
		"plan":     plan,
	}
}

// ValidationError reports a request rejected before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate trims the topic and checks every field against the form
// constraints. models lists the model ids the caller accepts; an empty
// list accepts any non-empty id.
func (r *Request) Validate(models []string) error {
	r.Topic = strings.TrimSpace(r.Topic)
	if r.Topic == "" {
		return &ValidationError{Field: "topic", Message: "Please provide a topic."}
	}
	if !validPlatform(r.Platform) {
		return &ValidationError{Field: "platform", Message: fmt.Sprintf("Unknown platform %q.", r.Platform)}
	}
	if !validTone(r.Tone) {
		return &ValidationError{Field: "tone", Message: fmt.Sprintf("Unknown tone %q.", r.Tone)}
	}
	if r.CaptionCount < MinCaptions || r.CaptionCount > MaxCaptions {
		return &ValidationError{
			Field:   "caption_count",
			Message: fmt.Sprintf("Number of captions must be between %d and %d.", MinCaptions, MaxCaptions),
		}
	}
	if r.Temperature < 0 || r.Temperature > 1 {
		return &ValidationError{Field: "temperature", Message: "Temperature must be between 0.0 and 1.0."}
	}
	if r.Model == "" {
		return &ValidationError{Field: "model", Message: "Please choose a model."}
	}
	if len(models) > 0 && !contains(models, r.Model) {
		return &ValidationError{Field: "model", Message: fmt.Sprintf("Unknown model %q.", r.Model)}
	}
	return nil
}

func validPlatform(p Platform) bool {
	for _, v := range Platforms {
		if v == p {
			return true
		}
	}
	return false
}

func validTone(t Tone) bool {
	for _, v := range Tones {
		if v == t {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
