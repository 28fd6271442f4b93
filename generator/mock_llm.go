package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
)

// MockLLM is a local stand-in that never calls an external model. It
// answers with a well-formed JSON reply sized to the prompt.
type MockLLM struct{}

var (
	mockCountRe = regexp.MustCompile(`Create exactly (\d+) distinct captions for (.+?) about: "(.*)"`)
)

func (m MockLLM) Complete(_ context.Context, req CompletionRequest) (string, error) {
	count, platform, topic := 3, "social media", "your product"
	if match := mockCountRe.FindStringSubmatch(req.Prompt.User); len(match) == 4 {
		if n, err := strconv.Atoi(match[1]); err == nil {
			count = n
		}
		platform, topic = match[2], match[3]
	}

	type caption struct {
		Text string `json:"text"`
	}
	type day struct {
		Day  string `json:"day"`
		Idea string `json:"idea"`
	}
	reply := struct {
		Captions []caption `json:"captions"`
		Hashtags []string  `json:"hashtags"`
		Plan     []day     `json:"plan"`
	}{
		Hashtags: []string{"mock", "socialmedia", "content", "marketing", "daily", "growth"},
	}
	for i := 1; i <= count; i++ {
		text := fmt.Sprintf("Caption %d about %s for %s.", i, topic, platform)
		if i == 1 {
			text += " Shop now!"
		}
		reply.Captions = append(reply.Captions, caption{Text: text})
	}
	for i := 1; i <= 7; i++ {
		reply.Plan = append(reply.Plan, day{Day: fmt.Sprintf("Day %d", i), Idea: fmt.Sprintf("Post idea %d about %s", i, topic)})
	}

	b, err := json.MarshalIndent(reply, "", "  ")
	if err != nil {
		return "", err
	}
	return "```json\n" + string(b) + "\n```", nil
}
