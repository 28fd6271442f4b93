package generator

import (
	"fmt"
	"strings"
)

// Prompt is the message sent to the completion endpoint as a single user turn.
type Prompt struct {
	User string
}

const outputContract = `{
  "captions": [
    {"text": "Caption 1 text"},
    {"text": "Caption 2 text"}
  ],
  "hashtags": ["tag1", "tag2", "..."],
  "plan": [
    {"day": "Day 1", "idea": "Short idea"},
    {"day": "Day 2", "idea": "Short idea"}
  ]
}`

// BuildPrompt renders the copywriting instruction for a request.
func BuildPrompt(req Request) Prompt {
	var sb strings.Builder
	sb.WriteString("You are a social media copywriter. Produce output for the following request.\n\n")
	sb.WriteString("Task:\n")
	sb.WriteString(fmt.Sprintf("- Create exactly %d distinct captions for %s about: \"%s\"\n", req.CaptionCount, req.Platform, req.Topic))
	sb.WriteString("- Each caption must be short (1-2 lines). Include a CTA (call to action) in at least one caption.\n")
	sb.WriteString("- Provide exactly 6 relevant hashtags (as a list).\n")
	sb.WriteString("- Provide a 7-day content plan: list one short idea per day, Day 1 through Day 7.\n\n")
	sb.WriteString("REQUIREMENTS:\n")
	sb.WriteString(fmt.Sprintf("- Tone: %s\n", req.Tone))
	sb.WriteString("- Output MUST be valid JSON in the following structure (no extra commentary):\n\n")
	sb.WriteString(outputContract)
	sb.WriteString("\n\n")
	sb.WriteString("Return ONLY the JSON object. If you cannot produce full JSON, clearly label sections CAPTIONS, HASHTAGS, PLAN in plain text.\n")
	return Prompt{User: sb.String()}
}
