package generator

import (
	"encoding/json"
	"strings"
)

// ParseKind records which branch of ParseReply produced a value.
type ParseKind string

const (
	KindJSON     ParseKind = "json"
	KindSections ParseKind = "sections"
)

// Parsed is the tagged outcome of ParseReply. Value is whatever the JSON
// decoded to, or the section lists built by the line scanner.
type Parsed struct {
	Kind  ParseKind
	Value any
}

const fence = "```"

// ParseReply turns a raw model reply into a Parsed value. It tries strict
// JSON first and falls back to scanning CAPTIONS / HASHTAGS / PLAN
// sections. It never fails: unrecognizable input yields empty lists.
func ParseReply(raw string) Parsed {
	if v, ok := decodeJSON(stripFence(strings.TrimSpace(raw))); ok {
		return Parsed{Kind: KindJSON, Value: v}
	}
	return Parsed{Kind: KindSections, Value: scanSections(raw)}
}

// stripFence removes a surrounding ``` block. A language tag on the
// opening line is dropped only when the whole body is not already JSON.
func stripFence(s string) string {
	if !strings.HasPrefix(s, fence) {
		return s
	}
	parts := strings.Split(s, fence)
	if len(parts) < 3 {
		return strings.Trim(s, "` \n\r\t")
	}
	body := strings.TrimSpace(parts[1])
	if _, ok := decodeJSON(body); ok {
		return body
	}
	if i := strings.IndexByte(body, '\n'); i > 0 {
		if tag := strings.TrimSpace(body[:i]); isLanguageTag(tag) {
			body = strings.TrimSpace(body[i+1:])
		}
	} else if isLanguageTag(body) {
		body = ""
	}
	return body
}

func isLanguageTag(s string) bool {
	if s == "" || len(s) > 20 {
		return false
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_' || r == '+') {
			return false
		}
	}
	return true
}

func decodeJSON(s string) (any, bool) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	return v, true
}

type section int

const (
	sectionNone section = iota
	sectionCaptions
	sectionHashtags
	sectionPlan
)

// scanSections is the plain-text fallback. It reads the unstripped reply.
func scanSections(raw string) map[string]any {
	captions := []any{}
	hashtags := []any{}
	plan := []any{}

	cur := sectionNone
	for _, ln := range strings.Split(raw, "\n") {
		l := strings.TrimSpace(ln)
		if l == "" {
			continue
		}
		up := strings.ToUpper(l)
		switch {
		case strings.HasPrefix(up, "CAPTIONS"):
			cur = sectionCaptions
			continue
		case strings.HasPrefix(up, "HASHTAGS"):
			cur = sectionHashtags
			continue
		case strings.HasPrefix(up, "PLAN"):
			cur = sectionPlan
			continue
		}

		switch cur {
		case sectionCaptions:
			// numbering such as "1." or "- "
			captions = append(captions, strings.TrimLeft(l, "0123456789. -—"))
		case sectionHashtags:
			for _, t := range strings.Split(l, ",") {
				t = strings.TrimLeft(strings.TrimSpace(t), "#")
				if t != "" {
					hashtags = append(hashtags, t)
				}
			}
		case sectionPlan:
			if day, idea, ok := strings.Cut(l, ":"); ok {
				plan = append(plan, map[string]any{"day": strings.TrimSpace(day), "idea": strings.TrimSpace(idea)})
			} else {
				plan = append(plan, map[string]any{"day": "", "idea": l})
			}
		}
	}

	return map[string]any{
		"captions": captions,
		"hashtags": hashtags,
		"plan":     plan,
	}
}
