package generator

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Normalize coerces a parsed value into the canonical result fields.
// Anything that does not match the expected schema becomes an empty list
// or a textual rendering; it never fails.
func Normalize(value any) ([]Caption, []string, []PlanEntry) {
	captions := []Caption{}
	hashtags := []string{}
	plan := []PlanEntry{}

	m, ok := value.(map[string]any)
	if !ok {
		return captions, hashtags, plan
	}

	for _, c := range listField(m, "captions") {
		switch v := c.(type) {
		case string:
			captions = append(captions, Caption{Text: v})
		case map[string]any:
			if text, ok := v["text"]; ok {
				captions = append(captions, Caption{Text: toText(text)})
			} else {
				captions = append(captions, Caption{Text: toText(v)})
			}
		default:
			captions = append(captions, Caption{Text: toText(v)})
		}
	}

	for _, h := range listField(m, "hashtags") {
		hashtags = append(hashtags, toText(h))
	}

	for _, p := range listField(m, "plan") {
		entry, ok := p.(map[string]any)
		if !ok {
			plan = append(plan, PlanEntry{Idea: toText(p)})
			continue
		}
		plan = append(plan, PlanEntry{
			Day:  toText(entry["day"]),
			Idea: ideaText(entry["idea"]),
		})
	}

	return captions, hashtags, plan
}

func listField(m map[string]any, key string) []any {
	if l, ok := m[key].([]any); ok {
		return l
	}
	return nil
}

// ideaText keeps string ideas verbatim and serializes anything else.
func ideaText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// toText renders a decoded JSON value as display text.
func toText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case map[string]any, []any:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	default:
		return fmt.Sprint(t)
	}
}
