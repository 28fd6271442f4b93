package generator

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const schemaReply = `{
  "captions": [{"text": "Sip sustainably."}, {"text": "Refill, reuse, repeat. Shop now!"}],
  "hashtags": ["eco", "hydration"],
  "plan": [{"day": "Day 1", "idea": "Unboxing reel"}]
}`

func TestParseReplyJSON(t *testing.T) {
	got := ParseReply(schemaReply)
	require.Equal(t, KindJSON, got.Kind)

	want := map[string]any{
		"captions": []any{
			map[string]any{"text": "Sip sustainably."},
			map[string]any{"text": "Refill, reuse, repeat. Shop now!"},
		},
		"hashtags": []any{"eco", "hydration"},
		"plan":     []any{map[string]any{"day": "Day 1", "idea": "Unboxing reel"}},
	}
	assert.Equal(t, want, got.Value)
}

func TestParseReplyFencedJSON(t *testing.T) {
	plain := ParseReply(schemaReply)

	tests := []struct {
		name string
		raw  string
	}{
		{name: "bare fence", raw: "```\n" + schemaReply + "\n```"},
		{name: "json tag", raw: "```json\n" + schemaReply + "\n```"},
		{name: "surrounding whitespace", raw: "\n\n  ```JSON\n" + schemaReply + "\n```  \n"},
		{name: "trailing prose after fence", raw: "```json\n" + schemaReply + "\n```\nHope this helps!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseReply(tt.raw)
			assert.Equal(t, KindJSON, got.Kind)
			assert.Equal(t, plain.Value, got.Value)
		})
	}
}

func TestParseReplyFencedScalars(t *testing.T) {
	for _, body := range []string{"42", "true", "null", `"caption"`, "[1, 2]"} {
		t.Run(body, func(t *testing.T) {
			plain := ParseReply(body)
			require.Equal(t, KindJSON, plain.Kind)

			for _, raw := range []string{"```\n" + body + "\n```", "```json\n" + body + "\n```"} {
				got := ParseReply(raw)
				assert.Equal(t, KindJSON, got.Kind, raw)
				assert.Equal(t, plain.Value, got.Value, raw)
			}
		})
	}
}

func TestParseReplyUnmatchedFence(t *testing.T) {
	got := ParseReply("```{\"hashtags\": [\"a\"]}")
	require.Equal(t, KindJSON, got.Kind)
	assert.Equal(t, map[string]any{"hashtags": []any{"a"}}, got.Value)
}

func TestParseReplySections(t *testing.T) {
	raw := "CAPTIONS\n1. Buy now\nHASHTAGS\neco, green\nPLAN\nDay 1: Launch\nNoColonLine"

	got := ParseReply(raw)
	require.Equal(t, KindSections, got.Kind)

	captions, hashtags, plan := Normalize(got.Value)
	assert.Equal(t, []Caption{{Text: "Buy now"}}, captions)
	assert.Equal(t, []string{"eco", "green"}, hashtags)
	assert.Equal(t, []PlanEntry{{Day: "Day 1", Idea: "Launch"}, {Day: "", Idea: "NoColonLine"}}, plan)
}

func TestScanSectionsDetails(t *testing.T) {
	raw := `Sure! Here is your content.
Captions:
- First line
— Second line
  3) Third
Hashtags: (six)
#eco, #green,  , ##reuse
#planet
Plan for the week
Monday: Teaser: part one

Tuesday - behind the scenes`

	got := scanSections(raw)

	assert.Equal(t, []any{"First line", "Second line", ") Third"}, got["captions"])
	assert.Equal(t, []any{"eco", "green", "reuse", "planet"}, got["hashtags"])
	assert.Equal(t, []any{
		map[string]any{"day": "Monday", "idea": "Teaser: part one"},
		map[string]any{"day": "", "idea": "Tuesday - behind the scenes"},
	}, got["plan"])
}

func TestParseReplyFallsBackOnUnclosedFence(t *testing.T) {
	raw := "```\nCAPTIONS\n1. Hello"
	got := ParseReply(raw)
	require.Equal(t, KindSections, got.Kind)
	captions, _, _ := Normalize(got.Value)
	assert.Equal(t, []Caption{{Text: "Hello"}}, captions)
}

func TestParseReplyNeverFails(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"```",
		"``````",
		"```json",
		"{",
		"null",
		"42",
		"[1, 2, 3]",
		"\x00\xff\xfe garbage —",
		"PLAN",
		"HASHTAGS\n,,,\n#",
	}
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		b := make([]byte, rng.Intn(200))
		rng.Read(b)
		inputs = append(inputs, string(b))
	}

	for _, in := range inputs {
		assert.NotPanics(t, func() {
			got := ParseReply(in)
			assert.Contains(t, []ParseKind{KindJSON, KindSections}, got.Kind)
			captions, hashtags, plan := Normalize(got.Value)
			assert.NotNil(t, captions)
			assert.NotNil(t, hashtags)
			assert.NotNil(t, plan)
		})
	}
}

func TestParseReplyEmptyGivesEmptySections(t *testing.T) {
	got := ParseReply("")
	require.Equal(t, KindSections, got.Kind)
	assert.Equal(t, map[string]any{
		"captions": []any{},
		"hashtags": []any{},
		"plan":     []any{},
	}, got.Value)
}
