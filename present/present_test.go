package present

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social_media_agent/generator"
)

func TestHashtagLine(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{in: []string{"eco", "#green"}, want: "#eco #green"},
		{in: nil, want: ""},
		{in: []string{"##double"}, want: "##double"},
		{in: []string{"a", "a"}, want: "#a #a"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HashtagLine(tt.in))
	}
}

func TestCaptionsCSV(t *testing.T) {
	captions := []generator.Caption{
		{Text: "plain"},
		{Text: `has "quotes", and commas`},
		{Text: "two\nlines"},
	}
	data, err := CaptionsCSV(captions)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"caption"},
		{"plain"},
		{`has "quotes", and commas`},
		{"two\nlines"},
	}, rows)
}

func TestCaptionsCSVEmpty(t *testing.T) {
	data, err := CaptionsCSV(nil)
	require.NoError(t, err)
	assert.Equal(t, "caption\n", string(data))
}

func TestInline(t *testing.T) {
	assert.Equal(t, "Drink <strong>more</strong> water", string(Inline("Drink **more** water")))
	assert.NotContains(t, string(Inline("<script>alert(1)</script> hi")), "<script>")
	assert.Equal(t, "", string(Inline("")))
}

func TestDigest(t *testing.T) {
	assert.Equal(t, "a b c", Digest("a\n b\t c", 10))
	assert.Equal(t, "héllo…", Digest("héllo world", 5))
	assert.Equal(t, "abc", Digest("abc", 0))
}

func TestHistoryLabel(t *testing.T) {
	r := generator.Result{Topic: "Coffee", Platform: generator.PlatformLinkedIn, Tone: generator.ToneFunny}
	assert.Equal(t, "Coffee — LinkedIn (Funny)", HistoryLabel(r))

	r.Topic = strings.Repeat("a", TopicLimit+10)
	assert.Equal(t, strings.Repeat("a", TopicLimit)+"… — LinkedIn (Funny)", HistoryLabel(r))
}

func TestRawFilename(t *testing.T) {
	assert.Equal(t, "raw_output_3.txt", RawFilename(3))
}
