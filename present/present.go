// Package present turns generation results into the text, HTML and files
// the web UI shows and serves.
package present

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"

	"social_media_agent/generator"
)

const (
	CaptionsFilename = "captions.csv"
	OutputFilename   = "social_media_output.txt"
)

// Empty is shown in place of an empty hashtag list or plan.
const Empty = "—"

// RawFilename names the raw export of the n-th history entry (1-based).
func RawFilename(n int) string {
	return fmt.Sprintf("raw_output_%d.txt", n)
}

// HashtagLine prefixes each tag with "#" unless it already has one and
// joins them with single spaces.
func HashtagLine(tags []string) string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if !strings.HasPrefix(t, "#") {
			t = "#" + t
		}
		out = append(out, t)
	}
	return strings.Join(out, " ")
}

// CaptionsCSV renders a one-column CSV with a "caption" header.
func CaptionsCSV(captions []generator.Caption) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"caption"}); err != nil {
		return nil, err
	}
	for _, c := range captions {
		if err := w.Write([]string{c.Text}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write captions csv: %w", err)
	}
	return buf.Bytes(), nil
}

// Inline renders a short Markdown snippet, such as a caption using
// **bold**, as HTML without the surrounding paragraph. Raw HTML in the
// input is omitted by the renderer.
func Inline(md string) template.HTML {
	html, err := mdToHTML(md)
	if err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	html = strings.TrimSpace(html)
	if strings.HasPrefix(html, "<p>") && strings.HasSuffix(html, "</p>") && strings.Count(html, "<p>") == 1 {
		html = strings.TrimSuffix(strings.TrimPrefix(html, "<p>"), "</p>")
	}
	return template.HTML(html)
}

func mdToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// TopicLimit bounds the topic shown in a history label.
const TopicLimit = 60

// HistoryLabel is the Result summary with the topic cut to TopicLimit runes.
func HistoryLabel(r generator.Result) string {
	r.Topic = Digest(r.Topic, TopicLimit)
	return r.Summary()
}

// Digest collapses whitespace and cuts s to at most limit runes, adding an
// ellipsis when it had to cut.
func Digest(s string, limit int) string {
	joined := strings.Join(strings.Fields(s), " ")
	r := []rune(joined)
	if limit <= 0 || len(r) <= limit {
		return joined
	}
	return string(r[:limit]) + "…"
}
