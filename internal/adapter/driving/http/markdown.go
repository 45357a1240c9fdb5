package httphandler

import (
	"bytes"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

var (
	mdRenderer     goldmark.Markdown
	htmlSanitizer  *bluemonday.Policy
	labelSanitizer *bluemonday.Policy
)

func init() {
	mdRenderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)

	htmlSanitizer = bluemonday.UGCPolicy()
	labelSanitizer = bluemonday.StrictPolicy()
}

// RenderMarkdown converts a markdown string to sanitized HTML.
// Returns empty string for empty input.
func RenderMarkdown(src string) string {
	if src == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(src), &buf); err != nil {
		return htmlSanitizer.Sanitize(src)
	}

	return htmlSanitizer.Sanitize(buf.String())
}

// maxLabelPasses bounds the strip/unescape rounds for nested entity encoding.
const maxLabelPasses = 8

// SanitizeLabel strips all markup from a user-supplied display name and
// returns plain text. Entity-encoded markup is decoded and stripped again
// until the text no longer changes.
func SanitizeLabel(s string) string {
	text := s
	for range maxLabelPasses {
		next := html.UnescapeString(labelSanitizer.Sanitize(text))
		if next == text {
			return strings.TrimSpace(text)
		}
		text = next
	}
	// Still decoding after the last pass: keep the escaped form.
	return strings.TrimSpace(labelSanitizer.Sanitize(text))
}
