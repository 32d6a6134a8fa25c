package reader

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// imageRegex matches ![alt](url "optional title")
var imageRegex = regexp.MustCompile(`!\[[^\]\n]*\]\(([^)\n]*)\)`)

// stripRule is one markdown cleanup step applied to text between images.
type stripRule struct {
	re   *regexp.Regexp
	repl string
}

var stripRules = []stripRule{
	{regexp.MustCompile(`(?m)^[ \t]*#{1,6}[ \t]+`), ""},
	// thematic breaks go before emphasis and list markers, which would otherwise eat them
	{regexp.MustCompile(`(?m)^[ \t]*(?:(?:\*[ \t]*){3,}|(?:_[ \t]*){3,}|(?:-[ \t]*){3,})$`), ""},
	{regexp.MustCompile(`\*\*([^*\n]+?)\*\*`), "$1"},
	{regexp.MustCompile(`__([^_\n]+?)__`), "$1"},
	{regexp.MustCompile(`\b_([^_\s](?:[^_\n]*?[^_\s])?)_\b`), "$1"},
	{regexp.MustCompile(`\*([^*\s](?:[^*\n]*?[^*\s])?)\*`), "$1"},
	{regexp.MustCompile("(?s)```.*?```"), ""},
	{regexp.MustCompile(`(?s)~~~.*?~~~`), ""},
	{regexp.MustCompile("`([^`\n]*)`"), "$1"},
	{regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`), "$1"},
	{regexp.MustCompile(`(?m)^(?:[ \t]*>)+[ \t]?`), ""},
	{regexp.MustCompile(`(?m)^[ \t]*[-*+][ \t]+`), ""},
	{regexp.MustCompile(`(?m)^[ \t]*\d+[.)][ \t]+`), ""},
	{regexp.MustCompile(`\n{2,}`), "\n"},
}

// CleanText strips markdown syntax from a run of text, leaving readable words.
func CleanText(s string) string {
	for _, r := range stripRules {
		s = r.re.ReplaceAllString(s, r.repl)
	}
	return strings.TrimSpace(s)
}

// ParseText splits text into words.
func ParseText(text string) []string {
	return strings.Fields(text)
}

// Tokenize converts markdown into playback items in document order.
// Images become Image items; everything else is cleaned and split into words.
func Tokenize(markdown string) []Item {
	markdown = norm.NFC.String(markdown)

	var items []Item
	last := 0
	for _, m := range imageRegex.FindAllStringSubmatchIndex(markdown, -1) {
		items = appendWords(items, markdown[last:m[0]])
		items = append(items, Image(imageURL(markdown[m[2]:m[3]])))
		last = m[1]
	}
	return appendWords(items, markdown[last:])
}

func appendWords(items []Item, part string) []Item {
	clean := CleanText(part)
	if clean == "" {
		return items
	}
	for _, w := range ParseText(clean) {
		items = append(items, Word(w))
	}
	return items
}

// imageURL drops an optional quoted title from an image destination.
func imageURL(dest string) string {
	fields := strings.Fields(dest)
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(fields[0], "<>")
}

// TokenizeSections tokenizes each section in turn and records where each one lands
// in the combined item sequence. Sections that produce no items get no chapter.
func TokenizeSections(sections []Section) ([]Item, []Chapter) {
	var items []Item
	var chapters []Chapter
	for _, s := range sections {
		part := Tokenize(s.Markdown)
		if len(part) == 0 {
			continue
		}
		start := len(items)
		items = append(items, part...)
		chapters = append(chapters, Chapter{
			Title:   s.Title,
			Level:   s.Level,
			Start:   start,
			End:     len(items) - 1,
			Preview: preview(part),
		})
	}
	return items, chapters
}

func preview(items []Item) string {
	var words []string
	for _, it := range items {
		if it.IsWord() {
			words = append(words, it.Text())
			if len(words) == 10 {
				break
			}
		}
	}
	if len(words) == 0 {
		return ""
	}
	return strings.Join(words, " ") + "..."
}
