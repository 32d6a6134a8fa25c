package reader

import (
	"bytes"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownFormat implements Format for Markdown files.
type MarkdownFormat struct{}

func init() {
	Register(&MarkdownFormat{})
}

func (f *MarkdownFormat) Name() string         { return "Markdown" }
func (f *MarkdownFormat) Extensions() []string { return []string{".md", ".markdown"} }

func (f *MarkdownFormat) Extract(filename string) (Article, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Article{}, err
	}
	a := ParseMarkdown(baseTitle(filename), data)
	a.Ref = TextRef(string(data))
	return a, nil
}

type heading struct {
	offset int
	level  int
	title  string
}

// ParseMarkdown splits a markdown document into sections at its headings. The article
// title is the first level-1 heading, else the first heading, else fallback.
func ParseMarkdown(fallback string, src []byte) Article {
	headings := findHeadings(src)

	title := ""
	for _, h := range headings {
		if h.level == 0 {
			title = h.title
			break
		}
	}
	if title == "" && len(headings) > 0 {
		title = headings[0].title
	}
	if title == "" {
		title = fallback
	}

	var sections []Section
	if len(headings) == 0 || headings[0].offset > 0 {
		end := len(src)
		if len(headings) > 0 {
			end = headings[0].offset
		}
		if pre := strings.TrimSpace(string(src[:end])); pre != "" {
			sections = append(sections, Section{Title: title, Markdown: pre})
		}
	}
	for i, h := range headings {
		end := len(src)
		if i+1 < len(headings) {
			end = headings[i+1].offset
		}
		sections = append(sections, Section{
			Title:    h.title,
			Level:    h.level,
			Markdown: string(src[h.offset:end]),
		})
	}

	return Article{Ref: TextRef(string(src)), Title: title, Sections: sections}
}

// findHeadings locates headings with goldmark so that '#' lines inside code
// fences are not mistaken for chapters.
func findHeadings(src []byte) []heading {
	doc := goldmark.DefaultParser().Parse(text.NewReader(src))

	var out []heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if h.Lines().Len() == 0 {
			return ast.WalkSkipChildren, nil
		}
		title := strings.TrimSpace(nodeText(h, src))
		if title == "" {
			return ast.WalkSkipChildren, nil
		}
		start := h.Lines().At(0).Start
		lineStart := bytes.LastIndexByte(src[:start], '\n') + 1
		out = append(out, heading{
			offset: lineStart,
			level:  h.Level - 1, // h1 = level 0, h2 = level 1, etc.
			title:  title,
		})
		return ast.WalkSkipChildren, nil
	})
	return out
}

func nodeText(n ast.Node, src []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}
