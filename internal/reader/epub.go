package reader

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/taylorskalyo/goreader/epub"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// EPUBFormat implements Format for EPUB files.
type EPUBFormat struct{}

func init() {
	Register(&EPUBFormat{})
}

func (f *EPUBFormat) Name() string         { return "EPUB" }
func (f *EPUBFormat) Extensions() []string { return []string{".epub"} }

// Extract reads every spine document as one section, titled from the NCX table of
// contents when the book has one.
func (f *EPUBFormat) Extract(filename string) (Article, error) {
	rc, err := epub.OpenReader(filename)
	if err != nil {
		return Article{}, fmt.Errorf("failed to open epub: %w", err)
	}
	defer rc.Close()

	if len(rc.Rootfiles) == 0 {
		return Article{}, fmt.Errorf("no rootfiles found in epub: %w", ErrUnsupported)
	}

	book := rc.Rootfiles[0]
	nav := buildNavIndex(filename, book)

	var sections []Section
	for i, ref := range book.Spine.Itemrefs {
		if ref.Item == nil {
			continue
		}
		r, err := ref.Item.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			continue
		}

		s := Section{
			Title:    fmt.Sprintf("Section %d", i+1),
			Markdown: htmlToMarkdown(string(data), path.Dir(ref.Item.HREF)),
		}
		if e, ok := nav.lookup(ref.Item.HREF); ok {
			s.Title = e.title
			s.Level = e.level
		}
		sections = append(sections, s)
	}

	ref, err := FileRef(filename)
	if err != nil {
		return Article{}, err
	}
	title := strings.TrimSpace(book.Metadata.Title)
	if title == "" {
		title = baseTitle(filename)
	}
	return Article{Ref: ref, Title: title, Sections: sections}, nil
}

var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Li: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Blockquote: true, atom.Section: true, atom.Tr: true, atom.Hr: true,
}

// htmlToMarkdown flattens an XHTML document into paragraphs of text, turning <img>
// into markdown image syntax so images survive tokenizing. Relative image sources
// are resolved against dir, the document's directory inside the archive.
func htmlToMarkdown(s, dir string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return ""
	}

	var out strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				out.WriteString(t)
				out.WriteString(" ")
			}
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Head, atom.Script, atom.Style:
				return
			case atom.Img:
				if src := attr(n, "src"); src != "" {
					fmt.Fprintf(&out, "\n\n![%s](%s)\n\n", attr(n, "alt"), resolveHref(dir, src))
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockElements[n.DataAtom] {
			out.WriteString("\n\n")
		}
	}
	walk(doc)
	return strings.TrimSpace(out.String())
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func resolveHref(dir, src string) string {
	if strings.Contains(src, "://") || strings.HasPrefix(src, "data:") || strings.HasPrefix(src, "/") {
		return src
	}
	if dir == "" || dir == "." {
		return path.Clean(src)
	}
	return path.Join(dir, src)
}
