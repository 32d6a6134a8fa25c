package reader

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/taylorskalyo/goreader/epub"
)

// NCX XML structures for parsing toc.ncx
type ncx struct {
	NavMap navMap `xml:"navMap"`
}

type navMap struct {
	NavPoints []navPoint `xml:"navPoint"`
}

type navPoint struct {
	ID        string     `xml:"id,attr"`
	PlayOrder int        `xml:"playOrder,attr"`
	Label     navLabel   `xml:"navLabel"`
	Content   navContent `xml:"content"`
	Children  []navPoint `xml:"navPoint"`
}

type navLabel struct {
	Text string `xml:"text"`
}

type navContent struct {
	Src string `xml:"src,attr"`
}

type navEntry struct {
	title string
	level int
}

// navIndex maps spine hrefs, with and without directories and fragments, to the
// first table of contents entry pointing at them.
type navIndex map[string]navEntry

func (ix navIndex) lookup(href string) (navEntry, bool) {
	if e, ok := ix[href]; ok {
		return e, true
	}
	e, ok := ix[path.Base(href)]
	return e, ok
}

func (ix navIndex) add(key string, e navEntry) {
	if _, exists := ix[key]; !exists {
		ix[key] = e
	}
}

// buildNavIndex parses the NCX; a book without one yields an empty index.
func buildNavIndex(filename string, book *epub.Rootfile) navIndex {
	ix := make(navIndex)

	ncxData, err := findAndReadNCX(filename, book)
	if err != nil {
		return ix
	}
	ix.fill(ncxData)
	return ix
}

func (ix navIndex) fill(ncxData []byte) {
	var toc ncx
	if err := xml.Unmarshal(ncxData, &toc); err != nil {
		return
	}

	var extract func(points []navPoint, level int)
	extract = func(points []navPoint, level int) {
		for _, np := range points {
			href := np.Content.Src
			e := navEntry{title: strings.TrimSpace(np.Label.Text), level: level}

			ix.add(href, e)
			if idx := strings.Index(href, "#"); idx != -1 {
				ix.add(href[:idx], e)
			}
			baseHref := path.Base(href)
			if idx := strings.Index(baseHref, "#"); idx != -1 {
				baseHref = baseHref[:idx]
			}
			ix.add(baseHref, e)

			extract(np.Children, level+1)
		}
	}
	extract(toc.NavMap.NavPoints, 0)
}

func findAndReadNCX(filename string, book *epub.Rootfile) ([]byte, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var ncxPath string
	for _, item := range book.Manifest.Items {
		if item.MediaType == "application/x-dtbncx+xml" {
			ncxPath = item.HREF
			break
		}
	}
	if ncxPath == "" {
		for _, f := range zr.File {
			if strings.HasSuffix(strings.ToLower(f.Name), ".ncx") {
				ncxPath = f.Name
				break
			}
		}
	}

	if ncxPath == "" {
		return nil, fmt.Errorf("no NCX file found in EPUB")
	}

	for _, f := range zr.File {
		if f.Name == ncxPath || strings.HasSuffix(f.Name, "/"+ncxPath) || path.Base(f.Name) == path.Base(ncxPath) {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}

	return nil, fmt.Errorf("NCX file %s not found in archive", ncxPath)
}
