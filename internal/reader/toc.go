package reader

// Section is a titled slice of an article's markdown, such as an EPUB spine document
// or the text under a markdown heading.
type Section struct {
	Title    string
	Level    int
	Markdown string
}

// Chapter is a section's range in the item sequence.
type Chapter struct {
	Title   string
	Level   int
	Start   int
	End     int
	Preview string
}

// ChapterAt returns the index of the chapter containing item index, or -1.
func ChapterAt(chapters []Chapter, index int) int {
	for i := len(chapters) - 1; i >= 0; i-- {
		if index >= chapters[i].Start {
			return i
		}
	}
	return -1
}

// PrevChapter returns the start of the chapter before the one containing index.
// Inside a chapter's body it returns that chapter's own start first.
func PrevChapter(chapters []Chapter, index int) int {
	for i := len(chapters) - 1; i >= 0; i-- {
		if chapters[i].Start < index {
			return chapters[i].Start
		}
	}
	return 0
}

// NextChapter returns the start of the chapter after index, or index when there is none.
func NextChapter(chapters []Chapter, index int) int {
	for _, c := range chapters {
		if c.Start > index {
			return c.Start
		}
	}
	return index
}
