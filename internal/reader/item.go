package reader

// Kind discriminates the two kinds of playback item.
type Kind uint8

const (
	KindWord Kind = iota
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindWord:
		return "word"
	case KindImage:
		return "image"
	}
	return "unknown"
}

// Item is one unit of playback: a word to flash or an image that parks playback.
// Items are values and never change once produced.
type Item struct {
	Kind  Kind
	value string
}

// Word returns a word item.
func Word(text string) Item { return Item{Kind: KindWord, value: text} }

// Image returns an image item pointing at url.
func Image(url string) Item { return Item{Kind: KindImage, value: url} }

func (it Item) IsWord() bool  { return it.Kind == KindWord }
func (it Item) IsImage() bool { return it.Kind == KindImage }

// Text returns the word, or "" for an image.
func (it Item) Text() string {
	if it.Kind == KindWord {
		return it.value
	}
	return ""
}

// URL returns the image location, or "" for a word.
func (it Item) URL() string {
	if it.Kind == KindImage {
		return it.value
	}
	return ""
}

func (it Item) String() string {
	if it.Kind == KindImage {
		return "[image " + it.value + "]"
	}
	return it.value
}

// WordCount returns how many items are words.
func WordCount(items []Item) int {
	n := 0
	for _, it := range items {
		if it.IsWord() {
			n++
		}
	}
	return n
}
