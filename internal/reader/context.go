package reader

// DefaultContextRadius is how many words the context strip shows on each side.
const DefaultContextRadius = 6

// ContextStrip returns the words surrounding the item at index, skipping images,
// and the position of the current word within the returned slice.
// When index is an image, the strip centres on the next word.
func ContextStrip(items []Item, index, radius int) ([]string, int) {
	var words []string
	current := 0
	for i, it := range items {
		if i < index && it.IsWord() {
			current++
		}
		if it.IsWord() {
			words = append(words, it.Text())
		}
	}
	if len(words) == 0 {
		return nil, -1
	}
	if current >= len(words) {
		current = len(words) - 1
	}
	start := max(0, current-radius)
	end := min(len(words), current+radius+1)
	return words[start:end], current - start
}
