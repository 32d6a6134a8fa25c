package reader

import "unicode/utf8"

// SentenceStarts returns indices of words that start sentences.
func SentenceStarts(items []Item) []int {
	if len(items) == 0 {
		return nil
	}
	starts := []int{0}
	for i, it := range items {
		last, _ := utf8.DecodeLastRuneInString(it.Text())
		if last == '.' || last == '!' || last == '?' {
			if i+1 < len(items) {
				starts = append(starts, i+1)
			}
		}
	}
	return starts
}

// PrevSentence returns the start of the previous sentence.
func PrevSentence(starts []int, index int) int {
	for i := len(starts) - 1; i >= 0; i-- {
		if starts[i] < index {
			return starts[i]
		}
	}
	return 0
}

// NextSentence returns the start of the next sentence, or the last index when there is none.
func NextSentence(starts []int, index, total int) int {
	for _, s := range starts {
		if s > index {
			return s
		}
	}
	if total > 0 {
		return total - 1
	}
	return 0
}
