// Package reader provides core RSVP (Rapid Serial Visual Presentation) speed reading logic:
// turning markdown into playback items and deciding how long each item stays on screen.
package reader

import (
	"time"
	"unicode/utf8"
)

// PivotIndex returns the Optimal Recognition Point index for a word.
// This is the character (rune) position where the eye should focus for fastest recognition.
func PivotIndex(word string) int {
	length := utf8.RuneCountInString(word)
	switch {
	case length <= 1:
		return 0
	case length <= 5:
		return 1
	case length <= 9:
		return 2
	case length <= 13:
		return 3
	}
	return 4
}

// DelayMultiplier scales the base word duration by the word's trailing punctuation.
// Only the last character is inspected; punctuation beats length.
func DelayMultiplier(word string) float64 {
	last, _ := utf8.DecodeLastRuneInString(word)
	switch last {
	case '.', '!', '?':
		return 2.5
	case ',', ';', ':':
		return 1.6
	case '-', '–', '—':
		return 1.3
	}
	if utf8.RuneCountInString(word) > 10 {
		return 1.2
	}
	return 1.0
}

// BaseDelay returns the display time of a plain word at wpm.
func BaseDelay(wpm int) time.Duration {
	if wpm <= 0 {
		return 0
	}
	return time.Duration(60000.0 / float64(wpm) * float64(time.Millisecond))
}

// WordDuration returns how long word stays on screen at wpm.
func WordDuration(word string, wpm int) time.Duration {
	return time.Duration(float64(BaseDelay(wpm)) * DelayMultiplier(word))
}

// SplitWord cuts a word into the text before the pivot, the pivot letter, and the rest.
func SplitWord(word string) (before, pivot, after string) {
	runes := []rune(word)
	if len(runes) == 0 {
		return "", "", ""
	}
	orp := PivotIndex(word)
	if orp >= len(runes) {
		orp = len(runes) - 1
	}
	return string(runes[:orp]), string(runes[orp]), string(runes[orp+1:])
}
