package playback

import "github.com/metcalfc/skim/internal/reader"

// Snapshot is the player state a view reads each frame.
type Snapshot struct {
	Mode  Mode
	Index int
	Total int
	WPM   int

	// Item is the item on screen; HasItem is false when there is none
	// (an empty article, or after the end).
	Item    reader.Item
	HasItem bool
}

// Progress returns the percentage of items reached, in [0, 100].
func (s Snapshot) Progress() float64 {
	if s.Total == 0 {
		return 0
	}
	pct := float64(s.Index+1) / float64(s.Total) * 100
	return min(max(pct, 0), 100)
}

// Word returns the word on screen, or "" when the current item is not a word.
func (s Snapshot) Word() string {
	if !s.HasItem {
		return ""
	}
	return s.Item.Text()
}

// ImageURL returns the image playback is parked on, or "".
func (s Snapshot) ImageURL() string {
	if s.Mode != ShowingImage || !s.HasItem {
		return ""
	}
	return s.Item.URL()
}

// Position returns the 1-based item number for display, capped at Total.
func (s Snapshot) Position() int {
	return min(s.Index+1, s.Total)
}
