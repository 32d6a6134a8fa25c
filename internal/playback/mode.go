package playback

import "fmt"

// Mode is the player's current state. Exactly one is active at a time.
type Mode string

const (
	// Idle means playback has not started since the article was loaded or reset
	Idle Mode = "idle"

	// Playing means a timer is pending to advance to the next item
	Playing Mode = "playing"

	// Paused means the current item stays on screen until resumed
	Paused Mode = "paused"

	// ShowingImage means playback is parked on an image until it is skipped
	ShowingImage Mode = "image"

	// Finished means every item has been shown
	Finished Mode = "finished"
)

// String returns the string representation of Mode
func (m Mode) String() string {
	return string(m)
}

// IsActive returns true while the reader is moving through items or parked on an image
func (m Mode) IsActive() bool {
	return m == Playing || m == ShowingImage
}

// IsTerminal returns true once only Reset or Load can leave the mode
func (m Mode) IsTerminal() bool {
	return m == Finished
}

// SeekPolicy decides what a seek does to a playing reader.
type SeekPolicy string

const (
	// SeekPause drops to Paused; an explicit resume continues from the new position
	SeekPause SeekPolicy = "pause"

	// SeekResume keeps playing from the new position
	SeekResume SeekPolicy = "resume"
)

// ParseSeekPolicy converts a configuration value into a SeekPolicy.
func ParseSeekPolicy(s string) (SeekPolicy, error) {
	switch SeekPolicy(s) {
	case SeekPause, SeekResume:
		return SeekPolicy(s), nil
	case "":
		return SeekPause, nil
	}
	return "", fmt.Errorf("unknown seek policy %q", s)
}
