package playback

// Direction is which way a drag is scrubbing.
type Direction int

const (
	ScrubNone Direction = iota
	ScrubBack
	ScrubForward
)

// Gesture implements hold-to-read: pressing starts playback, dragging sideways
// scrubs one item per threshold of displacement, and releasing pauses.
type Gesture struct {
	player    *Player
	threshold float64

	active    bool
	originX   float64
	applied   int
	direction Direction
}

// NewGesture binds a gesture to p. threshold is the pointer distance per item.
func NewGesture(p *Player, threshold float64) *Gesture {
	if threshold <= 0 {
		threshold = 1
	}
	return &Gesture{player: p, threshold: threshold}
}

// Press begins a hold at x. Presses are ignored while an image is shown.
func (g *Gesture) Press(x float64) {
	if g.player.Snapshot().Mode == ShowingImage {
		return
	}
	g.active = true
	g.originX = x
	g.applied = 0
	g.direction = ScrubNone
	g.player.Start()
}

// Drag scrubs to match the displacement from the press point.
func (g *Gesture) Drag(x float64) {
	if !g.active {
		return
	}
	dx := x - g.originX
	steps := int(dx / g.threshold)
	switch {
	case steps < 0:
		g.direction = ScrubBack
	case steps > 0:
		g.direction = ScrubForward
	}
	if steps == g.applied {
		return
	}
	g.player.SeekBy(steps - g.applied)
	g.applied = steps
}

// Release ends the hold and pauses playback.
func (g *Gesture) Release() {
	if !g.active {
		return
	}
	g.active = false
	g.direction = ScrubNone
	g.player.Pause()
}

// Active reports whether a hold is in progress.
func (g *Gesture) Active() bool { return g.active }

// Direction reports the current scrub direction, ScrubNone when not scrubbing.
func (g *Gesture) Direction() Direction { return g.direction }
