// Package playback drives RSVP playback: which item is on screen, for how long, and
// how play, pause, seek, image stops and speed changes interact.
package playback

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/metcalfc/skim/internal/reader"
)

const (
	MinWPM     = 100
	MaxWPM     = 1000
	WPMStep    = 25
	DefaultWPM = 300
)

// ClampWPM keeps wpm within [MinWPM, MaxWPM] and snaps it to the nearest step.
func ClampWPM(wpm int) int {
	wpm = min(max(wpm, MinWPM), MaxWPM)
	return MinWPM + int(math.Round(float64(wpm-MinWPM)/WPMStep))*WPMStep
}

// Options configures a Player.
type Options struct {
	WPM        int
	SeekPolicy SeekPolicy
	Clock      Clock
	Logger     *slog.Logger

	// OnChange is called after every operation that changed the snapshot,
	// outside the player's lock.
	OnChange func(Snapshot)
}

// Player is the playback state machine for one article. All methods are safe to
// call from any goroutine; they are serialized internally. Operations that do not
// apply to the current mode are no-ops.
type Player struct {
	mu       sync.Mutex
	items    []reader.Item
	index    int
	mode     Mode
	wpm      int
	policy   SeekPolicy
	clock    Clock
	timer    Timer
	gen      uint64
	log      *slog.Logger
	onChange func(Snapshot)
}

// New creates an idle player with no items.
func New(opts Options) *Player {
	p := &Player{
		mode:     Idle,
		wpm:      DefaultWPM,
		policy:   opts.SeekPolicy,
		clock:    opts.Clock,
		log:      opts.Logger,
		onChange: opts.OnChange,
	}
	if opts.WPM != 0 {
		p.wpm = ClampWPM(opts.WPM)
	}
	if p.policy == "" {
		p.policy = SeekPause
	}
	if p.clock == nil {
		p.clock = SystemClock{}
	}
	if p.log == nil {
		p.log = slog.New(slog.DiscardHandler)
	}
	return p
}

// Load replaces the article being read and returns to Idle at the first item.
func (p *Player) Load(items []reader.Item) {
	p.update(func() bool {
		p.cancel()
		p.items = items
		p.index = 0
		p.setMode(Idle)
		return true
	})
}

// Start begins playback from Idle at the current item, or resumes from Paused
// with the item after the one on screen.
func (p *Player) Start() {
	p.update(p.start)
}

// Resume is Start under the name the paused state suggests.
func (p *Player) Resume() { p.Start() }

// Pause stops a playing reader with the current item left on screen.
func (p *Player) Pause() {
	p.update(p.pause)
}

// Toggle pauses a playing reader and starts or resumes any other.
func (p *Player) Toggle() {
	p.update(func() bool {
		if p.mode == Playing {
			return p.pause()
		}
		return p.start()
	})
}

func (p *Player) start() bool {
	switch p.mode {
	case Idle:
		if len(p.items) == 0 {
			p.finish()
			return true
		}
		p.setMode(Playing)
		p.show(p.index)
		return true
	case Paused:
		p.setMode(Playing)
		p.show(p.index + 1)
		return true
	}
	return false
}

func (p *Player) pause() bool {
	if p.mode != Playing {
		return false
	}
	p.cancel()
	p.setMode(Paused)
	return true
}

// SkipImage continues past the image playback is parked on.
func (p *Player) SkipImage() {
	p.update(func() bool {
		if p.mode != ShowingImage {
			return false
		}
		p.setMode(Playing)
		p.show(p.index + 1)
		return true
	})
}

// SeekBy moves delta items, clamped to the article. A playing reader follows the
// seek policy, except that landing on an image parks there. Seeking is ignored on
// an image and after the end.
func (p *Player) SeekBy(delta int) {
	p.update(func() bool {
		return p.seekTo(p.index + delta)
	})
}

// SeekTo moves to an absolute item index with SeekBy semantics.
func (p *Player) SeekTo(index int) {
	p.update(func() bool {
		return p.seekTo(index)
	})
}

func (p *Player) seekTo(target int) bool {
	if p.mode == ShowingImage || p.mode == Finished || len(p.items) == 0 {
		return false
	}
	p.cancel()
	target = min(max(target, 0), len(p.items)-1)
	moved := target != p.index
	p.index = target

	if p.mode == Idle {
		return moved
	}
	// an image is a mandatory stop whatever the seek policy
	if p.items[target].IsImage() {
		p.setMode(ShowingImage)
		return true
	}
	if p.mode != Playing {
		return moved
	}
	if p.policy == SeekResume {
		p.show(target)
	} else {
		p.setMode(Paused)
	}
	return true
}

// SetWPM changes the reading rate. A playing reader restarts the current word's
// timer at the new rate; other modes pick the rate up on their next scheduled word.
func (p *Player) SetWPM(wpm int) {
	p.update(func() bool {
		wpm = ClampWPM(wpm)
		if wpm == p.wpm {
			return false
		}
		p.wpm = wpm
		if p.mode == Playing {
			p.schedule(reader.WordDuration(p.items[p.index].Text(), p.wpm))
		}
		return true
	})
}

// Reset returns to Idle at the first item.
func (p *Player) Reset() {
	p.update(func() bool {
		p.cancel()
		p.index = 0
		p.setMode(Idle)
		return true
	})
}

// Snapshot returns the state a view needs to render.
func (p *Player) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot()
}

// Items returns the loaded items. Callers must not modify the slice.
func (p *Player) Items() []reader.Item {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.items
}

// Remaining estimates the reading time of the words after the current item.
func (p *Player) Remaining() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	var d time.Duration
	for i := p.index + 1; i < len(p.items); i++ {
		if p.items[i].IsWord() {
			d += reader.WordDuration(p.items[i].Text(), p.wpm)
		}
	}
	return d
}

// advance is the timer callback. A callback whose schedule was superseded or
// cancelled, or that fires outside Playing, does nothing.
func (p *Player) advance(gen uint64) {
	p.update(func() bool {
		if gen != p.gen || p.mode != Playing {
			return false
		}
		p.timer = nil
		p.show(p.index + 1)
		return true
	})
}

// show puts item i on screen while Playing: a word gets a timer for its duration,
// an image parks playback, and running off the end finishes.
func (p *Player) show(i int) {
	p.cancel()
	if i >= len(p.items) {
		p.finish()
		return
	}
	p.index = i
	if p.items[i].IsImage() {
		p.setMode(ShowingImage)
		return
	}
	p.schedule(reader.WordDuration(p.items[i].Text(), p.wpm))
}

func (p *Player) finish() {
	p.cancel()
	p.index = len(p.items)
	p.setMode(Finished)
}

func (p *Player) schedule(d time.Duration) {
	p.cancel()
	gen := p.gen
	p.timer = p.clock.AfterFunc(d, func() { p.advance(gen) })
}

// cancel stops the pending timer and invalidates any callback already in flight.
func (p *Player) cancel() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.gen++
}

func (p *Player) setMode(m Mode) {
	if p.mode == m {
		return
	}
	p.log.Debug("playback mode", "from", p.mode, "to", m, "index", p.index, "total", len(p.items))
	p.mode = m
}

func (p *Player) update(fn func() bool) {
	p.mu.Lock()
	changed := fn()
	snap := p.snapshot()
	onChange := p.onChange
	p.mu.Unlock()

	if changed && onChange != nil {
		onChange(snap)
	}
}

func (p *Player) snapshot() Snapshot {
	s := Snapshot{
		Mode:  p.mode,
		Index: p.index,
		Total: len(p.items),
		WPM:   p.wpm,
	}
	if p.index < len(p.items) {
		s.Item = p.items[p.index]
		s.HasItem = true
	}
	return s
}
