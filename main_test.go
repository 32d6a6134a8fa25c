//go:build !gui

package main

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/metcalfc/skim/internal/playback"
	"github.com/metcalfc/skim/internal/reader"
	"github.com/metcalfc/skim/internal/social"
)

type queuedTimer struct {
	f       func()
	stopped bool
}

func (t *queuedTimer) Stop() bool {
	was := t.stopped
	t.stopped = true
	return !was
}

// queueClock holds timer callbacks until a test delivers them as fireMsg.
type queueClock struct {
	timers []*queuedTimer
}

func (c *queueClock) AfterFunc(_ time.Duration, f func()) playback.Timer {
	t := &queuedTimer{f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *queueClock) pending() func() {
	for i := len(c.timers) - 1; i >= 0; i-- {
		if !c.timers[i].stopped {
			t := c.timers[i]
			t.stopped = true
			return t.f
		}
	}
	return nil
}

type recordingPublisher struct {
	mu        sync.Mutex
	reactions []string
	comments  []string
}

func (p *recordingPublisher) React(_ context.Context, ref, content string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reactions = append(p.reactions, ref+":"+content)
	return nil
}

func (p *recordingPublisher) Comment(_ context.Context, ref, text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.comments = append(p.comments, ref+":"+text)
	return nil
}

func newTestModel(t *testing.T, text string, d deps) (model, *queueClock) {
	t.Helper()
	clock := &queueClock{}
	d.clock = clock
	if d.scrubCells == 0 {
		d.scrubCells = 2
	}
	return newModel(reader.FromText("Test Article", text), 300, d), clock
}

func press(m model, k tea.KeyMsg) (model, tea.Cmd) {
	next, cmd := m.Update(k)
	return next.(model), cmd
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

var space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}

// fireAll delivers pending timer callbacks through Update until none remain.
func fireAll(m model, clock *queueClock) model {
	for f := clock.pending(); f != nil; f = clock.pending() {
		next, _ := m.Update(fireMsg(f))
		m = next.(model)
	}
	return m
}

func TestToggleKey(t *testing.T) {
	m, _ := newTestModel(t, "one two three four", deps{})

	m, _ = press(m, space)
	if s := m.player.Snapshot(); s.Mode != playback.Playing || s.Index != 0 {
		t.Fatalf("after space: %s@%d, want playing@0", s.Mode, s.Index)
	}

	m, _ = press(m, space)
	if s := m.player.Snapshot(); s.Mode != playback.Paused {
		t.Fatalf("after second space: %s, want paused", s.Mode)
	}
}

func TestTimerDeliveredThroughUpdate(t *testing.T) {
	m, clock := newTestModel(t, "one two three", deps{})
	m, _ = press(m, space)

	f := clock.pending()
	if f == nil {
		t.Fatal("expected a pending timer after starting")
	}
	next, _ := m.Update(fireMsg(f))
	m = next.(model)

	if got := m.player.Snapshot().Index; got != 1 {
		t.Errorf("index after fire = %d, want 1", got)
	}
}

func TestWPMKeys(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
		want int
	}{
		{"up", tea.KeyMsg{Type: tea.KeyUp}, 325},
		{"down", tea.KeyMsg{Type: tea.KeyDown}, 275},
		{"plus", keyRune('+'), 350},
		{"equals", keyRune('='), 350},
		{"minus", keyRune('-'), 250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestModel(t, "one two three", deps{})
			m, _ = press(m, tt.key)
			if got := m.player.Snapshot().WPM; got != tt.want {
				t.Errorf("WPM = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWPMKeysClamp(t *testing.T) {
	m, _ := newTestModel(t, "one two", deps{})
	for i := 0; i < 40; i++ {
		m, _ = press(m, tea.KeyMsg{Type: tea.KeyUp})
	}
	if got := m.player.Snapshot().WPM; got != playback.MaxWPM {
		t.Errorf("WPM = %d, want %d", got, playback.MaxWPM)
	}
	for i := 0; i < 40; i++ {
		m, _ = press(m, keyRune('-'))
	}
	if got := m.player.Snapshot().WPM; got != playback.MinWPM {
		t.Errorf("WPM = %d, want %d", got, playback.MinWPM)
	}
}

func TestSeekKeys(t *testing.T) {
	text := strings.Repeat("word ", 30)

	t.Run("right moves ahead with hint", func(t *testing.T) {
		m, _ := newTestModel(t, text, deps{})
		m, cmd := press(m, tea.KeyMsg{Type: tea.KeyRight})
		if got := m.player.Snapshot().Index; got != 5 {
			t.Errorf("index = %d, want 5", got)
		}
		if m.hint != "5 words →" {
			t.Errorf("hint = %q", m.hint)
		}
		if cmd == nil {
			t.Error("expected a hint expiry command")
		}
	})

	t.Run("shift right moves ten", func(t *testing.T) {
		m, _ := newTestModel(t, text, deps{})
		m, _ = press(m, tea.KeyMsg{Type: tea.KeyShiftRight})
		if got := m.player.Snapshot().Index; got != 10 {
			t.Errorf("index = %d, want 10", got)
		}
	})

	t.Run("left at start is silent", func(t *testing.T) {
		m, _ := newTestModel(t, text, deps{})
		m, cmd := press(m, tea.KeyMsg{Type: tea.KeyLeft})
		if got := m.player.Snapshot().Index; got != 0 {
			t.Errorf("index = %d, want 0", got)
		}
		if m.hint != "" || cmd != nil {
			t.Errorf("hint = %q, cmd = %v; want none", m.hint, cmd)
		}
	})

	t.Run("left clamps and reports actual distance", func(t *testing.T) {
		m, _ := newTestModel(t, text, deps{})
		m.player.SeekTo(3)
		m, _ = press(m, tea.KeyMsg{Type: tea.KeyLeft})
		if got := m.player.Snapshot().Index; got != 0 {
			t.Errorf("index = %d, want 0", got)
		}
		if m.hint != "← 3 words" {
			t.Errorf("hint = %q", m.hint)
		}
	})

	t.Run("seek onto image shows it", func(t *testing.T) {
		m, _ := newTestModel(t, "a b c d e ![p](http://example.com/p.png) f", deps{})
		m, _ = press(m, space)
		m, _ = press(m, tea.KeyMsg{Type: tea.KeyRight})
		if s := m.player.Snapshot(); s.Mode != playback.ShowingImage || s.Index != 5 {
			t.Fatalf("state = %s@%d, want image@5", s.Mode, s.Index)
		}
		if view := m.View(); !strings.Contains(view, "http://example.com/p.png") {
			t.Errorf("view missing image URL:\n%s", view)
		}
	})

	t.Run("seek while playing pauses", func(t *testing.T) {
		m, _ := newTestModel(t, text, deps{})
		m, _ = press(m, space)
		m, _ = press(m, tea.KeyMsg{Type: tea.KeyRight})
		if s := m.player.Snapshot(); s.Mode != playback.Paused || s.Index != 5 {
			t.Errorf("state = %s@%d, want paused@5", s.Mode, s.Index)
		}
	})
}

func TestSentenceKeys(t *testing.T) {
	m, _ := newTestModel(t, "One two. Three four. Five six.", deps{})

	m, _ = press(m, keyRune(')'))
	if got := m.player.Snapshot().Index; got != 2 {
		t.Errorf("next sentence index = %d, want 2", got)
	}
	m, _ = press(m, keyRune(')'))
	if got := m.player.Snapshot().Index; got != 4 {
		t.Errorf("next sentence index = %d, want 4", got)
	}
	m, _ = press(m, keyRune('('))
	if got := m.player.Snapshot().Index; got != 2 {
		t.Errorf("prev sentence index = %d, want 2", got)
	}
}

func TestHintExpiry(t *testing.T) {
	m, _ := newTestModel(t, strings.Repeat("word ", 20), deps{})
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRight})
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRight})

	next, _ := m.Update(hintExpiredMsg(m.hintID - 1))
	m = next.(model)
	if m.hint == "" {
		t.Error("stale expiry cleared the current hint")
	}

	next, _ = m.Update(hintExpiredMsg(m.hintID))
	m = next.(model)
	if m.hint != "" {
		t.Errorf("hint = %q after expiry", m.hint)
	}
}

func TestImageSkip(t *testing.T) {
	m, clock := newTestModel(t, "before ![pic](http://example.com/a.png) after", deps{})
	m, _ = press(m, space)
	m = fireAll(m, clock)

	s := m.player.Snapshot()
	if s.Mode != playback.ShowingImage {
		t.Fatalf("mode = %s, want image", s.Mode)
	}
	if view := m.View(); !strings.Contains(view, "http://example.com/a.png") {
		t.Errorf("image view missing URL:\n%s", view)
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if s := m.player.Snapshot(); s.Mode != playback.Playing || s.Index != 2 {
		t.Errorf("after skip: %s@%d, want playing@2", s.Mode, s.Index)
	}
}

func TestMouseGesture(t *testing.T) {
	m, _ := newTestModel(t, strings.Repeat("word ", 20), deps{scrubCells: 2})

	next, _ := m.Update(tea.MouseMsg{X: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = next.(model)
	if s := m.player.Snapshot(); s.Mode != playback.Playing {
		t.Fatalf("mode after press = %s, want playing", s.Mode)
	}

	next, _ = m.Update(tea.MouseMsg{X: 14, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m = next.(model)
	if got := m.gesture.Direction(); got != playback.ScrubForward {
		t.Errorf("direction = %v, want forward", got)
	}
	if got := m.player.Snapshot().Index; got != 2 {
		t.Errorf("index after drag = %d, want 2", got)
	}

	next, _ = m.Update(tea.MouseMsg{X: 14, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	m = next.(model)
	if m.gesture.Active() {
		t.Error("gesture still active after release")
	}
	if s := m.player.Snapshot(); s.Mode != playback.Paused {
		t.Errorf("mode after release = %s, want paused", s.Mode)
	}
}

func TestRestartKey(t *testing.T) {
	m, clock := newTestModel(t, "one two", deps{})
	m, _ = press(m, space)
	m = fireAll(m, clock)
	if s := m.player.Snapshot(); s.Mode != playback.Finished {
		t.Fatalf("mode = %s, want finished", s.Mode)
	}

	m, _ = press(m, keyRune('r'))
	if s := m.player.Snapshot(); s.Mode != playback.Idle || s.Index != 0 {
		t.Errorf("after restart: %s@%d, want idle@0", s.Mode, s.Index)
	}
}

func TestFinishedLikeWithoutJournal(t *testing.T) {
	var got []string
	d := deps{social: social.NewDispatcher(nil, nil, func(s string) { got = append(got, s) })}
	m, clock := newTestModel(t, "one", d)
	m, _ = press(m, space)
	m = fireAll(m, clock)

	m, _ = press(m, keyRune('l'))
	if len(got) != 1 || got[0] != "Reactions unavailable" {
		t.Errorf("feedback = %v", got)
	}
}

func TestFinishedLikeAndComment(t *testing.T) {
	pub := &recordingPublisher{}
	dispatcher := social.NewDispatcher(pub, nil, nil)
	m, clock := newTestModel(t, "one two", deps{social: dispatcher})
	m, _ = press(m, space)
	m = fireAll(m, clock)

	m, _ = press(m, keyRune('l'))
	m, _ = press(m, keyRune('c'))
	if !m.commenting {
		t.Fatal("expected comment input after c")
	}
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("great read")})
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.commenting {
		t.Error("still commenting after enter")
	}
	dispatcher.Wait()

	ref := m.article.Ref
	if len(pub.reactions) != 1 || pub.reactions[0] != ref+":+" {
		t.Errorf("reactions = %v", pub.reactions)
	}
	if len(pub.comments) != 1 || pub.comments[0] != ref+":great read" {
		t.Errorf("comments = %v", pub.comments)
	}
}

func TestCommentEscapeDiscards(t *testing.T) {
	pub := &recordingPublisher{}
	dispatcher := social.NewDispatcher(pub, nil, nil)
	m, clock := newTestModel(t, "one", deps{social: dispatcher})
	m, _ = press(m, space)
	m = fireAll(m, clock)

	m, _ = press(m, keyRune('c'))
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("nope")})
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	dispatcher.Wait()

	if m.commenting {
		t.Error("still commenting after esc")
	}
	if len(pub.comments) != 0 {
		t.Errorf("comments = %v, want none", pub.comments)
	}
}

func TestFeedbackExpiry(t *testing.T) {
	m, _ := newTestModel(t, "one", deps{})

	next, cmd := m.Update(feedbackMsg("Liked!"))
	m = next.(model)
	if m.feedback != "Liked!" || cmd == nil {
		t.Fatalf("feedback = %q, cmd = %v", m.feedback, cmd)
	}

	next, _ = m.Update(feedbackExpiredMsg(m.feedbackID))
	m = next.(model)
	if m.feedback != "" {
		t.Errorf("feedback = %q after expiry", m.feedback)
	}
}

func TestView(t *testing.T) {
	t.Run("idle shows title", func(t *testing.T) {
		m, _ := newTestModel(t, "one two", deps{})
		if view := m.View(); !strings.Contains(view, "Test Article") {
			t.Errorf("idle view missing title:\n%s", view)
		}
	})

	t.Run("playing shows status", func(t *testing.T) {
		m, _ := newTestModel(t, "one two three", deps{})
		m, _ = press(m, space)
		view := m.View()
		if !strings.Contains(view, "Word 1/3") {
			t.Errorf("view missing position:\n%s", view)
		}
		if !strings.Contains(view, "300 WPM") {
			t.Errorf("view missing WPM:\n%s", view)
		}
	})

	t.Run("paused shows indicator", func(t *testing.T) {
		m, _ := newTestModel(t, "one two three", deps{})
		m, _ = press(m, space)
		m, _ = press(m, space)
		if view := m.View(); !strings.Contains(view, "PAUSED") {
			t.Errorf("view missing paused indicator:\n%s", view)
		}
	})

	t.Run("finished", func(t *testing.T) {
		m, clock := newTestModel(t, "one", deps{})
		m, _ = press(m, space)
		m = fireAll(m, clock)
		if view := m.View(); !strings.Contains(view, "Finished") {
			t.Errorf("view missing finished banner:\n%s", view)
		}
	})

	t.Run("empty article finishes", func(t *testing.T) {
		m, _ := newTestModel(t, "", deps{})
		m, _ = press(m, space)
		if s := m.player.Snapshot(); s.Mode != playback.Finished {
			t.Errorf("mode = %s, want finished", s.Mode)
		}
	})
}

func TestFormatWord(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"single char", "a"},
		{"short word", "the"},
		{"medium word", "reading"},
		{"long word", "internationalization"},
		{"multibyte", "naïve"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatWord(tt.input)
			for _, r := range tt.input {
				if !strings.ContainsRune(result, r) {
					t.Errorf("formatWord(%q) = %q, missing %q", tt.input, result, r)
				}
			}
		})
	}
}

func TestAnchorORPText(t *testing.T) {
	tests := []struct {
		word  string
		width int
		pad   int
	}{
		{"a", 80, 40},
		{"hello", 80, 39},
		{"reading", 80, 38},
		{"internationalization", 80, 36},
		{"hello", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			got := anchorORPText(tt.word, tt.word, tt.width)
			if pad := len(got) - len(strings.TrimLeft(got, " ")); pad != tt.pad {
				t.Errorf("pad = %d, want %d", pad, tt.pad)
			}
		})
	}
}

func BenchmarkFormatWord(b *testing.B) {
	for i := 0; i < b.N; i++ {
		formatWord("internationalization")
	}
}
