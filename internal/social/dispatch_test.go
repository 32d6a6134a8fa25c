package social

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type fakePublisher struct {
	mu       sync.Mutex
	err      error
	reacted  []string
	comments []string
}

func (f *fakePublisher) React(ctx context.Context, ref, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reacted = append(f.reacted, ref)
	return f.err
}

func (f *fakePublisher) Comment(ctx context.Context, ref, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.comments = append(f.comments, text)
	return f.err
}

type feedback struct {
	mu    sync.Mutex
	lines []string
}

func (f *feedback) notify(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lines = append(f.lines, s)
}

func TestDispatcherFeedback(t *testing.T) {
	tests := []struct {
		name string
		err  error
		do   func(d *Dispatcher)
		want string
	}{
		{"like ok", nil, func(d *Dispatcher) { d.Like("ref") }, "Liked!"},
		{"like fails", errors.New("offline"), func(d *Dispatcher) { d.Like("ref") }, "Failed to react"},
		{"comment ok", nil, func(d *Dispatcher) { d.Comment("ref", "nice") }, "Comment posted!"},
		{"comment fails", errors.New("offline"), func(d *Dispatcher) { d.Comment("ref", "nice") }, "Failed to comment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &fakePublisher{err: tt.err}
			fb := &feedback{}
			d := NewDispatcher(pub, nil, fb.notify)

			tt.do(d)
			d.Wait()

			if len(fb.lines) != 1 || fb.lines[0] != tt.want {
				t.Errorf("feedback = %v, want [%s]", fb.lines, tt.want)
			}
		})
	}
}

func TestDispatcherBlankComment(t *testing.T) {
	pub := &fakePublisher{}
	fb := &feedback{}
	d := NewDispatcher(pub, nil, fb.notify)

	d.Comment("ref", "   ")
	d.Wait()

	if len(pub.comments) != 0 || len(fb.lines) != 0 {
		t.Errorf("blank comment should be ignored: %v %v", pub.comments, fb.lines)
	}
}

func TestDispatcherWithoutPublisher(t *testing.T) {
	fb := &feedback{}
	d := NewDispatcher(nil, nil, fb.notify)
	d.Like("ref")
	d.Wait()

	if len(fb.lines) != 1 || fb.lines[0] != "Reactions unavailable" {
		t.Errorf("feedback = %v", fb.lines)
	}
}

func TestDispatcherWithJournal(t *testing.T) {
	j := openTestJournal(t)
	fb := &feedback{}
	d := NewDispatcher(j, nil, fb.notify)

	d.Like("ref")
	d.Wait()
	d.Comment("ref", "second")
	d.Wait()

	entries, err := j.List(context.Background(), "ref")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("Expected 2 entries, got %d", len(entries))
	}
}
