package social

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// FeedbackTTL is how long a view shows a feedback line before clearing it.
const FeedbackTTL = 2 * time.Second

const publishTimeout = 10 * time.Second

// Dispatcher runs Publisher calls in the background and reports the outcome as a
// short line of text through notify.
type Dispatcher struct {
	pub    Publisher
	log    *slog.Logger
	notify func(string)
	wg     sync.WaitGroup
}

// NewDispatcher returns a dispatcher for pub. pub may be nil when reactions are disabled.
func NewDispatcher(pub Publisher, log *slog.Logger, notify func(string)) *Dispatcher {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if notify == nil {
		notify = func(string) {}
	}
	return &Dispatcher{pub: pub, log: log, notify: notify}
}

// Like reacts to the article.
func (d *Dispatcher) Like(ref string) {
	d.run("Liked!", "Failed to react", func(ctx context.Context) error {
		return d.pub.React(ctx, ref, "+")
	})
}

// Comment posts text on the article. Blank text is ignored.
func (d *Dispatcher) Comment(ref, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	d.run("Comment posted!", "Failed to comment", func(ctx context.Context) error {
		return d.pub.Comment(ctx, ref, text)
	})
}

// Wait blocks until every dispatched call has reported.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) run(ok, failed string, call func(context.Context) error) {
	if d.pub == nil {
		d.notify("Reactions unavailable")
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := call(ctx); err != nil {
			d.log.Warn("social publish failed", "action", failed, "error", err)
			d.notify(failed)
			return
		}
		d.notify(ok)
	}()
}
