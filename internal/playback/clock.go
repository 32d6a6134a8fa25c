package playback

import "time"

// Timer is a pending callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Clock schedules delayed callbacks for the player.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SystemClock runs callbacks on their own goroutine via time.AfterFunc.
type SystemClock struct{}

func (SystemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// DispatchClock returns a Clock that hands each fired callback to dispatch instead of
// running it directly, so timer ticks join the same event loop as user input.
// bubbletea's Program.Send and fyne.Do both fit.
func DispatchClock(dispatch func(func())) Clock {
	return dispatchClock{dispatch: dispatch}
}

type dispatchClock struct {
	dispatch func(func())
}

func (c dispatchClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, func() { c.dispatch(f) })
}
