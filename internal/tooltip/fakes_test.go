package tooltip

import (
	"image/color"
	"time"
)

type fakeClock struct {
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	at      time.Duration
	fn      func()
	stopped bool
}

func (c *fakeClock) AfterFunc(d time.Duration, fn func()) func() {
	t := &fakeTimer{at: c.now + d, fn: fn}
	c.timers = append(c.timers, t)

	return func() { t.stopped = true }
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now += d
	for {
		fired := false
		for _, t := range c.timers {
			if t.stopped || t.at > c.now {
				continue
			}
			t.stopped = true
			fired = true
			t.fn()
		}
		if !fired {
			return
		}
	}
}

type fakeOverlay struct {
	clock    *fakeClock
	duration time.Duration

	trigger    TriggerGeometry
	triggerOK  bool
	size       Size
	sizeOK     bool
	viewport   Viewport
	background color.Color

	mounts      int
	unmounts    int
	applied     []Style
	animations  []bool
	cancelCalls int
}

func newFakeOverlay(clock *fakeClock) *fakeOverlay {
	return &fakeOverlay{
		clock:      clock,
		duration:   300 * time.Millisecond,
		trigger:    TriggerGeometry{Top: 200, Left: 100, Width: 40, Height: 20},
		triggerOK:  true,
		size:       Size{Width: 80, Height: 30},
		sizeOK:     true,
		viewport:   Viewport{Width: 800, Height: 600},
		background: color.NRGBA{R: 0x11, G: 0x22, B: 0x33, A: 0xff},
	}
}

func (o *fakeOverlay) TriggerGeometry() (TriggerGeometry, bool) { return o.trigger, o.triggerOK }
func (o *fakeOverlay) OverlaySize() (Size, bool)                { return o.size, o.sizeOK }
func (o *fakeOverlay) Viewport() Viewport                       { return o.viewport }
func (o *fakeOverlay) OverlayBackground() color.Color           { return o.background }

func (o *fakeOverlay) Mount()   { o.mounts++ }
func (o *fakeOverlay) Unmount() { o.unmounts++ }

func (o *fakeOverlay) Apply(s Style) {
	o.applied = append(o.applied, s)
}

func (o *fakeOverlay) Animate(in bool, done func()) func() {
	o.animations = append(o.animations, in)
	stop := o.clock.AfterFunc(o.duration, done)

	return func() {
		o.cancelCalls++
		stop()
	}
}

func (o *fakeOverlay) lastApplied() Style {
	if len(o.applied) == 0 {
		return Style{}
	}

	return o.applied[len(o.applied)-1]
}

type fakeFrames struct {
	ticks   []func()
	cancels int
}

func (f *fakeFrames) Frames(tick func()) func() {
	f.ticks = append(f.ticks, tick)
	idx := len(f.ticks) - 1

	return func() {
		f.cancels++
		f.ticks[idx] = nil
	}
}

func (f *fakeFrames) Tick() {
	for _, tick := range f.ticks {
		if tick != nil {
			tick()
		}
	}
}

func (f *fakeFrames) Active() int {
	n := 0
	for _, tick := range f.ticks {
		if tick != nil {
			n++
		}
	}

	return n
}

type fakeEvents struct {
	scroll []func()
	resize []func()
	unsubs int
}

func (e *fakeEvents) Subscribe(onScroll, onResize func()) func() {
	e.scroll = append(e.scroll, onScroll)
	e.resize = append(e.resize, onResize)
	idx := len(e.scroll) - 1

	return func() {
		e.unsubs++
		e.scroll[idx] = nil
		e.resize[idx] = nil
	}
}

func (e *fakeEvents) Scroll() {
	for _, fn := range e.scroll {
		if fn != nil {
			fn()
		}
	}
}

func (e *fakeEvents) Resize() {
	for _, fn := range e.resize {
		if fn != nil {
			fn()
		}
	}
}
