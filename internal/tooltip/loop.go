package tooltip

// FrameSource calls tick once per displayed frame until the returned cancel
// function is called. Cancel must be safe to call more than once.
type FrameSource interface {
	Frames(tick func()) (cancel func())
}

// FrameSourceFunc adapts a function to FrameSource.
type FrameSourceFunc func(tick func()) (cancel func())

func (f FrameSourceFunc) Frames(tick func()) func() {
	return f(tick)
}

// Loop is a cancellable task repeated once per frame.
type Loop struct {
	cancel  func()
	stopped bool
}

// StartLoop starts calling fn on every frame of src. A nil source yields a
// loop that never ticks.
func StartLoop(src FrameSource, fn func()) *Loop {
	l := &Loop{}
	if src == nil || fn == nil {
		l.stopped = true
		return l
	}

	l.cancel = src.Frames(func() {
		if l.stopped {
			return
		}
		fn()
	})

	return l
}

// Stop cancels the loop. No tick runs after Stop returns.
func (l *Loop) Stop() {
	if l == nil || l.stopped {
		return
	}
	l.stopped = true
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

func (l *Loop) Running() bool {
	return l != nil && !l.stopped
}
