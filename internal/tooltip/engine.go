package tooltip

import "log/slog"

// Overlay is the rendering side of one mounted tooltip overlay.
type Overlay interface {
	Measurer
	// Mount attaches the overlay to the shared container.
	Mount()
	// Unmount detaches the overlay. It must be safe on a detached overlay.
	Unmount()
	// Apply renders a published style.
	Apply(Style)
	// Animate runs the enter (in=true) or exit transition and calls done
	// when it finishes. done is never called after cancel.
	Animate(in bool, done func()) (cancel func())
}

// ViewportEvents delivers document-wide scroll and resize notifications.
type ViewportEvents interface {
	Subscribe(onScroll, onResize func()) (unsubscribe func())
}

// EngineOptions configures an Engine.
type EngineOptions struct {
	Controller ControllerOptions
	// NewOverlay builds a fresh overlay each time the tooltip becomes visible.
	NewOverlay func() Overlay
	Frames     FrameSource
	Events     ViewportEvents
	Logger     *slog.Logger
}

// Engine binds the visibility state machine to the overlay lifecycle.
// It is not safe for concurrent use.
type Engine struct {
	ctrl       *Controller
	newOverlay func() Overlay
	frames     FrameSource
	events     ViewportEvents
	logger     *slog.Logger

	overlay     Overlay
	positioner  *Positioner
	loop        *Loop
	unsubscribe func()

	cancelTransition func()
	transitionSeq    uint64

	destroyed bool
}

func NewEngine(opts EngineOptions) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default().With("component", "tooltip")
	}

	e := &Engine{
		newOverlay: opts.NewOverlay,
		frames:     opts.Frames,
		events:     opts.Events,
		logger:     logger,
	}

	ctrlOpts := opts.Controller
	if ctrlOpts.Logger == nil {
		ctrlOpts.Logger = logger
	}
	onChange := ctrlOpts.OnChange
	ctrlOpts.OnChange = func(prev, next State) {
		e.sync(prev, next)
		if onChange != nil {
			onChange(prev, next)
		}
	}
	e.ctrl = NewController(ctrlOpts)

	return e
}

func (e *Engine) State() State {
	return e.ctrl.State()
}

// Mount runs the mount-time entry path. Calling it again is a no-op.
func (e *Engine) Mount() {
	if e.destroyed {
		return
	}
	e.ctrl.Mount()
}

func (e *Engine) PointerEnter() {
	if e.destroyed {
		return
	}
	e.ctrl.PointerEnter()
}

func (e *Engine) PointerLeave() {
	if e.destroyed {
		return
	}
	e.ctrl.PointerLeave()
}

func (e *Engine) Click() {
	if e.destroyed {
		return
	}
	e.ctrl.Click()
}

func (e *Engine) Blur() {
	if e.destroyed {
		return
	}
	e.ctrl.Blur()
}

// SetVisible changes the externally controlled visibility; nil returns the
// tooltip to autonomous mode.
func (e *Engine) SetVisible(v *bool) {
	if e.destroyed {
		return
	}
	e.ctrl.SetExternal(v)
}

// Remeasure recomputes the overlay placement if it is mounted.
func (e *Engine) Remeasure() {
	if e.positioner == nil {
		return
	}
	e.positioner.Update()
}

// Positioner returns the positioner of the mounted overlay, if any.
func (e *Engine) Positioner() *Positioner {
	return e.positioner
}

// Destroy tears down the overlay without further state transitions.
func (e *Engine) Destroy() {
	if e.destroyed {
		return
	}
	e.destroyed = true
	e.unmountOverlay()
}

func (e *Engine) sync(prev, next State) {
	if e.destroyed {
		return
	}

	switch {
	case next.Visible && e.overlay == nil:
		if !e.mountOverlay() {
			return
		}
		e.animate(next.Active)
	case !next.Visible:
		e.unmountOverlay()
	case prev.Active != next.Active:
		e.animate(next.Active)
	}
}

func (e *Engine) mountOverlay() bool {
	if e.newOverlay == nil {
		e.logger.Warn("cannot mount tooltip overlay: no overlay factory")
		return false
	}
	overlay := e.newOverlay()
	if overlay == nil {
		e.logger.Warn("cannot mount tooltip overlay: factory returned nil")
		return false
	}

	e.overlay = overlay
	overlay.Mount()
	e.positioner = NewPositioner(overlay, overlay.Apply, e.logger)
	e.positioner.Update()

	positioner := e.positioner
	if e.events != nil {
		e.unsubscribe = e.events.Subscribe(func() { positioner.Update() }, func() { positioner.Update() })
	}
	e.loop = StartLoop(e.frames, func() { positioner.Update() })
	e.logger.Debug("tooltip overlay mounted")

	return true
}

func (e *Engine) unmountOverlay() {
	e.stopTransition()
	if e.loop != nil {
		e.loop.Stop()
		e.loop = nil
	}
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
	if e.overlay == nil {
		return
	}

	e.overlay.Unmount()
	e.overlay = nil
	e.positioner = nil
	e.logger.Debug("tooltip overlay unmounted")
}

func (e *Engine) animate(in bool) {
	e.stopTransition()
	if e.overlay == nil {
		return
	}

	seq := e.transitionSeq
	finished := false
	cancel := e.overlay.Animate(in, func() {
		if seq != e.transitionSeq {
			return
		}
		finished = true
		e.cancelTransition = nil
		if !in {
			e.ctrl.ExitComplete()
		}
	})
	if !finished && seq == e.transitionSeq {
		e.cancelTransition = cancel
	}
}

func (e *Engine) stopTransition() {
	e.transitionSeq++
	if e.cancelTransition != nil {
		e.cancelTransition()
		e.cancelTransition = nil
	}
}
