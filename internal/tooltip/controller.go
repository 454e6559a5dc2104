package tooltip

import "log/slog"

// Mode selects which input events drive visibility transitions.
type Mode int

const (
	ModeHover Mode = iota
	ModeClickToggle
	ModeControlled
)

func (m Mode) String() string {
	switch m {
	case ModeClickToggle:
		return "click"
	case ModeControlled:
		return "controlled"
	default:
		return "hover"
	}
}

// State is the trigger visibility state.
//
// Visible tells whether the overlay is mounted. Active tells whether the
// trigger is engaged and drives the direction of the enter/exit transition.
type State struct {
	Visible bool
	Active  bool
	Mode    Mode
}

// ControllerOptions configures a Controller.
type ControllerOptions struct {
	ClickMode      bool
	DefaultVisible bool
	// Visible is the externally controlled value; nil keeps the controller
	// autonomous.
	Visible *bool
	// OnVisible is called once per change of State.Visible.
	OnVisible func(visible bool)
	// OnChange is called after every state change with the previous and the
	// new state. A transition triggered from inside a hook, e.g. an exit
	// that completes at once, is reported after the current one returns.
	OnChange func(prev, next State)
	Logger   *slog.Logger
}

// Controller is the visibility state machine of a single tooltip.
// It is not safe for concurrent use; drive it from the UI goroutine.
type Controller struct {
	interaction    Mode
	defaultVisible bool
	external       *bool

	visible bool
	active  bool

	// mounted is a one-shot latch for the mount-time entry path.
	mounted bool

	onVisible func(bool)
	onChange  func(prev, next State)
	logger    *slog.Logger

	// pending holds changes made while hooks run; they are reported in order
	// after the current one.
	pending   []stateChange
	notifying bool
}

type stateChange struct {
	prev, next State
}

func NewController(opts ControllerOptions) *Controller {
	c := &Controller{
		interaction:    ModeHover,
		defaultVisible: opts.DefaultVisible,
		external:       copyBool(opts.Visible),
		onVisible:      opts.OnVisible,
		onChange:       opts.OnChange,
		logger:         opts.Logger,
	}
	if opts.ClickMode {
		c.interaction = ModeClickToggle
	}
	if c.logger == nil {
		c.logger = slog.Default().With("component", "tooltip.controller")
	}

	return c
}

func (c *Controller) State() State {
	return State{Visible: c.visible, Active: c.active, Mode: c.Mode()}
}

// Mode returns ModeControlled while an external value is set and the
// interaction mode otherwise.
func (c *Controller) Mode() Mode {
	if c.external != nil {
		return ModeControlled
	}

	return c.interaction
}

// SetOnChange replaces the state change hook.
func (c *Controller) SetOnChange(fn func(prev, next State)) {
	c.onChange = fn
}

// Mount runs the entry path once when the tooltip starts visible, either by
// default or because the external value is already true. Later calls are
// no-ops.
func (c *Controller) Mount() {
	if c.mounted {
		return
	}
	c.mounted = true

	if c.defaultVisible || (c.external != nil && *c.external) {
		c.logger.Debug("entering on mount", "default_visible", c.defaultVisible, "mode", c.Mode())
		c.enter()
	}
}

func (c *Controller) PointerEnter() {
	if c.interaction != ModeHover {
		return
	}
	c.enter()
}

func (c *Controller) PointerLeave() {
	if c.interaction != ModeHover {
		return
	}
	c.apply(c.visible, c.externalOr(false))
}

func (c *Controller) Click() {
	if c.interaction != ModeClickToggle {
		return
	}

	visible := c.visible
	if !c.active {
		visible = c.externalOr(true)
	}
	active := !c.active
	if c.external != nil {
		active = *c.external
	}
	c.apply(visible, active)
}

// Blur handles the trigger losing keyboard focus.
func (c *Controller) Blur() {
	if c.interaction != ModeClickToggle || c.external != nil {
		return
	}
	c.apply(c.visible, false)
}

// SetExternal changes the externally controlled value. A nil value returns
// the controller to autonomous mode without changing the state.
func (c *Controller) SetExternal(v *bool) {
	prev := c.external
	c.external = copyBool(v)
	if v == nil {
		return
	}
	if prev != nil && *prev == *v && c.visible == *v {
		return
	}

	if *v {
		c.enter()
		return
	}
	if c.visible {
		// The exit transition unmounts through ExitComplete.
		c.apply(true, false)
		return
	}
	c.apply(false, false)
}

// ExitComplete is called when the exit transition has finished. The overlay
// is unmounted only if the trigger has not been engaged again meanwhile.
func (c *Controller) ExitComplete() {
	if c.active || !c.visible {
		return
	}
	c.apply(false, false)
}

func (c *Controller) enter() {
	c.apply(c.externalOr(true), c.externalOr(true))
}

func (c *Controller) externalOr(fallback bool) bool {
	if c.external != nil {
		return *c.external
	}

	return fallback
}

func (c *Controller) apply(visible, active bool) {
	if visible == c.visible && active == c.active {
		return
	}

	prev := c.State()
	c.visible = visible
	c.active = active
	next := c.State()

	c.logger.Debug(
		"tooltip state changed",
		"mode", next.Mode,
		"visible", next.Visible,
		"active", next.Active,
	)

	c.pending = append(c.pending, stateChange{prev: prev, next: next})
	if c.notifying {
		return
	}
	c.notifying = true
	defer func() { c.notifying = false }()

	for len(c.pending) > 0 {
		change := c.pending[0]
		c.pending = c.pending[1:]
		c.notify(change)
	}
}

func (c *Controller) notify(change stateChange) {
	if c.onChange != nil {
		c.onChange(change.prev, change.next)
	}
	if change.prev.Visible != change.next.Visible && c.onVisible != nil {
		c.onVisible(change.next.Visible)
	}
}

func copyBool(v *bool) *bool {
	if v == nil {
		return nil
	}
	b := *v

	return &b
}
