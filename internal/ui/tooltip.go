package ui

import (
	"image/color"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/google/uuid"

	"github.com/skobkin/fynetip/internal/config"
	"github.com/skobkin/fynetip/internal/events"
	"github.com/skobkin/fynetip/internal/tooltip"
)

var (
	_ desktop.Hoverable = (*Tooltip)(nil)
	_ fyne.Tappable     = (*Tooltip)(nil)
	_ fyne.Focusable    = (*Tooltip)(nil)
)

// Options configures a Tooltip.
type Options struct {
	// ClickMode toggles the overlay on click instead of on hover.
	ClickMode      bool
	DefaultVisible bool
	// Visible puts the tooltip under external control while non-nil.
	Visible *bool
	// Fixed marks a trigger that does not scroll with the document.
	Fixed bool
	// ZIndex orders overlays inside the shared layer; higher draws on top.
	ZIndex int
	// ContainerID selects the shared layer; empty uses the document default.
	ContainerID string
	// Background overrides the theme overlay colour. The arrow follows it.
	Background color.Color
	Style      Style
	// Name tags the overlay root.
	Name string
	// OnVisible is called once per change of the overlay visibility.
	OnVisible      func(visible bool)
	OnMessageClick func()
	// TransitionDuration is the length of the show and hide fade. Zero
	// switches without a fade.
	TransitionDuration time.Duration
	Logger             *slog.Logger
}

// Tooltip wraps a trigger object and shows a floating message next to it.
type Tooltip struct {
	widget.BaseWidget

	id      string
	doc     *Document
	trigger fyne.CanvasObject
	message Message
	opts    Options
	engine  *tooltip.Engine
	overlay *overlayBubble
	logger  *slog.Logger
}

func NewTooltip(doc *Document, trigger fyne.CanvasObject, message Message, opts Options) *Tooltip {
	id := uuid.NewString()
	logger := opts.Logger
	if logger == nil {
		logger = slog.With("component", "ui.tooltip")
	}
	logger = logger.With("tooltip_id", id)
	if opts.Name != "" {
		logger = logger.With("name", opts.Name)
	}
	if opts.ZIndex == 0 {
		opts.ZIndex = config.DefaultZIndex
	}
	if message == nil {
		message = TextMessage("")
	}

	t := &Tooltip{
		id:      id,
		doc:     doc,
		trigger: trigger,
		message: message,
		opts:    opts,
		logger:  logger,
	}

	engineOpts := tooltip.EngineOptions{
		Controller: tooltip.ControllerOptions{
			ClickMode:      opts.ClickMode,
			DefaultVisible: opts.DefaultVisible,
			Visible:        opts.Visible,
			OnVisible:      t.visibilityChanged,
		},
		NewOverlay: t.newOverlay,
		Logger:     logger,
	}
	if doc != nil {
		engineOpts.Frames = doc.frames
		engineOpts.Events = doc.feed
	}
	t.engine = tooltip.NewEngine(engineOpts)
	t.ExtendBaseWidget(t)

	return t
}

func (t *Tooltip) ID() string {
	return t.id
}

func (t *Tooltip) State() tooltip.State {
	return t.engine.State()
}

// SetVisible changes the controlled visibility. Nil hands control back to
// hover or click interaction.
func (t *Tooltip) SetVisible(visible *bool) {
	t.engine.SetVisible(visible)
}

// Remeasure recomputes the overlay placement, e.g. after the trigger moved
// without a scroll or resize.
func (t *Tooltip) Remeasure() {
	t.engine.Remeasure()
}

// Destroy removes the overlay and stops reacting to interaction.
func (t *Tooltip) Destroy() {
	t.engine.Destroy()
	t.overlay = nil
}

func (t *Tooltip) MouseIn(*desktop.MouseEvent) {
	t.engine.PointerEnter()
}

func (t *Tooltip) MouseMoved(*desktop.MouseEvent) {
}

func (t *Tooltip) MouseOut() {
	t.engine.PointerLeave()
}

func (t *Tooltip) Tapped(*fyne.PointEvent) {
	t.engine.Click()
	if !t.opts.ClickMode {
		return
	}
	// Focus lets a click elsewhere blur the trigger.
	if app := fyne.CurrentApp(); app != nil && app.Driver() != nil {
		if c := app.Driver().CanvasForObject(t); c != nil && c.Focused() != fyne.Focusable(t) {
			c.Focus(t)
		}
	}
}

func (t *Tooltip) FocusGained() {
}

func (t *Tooltip) FocusLost() {
	t.engine.Blur()
}

func (t *Tooltip) TypedRune(rune) {
}

func (t *Tooltip) TypedKey(ev *fyne.KeyEvent) {
	switch ev.Name {
	case fyne.KeySpace, fyne.KeyReturn, fyne.KeyEnter:
		t.engine.Click()
	}
}

func (t *Tooltip) CreateRenderer() fyne.WidgetRenderer {
	r := widget.NewSimpleRenderer(t.trigger)
	t.engine.Mount()

	return r
}

func (t *Tooltip) newOverlay() tooltip.Overlay {
	if t.doc == nil {
		t.logger.Warn("cannot show tooltip: trigger is not attached to a document")

		return nil
	}

	t.overlay = newOverlayBubble(t.doc, t, t.message, overlayConfig{
		containerID: t.opts.ContainerID,
		fixed:       t.opts.Fixed,
		zIndex:      t.opts.ZIndex,
		name:        t.opts.Name,
		duration:    t.opts.TransitionDuration,
		style:       t.opts.Style,
		background:  t.opts.Background,
		onTap:       t.opts.OnMessageClick,
	})

	return t.overlay
}

func (t *Tooltip) visibilityChanged(visible bool) {
	if !visible {
		t.overlay = nil
	}
	if t.doc != nil {
		t.doc.bus.TryPublish(events.TopicTooltipVisibility, events.TooltipVisibility{
			TooltipID: t.id,
			Name:      t.opts.Name,
			Visible:   visible,
			Timestamp: time.Now(),
		})
	}
	if t.opts.OnVisible != nil {
		t.opts.OnVisible(visible)
	}
}
