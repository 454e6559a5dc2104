package ui

import (
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/skobkin/fynetip/internal/tooltip"
)

var (
	_ tooltip.Overlay    = (*overlayBubble)(nil)
	_ zOrdered           = (*overlayBubble)(nil)
	_ fyne.Tappable      = (*clickableBubble)(nil)
	_ fyne.Focusable     = (*clickableBubble)(nil)
	_ desktop.Cursorable = (*clickableBubble)(nil)
)

// Style adjusts the look of a tooltip overlay. Zero fields use the current
// theme.
type Style struct {
	Padding      float32
	CornerRadius float32
	TextColor    color.Color
	TextSize     float32
}

type resolvedStyle struct {
	padding      float32
	cornerRadius float32
	textColor    color.Color
	textSize     float32
	background   color.Color
}

func resolveStyle(s Style, background color.Color) resolvedStyle {
	th := theme.DefaultTheme()
	variant := theme.VariantDark
	if app := fyne.CurrentApp(); app != nil {
		th = app.Settings().Theme()
		variant = app.Settings().ThemeVariant()
	}

	r := resolvedStyle{
		padding:      s.Padding,
		cornerRadius: s.CornerRadius,
		textColor:    s.TextColor,
		textSize:     s.TextSize,
		background:   background,
	}
	if r.padding <= 0 {
		r.padding = th.Size(theme.SizeNamePadding)
	}
	if r.cornerRadius <= 0 {
		r.cornerRadius = th.Size(theme.SizeNamePadding)
	}
	if r.textColor == nil {
		r.textColor = th.Color(theme.ColorNameForeground, variant)
	}
	if r.textSize <= 0 {
		r.textSize = th.Size(theme.SizeNameText)
	}
	if r.background == nil {
		r.background = th.Color(theme.ColorNameOverlayBackground, variant)
	}
	if r.background == nil {
		r.background = tooltip.DefaultBackground
	}

	return r
}

type overlayConfig struct {
	containerID string
	fixed       bool
	zIndex      int
	name        string
	duration    time.Duration
	style       Style
	background  color.Color
	onTap       func()
}

// overlayBubble is one mounted tooltip overlay: a rounded background with the
// message and an arrow pointing at the trigger.
type overlayBubble struct {
	widget.BaseWidget

	doc     *Document
	trigger fyne.CanvasObject
	cfg     overlayConfig
	style   resolvedStyle

	content fyne.CanvasObject
	texts   []*canvas.Text
	bg      *canvas.Rectangle
	arrow   *canvas.Raster

	applied tooltip.Style
	opacity float32
	layer   *fyne.Container
	// self is the object placed in the layer: the bubble itself, or its
	// clickable wrapper when the message has a click handler.
	self fyne.CanvasObject
}

func newOverlayBubble(doc *Document, trigger fyne.CanvasObject, message Message, cfg overlayConfig) *overlayBubble {
	if message == nil {
		message = TextMessage("")
	}

	b := &overlayBubble{
		doc:     doc,
		trigger: trigger,
		cfg:     cfg,
		style:   resolveStyle(cfg.style, cfg.background),
		applied: tooltip.Style{Placement: tooltip.Offscreen()},
	}
	b.content, b.texts = message.build(b.style)
	b.bg = canvas.NewRectangle(color.Transparent)
	b.bg.CornerRadius = b.style.cornerRadius
	b.arrow = canvas.NewRasterWithPixels(b.arrowPixel)
	b.setOpacity(0)
	if cfg.onTap != nil {
		clickable := &clickableBubble{overlayBubble: b}
		b.self = clickable
		b.ExtendBaseWidget(clickable)
	} else {
		b.self = b
		b.ExtendBaseWidget(b)
	}

	return b
}

// Name is the tag of the overlay root.
func (b *overlayBubble) Name() string {
	return b.cfg.name
}

func (b *overlayBubble) ZIndex() int {
	return b.cfg.zIndex
}

func (b *overlayBubble) TriggerGeometry() (tooltip.TriggerGeometry, bool) {
	box, ok := b.doc.relativeBox(b.trigger)
	if !ok {
		return tooltip.TriggerGeometry{}, false
	}

	return tooltip.MeasureTrigger(box, b.doc.Viewport(), b.cfg.fixed), true
}

func (b *overlayBubble) OverlaySize() (tooltip.Size, bool) {
	size := b.MinSize()

	return tooltip.Size{Width: size.Width, Height: size.Height}, size.Width > 0 && size.Height > 0
}

func (b *overlayBubble) Viewport() tooltip.Viewport {
	return b.doc.Viewport()
}

func (b *overlayBubble) OverlayBackground() color.Color {
	return b.style.background
}

func (b *overlayBubble) Mount() {
	if b.layer != nil {
		return
	}
	layer := EnsureContainer(b.doc, b.cfg.containerID)
	if layer == nil {
		return
	}

	b.layer = layer
	b.Resize(b.MinSize())
	b.Move(fyne.NewPos(tooltip.OffscreenCoordinate, tooltip.OffscreenCoordinate))
	insertByZIndex(layer, b.self, b.cfg.zIndex)
}

func (b *overlayBubble) Unmount() {
	if b.layer == nil {
		return
	}
	b.layer.Remove(b.self)
	b.layer = nil
}

func (b *overlayBubble) Apply(style tooltip.Style) {
	b.applied = style
	if style.Placement.Offscreen {
		b.Resize(b.MinSize())
		b.Move(fyne.NewPos(tooltip.OffscreenCoordinate, tooltip.OffscreenCoordinate))
		b.Refresh()

		return
	}

	b.Resize(fyne.NewSize(style.Overlay.Width, style.Overlay.Height))
	b.Move(layerPosition(style))
	b.Refresh()
}

// layerPosition converts a placement into the coordinates of the viewport
// sized overlay layer.
func layerPosition(style tooltip.Style) fyne.Position {
	fixed := style.Trigger.Fixed
	vp := style.Viewport
	left := style.Placement.LeftEdge(style.Overlay.Width, vp, fixed)
	top := style.Placement.Top
	if !fixed {
		left -= vp.ScrollX
		top -= vp.ScrollY
	}

	return fyne.NewPos(left, top)
}

func (b *overlayBubble) Animate(in bool, done func()) func() {
	var target float32
	if in {
		target = 1
	}
	if b.cfg.duration <= 0 {
		b.setOpacity(target)
		if done != nil {
			done()
		}

		return func() {}
	}

	from := b.opacity
	stopped := false
	anim := fyne.NewAnimation(b.cfg.duration, func(progress float32) {
		if stopped {
			return
		}
		b.setOpacity(from + (target-from)*progress)
		if progress < 1 {
			return
		}
		stopped = true
		if done != nil {
			done()
		}
	})
	anim.Curve = fyne.AnimationEaseInOut
	anim.Start()

	return func() {
		if stopped {
			return
		}
		stopped = true
		anim.Stop()
	}
}

func (b *overlayBubble) setOpacity(opacity float32) {
	b.opacity = min(max(opacity, 0), 1)
	b.bg.FillColor = fade(b.style.background, b.opacity)
	b.bg.Refresh()
	for _, text := range b.texts {
		text.Color = fade(b.style.textColor, b.opacity)
		text.Refresh()
	}
	b.arrow.Refresh()
}

func (b *overlayBubble) arrowPixel(x, y, w, h int) color.Color {
	if w <= 0 || h <= 0 {
		return color.Transparent
	}

	// Fraction of the arrow height measured from its tip.
	fromTip := (float32(y) + 0.5) / float32(h)
	if b.applied.Placement.Arrow.Direction == tooltip.ArrowDown {
		fromTip = 1 - fromTip
	}
	half := fromTip * float32(w) / 2
	dx := float32(x) + 0.5 - float32(w)/2
	if dx < -half || dx > half {
		return color.Transparent
	}

	arrowColor := b.applied.ArrowColor
	if arrowColor == nil {
		arrowColor = b.style.background
	}

	return fade(arrowColor, b.opacity)
}

func fade(c color.Color, opacity float32) color.Color {
	if c == nil {
		return color.Transparent
	}
	nrgba, _ := color.NRGBAModel.Convert(c).(color.NRGBA)
	nrgba.A = uint8(float32(nrgba.A)*opacity + 0.5)

	return nrgba
}

func (b *overlayBubble) CreateRenderer() fyne.WidgetRenderer {
	return &overlayRenderer{bubble: b}
}

type overlayRenderer struct {
	bubble *overlayBubble
}

func (r *overlayRenderer) Layout(size fyne.Size) {
	b := r.bubble
	pad := b.style.padding

	b.bg.Move(fyne.NewPos(0, 0))
	b.bg.Resize(size)
	b.content.Move(fyne.NewPos(pad, pad))
	b.content.Resize(fyne.NewSize(max(size.Width-2*pad, 0), max(size.Height-2*pad, 0)))

	placement := b.applied.Placement
	if placement.Offscreen {
		b.arrow.Hide()

		return
	}
	b.arrow.Show()

	arrow := placement.Arrow
	centerX := arrow.CenterX(placement.Horizontal, size.Width)
	y := arrow.EdgeOffset
	if arrow.Direction == tooltip.ArrowDown {
		y = size.Height - arrow.EdgeOffset - tooltip.ArrowSize
	}
	b.arrow.Move(fyne.NewPos(centerX-tooltip.ArrowSize, y))
	b.arrow.Resize(fyne.NewSize(2*tooltip.ArrowSize, tooltip.ArrowSize))
}

func (r *overlayRenderer) MinSize() fyne.Size {
	pad := r.bubble.style.padding

	return r.bubble.content.MinSize().Add(fyne.NewSize(2*pad, 2*pad))
}

func (r *overlayRenderer) Refresh() {
	r.bubble.bg.CornerRadius = r.bubble.style.cornerRadius
	r.Layout(r.bubble.Size())
	canvas.Refresh(r.bubble.self)
}

func (r *overlayRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.bubble.bg, r.bubble.content, r.bubble.arrow}
}

func (r *overlayRenderer) Destroy() {}

// clickableBubble is an overlay whose message reacts to taps and, once
// focused, to Space and Enter.
type clickableBubble struct {
	*overlayBubble
}

func (c *clickableBubble) Tapped(*fyne.PointEvent) {
	c.activate()
}

func (c *clickableBubble) Cursor() desktop.Cursor {
	return desktop.PointerCursor
}

func (c *clickableBubble) FocusGained() {
}

func (c *clickableBubble) FocusLost() {
}

func (c *clickableBubble) TypedRune(rune) {
}

func (c *clickableBubble) TypedKey(ev *fyne.KeyEvent) {
	switch ev.Name {
	case fyne.KeySpace, fyne.KeyReturn, fyne.KeyEnter:
		c.activate()
	}
}

func (c *clickableBubble) activate() {
	if c.cfg.onTap != nil {
		c.cfg.onTap()
	}
}
