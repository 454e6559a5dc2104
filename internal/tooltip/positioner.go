package tooltip

import (
	"image/color"
	"log/slog"
)

// DefaultBackground is the overlay background when neither the caller nor
// the theme resolves one.
var DefaultBackground color.Color = color.NRGBA{A: 0xcc}

// Measurer reads the live layout of a mounted overlay and its trigger.
type Measurer interface {
	// TriggerGeometry returns false while the trigger is not mounted or
	// detached.
	TriggerGeometry() (TriggerGeometry, bool)
	// OverlaySize returns false until the overlay has been laid out.
	OverlaySize() (Size, bool)
	Viewport() Viewport
	// OverlayBackground is the background colour the overlay is actually
	// rendered with.
	OverlayBackground() color.Color
}

// Style is the payload the rendering layer applies to the overlay.
type Style struct {
	Placement Placement
	// Trigger is the geometry the placement was computed from.
	Trigger TriggerGeometry
	Overlay Size
	// Viewport is the viewport the placement was computed in. Renderers
	// that draw in viewport coordinates need it even when the document
	// placement did not change.
	Viewport Viewport
	// ArrowColor matches the resolved overlay background.
	ArrowColor color.Color
}

// Positioner computes overlay placement from live measurements and publishes
// it whenever it changes.
type Positioner struct {
	measurer Measurer
	publish  func(Style)
	logger   *slog.Logger

	last      Style
	published bool
}

func NewPositioner(m Measurer, publish func(Style), logger *slog.Logger) *Positioner {
	if logger == nil {
		logger = slog.Default().With("component", "tooltip.positioner")
	}
	if publish == nil {
		publish = func(Style) {}
	}

	return &Positioner{
		measurer: m,
		publish:  publish,
		logger:   logger,
	}
}

// Measure computes the current style without publishing it.
func (p *Positioner) Measure() Style {
	if p.measurer == nil {
		return Style{Placement: Offscreen()}
	}

	trigger, ok := p.measurer.TriggerGeometry()
	if !ok {
		return Style{Placement: Offscreen()}
	}
	overlay, ok := p.measurer.OverlaySize()
	if !ok {
		return Style{Placement: Offscreen(), Trigger: trigger}
	}

	bg := p.measurer.OverlayBackground()
	if bg == nil {
		bg = DefaultBackground
	}

	vp := p.measurer.Viewport()

	return Style{
		Placement:  Compute(trigger, overlay, vp),
		Trigger:    trigger,
		Overlay:    overlay,
		Viewport:   vp,
		ArrowColor: bg,
	}
}

// Update re-measures and publishes the style if anything changed since the
// last publication. It reports whether a new style was published.
func (p *Positioner) Update() bool {
	style := p.Measure()
	if p.published && sameStyle(style, p.last) {
		return false
	}

	if style.Placement.Offscreen {
		p.logger.Debug("overlay is not measurable yet: publishing offscreen placeholder")
	} else {
		p.logger.Debug(
			"overlay placed",
			"vertical", style.Placement.Vertical,
			"horizontal", style.Placement.Horizontal,
			"top", style.Placement.Top,
			"left", style.Placement.Left,
			"right", style.Placement.Right,
		)
	}

	p.last = style
	p.published = true
	p.publish(style)

	return true
}

// Last returns the most recently published style.
func (p *Positioner) Last() (Style, bool) {
	return p.last, p.published
}

func sameStyle(a, b Style) bool {
	return a.Placement == b.Placement &&
		a.Trigger == b.Trigger &&
		a.Overlay == b.Overlay &&
		a.Viewport == b.Viewport &&
		sameColor(a.ArrowColor, b.ArrowColor)
}

func sameColor(a, b color.Color) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()

	return ar == br && ag == bg && ab == bb && aa == ba
}
