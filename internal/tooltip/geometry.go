package tooltip

const (
	// Adjustment is the gap between trigger and overlay and the minimum
	// distance kept from the viewport edges.
	Adjustment float32 = 10
	// ArrowSize is the height of the arrow triangle.
	ArrowSize float32 = 5
	// MinArrowOffset keeps the arrow away from the overlay's rounded corners.
	MinArrowOffset float32 = 10
	// OffscreenCoordinate is published for both axes while the trigger or
	// overlay cannot be measured yet.
	OffscreenCoordinate float32 = -9999
)

// VerticalPlacement tells on which side of the trigger the overlay is drawn.
type VerticalPlacement int

const (
	PlacementAbove VerticalPlacement = iota
	PlacementBelow
)

func (p VerticalPlacement) String() string {
	if p == PlacementBelow {
		return "below"
	}

	return "above"
}

// HorizontalPlacement tells which edge the overlay position is anchored from.
type HorizontalPlacement int

const (
	PlacementLeftAligned HorizontalPlacement = iota
	PlacementRightAligned
)

func (p HorizontalPlacement) String() string {
	if p == PlacementRightAligned {
		return "right"
	}

	return "left"
}

// ArrowDirection is where the arrow tip points to.
type ArrowDirection int

const (
	ArrowDown ArrowDirection = iota
	ArrowUp
)

// Size is an overlay box size in pixels.
type Size struct {
	Width  float32
	Height float32
}

// Rect is a box with its top-left corner.
type Rect struct {
	Top    float32
	Left   float32
	Width  float32
	Height float32
}

// TriggerGeometry is the trigger box in document coordinates.
// Fixed triggers do not scroll with the document, so their box excludes the
// scroll offset.
type TriggerGeometry struct {
	Top    float32
	Left   float32
	Width  float32
	Height float32
	Fixed  bool
}

func (g TriggerGeometry) Measurable() bool {
	return g.Width > 0 && g.Height > 0
}

// Viewport describes the visible part of the document.
// Width is the client width, i.e. without a scrollbar track.
type Viewport struct {
	Width   float32
	Height  float32
	ScrollX float32
	ScrollY float32
}

// MeasureTrigger converts a viewport-relative trigger box into document
// coordinates.
func MeasureTrigger(box Rect, vp Viewport, fixed bool) TriggerGeometry {
	g := TriggerGeometry{
		Top:    box.Top,
		Left:   box.Left,
		Width:  box.Width,
		Height: box.Height,
		Fixed:  fixed,
	}
	if !fixed {
		g.Top += vp.ScrollY
		g.Left += vp.ScrollX
	}

	return g
}

// Arrow is the connector decoration placement inside the overlay.
//
// The arrow sits ArrowSize outside the overlay edge named by Direction
// (bottom edge for ArrowDown, top edge for ArrowUp). Offset is measured from
// the overlay's left edge for left-aligned overlays and from its right edge
// for right-aligned ones; TranslateX is the centering shift in percent of the
// arrow width.
type Arrow struct {
	Direction  ArrowDirection
	EdgeOffset float32
	Offset     float32
	TranslateX float32
}

// CenterX returns the arrow center relative to the overlay's left edge.
func (a Arrow) CenterX(h HorizontalPlacement, overlayWidth float32) float32 {
	if h == PlacementRightAligned {
		return overlayWidth - a.Offset
	}

	return a.Offset
}

// Placement is the computed overlay geometry.
type Placement struct {
	Vertical   VerticalPlacement
	Horizontal HorizontalPlacement
	Top        float32
	// Left is valid for left-aligned overlays.
	Left float32
	// Right is the distance from the viewport's right edge for right-aligned
	// overlays.
	Right     float32
	Arrow     Arrow
	Offscreen bool
}

// Offscreen returns the placeholder placement used before the first
// successful measurement.
func Offscreen() Placement {
	return Placement{
		Top:       OffscreenCoordinate,
		Left:      OffscreenCoordinate,
		Offscreen: true,
		Arrow: Arrow{
			EdgeOffset: OffscreenCoordinate,
			Offset:     OffscreenCoordinate,
		},
	}
}

// Compute places an overlay of size m next to trigger t inside viewport vp.
func Compute(t TriggerGeometry, m Size, vp Viewport) Placement {
	if !t.Measurable() || m.Width <= 0 || m.Height <= 0 {
		return Offscreen()
	}

	scrollX, scrollY := vp.ScrollX, vp.ScrollY
	if t.Fixed {
		scrollX, scrollY = 0, 0
	}

	var p Placement
	if t.Top-scrollY-m.Height-Adjustment < 0 {
		p.Vertical = PlacementBelow
		p.Top = t.Top + t.Height + Adjustment
		p.Arrow.Direction = ArrowUp
	} else {
		p.Vertical = PlacementAbove
		p.Top = t.Top - m.Height - Adjustment
		p.Arrow.Direction = ArrowDown
	}
	p.Arrow.EdgeOffset = -ArrowSize

	left := max(t.Left-(m.Width-t.Width)/2, scrollX+Adjustment)
	triggerRight := t.Left + t.Width
	if left-scrollX+m.Width+Adjustment > vp.Width {
		overlayRight := scrollX + vp.Width - Adjustment
		p.Horizontal = PlacementRightAligned
		p.Right = Adjustment
		p.Arrow.Offset = max(t.Width/2+(overlayRight-triggerRight), MinArrowOffset)
		p.Arrow.TranslateX = 50
	} else {
		p.Horizontal = PlacementLeftAligned
		p.Left = left
		p.Arrow.Offset = max(t.Width/2+t.Left-left, MinArrowOffset)
		p.Arrow.TranslateX = -50
	}

	return p
}

// LeftEdge resolves the overlay's left edge in document coordinates.
func (p Placement) LeftEdge(overlayWidth float32, vp Viewport, fixed bool) float32 {
	if p.Horizontal == PlacementLeftAligned || p.Offscreen {
		return p.Left
	}
	scrollX := vp.ScrollX
	if fixed {
		scrollX = 0
	}

	return scrollX + vp.Width - p.Right - overlayWidth
}
