package events

import "time"

// ViewportScrolled is published by a document when its content scrolls.
type ViewportScrolled struct {
	DocumentID string
	OffsetX    float32
	OffsetY    float32
}

// ViewportResized is published by a document when its visible area changes
// size.
type ViewportResized struct {
	DocumentID string
	Width      float32
	Height     float32
}

// TooltipVisibility is published once per open/close transition of a
// tooltip overlay.
type TooltipVisibility struct {
	TooltipID string
	Name      string
	Visible   bool
	Timestamp time.Time
}
