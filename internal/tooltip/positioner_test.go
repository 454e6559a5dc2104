package tooltip

import (
	"image/color"
	"testing"
)

func TestPositionerPublishesOnlyOnChange(t *testing.T) {
	o := newFakeOverlay(&fakeClock{})
	var published []Style
	p := NewPositioner(o, func(s Style) { published = append(published, s) }, discardLogger())

	if !p.Update() {
		t.Fatalf("first update must publish")
	}
	if p.Update() {
		t.Fatalf("unchanged layout must not publish")
	}

	o.background = color.NRGBA{R: 0xff, A: 0xff}
	if !p.Update() {
		t.Fatalf("background change must publish a new arrow colour")
	}
	if len(published) != 2 {
		t.Fatalf("expected two published styles, got %d", len(published))
	}

	last, ok := p.Last()
	if !ok || !sameColor(last.ArrowColor, color.NRGBA{R: 0xff, A: 0xff}) {
		t.Fatalf("unexpected last style: %+v", last)
	}
}

func TestPositionerOffscreenUntilTriggerMounted(t *testing.T) {
	o := newFakeOverlay(&fakeClock{})
	o.triggerOK = false
	p := NewPositioner(o, nil, discardLogger())

	p.Update()
	got, _ := p.Last()
	if got.Placement != Offscreen() {
		t.Fatalf("expected offscreen placeholder, got %+v", got.Placement)
	}

	o.triggerOK = true
	p.Update()
	got, _ = p.Last()
	if got.Placement.Offscreen {
		t.Fatalf("expected real placement once the trigger is mounted")
	}
}

func TestPositionerFallsBackToDefaultBackground(t *testing.T) {
	o := newFakeOverlay(&fakeClock{})
	o.background = nil
	p := NewPositioner(o, nil, discardLogger())

	if got := p.Measure().ArrowColor; !sameColor(got, DefaultBackground) {
		t.Fatalf("expected default background, got %v", got)
	}
}

func TestPositionerWithoutMeasurer(t *testing.T) {
	p := NewPositioner(nil, nil, discardLogger())
	if got := p.Measure().Placement; got != Offscreen() {
		t.Fatalf("expected offscreen placeholder, got %+v", got)
	}
}

func TestPositionerPublishesScrollWithUnchangedPlacement(t *testing.T) {
	o := newFakeOverlay(&fakeClock{})
	o.trigger.Top = 400
	var published []Style
	p := NewPositioner(o, func(s Style) { published = append(published, s) }, discardLogger())

	p.Update()
	first := published[0].Placement

	o.viewport.ScrollY = 20
	if !p.Update() {
		t.Fatalf("scroll must publish the new viewport")
	}
	if published[1].Placement != first {
		t.Fatalf("document placement must not change on scroll: %+v vs %+v", published[1].Placement, first)
	}
	if published[1].Viewport.ScrollY != 20 {
		t.Fatalf("unexpected published viewport: %+v", published[1].Viewport)
	}
}
