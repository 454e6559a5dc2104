package ui

import (
	"time"

	"fyne.io/fyne/v2"
)

// animationFrames ticks once per rendered frame through a repeating fyne
// animation.
type animationFrames struct{}

func (animationFrames) Frames(tick func()) func() {
	stopped := false
	anim := fyne.NewAnimation(time.Second, func(float32) {
		if stopped {
			return
		}
		tick()
	})
	anim.RepeatCount = fyne.AnimationRepeatForever
	anim.Start()

	return func() {
		if stopped {
			return
		}
		stopped = true
		anim.Stop()
	}
}
