package ui

import (
	"fmt"
	"sync"
	"sync/atomic"

	"fyne.io/fyne/v2"

	"github.com/skobkin/fynetip/internal/bus"
	"github.com/skobkin/fynetip/internal/events"
)

// viewportEvents feeds tooltip positioners with the scroll and resize events
// of one document.
type viewportEvents struct {
	doc *Document
}

func (e viewportEvents) Subscribe(onScroll, onResize func()) func() {
	return startViewportListener(e.doc.bus, e.doc.id, onScroll, onResize)
}

func startViewportListener(
	messageBus bus.MessageBus,
	documentID string,
	onScroll func(),
	onResize func(),
) func() {
	if messageBus == nil {
		uiLogger.Debug("skipping viewport listener: message bus is nil")

		return func() {}
	}

	sub := messageBus.Subscribe(events.TopicViewportScroll, events.TopicViewportResize)
	done := make(chan struct{})
	var (
		stopped  atomic.Bool
		stopOnce sync.Once
	)

	// Callbacks queued before stop are dropped on the UI goroutine.
	dispatch := func(fn func()) {
		if fn == nil {
			return
		}
		fyne.Do(func() {
			if stopped.Load() {
				return
			}
			fn()
		})
	}

	go func() {
		for {
			select {
			case <-done:
				return
			case raw, ok := <-sub:
				if !ok {
					uiLogger.Debug("viewport subscription closed", "document_id", documentID)

					return
				}
				select {
				case <-done:
					return
				default:
				}
				switch ev := raw.(type) {
				case events.ViewportScrolled:
					if ev.DocumentID == documentID {
						dispatch(onScroll)
					}
				case events.ViewportResized:
					if ev.DocumentID == documentID {
						dispatch(onResize)
					}
				default:
					uiLogger.Debug("ignoring unexpected viewport payload", "payload_type", fmt.Sprintf("%T", raw))
				}
			}
		}
	}()

	return func() {
		stopOnce.Do(func() {
			stopped.Store(true)
			close(done)
			messageBus.Unsubscribe(sub)
		})
	}
}

func startVisibilityListener(
	messageBus bus.MessageBus,
	onVisibility func(events.TooltipVisibility),
) func() {
	if messageBus == nil {
		uiLogger.Debug("skipping visibility listener: message bus is nil")

		return func() {}
	}

	sub := messageBus.Subscribe(events.TopicTooltipVisibility)
	uiLogger.Debug("subscribed to UI bus topics", "topics", []string{events.TopicTooltipVisibility})
	done := make(chan struct{})
	var stopOnce sync.Once

	go func() {
		for {
			select {
			case <-done:
				return
			case raw, ok := <-sub:
				if !ok {
					uiLogger.Debug("tooltip visibility subscription closed")

					return
				}
				change, ok := raw.(events.TooltipVisibility)
				if !ok {
					uiLogger.Debug("ignoring unexpected visibility payload", "payload_type", fmt.Sprintf("%T", raw))

					continue
				}
				select {
				case <-done:
					return
				default:
				}
				if onVisibility != nil {
					onVisibility(change)
				}
			}
		}
	}()

	return func() {
		stopOnce.Do(func() {
			uiLogger.Debug("stopping visibility listener")
			close(done)
			messageBus.Unsubscribe(sub)
		})
	}
}
