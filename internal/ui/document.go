package ui

import (
	"log/slog"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/google/uuid"

	"github.com/skobkin/fynetip/internal/bus"
	"github.com/skobkin/fynetip/internal/config"
	"github.com/skobkin/fynetip/internal/events"
	"github.com/skobkin/fynetip/internal/tooltip"
)

var uiLogger = slog.With("component", "ui")

// DocumentOptions configures a Document.
type DocumentOptions struct {
	// Bus carries viewport and visibility events. A private bus is created
	// when nil.
	Bus bus.MessageBus
	// ContainerID names the shared overlay layer tooltips mount into.
	ContainerID string
	Logger      *slog.Logger
}

// Document is a scrollable content area with shared overlay layers stacked
// above it. Overlay layers do not scroll; tooltip placement converts between
// document and viewport coordinates.
type Document struct {
	widget.BaseWidget

	id          string
	containerID string
	scroll      *container.Scroll
	bus         bus.MessageBus
	ownsBus     bool
	frames      tooltip.FrameSource
	feed        tooltip.ViewportEvents
	logger      *slog.Logger

	mu       sync.Mutex
	layers   []*fyne.Container
	lastSize fyne.Size
	closed   bool
}

func NewDocument(content fyne.CanvasObject, opts DocumentOptions) *Document {
	logger := opts.Logger
	if logger == nil {
		logger = slog.With("component", "ui.document")
	}
	containerID := strings.TrimSpace(opts.ContainerID)
	if containerID == "" {
		containerID = config.DefaultContainerID
	}

	id := uuid.NewString()
	d := &Document{
		id:          id,
		containerID: containerID,
		bus:         opts.Bus,
		frames:      animationFrames{},
		logger:      logger.With("document_id", id),
	}
	if d.bus == nil {
		d.bus = bus.New(slog.With("component", "bus", "document_id", id))
		d.ownsBus = true
	}

	d.feed = viewportEvents{doc: d}

	d.scroll = container.NewScroll(content)
	d.scroll.OnScrolled = func(offset fyne.Position) {
		d.bus.TryPublish(events.TopicViewportScroll, events.ViewportScrolled{
			DocumentID: d.id,
			OffsetX:    offset.X,
			OffsetY:    offset.Y,
		})
	}
	d.ExtendBaseWidget(d)

	return d
}

func (d *Document) ID() string {
	return d.id
}

// Bus returns the bus the document publishes its events on.
func (d *Document) Bus() bus.MessageBus {
	return d.bus
}

// Scroll exposes the scroll container wrapping the document content.
func (d *Document) Scroll() *container.Scroll {
	return d.scroll
}

// Viewport reports the visible part of the document.
func (d *Document) Viewport() tooltip.Viewport {
	size := d.Size()
	offset := d.scroll.Offset

	return tooltip.Viewport{
		Width:   size.Width,
		Height:  size.Height,
		ScrollX: offset.X,
		ScrollY: offset.Y,
	}
}

// ScrollTo moves the document to offset and notifies listeners.
func (d *Document) ScrollTo(offset fyne.Position) {
	d.scroll.Offset = offset
	d.scroll.Refresh()
	if d.scroll.OnScrolled != nil {
		d.scroll.OnScrolled(d.scroll.Offset)
	}
}

// Close drops the shared overlay layers of the document and closes the bus it
// owns.
func (d *Document) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	releaseContainers(d)
	if d.ownsBus {
		d.bus.Close()
	}
	d.logger.Debug("document closed")
}

// relativeBox returns the box of obj relative to the document's top-left
// corner, which is also the viewport origin. It returns false while obj is not
// attached to a canvas.
func (d *Document) relativeBox(obj fyne.CanvasObject) (tooltip.Rect, bool) {
	if obj == nil || !obj.Visible() {
		return tooltip.Rect{}, false
	}
	app := fyne.CurrentApp()
	if app == nil || app.Driver() == nil {
		return tooltip.Rect{}, false
	}
	drv := app.Driver()
	// No canvas can hold obj before the first window exists.
	if len(drv.AllWindows()) == 0 {
		return tooltip.Rect{}, false
	}
	if drv.CanvasForObject(obj) == nil || drv.CanvasForObject(d) == nil {
		return tooltip.Rect{}, false
	}

	pos := drv.AbsolutePositionForObject(obj).Subtract(drv.AbsolutePositionForObject(d))
	size := obj.Size()

	return tooltip.Rect{
		Top:    pos.Y,
		Left:   pos.X,
		Width:  size.Width,
		Height: size.Height,
	}, true
}

func (d *Document) addLayer(layer *fyne.Container) {
	d.mu.Lock()
	d.layers = append(d.layers, layer)
	d.mu.Unlock()
	d.Refresh()
}

// RemoveLayer detaches a shared overlay layer from the document. The next
// tooltip that needs it creates a fresh one.
func (d *Document) RemoveLayer(layer *fyne.Container) {
	d.mu.Lock()
	removed := false
	for i, existing := range d.layers {
		if existing == layer {
			d.layers = append(d.layers[:i], d.layers[i+1:]...)
			removed = true
			break
		}
	}
	d.mu.Unlock()
	if removed {
		d.Refresh()
	}
}

func (d *Document) hasLayer(layer *fyne.Container) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, existing := range d.layers {
		if existing == layer {
			return true
		}
	}

	return false
}

func (d *Document) layerCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.layers)
}

func (d *Document) objects() []fyne.CanvasObject {
	d.mu.Lock()
	defer d.mu.Unlock()

	objects := make([]fyne.CanvasObject, 0, len(d.layers)+1)
	objects = append(objects, d.scroll)
	for _, layer := range d.layers {
		objects = append(objects, layer)
	}

	return objects
}

// viewportResized publishes a resize event when the document size changed.
func (d *Document) viewportResized(size fyne.Size) {
	d.mu.Lock()
	if d.lastSize == size {
		d.mu.Unlock()
		return
	}
	d.lastSize = size
	d.mu.Unlock()

	d.bus.TryPublish(events.TopicViewportResize, events.ViewportResized{
		DocumentID: d.id,
		Width:      size.Width,
		Height:     size.Height,
	})
}

func (d *Document) CreateRenderer() fyne.WidgetRenderer {
	return &documentRenderer{doc: d}
}

type documentRenderer struct {
	doc *Document
}

func (r *documentRenderer) Layout(size fyne.Size) {
	for _, obj := range r.doc.objects() {
		obj.Move(fyne.NewPos(0, 0))
		obj.Resize(size)
	}
	r.doc.viewportResized(size)
}

func (r *documentRenderer) MinSize() fyne.Size {
	return r.doc.scroll.MinSize()
}

func (r *documentRenderer) Refresh() {
	r.Layout(r.doc.Size())
	for _, obj := range r.doc.objects() {
		obj.Refresh()
	}
}

func (r *documentRenderer) Objects() []fyne.CanvasObject {
	return r.doc.objects()
}

func (r *documentRenderer) Destroy() {}
