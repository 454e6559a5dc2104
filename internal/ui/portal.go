package ui

import (
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
)

type layerKey struct {
	document string
	id       string
}

// sharedLayers tracks the overlay layer of every document and container id.
// It is process-wide; every access holds mu.
var sharedLayers = struct {
	mu      sync.Mutex
	entries map[layerKey]*fyne.Container
}{
	entries: make(map[layerKey]*fyne.Container),
}

// EnsureContainer returns the shared overlay layer named id in doc. The layer
// is created on first use and created again if it was removed from the
// document meanwhile. An empty id selects the document's default layer.
func EnsureContainer(doc *Document, id string) *fyne.Container {
	if doc == nil {
		return nil
	}
	id = strings.TrimSpace(id)
	if id == "" {
		id = doc.containerID
	}

	sharedLayers.mu.Lock()
	defer sharedLayers.mu.Unlock()

	key := layerKey{document: doc.id, id: id}
	if layer, ok := sharedLayers.entries[key]; ok && doc.hasLayer(layer) {
		return layer
	}

	layer := container.NewWithoutLayout()
	sharedLayers.entries[key] = layer
	doc.addLayer(layer)
	doc.logger.Debug("created shared overlay layer", "container_id", id)

	return layer
}

func releaseContainers(doc *Document) {
	sharedLayers.mu.Lock()
	var released []*fyne.Container
	for key, layer := range sharedLayers.entries {
		if key.document != doc.id {
			continue
		}
		released = append(released, layer)
		delete(sharedLayers.entries, key)
	}
	sharedLayers.mu.Unlock()

	for _, layer := range released {
		doc.RemoveLayer(layer)
	}
}

// zOrdered is implemented by layer objects that carry a stacking order.
type zOrdered interface {
	ZIndex() int
}

// insertByZIndex adds obj to layer after every object with a z-index lower
// than or equal to z, so later overlays of the same z-index draw on top.
func insertByZIndex(layer *fyne.Container, obj fyne.CanvasObject, z int) {
	at := len(layer.Objects)
	for i, existing := range layer.Objects {
		ordered, ok := existing.(zOrdered)
		if ok && ordered.ZIndex() > z {
			at = i
			break
		}
	}

	objects := make([]fyne.CanvasObject, 0, len(layer.Objects)+1)
	objects = append(objects, layer.Objects[:at]...)
	objects = append(objects, obj)
	objects = append(objects, layer.Objects[at:]...)
	layer.Objects = objects
	layer.Refresh()
}
