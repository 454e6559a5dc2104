package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"

	"github.com/skobkin/fynetip/internal/tooltip"
)

const messageLineSpacing = 2

// Message is the payload rendered inside a tooltip overlay.
type Message interface {
	// build renders the message. It returns the text objects whose colour
	// follows the overlay fade.
	build(style resolvedStyle) (fyne.CanvasObject, []*canvas.Text)
}

type textMessage string

// TextMessage renders plain text. Real newlines and literal `\n` sequences
// start a new line.
func TextMessage(text string) Message {
	return textMessage(text)
}

func (m textMessage) build(style resolvedStyle) (fyne.CanvasObject, []*canvas.Text) {
	lines := tooltip.SplitLines(string(m))
	texts := make([]*canvas.Text, 0, len(lines))
	objects := make([]fyne.CanvasObject, 0, len(lines))
	for _, line := range lines {
		text := canvas.NewText(line, style.textColor)
		text.TextSize = style.textSize
		texts = append(texts, text)
		objects = append(objects, text)
	}

	return container.New(layout.NewCustomPaddedVBoxLayout(messageLineSpacing), objects...), texts
}

type contentMessage struct {
	content fyne.CanvasObject
}

// ContentMessage renders an arbitrary canvas object as-is.
func ContentMessage(content fyne.CanvasObject) Message {
	return contentMessage{content: content}
}

func (m contentMessage) build(resolvedStyle) (fyne.CanvasObject, []*canvas.Text) {
	if m.content == nil {
		return canvas.NewRectangle(color.Transparent), nil
	}

	return m.content, nil
}
