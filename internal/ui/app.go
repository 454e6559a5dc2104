package ui

import (
	"fmt"
	"image/color"
	"log/slog"
	"strings"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	appinfo "github.com/skobkin/fynetip/internal/app"
	"github.com/skobkin/fynetip/internal/bus"
	"github.com/skobkin/fynetip/internal/config"
	"github.com/skobkin/fynetip/internal/events"
	"github.com/skobkin/fynetip/internal/gallery"
	"github.com/skobkin/fynetip/internal/resources"
)

// Dependencies wires the gallery window to the app runtime.
type Dependencies struct {
	Config  config.AppConfig
	Gallery gallery.Gallery
	Bus     bus.MessageBus
	Logger  *slog.Logger
	OnQuit  func()
}

var newFyneApp = func() fyne.App {
	return fyneapp.NewWithID(appinfo.AppID)
}

func Run(dep Dependencies) error {
	return runWithApp(dep, newFyneApp())
}

func runWithApp(dep Dependencies, fyApp fyne.App) error {
	view, err := buildGalleryView(dep)
	if err != nil {
		return err
	}
	uiLogger.Info(
		"starting UI runtime",
		"gallery", dep.Gallery.Title,
		"tooltips", len(view.tooltips),
		"theme", fyApp.Settings().ThemeVariant(),
	)

	title := dep.Gallery.Title
	if title == "" {
		title = appinfo.Name
	}
	icon := resources.AppIconResource(fyApp.Settings().ThemeVariant())
	fyApp.SetIcon(icon)
	window := fyApp.NewWindow(title)
	window.SetIcon(icon)
	window.Resize(fyne.NewSize(dep.Config.Window.Width, dep.Config.Window.Height))
	window.SetContent(view.content)

	stopVisibility := startVisibilityListener(view.document.Bus(), func(change events.TooltipVisibility) {
		text := formatVisibility(change)
		fyne.Do(func() {
			view.status.SetText(text)
		})
	})

	uiRuntime := newUIRuntime(fyApp, window, dep.OnQuit, view.close, stopVisibility)
	uiRuntime.BindCloseIntercept()
	uiRuntime.Run()

	return nil
}

type galleryView struct {
	content  fyne.CanvasObject
	document *Document
	status   *widget.Label
	tooltips map[string]*Tooltip
	close    func()
}

func buildGalleryView(dep Dependencies) (*galleryView, error) {
	logger := dep.Logger
	if logger == nil {
		logger = slog.With("component", "ui.gallery")
	}
	background, err := dep.Config.Tooltip.BackgroundColor()
	if err != nil {
		return nil, fmt.Errorf("resolve tooltip background: %w", err)
	}

	view := &galleryView{
		status:   widget.NewLabel("Hover or click a trigger"),
		tooltips: make(map[string]*Tooltip),
	}
	body := container.NewVBox(widget.NewLabelWithStyle(dep.Gallery.Title, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
	view.document = NewDocument(body, DocumentOptions{
		Bus:         dep.Bus,
		ContainerID: dep.Config.Tooltip.ContainerID,
		Logger:      logger,
	})

	for _, section := range dep.Gallery.Sections {
		body.Add(widget.NewSeparator())
		body.Add(widget.NewLabelWithStyle(section.Title, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
		if section.Description != "" {
			description := widget.NewLabel(section.Description)
			description.Wrapping = fyne.TextWrapWord
			body.Add(description)
		}
		for i, item := range section.Items {
			key := item.Name
			if key == "" {
				key = fmt.Sprintf("%s#%d", section.Title, i)
			}
			row, tip, err := view.buildItem(dep, item, background, logger)
			if err != nil {
				return nil, fmt.Errorf("build gallery item %q: %w", key, err)
			}
			view.tooltips[key] = tip
			body.Add(row)
			if snippet := strings.TrimRight(item.Snippet, "\n"); snippet != "" {
				body.Add(widget.NewLabelWithStyle(snippet, fyne.TextAlignLeading, fyne.TextStyle{Monospace: true}))
			}
		}
	}

	// Room to scroll the last rows to the top edge.
	tail := canvas.NewRectangle(color.Transparent)
	tail.SetMinSize(fyne.NewSize(1, dep.Config.Window.Height/2))
	body.Add(tail)

	view.content = container.NewBorder(nil, view.status, nil, nil, view.document)
	view.close = func() {
		for _, tip := range view.tooltips {
			tip.Destroy()
		}
		view.document.Close()
	}

	return view, nil
}

func (v *galleryView) buildItem(
	dep Dependencies,
	item gallery.Item,
	fallbackBackground color.Color,
	logger *slog.Logger,
) (fyne.CanvasObject, *Tooltip, error) {
	background := fallbackBackground
	if item.Background != "" {
		resolved, err := item.BackgroundColor(dep.Config.Tooltip.Opacity)
		if err != nil {
			return nil, nil, err
		}
		background = resolved
	}

	opts := Options{
		ClickMode:          item.Mode == gallery.ModeClick,
		DefaultVisible:     item.DefaultVisible,
		ZIndex:             item.ZIndex,
		ContainerID:        dep.Config.Tooltip.ContainerID,
		Background:         background,
		Style:              Style{TextSize: item.TextSize},
		Name:               item.Name,
		TransitionDuration: dep.Config.Tooltip.TransitionDuration(),
		Logger:             logger,
	}
	if opts.ZIndex == 0 {
		opts.ZIndex = dep.Config.Tooltip.ZIndex
	}
	if item.Mode == gallery.ModeControlled {
		hidden := false
		opts.Visible = &hidden
	}
	if item.Clickable {
		name := item.Name
		opts.OnMessageClick = func() {
			v.status.SetText(fmt.Sprintf("%s: message clicked", displayName(name, "")))
		}
	}

	tip := NewTooltip(v.document, newTriggerFace(item.Label), TextMessage(item.Message), opts)

	objects := []fyne.CanvasObject{tip}
	if item.Mode == gallery.ModeControlled {
		objects = append(objects, widget.NewCheck("Show", func(on bool) {
			tip.SetVisible(&on)
		}))
	}

	var row *fyne.Container
	switch item.Align {
	case gallery.AlignCenter:
		row = container.NewHBox(append(append([]fyne.CanvasObject{layout.NewSpacer()}, objects...), layout.NewSpacer())...)
	case gallery.AlignRight:
		reversed := make([]fyne.CanvasObject, 0, len(objects)+1)
		reversed = append(reversed, layout.NewSpacer())
		for i := len(objects) - 1; i >= 0; i-- {
			reversed = append(reversed, objects[i])
		}
		row = container.NewHBox(reversed...)
	default:
		row = container.NewHBox(append(objects, layout.NewSpacer())...)
	}

	return row, tip, nil
}

// newTriggerFace draws a button-like surface that leaves pointer events to
// the wrapping tooltip.
func newTriggerFace(label string) fyne.CanvasObject {
	bg := canvas.NewRectangle(theme.Color(theme.ColorNameButton))
	bg.CornerRadius = theme.InputRadiusSize()

	return container.NewStack(bg, container.NewPadded(widget.NewLabel(label)))
}

func formatVisibility(change events.TooltipVisibility) string {
	state := "hidden"
	if change.Visible {
		state = "shown"
	}

	return fmt.Sprintf(
		"%s: %s at %s",
		displayName(change.Name, change.TooltipID),
		state,
		change.Timestamp.Format("15:04:05.000"),
	)
}

func displayName(name, id string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	if len(id) > 8 {
		return id[:8]
	}
	if id == "" {
		return "tooltip"
	}

	return id
}
