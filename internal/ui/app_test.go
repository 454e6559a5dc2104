package ui

import (
	"testing"
	"time"

	fynetest "fyne.io/fyne/v2/test"

	"github.com/skobkin/fynetip/internal/bus"
	"github.com/skobkin/fynetip/internal/config"
	"github.com/skobkin/fynetip/internal/events"
	"github.com/skobkin/fynetip/internal/gallery"
	"github.com/skobkin/fynetip/internal/tooltip"
)

func TestBuildGalleryViewFromDefaultGallery(t *testing.T) {
	app := fynetest.NewApp()
	t.Cleanup(app.Quit)

	messageBus := bus.New(nil)
	t.Cleanup(messageBus.Close)
	g := defaultGallery(t)

	view, err := buildGalleryView(Dependencies{
		Config:  config.Default(),
		Gallery: g,
		Bus:     messageBus,
	})
	if err != nil {
		t.Fatalf("build gallery view: %v", err)
	}
	t.Cleanup(view.close)

	if len(view.tooltips) != g.ItemCount() {
		t.Fatalf("expected one tooltip per item, got %d want %d", len(view.tooltips), g.ItemCount())
	}
	if view.document.Bus() != bus.MessageBus(messageBus) {
		t.Fatalf("document must publish on the runtime bus")
	}

	modes := make(map[tooltip.Mode]bool)
	for _, tip := range view.tooltips {
		modes[tip.State().Mode] = true
	}
	for _, mode := range []tooltip.Mode{tooltip.ModeHover, tooltip.ModeClickToggle, tooltip.ModeControlled} {
		if !modes[mode] {
			t.Fatalf("expected a %s tooltip in the default gallery", mode)
		}
	}
}

func TestRunWithAppShowsGalleryWindow(t *testing.T) {
	base := fynetest.NewApp()
	t.Cleanup(base.Quit)
	app := &appRunWindowSpy{App: base}

	g := defaultGallery(t)
	cfg := config.Default()
	cfg.Window.Width, cfg.Window.Height = 500, 300
	var quits int
	err := runWithApp(Dependencies{
		Config:  cfg,
		Gallery: g,
		OnQuit:  func() { quits++ },
	}, app)
	if err != nil {
		t.Fatalf("run with app: %v", err)
	}

	if app.runCalls != 1 {
		t.Fatalf("expected app run once, got %d", app.runCalls)
	}
	window := app.createdWindow
	if window == nil || window.showCalls != 1 {
		t.Fatalf("expected gallery window to be shown")
	}
	if window.Title() != g.Title {
		t.Fatalf("unexpected window title: %q", window.Title())
	}
	if window.closeIntercept == nil {
		t.Fatalf("expected close intercept")
	}
	if quits != 1 {
		t.Fatalf("expected onQuit once after the app stopped, got %d", quits)
	}
}

func TestBuildGalleryViewRejectsBadBackground(t *testing.T) {
	app := fynetest.NewApp()
	t.Cleanup(app.Quit)

	cfg := config.Default()
	cfg.Tooltip.Background = "not-a-colour"

	if _, err := buildGalleryView(Dependencies{Config: cfg, Gallery: defaultGallery(t)}); err == nil {
		t.Fatalf("expected background error")
	}
}

func TestGalleryItemOverridesZIndex(t *testing.T) {
	app := fynetest.NewApp()
	t.Cleanup(app.Quit)

	g := gallery.Gallery{
		Title: "z",
		Sections: []gallery.Section{{
			Title: "s",
			Items: []gallery.Item{
				{Label: "a", Message: "m", Mode: gallery.ModeHover, Align: gallery.AlignLeft, Name: "low"},
				{Label: "b", Message: "m", Mode: gallery.ModeHover, Align: gallery.AlignRight, Name: "high", ZIndex: 2000},
			},
		}},
	}
	view, err := buildGalleryView(Dependencies{Config: config.Default(), Gallery: g})
	if err != nil {
		t.Fatalf("build gallery view: %v", err)
	}
	t.Cleanup(view.close)

	if got := view.tooltips["low"].opts.ZIndex; got != config.Default().Tooltip.ZIndex {
		t.Fatalf("expected configured z-index, got %d", got)
	}
	if got := view.tooltips["high"].opts.ZIndex; got != 2000 {
		t.Fatalf("expected item z-index, got %d", got)
	}
}

func TestFormatVisibility(t *testing.T) {
	at := time.Date(2024, 5, 1, 13, 4, 5, 120_000_000, time.UTC)

	tests := []struct {
		name   string
		change events.TooltipVisibility
		want   string
	}{
		{
			name:   "named shown",
			change: events.TooltipVisibility{Name: "toggle", Visible: true, Timestamp: at},
			want:   "toggle: shown at 13:04:05.120",
		},
		{
			name:   "unnamed hidden",
			change: events.TooltipVisibility{TooltipID: "0123456789abcdef", Timestamp: at},
			want:   "01234567: hidden at 13:04:05.120",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := formatVisibility(tc.change); got != tc.want {
				t.Fatalf("unexpected text: got %q want %q", got, tc.want)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name, id, want string
	}{
		{name: " basic ", id: "x", want: "basic"},
		{id: "abc", want: "abc"},
		{want: "tooltip"},
	}

	for _, tc := range tests {
		if got := displayName(tc.name, tc.id); got != tc.want {
			t.Fatalf("displayName(%q, %q) = %q, want %q", tc.name, tc.id, got, tc.want)
		}
	}
}

func defaultGallery(t *testing.T) gallery.Gallery {
	t.Helper()

	g, err := gallery.Default()
	if err != nil {
		t.Fatalf("load built-in gallery: %v", err)
	}
	return g
}
