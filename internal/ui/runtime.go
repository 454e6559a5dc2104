package ui

import (
	"sync"

	"fyne.io/fyne/v2"
)

type uiRuntime struct {
	fyApp  fyne.App
	window fyne.Window

	stopFns []func()
	onQuit  func()

	shutdownOnce sync.Once
}

func newUIRuntime(fyApp fyne.App, window fyne.Window, onQuit func(), stopFns ...func()) *uiRuntime {
	return &uiRuntime{
		fyApp:   fyApp,
		window:  window,
		stopFns: stopFns,
		onQuit:  onQuit,
	}
}

func (r *uiRuntime) BindCloseIntercept() {
	if r.window == nil {
		return
	}
	r.window.SetCloseIntercept(func() {
		uiLogger.Debug("main window close requested: quitting")
		r.Quit()
	})
}

func (r *uiRuntime) Quit() {
	r.shutdownOnce.Do(func() {
		uiLogger.Info("quitting UI runtime")
		r.stop()
		if r.fyApp != nil {
			r.fyApp.Quit()
		}
	})
}

func (r *uiRuntime) Run() {
	if r.window != nil {
		r.window.Show()
	}
	if r.fyApp != nil {
		r.fyApp.Run()
	}
	uiLogger.Info("UI runtime stopped")
	r.shutdownOnce.Do(func() {
		r.stop()
	})
}

// stop runs the stop callbacks in reverse registration order.
func (r *uiRuntime) stop() {
	for i := len(r.stopFns) - 1; i >= 0; i-- {
		if r.stopFns[i] != nil {
			r.stopFns[i]()
		}
	}
	if r.onQuit != nil {
		r.onQuit()
	}
}
