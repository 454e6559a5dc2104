package ui

import "fyne.io/fyne/v2"

type appRunQuitSpy struct {
	fyne.App
	runCalls  int
	quitCalls int
}

func (a *appRunQuitSpy) Run() {
	a.runCalls++
}

func (a *appRunQuitSpy) Quit() {
	a.quitCalls++
}

type appRunWindowSpy struct {
	fyne.App
	runCalls      int
	createdWindow *windowSpy
}

func (a *appRunWindowSpy) Run() {
	a.runCalls++
}

func (a *appRunWindowSpy) NewWindow(title string) fyne.Window {
	window := &windowSpy{Window: a.App.NewWindow(title)}
	a.createdWindow = window

	return window
}

type windowSpy struct {
	fyne.Window
	showCalls      int
	hideCalls      int
	closeIntercept func()
}

func (w *windowSpy) Show() {
	w.showCalls++
	if w.Window != nil {
		w.Window.Show()
	}
}

func (w *windowSpy) Hide() {
	w.hideCalls++
	if w.Window != nil {
		w.Window.Hide()
	}
}

func (w *windowSpy) SetCloseIntercept(fn func()) {
	w.closeIntercept = fn
	if w.Window != nil {
		w.Window.SetCloseIntercept(fn)
	}
}
