// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of gridbind

package view

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"github.com/gridbind/gridbind/internal/config"
	"github.com/gridbind/gridbind/internal/dao"
	"github.com/gridbind/gridbind/internal/grid"
	"github.com/gridbind/gridbind/internal/metrics"
	"github.com/gridbind/gridbind/internal/model"
	"github.com/gridbind/gridbind/internal/ui"
	"github.com/rs/zerolog"
)

const (
	// FlashDelay sets the flash auto-clear delay.
	FlashDelay = 5 * time.Second

	helpPage = "help"
)

// FlashLevel represents flash message severity.
type FlashLevel int

const (
	// FlashInfo represents an info message.
	FlashInfo FlashLevel = iota
	// FlashWarn represents a warning message.
	FlashWarn
	// FlashErr represents an error message.
	FlashErr
)

// Flash handles flash messages in the application.
type Flash struct {
	*tview.TextView
	app    *App
	cancel context.CancelFunc
	mx     sync.RWMutex
}

// NewFlash creates a new Flash instance.
func NewFlash(app *App) *Flash {
	f := &Flash{
		TextView: tview.NewTextView(),
		app:      app,
	}
	f.SetDynamicColors(true)
	f.SetTextAlign(tview.AlignLeft)
	f.SetBorderPadding(0, 0, 1, 1)
	return f
}

// Info displays an informational message.
func (f *Flash) Info(msg string) {
	f.setMessage(FlashInfo, msg)
}

// Infof displays a formatted informational message.
func (f *Flash) Infof(format string, args ...any) {
	f.Info(fmt.Sprintf(format, args...))
}

// Warn displays a warning message.
func (f *Flash) Warn(msg string) {
	f.setMessage(FlashWarn, msg)
}

// Warnf displays a formatted warning message.
func (f *Flash) Warnf(format string, args ...any) {
	f.Warn(fmt.Sprintf(format, args...))
}

// Err displays an error message.
func (f *Flash) Err(err error) {
	if err != nil {
		f.setMessage(FlashErr, err.Error())
	}
}

// Errf displays a formatted error message.
func (f *Flash) Errf(format string, args ...any) {
	f.setMessage(FlashErr, fmt.Sprintf(format, args...))
}

// Clear clears the flash message.
func (f *Flash) Clear() {
	f.mx.Lock()
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.mx.Unlock()

	f.update(func() { f.TextView.Clear() })
}

// Text returns the displayed message.
func (f *Flash) Text() string {
	return f.GetText(true)
}

func (f *Flash) update(fn func()) {
	if f.app != nil {
		f.app.QueueUpdateDraw(fn)
		return
	}
	fn()
}

func (f *Flash) setMessage(level FlashLevel, msg string) {
	f.mx.Lock()
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.mx.Unlock()

	if msg == "" {
		f.Clear()
		return
	}
	if f.app != nil {
		f.app.logFlash(level, msg)
	}

	f.update(func() {
		f.TextView.Clear()
		f.SetTextColor(flashColor(level))
		fmt.Fprintf(f.TextView, "%s %s", flashPrefix(level), msg)
	})

	ctx, cancel := context.WithCancel(context.Background())
	f.mx.Lock()
	f.cancel = cancel
	f.mx.Unlock()

	go f.autoClear(ctx)
}

func (f *Flash) autoClear(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(FlashDelay):
		f.Clear()
	}
}

func flashColor(level FlashLevel) tcell.Color {
	switch level {
	case FlashWarn:
		return tcell.ColorYellow
	case FlashErr:
		return tcell.ColorRed
	default:
		return tcell.ColorGreen
	}
}

func flashPrefix(level FlashLevel) string {
	switch level {
	case FlashWarn:
		return "[WARN]"
	case FlashErr:
		return "[ERROR]"
	default:
		return "[INFO]"
	}
}

// AppOption configures an App.
type AppOption func(*App)

// WithLogger sets the application logger.
func WithLogger(l zerolog.Logger) AppOption {
	return func(a *App) {
		a.log = l
	}
}

// WithStore sets the store sources are loaded from.
func WithStore(s *dao.Store) AppOption {
	return func(a *App) {
		a.store = s
	}
}

// WithMetrics feeds every bound grid into c.
func WithMetrics(c *metrics.Collector) AppOption {
	return func(a *App) {
		a.metrics = c
	}
}

// WithAliases sets the command aliases.
func WithAliases(al *config.Aliases) AppOption {
	return func(a *App) {
		a.aliases = al
	}
}

// WithHotKeys sets the user hotkeys.
func WithHotKeys(h *config.HotKeys) AppOption {
	return func(a *App) {
		a.hotKeys = h
	}
}

// App represents the main application container.
type App struct {
	*tview.Application

	version string
	Main    *tview.Pages
	Content *ui.Pages
	cfg     *config.Config
	aliases *config.Aliases
	hotKeys *config.HotKeys
	store   *dao.Store
	metrics *metrics.Collector
	command *Command
	cmdBar  *ui.CmdBar
	menu    *ui.Menu
	crumbs  *ui.Crumbs
	flash   *Flash
	help    *Help
	info    *SourceInfo
	log     zerolog.Logger
	running bool
	quit    chan struct{}
	mx      sync.RWMutex
}

// NewApp creates a new application instance.
func NewApp(cfg *config.Config, version string, opts ...AppOption) *App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	app := App{
		Application: tview.NewApplication(),
		version:     version,
		Main:        tview.NewPages(),
		Content:     ui.NewPages(),
		cfg:         cfg,
		aliases:     config.NewAliases(),
		hotKeys:     config.NewHotKeys(),
		log:         zerolog.Nop(),
		quit:        make(chan struct{}),
	}
	for _, o := range opts {
		o(&app)
	}
	if app.store == nil {
		app.store = dao.NewStore(dao.NewFactory(""), time.Minute)
	}

	app.flash = NewFlash(&app)
	app.menu = ui.NewMenu()
	app.crumbs = ui.NewCrumbs(app.Content.Stack)
	app.cmdBar = ui.NewCmdBar()
	app.help = NewHelp()
	app.info = NewSourceInfo()
	app.command = NewCommand(&app)

	app.Content.AddListener(app.menu)
	app.Content.AddListener(app.crumbs)
	app.Application.SetInputCapture(app.keyboard)

	app.cmdBar.SetActiveFn(func(active bool) {
		if active {
			app.SetFocus(app.cmdBar)
			return
		}
		if c := app.Content.Current(); c != nil {
			app.SetFocus(c)
		}
	})
	app.cmdBar.SetCommandFn(func(cmd string) {
		if err := app.command.Run(cmd); err != nil {
			app.flash.Err(err)
		}
	})
	app.cmdBar.SetFilterFn(app.applyFilter)
	app.cmdBar.SetCancelFn(func() { app.applyFilter("") })

	return &app
}

// Init builds the application layout.
func (a *App) Init() error {
	a.cmdBar.AddCommands(a.hotKeys.Names())
	a.info.SetInfo(SourceInfoData{Version: a.version})

	a.Main.AddPage("main", a.buildLayout(), true, true)
	a.SetRoot(a.Main, true)
	a.EnableMouse(a.cfg.GridBind.UI.EnableMouse)

	return nil
}

// Run opens file and starts the event loop.
func (a *App) Run(file string) error {
	a.mx.Lock()
	a.running = true
	a.mx.Unlock()

	if file != "" {
		if err := a.command.Open(file); err != nil {
			a.flash.Err(err)
		}
	}

	return a.Application.Run()
}

// Open replaces the content stack with a browser over file.
func (a *App) Open(file string) error {
	return a.command.Open(file)
}

// Stop stops the application.
func (a *App) Stop() {
	a.mx.Lock()
	defer a.mx.Unlock()

	if a.running {
		close(a.quit)
	}
	a.running = false
	a.Application.Stop()
}

// IsRunning returns whether the event loop is running.
func (a *App) IsRunning() bool {
	a.mx.RLock()
	defer a.mx.RUnlock()

	return a.running
}

// Flash returns the flash message handler.
func (a *App) Flash() *Flash {
	return a.flash
}

// CmdBar returns the command bar.
func (a *App) CmdBar() *ui.CmdBar {
	return a.cmdBar
}

// Config returns the application configuration.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Store returns the source store.
func (a *App) Store() *dao.Store {
	return a.store
}

// QueueUpdateDraw queues fn on the UI goroutine. It runs fn inline when the
// event loop is not running.
func (a *App) QueueUpdateDraw(fn func()) {
	if !a.IsRunning() {
		fn()
		return
	}
	go a.Application.QueueUpdateDraw(fn)
}

// Sync runs fn on the UI goroutine and waits for it. It must not be called
// from the UI goroutine while the event loop runs.
func (a *App) Sync(fn func()) {
	if !a.IsRunning() {
		fn()
		return
	}
	done := make(chan struct{})
	a.Application.QueueUpdateDraw(func() {
		defer close(done)
		fn()
	})
	select {
	case <-done:
	case <-a.quit:
	}
}

// GridOptions returns the options new grids are built with.
func (a *App) GridOptions(readOnly bool) []grid.Option {
	s := a.cfg.GridBind.GridSettings()
	s.ReadOnly = s.ReadOnly || readOnly
	opts := []grid.Option{
		grid.WithLogger(a.log),
		grid.WithSettings(s),
	}
	if a.metrics != nil {
		opts = append(opts, grid.WithManagerListener(a.metrics))
	}

	return opts
}

// ModelOptions returns the options new table models are built with.
func (a *App) ModelOptions() []model.Option {
	return []model.Option{
		model.WithUpdater(a.Sync),
		model.WithLogger(a.log),
	}
}

// Push shows c on top of the content stack.
func (a *App) Push(c ui.Component) error {
	if err := c.Init(context.Background()); err != nil {
		return err
	}
	a.Content.Push(c)
	a.SetFocus(c)
	c.Start()

	return nil
}

// Pop removes the top view, keeping the last one.
func (a *App) Pop() {
	if a.Content.StackSize() <= 1 {
		return
	}
	a.Content.Pop()
	if c := a.Content.Current(); c != nil {
		a.SetFocus(c)
	}
}

// SetSourceInfo updates the source panel.
func (a *App) SetSourceInfo(d SourceInfoData) {
	d.Version = a.version
	a.info.SetInfo(d)
}

func (a *App) logFlash(level FlashLevel, msg string) {
	switch level {
	case FlashErr:
		a.log.Error().Msg(msg)
	case FlashWarn:
		a.log.Warn().Msg(msg)
	default:
		a.log.Debug().Msg(msg)
	}
}

func (a *App) buildLayout() *tview.Flex {
	ui := a.cfg.GridBind.UI

	header := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(a.cmdBar, 0, 1, false)
	if !ui.Headless {
		header.AddItem(a.info, 32, 0, false)
	}

	bottom := tview.NewFlex().SetDirection(tview.FlexRow)
	if !ui.Crumbsless {
		bottom.AddItem(a.crumbs, 1, 0, false)
	}
	bottom.AddItem(a.flash, 1, 0, false)

	main := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(header, 3, 0, false)
	if !ui.Menuless && !ui.Headless {
		main.AddItem(a.menu, 4, 0, false)
	}
	main.AddItem(a.Content, 0, 1, true).
		AddItem(bottom, 2, 0, false)

	return main
}

// keyboard handles global keyboard events.
func (a *App) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	if a.Content.HasPage(helpPage) {
		if name, _ := a.Content.GetFrontPage(); name == helpPage {
			return evt
		}
	}
	if a.cmdBar.IsActive() {
		return evt
	}

	key := ui.AsKey(evt)
	if hk, ok := a.hotKeys.ForShortCut(ui.KeyName(key)); ok {
		if err := a.command.Run(hk.Command); err != nil {
			a.flash.Err(err)
		}
		if hk.Override {
			return nil
		}
	}

	switch key {
	case ui.KeyColon:
		a.cmdBar.Activate(ui.ModeCommand)
		return nil
	case ui.KeySlash:
		a.cmdBar.Activate(ui.ModeFilter)
		return nil
	case ui.KeyHelp:
		a.showHelp()
		return nil
	case ui.KeyQ:
		a.Stop()
		return nil
	case tcell.KeyCtrlC:
		a.Stop()
		return nil
	case tcell.KeyEsc:
		if a.cmdBar.GetFilterText() != "" {
			a.cmdBar.ClearFilter()
			return nil
		}
		a.Pop()
		return nil
	}

	return evt
}

// applyFilter narrows the current view.
func (a *App) applyFilter(filter string) {
	if f, ok := a.Content.Current().(ui.Filterable); ok {
		f.SetFilter(filter)
	}
}

// showHelp displays the key bindings over the content area.
func (a *App) showHelp() {
	a.help.SetCloseFn(func() {
		a.Content.Dismiss(helpPage)
		if c := a.Content.Current(); c != nil {
			a.SetFocus(c)
		}
	})
	if h, ok := a.Content.Current().(ui.Hinter); ok {
		a.help.SetHints(h.Hints())
	}
	a.Content.Show(helpPage, a.help)
	a.SetFocus(a.help)
}
