package app

import (
	"context"
	"errors"
	"image"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"
	cachepkg "github.com/kk-code-lab/tpdf/internal/cache"
	"github.com/kk-code-lab/tpdf/internal/doc"
	"github.com/kk-code-lab/tpdf/internal/kitty"
	"github.com/kk-code-lab/tpdf/internal/session"
	statepkg "github.com/kk-code-lab/tpdf/internal/state"
	"github.com/kk-code-lab/tpdf/internal/ui/input"
	renderui "github.com/kk-code-lab/tpdf/internal/ui/render"
)

// watchInterval is how often the active document is polled for on-disk
// changes.
const watchInterval = 300 * time.Millisecond

// ErrNoDocuments is returned when every given path failed to open.
var ErrNoDocuments = errors.New("no document could be opened")

func NewApplication(opts Options) (*Application, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	// Parse mouse sequences so wheel scrolling pages the document.
	screen.EnableMouse()

	store := openStore(opts.StateDir)

	app := &Application{
		screen:      screen,
		actionCh:    make(chan statepkg.Action, 10),
		encoder:     kitty.NewEncoder(os.Stdout),
		renderCache: cachepkg.NewRenderCache(cachepkg.DefaultCapacity),
		sources:     make(map[string]doc.Source),
		watchStamps: make(map[string]fileStamp),
		geometry:    renderui.DetectCellGeometry(os.Stdout),
	}
	app.clipboardCmd, app.clipboardAvail = detectClipboard()

	state, anyOpen := app.openDocuments(opts, store)
	if !anyOpen {
		screen.Fini()
		return nil, ErrNoDocuments
	}
	w, h := screen.Size()
	state.ScreenWidth = w
	state.ScreenHeight = h
	g := app.geometry.OrDefault()
	state.CellWidth = g.CellWidth
	state.CellHeight = g.CellHeight

	state.SetDispatch(func(action statepkg.Action) {
		select {
		case app.actionCh <- action:
		default:
			go func() { app.actionCh <- action }()
		}
	})

	if store != nil {
		app.reducer = statepkg.NewStateReducer(store)
	} else {
		app.reducer = statepkg.NewStateReducer(nil)
	}
	app.renderer = renderui.NewRenderer(screen)
	app.input = input.NewInputHandler(app.actionCh)
	app.input.SetState(state)
	app.state = state

	app.sched = cachepkg.NewScheduler(app.renderPage, app.renderCache, func(o cachepkg.Outcome) {
		state.Dispatch(statepkg.RenderCompleteAction{DocID: o.Key.Doc, Token: o.Token, Err: o.Err})
	})
	app.sched.Start()

	return app, nil
}

// openStore builds the session store, falling back to no persistence when the
// state directory is unusable.
func openStore(override string) *session.FileStore {
	dir := override
	if dir == "" {
		var err error
		dir, err = session.DefaultDir()
		if err != nil {
			log.Printf("session persistence disabled: %v", err)
			return nil
		}
	}
	store, err := session.NewFileStore(dir)
	if err != nil {
		log.Printf("session persistence disabled: %v", err)
		return nil
	}
	return store
}

// openDocuments opens every path, restoring persisted state and applying
// command-line overrides. Paths that fail stay in the registry as errored
// slots so the rest of the session is usable.
func (app *Application) openDocuments(opts Options, store *session.FileStore) (*statepkg.AppState, bool) {
	state := &statepkg.AppState{}
	anyOpen := false
	for _, path := range opts.Paths {
		d := app.openDocument(path, opts, store)
		if d.OpenErr == nil {
			anyOpen = true
		}
		state.Docs = append(state.Docs, d)
	}
	return state, anyOpen
}

func (app *Application) openDocument(path string, opts Options, store *session.FileStore) *statepkg.DocState {
	identity, err := doc.ResolveIdentity(path)
	if err != nil {
		log.Printf("open %s: %v", path, err)
		return statepkg.NewFailedDocState(path, err)
	}
	src, err := doc.OpenFitz(identity.Path)
	if err != nil {
		log.Printf("open %s: %v", path, err)
		return statepkg.NewFailedDocState(identity.Path, err)
	}

	d := statepkg.NewDocState(identity, src)
	if store != nil {
		if snap, found, err := store.Load(identity.ID); err != nil {
			log.Printf("restore %s: %v", identity.ID, err)
		} else if found {
			d.ApplySnapshot(snap)
		}
	}
	applyOverrides(d, opts)

	app.registerSource(identity.ID, src)
	if stamp, ok := statFile(identity.Path); ok {
		app.watchStamps[identity.ID] = stamp
	}
	return d
}

func applyOverrides(d *statepkg.DocState, opts Options) {
	if opts.Page > 0 {
		page := opts.Page - 1
		if page > d.PageCount-1 {
			page = d.PageCount - 1
		}
		d.Page = page
	}
	if opts.Scale != 0 {
		scale := opts.Scale
		if scale < statepkg.MinScale {
			scale = statepkg.MinScale
		} else if scale > statepkg.MaxScale {
			scale = statepkg.MaxScale
		}
		d.Scale = scale
	}
	if opts.Dark {
		d.Dark = true
	}
}

// renderPage is the decode function run by scheduler workers.
func (app *Application) renderPage(ctx context.Context, key cachepkg.Key, scale float64) (*image.RGBA, error) {
	src, ok := app.lookupSource(key.Doc)
	if !ok {
		return nil, errors.New("document closed")
	}
	img, err := src.RenderPage(ctx, key.Page, scale)
	if err != nil {
		return nil, err
	}
	if key.Dark {
		img = doc.Invert(img)
	}
	return img, nil
}

func (app *Application) Run() {
	defer app.sched.Stop()

	app.renderer.Render(app.state)
	app.syncDisplay()
	renderPending := false

	eventChan := make(chan tcell.Event)
	go func() {
		for {
			eventChan <- app.screen.PollEvent()
		}
	}()

	var sigContCh chan os.Signal
	if sigs := contSignals(); len(sigs) > 0 {
		sigContCh = make(chan os.Signal, 1)
		signal.Notify(sigContCh, sigs...)
		defer signal.Stop(sigContCh)
	}

	watchTicker := time.NewTicker(watchInterval)
	defer watchTicker.Stop()

	for !app.shouldQuit {
		if renderPending {
			app.renderer.Render(app.state)
			app.syncDisplay()
			renderPending = false
		}

		select {
		case ev := <-eventChan:
			if app.handleEvent(ev) {
				renderPending = true
			}
		case action := <-app.actionCh:
			if app.handleAction(action) {
				renderPending = true
			}
		case <-watchTicker.C:
			if app.checkFileChange() {
				renderPending = true
			}
		case <-sigContCh:
			if app.resumeAfterStop() {
				renderPending = true
			}
		}

		if app.processActions() {
			renderPending = true
		}
	}

	// The debounce must not be outrun by process exit.
	for _, d := range app.state.Docs {
		app.reducer.SaveNow(d)
	}
	_ = app.encoder.Clear()
}

func (app *Application) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if !app.input.ProcessEvent(ev) {
			app.shouldQuit = true
		}
	case *tcell.EventResize:
		if !app.input.ProcessEvent(ev) {
			app.shouldQuit = true
		}
	case *tcell.EventMouse:
		return app.handleMouse(ev)
	case *tcell.EventInterrupt:
		return true
	default:
		return false
	}
	return true
}

// handleMouse pages the document with the scroll wheel.
func (app *Application) handleMouse(ev *tcell.EventMouse) bool {
	switch {
	case ev.Buttons()&tcell.WheelDown != 0:
		app.actionCh <- statepkg.PageForwardAction{}
	case ev.Buttons()&tcell.WheelUp != 0:
		app.actionCh <- statepkg.PageBackwardAction{}
	default:
		return false
	}
	return true
}

func (app *Application) processActions() bool {
	changed := false
	for {
		select {
		case action := <-app.actionCh:
			if app.handleAction(action) {
				changed = true
			}
		default:
			return changed
		}
	}
}

func (app *Application) handleAction(action statepkg.Action) bool {
	if action == nil {
		return false
	}

	switch action.(type) {
	case statepkg.QuitAction:
		app.shouldQuit = true
		return false
	case statepkg.SuspendAction:
		app.consumePending()
		app.suspendToShell()
		app.resumeAfterStop()
		return true
	case statepkg.CloseDocumentAction:
		app.consumePending()
		return app.closeActiveDocument()
	case statepkg.ForceRenderAction:
		app.consumePending()
		return app.forceRender()
	case statepkg.YankPathAction:
		app.consumePending()
		return app.handleClipboard()
	case statepkg.ResizeAction:
		// Font or window changes move the cell pixel ratio under us.
		app.geometry = renderui.DetectCellGeometry(os.Stdout)
		g := app.geometry.OrDefault()
		app.state.CellWidth = g.CellWidth
		app.state.CellHeight = g.CellHeight
		app.invalidateShown()
	}

	if _, err := app.reducer.Reduce(app.state, action); err != nil {
		app.state.LastError = err
	}
	return true
}

// consumePending discards a numeric prefix before an action the reducer never
// sees; these commands are not repeatable, so the count just evaporates.
func (app *Application) consumePending() {
	if _, err := app.reducer.Reduce(app.state, statepkg.CountResetAction{}); err != nil {
		app.state.LastError = err
	}
}

func (app *Application) closeActiveDocument() bool {
	d := app.reducer.CloseActiveDocument(app.state)
	if d == nil {
		app.shouldQuit = true
		return false
	}
	if d.ID != "" {
		app.unregisterSource(d.ID)
		app.renderCache.DropDoc(d.ID)
		delete(app.watchStamps, d.ID)
	}
	if d.Source != nil {
		_ = d.Source.Close()
	}
	if len(app.state.Docs) == 0 {
		app.shouldQuit = true
		return false
	}
	app.invalidateShown()
	return true
}

// forceRender drops any cached raster or error marker for the displayed key
// and decodes it again.
func (app *Application) forceRender() bool {
	d := app.state.ActiveDoc()
	if d == nil || d.OpenErr != nil {
		return false
	}
	key, _ := app.displayKey(d)
	app.renderCache.Forget(key)
	app.invalidateShown()
	return true
}

// checkFileChange polls the active document for on-disk modification and
// reloads it in place, preserving clamped view state.
func (app *Application) checkFileChange() bool {
	d := app.state.ActiveDoc()
	if d == nil || d.OpenErr != nil || d.ID == "" {
		return false
	}
	stamp, ok := statFile(d.Path)
	if !ok {
		return false
	}
	prev, seen := app.watchStamps[d.ID]
	app.watchStamps[d.ID] = stamp
	if !seen || prev == stamp {
		return false
	}

	src, err := doc.OpenFitz(d.Path)
	if err != nil {
		log.Printf("reload %s: %v", d.Path, err)
		app.state.Notice = "file changed but reload failed"
		return true
	}
	old := d.Source
	app.registerSource(d.ID, src)
	d.Source = src
	if old != nil {
		_ = old.Close()
	}
	app.renderCache.DropDoc(d.ID)
	app.invalidateShown()
	if _, err := app.reducer.Reduce(app.state, statepkg.DocumentReloadedAction{
		Index:     app.state.Active,
		PageCount: src.PageCount(),
	}); err != nil {
		app.state.LastError = err
	}
	return true
}

func statFile(path string) (fileStamp, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return fileStamp{}, false
	}
	return fileStamp{mod: info.ModTime(), size: info.Size()}, true
}
