package app

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	cachepkg "github.com/kk-code-lab/tpdf/internal/cache"
	"github.com/kk-code-lab/tpdf/internal/doc"
	"github.com/kk-code-lab/tpdf/internal/kitty"
	statepkg "github.com/kk-code-lab/tpdf/internal/state"
	inputui "github.com/kk-code-lab/tpdf/internal/ui/input"
	renderui "github.com/kk-code-lab/tpdf/internal/ui/render"
)

// Options configure application startup.
type Options struct {
	Paths    []string
	Page     int     // 1-based initial page, 0 restores the session page
	Scale    float64 // 0 keeps fit-to-window / the restored scale
	Dark     bool
	StateDir string // override for the session state directory
}

// shownFrame memoizes what is currently on the pixel plane so redraws with an
// unchanged view skip the retransmission.
type shownFrame struct {
	key      cachepkg.Key
	viewport statepkg.Viewport
	width    int
	height   int
	valid    bool
}

// Application represents the running app.
type Application struct {
	screen   tcell.Screen
	state    *statepkg.AppState
	reducer  *statepkg.StateReducer
	renderer *renderui.Renderer
	input    *inputui.InputHandler
	actionCh chan statepkg.Action

	encoder     *kitty.Encoder
	renderCache *cachepkg.RenderCache
	sched       *cachepkg.Scheduler
	geometry    renderui.CellGeometry

	sourceMu sync.Mutex
	sources  map[string]doc.Source // doc ID -> source, read by render workers

	watchStamps map[string]fileStamp
	lastShown   shownFrame

	clipboardCmd   []string
	clipboardAvail bool

	shouldQuit bool
}

type fileStamp struct {
	mod  time.Time
	size int64
}

// Close cleans up resources.
func (app *Application) Close() error {
	app.screen.Fini()
	return nil
}

func (app *Application) registerSource(id string, src doc.Source) {
	app.sourceMu.Lock()
	defer app.sourceMu.Unlock()
	app.sources[id] = src
}

func (app *Application) unregisterSource(id string) {
	app.sourceMu.Lock()
	defer app.sourceMu.Unlock()
	delete(app.sources, id)
}

func (app *Application) lookupSource(id string) (doc.Source, bool) {
	app.sourceMu.Lock()
	defer app.sourceMu.Unlock()
	src, ok := app.sources[id]
	return src, ok
}
