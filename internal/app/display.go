package app

import (
	cachepkg "github.com/kk-code-lab/tpdf/internal/cache"
	"github.com/kk-code-lab/tpdf/internal/doc"
	"github.com/kk-code-lab/tpdf/internal/kitty"
	statepkg "github.com/kk-code-lab/tpdf/internal/state"
	renderui "github.com/kk-code-lab/tpdf/internal/ui/render"
)

// prefetchRadius is how many pages on each side of the displayed one are
// decoded speculatively.
const prefetchRadius = 2

// invalidateShown forces the next syncDisplay to retransmit even when the
// view key is unchanged (resume, resize, reload, forced re-render).
func (app *Application) invalidateShown() {
	app.lastShown = shownFrame{}
}

// syncDisplay reconciles the pixel plane with the state: pin the displayed
// key, transmit it when cached, otherwise schedule a decode and keep the
// previous frame until the result lands.
func (app *Application) syncDisplay() {
	d := app.state.ActiveDoc()
	if d == nil || d.OpenErr != nil {
		if app.lastShown.valid {
			_ = app.encoder.Clear()
			app.invalidateShown()
		}
		return
	}

	winW, winH := renderui.ContentWindowPx(app.state.ScreenWidth, app.state.ScreenHeight, app.geometry)
	key, scale := app.displayKey(d)
	app.renderCache.Pin(key)

	res, ok := app.renderCache.Lookup(key)
	if !ok {
		app.sched.Request(cachepkg.Request{
			Key:      key,
			Scale:    scale,
			Token:    d.RenderToken,
			Priority: cachepkg.PriorityUser,
		})
		return
	}
	if res.Err != nil {
		// The status line carries the message; leave no stale pixels up.
		if app.lastShown.valid {
			_ = app.encoder.Clear()
			app.invalidateShown()
		}
		return
	}

	frame := shownFrame{
		key:      key,
		viewport: d.Viewport,
		width:    app.state.ScreenWidth,
		height:   app.state.ScreenHeight,
		valid:    true,
	}
	if frame == app.lastShown {
		app.prefetchAround(d, scale)
		return
	}

	visible := doc.CropViewport(res.Img, d.Viewport.X, d.Viewport.Y, winW, winH)
	bounds := visible.Bounds()
	pl := renderui.PlaceImage(bounds.Dx(), bounds.Dy(), app.state.ScreenWidth, app.state.ScreenHeight, app.geometry)
	if _, err := app.encoder.Transmit(visible, kitty.Placement{
		Col:  pl.Col,
		Row:  pl.Row,
		Cols: pl.Cols,
		Rows: pl.Rows,
	}); err != nil {
		app.state.LastError = err
		return
	}
	app.lastShown = frame

	app.prefetchAround(d, scale)
}

func (app *Application) prefetchAround(d *statepkg.DocState, scale float64) {
	app.sched.PrefetchNeighbors(d.ID, d.Page, d.PageCount, scale, d.Dark, prefetchRadius, d.RenderToken)
}

// displayKey resolves the fit sentinel against the current window and builds
// the cache key for the visible page.
func (app *Application) displayKey(d *statepkg.DocState) (cachepkg.Key, float64) {
	scale := d.Scale
	if scale == statepkg.ScaleFit {
		scale = app.fitScale(d)
	}
	return cachepkg.NewKey(d.ID, d.Page, scale, d.Dark), scale
}

func (app *Application) fitScale(d *statepkg.DocState) float64 {
	size, err := d.Source.PageSize(d.Page)
	if err != nil {
		return 1.0
	}
	winW, winH := renderui.ContentWindowPx(app.state.ScreenWidth, app.state.ScreenHeight, app.geometry)
	scale := renderui.FitScale(size.X, size.Y, winW, winH)
	if scale < statepkg.MinScale {
		return statepkg.MinScale
	}
	if scale > statepkg.MaxScale {
		return statepkg.MaxScale
	}
	return scale
}
