package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/tpdf/internal/state"
	"github.com/kk-code-lab/tpdf/internal/textutil"
)

// Renderer draws the cell UI: the status line, transient messages and the
// help overlay. Page pixels are not its business; they travel straight to the
// terminal through the graphics encoder and occupy the rows above the status
// line.
type Renderer struct {
	screen tcell.Screen
	theme  ColorTheme
}

// NewRenderer creates a new renderer
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{
		screen: screen,
		theme:  GetColorTheme(),
	}
}

// Render draws the cell layer based on state.
func (r *Renderer) Render(state *statepkg.AppState) {
	r.screen.Clear()
	w, h := r.screen.Size()

	if d := state.ActiveDoc(); d != nil && d.OpenErr != nil {
		r.drawCenteredMessage(fmt.Sprintf("cannot open %s", d.Name), w, h, r.theme.ErrorFg)
	} else if len(state.Docs) == 0 {
		r.drawCenteredMessage("no documents open", w, h, r.theme.DimFg)
	}

	if state.HelpVisible {
		r.drawHelpOverlay(w, h)
	}

	r.drawStatusLine(state, w, h)
	r.screen.Show()
}

func (r *Renderer) drawStatusLine(state *statepkg.AppState, w, h int) {
	if h < 1 {
		return
	}
	y := h - 1
	style := tcell.StyleDefault.Background(r.theme.StatusBg).Foreground(r.theme.StatusFg)
	for x := 0; x < w; x++ {
		r.screen.SetContent(x, y, ' ', nil, style)
	}

	right := FormatStatusRight(state)
	rightStyle := style
	if state.Notice != "" && !state.SearchInputActive {
		rightStyle = style.Foreground(r.theme.NoticeFg)
	}
	rightWidth := textutil.DisplayWidth(right)

	leftBudget := w
	if rightWidth > 0 {
		leftBudget = w - rightWidth - 1
	}
	left := textutil.TruncateWidth(FormatStatusLeft(state), leftBudget)
	r.drawText(left, 0, y, style)
	if rightWidth > 0 && rightWidth <= w {
		r.drawText(right, w-rightWidth, y, rightStyle)
	}
}

func (r *Renderer) drawCenteredMessage(msg string, w, h int, fg tcell.Color) {
	msg = textutil.TruncateWidth(msg, w)
	x := (w - textutil.DisplayWidth(msg)) / 2
	if x < 0 {
		x = 0
	}
	y := ContentRows(h) / 2
	r.drawText(msg, x, y, tcell.StyleDefault.Foreground(fg))
}

func (r *Renderer) drawText(text string, x, y int, style tcell.Style) {
	col := x
	for _, ru := range text {
		r.screen.SetContent(col, y, ru, nil, style)
		w := textutil.DisplayWidth(string(ru))
		if w < 1 {
			w = 1
		}
		col += w
	}
}
