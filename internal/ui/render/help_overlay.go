package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/tpdf/internal/textutil"
)

type helpEntry struct {
	keys string
	desc string
}

type helpSection struct {
	title   string
	entries []helpEntry
}

var helpSections = []helpSection{
	{
		title: "Navigation",
		entries: []helpEntry{
			{keys: "j / k", desc: "Next / previous page (count applies)"},
			{keys: "g / G", desc: "First page / last page, NG goes to page N"},
			{keys: "Ctrl+O / Tab", desc: "Jump back / forward in history"},
			{keys: "m{a-z} / '{a-z}", desc: "Set mark / jump to mark"},
		},
	},
	{
		title: "View",
		entries: []helpEntry{
			{keys: "+ / - / =", desc: "Zoom in / out / reset to 100%"},
			{keys: "h l H L, arrows", desc: "Pan a zoomed page"},
			{keys: "d", desc: "Toggle dark mode"},
			{keys: "r", desc: "Re-render the current page"},
		},
	},
	{
		title: "Search",
		entries: []helpEntry{
			{keys: "/", desc: "Search document text"},
			{keys: "n / N", desc: "Next / previous match (wraps)"},
			{keys: "Esc", desc: "Abort search entry"},
		},
	},
	{
		title: "Documents",
		entries: []helpEntry{
			{keys: "] / [", desc: "Next / previous document"},
			{keys: "y", desc: "Yank document path to clipboard"},
			{keys: "q", desc: "Close document (quits on the last)"},
			{keys: "Q / Ctrl+C", desc: "Quit"},
		},
	},
}

const helpKeysColumn = 18

func buildHelpLines() []string {
	lines := make([]string, 0, 24)
	for i, section := range helpSections {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, section.title)
		for _, e := range section.entries {
			line := "  " + e.keys
			for textutil.DisplayWidth(line) < helpKeysColumn {
				line += " "
			}
			lines = append(lines, line+e.desc)
		}
	}
	return lines
}

func (r *Renderer) drawHelpOverlay(w, h int) {
	lines := buildHelpLines()

	boxW := 0
	for _, line := range lines {
		if lw := textutil.DisplayWidth(line); lw > boxW {
			boxW = lw
		}
	}
	boxW += 4
	if boxW > w {
		boxW = w
	}
	boxH := len(lines) + 2
	if boxH > h-1 {
		boxH = h - 1
	}
	x0 := (w - boxW) / 2
	y0 := (h - 1 - boxH) / 2
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}

	style := tcell.StyleDefault.Background(r.theme.OverlayBg).Foreground(r.theme.OverlayFg)
	for y := y0; y < y0+boxH && y < h; y++ {
		for x := x0; x < x0+boxW && x < w; x++ {
			r.screen.SetContent(x, y, ' ', nil, style)
		}
	}
	for i, line := range lines {
		y := y0 + 1 + i
		if y >= y0+boxH-1 {
			break
		}
		r.drawText(textutil.TruncateWidth(line, boxW-4), x0+2, y, style)
	}
}
