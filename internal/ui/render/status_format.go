package render

import (
	"fmt"
	"math"
	"strings"

	statepkg "github.com/kk-code-lab/tpdf/internal/state"
	"github.com/kk-code-lab/tpdf/internal/textutil"
)

// FormatStatusLeft builds the document side of the status line:
// name, page position, zoom, flags.
func FormatStatusLeft(state *statepkg.AppState) string {
	d := state.ActiveDoc()
	if d == nil {
		return "no document"
	}
	if d.OpenErr != nil {
		return fmt.Sprintf("%s — cannot open: %v", textutil.SanitizeStatusText(d.Name), d.OpenErr)
	}

	parts := []string{
		textutil.SanitizeStatusText(d.Name),
		fmt.Sprintf("page %d/%d", d.Page+1, d.PageCount),
		formatZoom(d.Scale),
	}
	if d.Dark {
		parts = append(parts, "dark")
	}
	if len(state.Docs) > 1 {
		parts = append(parts, fmt.Sprintf("doc %d/%d", state.Active+1, len(state.Docs)))
	}
	if d.Search != nil && len(d.Search.Matches) > 0 {
		parts = append(parts, fmt.Sprintf("/%s (%d/%d)",
			textutil.SanitizeStatusText(d.Search.Query), d.Search.Index+1, len(d.Search.Matches)))
	}
	return strings.Join(parts, " — ")
}

// FormatStatusRight builds the interpreter side: search entry, pending counts
// and operators, or the current notice.
func FormatStatusRight(state *statepkg.AppState) string {
	if state.SearchInputActive {
		return "/" + textutil.SanitizeStatusText(state.SearchInput) + "▏"
	}
	if state.Notice != "" {
		return textutil.SanitizeStatusText(state.Notice)
	}
	var b strings.Builder
	if state.PendingCount > 0 {
		fmt.Fprintf(&b, "%d", state.PendingCount)
	}
	if state.PendingOp != 0 {
		b.WriteRune(state.PendingOp)
	}
	return b.String()
}

func formatZoom(scale float64) string {
	if scale == statepkg.ScaleFit {
		return "fit"
	}
	return fmt.Sprintf("%d%%", int(math.Round(scale*100)))
}
