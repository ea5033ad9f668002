package state

import (
	"path/filepath"

	"github.com/kk-code-lab/tpdf/internal/doc"
	"github.com/kk-code-lab/tpdf/internal/session"
)

const (
	// MinScale and MaxScale bound explicit zoom. Values outside this range
	// produce rasters that are either unreadable or enormous.
	MinScale = 0.25
	MaxScale = 4.0
	// ScaleFit is the sentinel for fit-to-window scaling; the concrete
	// value is resolved against the terminal geometry at display time.
	ScaleFit = 0.0

	// ZoomInStep and ZoomOutStep are the per-keypress multiplicative steps.
	ZoomInStep  = 1.25
	ZoomOutStep = 0.8

	// PanStep is the normalized viewport movement per keypress.
	PanStep = 0.1

	// CountLimit saturates numeric prefixes so absurd counts cannot
	// overflow page arithmetic.
	CountLimit = 1_000_000

	// jumpHistoryLimit caps each of the back and forward stacks; the
	// oldest entries fall off first.
	jumpHistoryLimit = 128
)

// SearchMatch is one occurrence of the active query.
type SearchMatch struct {
	Page int
}

// SearchState holds the committed query and its matches in document order.
type SearchState struct {
	Query   string
	Matches []SearchMatch
	Index   int // current match, meaningful only when Matches is non-empty
}

// Viewport is the normalized pan offset of a page that overflows the window.
// Both components are in [0, 1] over the slack in their axis.
type Viewport struct {
	X float64
	Y float64
}

// DocState is the view state of one open document.
type DocState struct {
	Path      string // canonical path
	Name      string // base name for the status line
	ID        string // stable identity, keys cache entries and session files
	Source    doc.Source
	PageCount int

	Page       int
	Scale      float64 // ScaleFit or a value in [MinScale, MaxScale]
	Viewport   Viewport
	Dark       bool
	Marks      map[rune]int
	NamedMarks map[string]int

	back    []int
	forward []int

	Search *SearchState

	// OpenErr marks a document that failed to open; the slot stays in the
	// registry so the rest of the session remains usable.
	OpenErr error

	// RenderToken invalidates in-flight decode completions after the view
	// changed underneath them.
	RenderToken int

	saveGeneration int
}

// NewDocState builds the initial state for an opened document.
func NewDocState(identity doc.Identity, source doc.Source) *DocState {
	return &DocState{
		Path:      identity.Path,
		Name:      filepath.Base(identity.Path),
		ID:        identity.ID,
		Source:     source,
		PageCount:  source.PageCount(),
		Scale:      ScaleFit,
		Marks:      make(map[rune]int),
		NamedMarks: make(map[string]int),
	}
}

// NewFailedDocState records a document that could not be opened.
func NewFailedDocState(path string, err error) *DocState {
	return &DocState{
		Path:       path,
		Name:       filepath.Base(path),
		OpenErr:    err,
		Marks:      make(map[rune]int),
		NamedMarks: make(map[string]int),
	}
}

// Snapshot converts the persisted portion of the state.
func (d *DocState) Snapshot() session.Snapshot {
	snap := session.Snapshot{
		Page:      d.Page,
		Scale:     d.Scale,
		Dark:      d.Dark,
		ViewportX: d.Viewport.X,
		ViewportY: d.Viewport.Y,
	}
	if len(d.Marks) > 0 {
		snap.Marks = make(map[string]int, len(d.Marks))
		for r, page := range d.Marks {
			snap.Marks[string(r)] = page
		}
	}
	if len(d.NamedMarks) > 0 {
		snap.NamedMarks = make(map[string]int, len(d.NamedMarks))
		for name, page := range d.NamedMarks {
			snap.NamedMarks[name] = page
		}
	}
	if len(d.back) > 0 {
		snap.JumpHistory = append([]int(nil), d.back...)
	}
	return snap
}

// ApplySnapshot restores persisted state, clamping everything against the
// document as it exists now. The file may have changed since the snapshot.
func (d *DocState) ApplySnapshot(snap session.Snapshot) {
	d.Page = clampPage(snap.Page, d.PageCount)
	if snap.Scale != ScaleFit {
		d.Scale = clampScale(snap.Scale)
	}
	d.Dark = snap.Dark
	d.Viewport = Viewport{X: clampUnit(snap.ViewportX), Y: clampUnit(snap.ViewportY)}
	for key, page := range snap.Marks {
		for _, r := range key {
			d.Marks[r] = clampPage(page, d.PageCount)
			break
		}
	}
	for name, page := range snap.NamedMarks {
		if name == "" {
			continue
		}
		d.NamedMarks[name] = clampPage(page, d.PageCount)
	}
	history := snap.JumpHistory
	if len(history) > jumpHistoryLimit {
		history = history[len(history)-jumpHistoryLimit:]
	}
	d.back = nil
	for _, page := range history {
		d.back = append(d.back, clampPage(page, d.PageCount))
	}
}

// recordJump pushes from onto the back stack and clears the forward stack.
// Called for every page-changing navigation except history traversal itself.
func (d *DocState) recordJump(from int) {
	d.back = append(d.back, from)
	if len(d.back) > jumpHistoryLimit {
		d.back = d.back[len(d.back)-jumpHistoryLimit:]
	}
	d.forward = nil
}

// popBack returns the most recent distinct back entry, or -1.
func (d *DocState) popBack() int {
	for len(d.back) > 0 {
		page := d.back[len(d.back)-1]
		d.back = d.back[:len(d.back)-1]
		if page != d.Page {
			return page
		}
	}
	return -1
}

// popForward returns the most recent distinct forward entry, or -1.
func (d *DocState) popForward() int {
	for len(d.forward) > 0 {
		page := d.forward[len(d.forward)-1]
		d.forward = d.forward[:len(d.forward)-1]
		if page != d.Page {
			return page
		}
	}
	return -1
}

func (d *DocState) pushForward(page int) {
	d.forward = append(d.forward, page)
	if len(d.forward) > jumpHistoryLimit {
		d.forward = d.forward[len(d.forward)-jumpHistoryLimit:]
	}
}

// AppState is the single source of truth.
type AppState struct {
	Docs   []*DocState
	Active int

	// Terminal geometry: cells and pixels per cell.
	ScreenWidth  int
	ScreenHeight int
	CellWidth    int
	CellHeight   int

	// Command interpreter sub-state.
	PendingCount      int  // 0 = no open count
	PendingOp         rune // 0, 'm' or '\''
	SearchInputActive bool
	SearchInput       string

	HelpVisible bool

	// Notice is a transient status-line message (invalid mark, empty
	// search, save failure). Cleared by the next command.
	Notice    string
	LastError error

	dispatch func(Action)
}

// SetDispatch installs the callback used to feed async results back into the
// application loop.
func (s *AppState) SetDispatch(fn func(Action)) {
	s.dispatch = fn
}

// Dispatch posts an action to the loop; a nil dispatch drops it, which keeps
// unit tests free of channel plumbing.
func (s *AppState) Dispatch(action Action) {
	if s.dispatch != nil {
		s.dispatch(action)
	}
}

// ActiveDoc returns the focused document, or nil when none are open.
func (s *AppState) ActiveDoc() *DocState {
	if s.Active < 0 || s.Active >= len(s.Docs) {
		return nil
	}
	return s.Docs[s.Active]
}

func clampPage(page, pageCount int) int {
	if page < 0 {
		return 0
	}
	if pageCount > 0 && page > pageCount-1 {
		return pageCount - 1
	}
	return page
}

func clampScale(scale float64) float64 {
	if scale < MinScale {
		return MinScale
	}
	if scale > MaxScale {
		return MaxScale
	}
	return scale
}
