package state

import (
	"fmt"
	"log"
	"time"

	"github.com/kk-code-lab/tpdf/internal/session"
)

// saveDebounceDelay batches rapid state changes (held-down j, zoom runs) into
// one session write.
const saveDebounceDelay = 500 * time.Millisecond

// SnapshotStore persists per-document snapshots. session.FileStore is the
// production implementation.
type SnapshotStore interface {
	Save(id string, snap session.Snapshot) error
}

// StateReducer processes actions and updates state. The command path is
// serialized: Reduce runs only on the application loop goroutine. Session
// writes are the one side effect started here; they run on their own
// goroutine and report back through an action.
type StateReducer struct {
	store SnapshotStore
}

// NewStateReducer creates a reducer. store may be nil, in which case state is
// never persisted (used by most tests).
func NewStateReducer(store SnapshotStore) *StateReducer {
	return &StateReducer{store: store}
}

// Reduce applies an action to the state.
func (r *StateReducer) Reduce(state *AppState, action Action) (*AppState, error) {
	switch action.(type) {
	case RenderCompleteAction, SessionSaveDueAction, SessionSavedAction, CountDigitAction:
		// Bookkeeping actions keep the current notice visible.
	default:
		state.Notice = ""
	}

	switch a := action.(type) {

	// ----- navigation -----

	case PageForwardAction:
		r.movePages(state, r.takeCount(state))
	case PageBackwardAction:
		r.movePages(state, -r.takeCount(state))
	case FirstPageAction:
		state.PendingCount = 0
		if d := usableDoc(state); d != nil {
			r.gotoPage(state, d, 0)
		}
	case LastPageAction:
		count := state.PendingCount
		state.PendingCount = 0
		if d := usableDoc(state); d != nil {
			if count > 0 {
				r.gotoPage(state, d, count-1)
			} else {
				r.gotoPage(state, d, d.PageCount-1)
			}
		}
	case JumpBackAction:
		r.jumpHistory(state, false)
	case JumpForwardAction:
		r.jumpHistory(state, true)

	// ----- zoom & pan -----

	case ZoomInAction:
		r.zoomBy(state, ZoomInStep, r.takeCount(state))
	case ZoomOutAction:
		r.zoomBy(state, ZoomOutStep, r.takeCount(state))
	case ZoomResetAction:
		state.PendingCount = 0
		if d := usableDoc(state); d != nil && (d.Scale != 1.0 || d.Viewport != (Viewport{})) {
			d.Scale = 1.0
			d.Viewport = Viewport{}
			d.RenderToken++
			r.markDirty(state, d)
		}
	case PanAction:
		count := r.takeCount(state)
		if d := usableDoc(state); d != nil {
			d.Viewport.X = clampUnit(d.Viewport.X + a.DX*float64(count))
			d.Viewport.Y = clampUnit(d.Viewport.Y + a.DY*float64(count))
		}
	case ToggleDarkAction:
		state.PendingCount = 0
		if d := usableDoc(state); d != nil {
			d.Dark = !d.Dark
			d.RenderToken++
			r.markDirty(state, d)
		}

	// ----- command prefixes -----

	case CountDigitAction:
		if a.Digit < 0 || a.Digit > 9 {
			break
		}
		next := state.PendingCount*10 + a.Digit
		if next > CountLimit {
			next = CountLimit
		}
		state.PendingCount = next
	case MarkPendingAction:
		state.PendingCount = 0
		state.PendingOp = 'm'
	case JumpMarkPendingAction:
		state.PendingCount = 0
		state.PendingOp = '\''
	case RegisterKeyAction:
		r.resolveRegister(state, a.Register)
	case CancelPendingAction:
		state.PendingCount = 0
		state.PendingOp = 0
		// Escape also dismisses a committed search; n/N go quiet until the
		// next commit.
		if d := usableDoc(state); d != nil {
			d.Search = nil
		}
	case CountResetAction:
		state.PendingCount = 0
	case NamedMarkSetAction:
		if d := usableDoc(state); d != nil && a.Name != "" {
			d.NamedMarks[a.Name] = d.Page
			r.markDirty(state, d)
		}
	case NamedMarkJumpAction:
		if d := usableDoc(state); d != nil {
			page, ok := d.NamedMarks[a.Name]
			if !ok {
				state.Notice = fmt.Sprintf("no mark %q", a.Name)
				break
			}
			r.gotoPage(state, d, page)
		}

	// ----- search -----

	case SearchStartAction:
		state.PendingCount = 0
		state.PendingOp = 0
		state.SearchInputActive = true
		state.SearchInput = ""
	case SearchCharAction:
		if state.SearchInputActive {
			state.SearchInput += string(a.Char)
		}
	case SearchBackspaceAction:
		if state.SearchInputActive && state.SearchInput != "" {
			runes := []rune(state.SearchInput)
			state.SearchInput = string(runes[:len(runes)-1])
		}
	case SearchCommitAction:
		r.commitSearch(state)
	case SearchCancelAction:
		state.SearchInputActive = false
		state.SearchInput = ""
		if d := usableDoc(state); d != nil {
			d.Search = nil
		}
	case SearchNextAction:
		r.stepSearch(state, 1)
	case SearchPrevAction:
		r.stepSearch(state, -1)

	// ----- documents -----

	case NextDocumentAction:
		r.switchDocument(state, 1)
	case PrevDocumentAction:
		r.switchDocument(state, -1)
	case DocumentReloadedAction:
		r.documentReloaded(state, a)

	// ----- view -----

	case ResizeAction:
		state.ScreenWidth = a.Width
		state.ScreenHeight = a.Height
	case HelpShowAction:
		state.HelpVisible = true
	case HelpHideAction:
		state.HelpVisible = false

	// ----- async results -----

	case RenderCompleteAction:
		r.renderComplete(state, a)
	case SessionSaveDueAction:
		r.saveDue(state, a)
	case SessionSavedAction:
		if a.Err != nil {
			log.Printf("session save failed for %s: %v", a.DocID, a.Err)
			state.Notice = "session save failed"
		}
	}

	return state, nil
}

// takeCount consumes the pending count, defaulting to 1.
func (r *StateReducer) takeCount(state *AppState) int {
	count := state.PendingCount
	state.PendingCount = 0
	if count < 1 {
		return 1
	}
	return count
}

func usableDoc(state *AppState) *DocState {
	d := state.ActiveDoc()
	if d == nil || d.OpenErr != nil {
		return nil
	}
	return d
}

func (r *StateReducer) movePages(state *AppState, delta int) {
	d := usableDoc(state)
	if d == nil {
		return
	}
	r.gotoPage(state, d, d.Page+delta)
}

// gotoPage clamps, records jump history and resets the viewport. Reports
// whether the page actually changed.
func (r *StateReducer) gotoPage(state *AppState, d *DocState, page int) bool {
	page = clampPage(page, d.PageCount)
	if page == d.Page {
		return false
	}
	d.recordJump(d.Page)
	d.Page = page
	d.Viewport = Viewport{}
	d.RenderToken++
	r.markDirty(state, d)
	return true
}

func (r *StateReducer) jumpHistory(state *AppState, forward bool) {
	state.PendingCount = 0
	d := usableDoc(state)
	if d == nil {
		return
	}
	var target int
	if forward {
		target = d.popForward()
	} else {
		target = d.popBack()
	}
	if target < 0 {
		return
	}
	if forward {
		d.back = append(d.back, d.Page)
	} else {
		d.pushForward(d.Page)
	}
	d.Page = clampPage(target, d.PageCount)
	d.Viewport = Viewport{}
	d.RenderToken++
	r.markDirty(state, d)
}

func (r *StateReducer) zoomBy(state *AppState, step float64, count int) {
	d := usableDoc(state)
	if d == nil {
		return
	}
	// The fit sentinel has no concrete value on the command path; explicit
	// zoom starts from 1.0 and stays explicit from then on.
	scale := d.Scale
	if scale == ScaleFit {
		scale = 1.0
	}
	for i := 0; i < count; i++ {
		scale *= step
	}
	scale = clampScale(scale)
	if scale == d.Scale {
		return
	}
	d.Scale = scale
	// At a scale where the page fits there is no pan slack. Above 1.0 the
	// normalized offset is still valid against the new slack, so the pan
	// position carries over instead of snapping back.
	if scale <= 1.0 {
		d.Viewport = Viewport{}
	}
	d.RenderToken++
	r.markDirty(state, d)
}

func (r *StateReducer) resolveRegister(state *AppState, register rune) {
	op := state.PendingOp
	state.PendingOp = 0
	d := usableDoc(state)
	if d == nil || op == 0 {
		return
	}
	if !validRegister(register) {
		state.Notice = fmt.Sprintf("invalid mark %q", register)
		return
	}
	switch op {
	case 'm':
		d.Marks[register] = d.Page
		r.markDirty(state, d)
	case '\'':
		page, ok := d.Marks[register]
		if !ok {
			state.Notice = fmt.Sprintf("no mark %q", register)
			return
		}
		r.gotoPage(state, d, page)
	}
}

func validRegister(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func (r *StateReducer) switchDocument(state *AppState, delta int) {
	state.PendingCount = 0
	n := len(state.Docs)
	if n < 2 {
		return
	}
	// Search state does not outlive document focus.
	if d := state.ActiveDoc(); d != nil {
		d.Search = nil
	}
	state.Active = ((state.Active+delta)%n + n) % n
}

// CloseActiveDocument removes the focused document from the registry and
// returns it so the caller can release its resources. Returns nil when the
// registry is empty.
func (r *StateReducer) CloseActiveDocument(state *AppState) *DocState {
	d := state.ActiveDoc()
	if d == nil {
		return nil
	}
	r.SaveNow(d)
	state.Docs = append(state.Docs[:state.Active], state.Docs[state.Active+1:]...)
	if state.Active >= len(state.Docs) {
		state.Active = len(state.Docs) - 1
	}
	return d
}

func (r *StateReducer) documentReloaded(state *AppState, a DocumentReloadedAction) {
	if a.Index < 0 || a.Index >= len(state.Docs) {
		return
	}
	d := state.Docs[a.Index]
	d.PageCount = a.PageCount
	d.Page = clampPage(d.Page, d.PageCount)
	for reg, page := range d.Marks {
		d.Marks[reg] = clampPage(page, d.PageCount)
	}
	for name, page := range d.NamedMarks {
		d.NamedMarks[name] = clampPage(page, d.PageCount)
	}
	// Match positions are stale against the new content.
	d.Search = nil
	d.Viewport = Viewport{}
	d.RenderToken++
	r.markDirty(state, d)
}

func (r *StateReducer) renderComplete(state *AppState, a RenderCompleteAction) {
	for _, d := range state.Docs {
		if d.ID != a.DocID {
			continue
		}
		if a.Token != d.RenderToken {
			return // stale completion, view moved on
		}
		if a.Err != nil {
			state.Notice = fmt.Sprintf("render failed: %v", a.Err)
		}
		return
	}
}

// markDirty arms the debounced session save for d.
func (r *StateReducer) markDirty(state *AppState, d *DocState) {
	if r.store == nil || d.ID == "" {
		return
	}
	d.saveGeneration++
	generation := d.saveGeneration
	id := d.ID
	time.AfterFunc(saveDebounceDelay, func() {
		state.Dispatch(SessionSaveDueAction{DocID: id, Generation: generation})
	})
}

func (r *StateReducer) saveDue(state *AppState, a SessionSaveDueAction) {
	for _, d := range state.Docs {
		if d.ID != a.DocID {
			continue
		}
		if a.Generation != d.saveGeneration {
			return // a newer change re-armed the debounce
		}
		snap := d.Snapshot()
		id := d.ID
		go func() {
			err := r.store.Save(id, snap)
			state.Dispatch(SessionSavedAction{DocID: id, Err: err})
		}()
		return
	}
}

// SaveNow writes d's snapshot synchronously. Used on close and quit where the
// debounce must not be outrun by process exit.
func (r *StateReducer) SaveNow(d *DocState) {
	if r.store == nil || d == nil || d.ID == "" {
		return
	}
	if err := r.store.Save(d.ID, d.Snapshot()); err != nil {
		log.Printf("session save failed for %s: %v", d.ID, err)
	}
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
