package state

// Action is the base interface for all state mutations
type Action interface{}

// ===== NAVIGATION ACTIONS =====

type PageForwardAction struct{}  // j, count applies
type PageBackwardAction struct{} // k, count applies
type FirstPageAction struct{}
type LastPageAction struct{} // G; with an open count, goes to that page (1-based)
type JumpBackAction struct{}
type JumpForwardAction struct{}

// ===== ZOOM & PAN ACTIONS =====

type ZoomInAction struct{}
type ZoomOutAction struct{}
type ZoomResetAction struct{}
type PanAction struct {
	DX float64
	DY float64
}
type ToggleDarkAction struct{}

// ===== COMMAND PREFIX ACTIONS =====

type CountDigitAction struct {
	Digit int
}
type MarkPendingAction struct{}     // m pressed, next key names the register
type JumpMarkPendingAction struct{} // ' pressed
type RegisterKeyAction struct {
	Register rune
}
type CancelPendingAction struct{} // escape: discard count and pending op, dismiss the search
type CountResetAction struct{}    // any unbound key discards an accumulated count

// Named marks address pages by a string label instead of a single register.
type NamedMarkSetAction struct {
	Name string
}
type NamedMarkJumpAction struct {
	Name string
}

// ===== SEARCH ACTIONS =====

type SearchStartAction struct{}
type SearchCharAction struct {
	Char rune
}
type SearchBackspaceAction struct{}
type SearchCommitAction struct{}
type SearchCancelAction struct{}
type SearchNextAction struct{}
type SearchPrevAction struct{}

// ===== DOCUMENT ACTIONS =====

type NextDocumentAction struct{}
type PrevDocumentAction struct{}
type DocumentReloadedAction struct {
	Index     int
	PageCount int
}

// ===== VIEW ACTIONS =====

type ResizeAction struct {
	Width  int
	Height int
}
type HelpShowAction struct{}
type HelpHideAction struct{}

// ===== ASYNC RESULT ACTIONS =====

type RenderCompleteAction struct {
	DocID string
	Token int
	Err   error
}
type SessionSaveDueAction struct {
	DocID      string
	Generation int
}
type SessionSavedAction struct {
	DocID string
	Err   error
}

// ===== APPLICATION ACTIONS =====

type QuitAction struct{}          // Q / ctrl-c
type CloseDocumentAction struct{} // q - close current document, quit on last
type ForceRenderAction struct{}   // r - drop any error marker and decode again
type SuspendAction struct{}       // ctrl-z
type YankPathAction struct{}      // y - copy document path to the clipboard
