package input

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/tpdf/internal/state"
)

// InputHandler converts tcell events to Actions
type InputHandler struct {
	actionChan chan statepkg.Action
	state      *statepkg.AppState // Reference to current state for mode checking
}

// NewInputHandler creates a new input handler
func NewInputHandler(actionChan chan statepkg.Action) *InputHandler {
	return &InputHandler{
		actionChan: actionChan,
	}
}

// SetState sets the state reference for mode checking
func (ih *InputHandler) SetState(state *statepkg.AppState) {
	ih.state = state
}

// ProcessEvent converts a tcell event into an Action. Returns false when the
// application should quit.
func (ih *InputHandler) ProcessEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return ih.processKeyEvent(ev)
	case *tcell.EventResize:
		w, h := ev.Size()
		ih.actionChan <- statepkg.ResizeAction{Width: w, Height: h}
		return true
	default:
		return true
	}
}

func (ih *InputHandler) processKeyEvent(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		ih.actionChan <- statepkg.QuitAction{}
		return false
	}

	if ih.state != nil && ih.state.HelpVisible {
		ih.processHelpKey(ev)
		return true
	}
	if ih.state != nil && ih.state.SearchInputActive {
		ih.processSearchKey(ev)
		return true
	}
	if ih.state != nil && ih.state.PendingOp != 0 {
		ih.processRegisterKey(ev)
		return true
	}

	switch ev.Key() {
	case tcell.KeyEscape:
		ih.actionChan <- statepkg.CancelPendingAction{}
	case tcell.KeyDown, tcell.KeyPgDn:
		ih.actionChan <- statepkg.PageForwardAction{}
	case tcell.KeyUp, tcell.KeyPgUp:
		ih.actionChan <- statepkg.PageBackwardAction{}
	case tcell.KeyLeft:
		ih.actionChan <- statepkg.PanAction{DX: -statepkg.PanStep}
	case tcell.KeyRight:
		ih.actionChan <- statepkg.PanAction{DX: statepkg.PanStep}
	case tcell.KeyHome:
		ih.actionChan <- statepkg.FirstPageAction{}
	case tcell.KeyEnd:
		ih.actionChan <- statepkg.LastPageAction{}
	case tcell.KeyCtrlO:
		ih.actionChan <- statepkg.JumpBackAction{}
	case tcell.KeyTab:
		// Terminals deliver ctrl-i as tab.
		ih.actionChan <- statepkg.JumpForwardAction{}
	case tcell.KeyCtrlZ:
		ih.actionChan <- statepkg.SuspendAction{}
	case tcell.KeyRune:
		return ih.processRune(ev.Rune())
	default:
		// A stale count must not leak into the next command.
		ih.actionChan <- statepkg.CountResetAction{}
	}
	return true
}

func (ih *InputHandler) processRune(r rune) bool {
	if r >= '1' && r <= '9' {
		ih.actionChan <- statepkg.CountDigitAction{Digit: int(r - '0')}
		return true
	}
	if r == '0' {
		// A zero only extends an open count; on its own it is not a
		// command.
		if ih.state != nil && ih.state.PendingCount > 0 {
			ih.actionChan <- statepkg.CountDigitAction{Digit: 0}
		}
		return true
	}

	switch r {
	case 'j', ' ':
		ih.actionChan <- statepkg.PageForwardAction{}
	case 'k':
		ih.actionChan <- statepkg.PageBackwardAction{}
	case 'g':
		ih.actionChan <- statepkg.FirstPageAction{}
	case 'G':
		ih.actionChan <- statepkg.LastPageAction{}
	case '+':
		ih.actionChan <- statepkg.ZoomInAction{}
	case '-':
		ih.actionChan <- statepkg.ZoomOutAction{}
	case '=':
		ih.actionChan <- statepkg.ZoomResetAction{}
	case 'h':
		ih.actionChan <- statepkg.PanAction{DX: -statepkg.PanStep}
	case 'l':
		ih.actionChan <- statepkg.PanAction{DX: statepkg.PanStep}
	case 'H':
		ih.actionChan <- statepkg.PanAction{DY: -statepkg.PanStep}
	case 'L':
		ih.actionChan <- statepkg.PanAction{DY: statepkg.PanStep}
	case 'd':
		ih.actionChan <- statepkg.ToggleDarkAction{}
	case 'r':
		ih.actionChan <- statepkg.ForceRenderAction{}
	case 'm':
		ih.actionChan <- statepkg.MarkPendingAction{}
	case '\'':
		ih.actionChan <- statepkg.JumpMarkPendingAction{}
	case '/':
		ih.actionChan <- statepkg.SearchStartAction{}
	case 'n':
		ih.actionChan <- statepkg.SearchNextAction{}
	case 'N':
		ih.actionChan <- statepkg.SearchPrevAction{}
	case ']':
		ih.actionChan <- statepkg.NextDocumentAction{}
	case '[':
		ih.actionChan <- statepkg.PrevDocumentAction{}
	case 'y':
		ih.actionChan <- statepkg.YankPathAction{}
	case '?':
		ih.actionChan <- statepkg.HelpShowAction{}
	case 'q':
		ih.actionChan <- statepkg.CloseDocumentAction{}
	case 'Q':
		ih.actionChan <- statepkg.QuitAction{}
		return false
	default:
		ih.actionChan <- statepkg.CountResetAction{}
	}
	return true
}

func (ih *InputHandler) processSearchKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEnter:
		ih.actionChan <- statepkg.SearchCommitAction{}
	case tcell.KeyEscape:
		ih.actionChan <- statepkg.SearchCancelAction{}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		ih.actionChan <- statepkg.SearchBackspaceAction{}
	case tcell.KeyRune:
		r := ev.Rune()
		if unicode.IsPrint(r) {
			ih.actionChan <- statepkg.SearchCharAction{Char: r}
		}
	}
}

func (ih *InputHandler) processRegisterKey(ev *tcell.EventKey) {
	if ev.Key() == tcell.KeyRune {
		ih.actionChan <- statepkg.RegisterKeyAction{Register: ev.Rune()}
		return
	}
	// Escape or any non-rune key abandons the sequence.
	ih.actionChan <- statepkg.CancelPendingAction{}
}

func (ih *InputHandler) processHelpKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		ih.actionChan <- statepkg.HelpHideAction{}
	case tcell.KeyRune:
		r := ev.Rune()
		if r == '?' || r == 'q' || r == 'Q' {
			ih.actionChan <- statepkg.HelpHideAction{}
		}
	}
}
