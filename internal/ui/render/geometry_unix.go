//go:build !windows

package render

import (
	"os"

	"golang.org/x/sys/unix"
)

// DetectCellGeometry queries the terminal for its pixel dimensions. Returns a
// zero geometry when the terminal does not report them; callers apply
// OrDefault.
func DetectCellGeometry(tty *os.File) CellGeometry {
	if tty == nil {
		return CellGeometry{}
	}
	ws, err := unix.IoctlGetWinsize(int(tty.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return CellGeometry{}
	}
	if ws.Col == 0 || ws.Row == 0 || ws.Xpixel == 0 || ws.Ypixel == 0 {
		return CellGeometry{}
	}
	return CellGeometry{
		CellWidth:  int(ws.Xpixel) / int(ws.Col),
		CellHeight: int(ws.Ypixel) / int(ws.Row),
	}
}
