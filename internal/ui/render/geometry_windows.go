//go:build windows

package render

import "os"

// DetectCellGeometry has no pixel-size source on Windows consoles; callers
// fall back to the default cell ratio.
func DetectCellGeometry(tty *os.File) CellGeometry {
	return CellGeometry{}
}
