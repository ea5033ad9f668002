package render

// Cell geometry falls back to a common monospace ratio when the terminal does
// not report pixel sizes (e.g. over ssh without the right ioctl support).
const (
	defaultCellWidth  = 8
	defaultCellHeight = 16
)

// CellGeometry is the pixel size of one terminal cell.
type CellGeometry struct {
	CellWidth  int
	CellHeight int
}

// OrDefault substitutes the fallback ratio for unreported geometry.
func (g CellGeometry) OrDefault() CellGeometry {
	if g.CellWidth <= 0 || g.CellHeight <= 0 {
		return CellGeometry{CellWidth: defaultCellWidth, CellHeight: defaultCellHeight}
	}
	return g
}

// ContentRows reports the cell rows available to the page image. The bottom
// row is reserved for the status line.
func ContentRows(screenHeight int) int {
	rows := screenHeight - 1
	if rows < 1 {
		rows = 1
	}
	return rows
}

// ContentWindowPx is the pixel size of the image area.
func ContentWindowPx(screenWidth, screenHeight int, g CellGeometry) (int, int) {
	g = g.OrDefault()
	if screenWidth < 1 {
		screenWidth = 1
	}
	return screenWidth * g.CellWidth, ContentRows(screenHeight) * g.CellHeight
}

// FitScale returns the scale that fits a page of pageW x pageH pixels (at
// scale 1.0) into the window, preserving aspect ratio. The caller clamps the
// result to its zoom bounds.
func FitScale(pageW, pageH, windowW, windowH int) float64 {
	if pageW <= 0 || pageH <= 0 || windowW <= 0 || windowH <= 0 {
		return 1.0
	}
	sx := float64(windowW) / float64(pageW)
	sy := float64(windowH) / float64(pageH)
	if sx < sy {
		return sx
	}
	return sy
}

// ImagePlacement positions a raster on the cell grid.
type ImagePlacement struct {
	Col  int
	Row  int
	Cols int
	Rows int
}

// PlaceImage centers a raster of imgW x imgH pixels in the content area and
// reports the cell box it occupies.
func PlaceImage(imgW, imgH, screenWidth, screenHeight int, g CellGeometry) ImagePlacement {
	g = g.OrDefault()
	maxRows := ContentRows(screenHeight)

	cols := ceilDiv(imgW, g.CellWidth)
	rows := ceilDiv(imgH, g.CellHeight)
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	if cols > screenWidth && screenWidth > 0 {
		cols = screenWidth
	}
	if rows > maxRows {
		rows = maxRows
	}

	col := (screenWidth - cols) / 2
	if col < 0 {
		col = 0
	}
	row := (maxRows - rows) / 2
	if row < 0 {
		row = 0
	}
	return ImagePlacement{Col: col, Row: row, Cols: cols, Rows: rows}
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}
