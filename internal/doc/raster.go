package doc

import "image"

// Invert returns a copy of img with RGB channels inverted and alpha
// preserved. Applied before encoding so dark-mode rasters cache separately
// from light ones.
func Invert(img *image.RGBA) *image.RGBA {
	out := image.NewRGBA(img.Rect)
	copy(out.Pix, img.Pix)
	for i := 0; i+3 < len(out.Pix); i += 4 {
		out.Pix[i] = 255 - out.Pix[i]
		out.Pix[i+1] = 255 - out.Pix[i+1]
		out.Pix[i+2] = 255 - out.Pix[i+2]
	}
	return out
}

// CropViewport extracts the visible window from a page raster that overflows
// the terminal. offsetX and offsetY are normalized in [0, 1] over the slack in
// each axis; an axis that already fits keeps the full extent regardless of
// offset. The returned image shares pixels with img.
func CropViewport(img *image.RGBA, offsetX, offsetY float64, maxWidth, maxHeight int) *image.RGBA {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if maxWidth <= 0 || maxHeight <= 0 || (w <= maxWidth && h <= maxHeight) {
		return img
	}

	cropW := w
	if cropW > maxWidth {
		cropW = maxWidth
	}
	cropH := h
	if cropH > maxHeight {
		cropH = maxHeight
	}

	x := bounds.Min.X + viewportOrigin(offsetX, w, cropW)
	y := bounds.Min.Y + viewportOrigin(offsetY, h, cropH)
	rect := image.Rect(x, y, x+cropW, y+cropH)
	return img.SubImage(rect).(*image.RGBA)
}

func viewportOrigin(offset float64, full, window int) int {
	slack := full - window
	if slack <= 0 {
		return 0
	}
	if offset < 0 {
		offset = 0
	} else if offset > 1 {
		offset = 1
	}
	return int(offset * float64(slack))
}
