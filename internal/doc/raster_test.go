package doc

import (
	"image"
	"image/color"
	"testing"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestInvertFlipsColorKeepsAlpha(t *testing.T) {
	img := solidImage(4, 4, color.RGBA{R: 10, G: 20, B: 30, A: 200})

	out := Invert(img)

	got := out.RGBAAt(2, 2)
	want := color.RGBA{R: 245, G: 235, B: 225, A: 200}
	if got != want {
		t.Errorf("inverted pixel = %v, want %v", got, want)
	}
	// Original must be untouched; the cache may still hold it.
	if orig := img.RGBAAt(2, 2); orig != (color.RGBA{R: 10, G: 20, B: 30, A: 200}) {
		t.Errorf("source image mutated: %v", orig)
	}
}

func TestCropViewportFitsWithoutCropping(t *testing.T) {
	img := solidImage(50, 40, color.RGBA{A: 255})

	out := CropViewport(img, 0.5, 0.5, 100, 100)

	if out.Bounds().Dx() != 50 || out.Bounds().Dy() != 40 {
		t.Errorf("fitting image was cropped to %v", out.Bounds())
	}
}

func TestCropViewportWindowsOverflow(t *testing.T) {
	img := solidImage(200, 100, color.RGBA{A: 255})

	out := CropViewport(img, 0, 0, 80, 60)
	if out.Bounds().Dx() != 80 || out.Bounds().Dy() != 60 {
		t.Fatalf("crop size = %v, want 80x60", out.Bounds())
	}
	if out.Bounds().Min != (image.Point{0, 0}) {
		t.Errorf("top-left offset should anchor at origin, got %v", out.Bounds().Min)
	}

	out = CropViewport(img, 1, 1, 80, 60)
	if out.Bounds().Min != (image.Point{120, 40}) {
		t.Errorf("bottom-right offset anchored at %v, want (120,40)", out.Bounds().Min)
	}

	out = CropViewport(img, 0.5, 0.5, 80, 60)
	if out.Bounds().Min != (image.Point{60, 20}) {
		t.Errorf("centered offset anchored at %v, want (60,20)", out.Bounds().Min)
	}
}

func TestCropViewportClampsOffsets(t *testing.T) {
	img := solidImage(100, 100, color.RGBA{A: 255})

	out := CropViewport(img, 2.5, -1, 40, 40)
	min := out.Bounds().Min
	if min.X != 60 || min.Y != 0 {
		t.Errorf("out-of-range offsets anchored at %v, want (60,0)", min)
	}
}

func TestCropViewportSingleAxisOverflow(t *testing.T) {
	img := solidImage(200, 30, color.RGBA{A: 255})

	out := CropViewport(img, 1, 1, 80, 60)
	if out.Bounds().Dy() != 30 {
		t.Errorf("fitting axis was cropped: %v", out.Bounds())
	}
	if out.Bounds().Min.X != 120 {
		t.Errorf("overflowing axis anchored at %d, want 120", out.Bounds().Min.X)
	}
}
