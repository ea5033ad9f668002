package state

import (
	"math"
	"testing"
)

func TestZoomFromFitStartsAtOne(t *testing.T) {
	s, d := newTestState(blankPages(5)...)
	r := NewStateReducer(nil)

	reduce(t, r, s, ZoomInAction{})
	if math.Abs(d.Scale-1.25) > 1e-9 {
		t.Errorf("scale = %v, want 1.25 (one step from 1.0)", d.Scale)
	}
}

func TestZoomClampsAtBounds(t *testing.T) {
	s, d := newTestState(blankPages(5)...)
	r := NewStateReducer(nil)

	for i := 0; i < 20; i++ {
		reduce(t, r, s, ZoomInAction{})
	}
	if d.Scale != MaxScale {
		t.Errorf("scale = %v, want clamp at %v", d.Scale, MaxScale)
	}

	for i := 0; i < 40; i++ {
		reduce(t, r, s, ZoomOutAction{})
	}
	if d.Scale != MinScale {
		t.Errorf("scale = %v, want clamp at %v", d.Scale, MinScale)
	}
}

func TestCountedZoomAppliesStepPerUnit(t *testing.T) {
	s, d := newTestState(blankPages(5)...)
	r := NewStateReducer(nil)

	reduce(t, r, s, CountDigitAction{Digit: 3}, ZoomInAction{})
	want := 1.25 * 1.25 * 1.25
	if math.Abs(d.Scale-want) > 1e-9 {
		t.Errorf("3+ zoomed to %v, want %v", d.Scale, want)
	}
}

func TestZoomResetYieldsScaleOneAndClearsPan(t *testing.T) {
	s, d := newTestState(blankPages(5)...)
	r := NewStateReducer(nil)

	reduce(t, r, s, ZoomInAction{}, ZoomInAction{})
	d.Viewport = Viewport{X: 0.5, Y: 0.7}

	reduce(t, r, s, ZoomResetAction{})
	if d.Scale != 1.0 {
		t.Errorf("after reset, scale = %v, want 1.0", d.Scale)
	}
	if d.Viewport != (Viewport{}) {
		t.Errorf("after reset, viewport = %+v, want (0,0)", d.Viewport)
	}
}

func TestZoomResetFromFitYieldsScaleOne(t *testing.T) {
	s, d := newTestState(blankPages(5)...)
	r := NewStateReducer(nil)

	reduce(t, r, s, ZoomResetAction{})
	if d.Scale != 1.0 {
		t.Errorf("reset from fit left scale = %v, want 1.0", d.Scale)
	}
}

func TestZoomKeepsPanWhileOverflowing(t *testing.T) {
	s, d := newTestState(blankPages(5)...)
	r := NewStateReducer(nil)
	d.Scale = 2.0
	d.Viewport = Viewport{X: 0.5, Y: 0.5}

	reduce(t, r, s, ZoomInAction{})
	if d.Viewport != (Viewport{X: 0.5, Y: 0.5}) {
		t.Errorf("viewport = %+v, want pan preserved while the page overflows", d.Viewport)
	}
}

func TestZoomToFittingScaleResetsPan(t *testing.T) {
	s, d := newTestState(blankPages(5)...)
	r := NewStateReducer(nil)
	d.Scale = 1.25
	d.Viewport = Viewport{X: 0.5, Y: 0.5}

	reduce(t, r, s, ZoomOutAction{})
	if d.Scale != 1.0 {
		t.Fatalf("scale = %v, want 1.0", d.Scale)
	}
	if d.Viewport != (Viewport{}) {
		t.Errorf("viewport = %+v, want reset once the page fits", d.Viewport)
	}
}

func TestZoomAtBoundIsNoOp(t *testing.T) {
	s, d := newTestState(blankPages(5)...)
	r := NewStateReducer(nil)
	d.Scale = MaxScale
	token := d.RenderToken

	reduce(t, r, s, ZoomInAction{})
	if d.RenderToken != token {
		t.Error("zoom at the clamp bound must not invalidate renders")
	}
}

func TestPanClampsToUnitRange(t *testing.T) {
	s, d := newTestState(blankPages(5)...)
	r := NewStateReducer(nil)

	for i := 0; i < 20; i++ {
		reduce(t, r, s, PanAction{DX: PanStep})
	}
	if d.Viewport.X != 1 {
		t.Errorf("viewport.X = %v, want clamp at 1", d.Viewport.X)
	}

	reduce(t, r, s, PanAction{DY: -PanStep})
	if d.Viewport.Y != 0 {
		t.Errorf("viewport.Y = %v, want clamp at 0", d.Viewport.Y)
	}
}

func TestCountedPanScalesDelta(t *testing.T) {
	s, d := newTestState(blankPages(5)...)
	r := NewStateReducer(nil)

	reduce(t, r, s, CountDigitAction{Digit: 3}, PanAction{DY: PanStep})
	if math.Abs(d.Viewport.Y-0.3) > 1e-9 {
		t.Errorf("3-pan moved to %v, want 0.3", d.Viewport.Y)
	}
}

func TestToggleDarkFlipsAndInvalidates(t *testing.T) {
	s, d := newTestState(blankPages(5)...)
	r := NewStateReducer(nil)
	token := d.RenderToken

	reduce(t, r, s, ToggleDarkAction{})
	if !d.Dark {
		t.Fatal("dark mode not enabled")
	}
	if d.RenderToken == token {
		t.Error("dark toggle must invalidate in-flight renders")
	}

	reduce(t, r, s, ToggleDarkAction{})
	if d.Dark {
		t.Error("second toggle must restore light mode")
	}
}
