package domain_test

import (
	"testing"

	"atelier/internal/domain"
)

func TestRect_Intersects(t *testing.T) {
	base := domain.Rect{X: 0, Y: 0, Width: 100, Height: 100}

	cases := []struct {
		name string
		o    domain.Rect
		want bool
	}{
		{"overlapping", domain.Rect{X: 50, Y: 50, Width: 100, Height: 100}, true},
		{"contained", domain.Rect{X: 10, Y: 10, Width: 20, Height: 20}, true},
		{"touching right edge", domain.Rect{X: 100, Y: 0, Width: 50, Height: 50}, true},
		{"touching corner", domain.Rect{X: 100, Y: 100, Width: 10, Height: 10}, true},
		{"disjoint right", domain.Rect{X: 101, Y: 0, Width: 10, Height: 10}, false},
		{"disjoint above", domain.Rect{X: 0, Y: -20, Width: 10, Height: 10}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := base.Intersects(tc.o); got != tc.want {
				t.Errorf("Intersects(%+v) = %v, want %v", tc.o, got, tc.want)
			}
			// Intersection is symmetric.
			if got := tc.o.Intersects(base); got != tc.want {
				t.Errorf("reverse Intersects = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRect_Normalized_FlipsNegativeDimensions(t *testing.T) {
	r := domain.Rect{X: 100, Y: 100, Width: -40, Height: -30}
	n := r.Normalized()
	want := domain.Rect{X: 60, Y: 70, Width: 40, Height: 30}
	if n != want {
		t.Errorf("Normalized() = %+v, want %+v", n, want)
	}
	// Already-positive rects pass through untouched.
	if got := want.Normalized(); got != want {
		t.Errorf("Normalized() changed a positive rect: %+v", got)
	}
}

func TestHandle_Resize_SEKeepsPosition(t *testing.T) {
	r := domain.Rect{X: 10, Y: 20, Width: 100, Height: 50}
	got := domain.HandleSE.Resize(r, 15, 25)
	want := domain.Rect{X: 10, Y: 20, Width: 115, Height: 75}
	if got != want {
		t.Errorf("se resize = %+v, want %+v", got, want)
	}
}

func TestHandle_Resize_NWKeepsOppositeCorner(t *testing.T) {
	r := domain.Rect{X: 10, Y: 20, Width: 100, Height: 50}
	got := domain.HandleNW.Resize(r, 5, -10)
	if got.X+got.Width != r.X+r.Width {
		t.Errorf("nw resize moved right edge: %v != %v", got.X+got.Width, r.X+r.Width)
	}
	if got.Y+got.Height != r.Y+r.Height {
		t.Errorf("nw resize moved bottom edge: %v != %v", got.Y+got.Height, r.Y+r.Height)
	}
	if got.Width != 95 || got.Height != 60 {
		t.Errorf("nw resize dimensions = %vx%v, want 95x60", got.Width, got.Height)
	}
}

func TestHandle_Resize_EdgeHandlesMoveOneAxis(t *testing.T) {
	r := domain.Rect{X: 0, Y: 0, Width: 100, Height: 100}

	if got := domain.HandleE.Resize(r, 10, 99); got != (domain.Rect{X: 0, Y: 0, Width: 110, Height: 100}) {
		t.Errorf("e resize = %+v", got)
	}
	if got := domain.HandleN.Resize(r, 99, -10); got != (domain.Rect{X: 0, Y: -10, Width: 100, Height: 110}) {
		t.Errorf("n resize = %+v", got)
	}
}

func TestHandle_Valid(t *testing.T) {
	for _, h := range []domain.Handle{"n", "ne", "e", "se", "s", "sw", "w", "nw"} {
		if !h.Valid() {
			t.Errorf("handle %q should be valid", h)
		}
	}
	if domain.Handle("center").Valid() {
		t.Error("unknown handle reported valid")
	}
}
