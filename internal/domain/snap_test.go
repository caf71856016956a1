package domain_test

import (
	"testing"

	"atelier/internal/domain"
)

func TestSnap(t *testing.T) {
	cases := []struct {
		value, unit, want float64
	}{
		{0, 8, 0},
		{3, 8, 0},
		{4, 8, 8}, // round half up
		{5, 8, 8},
		{12, 8, 8},
		{13, 8, 16},
		{-3, 8, 0},
		{-5, 8, -8},
		{100, 0, 100}, // zero unit disables snapping
		{100, -4, 100},
	}
	for _, tc := range cases {
		if got := domain.Snap(tc.value, tc.unit); got != tc.want {
			t.Errorf("Snap(%v, %v) = %v, want %v", tc.value, tc.unit, got, tc.want)
		}
	}
}

func TestIsAligned(t *testing.T) {
	if !domain.IsAligned(24, 8) {
		t.Error("24 should be aligned to 8")
	}
	if domain.IsAligned(25, 8) {
		t.Error("25 should not be aligned to 8")
	}
	if !domain.IsAligned(25, 0) {
		t.Error("everything is aligned when the unit is zero")
	}
}

func TestSnapDetailed(t *testing.T) {
	r := domain.SnapDetailed(13, 8)
	if r.Value != 16 || r.Delta != 3 {
		t.Errorf("SnapDetailed(13, 8) = %+v, want value 16 delta 3", r)
	}
	r = domain.SnapDetailed(16, 8)
	if r.Value != 16 || r.Delta != 0 {
		t.Errorf("SnapDetailed(16, 8) = %+v, want zero delta", r)
	}
}

func TestSnapMode_Resolve(t *testing.T) {
	cases := []struct {
		mode   domain.SnapMode
		global bool
		want   bool
	}{
		{domain.SnapOn, false, true},
		{domain.SnapOff, true, false},
		{domain.SnapInherit, true, true},
		{domain.SnapInherit, false, false},
		{domain.SnapMode(""), true, true}, // zero value inherits
	}
	for _, tc := range cases {
		if got := tc.mode.Resolve(tc.global); got != tc.want {
			t.Errorf("%q.Resolve(%v) = %v, want %v", tc.mode, tc.global, got, tc.want)
		}
	}
}
