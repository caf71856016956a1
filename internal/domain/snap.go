package domain

import "math"

// Baseline snapping rounds a coordinate to the nearest multiple of a grid
// unit so elements land on the typographic baseline grid.

// Snap returns the nearest multiple of unit. A non-positive unit disables
// snapping and returns value unchanged.
func Snap(value, unit float64) float64 {
	if unit <= 0 {
		return value
	}
	return math.Round(value/unit) * unit
}

// IsAligned reports whether value already sits on a multiple of unit.
func IsAligned(value, unit float64) bool {
	if unit <= 0 {
		return true
	}
	return Snap(value, unit) == value
}

// SnapResult describes a snap in detail: the snapped value and the delta
// that was applied to reach it.
type SnapResult struct {
	Value float64 `json:"value"`
	Delta float64 `json:"delta"`
}

// SnapDetailed returns both the snapped value and the applied delta.
func SnapDetailed(value, unit float64) SnapResult {
	snapped := Snap(value, unit)
	return SnapResult{Value: snapped, Delta: snapped - value}
}

// SnapMode is the per-element baseline-snap override.
type SnapMode string

const (
	SnapInherit SnapMode = "inherit"
	SnapOn      SnapMode = "on"
	SnapOff     SnapMode = "off"
)

// Resolve collapses the tri-state against the global toggle. The
// per-element override wins; inherit (or an unknown value) falls back to
// the global setting.
func (m SnapMode) Resolve(global bool) bool {
	switch m {
	case SnapOn:
		return true
	case SnapOff:
		return false
	default:
		return global
	}
}
