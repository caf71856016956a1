package engine

// Options tunes the engine. The zero value is not useful; start from
// DefaultOptions.
type Options struct {
	// SnapUnit is the baseline grid unit in model units. Zero disables
	// baseline snapping entirely.
	SnapUnit float64

	// BaselineSnap is the global toggle a per-element SnapInherit resolves
	// against.
	BaselineSnap bool

	// MinSize is the floor for element width and height during a resize
	// gesture. Gestures below it are clamped, never rejected.
	MinSize float64

	// DragThreshold is the minimum pointer travel, in screen units, before
	// releasing a gesture commits an event. A release below it is a plain
	// click and appends nothing.
	DragThreshold float64
}

// DefaultOptions returns the stock engine tuning.
func DefaultOptions() Options {
	return Options{
		SnapUnit:      8,
		BaselineSnap:  false,
		MinSize:       8,
		DragThreshold: 3,
	}
}
