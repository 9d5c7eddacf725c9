package autogrow

// collapseProbeHeight is applied to the surface immediately before reading
// its natural extent. Layout does not shrink-to-fit on its own when content
// is removed; collapsing below any valid MinHeight forces the measurement to
// reflect the content's true need instead of the previously applied height.
// Every probe is followed by a final clamped ApplyHeight, so the collapse is
// never user-visible.
const collapseProbeHeight = 0

// Surface is the capability interface a bound text input exposes to the
// engine. Both plain fields and rich editable regions implement it the same
// way from the engine's perspective.
type Surface interface {
	// Content returns the current text.
	Content() string

	// NaturalExtent returns the number of rows the content needs to display
	// with no internal clipping, as if height were unconstrained.
	NaturalExtent() int

	// ApplyHeight sets the rendered height, in rows.
	ApplyHeight(rows int)

	// SetOverflowEnabled gates internal scrolling. It is enabled only while
	// the natural extent exceeds the configured maximum height.
	SetOverflowEnabled(enabled bool)

	// CaptureScroll returns the surface's internal scroll offset in rows.
	CaptureScroll() int

	// RestoreScroll reinstates a previously captured scroll offset.
	RestoreScroll(rows int)
}

// TransitionSurface is implemented by surfaces that animate height changes.
// The engine brackets a single instant application with
// SetTransitionsEnabled(false)/(true) when the transition policy decides a
// change is too small to animate. Surfaces without this capability apply
// every height instantly.
type TransitionSurface interface {
	Surface
	SetTransitionsEnabled(enabled bool)
}
