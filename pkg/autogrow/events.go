package autogrow

// Cause classifies the content mutation behind a NotifyContentChanged call.
// It selects the scheduling rule for the resulting adjustment pass:
// typed input is debounced then deferred a frame, insertions wait one frame
// for the mutation to settle, and deletions and programmatic assignments
// adjust immediately.
type Cause int

const (
	// CauseTyped is ordinary keystroke input.
	CauseTyped Cause = iota
	// CausePaste is clipboard insertion, which may not have committed to the
	// surface synchronously.
	CausePaste
	// CauseCut is clipboard removal.
	CauseCut
	// CauseDelete is a deletion-key release.
	CauseDelete
	// CauseNewline is newline entry; the new line may not be reflected yet.
	CauseNewline
	// CauseExternal is a programmatic value assignment.
	CauseExternal
)

func (c Cause) String() string {
	switch c {
	case CauseTyped:
		return "typed"
	case CausePaste:
		return "paste"
	case CauseCut:
		return "cut"
	case CauseDelete:
		return "delete"
	case CauseNewline:
		return "newline"
	case CauseExternal:
		return "external"
	default:
		return "unknown"
	}
}

// HeightChange describes one completed pass that moved the applied height or
// the overflow flag. It is emitted at most once per pass; an idempotent pass
// emits nothing.
type HeightChange struct {
	Old         int
	New         int
	Overflowing bool
}
