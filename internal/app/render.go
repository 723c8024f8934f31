package app

// ItemView is one todo item as the renderer sees it.
type ItemView struct {
	ID        uint64
	Text      string
	Completed bool
}

// NoteView is one note box as the renderer sees it.
type NoteView struct {
	ID      uint64
	Title   string
	Content string
	X, Y    float64
	W, H    float64
}

// RenderModel is a read-only copy of the current state, regenerated after
// every event. The renderer must not mutate it; it never aliases store
// internals.
//
// Notice carries at most one message. A transient notice (for example a
// rejected input) appears in exactly one model and is gone from the next; a
// sticky notice (persistence trouble) stays until the condition clears.
type RenderModel struct {
	Items  []ItemView
	Notes  []NoteView
	Notice string
	Sticky bool
}
