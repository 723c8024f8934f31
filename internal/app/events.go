package app

// Event is one decoded user interaction delivered to the controller. The
// renderer owns keystrokes and widgets; by the time an event reaches the
// controller it is already a logical operation.
type Event interface {
	isEvent()
}

// AddItem appends a new todo item.
type AddItem struct {
	Text string
}

// ToggleItem flips an item's completed flag.
type ToggleItem struct {
	ID uint64
}

// EditItem replaces an item's text.
type EditItem struct {
	ID   uint64
	Text string
}

// DeleteItem removes an item.
type DeleteItem struct {
	ID uint64
}

// AddNote creates a note box at a board position.
type AddNote struct {
	Title string
	X, Y  float64
}

// RenameNote replaces a note's title.
type RenameNote struct {
	ID    uint64
	Title string
}

// EditNote replaces a note's markdown body.
type EditNote struct {
	ID      uint64
	Content string
}

// MoveNote places a note at a new board position.
type MoveNote struct {
	ID   uint64
	X, Y float64
}

// ResizeNote sets a note's size.
type ResizeNote struct {
	ID   uint64
	W, H float64
}

// DeleteNote removes a note.
type DeleteNote struct {
	ID uint64
}

// Quit flushes pending saves and ends the session.
type Quit struct{}

func (AddItem) isEvent()    {}
func (ToggleItem) isEvent() {}
func (EditItem) isEvent()   {}
func (DeleteItem) isEvent() {}
func (AddNote) isEvent()    {}
func (RenameNote) isEvent() {}
func (EditNote) isEvent()   {}
func (MoveNote) isEvent()   {}
func (ResizeNote) isEvent() {}
func (DeleteNote) isEvent() {}
func (Quit) isEvent()       {}
