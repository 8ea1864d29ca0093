package events

// TitleSetter is the part of the window the instructions tracker drives.
type TitleSetter interface {
	SetTitle(title string)
}

// Instructions shows the instruction text until the player first moves. The window title stands in for an
// on-screen text overlay.
type Instructions struct {
	text      string
	baseTitle string
	shown     bool
	dismissed bool
}

// NewInstructions creates a tracker for the given instruction text.
//
// Parameters:
//   - text: the instructions to show
//   - baseTitle: the window title restored after the first movement
//
// Returns:
//   - *Instructions: the tracker
func NewInstructions(text, baseTitle string) *Instructions {
	return &Instructions{text: text, baseTitle: baseTitle}
}

// Show puts the instructions on screen. It does nothing once dismissed.
func (i *Instructions) Show(w TitleSetter) {
	if i.dismissed || i.shown {
		return
	}
	i.shown = true
	if w != nil {
		w.SetTitle(i.baseTitle + " - " + i.text)
	}
}

// Update dismisses the instructions on the first tick that carries a PlayerMoved message.
//
// Parameters:
//   - w: the window, or nil when running headless
//   - moved: this tick's movement messages
func (i *Instructions) Update(w TitleSetter, moved []PlayerMoved) {
	if i.dismissed || len(moved) == 0 {
		return
	}
	i.dismissed = true
	i.shown = false
	if w != nil {
		w.SetTitle(i.baseTitle)
	}
}

// Visible reports whether the instructions are on screen.
func (i *Instructions) Visible() bool {
	return i.shown
}
