package state

// Mode represents the current interaction mode of the TUI.
type Mode int

const (
	NormalMode Mode = iota // Default navigation mode
	FormMode               // A huh form is open
	HelpMode               // Displaying help screen
)

// RowKind tells what a row in the editor list shows
type RowKind int

const (
	SchemeRow RowKind = iota
	GroupRow
	ClassRow
)

// Row is one selectable line in the editor list. Indexes refer to the
// document at the time the rows were built.
type Row struct {
	Kind   RowKind
	Scheme int
	Group  int
	Class  int
}

// UIState manages navigation, terminal dimensions and the current mode.
type UIState struct {
	// cursor is the index of the selected row
	cursor int

	// displayScheme indexes the scheme names whose colours are shown,
	// with 0 meaning the built-in default colours
	displayScheme int

	// scrollOffset is the first visible row
	scrollOffset int

	width  int
	height int
	mode   Mode
}

// NewUIState creates a new UIState with default values.
func NewUIState() *UIState {
	return &UIState{mode: NormalMode}
}

// Cursor returns the selected row index
func (s *UIState) Cursor() int { return s.cursor }

// MoveCursor moves the cursor by delta, clamped to [0, rows)
func (s *UIState) MoveCursor(delta, rows int) {
	s.SetCursor(s.cursor+delta, rows)
}

// SetCursor places the cursor, clamped to [0, rows)
func (s *UIState) SetCursor(i, rows int) {
	switch {
	case rows <= 0:
		s.cursor = 0
	case i < 0:
		s.cursor = 0
	case i >= rows:
		s.cursor = rows - 1
	default:
		s.cursor = i
	}
}

// DisplayScheme returns the index of the scheme column being shown
func (s *UIState) DisplayScheme() int { return s.displayScheme }

// CycleScheme moves the shown scheme by delta, wrapping around n entries
func (s *UIState) CycleScheme(delta, n int) {
	if n <= 0 {
		s.displayScheme = 0
		return
	}
	s.displayScheme = ((s.displayScheme+delta)%n + n) % n
}

// ClampScheme keeps the shown scheme valid after the list changed
func (s *UIState) ClampScheme(n int) {
	if s.displayScheme >= n {
		s.displayScheme = max(n-1, 0)
	}
}

// ScrollOffset returns the first visible row for a viewport of height
// visible rows, adjusted so the cursor stays on screen.
func (s *UIState) ScrollOffset(visible int) int {
	if visible <= 0 {
		return 0
	}
	if s.cursor < s.scrollOffset {
		s.scrollOffset = s.cursor
	}
	if s.cursor >= s.scrollOffset+visible {
		s.scrollOffset = s.cursor - visible + 1
	}
	return s.scrollOffset
}

// Width returns the terminal width
func (s *UIState) Width() int { return s.width }

// Height returns the terminal height
func (s *UIState) Height() int { return s.height }

// SetSize records the terminal dimensions
func (s *UIState) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Mode returns the current interaction mode
func (s *UIState) Mode() Mode { return s.mode }

// SetMode switches the interaction mode
func (s *UIState) SetMode(mode Mode) { s.mode = mode }
