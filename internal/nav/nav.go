// Package nav tracks which metric tab is on screen.
package nav

// State is a cyclic index into an ordered list of tab names.
type State struct {
	tabs  []string
	index int
}

// New returns a state positioned on the first tab. It panics on an empty
// list; config validation rejects that before the UI starts.
func New(tabs []string) *State {
	if len(tabs) == 0 {
		panic("nav: no tabs")
	}
	return &State{tabs: append([]string(nil), tabs...)}
}

// Next moves to the following tab, wrapping to the first.
func (s *State) Next() { s.index = (s.index + 1) % len(s.tabs) }

// Previous moves to the preceding tab, wrapping to the last.
func (s *State) Previous() {
	if s.index == 0 {
		s.index = len(s.tabs) - 1
		return
	}
	s.index--
}

func (s *State) Index() int      { return s.index }
func (s *State) Count() int      { return len(s.tabs) }
func (s *State) Current() string { return s.tabs[s.index] }
func (s *State) Tabs() []string  { return s.tabs }
