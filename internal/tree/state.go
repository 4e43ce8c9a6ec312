package tree

// State owns the expand/collapse flags for one rendered view instance.
// Every toggle is independent, keyed by node path. State lives only for the
// lifetime of the view; a fresh render starts from the configured default.
type State struct {
	expanded        map[string]bool
	defaultExpanded bool
}

// NewState creates a toggle state with the given default for untouched nodes.
func NewState(defaultExpanded bool) *State {
	return &State{
		expanded:        make(map[string]bool),
		defaultExpanded: defaultExpanded,
	}
}

// Expanded reports whether the node at path is currently expanded.
func (s *State) Expanded(path string) bool {
	if v, ok := s.expanded[path]; ok {
		return v
	}
	return s.defaultExpanded
}

// Toggle flips one node's state and returns the new value. Other nodes are
// unaffected.
func (s *State) Toggle(path string) bool {
	next := !s.Expanded(path)
	s.expanded[path] = next
	return next
}

// Set forces one node's state.
func (s *State) Set(path string, expanded bool) {
	s.expanded[path] = expanded
}

// Reset drops all per-node overrides, returning to the default.
func (s *State) Reset() {
	s.expanded = make(map[string]bool)
}
