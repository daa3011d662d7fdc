package wordlist

// Session is the per-process list of accepted words. It never touches disk.
type Session struct {
	set set
}

func NewSession() *Session {
	return &Session{set: newSet()}
}

// Add inserts word and reports whether the list changed.
func (s *Session) Add(word string) bool { return s.set.add(word) }

func (s *Session) Contains(word string) bool { return s.set.contains(word) }

func (s *Session) ContainsFold(word string) bool { return s.set.containsFold(word) }

// List returns the session words sorted.
func (s *Session) List() []string { return s.set.list() }

func (s *Session) Clear() { s.set.clear() }

func (s *Session) Len() int { return s.set.len() }
