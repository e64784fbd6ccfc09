package rawview

import "log/slog"

// scope owns the release functions of acquired resources.
// Releases run in reverse acquisition order, each at most once.
type scope struct {
	log      *slog.Logger
	names    []string
	releases []func()
}

// push records the release for a freshly acquired resource.
func (s *scope) push(name string, release func()) {
	s.names = append(s.names, name)
	s.releases = append(s.releases, release)
}

// unwind releases every held resource, newest first, and empties the scope.
// Calling unwind on an empty scope is a no-op.
func (s *scope) unwind() {
	for i := len(s.releases) - 1; i >= 0; i-- {
		if s.log != nil {
			s.log.Debug("rawview: releasing", "resource", s.names[i])
		}
		s.releases[i]()
	}
	s.names = nil
	s.releases = nil
}

// len returns the number of resources still held.
func (s *scope) len() int {
	return len(s.releases)
}
