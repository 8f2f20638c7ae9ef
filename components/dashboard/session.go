package dashboard

import (
	"fmt"
	"slices"
	"sync"
	"time"
)

// session owns the views mounted for one client. Views never outlive it.
type session struct {
	id      string
	viewer  ViewerContext
	created time.Time

	mu       sync.Mutex
	lastSeen time.Time
	section  string
	order    []string
	views    map[string]ViewHandle
}

func newSession(id string, viewer ViewerContext, now time.Time) *session {
	return &session{
		id:       id,
		viewer:   viewer,
		created:  now,
		lastSeen: now,
		views:    map[string]ViewHandle{},
	}
}

func (s *session) touch(now time.Time) {
	s.mu.Lock()
	if now.After(s.lastSeen) {
		s.lastSeen = now
	}
	s.mu.Unlock()
}

func (s *session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *session) info() SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionInfo{
		ID:        s.id,
		Viewer:    s.viewer,
		Section:   s.section,
		Views:     slices.Clone(s.order),
		CreatedAt: s.created,
		LastSeen:  s.lastSeen,
	}
}

func (s *session) view(code string) (ViewHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	view, ok := s.views[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrViewNotOpen, code)
	}
	return view, nil
}

// swap installs the views of a newly opened section and returns the views
// that were mounted before, for the caller to tear down.
func (s *session) swap(section string, views []ViewHandle) []ViewHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	previous := s.detachLocked()
	s.section = section
	for _, view := range views {
		s.order = append(s.order, view.Code())
		s.views[view.Code()] = view
	}
	return previous
}

func (s *session) detach() []ViewHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.section = ""
	return s.detachLocked()
}

func (s *session) detachLocked() []ViewHandle {
	previous := make([]ViewHandle, 0, len(s.order))
	for _, code := range s.order {
		previous = append(previous, s.views[code])
	}
	s.order = nil
	s.views = map[string]ViewHandle{}
	return previous
}

func teardownViews(views []ViewHandle) {
	for _, view := range views {
		if view != nil {
			view.Teardown()
		}
	}
}
