package liveclass

import (
	"errors"
	"sync"
	"time"
)

var ErrNotFound = errors.New("live class not found")

// Registry is the authoritative in-memory record of which classes are live
// right now. It is shared by the HTTP handlers and the websocket gateway and
// is the only component allowed to mutate sessions; everything it hands out
// is a defensive copy.
type Registry struct {
	mu       sync.RWMutex
	sessions []*Session          // insertion order
	byID     map[string]*Session // id -> same backing Session
}

func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Session)}
}

// Add appends `s` to the registry. The caller is expected to have generated a
// fresh unique ID.
func (r *Registry) Add(s Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := s.clone()
	r.sessions = append(r.sessions, &cp)
	r.byID[cp.ID] = &cp
}

// Remove terminates the session matching `id`, removing it from the registry
// entirely and returning it with EndTime set. A second Remove of the same id
// yields ErrNotFound: callers rely on that to detect double termination.
func (r *Registry) Remove(id string) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	delete(r.byID, id)
	for i, cur := range r.sessions {
		if cur == s {
			r.sessions = append(r.sessions[:i], r.sessions[i+1:]...)
			break
		}
	}

	ended := s.clone()
	ended.IsLive = false
	now := time.Now().UTC()
	ended.EndTime = &now
	return ended, nil
}

// All returns a snapshot of every live session, in creation order.
func (r *Registry) All() []Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s.clone())
	}
	return out
}

func (r *Registry) Get(id string) (Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	return s.clone(), nil
}

// ByClass returns all live sessions held for the given class.
func (r *Registry) ByClass(class string) []Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Session
	for _, s := range r.sessions {
		if s.Class == class {
			out = append(out, s.clone())
		}
	}
	return out
}

// ByTeacher returns all live sessions started by the given teacher.
func (r *Registry) ByTeacher(teacherID string) []Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Session
	for _, s := range r.sessions {
		if s.TeacherID == teacherID {
			out = append(out, s.clone())
		}
	}
	return out
}

// Join records `userID` as a participant of session `id`. Joining is
// idempotent per user: a reconnecting user gets their existing entry back and
// the participant list does not grow.
func (r *Registry) Join(id, userID, name, role string) (Participant, Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[id]
	if !ok {
		return Participant{}, Session{}, ErrNotFound
	}
	for _, p := range s.Participants {
		if p.UserID == userID {
			return p, s.clone(), nil
		}
	}
	p := Participant{
		UserID:   userID,
		Name:     name,
		Role:     role,
		JoinedAt: time.Now().UTC(),
	}
	s.Participants = append(s.Participants, p)
	return p, s.clone(), nil
}
