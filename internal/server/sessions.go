package server

import (
	"sync"

	"github.com/google/uuid"

	"github.com/tobiaswagner/gruppentool/internal/directory"
	"github.com/tobiaswagner/gruppentool/internal/selection"
)

// sessionStore keeps one selection per widget session, keyed by an opaque
// session id. Sessions live until the server exits.
type sessionStore struct {
	mu sync.Mutex
	m  map[string]*selection.Store
}

func newSessionStore() *sessionStore {
	return &sessionStore{m: make(map[string]*selection.Store)}
}

// create opens a session seeded with the acting user.
func (s *sessionStore) create(actingUser directory.Person) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.m[id] = selection.NewStore(actingUser)
	s.mu.Unlock()
	return id
}

func (s *sessionStore) get(id string) (*selection.Store, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.m[id]
	return st, ok
}

func (s *sessionStore) drop(id string) {
	s.mu.Lock()
	delete(s.m, id)
	s.mu.Unlock()
}
