// Package selection tracks the set of persons chosen for a new group.
package selection

import (
	"sort"
	"sync"

	"github.com/tobiaswagner/gruppentool/internal/directory"
)

// Store is a mutable set of chosen persons, keyed by person id. It is seeded
// with the acting user, who can be removed like any other entry. No
// operation fails; adding a present person or removing an absent one is a
// no-op.
type Store struct {
	mu     sync.Mutex
	people map[string]directory.Person
}

// NewStore creates a store seeded with the acting user.
func NewStore(actingUser directory.Person) *Store {
	s := &Store{people: make(map[string]directory.Person)}
	s.people[actingUser.ID] = actingUser
	return s
}

// Add puts a person into the selection.
func (s *Store) Add(p directory.Person) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.people[p.ID] = p
}

// Remove takes a person out of the selection.
func (s *Store) Remove(personID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.people, personID)
}

// Contains reports whether the person is selected.
func (s *Store) Contains(personID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.people[personID]
	return ok
}

// ToggleGroup bulk-adds all members when checked, bulk-removes them when
// unchecked. Other selections are untouched.
func (s *Store) ToggleGroup(members []directory.Person, checked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range members {
		if checked {
			s.people[m.ID] = m
		} else {
			delete(s.people, m.ID)
		}
	}
}

// Len returns the number of selected persons.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.people)
}

// People returns the selection ordered by last name, first name, then id,
// so repeated reads render identically.
func (s *Store) People() []directory.Person {
	s.mu.Lock()
	out := make([]directory.Person, 0, len(s.people))
	for _, p := range s.people {
		out = append(out, p)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		if out[i].FirstName != out[j].FirstName {
			return out[i].FirstName < out[j].FirstName
		}
		return out[i].ID < out[j].ID
	})
	return out
}
