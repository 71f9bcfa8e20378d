// Package directory holds the per-session reference data: the full person
// and group lists, group types, roles, and a lazily filled membership cache.
package directory

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tobiaswagner/gruppentool/internal/churchtools"
	"github.com/tobiaswagner/gruppentool/internal/progress"
)

// Source is the slice of the ChurchTools API the cache reads from.
type Source interface {
	WhoAmI(ctx context.Context) (churchtools.Person, error)
	Persons(ctx context.Context) ([]churchtools.Person, error)
	Groups(ctx context.Context) ([]churchtools.Group, error)
	GroupTypes(ctx context.Context) ([]churchtools.GroupType, error)
	Roles(ctx context.Context) ([]churchtools.Role, error)
	GroupMembers(ctx context.Context, groupID string) ([]churchtools.GroupMember, error)
}

// Cache is the session-wide reference data store. The person, group, group
// type, and role lists are read-only after Load; only the membership cache
// fills lazily. A membership entry, once fetched, is authoritative for the
// rest of the session.
type Cache struct {
	source Source
	logger zerolog.Logger

	me          Person
	persons     []Person
	personsByID map[string]Person
	groups      []Group
	groupTypes  []GroupType
	roles       []Role

	mu      sync.Mutex
	members map[string]*memberEntry
}

type memberEntry struct {
	once   sync.Once
	people []Person
	err    error
}

// loadSteps is the number of reference collections fetched during Load.
const loadSteps = 5

// Load fetches all reference data from the source. The five collections are
// fetched concurrently; rep receives one tick per finished collection.
func Load(ctx context.Context, src Source, logger zerolog.Logger, rep progress.Reporter) (*Cache, error) {
	c := &Cache{
		source:  src,
		logger:  logger.With().Str("component", "directory").Logger(),
		members: make(map[string]*memberEntry),
	}

	if rep == nil {
		rep = progress.Nop{}
	}
	rep.Start(loadSteps, "Lade Stammdaten")
	var mu sync.Mutex
	done := 0
	tick := func(what string) {
		mu.Lock()
		done++
		rep.Update(done, what)
		mu.Unlock()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		who, err := src.WhoAmI(ctx)
		if err != nil {
			return err
		}
		c.me = mapPerson(who)
		tick("Angemeldete Person")
		return nil
	})
	g.Go(func() error {
		persons, err := src.Persons(ctx)
		if err != nil {
			return err
		}
		c.persons = make([]Person, 0, len(persons))
		for _, p := range persons {
			c.persons = append(c.persons, mapPerson(p))
		}
		tick("Personen")
		return nil
	})
	g.Go(func() error {
		groups, err := src.Groups(ctx)
		if err != nil {
			return err
		}
		for _, gr := range groups {
			// Entries without id or name are unusable for search.
			if gr.ID == "" || gr.Name == "" {
				continue
			}
			c.groups = append(c.groups, Group{ID: gr.ID.String(), Name: gr.Name})
		}
		tick("Gruppen")
		return nil
	})
	g.Go(func() error {
		types, err := src.GroupTypes(ctx)
		if err != nil {
			return err
		}
		for _, gt := range types {
			if gt.ID == "" || gt.Name == "" {
				continue
			}
			c.groupTypes = append(c.groupTypes, GroupType{ID: gt.ID.String(), Name: gt.Name})
		}
		tick("Gruppentypen")
		return nil
	})
	g.Go(func() error {
		roles, err := src.Roles(ctx)
		if err != nil {
			return err
		}
		for _, r := range roles {
			c.roles = append(c.roles, Role{ID: r.ID.String(), GroupTypeID: r.GroupTypeID.String(), Name: r.Name})
		}
		tick("Rollen")
		return nil
	})
	if err := g.Wait(); err != nil {
		rep.Finish()
		return nil, fmt.Errorf("loading reference data: %w", err)
	}
	rep.Finish()

	c.personsByID = make(map[string]Person, len(c.persons))
	for _, p := range c.persons {
		c.personsByID[p.ID] = p
	}

	c.logger.Info().
		Int("persons", len(c.persons)).
		Int("groups", len(c.groups)).
		Int("group_types", len(c.groupTypes)).
		Int("roles", len(c.roles)).
		Msg("reference data loaded")
	return c, nil
}

// Me returns the acting user.
func (c *Cache) Me() Person { return c.me }

// Persons returns the full person list. Callers must not mutate it.
func (c *Cache) Persons() []Person { return c.persons }

// Groups returns the full group list. Callers must not mutate it.
func (c *Cache) Groups() []Group { return c.groups }

// GroupTypes returns all group types.
func (c *Cache) GroupTypes() []GroupType { return c.groupTypes }

// Roles returns all roles.
func (c *Cache) Roles() []Role { return c.roles }

// PersonByID looks up a person in the directory index.
func (c *Cache) PersonByID(id string) (Person, bool) {
	p, ok := c.personsByID[id]
	return p, ok
}

// GroupTypeByID looks up a group type.
func (c *Cache) GroupTypeByID(id string) (GroupType, bool) {
	for _, gt := range c.groupTypes {
		if gt.ID == id {
			return gt, true
		}
	}
	return GroupType{}, false
}

// RolesForType returns the roles whose group type matches groupTypeID. The
// role-selection controls only ever offer these.
func (c *Cache) RolesForType(groupTypeID string) []Role {
	var out []Role
	for _, r := range c.roles {
		if r.GroupTypeID == groupTypeID {
			out = append(out, r)
		}
	}
	return out
}

// Members returns the member list of a group, fetching it on first use. A
// successful fetch is cached for the session and never invalidated; a failed
// fetch is not cached, so the next read retries.
func (c *Cache) Members(ctx context.Context, groupID string) ([]Person, error) {
	c.mu.Lock()
	e, ok := c.members[groupID]
	if !ok {
		e = &memberEntry{}
		c.members[groupID] = e
	}
	c.mu.Unlock()

	e.once.Do(func() {
		raw, err := c.source.GroupMembers(ctx, groupID)
		if err != nil {
			e.err = fmt.Errorf("loading members of group %s: %w", groupID, err)
			return
		}
		e.people = c.mapMembers(raw)
	})

	if e.err != nil {
		c.mu.Lock()
		if c.members[groupID] == e {
			delete(c.members, groupID)
		}
		c.mu.Unlock()
		return nil, e.err
	}
	return e.people, nil
}

// mapMembers resolves raw member records to persons. The person id comes
// from personId or the embedded domain identifier; names fall back to the
// directory index when the record carries none.
func (c *Cache) mapMembers(raw []churchtools.GroupMember) []Person {
	people := make([]Person, 0, len(raw))
	for _, m := range raw {
		id := m.PersonID.String()
		if id == "" || id == "0" {
			id = m.Person.DomainIdentifier.String()
		}
		if id == "" || id == "0" {
			continue
		}
		first := m.Person.DomainAttributes.FirstName
		last := m.Person.DomainAttributes.LastName
		if first == "" && last == "" {
			if known, ok := c.personsByID[id]; ok {
				first, last = known.FirstName, known.LastName
			}
		}
		people = append(people, Person{ID: id, FirstName: first, LastName: last})
	}
	return people
}

func mapPerson(p churchtools.Person) Person {
	return Person{ID: p.ID.String(), FirstName: p.FirstName, LastName: p.LastName}
}
