// Package search ranks persons and groups against a free-text query.
package search

import (
	"context"
	"sort"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tobiaswagner/gruppentool/internal/directory"
)

// memberFetchLimit caps concurrent membership lookups within one search.
const memberFetchLimit = 8

// Engine matches a query against the directory and produces a ranked,
// deduplicated result list. Name and group-name normalization happens once
// at construction; the reference data is immutable for the session.
type Engine struct {
	dir     *directory.Cache
	logger  zerolog.Logger
	persons []personCandidate
	groups  []groupCandidate
}

// personCandidate precomputes the four name probes a person is scored
// against: first name, last name, "first last", and "last first".
type personCandidate struct {
	person directory.Person
	probes [4]string
}

type groupCandidate struct {
	group directory.Group
	name  string
}

// NewEngine builds the normalized candidate index over the directory.
func NewEngine(dir *directory.Cache, logger zerolog.Logger) *Engine {
	e := &Engine{
		dir:    dir,
		logger: logger.With().Str("component", "search").Logger(),
	}
	for _, p := range dir.Persons() {
		first := Normalize(p.FirstName)
		last := Normalize(p.LastName)
		e.persons = append(e.persons, personCandidate{
			person: p,
			probes: [4]string{first, last, first + " " + last, last + " " + first},
		})
	}
	for _, g := range dir.Groups() {
		e.groups = append(e.groups, groupCandidate{group: g, name: Normalize(g.Name)})
	}
	return e
}

// Search returns all matching persons and groups, best first. An empty query
// yields an empty result, not an error.
func (e *Engine) Search(ctx context.Context, query string) ([]Item, error) {
	q := Normalize(query)
	if q == "" {
		return nil, nil
	}

	// Group matches first; their members feed into the person rows.
	type groupMatch struct {
		group   directory.Group
		score   int
		members []directory.Person
	}
	var matches []groupMatch
	for _, gc := range e.groups {
		if s := ScoreText(gc.name, q); s > 0 {
			matches = append(matches, groupMatch{group: gc.group, score: s})
		}
	}

	// Resolve memberships concurrently. A failed lookup degrades to an
	// empty member list; the group row itself still appears.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(memberFetchLimit)
	for i := range matches {
		g.Go(func() error {
			members, err := e.dir.Members(gctx, matches[i].group.ID)
			if err != nil {
				e.logger.Warn().Err(err).Str("group_id", matches[i].group.ID).Msg("membership lookup failed")
				return nil
			}
			matches[i].members = members
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Person rows, keyed by identity. A person matched both by name and via
	// a group appears once, with the union of matching group names.
	type personRow struct {
		person directory.Person
		score  int
		names  []string
		seen   map[string]bool
	}
	rows := make(map[string]*personRow)
	order := make([]string, 0)
	upsert := func(p directory.Person, score int) *personRow {
		row, ok := rows[p.ID]
		if !ok {
			row = &personRow{person: p, seen: make(map[string]bool)}
			rows[p.ID] = row
			order = append(order, p.ID)
		}
		if score > row.score {
			row.score = score
		}
		return row
	}

	for _, pc := range e.persons {
		best := 0
		for _, probe := range pc.probes {
			if s := ScoreText(probe, q); s > best {
				best = s
			}
		}
		if best > 0 {
			upsert(pc.person, best)
		}
	}

	for _, m := range matches {
		boost := boostedScore(m.score)
		for _, member := range m.members {
			p := member
			if known, ok := e.dir.PersonByID(member.ID); ok {
				p = known
			}
			row := upsert(p, boost)
			if !row.seen[m.group.Name] {
				row.seen[m.group.Name] = true
				row.names = append(row.names, m.group.Name)
			}
		}
	}

	// Zero-score rows never appear: a person reached only through a group
	// whose boosted score rounds to zero is dropped.
	items := make([]Item, 0, len(order)+len(matches))
	for _, id := range order {
		row := rows[id]
		if row.score <= 0 {
			continue
		}
		p := row.person
		items = append(items, Item{
			Kind:       KindPerson,
			Score:      row.score,
			Person:     &p,
			GroupNames: row.names,
		})
	}
	for _, m := range matches {
		gr := m.group
		ids := make([]string, 0, len(m.members))
		for _, member := range m.members {
			ids = append(ids, member.ID)
		}
		items = append(items, Item{
			Kind:        KindGroup,
			Score:       m.score,
			Group:       &gr,
			MemberIDs:   ids,
			MemberCount: len(ids),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Kind != b.Kind {
			return a.Kind == KindPerson
		}
		if a.Kind == KindPerson {
			return len(a.Person.LastName)+len(a.Person.FirstName) < len(b.Person.LastName)+len(b.Person.FirstName)
		}
		return len(a.Group.Name) < len(b.Group.Name)
	})

	return items, nil
}
