// Package store groups assignments by unit code and keeps every member of
// a group on the group's color.
//
// Mutations never touch a published map or slice: they build new ones and
// swap them in, so a snapshot returned by Groups stays consistent. The
// store has a single writer; callers serialise access.
package store

import (
	"slices"
	"sort"

	appLog "termplan/internal/log"
	"termplan/internal/model"
	"termplan/internal/palette"
)

type Store struct {
	groups map[string][]*model.Assignment
	latest *model.Assignment
}

func New() *Store {
	return &Store{groups: map[string][]*model.Assignment{}}
}

// Add appends a to its unit's group. Assignments without a unit code are
// dropped (returns false). A new group takes explicitColor when it names a
// palette token, else a random token; joining an existing group overrides
// a.Color with the group's color.
func (s *Store) Add(a *model.Assignment, explicitColor string) bool {
	if a == nil || a.UnitCode == "" {
		appLog.Debug("store: ignoring assignment without unit code")
		return false
	}

	members := s.groups[a.UnitCode]
	if len(members) > 0 {
		a.Color = members[0].Color
	} else {
		color, ok := palette.Normalize(explicitColor)
		if !ok {
			color = palette.Random()
		}
		a.Color = string(color)
	}

	next := s.clone()
	next[a.UnitCode] = append(slices.Clip(members), a)
	s.groups = next
	s.latest = a
	return true
}

// Remove deletes a by identity. The group disappears with its last member.
func (s *Store) Remove(a *model.Assignment) bool {
	if a == nil {
		return false
	}
	members := s.groups[a.UnitCode]
	idx := slices.Index(members, a)
	if idx < 0 {
		return false
	}

	next := s.clone()
	if len(members) == 1 {
		delete(next, a.UnitCode)
	} else {
		rest := make([]*model.Assignment, 0, len(members)-1)
		rest = append(rest, members[:idx]...)
		rest = append(rest, members[idx+1:]...)
		next[a.UnitCode] = rest
	}
	s.groups = next
	if s.latest == a {
		s.latest = nil
	}
	return true
}

// Update replaces old with updated, carrying old's color over. It reports
// whether updated was stored.
func (s *Store) Update(old, updated *model.Assignment) bool {
	color := ""
	if old != nil {
		color = old.Color
		s.Remove(old)
	}
	return s.Add(updated, color)
}

// Groups returns the current snapshot. Callers must not modify it.
func (s *Store) Groups() map[string][]*model.Assignment {
	return s.groups
}

// Group returns the members of unit in insertion order.
func (s *Store) Group(unit string) []*model.Assignment {
	return s.groups[unit]
}

// Color returns the color of unit's group.
func (s *Store) Color(unit string) (string, bool) {
	members := s.groups[unit]
	if len(members) == 0 {
		return "", false
	}
	return members[0].Color, true
}

// Latest is the most recently added assignment still in the store.
func (s *Store) Latest() *model.Assignment {
	return s.latest
}

// Units returns the unit codes in lexical order.
func (s *Store) Units() []string {
	units := make([]string, 0, len(s.groups))
	for u := range s.groups {
		units = append(units, u)
	}
	sort.Strings(units)
	return units
}

// All flattens the groups, units in lexical order.
func (s *Store) All() []*model.Assignment {
	var out []*model.Assignment
	for _, u := range s.Units() {
		out = append(out, s.groups[u]...)
	}
	return out
}

func (s *Store) Len() int {
	n := 0
	for _, members := range s.groups {
		n += len(members)
	}
	return n
}

func (s *Store) clone() map[string][]*model.Assignment {
	next := make(map[string][]*model.Assignment, len(s.groups)+1)
	for k, v := range s.groups {
		next[k] = v
	}
	return next
}
