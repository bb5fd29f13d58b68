// Package store holds profiles and rules in memory and enforces their
// uniqueness and cascade invariants.
//
// A [Store] is loaded at the start of a command, mutated, and handed back to
// the persistence layer; it has no knowledge of files.
package store

import (
	"errors"
	"fmt"
	"slices"

	"github.com/sahilm/fuzzy"

	"github.com/macropower/gcm/pkg/profile"
	"github.com/macropower/gcm/pkg/rule"
)

var (
	// ErrDuplicateProfile is returned when adding a profile whose name is taken.
	ErrDuplicateProfile = errors.New("profile already exists")

	// ErrDuplicateRule is returned when constructing a store with repeated rules.
	ErrDuplicateRule = errors.New("rule already exists")

	// ErrProfileNotFound is returned when a rule references an unknown profile.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrNotFound is returned when removing a profile or rule that is absent.
	ErrNotFound = errors.New("not found")
)

// Store is the ordered set of profiles and rules.
//
// Lookups are linear scans, which is fine for the handful of profiles a user
// keeps.
type Store struct {
	profiles []profile.Profile
	rules    []rule.Rule
}

// New creates a [Store] from existing profiles and rules, preserving order.
// The slices are copied.
func New(profiles []profile.Profile, rules []rule.Rule) (*Store, error) {
	s := &Store{
		profiles: make([]profile.Profile, 0, len(profiles)),
		rules:    make([]rule.Rule, 0, len(rules)),
	}

	for _, p := range profiles {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, ok := s.Profile(p.Name); ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateProfile, p.Name)
		}

		s.profiles = append(s.profiles, p)
	}

	for _, r := range rules {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if s.hasRule(r) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRule, r)
		}

		s.rules = append(s.rules, r)
	}

	return s, nil
}

// NewEmpty creates a [Store] with no profiles or rules.
func NewEmpty() *Store {
	return &Store{
		profiles: []profile.Profile{},
		rules:    []rule.Rule{},
	}
}

// Profiles returns a copy of all profiles in insertion order.
func (s *Store) Profiles() []profile.Profile {
	return slices.Clone(s.profiles)
}

// Rules returns a copy of all rules in insertion order.
func (s *Store) Rules() []rule.Rule {
	return slices.Clone(s.rules)
}

// ProfileNames returns the profile names in insertion order.
func (s *Store) ProfileNames() []string {
	names := make([]string, 0, len(s.profiles))
	for _, p := range s.profiles {
		names = append(names, p.Name)
	}

	return names
}

// Profile returns the profile with the exact given name.
func (s *Store) Profile(name string) (profile.Profile, bool) {
	i := s.profileIndex(name)
	if i == -1 {
		return profile.Profile{}, false
	}

	return s.profiles[i], true
}

// AddProfile appends p. It fails with [ErrDuplicateProfile] if the name is
// already in use.
func (s *Store) AddProfile(p profile.Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if s.profileIndex(p.Name) != -1 {
		return fmt.Errorf("%w: %q", ErrDuplicateProfile, p.Name)
	}

	s.profiles = append(s.profiles, p)

	return nil
}

// RemoveProfile removes the named profile and every rule that references it.
// It returns the number of rules removed alongside the profile.
func (s *Store) RemoveProfile(name string) (int, error) {
	i := s.profileIndex(name)
	if i == -1 {
		return 0, s.notFound("profile", name)
	}

	s.profiles = slices.Delete(s.profiles, i, i+1)

	before := len(s.rules)
	s.rules = slices.DeleteFunc(s.rules, func(r rule.Rule) bool {
		return r.ProfileName == name
	})

	return before - len(s.rules), nil
}

// AddRule appends r. The referenced profile must exist at call time,
// otherwise [ErrProfileNotFound] is returned. Adding a rule that already
// exists succeeds without changing the store and reports false.
func (s *Store) AddRule(r rule.Rule) (bool, error) {
	if err := r.Validate(); err != nil {
		return false, err
	}
	if s.profileIndex(r.ProfileName) == -1 {
		return false, s.withSuggestions(ErrProfileNotFound, r.ProfileName)
	}
	if s.hasRule(r) {
		return false, nil
	}

	s.rules = append(s.rules, r)

	return true, nil
}

// RemoveRule removes the rule exactly matching r.
func (s *Store) RemoveRule(r rule.Rule) error {
	i := slices.IndexFunc(s.rules, r.Matches)
	if i == -1 {
		return fmt.Errorf("rule for profile %q and path %q: %w", r.ProfileName, r.DirectoryPath, ErrNotFound)
	}

	s.rules = slices.Delete(s.rules, i, i+1)

	return nil
}

// Suggest returns existing profile names that fuzzily match name, best
// match first.
func (s *Store) Suggest(name string) []string {
	if name == "" {
		return nil
	}

	names := s.ProfileNames()
	matches := fuzzy.Find(name, names)

	suggestions := make([]string, 0, len(matches))
	for _, m := range matches {
		suggestions = append(suggestions, m.Str)
	}

	// Also match the other way around, e.g. "work" for "work-old".
	if len(suggestions) == 0 {
		for _, n := range names {
			if len(fuzzy.Find(n, []string{name})) > 0 {
				suggestions = append(suggestions, n)
			}
		}
	}

	return suggestions
}

func (s *Store) profileIndex(name string) int {
	return slices.IndexFunc(s.profiles, func(p profile.Profile) bool {
		return p.Name == name
	})
}

func (s *Store) hasRule(r rule.Rule) bool {
	return slices.ContainsFunc(s.rules, r.Matches)
}

func (s *Store) notFound(kind, name string) error {
	return s.withSuggestions(fmt.Errorf("%s %q: %w", kind, name, ErrNotFound), name)
}

func (s *Store) withSuggestions(err error, name string) error {
	if errors.Is(err, ErrProfileNotFound) {
		err = fmt.Errorf("%w: %q", err, name)
	}

	suggestions := s.Suggest(name)
	if len(suggestions) == 0 {
		return err
	}

	return fmt.Errorf("%w (did you mean %q?)", err, suggestions[0])
}
