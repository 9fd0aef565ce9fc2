// Package repos defines the repository allow-list the agent may reference.
package repos

import "fmt"

// Repository describes one repository the agent is permitted to inspect.
type Repository struct {
	Owner       string
	Name        string
	Description string
}

// FullName returns the repository in "owner/name" form.
func (r Repository) FullName() string {
	return r.Owner + "/" + r.Name
}

// Set is an immutable allow-list of repositories, loaded once at startup.
type Set struct {
	list  []Repository
	index map[string]Repository
}

// NewSet builds a Set from the given repositories, preserving order.
func NewSet(repositories []Repository) *Set {
	s := &Set{
		list:  make([]Repository, 0, len(repositories)),
		index: make(map[string]Repository, len(repositories)),
	}
	for _, r := range repositories {
		if r.Owner == "" || r.Name == "" {
			continue
		}
		key := r.FullName()
		if _, exists := s.index[key]; exists {
			continue
		}
		s.index[key] = r
		s.list = append(s.list, r)
	}
	return s
}

// Contains reports whether owner/name is in the allow-list.
// Matching is case-sensitive, mirroring GitHub's canonical repository names.
func (s *Set) Contains(owner, name string) bool {
	_, ok := s.index[owner+"/"+name]
	return ok
}

// List returns the repositories in their configured order.
func (s *Set) List() []Repository {
	out := make([]Repository, len(s.list))
	copy(out, s.list)
	return out
}

// Len returns the number of repositories in the set.
func (s *Set) Len() int {
	return len(s.list)
}

// Validate returns an error if the set is unusable.
func (s *Set) Validate() error {
	if len(s.list) == 0 {
		return fmt.Errorf("repository allow-list is empty")
	}
	return nil
}
