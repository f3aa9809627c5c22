// Package resolver maps the member names a model or a person types to
// member identifiers.
package resolver

import (
	"github.com/PabloGalante/organizer-agent/internal/domain"
)

// Directory is the read side of the group the resolver needs.
type Directory interface {
	Members() []domain.Member
	CurrentUserID() domain.MemberID
}

type Resolver struct {
	dir Directory
}

func New(dir Directory) *Resolver {
	return &Resolver{dir: dir}
}

// Resolve converts names to member ids in input order. "me" (any case) is
// the current user; other names match the first member with the same name
// ignoring case. Names that match nobody are dropped.
func (r *Resolver) Resolve(names []string) []domain.MemberID {
	if len(names) == 0 {
		return nil
	}

	members := r.dir.Members()
	ids := make([]domain.MemberID, 0, len(names))
	for _, name := range names {
		if domain.IsCurrentUserAlias(name) {
			ids = append(ids, r.dir.CurrentUserID())
			continue
		}
		if m, ok := find(members, name); ok {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

// Lookup finds a single member by name, honouring the "me" alias.
func (r *Resolver) Lookup(name string) (domain.Member, bool) {
	members := r.dir.Members()
	if domain.IsCurrentUserAlias(name) {
		current := r.dir.CurrentUserID()
		for _, m := range members {
			if m.ID == current {
				return m, true
			}
		}
		return domain.Member{}, false
	}
	return find(members, name)
}

func find(members []domain.Member, name string) (domain.Member, bool) {
	key := domain.FoldName(name)
	if key == "" {
		return domain.Member{}, false
	}
	for _, m := range members {
		if domain.FoldName(m.Name) == key {
			return m, true
		}
	}
	return domain.Member{}, false
}
