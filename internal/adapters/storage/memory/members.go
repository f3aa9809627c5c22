package memory

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/PabloGalante/organizer-agent/internal/domain"
)

// AddMember adds a member to the group. Blank names and names already in
// the group (ignoring case) are rejected with a user-facing sentence.
func (s *Store) AddMember(name string) (domain.Member, string, error) {
	name = strings.TrimSpace(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" || s.memberByNameLocked(name) != nil {
		return domain.Member{}, "", domain.Reject(domain.ErrInvalidMember,
			fmt.Sprintf("%s is already in the group or the name is invalid.", name))
	}

	m := s.newMember(name)
	s.members = append(s.members, m)

	return *m, fmt.Sprintf("Successfully added %s to the group.", name), nil
}

// RemoveMember removes a member and strips them from every assignment and
// event in the same critical section. Items left with nobody fall back to
// the current user.
func (s *Store) RemoveMember(id domain.MemberID) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == s.currentUser {
		return "", domain.Reject(domain.ErrCurrentUser, "You can't remove yourself from the group.")
	}

	idx := slices.IndexFunc(s.members, func(m *domain.Member) bool { return m.ID == id })
	if idx < 0 {
		return "", domain.ErrMemberNotFound
	}
	name := s.members[idx].Name
	s.members = slices.Delete(s.members, idx, idx+1)

	for _, a := range s.assignments {
		a.Assignees = s.withoutMember(a.Assignees, id)
	}
	for _, e := range s.events {
		e.Attendees = s.withoutMember(e.Attendees, id)
	}

	return fmt.Sprintf("Successfully removed %s from the group.", name), nil
}

// UpdateMember changes a member's profile. Renames follow the same
// duplicate rule as AddMember.
func (s *Store) UpdateMember(id domain.MemberID, name, email string) (domain.Member, error) {
	name = strings.TrimSpace(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.memberLocked(id)
	if m == nil {
		return domain.Member{}, domain.ErrMemberNotFound
	}
	if name != "" && !domain.SameName(name, m.Name) {
		if s.memberByNameLocked(name) != nil {
			return domain.Member{}, domain.Reject(domain.ErrInvalidMember,
				fmt.Sprintf("%s is already in the group or the name is invalid.", name))
		}
		m.Name = name
	}
	if email = strings.TrimSpace(email); email != "" {
		m.Email = email
	}

	return *m, nil
}

// Members returns the group in insertion order.
func (s *Store) Members() []domain.Member {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Member, 0, len(s.members))
	for _, m := range s.members {
		out = append(out, *m)
	}
	return out
}

// Member looks up a member by id.
func (s *Store) Member(id domain.MemberID) (domain.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m := s.memberLocked(id)
	if m == nil {
		return domain.Member{}, domain.ErrMemberNotFound
	}
	return *m, nil
}

// CurrentUser returns the simulated logged-in member.
func (s *Store) CurrentUser() domain.Member {
	m, _ := s.Member(s.currentUser)
	return m
}

// MemberNames maps ids to display names, skipping unknown ids.
func (s *Store) MemberNames(ids []domain.MemberID) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if m := s.memberLocked(id); m != nil {
			names = append(names, m.Name)
		}
	}
	return names
}

func (s *Store) newMember(name string) *domain.Member {
	lower := strings.ToLower(strings.Join(strings.Fields(name), "."))
	return &domain.Member{
		ID:        domain.MemberID(domain.NewID()),
		Name:      name,
		Email:     lower + "@" + s.opts.EmailDomain,
		AvatarURL: s.opts.AvatarBaseURL + url.QueryEscape(lower),
	}
}

func (s *Store) memberLocked(id domain.MemberID) *domain.Member {
	for _, m := range s.members {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func (s *Store) memberByNameLocked(name string) *domain.Member {
	for _, m := range s.members {
		if domain.SameName(m.Name, name) {
			return m
		}
	}
	return nil
}

// knownMembersLocked keeps ids that exist, dropping duplicates, and applies
// the defaulting rule.
func (s *Store) knownMembersLocked(ids []domain.MemberID) []domain.MemberID {
	out := make([]domain.MemberID, 0, len(ids))
	for _, id := range ids {
		if s.memberLocked(id) != nil && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	if len(out) == 0 {
		out = append(out, s.currentUser)
	}
	return out
}

func (s *Store) withoutMember(ids []domain.MemberID, id domain.MemberID) []domain.MemberID {
	out := slices.DeleteFunc(ids, func(x domain.MemberID) bool { return x == id })
	if len(out) == 0 {
		out = append(out, s.currentUser)
	}
	return out
}
