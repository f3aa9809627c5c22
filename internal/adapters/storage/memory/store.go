package memory

import (
	"sync"
	"time"

	"github.com/PabloGalante/organizer-agent/internal/domain"
)

// Options configures a Store.
type Options struct {
	// CurrentUserName is the display name of the simulated logged-in member.
	CurrentUserName string
	// EmailDomain and AvatarBaseURL derive placeholder contact details
	// for new members.
	EmailDomain   string
	AvatarBaseURL string
	// Location interprets calendar dates. Defaults to time.Local.
	Location *time.Location

	Deadlines domain.NotificationPreference
	Events    domain.NotificationPreference
}

// DefaultOptions mirrors the defaults of the hosted organizer.
func DefaultOptions() Options {
	return Options{
		CurrentUserName: "Me",
		EmailDomain:     "university.edu",
		AvatarBaseURL:   "https://i.pravatar.cc/150?u=",
		Location:        time.Local,
		Deadlines:       domain.NotificationPreference{Amount: 2, Unit: domain.UnitDays},
		Events:          domain.NotificationPreference{Amount: 1, Unit: domain.UnitHours},
	}
}

// Store is the in-memory Domain Store. It exclusively owns members,
// assignments, schedule events and notification preferences. It is NOT
// persistent: state lives for the lifetime of the process.
type Store struct {
	mu sync.RWMutex

	opts        Options
	currentUser domain.MemberID

	// slices keep insertion order, which breaks ordering ties
	members     []*domain.Member
	assignments []*domain.Assignment
	events      []*domain.ScheduleEvent
	prefs       map[domain.ReminderCategory]domain.NotificationPreference
}

// NewStore creates a Store holding only the current user.
func NewStore(opts Options) *Store {
	def := DefaultOptions()
	if opts.CurrentUserName == "" {
		opts.CurrentUserName = def.CurrentUserName
	}
	if opts.EmailDomain == "" {
		opts.EmailDomain = def.EmailDomain
	}
	if opts.AvatarBaseURL == "" {
		opts.AvatarBaseURL = def.AvatarBaseURL
	}
	if opts.Location == nil {
		opts.Location = def.Location
	}
	if opts.Deadlines.Validate(domain.CategoryDeadlines) != nil {
		opts.Deadlines = def.Deadlines
	}
	if opts.Events.Validate(domain.CategoryEvents) != nil {
		opts.Events = def.Events
	}

	s := &Store{
		opts: opts,
		prefs: map[domain.ReminderCategory]domain.NotificationPreference{
			domain.CategoryDeadlines: opts.Deadlines,
			domain.CategoryEvents:    opts.Events,
		},
	}

	me := s.newMember(opts.CurrentUserName)
	s.currentUser = me.ID
	s.members = append(s.members, me)

	return s
}

// Location returns the location calendar dates are interpreted in.
func (s *Store) Location() *time.Location {
	return s.opts.Location
}

// CurrentUserID returns the id of the simulated logged-in member.
func (s *Store) CurrentUserID() domain.MemberID {
	return s.currentUser
}
