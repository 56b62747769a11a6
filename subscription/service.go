package subscription

import (
	"fmt"
	"sort"
	"sync"

	"github.com/AjayThorve/MRC/types"
)

// Service is a named collection of Roles established once at
// construction. The role set is immutable after construction;
// registrations against unknown role names are rejected.
type Service struct {
	mu sync.Mutex

	name  string
	roles map[string]*Role

	base taggedBase
}

// NewService constructs a Service with the given name and role names.
// An empty role set is rejected.
func NewService(name string, roleNames []string) (*Service, error) {
	if len(roleNames) == 0 {
		return nil, types.ErrEmptyRoleSet
	}

	s := &Service{
		name:  name,
		roles: make(map[string]*Role, len(roleNames)),
	}

	base, err := newTaggedBase(s)
	if err != nil {
		return nil, err
	}
	s.base = base

	for _, roleName := range roleNames {
		s.roles[roleName] = NewRole(name, roleName)
	}
	return s, nil
}

// Name returns the service's name.
func (s *Service) Name() string { return s.name }

// HasRole reports whether name is one of the service's roles.
func (s *Service) HasRole(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.roles[name]
	return ok
}

// CompareRoles reports whether the service's role set is exactly the set
// of names given, used to decide whether a second CreateSubscriptionService
// request for the same name names an equivalent service.
func (s *Service) CompareRoles(names []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(names) != len(s.roles) {
		return false
	}
	for _, n := range names {
		if _, ok := s.roles[n]; !ok {
			return false
		}
	}
	return true
}

// RoleNames returns the service's role names in sorted order, used for
// error messages and the S6-style service-equivalence check.
func (s *Service) RoleNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.roles))
	for n := range s.roles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// RegisterInstance validates role and subscribeToRoles, allocates a
// single tag, adds (tag, instance) as a member of role, and as a
// subscriber of every role named in subscribeToRoles.
func (s *Service) RegisterInstance(instance types.InstanceID, role string, subscribeToRoles []string, sub Subscriber) (types.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	memberRole, ok := s.roles[role]
	if !ok {
		return 0, fmt.Errorf("register instance: role %q: %w", role, types.ErrInvalidRole)
	}
	subRoles := make([]*Role, 0, len(subscribeToRoles))
	for _, name := range subscribeToRoles {
		r, ok := s.roles[name]
		if !ok {
			return 0, fmt.Errorf("register instance: role %q: %w", name, types.ErrInvalidRole)
		}
		subRoles = append(subRoles, r)
	}

	tag, err := s.base.registerInstanceID(instance)
	if err != nil {
		return 0, fmt.Errorf("register instance: %w", err)
	}

	memberRole.AddMember(tag, instance)
	for _, r := range subRoles {
		r.AddSubscriber(tag, sub)
	}
	return tag, nil
}

// DropTag drops tag from every role and from the tagged base. Returns
// ErrTagNotFound if tag is not currently owned by any instance.
func (s *Service) DropTag(tag types.Tag) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.base.dropTag(tag)
}

// DropInstance drops every tag owned by instance.
func (s *Service) DropInstance(instance types.InstanceID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base.dropInstance(instance)
}

// DropAll drops every tag the service currently has registered, across
// every instance, notifying each role exactly as DropTag would. Used
// when a service is being torn down entirely rather than having one
// member removed.
func (s *Service) DropAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base.dropAll()
}

// IssueUpdate diffuses every role's pending membership changes.
// onFailure is called once per failed subscriber write and is never
// allowed to abort the remaining diffusion.
func (s *Service) IssueUpdate(onFailure func(sub Subscriber, serviceName, roleName string, err error)) (dirtyRoles int) {
	s.mu.Lock()
	roles := make([]*Role, 0, len(s.roles))
	for _, r := range s.roles {
		roles = append(roles, r)
	}
	s.mu.Unlock()

	for _, r := range roles {
		if r.IssueUpdate(onFailure) {
			dirtyRoles++
		}
	}
	return dirtyRoles
}

// TagCount returns the total number of live tags across all roles.
func (s *Service) TagCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.base.tagCount()
}

// TagCountForInstanceID returns the number of live tags owned by instance.
func (s *Service) TagCountForInstanceID(instance types.InstanceID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.base.tagCountForInstanceID(instance)
}

// doDropTag implements tagOwner: drop tag from every role.
func (s *Service) doDropTag(tag types.Tag) {
	for _, r := range s.roles {
		r.DropTag(tag)
	}
}
