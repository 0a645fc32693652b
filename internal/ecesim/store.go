// Package ecesim is an in-memory stand-in for the ECE user-management API,
// good enough for demos and end-to-end tests. It serves the same wire
// shapes the real platform does; it is not the platform.
package ecesim

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"userctl/internal/ece"
)

var (
	// ErrUserNotFound reports a delete against an unknown username.
	ErrUserNotFound = errors.New("user not found")
	// ErrBuiltinUser reports a delete against a platform-managed user.
	ErrBuiltinUser = errors.New("builtin users cannot be deleted")
)

// SeedUser is one user record in a seed file. Enabled defaults to true
// when omitted.
type SeedUser struct {
	UserName  string `yaml:"user_name"`
	FullName  string `yaml:"full_name"`
	Email     string `yaml:"email"`
	Builtin   bool   `yaml:"builtin"`
	CreatedBy string `yaml:"created_by"`
	CreatedAt string `yaml:"created_at"`
	Enabled   *bool  `yaml:"enabled"`
}

// Seed is the simulator's initial dataset.
type Seed struct {
	Users           []SeedUser `yaml:"users"`
	ServiceAccounts []string   `yaml:"service_accounts"`
}

func (s SeedUser) user() ece.User {
	enabled := true
	if s.Enabled != nil {
		enabled = *s.Enabled
	}
	return ece.User{
		UserName: s.UserName,
		FullName: s.FullName,
		Email:    s.Email,
		Builtin:  s.Builtin,
		Metadata: ece.UserMetadata{CreatedBy: s.CreatedBy, CreatedAt: s.CreatedAt},
		Security: ece.UserSecurity{Enabled: enabled},
	}
}

// LoadSeed reads a YAML seed file.
func LoadSeed(path string) (Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed file: %w", err)
	}
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return Seed{}, fmt.Errorf("parse seed file: %w", err)
	}
	return seed, nil
}

// DemoSeed is the built-in dataset. It exercises a creator chain under the
// builtin "readonly" user, a disabled descendant, an unrelated account, and
// two service accounts.
func DemoSeed() Seed {
	disabled := false
	return Seed{
		Users: []SeedUser{
			{UserName: "admin", FullName: "Platform Admin", Builtin: true},
			{UserName: "readonly", FullName: "Read-only Access", Builtin: true},
			{UserName: "alice", FullName: "Alice Andersson", Email: "alice@example.com", CreatedBy: "readonly", CreatedAt: "2024-01-15T09:30:00Z"},
			{UserName: "bob", FullName: "Bob Berg", Email: "bob@example.com", CreatedBy: "alice", CreatedAt: "2024-02-02T14:12:00Z"},
			{UserName: "carol", FullName: "Carol Chen", Email: "carol@example.com", CreatedBy: "alice", CreatedAt: "2024-02-20T08:45:00Z", Enabled: &disabled},
			{UserName: "dave", FullName: "Dave Diaz", Email: "dave@example.com", CreatedBy: "admin", CreatedAt: "2024-03-05T16:00:00Z"},
		},
		ServiceAccounts: []string{"svc-backup", "svc-observer"},
	}
}

// Store holds the simulator's mutable user set.
type Store struct {
	mu              sync.RWMutex
	users           map[string]ece.User
	order           []string
	serviceAccounts []string
}

// NewStore builds a store from a seed. Duplicate usernames keep the last
// record; unnamed records are dropped.
func NewStore(seed Seed) *Store {
	s := &Store{users: make(map[string]ece.User)}
	for _, su := range seed.Users {
		if su.UserName == "" {
			continue
		}
		if _, ok := s.users[su.UserName]; !ok {
			s.order = append(s.order, su.UserName)
		}
		s.users[su.UserName] = su.user()
	}
	s.serviceAccounts = append([]string(nil), seed.ServiceAccounts...)
	return s
}

// Users lists current users in seed order. Disabled users are filtered out
// unless includeDisabled is set.
func (s *Store) Users(includeDisabled bool) []ece.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]ece.User, 0, len(s.order))
	for _, name := range s.order {
		u, ok := s.users[name]
		if !ok {
			continue
		}
		if !includeDisabled && !u.Security.Enabled {
			continue
		}
		users = append(users, u)
	}
	return users
}

// ServiceAccounts lists the seeded service-account identifiers.
func (s *Store) ServiceAccounts() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.serviceAccounts...)
}

// Delete removes a user. Builtin users are refused with ErrBuiltinUser;
// unknown users report ErrUserNotFound.
func (s *Store) Delete(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[username]
	if !ok {
		return ErrUserNotFound
	}
	if u.Builtin {
		return ErrBuiltinUser
	}
	delete(s.users, username)
	return nil
}

// Len counts current users, disabled included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, name := range s.order {
		if _, ok := s.users[name]; ok {
			count++
		}
	}
	return count
}
