/*
Package store contains the credential store: user records, per-user friend
sets, and the persistence contract used to survive restarts.

This file defines the Store struct, which owns the user and friend maps and
exposes the register, login, and lookup operations. All state is guarded by a
read-write mutex; mutations snapshot the state and hand it to the Persister
outside the lock so readers are never stalled by persistence I/O.
*/
package store

import (
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"minichat/internal/app/user"
	"minichat/internal/pkg/errs"
	"minichat/internal/pkg/logx"
)

// Store owns all user identity state for the running process.
// The in-memory maps are the source of truth; the Persister is best effort.
type Store struct {
	// mu protects users and friends.
	mu sync.RWMutex

	// users maps user ID (lowercased username) to the immutable user record.
	users map[string]user.User

	// friends maps user ID to the set of friend user IDs.
	// An entry exists exactly when the user exists.
	friends map[string]map[string]struct{}

	// persister receives a full state snapshot after every mutation.
	persister Persister

	// structured logger with store context.
	logger zerolog.Logger
}

// LoginResult is the profile document returned by a successful login.
type LoginResult struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Avatar  user.Avatar `json:"avatar"`
	Friends []string    `json:"friends"`
}

// Profile is the public profile document returned by Lookup.
type Profile struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Avatar user.Avatar `json:"avatar"`
}

// NewStore constructs a Store backed by the given Persister and loads the
// initial state from it. A missing or unreadable document yields an empty
// store rather than an error.
func NewStore(persister Persister) *Store {
	storeLogger := logx.Logger().With().Str("component", "Store").Logger()

	s := &Store{
		users:     make(map[string]user.User),
		friends:   make(map[string]map[string]struct{}),
		persister: persister,
		logger:    storeLogger,
	}

	doc, err := persister.Load()
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to load persisted state. Starting empty.")
		return s
	}

	for id, record := range doc.Users {
		s.users[id] = user.User{
			ID:           id,
			Name:         record.Name,
			PasswordHash: record.PasswordHash,
			Avatar:       record.Avatar,
		}
		s.friends[id] = make(map[string]struct{})
	}

	for id, list := range doc.Friends {
		if _, ok := s.users[id]; !ok {
			s.logger.Warn().Str("user_id", id).Msg("Persisted friend list for unknown user. Entry dropped.")
			continue
		}
		for _, friendID := range list {
			s.friends[id][friendID] = struct{}{}
		}
	}

	s.logger.Info().Int("total_users", len(s.users)).Msg("Credential store loaded.")
	return s
}

// Register creates a new user with the given username and password.
// The user ID is the lowercased username; registration fails if the ID is
// already taken, regardless of casing. Exactly one of any set of concurrent
// registrations for the same ID wins.
func (s *Store) Register(username, password string) *errs.CustomError {
	if username == "" || password == "" {
		return errs.NewError(errs.ErrInvalidParams)
	}

	id := strings.ToLower(username)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password during registration.")
		return errs.NewError(errs.ErrUnknown)
	}

	s.mu.Lock()

	if _, exists := s.users[id]; exists {
		s.mu.Unlock()
		s.logger.Warn().Str("user_id", id).Msg("Registration conflict: username already exists.")
		return errs.NewError(errs.ErrUserAlreadyExists)
	}

	s.users[id] = user.User{
		ID:           id,
		Name:         username,
		PasswordHash: string(hashedPassword),
		Avatar:       user.NewAvatar(username),
	}
	s.friends[id] = make(map[string]struct{})

	doc := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Info().Str("user_id", id).Msg("User registered.")
	s.persist(doc)

	return nil
}

// Login verifies the username and password and returns the user's profile
// with their friend list. Unknown users and wrong passwords fail with the
// same error so login cannot be used to probe for accounts.
func (s *Store) Login(username, password string) (*LoginResult, *errs.CustomError) {
	id := strings.ToLower(username)

	s.mu.RLock()
	u, exists := s.users[id]
	friendIDs := friendList(s.friends[id])
	s.mu.RUnlock()

	if !exists {
		s.logger.Warn().Str("user_id", id).Msg("Login failed: unknown user.")
		return nil, errs.NewError(errs.ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn().Str("user_id", id).Msg("Login failed: password mismatch.")
		return nil, errs.NewError(errs.ErrInvalidCredentials)
	}

	return &LoginResult{
		ID:      u.ID,
		Name:    u.Name,
		Avatar:  u.Avatar,
		Friends: friendIDs,
	}, nil
}

// Lookup reports whether a user with the given ID exists and, if so, returns
// their public profile. The check is case-insensitive and never errors.
func (s *Store) Lookup(id string) (*Profile, bool) {
	id = strings.ToLower(id)

	s.mu.RLock()
	u, exists := s.users[id]
	s.mu.RUnlock()

	if !exists {
		return nil, false
	}

	return &Profile{
		ID:     u.ID,
		Name:   u.Name,
		Avatar: u.Avatar,
	}, true
}

// UserCount returns the number of registered users.
func (s *Store) UserCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.users)
}

// snapshotLocked builds the persistence document from the current state.
// Callers must hold mu.
func (s *Store) snapshotLocked() *Document {
	doc := &Document{
		Users:   make(map[string]UserRecord, len(s.users)),
		Friends: make(map[string][]string, len(s.friends)),
	}

	for id, u := range s.users {
		doc.Users[id] = UserRecord{
			Name:         u.Name,
			PasswordHash: u.PasswordHash,
			Avatar:       u.Avatar,
		}
	}

	for id, set := range s.friends {
		doc.Friends[id] = friendList(set)
	}

	return doc
}

// persist hands the snapshot to the Persister. Failures are logged; the
// in-memory mutation is never rolled back.
func (s *Store) persist(doc *Document) {
	if err := s.persister.Save(doc); err != nil {
		s.logger.Error().Err(err).Msg("Failed to persist state snapshot.")
	}
}

// friendList converts a friend set into a sorted slice. A nil set yields an
// empty, non-nil slice so the JSON form is always an array.
func friendList(set map[string]struct{}) []string {
	list := make([]string, 0, len(set))
	for friendID := range set {
		list = append(list, friendID)
	}
	sort.Strings(list)
	return list
}
