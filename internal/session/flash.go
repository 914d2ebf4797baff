package session

import (
	"sync"
	"time"
)

// Flag names a one-shot message shown on the next page a voter sees
type Flag string

const (
	FlagNew           Flag = "new"
	FlagVoted         Flag = "voted"
	FlagAlreadyClosed Flag = "already_closed"
	FlagChanged       Flag = "changed"
	FlagExtraCodes    Flag = "extra_codes"
)

// FlashTTL bounds how long an unread flash is kept
const FlashTTL = 10 * time.Minute

type flashKey struct {
	sessionID string
	pollID    string
	flag      Flag
}

type flashValue struct {
	value     any
	expiresAt time.Time
}

// FlashStore holds flags consumed exactly once per session and poll
type FlashStore struct {
	mu    sync.Mutex
	items map[flashKey]flashValue
	now   func() time.Time
}

func NewFlashStore() *FlashStore {
	return &FlashStore{
		items: make(map[flashKey]flashValue),
		now:   time.Now,
	}
}

// SetClock replaces the time source. Used by tests.
func (s *FlashStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

// Set records a flag with an optional payload
func (s *FlashStore) Set(sessionID, pollID string, flag Flag, value any) {
	if sessionID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, v := range s.items {
		if !now.Before(v.expiresAt) {
			delete(s.items, k)
		}
	}
	if value == nil {
		value = true
	}
	s.items[flashKey{sessionID, pollID, flag}] = flashValue{value: value, expiresAt: now.Add(FlashTTL)}
}

// Pull returns and removes a flag's payload
func (s *FlashStore) Pull(sessionID, pollID string, flag Flag) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := flashKey{sessionID, pollID, flag}
	v, ok := s.items[k]
	if !ok {
		return nil, false
	}
	delete(s.items, k)
	if !s.now().Before(v.expiresAt) {
		return nil, false
	}
	return v.value, true
}

// PullBool reports whether a flag was set, consuming it
func (s *FlashStore) PullBool(sessionID, pollID string, flag Flag) bool {
	_, ok := s.Pull(sessionID, pollID, flag)
	return ok
}

// PullStrings consumes a flag carrying a list of strings
func (s *FlashStore) PullStrings(sessionID, pollID string, flag Flag) []string {
	v, ok := s.Pull(sessionID, pollID, flag)
	if !ok {
		return nil
	}
	list, _ := v.([]string)
	return list
}
