// Package client is the Go SDK for the authentication API. It mirrors what
// a storefront needs: a cached session, route guards, and an HTTP
// interceptor that reacts to expired sessions.
package client

import (
	"sync"

	"github.com/ncobase/shopauth/structs"
)

// Session is a shared, observable cache of the signed-in user. Consumers
// subscribe once and receive the current value plus every change.
type Session struct {
	mu      sync.RWMutex
	user    *structs.UserResponse
	checked bool
	subs    map[int]chan *structs.UserResponse
	nextID  int

	// pubMu serializes publishers; with a single sender per channel the
	// drain in publish always leaves room for the send.
	pubMu sync.Mutex
}

// NewSession creates an empty session cache.
func NewSession() *Session {
	return &Session{subs: make(map[int]chan *structs.UserResponse)}
}

// Current returns the cached user, nil when signed out.
func (s *Session) Current() *structs.UserResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Checked reports whether the session state has been resolved at least
// once, so guards can distinguish "signed out" from "not yet known".
func (s *Session) Checked() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.checked
}

// Set caches a signed-in user and notifies subscribers.
func (s *Session) Set(user *structs.UserResponse) {
	s.publish(user)
}

// Clear drops the cached user and notifies subscribers.
func (s *Session) Clear() {
	s.publish(nil)
}

func (s *Session) publish(user *structs.UserResponse) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.mu.Lock()
	s.user = user
	s.checked = true
	subs := make([]chan *structs.UserResponse, 0, len(s.subs))
	for _, ch := range s.subs {
		subs = append(subs, ch)
	}
	s.mu.Unlock()

	for _, ch := range subs {
		// Replace a pending value rather than blocking the publisher.
		select {
		case <-ch:
		default:
		}
		ch <- user
	}
}

// Subscribe returns a channel that immediately yields the current value and
// then every change. The cancel function releases the subscription.
func (s *Session) Subscribe() (<-chan *structs.UserResponse, func()) {
	ch := make(chan *structs.UserResponse, 1)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	ch <- s.user
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
	return ch, cancel
}
