package client

import (
	"sync"

	"github.com/jwalitptl/clinic-booking/internal/model"
)

// Session is the authentication state shared by every call a Client makes.
// Only the Client writes it (login, register, logout and a 401 response);
// everything else reads.
type Session struct {
	mu    sync.RWMutex
	token string
	user  *model.User
}

func NewSession() *Session {
	return &Session{}
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the signed-in user, or nil.
func (s *Session) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) IsAuthenticated() bool {
	return s.Token() != ""
}

func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil && s.user.Role == model.RoleAdmin
}

func (s *Session) set(token string, user *model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
}

func (s *Session) clear() {
	s.set("", nil)
}
