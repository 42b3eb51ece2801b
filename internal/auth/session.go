package auth

import "time"

// Session is an established login.
type Session struct {
	ID        string    `json:"id"`
	UserID    uint64    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Remember  bool      `json:"remember"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
