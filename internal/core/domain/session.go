package domain

import "time"

// Session is the server-side state created at login.
type Session struct {
	ID        string          `json:"id"`
	Username  string          `json:"username"`
	Role      Role            `json:"role"`
	Name      string          `json:"name"`
	ProfileID string          `json:"profile_id"`
	Teacher   *TeacherProfile `json:"teacher,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
