package domain

import "time"

// PasswordMask replaces the previous value of a password change in the audit log.
const PasswordMask = "hashed"

type AuditEntry struct {
	ID             string     `json:"id"`
	AdminUser      string     `json:"admin_user"`
	TargetUsername string     `json:"username"`
	TargetName     string     `json:"name"`
	TargetEmail    string     `json:"email"`
	TargetRole     Role       `json:"role"`
	UpdatedItem    string     `json:"updated_item"`
	PreviousValue  string     `json:"previous_value"`
	Timestamp      time.Time  `json:"timestamp"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	// PublishAttempts counts failed relay attempts.
	PublishAttempts int `json:"publish_attempts,omitempty"`
}
