package ports

import (
	"context"
	"time"

	"github.com/AchilleasB/school-portal/portal-service/internal/core/domain"
)

type AuditEvent struct {
	ID             string    `json:"id"`
	AdminUser      string    `json:"admin_user"`
	TargetUsername string    `json:"username"`
	TargetRole     string    `json:"role"`
	UpdatedItem    string    `json:"updated_item"`
	PreviousValue  string    `json:"previous_value"`
	Timestamp      time.Time `json:"timestamp"`
}

func NewAuditEvent(e domain.AuditEntry) AuditEvent {
	return AuditEvent{
		ID:             e.ID,
		AdminUser:      e.AdminUser,
		TargetUsername: e.TargetUsername,
		TargetRole:     string(e.TargetRole),
		UpdatedItem:    e.UpdatedItem,
		PreviousValue:  e.PreviousValue,
		Timestamp:      e.Timestamp,
	}
}

type AuditEventPublisher interface {
	PublishAuditEvent(ctx context.Context, evt AuditEvent) error
}
