package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/AchilleasB/school-portal/portal-service/internal/core/domain"
	"github.com/AchilleasB/school-portal/portal-service/internal/core/ports"
	"github.com/AchilleasB/school-portal/portal-service/internal/logger"
)

// AuditRecorder appends an entry for every administrative change to a user.
type AuditRecorder struct {
	audit ports.AuditRepository
	now   func() time.Time
}

func NewAuditRecorder(audit ports.AuditRepository) *AuditRecorder {
	return &AuditRecorder{audit: audit, now: time.Now}
}

// Record is best-effort: the change it describes is already committed, so a
// failure is logged and returned for the caller's information only.
func (r *AuditRecorder) Record(ctx context.Context, actor string, target domain.User, field, previous string) error {
	if field == domain.FieldPassword {
		previous = domain.PasswordMask
	}
	entry := domain.AuditEntry{
		ID:             uuid.NewString(),
		AdminUser:      actor,
		TargetUsername: target.Username,
		TargetName:     target.Name,
		TargetEmail:    target.Email,
		TargetRole:     target.Role,
		UpdatedItem:    field,
		PreviousValue:  previous,
		Timestamp:      r.now().UTC(),
	}
	if err := r.audit.Append(ctx, entry); err != nil {
		logger.LogError("failed to append audit entry", err,
			"admin_user", actor, "username", target.Username, "updated_item", field)
		return err
	}
	return nil
}
