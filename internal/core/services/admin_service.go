package services

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/AchilleasB/school-portal/portal-service/internal/core/domain"
	"github.com/AchilleasB/school-portal/portal-service/internal/core/ports"
)

const defaultAuditLimit = 50

type AdminService struct {
	users    ports.UserRepository
	audit    ports.AuditRepository
	hasher   ports.PasswordHasher
	recorder *AuditRecorder
}

var _ ports.AdminService = (*AdminService)(nil)

func NewAdminService(users ports.UserRepository, audit ports.AuditRepository, hasher ports.PasswordHasher) *AdminService {
	return &AdminService{
		users:    users,
		audit:    audit,
		hasher:   hasher,
		recorder: NewAuditRecorder(audit),
	}
}

func (s *AdminService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listing users")
	}
	return users, nil
}

// UpdateUser changes one field of a user account and records the previous
// value in the audit log.
func (s *AdminService) UpdateUser(ctx context.Context, actor, username, field, value string) error {
	field = strings.ToLower(strings.TrimSpace(field))
	stored, err := s.prepareValue(field, value)
	if err != nil {
		return err
	}

	target, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return errors.Wrapf(err, "loading user %s", username)
	}
	previous := target.FieldValue(field)

	if err := s.users.UpdateField(ctx, username, field, stored); err != nil {
		return errors.Wrapf(err, "updating %s of %s", field, username)
	}

	// The update is committed; a failed audit write does not undo it.
	_ = s.recorder.Record(ctx, actor, *target, field, previous)
	return nil
}

func (s *AdminService) prepareValue(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	switch field {
	case domain.FieldEmail:
		if err := validateVar("value", value, "required,email"); err != nil {
			return "", err
		}
		return value, nil
	case domain.FieldName:
		if err := validateVar("value", value, "required"); err != nil {
			return "", err
		}
		return value, nil
	case domain.FieldRole:
		if !domain.Role(value).Valid() {
			return "", fieldInvalid("value", "unknown role")
		}
		return value, nil
	case domain.FieldPassword:
		if err := validateVar("value", value, "required,min=8"); err != nil {
			return "", err
		}
		hash, err := s.hasher.Hash(value)
		if err != nil {
			return "", errors.Wrap(err, "hashing password")
		}
		return hash, nil
	default:
		return "", fieldInvalid("field", "must be one of "+strings.Join(domain.UpdatableUserFields, ", "))
	}
}

func (s *AdminService) RecentAudit(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	entries, err := s.audit.Recent(ctx, limit)
	if err != nil {
		return nil, errors.Wrap(err, "loading audit log")
	}
	return entries, nil
}
