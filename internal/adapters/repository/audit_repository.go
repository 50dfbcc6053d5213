package repository

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AchilleasB/school-portal/portal-service/internal/config"
	"github.com/AchilleasB/school-portal/portal-service/internal/core/domain"
	"github.com/AchilleasB/school-portal/portal-service/internal/core/ports"
)

type auditDoc struct {
	ID            string     `bson:"id"`
	AdminUser     string     `bson:"admin_user"`
	Username      string     `bson:"username"`
	Name          string     `bson:"name"`
	Email         string     `bson:"email"`
	Role          string     `bson:"role"`
	UpdatedItem   string     `bson:"updated_item"`
	PreviousValue string     `bson:"previous_value"`
	Timestamp     time.Time  `bson:"timestamp"`
	PublishedAt   *time.Time `bson:"published_at"`
	Attempts      int        `bson:"publish_attempts,omitempty"`
}

func newAuditDoc(e domain.AuditEntry) auditDoc {
	return auditDoc{
		ID:            e.ID,
		AdminUser:     e.AdminUser,
		Username:      e.TargetUsername,
		Name:          e.TargetName,
		Email:         e.TargetEmail,
		Role:          string(e.TargetRole),
		UpdatedItem:   e.UpdatedItem,
		PreviousValue: e.PreviousValue,
		Timestamp:     e.Timestamp,
		PublishedAt:   e.PublishedAt,
		Attempts:      e.PublishAttempts,
	}
}

func (d auditDoc) toDomain() domain.AuditEntry {
	return domain.AuditEntry{
		ID:              d.ID,
		AdminUser:       d.AdminUser,
		TargetUsername:  d.Username,
		TargetName:      d.Name,
		TargetEmail:     d.Email,
		TargetRole:      domain.Role(d.Role),
		UpdatedItem:     d.UpdatedItem,
		PreviousValue:   d.PreviousValue,
		Timestamp:       d.Timestamp.UTC(),
		PublishedAt:     d.PublishedAt,
		PublishAttempts: d.Attempts,
	}
}

// AuditRepository stores audit entries. The same collection doubles as the
// outbox the relay drains, so the breaker name is chosen by the caller.
type AuditRepository struct {
	coll *mongo.Collection
	cb   *gobreaker.CircuitBreaker
}

var _ ports.AuditRepository = (*AuditRepository)(nil)

func NewAuditRepository(db *mongo.Database, breakerName string) *AuditRepository {
	return &AuditRepository{
		coll: db.Collection(AuditLogsCollection),
		cb:   config.NewCircuitBreaker(breakerName),
	}
}

// Breaker exposes the circuit breaker so the relay can report readiness.
func (r *AuditRepository) Breaker() *gobreaker.CircuitBreaker {
	return r.cb
}

func (r *AuditRepository) Append(ctx context.Context, entry domain.AuditEntry) error {
	_, err := execute(r.cb, func() (struct{}, error) {
		_, err := r.coll.InsertOne(ctx, newAuditDoc(entry))
		return struct{}{}, err
	})
	return err
}

func (r *AuditRepository) Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}).SetLimit(int64(limit))
	return r.find(ctx, bson.M{}, opts)
}

// unpublishedSort puts entries that keep failing behind fresh ones. A missing
// attempt counter sorts before any number.
var unpublishedSort = bson.D{{Key: "publish_attempts", Value: 1}, {Key: "timestamp", Value: 1}}

func (r *AuditRepository) Unpublished(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	opts := options.Find().SetSort(unpublishedSort).SetLimit(int64(limit))
	// Matches both a null marker and entries written before the field existed.
	return r.find(ctx, bson.M{"published_at": nil}, opts)
}

func (r *AuditRepository) MarkPublished(ctx context.Context, id string, at time.Time) error {
	_, err := execute(r.cb, func() (struct{}, error) {
		res, err := r.coll.UpdateOne(ctx,
			bson.M{"id": id},
			bson.M{"$set": bson.M{"published_at": at.UTC()}},
		)
		if err != nil {
			return struct{}{}, err
		}
		if res.MatchedCount == 0 {
			return struct{}{}, domain.ErrNotFound
		}
		return struct{}{}, nil
	})
	return err
}

func (r *AuditRepository) MarkFailed(ctx context.Context, id string) error {
	_, err := execute(r.cb, func() (struct{}, error) {
		res, err := r.coll.UpdateOne(ctx,
			bson.M{"id": id},
			bson.M{"$inc": bson.M{"publish_attempts": 1}},
		)
		if err != nil {
			return struct{}{}, err
		}
		if res.MatchedCount == 0 {
			return struct{}{}, domain.ErrNotFound
		}
		return struct{}{}, nil
	})
	return err
}

func (r *AuditRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.AuditEntry, error) {
	return execute(r.cb, func() ([]domain.AuditEntry, error) {
		docs, err := findAll[auditDoc](ctx, r.coll, filter, opts)
		if err != nil {
			return nil, err
		}
		out := make([]domain.AuditEntry, 0, len(docs))
		for _, d := range docs {
			out = append(out, d.toDomain())
		}
		return out, nil
	})
}
