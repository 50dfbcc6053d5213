package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/AchilleasB/school-portal/portal-service/internal/core/domain"
)

// Collection names.
const (
	UsersCollection      = "users"
	TeachersCollection   = "teachers"
	StudentsCollection   = "students"
	ParentsCollection    = "parents"
	BusRoutesCollection  = "bus_routes"
	GradesCollection     = "grades"
	AttendanceCollection = "attendance"
	AuditLogsCollection  = "audit_logs"
)

const connectTimeout = 10 * time.Second

// Connect opens a client and verifies the primary is reachable.
func Connect(ctx context.Context, uri, database string) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}
	return client, client.Database(database), nil
}

// EnsureIndexes creates the lookup indexes every repository relies on.
// Creating an index that already exists is a no-op.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)
	indexes := map[string][]mongo.IndexModel{
		UsersCollection:     {{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique}},
		TeachersCollection:  {{Keys: bson.D{{Key: "teacher_id", Value: 1}}}, {Keys: bson.D{{Key: "assigned_classes.class_id", Value: 1}}}},
		StudentsCollection:  {{Keys: bson.D{{Key: "student_id", Value: 1}}}},
		ParentsCollection:   {{Keys: bson.D{{Key: "parent_id", Value: 1}}}},
		BusRoutesCollection: {{Keys: bson.D{{Key: "route_id", Value: 1}}}},
		GradesCollection: {{Keys: bson.D{
			{Key: "student_id", Value: 1},
			{Key: "assignment_name", Value: 1},
			{Key: "assigned_date", Value: 1},
		}}},
		AttendanceCollection: {
			{Keys: bson.D{{Key: "class_id", Value: 1}, {Key: "date", Value: -1}}},
			{Keys: bson.D{{Key: "student_id", Value: 1}, {Key: "date", Value: -1}}},
		},
		AuditLogsCollection: {
			{Keys: bson.D{{Key: "timestamp", Value: -1}}},
			{Keys: bson.D{{Key: "published_at", Value: 1}, {Key: "publish_attempts", Value: 1}, {Key: "timestamp", Value: 1}}},
		},
	}
	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}

// Ping is used by the readiness probe.
func Ping(ctx context.Context, client *mongo.Client) error {
	return client.Ping(ctx, readpref.Primary())
}

// execute runs fn through the breaker and maps a missing document to
// domain.ErrNotFound.
func execute[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	var zero T
	res, err := cb.Execute(func() (interface{}, error) {
		v, err := fn()
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return v, err
	})
	if err != nil {
		return zero, err
	}
	v, _ := res.(T)
	return v, nil
}

func findAll[D any](ctx context.Context, coll *mongo.Collection, filter any, opts ...*options.FindOptions) ([]D, error) {
	cur, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var docs []D
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}
