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

type attendanceDoc struct {
	ID        string    `bson:"id"`
	StudentID string    `bson:"student_id"`
	ClassID   string    `bson:"class_id"`
	Date      time.Time `bson:"date"`
	Status    string    `bson:"status"`
}

type AttendanceRepository struct {
	coll *mongo.Collection
	cb   *gobreaker.CircuitBreaker
}

var _ ports.AttendanceRepository = (*AttendanceRepository)(nil)

func NewAttendanceRepository(db *mongo.Database) *AttendanceRepository {
	return &AttendanceRepository{
		coll: db.Collection(AttendanceCollection),
		cb:   config.NewCircuitBreaker(config.BreakerMongo),
	}
}

func (r *AttendanceRepository) Insert(ctx context.Context, record domain.AttendanceRecord) error {
	_, err := execute(r.cb, func() (struct{}, error) {
		_, err := r.coll.InsertOne(ctx, attendanceDoc(record))
		return struct{}{}, err
	})
	return err
}

// attendanceFilter bounds the date inclusively and adds the ids that are set.
func attendanceFilter(f domain.AttendanceFilter) bson.M {
	filter := bson.M{"date": bson.M{"$gte": f.From, "$lte": f.To}}
	if f.ClassID != "" {
		filter["class_id"] = f.ClassID
	}
	if f.StudentID != "" {
		filter["student_id"] = f.StudentID
	}
	return filter
}

func (r *AttendanceRepository) Find(ctx context.Context, f domain.AttendanceFilter) ([]domain.AttendanceRecord, error) {
	filter := attendanceFilter(f)
	return execute(r.cb, func() ([]domain.AttendanceRecord, error) {
		opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "student_id", Value: 1}})
		docs, err := findAll[attendanceDoc](ctx, r.coll, filter, opts)
		if err != nil {
			return nil, err
		}
		out := make([]domain.AttendanceRecord, 0, len(docs))
		for _, d := range docs {
			rec := domain.AttendanceRecord(d)
			rec.Date = rec.Date.UTC()
			out = append(out, rec)
		}
		return out, nil
	})
}
