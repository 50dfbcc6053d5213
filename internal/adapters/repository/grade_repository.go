package repository

import (
	"context"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AchilleasB/school-portal/portal-service/internal/config"
	"github.com/AchilleasB/school-portal/portal-service/internal/core/domain"
	"github.com/AchilleasB/school-portal/portal-service/internal/core/ports"
)

type gradeDoc struct {
	StudentID      string  `bson:"student_id"`
	ClassNumber    string  `bson:"class_number"`
	AssignmentName string  `bson:"assignment_name"`
	AssignedDate   string  `bson:"assigned_date"`
	DueDate        string  `bson:"due_date"`
	Grade          *string `bson:"grade"`
	GradedDate     *string `bson:"graded_date"`
}

type GradeRepository struct {
	coll *mongo.Collection
	cb   *gobreaker.CircuitBreaker
}

var _ ports.GradeRepository = (*GradeRepository)(nil)

func NewGradeRepository(db *mongo.Database) *GradeRepository {
	return &GradeRepository{
		coll: db.Collection(GradesCollection),
		cb:   config.NewCircuitBreaker(config.BreakerMongo),
	}
}

func (r *GradeRepository) FindByStudent(ctx context.Context, studentID string) ([]domain.GradeRecord, error) {
	return execute(r.cb, func() ([]domain.GradeRecord, error) {
		opts := options.Find().SetSort(bson.D{{Key: "assigned_date", Value: -1}, {Key: "assignment_name", Value: 1}})
		docs, err := findAll[gradeDoc](ctx, r.coll, bson.M{"student_id": studentID}, opts)
		if err != nil {
			return nil, err
		}
		out := make([]domain.GradeRecord, 0, len(docs))
		for _, d := range docs {
			out = append(out, domain.GradeRecord(d))
		}
		return out, nil
	})
}

// gradeKeyFilter matches exactly one record by its natural key.
func gradeKeyFilter(key domain.GradeKey) bson.M {
	return bson.M{
		"student_id":      key.StudentID,
		"assignment_name": key.AssignmentName,
		"assigned_date":   key.AssignedDate,
	}
}

// SetGrade updates the single record matching the natural key. It never upserts.
func (r *GradeRepository) SetGrade(ctx context.Context, key domain.GradeKey, grade, gradedDate string) error {
	_, err := execute(r.cb, func() (struct{}, error) {
		res, err := r.coll.UpdateOne(ctx,
			gradeKeyFilter(key),
			bson.M{"$set": bson.M{"grade": grade, "graded_date": gradedDate}},
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

func (r *GradeRepository) InsertMany(ctx context.Context, records []domain.GradeRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	docs := make([]interface{}, 0, len(records))
	for _, rec := range records {
		docs = append(docs, gradeDoc(rec))
	}
	return execute(r.cb, func() (int, error) {
		res, err := r.coll.InsertMany(ctx, docs)
		if err != nil {
			return 0, err
		}
		return len(res.InsertedIDs), nil
	})
}
