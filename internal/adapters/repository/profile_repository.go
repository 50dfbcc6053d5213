package repository

import (
	"context"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AchilleasB/school-portal/portal-service/internal/config"
	"github.com/AchilleasB/school-portal/portal-service/internal/core/domain"
	"github.com/AchilleasB/school-portal/portal-service/internal/core/ports"
)

type assignedClassDoc struct {
	ClassID          string   `bson:"class_id"`
	ClassName        string   `bson:"class_name,omitempty"`
	Schedule         string   `bson:"schedule,omitempty"`
	StudentsEnrolled []string `bson:"students_enrolled"`
}

type teacherDoc struct {
	TeacherID       string             `bson:"teacher_id"`
	Name            string             `bson:"name"`
	AssignedClasses []assignedClassDoc `bson:"assigned_classes"`
}

func (d teacherDoc) toDomain() domain.TeacherProfile {
	t := domain.TeacherProfile{
		TeacherID:       d.TeacherID,
		Name:            d.Name,
		AssignedClasses: make([]domain.AssignedClass, 0, len(d.AssignedClasses)),
	}
	for _, c := range d.AssignedClasses {
		t.AssignedClasses = append(t.AssignedClasses, domain.AssignedClass{
			ClassID:          c.ClassID,
			ClassName:        c.ClassName,
			Schedule:         c.Schedule,
			StudentsEnrolled: c.StudentsEnrolled,
		})
	}
	return t
}

type emergencyContactDoc struct {
	Name         string `bson:"name"`
	Relationship string `bson:"relationship"`
	Phone        string `bson:"phone"`
}

type studentDoc struct {
	StudentID         string                `bson:"student_id"`
	FirstName         string                `bson:"first_name"`
	LastName          string                `bson:"last_name"`
	DateOfBirth       string                `bson:"date_of_birth,omitempty"`
	EmergencyContacts []emergencyContactDoc `bson:"emergency_contacts"`
	EnrolledClasses   []string              `bson:"enrolled_classes"`
	BusSchedule       string                `bson:"bus_schedule,omitempty"`
}

func (d studentDoc) toDomain() domain.StudentProfile {
	s := domain.StudentProfile{
		StudentID:         d.StudentID,
		FirstName:         d.FirstName,
		LastName:          d.LastName,
		DateOfBirth:       d.DateOfBirth,
		EmergencyContacts: make([]domain.EmergencyContact, 0, len(d.EmergencyContacts)),
		EnrolledClasses:   d.EnrolledClasses,
		BusSchedule:       d.BusSchedule,
	}
	for _, c := range d.EmergencyContacts {
		s.EmergencyContacts = append(s.EmergencyContacts, domain.EmergencyContact(c))
	}
	if s.EnrolledClasses == nil {
		s.EnrolledClasses = []string{}
	}
	return s
}

type parentDoc struct {
	ParentID       string   `bson:"parent_id"`
	LinkedStudents []string `bson:"linked_students"`
}

type TeacherRepository struct {
	coll *mongo.Collection
	cb   *gobreaker.CircuitBreaker
}

var _ ports.TeacherRepository = (*TeacherRepository)(nil)

func NewTeacherRepository(db *mongo.Database) *TeacherRepository {
	return &TeacherRepository{
		coll: db.Collection(TeachersCollection),
		cb:   config.NewCircuitBreaker(config.BreakerMongo),
	}
}

func (r *TeacherRepository) FindByID(ctx context.Context, teacherID string) (*domain.TeacherProfile, error) {
	return execute(r.cb, func() (*domain.TeacherProfile, error) {
		var doc teacherDoc
		if err := r.coll.FindOne(ctx, bson.M{"teacher_id": teacherID}).Decode(&doc); err != nil {
			return nil, err
		}
		t := doc.toDomain()
		return &t, nil
	})
}

func (r *TeacherRepository) FindByClassIDs(ctx context.Context, classIDs []string) ([]domain.TeacherProfile, error) {
	return execute(r.cb, func() ([]domain.TeacherProfile, error) {
		filter := bson.M{"assigned_classes.class_id": bson.M{"$in": classIDs}}
		docs, err := findAll[teacherDoc](ctx, r.coll, filter)
		if err != nil {
			return nil, err
		}
		out := make([]domain.TeacherProfile, 0, len(docs))
		for _, d := range docs {
			out = append(out, d.toDomain())
		}
		return out, nil
	})
}

type StudentRepository struct {
	coll *mongo.Collection
	cb   *gobreaker.CircuitBreaker
}

var _ ports.StudentRepository = (*StudentRepository)(nil)

func NewStudentRepository(db *mongo.Database) *StudentRepository {
	return &StudentRepository{
		coll: db.Collection(StudentsCollection),
		cb:   config.NewCircuitBreaker(config.BreakerMongo),
	}
}

func (r *StudentRepository) FindByID(ctx context.Context, studentID string) (*domain.StudentProfile, error) {
	return execute(r.cb, func() (*domain.StudentProfile, error) {
		var doc studentDoc
		if err := r.coll.FindOne(ctx, bson.M{"student_id": studentID}).Decode(&doc); err != nil {
			return nil, err
		}
		s := doc.toDomain()
		return &s, nil
	})
}

func (r *StudentRepository) FindByIDs(ctx context.Context, studentIDs []string) ([]domain.StudentProfile, error) {
	return execute(r.cb, func() ([]domain.StudentProfile, error) {
		docs, err := findAll[studentDoc](ctx, r.coll, bson.M{"student_id": bson.M{"$in": studentIDs}})
		if err != nil {
			return nil, err
		}
		out := make([]domain.StudentProfile, 0, len(docs))
		for _, d := range docs {
			out = append(out, d.toDomain())
		}
		return out, nil
	})
}

func (r *StudentRepository) UpdateEmergencyContacts(ctx context.Context, studentID string, contacts []domain.EmergencyContact) error {
	docs := make([]emergencyContactDoc, 0, len(contacts))
	for _, c := range contacts {
		docs = append(docs, emergencyContactDoc(c))
	}
	_, err := execute(r.cb, func() (struct{}, error) {
		res, err := r.coll.UpdateOne(ctx,
			bson.M{"student_id": studentID},
			bson.M{"$set": bson.M{"emergency_contacts": docs}},
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

type ParentRepository struct {
	coll *mongo.Collection
	cb   *gobreaker.CircuitBreaker
}

var _ ports.ParentRepository = (*ParentRepository)(nil)

func NewParentRepository(db *mongo.Database) *ParentRepository {
	return &ParentRepository{
		coll: db.Collection(ParentsCollection),
		cb:   config.NewCircuitBreaker(config.BreakerMongo),
	}
}

func (r *ParentRepository) FindByID(ctx context.Context, parentID string) (*domain.ParentProfile, error) {
	return execute(r.cb, func() (*domain.ParentProfile, error) {
		var doc parentDoc
		if err := r.coll.FindOne(ctx, bson.M{"parent_id": parentID}).Decode(&doc); err != nil {
			return nil, err
		}
		return &domain.ParentProfile{ParentID: doc.ParentID, LinkedStudents: doc.LinkedStudents}, nil
	})
}
