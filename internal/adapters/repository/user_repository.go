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

type userDoc struct {
	Username  string `bson:"username"`
	Email     string `bson:"email"`
	Password  string `bson:"password"`
	Role      string `bson:"role"`
	Name      string `bson:"name"`
	FirstName string `bson:"first_name,omitempty"`
	ProfileID string `bson:"profile_id,omitempty"`
}

func (d userDoc) toDomain() domain.User {
	return domain.User{
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.Password,
		Role:         domain.Role(d.Role),
		Name:         d.Name,
		FirstName:    d.FirstName,
		ProfileID:    d.ProfileID,
	}
}

// bson names of the updatable user fields.
var userFieldColumns = map[string]string{
	domain.FieldEmail:    "email",
	domain.FieldName:     "name",
	domain.FieldRole:     "role",
	domain.FieldPassword: "password",
}

type UserRepository struct {
	coll *mongo.Collection
	cb   *gobreaker.CircuitBreaker
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		coll: db.Collection(UsersCollection),
		cb:   config.NewCircuitBreaker(config.BreakerMongo),
	}
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return execute(r.cb, func() (*domain.User, error) {
		var doc userDoc
		if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&doc); err != nil {
			return nil, err
		}
		u := doc.toDomain()
		return &u, nil
	})
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	return execute(r.cb, func() ([]domain.User, error) {
		opts := options.Find().SetSort(bson.D{{Key: "role", Value: 1}, {Key: "username", Value: 1}})
		docs, err := findAll[userDoc](ctx, r.coll, bson.M{}, opts)
		if err != nil {
			return nil, err
		}
		users := make([]domain.User, 0, len(docs))
		for _, d := range docs {
			users = append(users, d.toDomain())
		}
		return users, nil
	})
}

func (r *UserRepository) UpdateField(ctx context.Context, username, field, value string) error {
	column, ok := userFieldColumns[field]
	if !ok {
		return domain.NewValidationError(nil, domain.FieldError{Field: "field", Error: "not updatable"})
	}
	_, err := execute(r.cb, func() (struct{}, error) {
		res, err := r.coll.UpdateOne(ctx,
			bson.M{"username": username},
			bson.M{"$set": bson.M{column: value}},
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
