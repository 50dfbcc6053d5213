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

type busStopDoc struct {
	Name        string `bson:"name"`
	PickupTime  string `bson:"pickup_time"`
	DropoffTime string `bson:"dropoff_time"`
}

type busRouteDoc struct {
	RouteID   string       `bson:"route_id"`
	BusNumber string       `bson:"bus_number"`
	Driver    string       `bson:"driver"`
	Stops     []busStopDoc `bson:"stops"`
}

type BusRouteRepository struct {
	coll *mongo.Collection
	cb   *gobreaker.CircuitBreaker
}

var _ ports.BusRouteRepository = (*BusRouteRepository)(nil)

func NewBusRouteRepository(db *mongo.Database) *BusRouteRepository {
	return &BusRouteRepository{
		coll: db.Collection(BusRoutesCollection),
		cb:   config.NewCircuitBreaker(config.BreakerMongo),
	}
}

func (r *BusRouteRepository) FindByID(ctx context.Context, routeID string) (*domain.BusRoute, error) {
	return execute(r.cb, func() (*domain.BusRoute, error) {
		var doc busRouteDoc
		if err := r.coll.FindOne(ctx, bson.M{"route_id": routeID}).Decode(&doc); err != nil {
			return nil, err
		}
		route := &domain.BusRoute{
			RouteID:   doc.RouteID,
			BusNumber: doc.BusNumber,
			Driver:    doc.Driver,
			Stops:     make([]domain.BusStop, 0, len(doc.Stops)),
		}
		for _, s := range doc.Stops {
			route.Stops = append(route.Stops, domain.BusStop(s))
		}
		return route, nil
	})
}
