package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/domain"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/repository"
)

// Store is the direct database backend
type Store struct {
	db       *sql.DB
	rentals  *rentalRepository
	vehicles *vehicleRepository
	clients  *clientRepository
}

var (
	_ repository.Backend       = (*Store)(nil)
	_ repository.OverdueMarker = (*Store)(nil)
)

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:       db,
		rentals:  &rentalRepository{db: db},
		vehicles: &vehicleRepository{db: db},
		clients:  &clientRepository{db: db},
	}
}

func (s *Store) Rentals() repository.RentalRepository {
	return s.rentals
}

func (s *Store) Vehicles() repository.VehicleRepository {
	return s.vehicles
}

func (s *Store) Clients() repository.ClientRepository {
	return s.clients
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// openStatuses is the pq array of statuses that still hold a vehicle
func openStatuses() interface{} {
	return statusArray(domain.OpenRentalStatuses)
}

func statusArray(statuses []domain.RentalStatus) interface{} {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return pq.Array(out)
}
