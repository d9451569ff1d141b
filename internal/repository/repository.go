package repository

import (
	"context"

	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/domain"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/utils"
)

// RentalRepository is the rental collaborator. Transitions return
// domain.ErrInvalidTransition when the backend rejects them.
type RentalRepository interface {
	ListAll(ctx context.Context) ([]domain.Rental, error)
	Create(ctx context.Context, rental domain.NewRental) (*domain.Rental, error)
	Start(ctx context.Context, id int64) error
	Complete(ctx context.Context, id int64) error
	Cancel(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

type VehicleRepository interface {
	ListAll(ctx context.Context) ([]domain.Vehicle, error)
	// ListAvailable returns vehicles with no open rental overlapping [start, end]
	ListAvailable(ctx context.Context, start, end utils.Date) ([]domain.Vehicle, error)
}

type ClientRepository interface {
	ListAll(ctx context.Context) ([]domain.Client, error)
}

// OverdueMarker moves open rentals past their end date to OVERDUE.
// Only the direct database backend implements it.
type OverdueMarker interface {
	MarkOverdue(ctx context.Context, today utils.Date) ([]domain.Rental, error)
}

// Pinger reports whether the backend is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Backend bundles the collaborators the console talks to
type Backend interface {
	Rentals() RentalRepository
	Vehicles() VehicleRepository
	Clients() ClientRepository
	Pinger
}

// Transition dispatches a lifecycle action to the matching repository call
func Transition(ctx context.Context, repo RentalRepository, id int64, action domain.RentalAction) error {
	switch action {
	case domain.ActionStart:
		return repo.Start(ctx, id)
	case domain.ActionComplete:
		return repo.Complete(ctx, id)
	case domain.ActionCancel:
		return repo.Cancel(ctx, id)
	case domain.ActionDelete:
		return repo.Delete(ctx, id)
	default:
		return domain.NewInvalidTransitionError("unknown action " + string(action))
	}
}
