package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/domain"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/utils"
)

type rentalRepository struct {
	c *Client
}

func (r *rentalRepository) ListAll(ctx context.Context) ([]domain.Rental, error) {
	var rentals []domain.Rental
	if err := r.c.do(ctx, http.MethodGet, "/rentals", nil, &rentals); err != nil {
		return nil, err
	}
	return rentals, nil
}

func (r *rentalRepository) Create(ctx context.Context, nr domain.NewRental) (*domain.Rental, error) {
	var created domain.Rental
	if err := r.c.do(ctx, http.MethodPost, "/rentals", nr, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *rentalRepository) Start(ctx context.Context, id int64) error {
	return r.transition(ctx, id, domain.ActionStart)
}

func (r *rentalRepository) Complete(ctx context.Context, id int64) error {
	return r.transition(ctx, id, domain.ActionComplete)
}

func (r *rentalRepository) Cancel(ctx context.Context, id int64) error {
	return r.transition(ctx, id, domain.ActionCancel)
}

func (r *rentalRepository) Delete(ctx context.Context, id int64) error {
	return r.c.do(ctx, http.MethodDelete, fmt.Sprintf("/rentals/%d", id), nil, nil)
}

func (r *rentalRepository) transition(ctx context.Context, id int64, action domain.RentalAction) error {
	return r.c.do(ctx, http.MethodPut, fmt.Sprintf("/rentals/%d/%s", id, action), nil, nil)
}

type vehicleRepository struct {
	c *Client
}

func (r *vehicleRepository) ListAll(ctx context.Context) ([]domain.Vehicle, error) {
	var vehicles []domain.Vehicle
	if err := r.c.do(ctx, http.MethodGet, "/vehicles", nil, &vehicles); err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (r *vehicleRepository) ListAvailable(ctx context.Context, start, end utils.Date) ([]domain.Vehicle, error) {
	q := url.Values{}
	q.Set("start", start.String())
	q.Set("end", end.String())

	var vehicles []domain.Vehicle
	if err := r.c.do(ctx, http.MethodGet, "/vehicles/available?"+q.Encode(), nil, &vehicles); err != nil {
		return nil, err
	}
	if vehicles == nil {
		vehicles = []domain.Vehicle{}
	}
	return vehicles, nil
}

type clientRepository struct {
	c *Client
}

func (r *clientRepository) ListAll(ctx context.Context) ([]domain.Client, error) {
	var clients []domain.Client
	if err := r.c.do(ctx, http.MethodGet, "/clients", nil, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}
