package http

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/domain"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/repository"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/utils"
)

type MockRentalRepo struct {
	mock.Mock
}

func (m *MockRentalRepo) ListAll(ctx context.Context) ([]domain.Rental, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) Create(ctx context.Context, nr domain.NewRental) (*domain.Rental, error) {
	args := m.Called(ctx, nr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) Start(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockRentalRepo) Complete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockRentalRepo) Cancel(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockRentalRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockVehicleRepo struct {
	mock.Mock
}

func (m *MockVehicleRepo) ListAll(ctx context.Context) ([]domain.Vehicle, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Vehicle), args.Error(1)
}
func (m *MockVehicleRepo) ListAvailable(ctx context.Context, start, end utils.Date) ([]domain.Vehicle, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Vehicle), args.Error(1)
}

type MockClientRepo struct {
	mock.Mock
}

func (m *MockClientRepo) ListAll(ctx context.Context) ([]domain.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Client), args.Error(1)
}

// MockBackend bundles the repository mocks
type MockBackend struct {
	mock.Mock
	rentals  *MockRentalRepo
	vehicles *MockVehicleRepo
	clients  *MockClientRepo
}

func newMockBackend() *MockBackend {
	return &MockBackend{
		rentals:  new(MockRentalRepo),
		vehicles: new(MockVehicleRepo),
		clients:  new(MockClientRepo),
	}
}

func (m *MockBackend) Rentals() repository.RentalRepository   { return m.rentals }
func (m *MockBackend) Vehicles() repository.VehicleRepository { return m.vehicles }
func (m *MockBackend) Clients() repository.ClientRepository   { return m.clients }
func (m *MockBackend) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
