package jobs

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/domain"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/repository"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/service"
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
func (m *MockRentalRepo) Start(ctx context.Context, id int64) error    { return m.Called(ctx, id).Error(0) }
func (m *MockRentalRepo) Complete(ctx context.Context, id int64) error { return m.Called(ctx, id).Error(0) }
func (m *MockRentalRepo) Cancel(ctx context.Context, id int64) error   { return m.Called(ctx, id).Error(0) }
func (m *MockRentalRepo) Delete(ctx context.Context, id int64) error   { return m.Called(ctx, id).Error(0) }

// MockBackend only serves rentals; the jobs never read vehicles or clients
type MockBackend struct {
	mock.Mock
	rentals *MockRentalRepo
}

func (m *MockBackend) Rentals() repository.RentalRepository   { return m.rentals }
func (m *MockBackend) Vehicles() repository.VehicleRepository { return nil }
func (m *MockBackend) Clients() repository.ClientRepository   { return nil }
func (m *MockBackend) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockOverdueMarker struct {
	mock.Mock
}

func (m *MockOverdueMarker) MarkOverdue(ctx context.Context, today utils.Date) ([]domain.Rental, error) {
	args := m.Called(ctx, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rental), args.Error(1)
}

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendDailyDigest(ctx context.Context, recipients []string, digest service.DailyDigest) error {
	return m.Called(ctx, recipients, digest).Error(0)
}

type MockHealthReporter struct {
	mock.Mock
}

func (m *MockHealthReporter) SetBackendHealthy(healthy bool) {
	m.Called(healthy)
}
