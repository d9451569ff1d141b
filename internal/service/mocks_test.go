package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/domain"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/utils"
)

// MockRentalRepo
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
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockRentalRepo) Complete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockRentalRepo) Cancel(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockRentalRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockVehicleRepo
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

// MockClientRepo
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

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendDailyDigest(ctx context.Context, recipients []string, digest DailyDigest) error {
	args := m.Called(ctx, recipients, digest)
	return args.Error(0)
}

// testToday is the business date every test runs on
var testToday = utils.MustDate(2025, 3, 10)

func testClock() utils.Clock {
	return utils.FixedClockOn(testToday, time.UTC)
}

func newSession(t *testing.T, id int64, role domain.Role) *domain.Session {
	t.Helper()
	s, err := domain.NewSession(id, "Test User", "test@ingride.test", role, "token")
	require.NoError(t, err)
	return s
}

func testVehicles() []domain.Vehicle {
	return []domain.Vehicle{
		{Plate: "AB123CD", Brand: "Fiat", Model: "Cronos", Year: 2022, DailyRate: decimal.NewFromInt(25000), Status: domain.VehicleStatusFree},
		{Plate: "ZZ999ZZ", Brand: "Peugeot", Model: "208", Year: 2021, DailyRate: decimal.NewFromInt(30000), Status: domain.VehicleStatusOccupied},
	}
}

func testClients() []domain.Client {
	return []domain.Client{
		{ID: 4, FirstName: "María", LastName: "Gómez"},
		{ID: 5, FirstName: "Juan", LastName: "Pérez"},
	}
}

func rental(id int64, plate string, clientID int64, start, end utils.Date, status domain.RentalStatus) domain.Rental {
	return domain.Rental{
		ID:           id,
		VehiclePlate: plate,
		ClientID:     clientID,
		StartDate:    start,
		EndDate:      end,
		Status:       status,
		DailyRate:    decimal.NewFromInt(25000),
	}
}
