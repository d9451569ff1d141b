package service

import (
	"context"

	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/domain"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/logger"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/repository"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/utils"
)

// NoVehiclesNotice is shown whenever a search yields nothing to book
const NoVehiclesNotice = "No hay vehículos disponibles para estas fechas, probá con otras fechas"

// AvailabilityResult is what the availability search screen renders
type AvailabilityResult struct {
	Range    utils.DateRange  `json:"range"`
	Days     int              `json:"days"`
	Vehicles []domain.Vehicle `json:"vehicles"`
	Notice   string           `json:"notice,omitempty"`
	Error    string           `json:"error,omitempty"`
}

type availabilityService struct {
	vehicleRepo repository.VehicleRepository
	rentalRepo  repository.RentalRepository
	clock       utils.Clock
}

func NewAvailabilityService(
	vehicleRepo repository.VehicleRepository,
	rentalRepo repository.RentalRepository,
	clock utils.Clock,
) AvailabilityService {
	return &availabilityService{
		vehicleRepo: vehicleRepo,
		rentalRepo:  rentalRepo,
		clock:       clock,
	}
}

func (s *availabilityService) FindAvailable(ctx context.Context, start, end utils.Date) ([]domain.Vehicle, error) {
	logger.EnterMethod(ctx, "availabilityService.FindAvailable", "start", start.String(), "end", end.String())

	v := utils.ValidateRange(start, end, utils.ValidateOptions{Today: utils.Today(s.clock)})
	if !v.Valid {
		err := domain.NewValidationError(rangeFieldErrors(v)...)
		logger.ExitMethodWithError(ctx, "availabilityService.FindAvailable", err)
		return nil, err
	}

	vehicles, err := s.vehicleRepo.ListAvailable(ctx, start, end)
	if err != nil {
		err = domain.NewAvailabilityQueryFailedError(err)
		logger.ExitMethodWithError(ctx, "availabilityService.FindAvailable", err)
		return nil, err
	}
	if vehicles == nil {
		vehicles = []domain.Vehicle{}
	}

	logger.ExitMethod(ctx, "availabilityService.FindAvailable", "count", len(vehicles))
	return vehicles, nil
}

func (s *availabilityService) Search(ctx context.Context, start, end utils.Date) (*AvailabilityResult, error) {
	rng := utils.DateRange{Start: start, End: end}
	vehicles, err := s.FindAvailable(ctx, start, end)
	if err != nil {
		if domain.CodeOf(err) != domain.ErrCodeAvailabilityQueryFailed {
			return nil, err
		}
		logger.WarnContext(ctx, "Availability query failed", "start", start.String(), "end", end.String(), "error", err)
		return &AvailabilityResult{
			Range:    rng,
			Days:     rng.Days(),
			Vehicles: []domain.Vehicle{},
			Notice:   NoVehiclesNotice,
			Error:    err.Error(),
		}, nil
	}

	result := &AvailabilityResult{
		Range:    rng,
		Days:     rng.Days(),
		Vehicles: vehicles,
	}
	if len(vehicles) == 0 {
		result.Notice = NoVehiclesNotice
	}
	return result, nil
}

func (s *availabilityService) OpenBooking(session *domain.Session, vehicle domain.Vehicle, rng utils.DateRange) (*RentalForm, error) {
	return NewSelfServiceRentalForm(session, s.rentalRepo, vehicle, rng, s.clock)
}
