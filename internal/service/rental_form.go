package service

import (
	"context"
	"errors"
	"sync"

	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/domain"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/logger"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/repository"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/utils"
)

var (
	ErrReadOnlyField    = errors.New("field is read-only in self-service mode")
	ErrSubmitInProgress = errors.New("a submission is already in progress")
	ErrFormClosed       = errors.New("rental form is closed")
)

type FormMode string

const (
	FormModeStaff       FormMode = "staff"
	FormModeSelfService FormMode = "self_service"
)

// Form field names used in field errors
const (
	FieldVehicle = "vehicle"
	FieldClient  = "client"
)

// Field error codes besides the date range ones
const (
	CodeRequired      = "REQUIRED"
	CodeUnknownOption = "UNKNOWN_OPTION"
)

// FormState is a snapshot of the form after the last change
type FormState struct {
	Mode         FormMode            `json:"mode"`
	VehiclePlate string              `json:"plate"`
	ClientID     int64               `json:"client_id"`
	StartDate    utils.Date          `json:"start_date"`
	EndDate      utils.Date          `json:"end_date"`
	Errors       []domain.FieldError `json:"errors"`
	Quote        *utils.Quote        `json:"quote,omitempty"`
	CanSubmit    bool                `json:"can_submit"`
	Submitting   bool                `json:"submitting"`
	Closed       bool                `json:"closed"`
	SubmitError  string              `json:"submit_error,omitempty"`
	Created      *domain.Rental      `json:"created,omitempty"`
}

// RentalForm is the create-rental modal. Every setter re-validates the draft
// and recomputes the price preview. Safe for concurrent use.
type RentalForm struct {
	mu sync.Mutex

	session    *domain.Session
	rentalRepo repository.RentalRepository
	clock      utils.Clock
	mode       FormMode

	vehicles []domain.Vehicle
	clients  []domain.Client

	plate    string
	clientID int64
	start    utils.Date
	end      utils.Date

	submitting  bool
	closed      bool
	submitError string
	created     *domain.Rental
	onCreated   func(domain.Rental)
}

// NewStaffRentalForm opens the form for an employee, loading the vehicle and client options
func NewStaffRentalForm(
	ctx context.Context,
	session *domain.Session,
	rentalRepo repository.RentalRepository,
	vehicleRepo repository.VehicleRepository,
	clientRepo repository.ClientRepository,
	clock utils.Clock,
) (*RentalForm, error) {
	if err := session.Require(domain.RoleEmployee); err != nil {
		return nil, err
	}

	vehicles, err := vehicleRepo.ListAll(ctx)
	if err != nil {
		return nil, asTransport("failed to load vehicles", err)
	}
	clients, err := clientRepo.ListAll(ctx)
	if err != nil {
		return nil, asTransport("failed to load clients", err)
	}

	today := utils.Today(clock)
	return &RentalForm{
		session:    session,
		rentalRepo: rentalRepo,
		clock:      clock,
		mode:       FormModeStaff,
		vehicles:   vehicles,
		clients:    clients,
		start:      today,
		end:        today.AddDays(1),
	}, nil
}

// NewSelfServiceRentalForm opens the form for the caller themselves. Vehicle and
// client are bound and only the dates can change.
func NewSelfServiceRentalForm(
	session *domain.Session,
	rentalRepo repository.RentalRepository,
	vehicle domain.Vehicle,
	rng utils.DateRange,
	clock utils.Clock,
) (*RentalForm, error) {
	if err := session.Require(domain.RoleClient); err != nil {
		return nil, err
	}
	return &RentalForm{
		session:    session,
		rentalRepo: rentalRepo,
		clock:      clock,
		mode:       FormModeSelfService,
		vehicles:   []domain.Vehicle{vehicle},
		plate:      vehicle.Plate,
		clientID:   session.UserID,
		start:      rng.Start,
		end:        rng.End,
	}, nil
}

// VehicleOptions returns the vehicles the form can book
func (f *RentalForm) VehicleOptions() []domain.Vehicle {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Vehicle{}, f.vehicles...)
}

// ClientOptions returns the clients a staff form can book for
func (f *RentalForm) ClientOptions() []domain.Client {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Client{}, f.clients...)
}

// OnCreated registers the hook run after a successful submit
func (f *RentalForm) OnCreated(fn func(domain.Rental)) {
	f.mu.Lock()
	f.onCreated = fn
	f.mu.Unlock()
}

func (f *RentalForm) SetVehicle(plate string) (FormState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mode == FormModeSelfService {
		return f.stateLocked(), ErrReadOnlyField
	}
	f.plate = plate
	return f.stateLocked(), nil
}

func (f *RentalForm) SetClient(clientID int64) (FormState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mode == FormModeSelfService {
		return f.stateLocked(), ErrReadOnlyField
	}
	f.clientID = clientID
	return f.stateLocked(), nil
}

// SetStart moves the start date. An end date left before the new start is
// moved to match it.
func (f *RentalForm) SetStart(d utils.Date) FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.start = d
	if !f.end.IsZero() && d.After(f.end) {
		f.end = d
	}
	return f.stateLocked()
}

func (f *RentalForm) SetEnd(d utils.Date) FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.end = d
	return f.stateLocked()
}

func (f *RentalForm) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stateLocked()
}

// Close dismisses the form without submitting
func (f *RentalForm) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}

// Submit sends the draft to the rental collaborator. Drafts with field errors
// never reach the network. Only one submission may be in flight.
func (f *RentalForm) Submit(ctx context.Context) (*domain.Rental, error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil, ErrFormClosed
	}
	if f.submitting {
		f.mu.Unlock()
		return nil, ErrSubmitInProgress
	}
	if err := f.session.Require(domain.RoleClient); err != nil {
		f.mu.Unlock()
		return nil, err
	}
	state := f.stateLocked()
	if len(state.Errors) > 0 {
		f.mu.Unlock()
		return nil, domain.NewValidationError(state.Errors...)
	}

	nr := domain.NewRental{
		VehiclePlate: f.plate,
		ClientID:     f.clientID,
		StartDate:    f.start,
		EndDate:      f.end,
	}
	if f.mode == FormModeStaff {
		employeeID := f.session.UserID
		nr.EmployeeID = &employeeID
	}
	f.submitting = true
	f.submitError = ""
	f.mu.Unlock()

	logger.InfoContext(ctx, "Submitting rental", "plate", nr.VehiclePlate, "client_id", nr.ClientID,
		"start_date", nr.StartDate.String(), "end_date", nr.EndDate.String(), "mode", f.mode)
	created, err := f.rentalRepo.Create(ctx, nr)

	f.mu.Lock()
	f.submitting = false
	if err != nil {
		f.submitError = domain.MessageOf(err)
		f.mu.Unlock()
		logger.WarnContext(ctx, "Rental submission failed", "plate", nr.VehiclePlate, "error", err)
		return nil, asTransport("failed to create rental", err)
	}
	f.closed = true
	f.created = created
	hook := f.onCreated
	f.mu.Unlock()

	logger.InfoContext(ctx, "Rental created", "rental_id", created.ID, "plate", created.VehiclePlate)
	if hook != nil {
		hook(*created)
	}
	return created, nil
}

func (f *RentalForm) stateLocked() FormState {
	st := FormState{
		Mode:         f.mode,
		VehiclePlate: f.plate,
		ClientID:     f.clientID,
		StartDate:    f.start,
		EndDate:      f.end,
		Submitting:   f.submitting,
		Closed:       f.closed,
		SubmitError:  f.submitError,
		Created:      f.created,
	}

	var errs []domain.FieldError
	vehicle, vehicleErr := f.selectedVehicle()
	if vehicleErr != nil {
		errs = append(errs, *vehicleErr)
	}
	if clientErr := f.checkClient(); clientErr != nil {
		errs = append(errs, *clientErr)
	}

	rangeOK := false
	switch {
	case f.start.IsZero():
		errs = append(errs, domain.FieldError{Field: utils.FieldStartDate, Code: CodeRequired, Message: "start date is required"})
	case f.end.IsZero():
		errs = append(errs, domain.FieldError{Field: utils.FieldEndDate, Code: CodeRequired, Message: "end date is required"})
	default:
		v := utils.ValidateRange(f.start, f.end, utils.ValidateOptions{Today: utils.Today(f.clock)})
		errs = append(errs, rangeFieldErrors(v)...)
		rangeOK = v.Valid
	}

	if vehicle != nil && rangeOK {
		q := utils.QuoteRange(vehicle.DailyRate, f.start, f.end)
		st.Quote = &q
	}

	if errs == nil {
		errs = []domain.FieldError{}
	}
	st.Errors = errs
	st.CanSubmit = len(errs) == 0 && !f.submitting && !f.closed
	return st
}

func (f *RentalForm) selectedVehicle() (*domain.Vehicle, *domain.FieldError) {
	if f.plate == "" {
		return nil, &domain.FieldError{Field: FieldVehicle, Code: CodeRequired, Message: "vehicle is required"}
	}
	for i := range f.vehicles {
		if f.vehicles[i].Plate == f.plate {
			return &f.vehicles[i], nil
		}
	}
	return nil, &domain.FieldError{Field: FieldVehicle, Code: CodeUnknownOption, Message: "vehicle " + f.plate + " is not an available option"}
}

func (f *RentalForm) checkClient() *domain.FieldError {
	if f.clientID == 0 {
		return &domain.FieldError{Field: FieldClient, Code: CodeRequired, Message: "client is required"}
	}
	if f.mode == FormModeSelfService {
		return nil
	}
	for _, c := range f.clients {
		if c.ID == f.clientID {
			return nil
		}
	}
	return &domain.FieldError{Field: FieldClient, Code: CodeUnknownOption, Message: "client is not a known option"}
}
