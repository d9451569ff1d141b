package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/domain"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/logger"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/repository"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/security"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/service"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/utils"
)

// ConsoleHandler serves the rental console API. Controllers are built per
// request around the caller's session; the backend is shared.
type ConsoleHandler struct {
	backend      repository.Backend
	availability service.AvailabilityService
	clock        utils.Clock
}

func NewConsoleHandler(backend repository.Backend, availability service.AvailabilityService, clock utils.Clock) *ConsoleHandler {
	return &ConsoleHandler{
		backend:      backend,
		availability: availability,
		clock:        clock,
	}
}

type statusesResponse struct {
	Rental  map[domain.RentalStatus]domain.StatusPresentation  `json:"rental"`
	Vehicle map[domain.VehicleStatus]domain.StatusPresentation `json:"vehicle"`
}

type rentalsResponse struct {
	Rentals []service.RentalCard `json:"rentals"`
}

// rentalDraft is the body of the quote and create endpoints
type rentalDraft struct {
	Plate     string     `json:"plate"`
	ClientID  int64      `json:"client_id"`
	StartDate utils.Date `json:"start_date"`
	EndDate   utils.Date `json:"end_date"`
}

type quoteResponse struct {
	State    service.FormState `json:"state"`
	Vehicles []domain.Vehicle  `json:"vehicles"`
	Clients  []domain.Client   `json:"clients"`
}

type createRentalResponse struct {
	Rental  *domain.Rental       `json:"rental"`
	State   service.FormState    `json:"state"`
	Rentals []service.RentalCard `json:"rentals"`
}

func (h *ConsoleHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.backend.Ping(r.Context()); err != nil {
		logger.WarnContext(r.Context(), "Backend health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "NOT_SERVING"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "SERVING"})
}

func (h *ConsoleHandler) HandleStatuses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusesResponse{
		Rental:  domain.StatusTable(),
		Vehicle: domain.VehicleStatusTable(),
	})
}

func (h *ConsoleHandler) HandleListRentals(w http.ResponseWriter, r *http.Request) {
	list, err := h.loadList(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	cards, err := list.Cards(service.ListFilter{Query: q.Get("q"), Status: q.Get("status")})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rentalsResponse{Rentals: cards})
}

func (h *ConsoleHandler) HandleRentalAction(w http.ResponseWriter, r *http.Request) {
	action, err := domain.ParseRentalAction(mux.Vars(r)["action"])
	if err != nil || action == domain.ActionDelete {
		writeJSON(w, http.StatusNotFound, errorResponse{Code: string(domain.ErrCodeNotFound), Message: "unknown rental action"})
		return
	}
	h.performAction(w, r, action)
}

func (h *ConsoleHandler) HandleDeleteRental(w http.ResponseWriter, r *http.Request) {
	h.performAction(w, r, domain.ActionDelete)
}

func (h *ConsoleHandler) performAction(w http.ResponseWriter, r *http.Request, action domain.RentalAction) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, r, fieldError("id", "INVALID_ID", "rental id must be a number"))
		return
	}

	list, err := h.loadList(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := list.Perform(r.Context(), id, action); err != nil {
		writeError(w, r, err)
		return
	}

	cards, err := list.Cards(service.ListFilter{})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rentalsResponse{Rentals: cards})
}

// HandleQuote evaluates a draft without creating anything. The response carries
// the options the form offers so the caller can fill its selectors.
func (h *ConsoleHandler) HandleQuote(w http.ResponseWriter, r *http.Request) {
	form, err := h.openForm(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer form.Close()
	writeJSON(w, http.StatusOK, quoteResponse{
		State:    form.State(),
		Vehicles: form.VehicleOptions(),
		Clients:  form.ClientOptions(),
	})
}

func (h *ConsoleHandler) HandleCreateRental(w http.ResponseWriter, r *http.Request) {
	form, err := h.openForm(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer form.Close()

	list, err := h.newList(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	form.OnCreated(func(rental domain.Rental) {
		if err := list.Refresh(r.Context()); err != nil {
			logger.WarnContext(r.Context(), "Refresh after rental creation failed", "rental_id", rental.ID, "error", err)
		}
	})

	created, err := form.Submit(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	cards, err := list.Cards(service.ListFilter{})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createRentalResponse{Rental: created, State: form.State(), Rentals: cards})
}

func (h *ConsoleHandler) HandleAvailableVehicles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := utils.ParseLocalDate(q.Get("start"))
	if err != nil {
		writeError(w, r, fieldError(utils.FieldStartDate, "INVALID_DATE", err.Error()))
		return
	}
	end, err := utils.ParseLocalDate(q.Get("end"))
	if err != nil {
		writeError(w, r, fieldError(utils.FieldEndDate, "INVALID_DATE", err.Error()))
		return
	}

	result, err := h.availability.Search(r.Context(), start, end)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleListVehicles lists the fleet, optionally narrowed with ?status=
func (h *ConsoleHandler) HandleListVehicles(w http.ResponseWriter, r *http.Request) {
	var status domain.VehicleStatus
	if s := r.URL.Query().Get("status"); s != "" {
		parsed, err := domain.ParseVehicleStatus(s)
		if err != nil {
			writeError(w, r, fieldError("status", service.CodeUnknownOption, err.Error()))
			return
		}
		status = parsed
	}

	vehicles, err := h.backend.Vehicles().ListAll(r.Context())
	if err != nil {
		writeError(w, r, domain.NewTransportError("failed to load vehicles", err))
		return
	}
	out := []domain.Vehicle{}
	for _, v := range vehicles {
		if status == "" || v.Status == status {
			out = append(out, v)
		}
	}
	writeJSON(w, http.StatusOK, map[string][]domain.Vehicle{"vehicles": out})
}

func (h *ConsoleHandler) HandleListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.backend.Clients().ListAll(r.Context())
	if err != nil {
		writeError(w, r, domain.NewTransportError("failed to load clients", err))
		return
	}
	if clients == nil {
		clients = []domain.Client{}
	}
	writeJSON(w, http.StatusOK, map[string][]domain.Client{"clients": clients})
}

func (h *ConsoleHandler) newList(r *http.Request) (*service.RentalList, error) {
	session := security.SessionFromContext(r.Context())
	return service.NewRentalList(session, h.backend.Rentals(), h.backend.Vehicles(), h.backend.Clients(), h.clock)
}

func (h *ConsoleHandler) loadList(r *http.Request) (*service.RentalList, error) {
	list, err := h.newList(r)
	if err != nil {
		return nil, err
	}
	if err := list.Refresh(r.Context()); err != nil {
		return nil, err
	}
	return list, nil
}

// openForm builds the form for the caller's role and applies the draft to it.
// Employees get the staff form; clients book for themselves.
func (h *ConsoleHandler) openForm(r *http.Request) (*service.RentalForm, error) {
	var draft rentalDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		return nil, fieldError("body", "INVALID_BODY", err.Error())
	}

	ctx := r.Context()
	session := security.SessionFromContext(ctx)

	if !session.HasPermission(domain.RoleEmployee) {
		today := utils.Today(h.clock)
		rng := utils.DateRange{Start: draft.StartDate, End: draft.EndDate}
		if rng.Start.IsZero() {
			rng.Start = today
		}
		if rng.End.IsZero() {
			rng.End = rng.Start.AddDays(1)
		}
		vehicle, err := h.availableVehicle(r, draft.Plate, rng)
		if err != nil {
			return nil, err
		}
		return h.availability.OpenBooking(session, vehicle, rng)
	}

	form, err := service.NewStaffRentalForm(ctx, session, h.backend.Rentals(), h.backend.Vehicles(), h.backend.Clients(), h.clock)
	if err != nil {
		return nil, err
	}
	if draft.Plate != "" {
		if _, err := form.SetVehicle(draft.Plate); err != nil {
			return nil, err
		}
	}
	if draft.ClientID != 0 {
		if _, err := form.SetClient(draft.ClientID); err != nil {
			return nil, err
		}
	}
	if !draft.StartDate.IsZero() {
		form.SetStart(draft.StartDate)
	}
	if !draft.EndDate.IsZero() {
		form.SetEnd(draft.EndDate)
	}
	return form, nil
}

// availableVehicle picks plate out of the availability result for rng. Plates the
// query left out (maintenance, overlapping rentals) cannot be booked.
func (h *ConsoleHandler) availableVehicle(r *http.Request, plate string, rng utils.DateRange) (domain.Vehicle, error) {
	if plate == "" {
		return domain.Vehicle{}, fieldError(service.FieldVehicle, service.CodeRequired, "vehicle is required")
	}
	vehicles, err := h.availability.FindAvailable(r.Context(), rng.Start, rng.End)
	if err != nil {
		return domain.Vehicle{}, err
	}
	for _, v := range vehicles {
		if v.Plate == plate {
			return v, nil
		}
	}
	return domain.Vehicle{}, fieldError(service.FieldVehicle, service.CodeUnknownOption, "vehicle "+plate+" is not available for the selected dates")
}
