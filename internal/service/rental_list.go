package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/domain"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/logger"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/repository"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/utils"
)

// StatusFilterAll disables the status filter
const StatusFilterAll = "all"

// RentalCard is one rental as the management list shows it
type RentalCard struct {
	Rental        domain.Rental              `json:"rental"`
	VehicleLabel  string                     `json:"vehicle_label"`
	ClientName    string                     `json:"client_name"`
	Presentation  domain.StatusPresentation  `json:"presentation"`
	VehicleStatus *domain.StatusPresentation `json:"vehicle_status,omitempty"`
	Actions       []domain.RentalAction      `json:"actions"`
	Days          int                        `json:"days"`
	DaysRemaining *int                       `json:"days_remaining,omitempty"`
	Total         decimal.Decimal            `json:"total"`

	searchText string
}

type ListFilter struct {
	Query  string
	Status string // status code, "" or "all"
}

// RentalList is the rental management screen. It re-fetches after every
// mutation and never patches cards locally. Safe for concurrent use.
type RentalList struct {
	session     *domain.Session
	rentalRepo  repository.RentalRepository
	vehicleRepo repository.VehicleRepository
	clientRepo  repository.ClientRepository
	clock       utils.Clock

	mu         sync.Mutex
	cards      []RentalCard
	generation uint64
	applied    uint64
}

func NewRentalList(
	session *domain.Session,
	rentalRepo repository.RentalRepository,
	vehicleRepo repository.VehicleRepository,
	clientRepo repository.ClientRepository,
	clock utils.Clock,
) (*RentalList, error) {
	if err := session.Require(domain.RoleClient); err != nil {
		return nil, err
	}
	return &RentalList{
		session:     session,
		rentalRepo:  rentalRepo,
		vehicleRepo: vehicleRepo,
		clientRepo:  clientRepo,
		clock:       clock,
	}, nil
}

// Refresh reloads every card. A refresh that finishes after a newer one is
// dropped; a failed refresh leaves the previous cards in place.
func (l *RentalList) Refresh(ctx context.Context) error {
	l.mu.Lock()
	l.generation++
	gen := l.generation
	l.mu.Unlock()

	logger.EnterMethod(ctx, "RentalList.Refresh", "generation", gen)

	rentals, err := l.rentalRepo.ListAll(ctx)
	if err != nil {
		err = asTransport("failed to load rentals", err)
		logger.ExitMethodWithError(ctx, "RentalList.Refresh", err)
		return err
	}

	vehicles, err := l.vehicleRepo.ListAll(ctx)
	if err != nil {
		err = asTransport("failed to load vehicles", err)
		logger.ExitMethodWithError(ctx, "RentalList.Refresh", err)
		return err
	}

	var clients []domain.Client
	selfService := l.session.IsSelfService()
	if !selfService {
		clients, err = l.clientRepo.ListAll(ctx)
		if err != nil {
			err = asTransport("failed to load clients", err)
			logger.ExitMethodWithError(ctx, "RentalList.Refresh", err)
			return err
		}
	}

	if selfService {
		rentals = ownedBy(rentals, l.session.UserID)
	}
	cards := l.buildCards(rentals, vehicles, clients)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen <= l.applied {
		logger.DebugContext(ctx, "Discarding stale rental list refresh", "generation", gen, "applied", l.applied)
		return nil
	}
	l.cards = cards
	l.applied = gen

	logger.ExitMethod(ctx, "RentalList.Refresh", "count", len(cards))
	return nil
}

// Cards applies the filter to the loaded cards, keeping backend order
func (l *RentalList) Cards(filter ListFilter) ([]RentalCard, error) {
	var status domain.RentalStatus
	if s := strings.TrimSpace(filter.Status); s != "" && !strings.EqualFold(s, StatusFilterAll) {
		parsed, err := domain.ParseRentalStatus(s)
		if err != nil {
			return nil, domain.NewValidationError(domain.FieldError{Field: "status", Code: CodeUnknownOption, Message: err.Error()})
		}
		status = parsed
	}
	query := foldText(strings.TrimSpace(filter.Query))

	l.mu.Lock()
	defer l.mu.Unlock()

	out := []RentalCard{}
	for _, c := range l.cards {
		if status != "" && c.Rental.Status != status {
			continue
		}
		if query != "" && !strings.Contains(c.searchText, query) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// Perform runs a lifecycle action on a loaded rental and reloads the list.
// Permission and state are checked before any network call. Once the backend
// accepts the action, Perform succeeds even if the reload fails.
func (l *RentalList) Perform(ctx context.Context, rentalID int64, action domain.RentalAction) error {
	card, ok := l.card(rentalID)
	if !ok {
		return domain.NewNotFoundError("rental " + strconv.FormatInt(rentalID, 10) + " is not in the list")
	}

	if err := domain.CanPerform(card.Rental.Status, action, l.session); err != nil {
		logger.WarnContext(ctx, "Rental action refused", "rental_id", rentalID, "action", action, "status", card.Rental.Status, "error", err)
		return err
	}

	logger.InfoContext(ctx, "Performing rental action", "rental_id", rentalID, "action", action, "user_id", l.session.UserID)
	if err := repository.Transition(ctx, l.rentalRepo, rentalID, action); err != nil {
		err = asTransport("rental action failed", err)
		if errors.Is(err, domain.ErrInvalidTransition) || errors.Is(err, domain.ErrNotFound) {
			// the backend knows a newer state than we do
			if rerr := l.Refresh(ctx); rerr != nil {
				logger.WarnContext(ctx, "Refresh after rejected action failed", "rental_id", rentalID, "error", rerr)
			}
		}
		return err
	}

	// the action went through; a failed reload only leaves the previous cards
	if err := l.Refresh(ctx); err != nil {
		logger.WarnContext(ctx, "Refresh after rental action failed", "rental_id", rentalID, "action", action, "error", err)
	}
	return nil
}

func (l *RentalList) card(id int64) (RentalCard, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, c := range l.cards {
		if c.Rental.ID == id {
			return c, true
		}
	}
	return RentalCard{}, false
}

func (l *RentalList) buildCards(rentals []domain.Rental, vehicles []domain.Vehicle, clients []domain.Client) []RentalCard {
	vehicleByPlate := make(map[string]domain.Vehicle, len(vehicles))
	for _, v := range vehicles {
		vehicleByPlate[v.Plate] = v
	}
	clientByID := make(map[int64]domain.Client, len(clients))
	for _, c := range clients {
		clientByID[c.ID] = c
	}

	today := utils.Today(l.clock)
	cards := make([]RentalCard, 0, len(rentals))
	for _, r := range rentals {
		card := RentalCard{
			Rental:       r,
			VehicleLabel: r.VehiclePlate,
			Presentation: domain.PresentationOf(r.Status),
			Actions:      domain.AvailableActions(r.Status, l.session),
			Days:         r.Range().Days(),
			Total:        r.Total(),
		}
		model := ""
		if v, ok := vehicleByPlate[r.VehiclePlate]; ok {
			card.VehicleLabel = v.Label()
			vp := domain.VehiclePresentationOf(v.Status)
			card.VehicleStatus = &vp
			model = v.Brand + " " + v.Model
		}
		if c, ok := clientByID[r.ClientID]; ok {
			card.ClientName = c.DisplayName()
		} else if l.session.IsSelfService() && r.ClientID == l.session.UserID {
			card.ClientName = l.session.Name
		}
		if !r.Status.Terminal() {
			remaining := utils.DaysRemaining(today, r.EndDate)
			card.DaysRemaining = &remaining
		}
		card.searchText = foldText(strings.Join([]string{
			r.VehiclePlate,
			model,
			strconv.FormatInt(r.ID, 10),
			card.ClientName,
		}, " "))
		cards = append(cards, card)
	}
	return cards
}

func ownedBy(rentals []domain.Rental, clientID int64) []domain.Rental {
	out := make([]domain.Rental, 0, len(rentals))
	for _, r := range rentals {
		if r.ClientID == clientID {
			out = append(out, r)
		}
	}
	return out
}

// foldText lowercases s and strips diacritics so "Gómez" matches "gomez"
func foldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}
