package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/domain"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/logger"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/utils"
)

const rentalColumns = `id, plate, client_id, employee_id, start_date, end_date, status, daily_rate`

type rentalRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRental(row rowScanner) (domain.Rental, error) {
	var rt domain.Rental
	var employeeID sql.NullInt64
	var status string
	err := row.Scan(&rt.ID, &rt.VehiclePlate, &rt.ClientID, &employeeID, &rt.StartDate, &rt.EndDate, &status, &rt.DailyRate)
	if err != nil {
		return rt, err
	}
	if employeeID.Valid {
		id := employeeID.Int64
		rt.EmployeeID = &id
	}
	rt.Status = domain.RentalStatus(status)
	return rt, nil
}

func (r *rentalRepository) ListAll(ctx context.Context) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals ORDER BY start_date DESC, id DESC`
	logger.DatabaseCall(ctx, "rentals.ListAll")

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.DatabaseResult(ctx, "rentals.ListAll", 0, err)
		return nil, err
	}
	defer rows.Close()

	rentals := []domain.Rental{}
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.DatabaseResult(ctx, "rentals.ListAll", int64(len(rentals)), nil)
	return rentals, nil
}

// Create inserts a RESERVED rental after checking, under a row lock on the
// vehicle, that no open rental overlaps the requested window.
func (r *rentalRepository) Create(ctx context.Context, nr domain.NewRental) (*domain.Rental, error) {
	logger.DatabaseCall(ctx, "rentals.Create", "plate", nr.VehiclePlate, "client_id", nr.ClientID)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var rate decimal.Decimal
	var vehicleStatus string
	err = tx.QueryRowContext(ctx,
		`SELECT daily_rate, status FROM vehicles WHERE plate = $1 FOR UPDATE`,
		nr.VehiclePlate,
	).Scan(&rate, &vehicleStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError(fmt.Sprintf("vehicle %s not found", nr.VehiclePlate))
	}
	if err != nil {
		return nil, err
	}
	if domain.VehicleStatus(vehicleStatus) == domain.VehicleStatusInMaintenance {
		return nil, domain.NewConflictError(fmt.Sprintf("vehicle %s is in maintenance", nr.VehiclePlate))
	}

	var overlapping bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM rentals WHERE plate = $1 AND status = ANY($2) AND start_date <= $3 AND end_date >= $4)`,
		nr.VehiclePlate, openStatuses(), nr.EndDate, nr.StartDate,
	).Scan(&overlapping)
	if err != nil {
		return nil, err
	}
	if overlapping {
		return nil, domain.NewConflictError(fmt.Sprintf("vehicle %s is already rented between %s and %s", nr.VehiclePlate, nr.StartDate, nr.EndDate))
	}

	rt := &domain.Rental{
		VehiclePlate: nr.VehiclePlate,
		ClientID:     nr.ClientID,
		EmployeeID:   nr.EmployeeID,
		StartDate:    nr.StartDate,
		EndDate:      nr.EndDate,
		Status:       domain.RentalStatusReserved,
		DailyRate:    rate,
	}
	now := time.Now()
	err = tx.QueryRowContext(ctx,
		`INSERT INTO rentals (plate, client_id, employee_id, start_date, end_date, status, daily_rate, created_on, updated_on)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		rt.VehiclePlate, rt.ClientID, rt.EmployeeID, rt.StartDate, rt.EndDate, string(rt.Status), rt.DailyRate, now, now,
	).Scan(&rt.ID)
	if err != nil {
		logger.DatabaseResult(ctx, "rentals.Create", 0, err)
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	logger.DatabaseResult(ctx, "rentals.Create", 1, nil, "rental_id", rt.ID)
	return rt, nil
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

// transition updates the status only while the row is still in a source state
// of action, so concurrent changes cannot skip the state machine.
func (r *rentalRepository) transition(ctx context.Context, id int64, action domain.RentalAction) error {
	op := "rentals." + string(action)
	sources := domain.TransitionSources(action)
	if len(sources) == 0 {
		return domain.NewInvalidTransitionError(fmt.Sprintf("unknown action %s", action))
	}
	target, err := domain.Transition(sources[0], action)
	if err != nil {
		return err
	}

	logger.DatabaseCall(ctx, op, "rental_id", id)
	res, err := r.db.ExecContext(ctx,
		`UPDATE rentals SET status = $1, updated_on = $2 WHERE id = $3 AND status = ANY($4)`,
		string(target), time.Now(), id, statusArray(sources),
	)
	if err != nil {
		logger.DatabaseResult(ctx, op, 0, err)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	logger.DatabaseResult(ctx, op, n, nil)
	if n > 0 {
		return nil
	}

	var current string
	err = r.db.QueryRowContext(ctx, `SELECT status FROM rentals WHERE id = $1`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewNotFoundError(fmt.Sprintf("rental %d not found", id))
	}
	if err != nil {
		return err
	}
	return domain.NewInvalidTransitionError(fmt.Sprintf("cannot %s a rental in state %s", action, current))
}

func (r *rentalRepository) Delete(ctx context.Context, id int64) error {
	logger.DatabaseCall(ctx, "rentals.Delete", "rental_id", id)
	res, err := r.db.ExecContext(ctx, `DELETE FROM rentals WHERE id = $1`, id)
	if err != nil {
		logger.DatabaseResult(ctx, "rentals.Delete", 0, err)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	logger.DatabaseResult(ctx, "rentals.Delete", n, nil)
	if n == 0 {
		return domain.NewNotFoundError(fmt.Sprintf("rental %d not found", id))
	}
	return nil
}

// MarkOverdue moves ACTIVE rentals whose end date is before today to OVERDUE
func (r *rentalRepository) MarkOverdue(ctx context.Context, today utils.Date) ([]domain.Rental, error) {
	logger.DatabaseCall(ctx, "rentals.MarkOverdue", "today", today.String())
	rows, err := r.db.QueryContext(ctx,
		`UPDATE rentals SET status = $1, updated_on = $2
		 WHERE status = $3 AND end_date < $4
		 RETURNING `+rentalColumns,
		string(domain.RentalStatusOverdue), time.Now(), string(domain.RentalStatusActive), today,
	)
	if err != nil {
		logger.DatabaseResult(ctx, "rentals.MarkOverdue", 0, err)
		return nil, err
	}
	defer rows.Close()

	marked := []domain.Rental{}
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		marked = append(marked, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.DatabaseResult(ctx, "rentals.MarkOverdue", int64(len(marked)), nil)
	return marked, nil
}

func (s *Store) MarkOverdue(ctx context.Context, today utils.Date) ([]domain.Rental, error) {
	return s.rentals.MarkOverdue(ctx, today)
}
