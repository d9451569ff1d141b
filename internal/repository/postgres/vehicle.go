package postgres

import (
	"context"
	"database/sql"

	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/domain"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/logger"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/utils"
)

const vehicleColumns = `v.plate, v.brand, v.model, v.year, v.seats, v.doors, v.daily_rate, v.status`

type vehicleRepository struct {
	db *sql.DB
}

func (r *vehicleRepository) ListAll(ctx context.Context) ([]domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles v ORDER BY v.brand, v.model, v.plate`
	return r.list(ctx, "vehicles.ListAll", query)
}

// ListAvailable excludes vehicles in maintenance and vehicles with an open
// rental overlapping [start, end]. Both ends are inclusive.
func (r *vehicleRepository) ListAvailable(ctx context.Context, start, end utils.Date) ([]domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles v
	          WHERE v.status <> $1
	            AND NOT EXISTS (
	                SELECT 1 FROM rentals r
	                WHERE r.plate = v.plate
	                  AND r.status = ANY($2)
	                  AND r.start_date <= $3
	                  AND r.end_date >= $4
	            )
	          ORDER BY v.brand, v.model, v.plate`
	return r.list(ctx, "vehicles.ListAvailable", query,
		string(domain.VehicleStatusInMaintenance), openStatuses(), end, start)
}

func (r *vehicleRepository) list(ctx context.Context, op, query string, args ...interface{}) ([]domain.Vehicle, error) {
	logger.DatabaseCall(ctx, op)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.DatabaseResult(ctx, op, 0, err)
		return nil, err
	}
	defer rows.Close()

	vehicles := []domain.Vehicle{}
	for rows.Next() {
		var v domain.Vehicle
		var status string
		if err := rows.Scan(&v.Plate, &v.Brand, &v.Model, &v.Year, &v.Seats, &v.Doors, &v.DailyRate, &status); err != nil {
			return nil, err
		}
		v.Status = domain.VehicleStatus(status)
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.DatabaseResult(ctx, op, int64(len(vehicles)), nil)
	return vehicles, nil
}
