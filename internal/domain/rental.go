package domain

import (
	"github.com/shopspring/decimal"

	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/utils"
)

type Rental struct {
	ID           int64        `json:"id"`
	VehiclePlate string       `json:"plate"`
	ClientID     int64        `json:"client_id"`
	EmployeeID   *int64       `json:"employee_id,omitempty"`
	StartDate    utils.Date   `json:"start_date"`
	EndDate      utils.Date   `json:"end_date"`
	Status       RentalStatus `json:"status"`
	// Rate snapshot captured when the rental was created. Totals use this,
	// never the vehicle's current rate.
	DailyRate decimal.Decimal `json:"daily_rate"`
}

// Range returns the rental window
func (r Rental) Range() utils.DateRange {
	return utils.DateRange{Start: r.StartDate, End: r.EndDate}
}

// Total is the snapshot rate times the rental's day count
func (r Rental) Total() decimal.Decimal {
	return utils.ComputeTotal(r.DailyRate, r.StartDate, r.EndDate)
}

// NewRental is the creation payload sent to the rental collaborator
type NewRental struct {
	VehiclePlate string     `json:"plate"`
	ClientID     int64      `json:"client_id"`
	StartDate    utils.Date `json:"start_date"`
	EndDate      utils.Date `json:"end_date"`
	EmployeeID   *int64     `json:"employee_id,omitempty"`
}
