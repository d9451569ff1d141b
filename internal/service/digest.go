package service

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/domain"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/utils"
)

// DailyDigest summarizes the day's rental movements for staff
type DailyDigest struct {
	Date          utils.Date      `json:"date"`
	StartingToday []domain.Rental `json:"starting_today"`
	EndingToday   []domain.Rental `json:"ending_today"`
	Overdue       []domain.Rental `json:"overdue"`
	OpenRevenue   decimal.Decimal `json:"open_revenue"`
}

// BuildDailyDigest classifies rentals relative to today. Overdue comes from the
// status the backend reports, never from comparing dates here.
func BuildDailyDigest(rentals []domain.Rental, today utils.Date) DailyDigest {
	d := DailyDigest{
		Date:          today,
		StartingToday: []domain.Rental{},
		EndingToday:   []domain.Rental{},
		Overdue:       []domain.Rental{},
		OpenRevenue:   decimal.Zero,
	}
	for _, r := range rentals {
		switch r.Status {
		case domain.RentalStatusReserved:
			if r.StartDate == today {
				d.StartingToday = append(d.StartingToday, r)
			}
		case domain.RentalStatusActive:
			if r.EndDate == today {
				d.EndingToday = append(d.EndingToday, r)
			}
		case domain.RentalStatusOverdue:
			d.Overdue = append(d.Overdue, r)
		}
		if !r.Status.Terminal() {
			d.OpenRevenue = d.OpenRevenue.Add(r.Total())
		}
	}
	return d
}

// Empty reports whether there is nothing worth mailing
func (d DailyDigest) Empty() bool {
	return len(d.StartingToday) == 0 && len(d.EndingToday) == 0 && len(d.Overdue) == 0
}

func (d DailyDigest) Subject() string {
	return fmt.Sprintf("IngRide: resumen de rentas del %s", d.Date)
}

// PlainText renders the digest body
func (d DailyDigest) PlainText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Resumen de rentas del %s\n", d.Date)
	writeSection(&b, "Inician hoy", d.StartingToday)
	writeSection(&b, "Finalizan hoy", d.EndingToday)
	writeSection(&b, domain.PresentationOf(domain.RentalStatusOverdue).Label, d.Overdue)
	fmt.Fprintf(&b, "\nTotal de rentas abiertas: %s\n", d.OpenRevenue.StringFixed(2))
	return b.String()
}

func writeSection(b *strings.Builder, title string, rentals []domain.Rental) {
	fmt.Fprintf(b, "\n%s (%d)\n", title, len(rentals))
	for _, r := range rentals {
		fmt.Fprintf(b, "  #%d %s cliente %d, %s a %s\n", r.ID, r.VehiclePlate, r.ClientID, r.StartDate, r.EndDate)
	}
}
