package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type VehicleStatus string

const (
	VehicleStatusFree          VehicleStatus = "FREE"
	VehicleStatusOccupied      VehicleStatus = "OCCUPIED"
	VehicleStatusInMaintenance VehicleStatus = "IN_MAINTENANCE"
)

var vehicleStatusTable = map[VehicleStatus]StatusPresentation{
	VehicleStatusFree:          {Label: "Libre", Severity: SeverityPositive},
	VehicleStatusOccupied:      {Label: "Ocupado", Severity: SeverityInfo},
	VehicleStatusInMaintenance: {Label: "En mantenimiento", Severity: SeverityWarning},
}

type Vehicle struct {
	Plate     string          `json:"plate"`
	Brand     string          `json:"brand"`
	Model     string          `json:"model"`
	Year      int             `json:"year"`
	Seats     int             `json:"seats"`
	Doors     int             `json:"doors"`
	DailyRate decimal.Decimal `json:"daily_rate"`
	Status    VehicleStatus   `json:"status"`
}

// Label is the display name used on cards and option lists
func (v Vehicle) Label() string {
	name := strings.TrimSpace(v.Brand + " " + v.Model)
	if name == "" {
		return v.Plate
	}
	return fmt.Sprintf("%s (%s)", name, v.Plate)
}

func ParseVehicleStatus(s string) (VehicleStatus, error) {
	st := VehicleStatus(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := vehicleStatusTable[st]; !ok {
		return "", fmt.Errorf("unknown vehicle status: %q", s)
	}
	return st, nil
}

func VehiclePresentationOf(s VehicleStatus) StatusPresentation {
	if p, ok := vehicleStatusTable[s]; ok {
		return p
	}
	return StatusPresentation{Label: string(s), Severity: SeverityNeutral}
}

func VehicleStatusTable() map[VehicleStatus]StatusPresentation {
	out := make(map[VehicleStatus]StatusPresentation, len(vehicleStatusTable))
	for k, v := range vehicleStatusTable {
		out[k] = v
	}
	return out
}
