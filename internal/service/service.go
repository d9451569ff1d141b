package service

import (
	"context"
	"errors"

	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/domain"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/utils"
)

type AvailabilityService interface {
	// FindAvailable validates the window and returns the collaborator's result verbatim
	FindAvailable(ctx context.Context, start, end utils.Date) ([]domain.Vehicle, error)
	// Search is FindAvailable for display: a failed query yields an empty list and a notice
	Search(ctx context.Context, start, end utils.Date) (*AvailabilityResult, error)
	// OpenBooking opens a self-service form for a vehicle picked from a search result
	OpenBooking(session *domain.Session, vehicle domain.Vehicle, rng utils.DateRange) (*RentalForm, error)
}

type EmailService interface {
	SendDailyDigest(ctx context.Context, recipients []string, digest DailyDigest) error
}

// asTransport keeps domain errors as they are and wraps anything else as a transport failure
func asTransport(msg string, err error) error {
	if err == nil {
		return nil
	}
	if domain.CodeOf(err) != "" || errors.Is(err, domain.ErrValidation) {
		return err
	}
	return domain.NewTransportError(msg, err)
}

// rangeFieldErrors converts a failed range validation into the inline field errors of a ValidationError
func rangeFieldErrors(v utils.RangeValidation) []domain.FieldError {
	fields := make([]domain.FieldError, 0, len(v.Errors))
	for _, e := range v.Errors {
		fields = append(fields, domain.FieldError{
			Field:   e.Field,
			Code:    string(e.Code),
			Message: e.Message,
		})
	}
	return fields
}
