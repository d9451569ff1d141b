package jobs

import (
	"context"
	"fmt"

	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/logger"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/service"
	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/utils"
)

// MarkOverdueRentals moves ACTIVE rentals past their end date to OVERDUE.
// With the REST backend the API owns this transition and the job does nothing.
func (jr *JobRunner) MarkOverdueRentals() {
	jr.runWithRecovery("MarkOverdueRentals", jr.markOverdueRentals)
}

func (jr *JobRunner) markOverdueRentals(ctx context.Context) error {
	if jr.deps.Overdue == nil {
		logger.DebugContext(ctx, "Backend marks overdue rentals itself, skipping")
		return nil
	}

	today := utils.Today(jr.deps.Clock)
	marked, err := jr.deps.Overdue.MarkOverdue(ctx, today)
	if err != nil {
		return fmt.Errorf("failed to mark overdue rentals: %w", err)
	}

	logger.InfoContext(ctx, "Marked rentals as overdue", "count", len(marked), "today", today.String())
	for _, r := range marked {
		logger.DebugContext(ctx, "Marked rental as overdue",
			"rental_id", r.ID,
			"client_id", r.ClientID,
			"plate", r.VehiclePlate,
			"end_date", r.EndDate.String())
	}
	return nil
}

// SendDailyDigest mails staff the rentals starting, ending and overdue today
func (jr *JobRunner) SendDailyDigest() {
	jr.runWithRecovery("SendDailyDigest", jr.sendDailyDigest)
}

func (jr *JobRunner) sendDailyDigest(ctx context.Context) error {
	recipients := jr.config.Email.DigestRecipients
	if len(recipients) == 0 {
		logger.DebugContext(ctx, "No digest recipients configured, skipping")
		return nil
	}

	rentals, err := jr.deps.Backend.Rentals().ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load rentals: %w", err)
	}

	digest := service.BuildDailyDigest(rentals, utils.Today(jr.deps.Clock))
	if digest.Empty() {
		logger.InfoContext(ctx, "Nothing to report today", "date", digest.Date.String())
		return nil
	}

	if err := jr.deps.Email.SendDailyDigest(ctx, recipients, digest); err != nil {
		return err
	}
	logger.InfoContext(ctx, "Daily digest sent",
		"recipients", len(recipients),
		"starting_today", len(digest.StartingToday),
		"ending_today", len(digest.EndingToday),
		"overdue", len(digest.Overdue))
	return nil
}

// HealthProbe pings the backend and publishes the result to the health server
func (jr *JobRunner) HealthProbe() {
	jr.runWithRecovery("HealthProbe", jr.healthProbe)
}

func (jr *JobRunner) healthProbe(ctx context.Context) error {
	err := jr.deps.Backend.Ping(ctx)
	if jr.deps.Health != nil {
		jr.deps.Health.SetBackendHealthy(err == nil)
	}
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	return nil
}
