package jobs

import (
	"context"

	"toolrental-backend/internal/logger"
	"toolrental-backend/internal/utils"
)

// MarkOverdueRentals marks OUT rentals as OVERDUE once their due date has passed
func (jr *JobRunner) MarkOverdueRentals() {
	jr.runWithRecovery("MarkOverdueRentals", func() {
		ctx := context.Background()
		log := logger.WithService("overdue-rentals")
		today := utils.DateOf(jr.now())

		rentals, err := jr.rentals.MarkOverdue(ctx, today)
		if err != nil {
			log.Error("Failed to mark overdue rentals", "error", err)
			return
		}

		for i := range rentals {
			rental := &rentals[i]
			log.Info("Rental overdue",
				"rental_id", rental.Agreement.ID,
				"tool_code", rental.Agreement.ToolCode,
				"due_date", rental.Agreement.DueDate.Format(utils.ISODateLayout))
			if jr.publisher != nil {
				if err := jr.publisher.PublishRentalOverdue(ctx, rental); err != nil {
					log.Warn("Failed to publish overdue event", "rental_id", rental.Agreement.ID, "error", err)
				}
			}
		}

		jr.metrics.RentalsOverdue(len(rentals))
		log.Info("Marked rentals as overdue", "count", len(rentals), "as_of", today.Format(utils.ISODateLayout))
	})
}
