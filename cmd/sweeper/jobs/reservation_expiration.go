// Package jobs holds the periodic housekeeping jobs run by the sweeper.
package jobs

import (
	"context"
	"time"

	"studycafe/internal/logger"
	"studycafe/internal/service"
)

// ReservationExpirationJob periodically persists the expired transition
// for overdue reservations across all centers. The system is correct
// without it, since read paths apply expiry lazily; the sweeper keeps
// stored rows and expired events from lagging behind on idle centers.
type ReservationExpirationJob struct {
	reservations *service.ReservationService
	interval     time.Duration
}

func NewReservationExpirationJob(reservations *service.ReservationService, interval time.Duration) *ReservationExpirationJob {
	return &ReservationExpirationJob{
		reservations: reservations,
		interval:     interval,
	}
}

// Run sweeps on every tick until the context is cancelled.
func (j *ReservationExpirationJob) Run(ctx context.Context) {
	logger.Get().Info("Reservation expiration job started", "interval", j.interval)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Get().Info("Reservation expiration job stopped")
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *ReservationExpirationJob) sweep(ctx context.Context) {
	count, err := j.reservations.ExpireOverdue(ctx, nil)
	if err != nil {
		logger.Get().Error("Failed to expire overdue reservations", "error", err)
		return
	}
	if count > 0 {
		logger.Get().Info("Expired overdue reservations", "count", count)
	}
}
