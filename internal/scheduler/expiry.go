package scheduler

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/Rankeate/internal/config"
	"github.com/codr1/Rankeate/internal/db"
	dbgen "github.com/codr1/Rankeate/internal/db/generated"
	"github.com/codr1/Rankeate/internal/metrics"
)

const (
	expiryJobName     = "expiry_sweeper"
	escalationJobName = "correction_escalation"
)

// ExpirePendingBookings moves every pending booking whose hold has lapsed to expired.
func ExpirePendingBookings(ctx context.Context, database *db.DB, now time.Time) (int64, error) {
	if database == nil {
		return 0, fmt.Errorf("booking expiry requires database")
	}

	expired, err := database.Queries.ExpirePendingBookings(ctx, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("expire pending bookings: %w", err)
	}
	if expired > 0 {
		log.Ctx(ctx).Info().Int64("expired_bookings", expired).Msg("Expired pending bookings")
	}
	return expired, nil
}

// ExpirePendingMatchParticipants expires lapsed payment holds one seat at a
// time and reopens any full match that drops below capacity as a result.
// A failing seat is logged and skipped; the next sweep retries it.
func ExpirePendingMatchParticipants(ctx context.Context, database *db.DB, now time.Time) (int64, error) {
	if database == nil {
		return 0, fmt.Errorf("match participant expiry requires database")
	}
	now = now.UTC()

	rows, err := database.Queries.ListExpiredPendingParticipants(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("list expired match participants: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	logger := log.Ctx(ctx)
	var expiredTotal int64
	for _, row := range rows {
		var expired, reopened bool

		err := database.RunInTx(ctx, func(txdb *db.DB) error {
			n, err := txdb.Queries.ExpireMatchParticipant(ctx, dbgen.ExpireMatchParticipantParams{
				UpdatedAt: now,
				ID:        row.ID,
			})
			if err != nil {
				return fmt.Errorf("expire participant: %w", err)
			}
			if n == 0 {
				// Paid or cancelled since the listing.
				return nil
			}
			expired = true

			n, err = txdb.Queries.ReopenFullMatch(ctx, dbgen.ReopenFullMatchParams{
				UpdatedAt: now,
				ID:        row.MatchID,
			})
			if err != nil {
				return fmt.Errorf("reopen match: %w", err)
			}
			reopened = n > 0
			return nil
		})
		if err != nil {
			logger.Error().Err(err).
				Int64("participant_id", row.ID).
				Int64("match_id", row.MatchID).
				Msg("Failed to expire match participant")
			continue
		}
		if !expired {
			continue
		}

		expiredTotal++
		logger.Info().
			Int64("participant_id", row.ID).
			Int64("match_id", row.MatchID).
			Bool("match_reopened", reopened).
			Msg("Expired match participant")
	}

	return expiredTotal, nil
}

// EscalateStaleCorrections flags pending, unescalated correction requests older
// than sla for admin review.
func EscalateStaleCorrections(ctx context.Context, database *db.DB, now time.Time, sla time.Duration) (int64, error) {
	if database == nil {
		return 0, fmt.Errorf("correction escalation requires database")
	}
	now = now.UTC()

	escalated, err := database.Queries.EscalateStaleCorrections(ctx, dbgen.EscalateStaleCorrectionsParams{
		EscalatedAt: sql.NullTime{Time: now, Valid: true},
		Cutoff:      now.Add(-sla),
	})
	if err != nil {
		return 0, fmt.Errorf("escalate stale corrections: %w", err)
	}
	if escalated > 0 {
		log.Ctx(ctx).Info().Int64("escalated_corrections", escalated).Dur("sla", sla).Msg("Escalated stale correction requests")
	}
	return escalated, nil
}

// RegisterExpiryJobs registers the fast hold-expiry job and the slow
// correction-escalation job on the singleton scheduler.
func RegisterExpiryJobs(database *db.DB, cfg config.SweeperConfig) error {
	if database == nil {
		return fmt.Errorf("expiry jobs require database")
	}

	timeout := cfg.Timeout.Std()
	if timeout <= 0 {
		timeout = config.DefaultSweepTimeout
	}

	expiryLogger := log.With().
		Str("component", "expiry_sweeper_job").
		Str("job_name", expiryJobName).
		Logger()

	_, err := AddIntervalJob(expiryJobName, cfg.Interval.Std(), func() {
		now := time.Now().UTC()
		runSweep(expiryLogger, timeout, metrics.SweepBookings, func(ctx context.Context) (int64, error) {
			return ExpirePendingBookings(ctx, database, now)
		})
		runSweep(expiryLogger, timeout, metrics.SweepParticipants, func(ctx context.Context) (int64, error) {
			return ExpirePendingMatchParticipants(ctx, database, now)
		})
	}, gocron.WithSingletonMode(gocron.LimitModeReschedule))
	if err != nil {
		return fmt.Errorf("add expiry job: %w", err)
	}

	escalationLogger := log.With().
		Str("component", "correction_escalation_job").
		Str("job_name", escalationJobName).
		Str("cron", cfg.EscalationCron).
		Logger()

	sla := cfg.CorrectionSLA.Std()
	_, err = AddJob(escalationJobName, cfg.EscalationCron, func() {
		runSweep(escalationLogger, timeout, metrics.SweepCorrections, func(ctx context.Context) (int64, error) {
			return EscalateStaleCorrections(ctx, database, time.Now(), sla)
		})
	}, gocron.WithSingletonMode(gocron.LimitModeReschedule))
	if err != nil {
		return fmt.Errorf("add escalation job: %w", err)
	}

	expiryLogger.Info().Dur("interval", cfg.Interval.Std()).Msg("Expiry jobs registered")
	return nil
}

// runSweep gives one sweep its own deadline and swallows its error so the
// next sweep and the next tick still run.
func runSweep(jobLogger zerolog.Logger, timeout time.Duration, sweep string, fn func(context.Context) (int64, error)) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	sweepLogger := jobLogger.With().Str("sweep", sweep).Logger()
	ctx = sweepLogger.WithContext(ctx)

	started := time.Now()
	n, err := fn(ctx)
	metrics.ObserveSweep(sweep, started, n, err)
	if err != nil {
		sweepLogger.Error().Err(err).Msg("Sweep failed")
		return
	}
	sweepLogger.Debug().Int64("transitioned", n).Dur("took", time.Since(started)).Msg("Sweep completed")
}
