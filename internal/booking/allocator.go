// Package booking grants exclusive court reservations and drives their lifecycle.
package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/codr1/Rankeate/internal/apperr"
	"github.com/codr1/Rankeate/internal/availability"
	"github.com/codr1/Rankeate/internal/db"
	dbgen "github.com/codr1/Rankeate/internal/db/generated"
	"github.com/codr1/Rankeate/internal/metrics"
	"github.com/codr1/Rankeate/internal/obs"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusExpired   = "expired"
	StatusNoShow    = "no_show"

	// Listing caps.
	MaxCreatorBookings = 50
	MaxClubBookings    = 100

	CodeSlotTaken   = "SLOT_TAKEN"
	CodeSlotBlocked = "SLOT_BLOCKED"

	// overlapTriggerMessage is raised by the bookings_no_overlap trigger.
	overlapTriggerMessage = "booking overlaps an active booking"
)

var (
	ErrSlotTaken         = apperr.Conflict(CodeSlotTaken, "slot is already booked")
	ErrSlotBlocked       = apperr.Conflict(CodeSlotBlocked, "slot is blocked")
	ErrInvalidTransition = apperr.Conflict("INVALID_STATUS_TRANSITION", "booking is not in a state that allows this change")
	ErrCourtClosed       = apperr.Invalid("court is closed on that day")
	ErrOutsideHours      = apperr.Invalid("booking is outside the court's opening hours")
)

var tracer = obs.Tracer("booking")

type CreateParams struct {
	CourtID    int64
	ClubID     int64
	CreatedBy  int64
	Start      time.Time
	End        time.Time
	PriceCents int64
}

type Allocator struct {
	db   *db.DB
	hold time.Duration
	now  func() time.Time
}

type Option func(*Allocator)

// WithClock overrides the time source used for validation and hold expiry.
func WithClock(now func() time.Time) Option {
	return func(a *Allocator) {
		a.now = now
	}
}

func NewAllocator(database *db.DB, hold time.Duration, opts ...Option) (*Allocator, error) {
	if database == nil {
		return nil, errors.New("booking allocator requires a database")
	}
	if hold <= 0 {
		return nil, fmt.Errorf("booking hold must be positive, got %s", hold)
	}
	a := &Allocator{db: database, hold: hold, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// CreateBooking checks the interval against active bookings and blocks and
// inserts a pending booking with a payment hold, all in one immediate
// transaction. Concurrent callers for an overlapping interval serialize on the
// write lock, so exactly one of them succeeds.
func (a *Allocator) CreateBooking(ctx context.Context, p CreateParams) (dbgen.Booking, error) {
	ctx, span := tracer.Start(ctx, "booking.CreateBooking")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("court_id", p.CourtID),
		attribute.Int64("club_id", p.ClubID),
	)

	now := a.now().UTC()
	start := p.Start.UTC()
	end := p.End.UTC()

	logger := log.Ctx(ctx).With().
		Str("component", "booking_allocator").
		Int64("court_id", p.CourtID).
		Time("start_time", start).
		Time("end_time", end).
		Logger()

	if !end.After(start) {
		return dbgen.Booking{}, apperr.Invalid("end time must be after start time")
	}
	if start.Before(now) {
		return dbgen.Booking{}, apperr.Invalid("start time is in the past")
	}
	if p.PriceCents < 0 {
		return dbgen.Booking{}, apperr.Invalid("price must not be negative")
	}

	var created dbgen.Booking
	err := a.db.RunInTx(ctx, func(txdb *db.DB) error {
		court, err := txdb.Queries.GetCourt(ctx, p.CourtID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperr.NotFound("court not found")
			}
			return fmt.Errorf("load court: %w", err)
		}
		if !court.IsActive {
			return apperr.NotFound("court not found")
		}
		if p.ClubID != 0 && court.ClubID != p.ClubID {
			return apperr.Invalid("court does not belong to club")
		}

		taken, err := txdb.Queries.CountActiveBookingsOverlapping(ctx, dbgen.CountActiveBookingsOverlappingParams{
			CourtID:    p.CourtID,
			RangeEnd:   end,
			RangeStart: start,
		})
		if err != nil {
			return fmt.Errorf("check booking overlap: %w", err)
		}
		if taken > 0 {
			return ErrSlotTaken
		}

		blocked, err := txdb.Queries.CountCourtBlocksOverlapping(ctx, dbgen.CountCourtBlocksOverlappingParams{
			CourtID:    p.CourtID,
			RangeEnd:   end,
			RangeStart: start,
		})
		if err != nil {
			return fmt.Errorf("check block overlap: %w", err)
		}
		if blocked > 0 {
			return ErrSlotBlocked
		}

		created, err = txdb.Queries.CreateBooking(ctx, dbgen.CreateBookingParams{
			CourtID:    p.CourtID,
			ClubID:     court.ClubID,
			CreatedBy:  p.CreatedBy,
			StartTime:  start,
			EndTime:    end,
			PriceCents: p.PriceCents,
			Status:     StatusPending,
			ExpiresAt:  sql.NullTime{Time: now.Add(a.hold), Valid: true},
			CreatedAt:  now,
		})
		if err != nil {
			if db.IsTriggerAbort(err, overlapTriggerMessage) {
				return ErrSlotTaken
			}
			return fmt.Errorf("insert booking: %w", err)
		}
		return nil
	})
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) && appErr.Kind == apperr.KindConflict {
			metrics.BookingConflict(appErr.Code)
			logger.Info().Str("code", appErr.Code).Msg("Booking rejected")
		} else if appErr == nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logger.Error().Err(err).Msg("Failed to create booking")
		}
		return dbgen.Booking{}, err
	}

	metrics.BookingCreated()
	span.SetAttributes(attribute.Int64("booking_id", created.ID))
	logger.Info().
		Int64("booking_id", created.ID).
		Time("expires_at", created.ExpiresAt.Time).
		Msg("Booking created")
	return created, nil
}

// Quote prices an interval from the court's weekly schedule for the weekday of
// start in the club's timezone. The interval must lie within that day's
// opening hours.
func (a *Allocator) Quote(ctx context.Context, courtID int64, start, end time.Time) (int64, error) {
	court, err := a.db.Queries.GetCourtWithTimezone(ctx, courtID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, apperr.NotFound("court not found")
		}
		return 0, fmt.Errorf("load court: %w", err)
	}
	if !court.IsActive {
		return 0, apperr.NotFound("court not found")
	}

	local := start.In(availability.ClubLocation(court.Timezone))
	schedule, err := a.db.Queries.GetCourtSchedule(ctx, dbgen.GetCourtScheduleParams{
		CourtID:   courtID,
		DayOfWeek: int64(local.Weekday()),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrCourtClosed
		}
		return 0, fmt.Errorf("load schedule: %w", err)
	}

	open, err := availability.ParseClock(schedule.OpenTime)
	if err != nil {
		return 0, fmt.Errorf("court %d schedule: %w", courtID, err)
	}
	closing, err := availability.ParseClock(schedule.CloseTime)
	if err != nil {
		return 0, fmt.Errorf("court %d schedule: %w", courtID, err)
	}
	if start.Before(open.On(local)) || end.After(closing.On(local)) {
		return 0, ErrOutsideHours
	}
	return schedule.PriceCents, nil
}

// ListMine returns the most recent bookings made by actorID.
func (a *Allocator) ListMine(ctx context.Context, actorID int64) ([]dbgen.Booking, error) {
	bookings, err := a.db.Queries.ListBookingsByCreator(ctx, dbgen.ListBookingsByCreatorParams{
		CreatedBy: actorID,
		MaxRows:   MaxCreatorBookings,
	})
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	if bookings == nil {
		bookings = []dbgen.Booking{}
	}
	return bookings, nil
}

// ClubFilter narrows a club's booking list. Zero values match everything; Date
// selects one calendar day in the club's timezone.
type ClubFilter struct {
	CourtID int64
	Date    time.Time
}

// ListForClub returns a club's bookings in start order.
func (a *Allocator) ListForClub(ctx context.Context, clubID int64, f ClubFilter) ([]dbgen.Booking, error) {
	club, err := a.db.Queries.GetClub(ctx, clubID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("club not found")
		}
		return nil, fmt.Errorf("load club: %w", err)
	}

	params := dbgen.ListClubBookingsParams{
		ClubID:  clubID,
		CourtID: sql.NullInt64{Int64: f.CourtID, Valid: f.CourtID != 0},
		MaxRows: MaxClubBookings,
	}
	if !f.Date.IsZero() {
		y, m, d := f.Date.Date()
		dayStart := time.Date(y, m, d, 0, 0, 0, 0, availability.ClubLocation(club.Timezone))
		params.DayStart = sql.NullTime{Time: dayStart.UTC(), Valid: true}
		params.DayEnd = sql.NullTime{Time: dayStart.AddDate(0, 0, 1).UTC(), Valid: true}
	}

	bookings, err := a.db.Queries.ListClubBookings(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list club bookings: %w", err)
	}
	if bookings == nil {
		bookings = []dbgen.Booking{}
	}
	return bookings, nil
}

// ConfirmBooking applies the payment/approval signal: pending -> confirmed.
func (a *Allocator) ConfirmBooking(ctx context.Context, bookingID int64) (dbgen.Booking, error) {
	return a.transition(ctx, bookingID, "confirm", func(q *dbgen.Queries, now time.Time) (dbgen.Booking, error) {
		return q.ConfirmBooking(ctx, dbgen.ConfirmBookingParams{UpdatedAt: now, ID: bookingID})
	})
}

// CancelBooking cancels a pending or confirmed booking on behalf of its creator or club.
func (a *Allocator) CancelBooking(ctx context.Context, bookingID, actorID int64, note string) (dbgen.Booking, error) {
	cancelNote := sql.NullString{String: note, Valid: note != ""}
	booking, err := a.transition(ctx, bookingID, "cancel", func(q *dbgen.Queries, now time.Time) (dbgen.Booking, error) {
		return q.CancelBooking(ctx, dbgen.CancelBookingParams{
			CancelledAt: sql.NullTime{Time: now, Valid: true},
			CancelNote:  cancelNote,
			ID:          bookingID,
		})
	})
	if err == nil {
		log.Ctx(ctx).Info().Int64("booking_id", bookingID).Int64("actor_id", actorID).Msg("Booking cancelled")
	}
	return booking, err
}

// MarkNoShow records that a confirmed booking was not used.
func (a *Allocator) MarkNoShow(ctx context.Context, bookingID int64) (dbgen.Booking, error) {
	return a.transition(ctx, bookingID, "no_show", func(q *dbgen.Queries, now time.Time) (dbgen.Booking, error) {
		return q.MarkBookingNoShow(ctx, dbgen.MarkBookingNoShowParams{UpdatedAt: now, ID: bookingID})
	})
}

// transition runs a guarded status update. The update returns no row when the
// booking is missing or not in an allowed source status; the two are told
// apart by a follow-up read in the same transaction.
func (a *Allocator) transition(ctx context.Context, bookingID int64, action string, update func(*dbgen.Queries, time.Time) (dbgen.Booking, error)) (dbgen.Booking, error) {
	now := a.now().UTC()
	var updated dbgen.Booking
	err := a.db.RunInTx(ctx, func(txdb *db.DB) error {
		var err error
		updated, err = update(txdb.Queries, now)
		if err == nil {
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s booking: %w", action, err)
		}
		if _, getErr := txdb.Queries.GetBooking(ctx, bookingID); getErr != nil {
			if errors.Is(getErr, sql.ErrNoRows) {
				return apperr.NotFound("booking not found")
			}
			return fmt.Errorf("load booking: %w", getErr)
		}
		return ErrInvalidTransition
	})
	if err != nil {
		return dbgen.Booking{}, err
	}
	log.Ctx(ctx).Debug().Int64("booking_id", bookingID).Str("action", action).Str("status", updated.Status).Msg("Booking status changed")
	return updated, nil
}
