package availability

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Rankeate/internal/apperr"
	dbgen "github.com/codr1/Rankeate/internal/db/generated"
)

var fallbackLocation atomic.Pointer[time.Location]

// SetDefaultLocation sets the timezone used for clubs without a valid one.
func SetDefaultLocation(loc *time.Location) {
	if loc == nil {
		loc = time.UTC
	}
	fallbackLocation.Store(loc)
}

// ClubLocation resolves a club timezone name, falling back to the default
// location when the name is empty or unknown.
func ClubLocation(name string) *time.Location {
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	if loc := fallbackLocation.Load(); loc != nil {
		return loc
	}
	return time.UTC
}

// GetAvailableSlots returns the slots of courtID on the calendar day of date,
// interpreted in the club's timezone. A court without a schedule entry for that
// weekday, or an inactive court, yields an empty list.
func GetAvailableSlots(ctx context.Context, q *dbgen.Queries, courtID int64, date, now time.Time) ([]Slot, error) {
	court, err := q.GetCourtWithTimezone(ctx, courtID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("court not found")
		}
		return nil, fmt.Errorf("load court: %w", err)
	}
	if !court.IsActive {
		return []Slot{}, nil
	}

	loc := ClubLocation(court.Timezone)
	y, m, d := date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, loc)

	schedule, err := q.GetCourtSchedule(ctx, dbgen.GetCourtScheduleParams{
		CourtID:   courtID,
		DayOfWeek: int64(day.Weekday()),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []Slot{}, nil
		}
		return nil, fmt.Errorf("load schedule: %w", err)
	}

	open, err := ParseClock(schedule.OpenTime)
	if err != nil {
		return nil, fmt.Errorf("court %d schedule: %w", courtID, err)
	}
	closing, err := ParseClock(schedule.CloseTime)
	if err != nil {
		return nil, fmt.Errorf("court %d schedule: %w", courtID, err)
	}

	slots := GenerateSlots(day, open, closing, int(schedule.SlotMinutes), schedule.PriceCents)
	if len(slots) == 0 {
		return slots, nil
	}

	rangeStart := slots[0].Start.UTC()
	rangeEnd := slots[len(slots)-1].End.UTC()

	bookings, err := q.ListActiveBookingsOverlapping(ctx, dbgen.ListActiveBookingsOverlappingParams{
		CourtID:    courtID,
		RangeEnd:   rangeEnd,
		RangeStart: rangeStart,
	})
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	blocks, err := q.ListCourtBlocksOverlapping(ctx, dbgen.ListCourtBlocksOverlappingParams{
		CourtID:    courtID,
		RangeEnd:   rangeEnd,
		RangeStart: rangeStart,
	})
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}

	for i := range slots {
		slot := &slots[i]
		if slot.Start.Before(now) {
			slot.Available = false
			continue
		}
		for _, b := range bookings {
			if Overlaps(slot.Start, slot.End, b.StartTime, b.EndTime) {
				slot.Available = false
				break
			}
		}
		if !slot.Available {
			continue
		}
		for _, b := range blocks {
			if Overlaps(slot.Start, slot.End, b.StartTime, b.EndTime) {
				slot.Available = false
				break
			}
		}
	}

	log.Ctx(ctx).Debug().
		Int64("court_id", courtID).
		Str("date", day.Format(time.DateOnly)).
		Int("slots", len(slots)).
		Int("bookings", len(bookings)).
		Int("blocks", len(blocks)).
		Msg("Computed court availability")

	return slots, nil
}
