// Package availability derives a court's bookable slots for a calendar day from
// its weekly schedule, minus blocks and active bookings.
package availability

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Slot is one fixed-length interval of a court's day.
type Slot struct {
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Available  bool      `json:"available"`
	PriceCents int64     `json:"priceCents"`
}

// Clock is a wall-clock time of day in minutes after midnight.
type Clock int

const endOfDay Clock = 24 * 60

// ParseClock parses "HH:MM". "24:00" is accepted as the end of the day.
func ParseClock(value string) (Clock, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok || len(hh) != 2 || len(mm) != 2 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", value)
	}
	hours, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", value, err)
	}
	minutes, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", value, err)
	}
	if hours < 0 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid time %q", value)
	}
	c := Clock(hours*60 + minutes)
	if c > endOfDay {
		return 0, fmt.Errorf("invalid time %q", value)
	}
	return c, nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// On returns the instant of c on the calendar day of day, in day's location.
func (c Clock) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, int(c)/60, int(c)%60, 0, 0, day.Location())
}

// GenerateSlots lays out contiguous slots from open to close. A trailing
// interval shorter than slotMinutes is dropped. All slots start out available.
// Every slot lasts exactly slotMinutes of elapsed time; a start that falls in a
// daylight-saving gap does not exist on that day and is skipped.
func GenerateSlots(day time.Time, open, close Clock, slotMinutes int, priceCents int64) []Slot {
	if slotMinutes <= 0 || close <= open {
		return []Slot{}
	}

	step := Clock(slotMinutes)
	length := time.Duration(slotMinutes) * time.Minute
	closeAt := close.On(day)
	slots := make([]Slot, 0, int(close-open)/slotMinutes)
	for start := open; start+step <= close; start += step {
		begin := start.On(day)
		if !start.Is(begin) {
			continue
		}
		end := begin.Add(length)
		if end.After(closeAt) {
			continue
		}
		slots = append(slots, Slot{
			Start:      begin,
			End:        end,
			Available:  true,
			PriceCents: priceCents,
		})
	}
	return slots
}

// Is reports whether t shows wall-clock time c. It is false when c does not
// exist on t's day.
func (c Clock) Is(t time.Time) bool {
	return Clock(t.Hour()*60+t.Minute()) == c
}

// Overlaps is the half-open interval test used for bookings and blocks.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
