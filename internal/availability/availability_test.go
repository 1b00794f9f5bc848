package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codr1/Rankeate/internal/apperr"
	"github.com/codr1/Rankeate/internal/testutil"
)

// 2030-01-07 is a Monday.
var monday = time.Date(2030, time.January, 7, 0, 0, 0, 0, time.UTC)

func at(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

func TestParseClock(t *testing.T) {
	c, err := ParseClock("08:30")
	require.NoError(t, err)
	assert.Equal(t, Clock(8*60+30), c)
	assert.Equal(t, "08:30", c.String())

	c, err = ParseClock("24:00")
	require.NoError(t, err)
	assert.Equal(t, endOfDay, c)

	for _, bad := range []string{"", "8:30", "08-30", "25:00", "10:60", "aa:bb", "24:01"} {
		_, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
}

func TestGenerateSlotsFitsWithinClose(t *testing.T) {
	open, _ := ParseClock("08:00")
	closing, _ := ParseClock("11:30")

	slots := GenerateSlots(monday, open, closing, 60, 1000)
	require.Len(t, slots, 3)
	for _, s := range slots {
		assert.Equal(t, time.Hour, s.End.Sub(s.Start))
		assert.False(t, s.End.After(at(monday, 11, 30)))
		assert.True(t, s.Available)
		assert.Equal(t, int64(1000), s.PriceCents)
	}
	assert.True(t, slots[0].Start.Equal(at(monday, 8, 0)))
	assert.True(t, slots[2].End.Equal(at(monday, 11, 0)))
}

func TestGenerateSlotsDegenerate(t *testing.T) {
	open, _ := ParseClock("10:00")
	assert.Empty(t, GenerateSlots(monday, open, open, 60, 0))
	assert.Empty(t, GenerateSlots(monday, open, open+30, 60, 0))
	assert.Empty(t, GenerateSlots(monday, open, open+120, 0, 0))
}

func TestGenerateSlotsAcrossDaylightSavingChange(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	open, _ := ParseClock("01:00")
	closing, _ := ParseClock("04:00")

	// Clocks jump from 02:00 to 03:00 on 2030-03-31 and fall back from 03:00 to 02:00 on 2030-10-27.
	for _, day := range []time.Time{
		time.Date(2030, time.March, 31, 0, 0, 0, 0, loc),
		time.Date(2030, time.October, 27, 0, 0, 0, 0, loc),
	} {
		t.Run(day.Format(time.DateOnly), func(t *testing.T) {
			slots := GenerateSlots(day, open, closing, 60, 0)
			require.NotEmpty(t, slots)
			for i, s := range slots {
				assert.Equal(t, time.Hour, s.End.Sub(s.Start))
				assert.False(t, s.End.After(at(day, 4, 0)))
				if i > 0 {
					assert.False(t, s.Start.Before(slots[i-1].End), "slot %d overlaps the previous one", i)
				}
			}
		})
	}

	spring := GenerateSlots(time.Date(2030, time.March, 31, 0, 0, 0, 0, loc), open, closing, 60, 0)
	require.Len(t, spring, 2)
	assert.True(t, spring[0].Start.Equal(at(spring[0].Start, 1, 0)))
	assert.True(t, spring[1].Start.Equal(at(spring[1].Start, 3, 0)))
}

func TestGetAvailableSlotsNoSchedule(t *testing.T) {
	database := testutil.NewTestDB(t)
	club := testutil.SeedClub(t, database, "")
	court := testutil.SeedCourt(t, database, club.ID)
	testutil.SeedSchedule(t, database, court.ID, time.Tuesday, "08:00", "12:00", 60, 10000)

	slots, err := GetAvailableSlots(context.Background(), database.Queries, court.ID, monday, monday.AddDate(0, 0, -6))
	require.NoError(t, err)
	assert.NotNil(t, slots)
	assert.Empty(t, slots)
}

func TestGetAvailableSlotsMarksPendingBooking(t *testing.T) {
	database := testutil.NewTestDB(t)
	club := testutil.SeedClub(t, database, "")
	court := testutil.SeedCourt(t, database, club.ID)
	testutil.SeedSchedule(t, database, court.ID, time.Monday, "08:00", "12:00", 60, 10000)

	now := monday.AddDate(0, 0, -6)
	// Expired hold that the sweeper has not reached yet still blocks the slot.
	testutil.SeedBooking(t, database, court, at(monday, 9, 0), at(monday, 10, 0), "pending", now.Add(-time.Hour))

	slots, err := GetAvailableSlots(context.Background(), database.Queries, court.ID, monday, now)
	require.NoError(t, err)
	require.Len(t, slots, 4)

	for _, s := range slots {
		assert.Equal(t, int64(10000), s.PriceCents)
		if s.Start.Equal(at(monday, 9, 0)) {
			assert.False(t, s.Available)
		} else {
			assert.True(t, s.Available, "slot %s", s.Start)
		}
	}
}

func TestGetAvailableSlotsIgnoresInactiveBookingsAndHonorsBlocks(t *testing.T) {
	database := testutil.NewTestDB(t)
	club := testutil.SeedClub(t, database, "")
	court := testutil.SeedCourt(t, database, club.ID)
	testutil.SeedSchedule(t, database, court.ID, time.Monday, "08:00", "12:00", 60, 0)

	testutil.SeedBooking(t, database, court, at(monday, 8, 0), at(monday, 9, 0), "cancelled", time.Time{})
	testutil.SeedBooking(t, database, court, at(monday, 9, 0), at(monday, 10, 0), "expired", time.Time{})
	testutil.SeedBlock(t, database, court.ID, at(monday, 10, 30), at(monday, 11, 15))

	slots, err := GetAvailableSlots(context.Background(), database.Queries, court.ID, monday, monday.AddDate(0, 0, -1))
	require.NoError(t, err)
	require.Len(t, slots, 4)

	assert.True(t, slots[0].Available)
	assert.True(t, slots[1].Available)
	assert.False(t, slots[2].Available)
	assert.False(t, slots[3].Available)
}

func TestGetAvailableSlotsPastSlotsUnavailable(t *testing.T) {
	database := testutil.NewTestDB(t)
	club := testutil.SeedClub(t, database, "")
	court := testutil.SeedCourt(t, database, club.ID)
	testutil.SeedSchedule(t, database, court.ID, time.Monday, "08:00", "12:00", 60, 0)

	slots, err := GetAvailableSlots(context.Background(), database.Queries, court.ID, monday, at(monday, 9, 30))
	require.NoError(t, err)
	require.Len(t, slots, 4)

	assert.False(t, slots[0].Available)
	assert.False(t, slots[1].Available)
	assert.True(t, slots[2].Available)
	assert.True(t, slots[3].Available)
}

func TestGetAvailableSlotsUsesClubTimezone(t *testing.T) {
	loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}

	database := testutil.NewTestDB(t)
	club := testutil.SeedClub(t, database, loc.String())
	court := testutil.SeedCourt(t, database, club.ID)
	testutil.SeedSchedule(t, database, court.ID, time.Monday, "08:00", "10:00", 60, 0)

	// 08:00 local is 11:00 UTC.
	localMonday := time.Date(2030, time.January, 7, 0, 0, 0, 0, loc)
	testutil.SeedBooking(t, database, court, at(localMonday, 8, 0), at(localMonday, 9, 0), "confirmed", time.Time{})

	slots, err := GetAvailableSlots(context.Background(), database.Queries, court.ID, monday, monday.AddDate(0, 0, -1))
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.True(t, slots[0].Start.Equal(time.Date(2030, time.January, 7, 11, 0, 0, 0, time.UTC)))
	assert.False(t, slots[0].Available)
	assert.True(t, slots[1].Available)
}

func TestGetAvailableSlotsUnknownCourt(t *testing.T) {
	database := testutil.NewTestDB(t)

	_, err := GetAvailableSlots(context.Background(), database.Queries, 999, monday, monday)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}
