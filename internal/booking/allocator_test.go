package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codr1/Rankeate/internal/apperr"
	"github.com/codr1/Rankeate/internal/db"
	dbgen "github.com/codr1/Rankeate/internal/db/generated"
	"github.com/codr1/Rankeate/internal/testutil"
)

var fixedNow = time.Date(2030, time.March, 1, 12, 0, 0, 0, time.UTC)

func newAllocator(t *testing.T, database *db.DB) *Allocator {
	t.Helper()
	a, err := NewAllocator(database, 10*time.Minute, WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	return a
}

func seedCourt(t *testing.T, database *db.DB) dbgen.Court {
	t.Helper()
	club := testutil.SeedClub(t, database, "")
	return testutil.SeedCourt(t, database, club.ID)
}

func countBookings(t *testing.T, database *db.DB, courtID int64) int {
	t.Helper()
	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM bookings WHERE court_id = ?`, courtID).Scan(&n))
	return n
}

func TestCreateBookingPendingWithHold(t *testing.T) {
	database := testutil.NewTestDB(t)
	court := seedCourt(t, database)
	a := newAllocator(t, database)

	start := fixedNow.Add(24 * time.Hour)
	b, err := a.CreateBooking(context.Background(), CreateParams{
		CourtID:    court.ID,
		ClubID:     court.ClubID,
		CreatedBy:  7,
		Start:      start,
		End:        start.Add(time.Hour),
		PriceCents: 10000,
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, b.Status)
	assert.Equal(t, int64(10000), b.PriceCents)
	assert.Equal(t, court.ClubID, b.ClubID)
	require.True(t, b.ExpiresAt.Valid)
	assert.True(t, b.ExpiresAt.Time.Equal(fixedNow.Add(10*time.Minute)))
	assert.True(t, b.StartTime.Equal(start))
}

func TestCreateBookingValidation(t *testing.T) {
	database := testutil.NewTestDB(t)
	court := seedCourt(t, database)
	a := newAllocator(t, database)
	start := fixedNow.Add(time.Hour)

	tests := []struct {
		name   string
		params CreateParams
		want   error
	}{
		{"end before start", CreateParams{CourtID: court.ID, Start: start, End: start.Add(-time.Minute)}, apperr.ErrInvalid},
		{"empty interval", CreateParams{CourtID: court.ID, Start: start, End: start}, apperr.ErrInvalid},
		{"start in past", CreateParams{CourtID: court.ID, Start: fixedNow.Add(-time.Minute), End: fixedNow.Add(time.Hour)}, apperr.ErrInvalid},
		{"unknown court", CreateParams{CourtID: 9999, Start: start, End: start.Add(time.Hour)}, apperr.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.CreateBooking(context.Background(), tt.params)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
	assert.Equal(t, 0, countBookings(t, database, court.ID))
}

func TestCreateBookingInactiveCourt(t *testing.T) {
	database := testutil.NewTestDB(t)
	court := seedCourt(t, database)
	_, err := database.Queries.DeactivateCourt(context.Background(), court.ID)
	require.NoError(t, err)

	start := fixedNow.Add(time.Hour)
	_, err = newAllocator(t, database).CreateBooking(context.Background(), CreateParams{CourtID: court.ID, Start: start, End: start.Add(time.Hour)})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestCreateBookingSlotTaken(t *testing.T) {
	database := testutil.NewTestDB(t)
	court := seedCourt(t, database)
	a := newAllocator(t, database)
	start := fixedNow.Add(2 * time.Hour)

	_, err := a.CreateBooking(context.Background(), CreateParams{CourtID: court.ID, Start: start, End: start.Add(time.Hour)})
	require.NoError(t, err)

	// Partial overlap on either side.
	for _, offset := range []time.Duration{-30 * time.Minute, 30 * time.Minute} {
		_, err = a.CreateBooking(context.Background(), CreateParams{
			CourtID: court.ID,
			Start:   start.Add(offset),
			End:     start.Add(offset + time.Hour),
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrSlotTaken))
		assert.True(t, errors.Is(err, apperr.ErrConflict))
	}

	// Touching intervals do not overlap.
	_, err = a.CreateBooking(context.Background(), CreateParams{CourtID: court.ID, Start: start.Add(time.Hour), End: start.Add(2 * time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, 2, countBookings(t, database, court.ID))
}

func TestCreateBookingIgnoresInactiveBookings(t *testing.T) {
	database := testutil.NewTestDB(t)
	court := seedCourt(t, database)
	start := fixedNow.Add(3 * time.Hour)
	testutil.SeedBooking(t, database, court, start, start.Add(time.Hour), StatusCancelled, time.Time{})
	testutil.SeedBooking(t, database, court, start, start.Add(time.Hour), StatusExpired, time.Time{})

	_, err := newAllocator(t, database).CreateBooking(context.Background(), CreateParams{CourtID: court.ID, Start: start, End: start.Add(time.Hour)})
	require.NoError(t, err)
}

func TestCreateBookingSlotBlockedWritesNothing(t *testing.T) {
	database := testutil.NewTestDB(t)
	court := seedCourt(t, database)
	start := fixedNow.Add(5 * time.Hour)
	testutil.SeedBlock(t, database, court.ID, start.Add(15*time.Minute), start.Add(45*time.Minute))

	_, err := newAllocator(t, database).CreateBooking(context.Background(), CreateParams{CourtID: court.ID, Start: start, End: start.Add(time.Hour)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSlotBlocked))

	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, CodeSlotBlocked, appErr.Code)
	assert.Equal(t, 0, countBookings(t, database, court.ID))
}

func TestCreateBookingConcurrentExactlyOneWins(t *testing.T) {
	database := testutil.NewTestDB(t)
	court := seedCourt(t, database)
	a := newAllocator(t, database)
	start := fixedNow.Add(6 * time.Hour)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			offset := time.Duration(i%2) * 30 * time.Minute
			_, errs[i] = a.CreateBooking(context.Background(), CreateParams{
				CourtID: court.ID,
				Start:   start.Add(offset),
				End:     start.Add(offset + time.Hour),
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, errors.Is(err, ErrSlotTaken), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, countBookings(t, database, court.ID))
}

func TestOverlapTriggerMapsToSlotTaken(t *testing.T) {
	database := testutil.NewTestDB(t)
	court := seedCourt(t, database)
	start := fixedNow.Add(time.Hour)
	testutil.SeedBooking(t, database, court, start, start.Add(time.Hour), StatusConfirmed, time.Time{})

	_, err := database.Queries.CreateBooking(context.Background(), dbgen.CreateBookingParams{
		CourtID:   court.ID,
		ClubID:    court.ClubID,
		StartTime: start.Add(30 * time.Minute),
		EndTime:   start.Add(90 * time.Minute),
		Status:    StatusPending,
		CreatedAt: fixedNow,
	})
	require.Error(t, err)
	assert.True(t, db.IsTriggerAbort(err, overlapTriggerMessage))
}

func TestBookingLifecycle(t *testing.T) {
	database := testutil.NewTestDB(t)
	court := seedCourt(t, database)
	a := newAllocator(t, database)
	ctx := context.Background()
	start := fixedNow.Add(24 * time.Hour)

	b, err := a.CreateBooking(ctx, CreateParams{CourtID: court.ID, Start: start, End: start.Add(time.Hour)})
	require.NoError(t, err)

	_, err = a.MarkNoShow(ctx, b.ID)
	assert.True(t, errors.Is(err, ErrInvalidTransition))

	confirmed, err := a.ConfirmBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, confirmed.Status)
	assert.False(t, confirmed.ExpiresAt.Valid)

	_, err = a.ConfirmBooking(ctx, b.ID)
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	cancelled, err := a.CancelBooking(ctx, b.ID, 7, "rain")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
	assert.Equal(t, "rain", cancelled.CancelNote.String)
	assert.True(t, cancelled.CancelledAt.Valid)

	_, err = a.CancelBooking(ctx, b.ID, 7, "")
	assert.True(t, errors.Is(err, ErrInvalidTransition))

	_, err = a.ConfirmBooking(ctx, 424242)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	// The cancelled interval can be booked again.
	_, err = a.CreateBooking(ctx, CreateParams{CourtID: court.ID, Start: start, End: start.Add(time.Hour)})
	require.NoError(t, err)
}

func TestMarkNoShow(t *testing.T) {
	database := testutil.NewTestDB(t)
	court := seedCourt(t, database)
	start := fixedNow.Add(-2 * time.Hour)
	b := testutil.SeedBooking(t, database, court, start, start.Add(time.Hour), StatusConfirmed, time.Time{})

	updated, err := newAllocator(t, database).MarkNoShow(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusNoShow, updated.Status)
}

func TestConfirmBookingRejectsLapsedHold(t *testing.T) {
	database := testutil.NewTestDB(t)
	court := seedCourt(t, database)
	start := fixedNow.Add(4 * time.Hour)
	b := testutil.SeedBooking(t, database, court, start, start.Add(time.Hour), StatusPending, fixedNow.Add(-time.Minute))

	_, err := newAllocator(t, database).ConfirmBooking(context.Background(), b.ID)
	assert.True(t, errors.Is(err, ErrInvalidTransition))
}

func TestOverlapQueriesBindRangeInOrder(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	court := seedCourt(t, database)
	start := fixedNow.Add(24 * time.Hour)
	testutil.SeedBooking(t, database, court, start, start.Add(time.Hour), StatusConfirmed, time.Time{})
	testutil.SeedBlock(t, database, court.ID, start, start.Add(time.Hour))

	cases := []struct {
		name       string
		from, to   time.Duration
		overlapped int64
	}{
		{"tail", 30 * time.Minute, 90 * time.Minute, 1},
		{"head", -30 * time.Minute, 15 * time.Minute, 1},
		{"inside", 15 * time.Minute, 45 * time.Minute, 1},
		{"after", time.Hour, 2 * time.Hour, 0},
		{"before", -time.Hour, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rangeStart, rangeEnd := start.Add(tc.from), start.Add(tc.to)

			bookings, err := database.Queries.CountActiveBookingsOverlapping(ctx, dbgen.CountActiveBookingsOverlappingParams{
				CourtID:    court.ID,
				RangeEnd:   rangeEnd,
				RangeStart: rangeStart,
			})
			require.NoError(t, err)
			assert.Equal(t, tc.overlapped, bookings)

			blocks, err := database.Queries.CountCourtBlocksOverlapping(ctx, dbgen.CountCourtBlocksOverlappingParams{
				CourtID:    court.ID,
				RangeEnd:   rangeEnd,
				RangeStart: rangeStart,
			})
			require.NoError(t, err)
			assert.Equal(t, tc.overlapped, blocks)
		})
	}
}

func TestQuoteUsesScheduleForLocalWeekday(t *testing.T) {
	madrid, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		t.Skip("timezone database unavailable")
	}
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	club := testutil.SeedClub(t, database, "Europe/Madrid")
	court := testutil.SeedCourt(t, database, club.ID)
	testutil.SeedSchedule(t, database, court.ID, time.Monday, "08:00", "22:00", 90, 4500)
	testutil.SeedSchedule(t, database, court.ID, time.Sunday, "00:00", "23:59", 60, 9900)
	a := newAllocator(t, database)

	monday := time.Date(2030, time.August, 5, 9, 0, 0, 0, madrid)
	price, err := a.Quote(ctx, court.ID, monday, monday.Add(90*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(4500), price)

	// 00:30 Monday in Madrid is still Sunday in UTC.
	early := time.Date(2030, time.August, 5, 0, 30, 0, 0, madrid)
	_, err = a.Quote(ctx, court.ID, early, early.Add(time.Hour))
	assert.ErrorIs(t, err, ErrOutsideHours)

	late := time.Date(2030, time.August, 5, 21, 0, 0, 0, madrid)
	_, err = a.Quote(ctx, court.ID, late, late.Add(90*time.Minute))
	assert.ErrorIs(t, err, ErrOutsideHours)

	tuesday := monday.AddDate(0, 0, 1)
	_, err = a.Quote(ctx, court.ID, tuesday, tuesday.Add(time.Hour))
	assert.ErrorIs(t, err, ErrCourtClosed)
	assert.True(t, errors.Is(err, apperr.ErrInvalid))

	_, err = a.Quote(ctx, 987654, monday, monday.Add(time.Hour))
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestListMine(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	court := seedCourt(t, database)
	a := newAllocator(t, database)

	first := fixedNow.Add(24 * time.Hour)
	for i, creator := range []int64{7, 8, 7} {
		start := first.Add(time.Duration(i) * time.Hour)
		_, err := a.CreateBooking(ctx, CreateParams{CourtID: court.ID, CreatedBy: creator, Start: start, End: start.Add(time.Hour)})
		require.NoError(t, err)
	}

	mine, err := a.ListMine(ctx, 7)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.True(t, mine[0].StartTime.After(mine[1].StartTime))
	for _, b := range mine {
		assert.Equal(t, int64(7), b.CreatedBy)
	}

	none, err := a.ListMine(ctx, 99)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestListForClubFiltersByCourtAndLocalDay(t *testing.T) {
	buenosAires, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	if err != nil {
		t.Skip("timezone database unavailable")
	}
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	club := testutil.SeedClub(t, database, "America/Argentina/Buenos_Aires")
	courtA := testutil.SeedCourt(t, database, club.ID)
	courtB := testutil.SeedCourt(t, database, club.ID)
	otherCourt := seedCourt(t, database)
	a := newAllocator(t, database)

	// 22:00 local on 3 March is already 4 March in UTC.
	evening := time.Date(2030, time.March, 3, 22, 0, 0, 0, buenosAires)
	morning := time.Date(2030, time.March, 3, 9, 0, 0, 0, buenosAires)
	nextDay := time.Date(2030, time.March, 4, 9, 0, 0, 0, buenosAires)
	lateA := testutil.SeedBooking(t, database, courtA, evening, evening.Add(time.Hour), StatusConfirmed, time.Time{})
	earlyB := testutil.SeedBooking(t, database, courtB, morning, morning.Add(time.Hour), StatusConfirmed, time.Time{})
	testutil.SeedBooking(t, database, courtA, nextDay, nextDay.Add(time.Hour), StatusCancelled, time.Time{})
	testutil.SeedBooking(t, database, otherCourt, morning, morning.Add(time.Hour), StatusConfirmed, time.Time{})

	all, err := a.ListForClub(ctx, club.ID, ClubFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, earlyB.ID, all[0].ID)

	day, err := a.ListForClub(ctx, club.ID, ClubFilter{Date: time.Date(2030, time.March, 3, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	require.Len(t, day, 2)
	assert.Equal(t, earlyB.ID, day[0].ID)
	assert.Equal(t, lateA.ID, day[1].ID)

	onCourt, err := a.ListForClub(ctx, club.ID, ClubFilter{CourtID: courtA.ID, Date: time.Date(2030, time.March, 3, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	require.Len(t, onCourt, 1)
	assert.Equal(t, lateA.ID, onCourt[0].ID)

	_, err = a.ListForClub(ctx, 987654, ClubFilter{})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}
