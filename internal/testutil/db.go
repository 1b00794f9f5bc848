package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/codr1/Rankeate/internal/db"
	dbgen "github.com/codr1/Rankeate/internal/db/generated"
)

var seedSeq atomic.Int64

// NewTestDB creates a temporary SQLite database with migrations applied.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(dbPath)
	if err != nil {
		t.Fatalf("create test db: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})

	return database
}

// SeedClub inserts a club with a unique slug.
func SeedClub(t *testing.T, database *db.DB, timezone string) dbgen.Club {
	t.Helper()

	n := seedSeq.Add(1)
	club, err := database.Queries.CreateClub(context.Background(), dbgen.CreateClubParams{
		Name:     fmt.Sprintf("Club %d", n),
		Slug:     fmt.Sprintf("club-%d", n),
		Timezone: timezone,
	})
	if err != nil {
		t.Fatalf("seed club: %v", err)
	}
	return club
}

// SeedCourt inserts an active court for clubID.
func SeedCourt(t *testing.T, database *db.DB, clubID int64) dbgen.Court {
	t.Helper()

	court, err := database.Queries.CreateCourt(context.Background(), dbgen.CreateCourtParams{
		ClubID:  clubID,
		Name:    fmt.Sprintf("Court %d", seedSeq.Add(1)),
		Surface: "synthetic",
	})
	if err != nil {
		t.Fatalf("seed court: %v", err)
	}
	return court
}

// SeedSchedule upserts the weekly schedule of a court for one weekday.
func SeedSchedule(t *testing.T, database *db.DB, courtID int64, weekday time.Weekday, open, close string, slotMinutes, priceCents int64) dbgen.CourtSchedule {
	t.Helper()

	schedule, err := database.Queries.UpsertCourtSchedule(context.Background(), dbgen.UpsertCourtScheduleParams{
		CourtID:     courtID,
		DayOfWeek:   int64(weekday),
		OpenTime:    open,
		CloseTime:   close,
		SlotMinutes: slotMinutes,
		PriceCents:  priceCents,
	})
	if err != nil {
		t.Fatalf("seed schedule: %v", err)
	}
	return schedule
}

// SeedBlock inserts a maintenance block on a court.
func SeedBlock(t *testing.T, database *db.DB, courtID int64, start, end time.Time) dbgen.CourtBlock {
	t.Helper()

	block, err := database.Queries.CreateCourtBlock(context.Background(), dbgen.CreateCourtBlockParams{
		CourtID:   courtID,
		BlockType: "maintenance",
		StartTime: start.UTC(),
		EndTime:   end.UTC(),
	})
	if err != nil {
		t.Fatalf("seed block: %v", err)
	}
	return block
}

// SeedBooking inserts a free booking directly, bypassing the allocator.
func SeedBooking(t *testing.T, database *db.DB, court dbgen.Court, start, end time.Time, status string, expiresAt time.Time) dbgen.Booking {
	t.Helper()
	return SeedPricedBooking(t, database, court, start, end, status, expiresAt, 0)
}

func SeedPricedBooking(t *testing.T, database *db.DB, court dbgen.Court, start, end time.Time, status string, expiresAt time.Time, priceCents int64) dbgen.Booking {
	t.Helper()

	expires := sql.NullTime{}
	if !expiresAt.IsZero() {
		expires = sql.NullTime{Time: expiresAt.UTC(), Valid: true}
	}
	booking, err := database.Queries.CreateBooking(context.Background(), dbgen.CreateBookingParams{
		CourtID:    court.ID,
		ClubID:     court.ClubID,
		CreatedBy:  1,
		StartTime:  start.UTC(),
		EndTime:    end.UTC(),
		PriceCents: priceCents,
		Status:     status,
		ExpiresAt:  expires,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	return booking
}

// CategoryBySortOrder returns a seeded category (1 = top tier).
func CategoryBySortOrder(t *testing.T, database *db.DB, sortOrder int64) dbgen.Category {
	t.Helper()

	category, err := database.Queries.GetCategoryBySortOrder(context.Background(), sortOrder)
	if err != nil {
		t.Fatalf("load category %d: %v", sortOrder, err)
	}
	return category
}

// SeedPlayer inserts a player in the category with the given sort order.
func SeedPlayer(t *testing.T, database *db.DB, categorySortOrder int64, locality string) dbgen.Player {
	t.Helper()

	category := CategoryBySortOrder(t, database, categorySortOrder)
	n := seedSeq.Add(1)
	player, err := database.Queries.CreatePlayer(context.Background(), dbgen.CreatePlayerParams{
		FirstName:         fmt.Sprintf("Player%d", n),
		LastName:          "Test",
		Locality:          locality,
		CurrentCategoryID: category.ID,
	})
	if err != nil {
		t.Fatalf("seed player: %v", err)
	}
	return player
}

// SeedTournament inserts an open tournament at the given level.
func SeedTournament(t *testing.T, database *db.DB, clubID int64, level string) dbgen.Tournament {
	t.Helper()

	tournament, err := database.Queries.CreateTournament(context.Background(), dbgen.CreateTournamentParams{
		ClubID: clubID,
		Name:   fmt.Sprintf("Tournament %d", seedSeq.Add(1)),
		Level:  level,
	})
	if err != nil {
		t.Fatalf("seed tournament: %v", err)
	}
	return tournament
}

// SeedMovement appends a point movement with an explicit timestamp.
func SeedMovement(t *testing.T, database *db.DB, player dbgen.Player, tournamentID, points int64, createdAt time.Time) dbgen.PointMovement {
	t.Helper()

	movement, err := database.Queries.CreatePointMovement(context.Background(), dbgen.CreatePointMovementParams{
		PlayerID:     player.ID,
		TournamentID: tournamentID,
		CategoryID:   player.CurrentCategoryID,
		Points:       points,
		Reason:       "seed",
		CreatedBy:    1,
		CreatedAt:    createdAt.UTC(),
	})
	if err != nil {
		t.Fatalf("seed movement: %v", err)
	}
	return movement
}
