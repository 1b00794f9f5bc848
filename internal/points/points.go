// Package points owns the append-only ledger of ranking points.
package points

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Rankeate/internal/apperr"
	"github.com/codr1/Rankeate/internal/db"
	dbgen "github.com/codr1/Rankeate/internal/db/generated"
)

// Tournament levels.
const (
	LevelLocal250    = "LOCAL_250"
	LevelRegional500 = "REGIONAL_500"
	LevelOpen1000    = "OPEN_1000"
)

// Finish positions.
const (
	Champion        = "CHAMPION"
	Finalist        = "FINALIST"
	Semifinalist    = "SEMIFINALIST"
	Quarterfinalist = "QUARTERFINALIST"
	RoundOf16       = "ROUND_OF_16"
	Participant     = "PARTICIPANT"
)

var ErrAlreadyVoided = apperr.Conflict("ALREADY_VOIDED", "point movement is already voided")

var pointsTable = map[string]map[string]int64{
	LevelLocal250: {
		Champion: 250, Finalist: 150, Semifinalist: 90, Quarterfinalist: 45, RoundOf16: 20, Participant: 5,
	},
	LevelRegional500: {
		Champion: 500, Finalist: 300, Semifinalist: 180, Quarterfinalist: 90, RoundOf16: 45, Participant: 10,
	},
	LevelOpen1000: {
		Champion: 1000, Finalist: 600, Semifinalist: 360, Quarterfinalist: 180, RoundOf16: 90, Participant: 25,
	},
}

// CalculatePoints looks up the points for a finish at a tournament level.
// Unknown levels or positions are worth 0.
func CalculatePoints(level, position string) int64 {
	return pointsTable[level][position]
}

// ValidLevel reports whether level has a points table.
func ValidLevel(level string) bool {
	_, ok := pointsTable[level]
	return ok
}

// ValidPosition reports whether position is a known finish position.
func ValidPosition(position string) bool {
	_, ok := pointsTable[LevelLocal250][position]
	return ok
}

// Grant is one player's finish in a confirmed tournament result.
type Grant struct {
	PlayerID       int64
	TournamentID   int64
	CategoryID     int64
	Level          string
	FinishPosition string
	CreatedBy      int64
}

type Ledger struct {
	db  *db.DB
	now func() time.Time
}

func NewLedger(database *db.DB) (*Ledger, error) {
	if database == nil {
		return nil, errors.New("points ledger requires a database")
	}
	return &Ledger{db: database, now: time.Now}, nil
}

// WithClock returns a copy of the ledger that reads time from now.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	return &Ledger{db: l.db, now: now}
}

// Record appends one movement per grant using q, which is normally bound to
// the caller's transaction. It does not deduplicate; the caller guarantees a
// result is confirmed only once.
func (l *Ledger) Record(ctx context.Context, q *dbgen.Queries, grants []Grant) ([]dbgen.PointMovement, error) {
	now := l.now().UTC()
	movements := make([]dbgen.PointMovement, 0, len(grants))
	for _, g := range grants {
		m, err := q.CreatePointMovement(ctx, dbgen.CreatePointMovementParams{
			PlayerID:     g.PlayerID,
			TournamentID: g.TournamentID,
			CategoryID:   g.CategoryID,
			Points:       CalculatePoints(g.Level, g.FinishPosition),
			Reason:       fmt.Sprintf("%s %s", g.Level, g.FinishPosition),
			CreatedBy:    g.CreatedBy,
			CreatedAt:    now,
		})
		if err != nil {
			return nil, fmt.Errorf("record points for player %d: %w", g.PlayerID, err)
		}
		movements = append(movements, m)
	}
	return movements, nil
}

// Void marks a movement voided exactly once. A second void is a conflict.
func (l *Ledger) Void(ctx context.Context, movementID int64, reason string, actorID int64) (dbgen.PointMovement, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return dbgen.PointMovement{}, apperr.Invalid("void reason is required")
	}

	now := l.now().UTC()
	var voided dbgen.PointMovement
	err := l.db.RunInTx(ctx, func(txdb *db.DB) error {
		var err error
		voided, err = txdb.Queries.VoidPointMovement(ctx, dbgen.VoidPointMovementParams{
			VoidedAt:   sql.NullTime{Time: now, Valid: true},
			VoidedBy:   sql.NullInt64{Int64: actorID, Valid: true},
			VoidReason: sql.NullString{String: reason, Valid: true},
			ID:         movementID,
		})
		if err == nil {
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("void point movement: %w", err)
		}
		if _, getErr := txdb.Queries.GetPointMovement(ctx, movementID); getErr != nil {
			if errors.Is(getErr, sql.ErrNoRows) {
				return apperr.NotFound("point movement not found")
			}
			return fmt.Errorf("load point movement: %w", getErr)
		}
		return ErrAlreadyVoided
	})
	if err != nil {
		return dbgen.PointMovement{}, err
	}

	log.Ctx(ctx).Info().
		Int64("movement_id", movementID).
		Int64("player_id", voided.PlayerID).
		Int64("points", voided.Points).
		Int64("actor_id", actorID).
		Msg("Point movement voided")
	return voided, nil
}

// History lists every movement of a player, voided ones included, newest first.
func History(ctx context.Context, q *dbgen.Queries, playerID int64) ([]dbgen.ListPlayerMovementsRow, error) {
	if _, err := q.GetPlayer(ctx, playerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("player not found")
		}
		return nil, fmt.Errorf("load player: %w", err)
	}
	rows, err := q.ListPlayerMovements(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("list point movements: %w", err)
	}
	if rows == nil {
		rows = []dbgen.ListPlayerMovementsRow{}
	}
	return rows, nil
}
