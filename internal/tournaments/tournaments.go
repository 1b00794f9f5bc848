// Package tournaments records tournament results and, on confirmation, turns
// them into ledger points and promotions.
package tournaments

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
	"github.com/codr1/Rankeate/internal/points"
	"github.com/codr1/Rankeate/internal/promotion"
)

const (
	ResultDraft     = "draft"
	ResultConfirmed = "confirmed"
)

var ErrAlreadyConfirmed = apperr.Conflict("ALREADY_CONFIRMED", "tournament result is already confirmed")

type Entry struct {
	PlayerID       int64  `json:"playerId"`
	FinishPosition string `json:"finishPosition"`
}

type Result struct {
	Result  dbgen.TournamentResult        `json:"result"`
	Entries []dbgen.TournamentResultEntry `json:"entries"`
}

type Confirmation struct {
	Movements  []dbgen.PointMovement `json:"movements"`
	Promotions []promotion.Promotion `json:"promotions"`
}

type Service struct {
	db       *db.DB
	ledger   *points.Ledger
	promoter *promotion.Evaluator
	now      func() time.Time
}

func NewService(database *db.DB, ledger *points.Ledger, promoter *promotion.Evaluator) (*Service, error) {
	if database == nil || ledger == nil || promoter == nil {
		return nil, errors.New("tournament service requires a database, ledger and promotion evaluator")
	}
	return &Service{db: database, ledger: ledger, promoter: promoter, now: time.Now}, nil
}

// WithClock returns a copy of the service stamping confirmations with now().
func (s *Service) WithClock(now func() time.Time) *Service {
	return &Service{db: s.db, ledger: s.ledger.WithClock(now), promoter: s.promoter.WithClock(now), now: now}
}

func (s *Service) CreateTournament(ctx context.Context, clubID int64, name, level string) (dbgen.Tournament, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return dbgen.Tournament{}, apperr.Invalid("tournament name is required")
	}
	if !points.ValidLevel(level) {
		return dbgen.Tournament{}, apperr.Invalidf("unknown tournament level %q", level)
	}
	if _, err := s.db.Queries.GetClub(ctx, clubID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dbgen.Tournament{}, apperr.NotFound("club not found")
		}
		return dbgen.Tournament{}, fmt.Errorf("load club: %w", err)
	}
	tournament, err := s.db.Queries.CreateTournament(ctx, dbgen.CreateTournamentParams{
		ClubID: clubID,
		Name:   name,
		Level:  level,
	})
	if err != nil {
		return dbgen.Tournament{}, fmt.Errorf("create tournament: %w", err)
	}
	return tournament, nil
}

// SubmitResults replaces the draft entries of a tournament category. A
// confirmed result can no longer be edited.
func (s *Service) SubmitResults(ctx context.Context, tournamentID, categoryID int64, entries []Entry) (Result, error) {
	if len(entries) == 0 {
		return Result{}, apperr.Invalid("at least one result entry is required")
	}
	seen := make(map[int64]struct{}, len(entries))
	for _, e := range entries {
		if !points.ValidPosition(e.FinishPosition) {
			return Result{}, apperr.Invalidf("unknown finish position %q", e.FinishPosition)
		}
		if _, ok := seen[e.PlayerID]; ok {
			return Result{}, apperr.Invalidf("player %d appears more than once", e.PlayerID)
		}
		seen[e.PlayerID] = struct{}{}
	}

	var out Result
	err := s.db.RunInTx(ctx, func(txdb *db.DB) error {
		q := txdb.Queries
		tournament, err := q.GetTournament(ctx, tournamentID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperr.NotFound("tournament not found")
			}
			return fmt.Errorf("load tournament: %w", err)
		}
		if !points.ValidLevel(tournament.Level) {
			return apperr.Invalidf("tournament has unknown level %q", tournament.Level)
		}
		if _, err := q.GetCategory(ctx, categoryID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperr.NotFound("category not found")
			}
			return fmt.Errorf("load category: %w", err)
		}
		for _, e := range entries {
			if _, err := q.GetPlayer(ctx, e.PlayerID); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return apperr.NotFound(fmt.Sprintf("player %d not found", e.PlayerID))
				}
				return fmt.Errorf("load player: %w", err)
			}
		}

		result, err := q.CreateTournamentResult(ctx, dbgen.CreateTournamentResultParams{
			TournamentID: tournamentID,
			CategoryID:   categoryID,
		})
		if err != nil {
			return fmt.Errorf("upsert result: %w", err)
		}
		if result.Status == ResultConfirmed {
			return ErrAlreadyConfirmed
		}

		if err := q.DeleteTournamentResultEntries(ctx, result.ID); err != nil {
			return fmt.Errorf("clear draft entries: %w", err)
		}
		out.Result = result
		for _, e := range entries {
			row, err := q.CreateTournamentResultEntry(ctx, dbgen.CreateTournamentResultEntryParams{
				ResultID:       result.ID,
				PlayerID:       e.PlayerID,
				FinishPosition: e.FinishPosition,
			})
			if err != nil {
				return fmt.Errorf("add entry for player %d: %w", e.PlayerID, err)
			}
			out.Entries = append(out.Entries, row)
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	log.Ctx(ctx).Info().
		Int64("tournament_id", tournamentID).
		Int64("category_id", categoryID).
		Int("entries", len(out.Entries)).
		Msg("Tournament results submitted")
	return out, nil
}

// ConfirmResults confirms a draft result and appends one ledger movement per
// entry in the same transaction. Confirming twice is a conflict, as is a
// result that already has active movements. Promotions are evaluated after
// the commit for every player in the batch.
func (s *Service) ConfirmResults(ctx context.Context, tournamentID, categoryID, actorID int64) (Confirmation, error) {
	now := s.now().UTC()
	var (
		out       Confirmation
		playerIDs []int64
	)
	err := s.db.RunInTx(ctx, func(txdb *db.DB) error {
		q := txdb.Queries
		tournament, err := q.GetTournament(ctx, tournamentID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperr.NotFound("tournament not found")
			}
			return fmt.Errorf("load tournament: %w", err)
		}
		result, err := q.GetTournamentResult(ctx, dbgen.GetTournamentResultParams{
			TournamentID: tournamentID,
			CategoryID:   categoryID,
		})
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperr.NotFound("tournament result not found")
			}
			return fmt.Errorf("load result: %w", err)
		}
		if result.Status == ResultConfirmed {
			return ErrAlreadyConfirmed
		}
		existing, err := q.CountActiveMovementsForResult(ctx, dbgen.CountActiveMovementsForResultParams{
			TournamentID: tournamentID,
			CategoryID:   categoryID,
		})
		if err != nil {
			return fmt.Errorf("count movements: %w", err)
		}
		if existing > 0 {
			return ErrAlreadyConfirmed
		}

		entries, err := q.ListTournamentResultEntries(ctx, result.ID)
		if err != nil {
			return fmt.Errorf("list entries: %w", err)
		}
		if len(entries) == 0 {
			return apperr.Invalid("tournament result has no entries")
		}

		n, err := q.ConfirmTournamentResult(ctx, dbgen.ConfirmTournamentResultParams{
			ConfirmedAt: sql.NullTime{Time: now, Valid: true},
			ConfirmedBy: sql.NullInt64{Int64: actorID, Valid: actorID > 0},
			ID:          result.ID,
		})
		if err != nil {
			return fmt.Errorf("confirm result: %w", err)
		}
		if n == 0 {
			return ErrAlreadyConfirmed
		}
		if err := q.MarkTournamentConfirmed(ctx, tournamentID); err != nil {
			return fmt.Errorf("mark tournament confirmed: %w", err)
		}

		grants := make([]points.Grant, 0, len(entries))
		for _, e := range entries {
			grants = append(grants, points.Grant{
				PlayerID:       e.PlayerID,
				TournamentID:   tournamentID,
				CategoryID:     categoryID,
				Level:          tournament.Level,
				FinishPosition: e.FinishPosition,
				CreatedBy:      actorID,
			})
			playerIDs = append(playerIDs, e.PlayerID)
		}
		out.Movements, err = s.ledger.Record(ctx, q, grants)
		return err
	})
	if err != nil {
		return Confirmation{}, err
	}

	logger := log.Ctx(ctx).With().
		Int64("tournament_id", tournamentID).
		Int64("category_id", categoryID).
		Logger()
	logger.Info().Int("movements", len(out.Movements)).Msg("Tournament results confirmed")

	// The ledger is committed at this point; a promotion failure is logged and
	// picked up by the next evaluation for that player.
	out.Promotions, err = s.promoter.CheckPromotionsForPlayers(ctx, playerIDs)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to evaluate promotions after confirmation")
	}
	if out.Promotions == nil {
		out.Promotions = []promotion.Promotion{}
	}
	return out, nil
}
