// Package corrections handles player requests to fix their points. Stale
// requests are escalated by the scheduler.
package corrections

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Rankeate/internal/apperr"
	"github.com/codr1/Rankeate/internal/db"
	dbgen "github.com/codr1/Rankeate/internal/db/generated"
)

const (
	StatusPending  = "pending"
	StatusResolved = "resolved"
	StatusRejected = "rejected"

	MinMessageLength = 10
)

var ErrAlreadyClosed = apperr.Conflict("CORRECTION_CLOSED", "correction request is already closed")

type Service struct {
	db  *db.DB
	now func() time.Time
}

func NewService(database *db.DB) (*Service, error) {
	if database == nil {
		return nil, errors.New("corrections service requires a database")
	}
	return &Service{db: database, now: time.Now}, nil
}

func (s *Service) WithClock(now func() time.Time) *Service {
	return &Service{db: s.db, now: now}
}

func (s *Service) Submit(ctx context.Context, playerID, clubID int64, message string) (dbgen.CorrectionRequest, error) {
	message = strings.TrimSpace(message)
	if utf8.RuneCountInString(message) < MinMessageLength {
		return dbgen.CorrectionRequest{}, apperr.Invalidf("message must be at least %d characters", MinMessageLength)
	}

	q := s.db.Queries
	if _, err := q.GetPlayer(ctx, playerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dbgen.CorrectionRequest{}, apperr.NotFound("player not found")
		}
		return dbgen.CorrectionRequest{}, fmt.Errorf("load player: %w", err)
	}
	if clubID != 0 {
		if _, err := q.GetClub(ctx, clubID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return dbgen.CorrectionRequest{}, apperr.NotFound("club not found")
			}
			return dbgen.CorrectionRequest{}, fmt.Errorf("load club: %w", err)
		}
	}

	req, err := q.CreateCorrectionRequest(ctx, dbgen.CreateCorrectionRequestParams{
		PlayerID:  playerID,
		ClubID:    sql.NullInt64{Int64: clubID, Valid: clubID != 0},
		Message:   message,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return dbgen.CorrectionRequest{}, fmt.Errorf("create correction request: %w", err)
	}
	log.Ctx(ctx).Info().Int64("correction_id", req.ID).Int64("player_id", playerID).Msg("Correction request submitted")
	return req, nil
}

// ListEscalated returns what an administrator reviews: requests filed without
// a club and requests escalated past the club's SLA. Newest first.
func (s *Service) ListEscalated(ctx context.Context) ([]dbgen.CorrectionRequest, error) {
	reqs, err := s.db.Queries.ListEscalatedCorrections(ctx)
	if err != nil {
		return nil, fmt.Errorf("list escalated corrections: %w", err)
	}
	return nonNil(reqs), nil
}

// ListForClub returns the club's requests that have not been escalated yet.
func (s *Service) ListForClub(ctx context.Context, clubID int64) ([]dbgen.CorrectionRequest, error) {
	if _, err := s.db.Queries.GetClub(ctx, clubID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("club not found")
		}
		return nil, fmt.Errorf("load club: %w", err)
	}
	reqs, err := s.db.Queries.ListClubCorrections(ctx, sql.NullInt64{Int64: clubID, Valid: true})
	if err != nil {
		return nil, fmt.Errorf("list club corrections: %w", err)
	}
	return nonNil(reqs), nil
}

func nonNil(reqs []dbgen.CorrectionRequest) []dbgen.CorrectionRequest {
	if reqs == nil {
		return []dbgen.CorrectionRequest{}
	}
	return reqs
}

// Resolve closes a pending request as resolved or rejected.
func (s *Service) Resolve(ctx context.Context, id int64, status, response string) (dbgen.CorrectionRequest, error) {
	if status != StatusResolved && status != StatusRejected {
		return dbgen.CorrectionRequest{}, apperr.Invalidf("status must be %q or %q", StatusResolved, StatusRejected)
	}
	response = strings.TrimSpace(response)

	var closed dbgen.CorrectionRequest
	err := s.db.RunInTx(ctx, func(txdb *db.DB) error {
		var err error
		closed, err = txdb.Queries.ResolveCorrectionRequest(ctx, dbgen.ResolveCorrectionRequestParams{
			Status:     status,
			Response:   sql.NullString{String: response, Valid: response != ""},
			ResolvedAt: sql.NullTime{Time: s.now().UTC(), Valid: true},
			ID:         id,
		})
		if err == nil {
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("resolve correction request: %w", err)
		}
		if _, getErr := txdb.Queries.GetCorrectionRequest(ctx, id); getErr != nil {
			if errors.Is(getErr, sql.ErrNoRows) {
				return apperr.NotFound("correction request not found")
			}
			return fmt.Errorf("load correction request: %w", getErr)
		}
		return ErrAlreadyClosed
	})
	if err != nil {
		return dbgen.CorrectionRequest{}, err
	}
	log.Ctx(ctx).Info().Int64("correction_id", id).Str("status", status).Msg("Correction request closed")
	return closed, nil
}
