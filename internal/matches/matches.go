// Package matches organises a booking into a shared game whose court price is
// split between the players.
package matches

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/codr1/Rankeate/internal/apperr"
	"github.com/codr1/Rankeate/internal/db"
	dbgen "github.com/codr1/Rankeate/internal/db/generated"
)

const (
	StatusOpen      = "open"
	StatusFull      = "full"
	StatusConfirmed = "confirmed"

	ParticipantInvited        = "invited"
	ParticipantPendingPayment = "pending_payment"
	ParticipantConfirmed      = "confirmed"

	DefaultMaxPlayers = 4
	MaxOpenMatches    = 50

	capacityTriggerMessage = "match is full"
)

var (
	ErrMatchFull      = apperr.Conflict("MATCH_FULL", "match is full")
	ErrMatchExists    = apperr.Conflict("MATCH_EXISTS", "booking already has a match")
	ErrMatchNotOpen   = apperr.Conflict("MATCH_NOT_OPEN", "match is not open")
	ErrMatchPrivate   = apperr.Conflict("MATCH_PRIVATE", "match is not public")
	ErrAlreadyJoined  = apperr.Conflict("ALREADY_JOINED", "player is already in this match")
	ErrBookingEnded   = apperr.Conflict("BOOKING_NOT_ACTIVE", "booking is cancelled, expired or a no-show")
	ErrNotPayable     = apperr.Conflict("PARTICIPANT_NOT_PAYABLE", "participant has nothing to pay")
	ErrPaymentExpired = apperr.Conflict("PAYMENT_HOLD_EXPIRED", "payment hold has expired")
)

// SplitCents divides the court price evenly, rounding each share up to the
// next cent so the shares always cover the price.
func SplitCents(priceCents, maxPlayers int64) int64 {
	if priceCents <= 0 || maxPlayers <= 0 {
		return 0
	}
	return decimal.NewFromInt(priceCents).
		Div(decimal.NewFromInt(maxPlayers)).
		Ceil().
		IntPart()
}

type CreateParams struct {
	BookingID  int64
	CreatorID  int64
	IsPublic   bool
	MaxPlayers int64
	Notes      string
	InviteeIDs []int64
}

type Details struct {
	Match        dbgen.Match              `json:"match"`
	Participants []dbgen.MatchParticipant `json:"participants"`
}

// OpenFilter narrows the open-match list. Zero values match everything.
type OpenFilter struct {
	ClubID     int64
	CategoryID int64
}

type Service struct {
	db         *db.DB
	hold       time.Duration
	maxPlayers int64
	now        func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithDefaultMaxPlayers sets the capacity used when a match is created
// without one.
func WithDefaultMaxPlayers(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxPlayers = n
		}
	}
}

func NewService(database *db.DB, paymentHold time.Duration, opts ...Option) (*Service, error) {
	if database == nil {
		return nil, errors.New("match service requires a database")
	}
	if paymentHold <= 0 {
		return nil, fmt.Errorf("payment hold must be positive, got %s", paymentHold)
	}
	s := &Service{db: database, hold: paymentHold, maxPlayers: DefaultMaxPlayers, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CreateMatch attaches a match to a booking. The creator's seat is confirmed
// when the booking is already paid or free, otherwise it waits for payment.
func (s *Service) CreateMatch(ctx context.Context, p CreateParams) (Details, error) {
	maxPlayers := p.MaxPlayers
	if maxPlayers == 0 {
		maxPlayers = s.maxPlayers
	}
	if maxPlayers < 0 {
		return Details{}, apperr.Invalid("max players must be positive")
	}

	invitees := make([]int64, 0, len(p.InviteeIDs))
	seen := map[int64]struct{}{p.CreatorID: {}}
	for _, id := range p.InviteeIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		invitees = append(invitees, id)
	}
	if int64(1+len(invitees)) > maxPlayers {
		return Details{}, apperr.Invalidf("a match of %d players cannot hold %d invitations", maxPlayers, len(invitees))
	}

	now := s.now().UTC()
	var out Details
	err := s.db.RunInTx(ctx, func(txdb *db.DB) error {
		q := txdb.Queries
		booking, err := q.GetBooking(ctx, p.BookingID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperr.NotFound("booking not found")
			}
			return fmt.Errorf("load booking: %w", err)
		}
		switch booking.Status {
		case "cancelled", "expired", "no_show":
			return ErrBookingEnded
		}

		if _, err := q.GetMatchByBookingID(ctx, booking.ID); err == nil {
			return ErrMatchExists
		} else if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("load match: %w", err)
		}

		for id := range seen {
			if _, err := q.GetPlayer(ctx, id); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return apperr.NotFound(fmt.Sprintf("player %d not found", id))
				}
				return fmt.Errorf("load player: %w", err)
			}
		}

		match, err := q.CreateMatch(ctx, dbgen.CreateMatchParams{
			BookingID:  booking.ID,
			CreatedBy:  p.CreatorID,
			IsPublic:   p.IsPublic,
			MaxPlayers: maxPlayers,
			Notes:      sql.NullString{String: strings.TrimSpace(p.Notes), Valid: strings.TrimSpace(p.Notes) != ""},
		})
		if err != nil {
			if db.IsConstraintError(err) {
				return ErrMatchExists
			}
			return fmt.Errorf("create match: %w", err)
		}

		split := SplitCents(booking.PriceCents, maxPlayers)
		creator := dbgen.CreateMatchParticipantParams{
			MatchID:    match.ID,
			PlayerID:   p.CreatorID,
			Status:     ParticipantConfirmed,
			SplitCents: split,
			JoinedAt:   sql.NullTime{Time: now, Valid: true},
			CreatedAt:  now,
		}
		if booking.Status != "confirmed" && booking.PriceCents > 0 {
			creator.Status = ParticipantPendingPayment
			creator.ExpiresAt = sql.NullTime{Time: now.Add(s.hold), Valid: true}
		}
		seat, err := q.CreateMatchParticipant(ctx, creator)
		if err != nil {
			return fmt.Errorf("add creator: %w", err)
		}
		out.Participants = append(out.Participants, seat)

		for _, id := range invitees {
			seat, err := q.CreateMatchParticipant(ctx, dbgen.CreateMatchParticipantParams{
				MatchID:    match.ID,
				PlayerID:   id,
				Status:     ParticipantInvited,
				SplitCents: split,
				CreatedAt:  now,
			})
			if err != nil {
				if db.IsTriggerAbort(err, capacityTriggerMessage) {
					return ErrMatchFull
				}
				return fmt.Errorf("invite player %d: %w", id, err)
			}
			out.Participants = append(out.Participants, seat)
		}

		if err := fillIfAtCapacity(ctx, q, match, now); err != nil {
			return err
		}
		if err := settle(ctx, q, match, booking.ID, now); err != nil {
			return err
		}
		out.Match, err = q.GetMatch(ctx, match.ID)
		return err
	})
	if err != nil {
		return Details{}, err
	}

	log.Ctx(ctx).Info().
		Int64("match_id", out.Match.ID).
		Int64("booking_id", p.BookingID).
		Int64("max_players", maxPlayers).
		Int("invited", len(invitees)).
		Msg("Match created")
	return out, nil
}

// JoinMatch takes a seat in a public open match and starts the player's
// payment hold.
func (s *Service) JoinMatch(ctx context.Context, matchID, playerID int64) (dbgen.MatchParticipant, error) {
	now := s.now().UTC()
	var seat dbgen.MatchParticipant
	err := s.db.RunInTx(ctx, func(txdb *db.DB) error {
		q := txdb.Queries
		match, err := q.GetMatch(ctx, matchID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperr.NotFound("match not found")
			}
			return fmt.Errorf("load match: %w", err)
		}
		if !match.IsPublic {
			return ErrMatchPrivate
		}
		switch match.Status {
		case StatusOpen:
		case StatusFull:
			return ErrMatchFull
		default:
			return ErrMatchNotOpen
		}

		if _, err := q.GetPlayer(ctx, playerID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperr.NotFound("player not found")
			}
			return fmt.Errorf("load player: %w", err)
		}
		if _, err := q.GetMatchParticipantByPlayer(ctx, dbgen.GetMatchParticipantByPlayerParams{
			MatchID:  matchID,
			PlayerID: playerID,
		}); err == nil {
			return ErrAlreadyJoined
		} else if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("load participant: %w", err)
		}

		active, err := q.CountActiveMatchParticipants(ctx, matchID)
		if err != nil {
			return fmt.Errorf("count participants: %w", err)
		}
		if active >= match.MaxPlayers {
			return ErrMatchFull
		}

		booking, err := q.GetBooking(ctx, match.BookingID)
		if err != nil {
			return fmt.Errorf("load booking: %w", err)
		}

		seat, err = q.CreateMatchParticipant(ctx, dbgen.CreateMatchParticipantParams{
			MatchID:    matchID,
			PlayerID:   playerID,
			Status:     ParticipantPendingPayment,
			SplitCents: SplitCents(booking.PriceCents, match.MaxPlayers),
			ExpiresAt:  sql.NullTime{Time: now.Add(s.hold), Valid: true},
			JoinedAt:   sql.NullTime{Time: now, Valid: true},
			CreatedAt:  now,
		})
		if err != nil {
			if db.IsTriggerAbort(err, capacityTriggerMessage) {
				return ErrMatchFull
			}
			if db.IsConstraintError(err) {
				return ErrAlreadyJoined
			}
			return fmt.Errorf("join match: %w", err)
		}
		return fillIfAtCapacity(ctx, q, match, now)
	})
	if err != nil {
		return dbgen.MatchParticipant{}, err
	}

	log.Ctx(ctx).Info().
		Int64("match_id", matchID).
		Int64("player_id", playerID).
		Time("expires_at", seat.ExpiresAt.Time).
		Msg("Player joined match")
	return seat, nil
}

// ConfirmParticipantPayment marks a seat paid. When every seat of the match
// is paid, the match and its booking are confirmed too.
func (s *Service) ConfirmParticipantPayment(ctx context.Context, participantID int64) (dbgen.MatchParticipant, error) {
	now := s.now().UTC()
	var seat dbgen.MatchParticipant
	err := s.db.RunInTx(ctx, func(txdb *db.DB) error {
		q := txdb.Queries
		current, err := q.GetMatchParticipant(ctx, participantID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperr.NotFound("participant not found")
			}
			return fmt.Errorf("load participant: %w", err)
		}
		if current.Status == ParticipantPendingPayment && current.ExpiresAt.Valid && !current.ExpiresAt.Time.After(now) {
			return ErrPaymentExpired
		}

		seat, err = q.ConfirmMatchParticipant(ctx, dbgen.ConfirmMatchParticipantParams{
			PaidAt: now,
			ID:     participantID,
		})
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotPayable
			}
			return fmt.Errorf("confirm participant: %w", err)
		}

		match, err := q.GetMatch(ctx, seat.MatchID)
		if err != nil {
			return fmt.Errorf("load match: %w", err)
		}
		return settle(ctx, q, match, match.BookingID, now)
	})
	if err != nil {
		return dbgen.MatchParticipant{}, err
	}

	log.Ctx(ctx).Info().
		Int64("participant_id", participantID).
		Int64("match_id", seat.MatchID).
		Msg("Match payment confirmed")
	return seat, nil
}

func fillIfAtCapacity(ctx context.Context, q *dbgen.Queries, match dbgen.Match, now time.Time) error {
	active, err := q.CountActiveMatchParticipants(ctx, match.ID)
	if err != nil {
		return fmt.Errorf("count participants: %w", err)
	}
	if active < match.MaxPlayers {
		return nil
	}
	if _, err := q.UpdateMatchStatus(ctx, dbgen.UpdateMatchStatusParams{
		Status:     StatusFull,
		UpdatedAt:  now,
		ID:         match.ID,
		FromStatus: StatusOpen,
	}); err != nil {
		return fmt.Errorf("mark match full: %w", err)
	}
	return nil
}

// settle confirms the match and its booking once every seat is paid.
func settle(ctx context.Context, q *dbgen.Queries, match dbgen.Match, bookingID int64, now time.Time) error {
	confirmed, err := q.CountConfirmedMatchParticipants(ctx, match.ID)
	if err != nil {
		return fmt.Errorf("count confirmed participants: %w", err)
	}
	if confirmed < match.MaxPlayers {
		return nil
	}

	for _, from := range []string{StatusFull, StatusOpen} {
		n, err := q.UpdateMatchStatus(ctx, dbgen.UpdateMatchStatusParams{
			Status:     StatusConfirmed,
			UpdatedAt:  now,
			ID:         match.ID,
			FromStatus: from,
		})
		if err != nil {
			return fmt.Errorf("confirm match: %w", err)
		}
		if n > 0 {
			break
		}
	}

	booking, err := q.GetBooking(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("load booking: %w", err)
	}
	if booking.Status != "pending" {
		return nil
	}
	if _, err := q.ConfirmBooking(ctx, dbgen.ConfirmBookingParams{UpdatedAt: now, ID: bookingID}); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.Conflict("BOOKING_HOLD_EXPIRED", "booking hold expired before the match was paid")
		}
		return fmt.Errorf("confirm booking: %w", err)
	}
	return nil
}

// ListOpen returns public matches still looking for players whose booking is
// active and has not started, soonest first. A category filter keeps matches
// with at least one participant in that category.
func (s *Service) ListOpen(ctx context.Context, f OpenFilter) ([]dbgen.ListOpenMatchesRow, error) {
	rows, err := s.db.Queries.ListOpenMatches(ctx, dbgen.ListOpenMatchesParams{
		Now:        s.now().UTC(),
		ClubID:     sql.NullInt64{Int64: f.ClubID, Valid: f.ClubID != 0},
		CategoryID: sql.NullInt64{Int64: f.CategoryID, Valid: f.CategoryID != 0},
		MaxRows:    MaxOpenMatches,
	})
	if err != nil {
		return nil, fmt.Errorf("list open matches: %w", err)
	}
	if rows == nil {
		rows = []dbgen.ListOpenMatchesRow{}
	}
	return rows, nil
}
