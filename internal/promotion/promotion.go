// Package promotion moves players up one category when their ranking score
// reaches the threshold of the category they currently play in.
package promotion

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	"github.com/codr1/Rankeate/internal/apperr"
	"github.com/codr1/Rankeate/internal/db"
	dbgen "github.com/codr1/Rankeate/internal/db/generated"
	"github.com/codr1/Rankeate/internal/metrics"
	"github.com/codr1/Rankeate/internal/obs"
	"github.com/codr1/Rankeate/internal/ranking"
)

// DefaultThresholds maps a category sort order to the score that promotes a
// player out of it. These are the values seeded by the initial migration.
var DefaultThresholds = map[int64]int64{
	8: 300,
	7: 600,
	6: 1200,
	5: 2000,
	4: 3500,
	3: 5500,
	2: 8000,
}

var tracer = obs.Tracer("promotion")

type Promotion struct {
	PlayerID     int64  `json:"playerId"`
	PlayerName   string `json:"playerName"`
	FromCategory string `json:"fromCategory"`
	ToCategory   string `json:"toCategory"`
	Score        int64  `json:"score"`
	Threshold    int64  `json:"threshold"`
}

type Evaluator struct {
	db  *db.DB
	now func() time.Time
}

func NewEvaluator(database *db.DB) (*Evaluator, error) {
	if database == nil {
		return nil, errors.New("promotion evaluator requires a database")
	}
	return &Evaluator{db: database, now: time.Now}, nil
}

// WithClock returns a copy of the evaluator that scores players at now().
func (e *Evaluator) WithClock(now func() time.Time) *Evaluator {
	return &Evaluator{db: e.db, now: now}
}

// CheckAndPromotePlayer promotes the player by at most one category and
// returns nil when nothing changed. Players are never demoted.
func (e *Evaluator) CheckAndPromotePlayer(ctx context.Context, playerID int64) (*Promotion, error) {
	ctx, span := tracer.Start(ctx, "promotion.CheckAndPromotePlayer")
	defer span.End()
	span.SetAttributes(attribute.Int64("player_id", playerID))

	q := e.db.Queries
	player, err := q.GetPlayerWithCategory(ctx, playerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("player not found")
		}
		return nil, fmt.Errorf("load player: %w", err)
	}

	top, err := q.GetTopCategorySortOrder(ctx)
	if err != nil {
		return nil, fmt.Errorf("load top category: %w", err)
	}
	if player.CategorySortOrder <= top {
		return nil, nil
	}
	if !player.CategoryPromotionThreshold.Valid {
		return nil, nil
	}
	threshold := player.CategoryPromotionThreshold.Int64

	now := e.now().UTC()
	score, err := ranking.PlayerScore(ctx, q, playerID, now)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int64("score", score), attribute.Int64("threshold", threshold))
	if score < threshold {
		return nil, nil
	}

	next, err := q.GetCategoryBySortOrder(ctx, player.CategorySortOrder-1)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load next category: %w", err)
	}

	// Guarded on the category we read, so a concurrent promotion wins once.
	n, err := q.PromotePlayerCategory(ctx, dbgen.PromotePlayerCategoryParams{
		ToCategoryID:   next.ID,
		UpdatedAt:      now,
		ID:             playerID,
		FromCategoryID: player.CurrentCategoryID,
	})
	if err != nil {
		return nil, fmt.Errorf("promote player: %w", err)
	}
	if n == 0 {
		return nil, nil
	}

	metrics.PlayerPromoted()
	promo := &Promotion{
		PlayerID:     playerID,
		PlayerName:   player.FirstName + " " + player.LastName,
		FromCategory: player.CategoryName,
		ToCategory:   next.Name,
		Score:        score,
		Threshold:    threshold,
	}
	log.Ctx(ctx).Info().
		Int64("player_id", playerID).
		Str("from_category", promo.FromCategory).
		Str("to_category", promo.ToCategory).
		Int64("score", score).
		Int64("threshold", threshold).
		Msg("Player promoted")
	return promo, nil
}

// CheckPromotionsForPlayers evaluates each distinct player once, in the order
// given, and returns the promotions that happened.
func (e *Evaluator) CheckPromotionsForPlayers(ctx context.Context, playerIDs []int64) ([]Promotion, error) {
	seen := make(map[int64]struct{}, len(playerIDs))
	promotions := []Promotion{}
	for _, id := range playerIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		promo, err := e.CheckAndPromotePlayer(ctx, id)
		if err != nil {
			return promotions, fmt.Errorf("player %d: %w", id, err)
		}
		if promo != nil {
			promotions = append(promotions, *promo)
		}
	}
	return promotions, nil
}
