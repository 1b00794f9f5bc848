// Package ranking derives player scores from the points ledger. Scores are
// always recomputed from movements; nothing here caches a running total.
package ranking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/codr1/Rankeate/internal/apperr"
	dbgen "github.com/codr1/Rankeate/internal/db/generated"
	"github.com/codr1/Rankeate/internal/obs"
)

const (
	BestN         = 8
	RollingMonths = 12

	DefaultLimit = 20
)

var tracer = obs.Tracer("ranking")

// WindowStart is the earliest movement timestamp that still counts at asOf.
func WindowStart(asOf time.Time) time.Time {
	return asOf.AddDate(0, -RollingMonths, 0)
}

// SumBestN sums the n largest values. Fewer than n values are summed as-is.
func SumBestN(points []int64, n int) int64 {
	if n <= 0 || len(points) == 0 {
		return 0
	}
	sorted := append([]int64(nil), points...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] > sorted[j] })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	var total int64
	for _, p := range sorted {
		total += p
	}
	return total
}

// PlayerScore is the best-N sum of the player's non-voided movements inside
// the rolling window ending at asOf. A zero asOf means now.
func PlayerScore(ctx context.Context, q *dbgen.Queries, playerID int64, asOf time.Time) (int64, error) {
	ctx, span := tracer.Start(ctx, "ranking.PlayerScore")
	defer span.End()
	span.SetAttributes(attribute.Int64("player_id", playerID))

	if q == nil {
		return 0, errors.New("queries are required")
	}
	if asOf.IsZero() {
		asOf = time.Now()
	}
	asOf = asOf.UTC()

	if _, err := q.GetPlayer(ctx, playerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, apperr.NotFound("player not found")
		}
		return 0, fmt.Errorf("load player: %w", err)
	}

	points, err := q.ListActiveMovementPointsForPlayer(ctx, dbgen.ListActiveMovementPointsForPlayerParams{
		PlayerID:    playerID,
		WindowStart: WindowStart(asOf),
		AsOf:        asOf,
	})
	if err != nil {
		return 0, fmt.Errorf("list movements: %w", err)
	}

	score := SumBestN(points, BestN)
	span.SetAttributes(attribute.Int64("score", score))
	return score, nil
}

type Filter struct {
	CategoryID int64
	Locality   string
	Page       int
	Limit      int
}

type Entry struct {
	Rank       int    `json:"rank"`
	PlayerID   int64  `json:"playerId"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Locality   string `json:"locality"`
	CategoryID int64  `json:"categoryId"`
	Score      int64  `json:"score"`
}

type Page struct {
	Entries []Entry   `json:"entries"`
	Total   int       `json:"total"`
	Page    int       `json:"page"`
	Limit   int       `json:"limit"`
	AsOf    time.Time `json:"asOf"`
}

// List ranks the filtered population by score. Players with no points are
// left out; equal scores keep ascending player id order.
func List(ctx context.Context, q *dbgen.Queries, f Filter, asOf time.Time) (Page, error) {
	if asOf.IsZero() {
		asOf = time.Now()
	}
	asOf = asOf.UTC()
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}

	ranked, err := rank(ctx, q, f.CategoryID, f.Locality, asOf)
	if err != nil {
		return Page{}, err
	}

	page := Page{
		Entries: []Entry{},
		Total:   len(ranked),
		Page:    f.Page,
		Limit:   f.Limit,
		AsOf:    asOf,
	}
	offset := (f.Page - 1) * f.Limit
	if offset >= len(ranked) {
		return page, nil
	}
	end := offset + f.Limit
	if end > len(ranked) {
		end = len(ranked)
	}
	page.Entries = ranked[offset:end]
	return page, nil
}

// Position returns the player's rank among players of the same category and
// locality. ok is false when the player has no points in the window.
func Position(ctx context.Context, q *dbgen.Queries, playerID int64, asOf time.Time) (int, bool, error) {
	if asOf.IsZero() {
		asOf = time.Now()
	}
	player, err := q.GetPlayer(ctx, playerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, apperr.NotFound("player not found")
		}
		return 0, false, fmt.Errorf("load player: %w", err)
	}

	ranked, err := rank(ctx, q, player.CurrentCategoryID, player.Locality, asOf.UTC())
	if err != nil {
		return 0, false, err
	}
	for _, e := range ranked {
		if e.PlayerID == playerID {
			return e.Rank, true, nil
		}
	}
	return 0, false, nil
}

func rank(ctx context.Context, q *dbgen.Queries, categoryID int64, locality string, asOf time.Time) ([]Entry, error) {
	if q == nil {
		return nil, errors.New("queries are required")
	}

	players, err := q.ListPlayersForRanking(ctx, dbgen.ListPlayersForRankingParams{
		CategoryID: sql.NullInt64{Int64: categoryID, Valid: categoryID > 0},
		Locality:   sql.NullString{String: locality, Valid: locality != ""},
	})
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	if len(players) == 0 {
		return []Entry{}, nil
	}

	movements, err := q.ListActiveMovementsSince(ctx, dbgen.ListActiveMovementsSinceParams{
		WindowStart: WindowStart(asOf),
		AsOf:        asOf,
	})
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}

	byPlayer := make(map[int64][]int64)
	for _, m := range movements {
		byPlayer[m.PlayerID] = append(byPlayer[m.PlayerID], m.Points)
	}

	entries := make([]Entry, 0, len(players))
	for _, p := range players {
		score := SumBestN(byPlayer[p.ID], BestN)
		if score <= 0 {
			continue
		}
		entries = append(entries, Entry{
			PlayerID:   p.ID,
			FirstName:  p.FirstName,
			LastName:   p.LastName,
			Locality:   p.Locality,
			CategoryID: p.CurrentCategoryID,
			Score:      score,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].PlayerID < entries[j].PlayerID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}
