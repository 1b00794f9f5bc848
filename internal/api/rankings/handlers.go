// internal/api/rankings/handlers.go
package rankings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Rankeate/internal/api/apiutil"
	"github.com/codr1/Rankeate/internal/apperr"
	"github.com/codr1/Rankeate/internal/config"
	dbgen "github.com/codr1/Rankeate/internal/db/generated"
	"github.com/codr1/Rankeate/internal/points"
	"github.com/codr1/Rankeate/internal/ranking"
)

const rankingsQueryTimeout = 10 * time.Second

var (
	queries     *dbgen.Queries
	queriesOnce sync.Once
	limits      = config.RankingConfig{
		PageLimit:    config.DefaultRankingPageLimit,
		MaxPageLimit: config.DefaultRankingMaxPageLimit,
	}
	now = time.Now
)

type createPlayerRequest struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Locality   string `json:"locality"`
	CategoryID int64  `json:"categoryId"`
}

type scoreResponse struct {
	PlayerID int64     `json:"playerId"`
	Score    int64     `json:"score"`
	AsOf     time.Time `json:"asOf"`
}

type positionResponse struct {
	PlayerID int64 `json:"playerId"`
	Position int   `json:"position"`
	Ranked   bool  `json:"ranked"`
}

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(q *dbgen.Queries, cfg config.RankingConfig) {
	if q == nil {
		return
	}
	queriesOnce.Do(func() {
		queries = q
		if cfg.PageLimit > 0 {
			limits.PageLimit = cfg.PageLimit
		}
		if cfg.MaxPageLimit > 0 {
			limits.MaxPageLimit = cfg.MaxPageLimit
		}
	})
}

// POST /api/v1/players
func HandleCreatePlayer(w http.ResponseWriter, r *http.Request) {
	q, ok := requireQueries(w, r)
	if !ok {
		return
	}

	var req createPlayerRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteBadRequest(w, r, err)
		return
	}
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Locality = strings.TrimSpace(req.Locality)
	switch {
	case req.FirstName == "":
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "firstName", Reason: "is required"})
		return
	case req.LastName == "":
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "lastName", Reason: "is required"})
		return
	case req.Locality == "":
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "locality", Reason: "is required"})
		return
	case req.CategoryID <= 0:
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "categoryId", Reason: "must be greater than 0"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), rankingsQueryTimeout)
	defer cancel()

	if _, err := q.GetCategory(ctx, req.CategoryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, r, apperr.NotFound("category not found"))
			return
		}
		apiutil.WriteError(w, r, fmt.Errorf("load category: %w", err))
		return
	}

	player, err := q.CreatePlayer(ctx, dbgen.CreatePlayerParams{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Locality:          req.Locality,
		CurrentCategoryID: req.CategoryID,
	})
	if err != nil {
		apiutil.WriteError(w, r, fmt.Errorf("create player: %w", err))
		return
	}
	log.Ctx(r.Context()).Info().Int64("player_id", player.ID).Msg("Player registered")
	apiutil.Respond(w, r, http.StatusCreated, player)
}

// GET /api/v1/rankings
func HandleListRankings(w http.ResponseWriter, r *http.Request) {
	q, ok := requireQueries(w, r)
	if !ok {
		return
	}

	categoryID, err := apiutil.OptionalQueryInt(r, "category_id")
	if err != nil {
		apiutil.WriteBadRequest(w, r, err)
		return
	}
	page, err := apiutil.OptionalQueryInt(r, "page")
	if err != nil {
		apiutil.WriteBadRequest(w, r, err)
		return
	}
	limit, err := apiutil.OptionalQueryInt(r, "limit")
	if err != nil {
		apiutil.WriteBadRequest(w, r, err)
		return
	}
	if limit == 0 {
		limit = int64(limits.PageLimit)
	}
	if limit > int64(limits.MaxPageLimit) {
		limit = int64(limits.MaxPageLimit)
	}

	ctx, cancel := context.WithTimeout(r.Context(), rankingsQueryTimeout)
	defer cancel()

	result, err := ranking.List(ctx, q, ranking.Filter{
		CategoryID: categoryID,
		Locality:   strings.TrimSpace(r.URL.Query().Get("locality")),
		Page:       int(page),
		Limit:      int(limit),
	}, now())
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, result)
}

// GET /api/v1/players/{id}/score
func HandlePlayerScore(w http.ResponseWriter, r *http.Request) {
	q, ok := requireQueries(w, r)
	if !ok {
		return
	}
	playerID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteBadRequest(w, r, err)
		return
	}
	asOf, err := apiutil.ParseOptionalTime(r.URL.Query().Get("as_of"), "as_of")
	if err != nil {
		apiutil.WriteBadRequest(w, r, err)
		return
	}
	if asOf.IsZero() {
		asOf = now().UTC()
	}

	ctx, cancel := context.WithTimeout(r.Context(), rankingsQueryTimeout)
	defer cancel()

	score, err := ranking.PlayerScore(ctx, q, playerID, asOf)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, scoreResponse{PlayerID: playerID, Score: score, AsOf: asOf})
}

// GET /api/v1/players/{id}/position
func HandlePlayerPosition(w http.ResponseWriter, r *http.Request) {
	q, ok := requireQueries(w, r)
	if !ok {
		return
	}
	playerID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteBadRequest(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), rankingsQueryTimeout)
	defer cancel()

	position, ranked, err := ranking.Position(ctx, q, playerID, now())
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, positionResponse{PlayerID: playerID, Position: position, Ranked: ranked})
}

// GET /api/v1/players/{id}/history
func HandlePlayerHistory(w http.ResponseWriter, r *http.Request) {
	q, ok := requireQueries(w, r)
	if !ok {
		return
	}
	playerID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteBadRequest(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), rankingsQueryTimeout)
	defer cancel()

	movements, err := points.History(ctx, q, playerID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, movements)
}

func requireQueries(w http.ResponseWriter, r *http.Request) (*dbgen.Queries, bool) {
	if queries == nil {
		log.Ctx(r.Context()).Error().Msg("Ranking queries not initialized")
		apiutil.WriteError(w, r, errors.New("ranking queries not initialized"))
		return nil, false
	}
	return queries, true
}
