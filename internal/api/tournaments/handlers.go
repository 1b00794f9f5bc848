// internal/api/tournaments/handlers.go
package tournaments

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Rankeate/internal/api/apiutil"
	"github.com/codr1/Rankeate/internal/apperr"
	"github.com/codr1/Rankeate/internal/points"
	"github.com/codr1/Rankeate/internal/tournaments"
)

// Confirmation writes the ledger and evaluates promotions for the whole batch.
const tournamentsRequestTimeout = 30 * time.Second

var (
	service  *tournaments.Service
	ledger   *points.Ledger
	initOnce sync.Once
)

type createTournamentRequest struct {
	ClubID int64  `json:"clubId"`
	Name   string `json:"name"`
	Level  string `json:"level"`
}

type submitResultsRequest struct {
	CategoryID int64               `json:"categoryId"`
	Entries    []tournaments.Entry `json:"entries"`
}

type confirmResultsRequest struct {
	CategoryID int64 `json:"categoryId"`
}

type voidMovementRequest struct {
	Reason string `json:"reason"`
}

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(s *tournaments.Service, l *points.Ledger) {
	if s == nil || l == nil {
		return
	}
	initOnce.Do(func() {
		service = s
		ledger = l
	})
}

// POST /api/v1/tournaments
func HandleCreateTournament(w http.ResponseWriter, r *http.Request) {
	if !initialized(w, r) {
		return
	}
	var req createTournamentRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteBadRequest(w, r, err)
		return
	}
	if req.ClubID <= 0 {
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "clubId", Reason: "must be greater than 0"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), tournamentsRequestTimeout)
	defer cancel()

	tournament, err := service.CreateTournament(ctx, req.ClubID, req.Name, req.Level)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusCreated, tournament)
}

// POST /api/v1/tournaments/{id}/results
func HandleSubmitResults(w http.ResponseWriter, r *http.Request) {
	if !initialized(w, r) {
		return
	}
	tournamentID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteBadRequest(w, r, err)
		return
	}
	var req submitResultsRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteBadRequest(w, r, err)
		return
	}
	if req.CategoryID <= 0 {
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "categoryId", Reason: "must be greater than 0"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), tournamentsRequestTimeout)
	defer cancel()

	result, err := service.SubmitResults(ctx, tournamentID, req.CategoryID, req.Entries)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, result)
}

// POST /api/v1/tournaments/{id}/results/confirm
func HandleConfirmResults(w http.ResponseWriter, r *http.Request) {
	if !initialized(w, r) {
		return
	}
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}
	tournamentID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteBadRequest(w, r, err)
		return
	}
	var req confirmResultsRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteBadRequest(w, r, err)
		return
	}
	if req.CategoryID <= 0 {
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "categoryId", Reason: "must be greater than 0"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), tournamentsRequestTimeout)
	defer cancel()

	confirmation, err := service.ConfirmResults(ctx, tournamentID, req.CategoryID, actorID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, confirmation)
}

// POST /api/v1/admin/point-movements/{id}/void
func HandleVoidMovement(w http.ResponseWriter, r *http.Request) {
	if !initialized(w, r) {
		return
	}
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}
	movementID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteBadRequest(w, r, err)
		return
	}
	var req voidMovementRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteBadRequest(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), tournamentsRequestTimeout)
	defer cancel()

	movement, err := ledger.Void(ctx, movementID, req.Reason, actorID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, movement)
}

func initialized(w http.ResponseWriter, r *http.Request) bool {
	if service == nil || ledger == nil {
		log.Ctx(r.Context()).Error().Msg("Tournament handlers not initialized")
		apiutil.WriteError(w, r, errors.New("tournament handlers not initialized"))
		return false
	}
	return true
}

func requireActor(w http.ResponseWriter, r *http.Request) (int64, bool) {
	actorID := apiutil.ActorIDFromContext(r.Context())
	if actorID == 0 {
		apiutil.WriteError(w, r, apperr.Invalid("X-Actor-ID header is required"))
		return 0, false
	}
	return actorID, true
}
