// internal/api/corrections/handlers.go
package corrections

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Rankeate/internal/api/apiutil"
	"github.com/codr1/Rankeate/internal/corrections"
)

const correctionsRequestTimeout = 10 * time.Second

var (
	service     *corrections.Service
	serviceOnce sync.Once
)

type submitRequest struct {
	PlayerID int64  `json:"playerId"`
	ClubID   int64  `json:"clubId"`
	Message  string `json:"message"`
}

type resolveRequest struct {
	Status   string `json:"status"`
	Response string `json:"response"`
}

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(s *corrections.Service) {
	if s == nil {
		return
	}
	serviceOnce.Do(func() {
		service = s
	})
}

// POST /api/v1/corrections
// The player defaults to the acting user when the body omits it.
func HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if !initialized(w, r) {
		return
	}
	var req submitRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteBadRequest(w, r, err)
		return
	}
	if req.PlayerID == 0 {
		req.PlayerID = apiutil.ActorIDFromContext(r.Context())
	}
	if req.PlayerID <= 0 {
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "playerId", Reason: "is required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), correctionsRequestTimeout)
	defer cancel()

	created, err := service.Submit(ctx, req.PlayerID, req.ClubID, req.Message)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusCreated, created)
}

// POST /api/v1/corrections/{id}/resolve
func HandleResolve(w http.ResponseWriter, r *http.Request) {
	if !initialized(w, r) {
		return
	}
	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteBadRequest(w, r, err)
		return
	}
	var req resolveRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteBadRequest(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), correctionsRequestTimeout)
	defer cancel()

	closed, err := service.Resolve(ctx, id, req.Status, req.Response)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, closed)
}

// GET /api/v1/admin/corrections
func HandleListEscalated(w http.ResponseWriter, r *http.Request) {
	if !initialized(w, r) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), correctionsRequestTimeout)
	defer cancel()

	reqs, err := service.ListEscalated(ctx)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, reqs)
}

// GET /api/v1/clubs/{id}/corrections
func HandleListForClub(w http.ResponseWriter, r *http.Request) {
	if !initialized(w, r) {
		return
	}
	clubID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteBadRequest(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), correctionsRequestTimeout)
	defer cancel()

	reqs, err := service.ListForClub(ctx, clubID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, reqs)
}

func initialized(w http.ResponseWriter, r *http.Request) bool {
	if service == nil {
		log.Ctx(r.Context()).Error().Msg("Corrections service not initialized")
		apiutil.WriteError(w, r, errors.New("corrections service not initialized"))
		return false
	}
	return true
}
