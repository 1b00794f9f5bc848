// internal/api/matches/handlers.go
package matches

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Rankeate/internal/api/apiutil"
	"github.com/codr1/Rankeate/internal/apperr"
	"github.com/codr1/Rankeate/internal/matches"
)

const matchesRequestTimeout = 10 * time.Second

var (
	service     *matches.Service
	serviceOnce sync.Once
)

type createMatchRequest struct {
	BookingID  int64   `json:"bookingId"`
	IsPublic   bool    `json:"isPublic"`
	MaxPlayers int64   `json:"maxPlayers"`
	Notes      string  `json:"notes"`
	InviteeIDs []int64 `json:"inviteeIds"`
}

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(s *matches.Service) {
	if s == nil {
		return
	}
	serviceOnce.Do(func() {
		service = s
	})
}

// POST /api/v1/matches
func HandleCreateMatch(w http.ResponseWriter, r *http.Request) {
	svc, actorID, ok := requireServiceAndActor(w, r)
	if !ok {
		return
	}

	var req createMatchRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteBadRequest(w, r, err)
		return
	}
	if req.BookingID <= 0 {
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "bookingId", Reason: "must be greater than 0"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), matchesRequestTimeout)
	defer cancel()

	details, err := svc.CreateMatch(ctx, matches.CreateParams{
		BookingID:  req.BookingID,
		CreatorID:  actorID,
		IsPublic:   req.IsPublic,
		MaxPlayers: req.MaxPlayers,
		Notes:      req.Notes,
		InviteeIDs: req.InviteeIDs,
	})
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusCreated, details)
}

// POST /api/v1/matches/{id}/join
func HandleJoinMatch(w http.ResponseWriter, r *http.Request) {
	svc, actorID, ok := requireServiceAndActor(w, r)
	if !ok {
		return
	}
	matchID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteBadRequest(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), matchesRequestTimeout)
	defer cancel()

	seat, err := svc.JoinMatch(ctx, matchID, actorID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusCreated, seat)
}

// POST /api/v1/matches/participants/{id}/confirm
func HandleConfirmPayment(w http.ResponseWriter, r *http.Request) {
	if service == nil {
		writeUninitialized(w, r)
		return
	}
	participantID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteBadRequest(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), matchesRequestTimeout)
	defer cancel()

	seat, err := service.ConfirmParticipantPayment(ctx, participantID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, seat)
}

// GET /api/v1/matches/open?club_id=&category_id=
func HandleListOpen(w http.ResponseWriter, r *http.Request) {
	if service == nil {
		writeUninitialized(w, r)
		return
	}
	clubID, err := apiutil.OptionalQueryInt(r, "club_id")
	if err != nil {
		apiutil.WriteBadRequest(w, r, err)
		return
	}
	categoryID, err := apiutil.OptionalQueryInt(r, "category_id")
	if err != nil {
		apiutil.WriteBadRequest(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), matchesRequestTimeout)
	defer cancel()

	open, err := service.ListOpen(ctx, matches.OpenFilter{ClubID: clubID, CategoryID: categoryID})
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, open)
}

func requireServiceAndActor(w http.ResponseWriter, r *http.Request) (*matches.Service, int64, bool) {
	if service == nil {
		writeUninitialized(w, r)
		return nil, 0, false
	}
	actorID := apiutil.ActorIDFromContext(r.Context())
	if actorID == 0 {
		apiutil.WriteError(w, r, apperr.Invalid("X-Actor-ID header is required"))
		return nil, 0, false
	}
	return service, actorID, true
}

func writeUninitialized(w http.ResponseWriter, r *http.Request) {
	log.Ctx(r.Context()).Error().Msg("Match service not initialized")
	apiutil.WriteError(w, r, errors.New("match service not initialized"))
}
