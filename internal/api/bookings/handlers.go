// internal/api/bookings/handlers.go
package bookings

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Rankeate/internal/api/apiutil"
	"github.com/codr1/Rankeate/internal/apperr"
	"github.com/codr1/Rankeate/internal/booking"
)

const bookingsRequestTimeout = 10 * time.Second

var (
	allocator     *booking.Allocator
	allocatorOnce sync.Once
)

type createBookingRequest struct {
	CourtID   int64     `json:"courtId"`
	ClubID    int64     `json:"clubId"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

type cancelBookingRequest struct {
	Note string `json:"note"`
}

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(a *booking.Allocator) {
	if a == nil {
		return
	}
	allocatorOnce.Do(func() {
		allocator = a
	})
}

// POST /api/v1/bookings
func HandleCreateBooking(w http.ResponseWriter, r *http.Request) {
	a, ok := requireAllocator(w, r)
	if !ok {
		return
	}
	actorID := apiutil.ActorIDFromContext(r.Context())
	if actorID == 0 {
		apiutil.WriteError(w, r, apperr.Invalid("X-Actor-ID header is required"))
		return
	}

	var req createBookingRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteBadRequest(w, r, err)
		return
	}
	if req.CourtID <= 0 {
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "courtId", Reason: "must be greater than 0"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), bookingsRequestTimeout)
	defer cancel()

	// The price comes from the court's schedule, never from the caller.
	price, err := a.Quote(ctx, req.CourtID, req.StartTime, req.EndTime)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	created, err := a.CreateBooking(ctx, booking.CreateParams{
		CourtID:    req.CourtID,
		ClubID:     req.ClubID,
		CreatedBy:  actorID,
		Start:      req.StartTime,
		End:        req.EndTime,
		PriceCents: price,
	})
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusCreated, created)
}

// POST /api/v1/bookings/{id}/confirm
func HandleConfirmBooking(w http.ResponseWriter, r *http.Request) {
	a, ok := requireAllocator(w, r)
	if !ok {
		return
	}
	bookingID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteBadRequest(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), bookingsRequestTimeout)
	defer cancel()

	updated, err := a.ConfirmBooking(ctx, bookingID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, updated)
}

// POST /api/v1/bookings/{id}/cancel
func HandleCancelBooking(w http.ResponseWriter, r *http.Request) {
	a, ok := requireAllocator(w, r)
	if !ok {
		return
	}
	bookingID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteBadRequest(w, r, err)
		return
	}

	var req cancelBookingRequest
	if r.ContentLength != 0 {
		if err := apiutil.DecodeJSON(r, &req); err != nil {
			apiutil.WriteBadRequest(w, r, err)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), bookingsRequestTimeout)
	defer cancel()

	updated, err := a.CancelBooking(ctx, bookingID, apiutil.ActorIDFromContext(r.Context()), req.Note)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, updated)
}

// POST /api/v1/bookings/{id}/no-show
func HandleNoShow(w http.ResponseWriter, r *http.Request) {
	a, ok := requireAllocator(w, r)
	if !ok {
		return
	}
	bookingID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteBadRequest(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), bookingsRequestTimeout)
	defer cancel()

	updated, err := a.MarkNoShow(ctx, bookingID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, updated)
}

// GET /api/v1/bookings/mine
func HandleListMine(w http.ResponseWriter, r *http.Request) {
	a, ok := requireAllocator(w, r)
	if !ok {
		return
	}
	actorID := apiutil.ActorIDFromContext(r.Context())
	if actorID == 0 {
		apiutil.WriteError(w, r, apperr.Invalid("X-Actor-ID header is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), bookingsRequestTimeout)
	defer cancel()

	bookings, err := a.ListMine(ctx, actorID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, bookings)
}

// GET /api/v1/clubs/{id}/bookings?date=YYYY-MM-DD&court_id=
func HandleListClubBookings(w http.ResponseWriter, r *http.Request) {
	a, ok := requireAllocator(w, r)
	if !ok {
		return
	}
	clubID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteBadRequest(w, r, err)
		return
	}
	courtID, err := apiutil.OptionalQueryInt(r, "court_id")
	if err != nil {
		apiutil.WriteBadRequest(w, r, err)
		return
	}
	var date time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		if date, err = apiutil.ParseDate(raw, "date"); err != nil {
			apiutil.WriteBadRequest(w, r, err)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), bookingsRequestTimeout)
	defer cancel()

	bookings, err := a.ListForClub(ctx, clubID, booking.ClubFilter{CourtID: courtID, Date: date})
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, bookings)
}

func requireAllocator(w http.ResponseWriter, r *http.Request) (*booking.Allocator, bool) {
	if allocator == nil {
		log.Ctx(r.Context()).Error().Msg("Booking allocator not initialized")
		apiutil.WriteError(w, r, errors.New("booking allocator not initialized"))
		return nil, false
	}
	return allocator, true
}
