// internal/api/courts/handlers.go
package courts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gosimple/slug"
	"github.com/rs/zerolog/log"

	"github.com/codr1/Rankeate/internal/api/apiutil"
	"github.com/codr1/Rankeate/internal/apperr"
	"github.com/codr1/Rankeate/internal/availability"
	"github.com/codr1/Rankeate/internal/db"
	dbgen "github.com/codr1/Rankeate/internal/db/generated"
)

const (
	courtsQueryTimeout = 5 * time.Second

	defaultSlotMinutes = 60
	minSlotMinutes     = 30
	maxSlotMinutes     = 180
	defaultBlockType   = "maintenance"
)

var (
	queries     *dbgen.Queries
	queriesOnce sync.Once

	// now is swapped in tests.
	now = time.Now
)

var blockTypes = map[string]bool{
	"maintenance": true,
	"tournament":  true,
	"private":     true,
}

type clubRequest struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Timezone string `json:"timezone"`
}

type courtRequest struct {
	ClubID   int64  `json:"clubId"`
	Name     string `json:"name"`
	Surface  string `json:"surface"`
	IsIndoor bool   `json:"isIndoor"`
	IsActive *bool  `json:"isActive"`
}

type scheduleRequest struct {
	DayOfWeek   *int64 `json:"dayOfWeek"`
	OpenTime    string `json:"openTime"`
	CloseTime   string `json:"closeTime"`
	SlotMinutes int64  `json:"slotMinutes"`
	PriceCents  int64  `json:"priceCents"`
}

type blockRequest struct {
	BlockType string    `json:"blockType"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Reason    string    `json:"reason"`
}

type availabilityResponse struct {
	CourtID int64               `json:"courtId"`
	Date    string              `json:"date"`
	Slots   []availability.Slot `json:"slots"`
}

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(q *dbgen.Queries) {
	if q == nil {
		return
	}
	queriesOnce.Do(func() {
		queries = q
	})
}

// POST /api/v1/clubs
func HandleCreateClub(w http.ResponseWriter, r *http.Request) {
	q, ok := requireQueries(w, r)
	if !ok {
		return
	}

	var req clubRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteBadRequest(w, r, err)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "name", Reason: "is required"})
		return
	}
	clubSlug := slug.Make(req.Slug)
	if clubSlug == "" {
		clubSlug = slug.Make(name)
	}
	if !slug.IsSlug(clubSlug) {
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "slug", Reason: "must contain letters or digits"})
		return
	}
	timezone := strings.TrimSpace(req.Timezone)
	if timezone != "" {
		if _, err := time.LoadLocation(timezone); err != nil {
			apiutil.WriteError(w, r, apiutil.FieldError{Field: "timezone", Reason: "is not a known IANA timezone"})
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), courtsQueryTimeout)
	defer cancel()

	club, err := q.CreateClub(ctx, dbgen.CreateClubParams{Name: name, Slug: clubSlug, Timezone: timezone})
	if err != nil {
		if db.IsConstraintError(err) {
			apiutil.WriteError(w, r, apperr.Conflict("SLUG_TAKEN", fmt.Sprintf("club slug %q is already in use", clubSlug)))
			return
		}
		apiutil.WriteError(w, r, fmt.Errorf("create club: %w", err))
		return
	}
	log.Ctx(r.Context()).Info().Int64("club_id", club.ID).Str("slug", club.Slug).Msg("Club created")
	apiutil.Respond(w, r, http.StatusCreated, club)
}

// POST /api/v1/courts
func HandleCreateCourt(w http.ResponseWriter, r *http.Request) {
	q, ok := requireQueries(w, r)
	if !ok {
		return
	}

	var req courtRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteBadRequest(w, r, err)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "name", Reason: "is required"})
		return
	}
	if req.ClubID <= 0 {
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "clubId", Reason: "must be greater than 0"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), courtsQueryTimeout)
	defer cancel()

	if _, err := q.GetClub(ctx, req.ClubID); err != nil {
		apiutil.WriteError(w, r, notFound(err, "club not found"))
		return
	}
	court, err := q.CreateCourt(ctx, dbgen.CreateCourtParams{
		ClubID:   req.ClubID,
		Name:     name,
		Surface:  strings.TrimSpace(req.Surface),
		IsIndoor: req.IsIndoor,
	})
	if err != nil {
		apiutil.WriteError(w, r, fmt.Errorf("create court: %w", err))
		return
	}
	log.Ctx(r.Context()).Info().Int64("court_id", court.ID).Int64("club_id", court.ClubID).Msg("Court created")
	apiutil.Respond(w, r, http.StatusCreated, court)
}

// PUT /api/v1/courts/{id}
func HandleUpdateCourt(w http.ResponseWriter, r *http.Request) {
	q, ok := requireQueries(w, r)
	if !ok {
		return
	}
	courtID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteBadRequest(w, r, err)
		return
	}

	var req courtRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteBadRequest(w, r, err)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "name", Reason: "is required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), courtsQueryTimeout)
	defer cancel()

	current, err := q.GetCourt(ctx, courtID)
	if err != nil {
		apiutil.WriteError(w, r, notFound(err, "court not found"))
		return
	}
	isActive := current.IsActive
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	court, err := q.UpdateCourt(ctx, dbgen.UpdateCourtParams{
		Name:     name,
		Surface:  strings.TrimSpace(req.Surface),
		IsIndoor: req.IsIndoor,
		IsActive: isActive,
		ID:       courtID,
	})
	if err != nil {
		apiutil.WriteError(w, r, fmt.Errorf("update court: %w", err))
		return
	}
	apiutil.Respond(w, r, http.StatusOK, court)
}

// DELETE /api/v1/courts/{id}
//
// Courts are deactivated rather than deleted so their bookings keep a valid
// reference.
func HandleDeactivateCourt(w http.ResponseWriter, r *http.Request) {
	q, ok := requireQueries(w, r)
	if !ok {
		return
	}
	courtID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteBadRequest(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), courtsQueryTimeout)
	defer cancel()

	if _, err := q.GetCourt(ctx, courtID); err != nil {
		apiutil.WriteError(w, r, notFound(err, "court not found"))
		return
	}
	if _, err := q.DeactivateCourt(ctx, courtID); err != nil {
		apiutil.WriteError(w, r, fmt.Errorf("deactivate court: %w", err))
		return
	}
	log.Ctx(r.Context()).Info().Int64("court_id", courtID).Msg("Court deactivated")
	w.WriteHeader(http.StatusNoContent)
}

// PUT /api/v1/courts/{id}/schedule
func HandleUpsertSchedule(w http.ResponseWriter, r *http.Request) {
	q, ok := requireQueries(w, r)
	if !ok {
		return
	}
	courtID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteBadRequest(w, r, err)
		return
	}

	var req scheduleRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteBadRequest(w, r, err)
		return
	}
	params, err := scheduleParams(courtID, req)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), courtsQueryTimeout)
	defer cancel()

	if _, err := q.GetCourt(ctx, courtID); err != nil {
		apiutil.WriteError(w, r, notFound(err, "court not found"))
		return
	}
	schedule, err := q.UpsertCourtSchedule(ctx, params)
	if err != nil {
		apiutil.WriteError(w, r, fmt.Errorf("upsert schedule: %w", err))
		return
	}
	apiutil.Respond(w, r, http.StatusOK, schedule)
}

func scheduleParams(courtID int64, req scheduleRequest) (dbgen.UpsertCourtScheduleParams, error) {
	if req.DayOfWeek == nil || *req.DayOfWeek < 0 || *req.DayOfWeek > 6 {
		return dbgen.UpsertCourtScheduleParams{}, apiutil.FieldError{Field: "dayOfWeek", Reason: "must be between 0 (Sunday) and 6"}
	}
	open, err := availability.ParseClock(req.OpenTime)
	if err != nil {
		return dbgen.UpsertCourtScheduleParams{}, apiutil.FieldError{Field: "openTime", Reason: "must be HH:MM"}
	}
	closeAt, err := availability.ParseClock(req.CloseTime)
	if err != nil {
		return dbgen.UpsertCourtScheduleParams{}, apiutil.FieldError{Field: "closeTime", Reason: "must be HH:MM"}
	}
	if closeAt <= open {
		return dbgen.UpsertCourtScheduleParams{}, apiutil.FieldError{Field: "closeTime", Reason: "must be after openTime"}
	}
	slotMinutes := req.SlotMinutes
	if slotMinutes == 0 {
		slotMinutes = defaultSlotMinutes
	}
	if slotMinutes < minSlotMinutes || slotMinutes > maxSlotMinutes {
		return dbgen.UpsertCourtScheduleParams{}, apiutil.FieldError{Field: "slotMinutes", Reason: fmt.Sprintf("must be between %d and %d", minSlotMinutes, maxSlotMinutes)}
	}
	if req.PriceCents < 0 {
		return dbgen.UpsertCourtScheduleParams{}, apiutil.FieldError{Field: "priceCents", Reason: "must be 0 or greater"}
	}
	return dbgen.UpsertCourtScheduleParams{
		CourtID:     courtID,
		DayOfWeek:   *req.DayOfWeek,
		OpenTime:    open.String(),
		CloseTime:   closeAt.String(),
		SlotMinutes: slotMinutes,
		PriceCents:  req.PriceCents,
	}, nil
}

// POST /api/v1/courts/{id}/blocks
func HandleCreateBlock(w http.ResponseWriter, r *http.Request) {
	q, ok := requireQueries(w, r)
	if !ok {
		return
	}
	courtID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteBadRequest(w, r, err)
		return
	}

	var req blockRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteBadRequest(w, r, err)
		return
	}
	blockType := strings.TrimSpace(req.BlockType)
	if blockType == "" {
		blockType = defaultBlockType
	}
	if !blockTypes[blockType] {
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "blockType", Reason: "must be maintenance, tournament or private"})
		return
	}
	if req.StartTime.IsZero() || !req.EndTime.After(req.StartTime) {
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "endTime", Reason: "must be after startTime"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), courtsQueryTimeout)
	defer cancel()

	if _, err := q.GetCourt(ctx, courtID); err != nil {
		apiutil.WriteError(w, r, notFound(err, "court not found"))
		return
	}
	block, err := q.CreateCourtBlock(ctx, dbgen.CreateCourtBlockParams{
		CourtID:   courtID,
		BlockType: blockType,
		StartTime: req.StartTime.UTC(),
		EndTime:   req.EndTime.UTC(),
		Reason:    apiutil.ToNullString(req.Reason),
	})
	if err != nil {
		apiutil.WriteError(w, r, fmt.Errorf("create block: %w", err))
		return
	}
	log.Ctx(r.Context()).Info().Int64("court_id", courtID).Int64("block_id", block.ID).Msg("Court block created")
	apiutil.Respond(w, r, http.StatusCreated, block)
}

// DELETE /api/v1/blocks/{id}
func HandleDeleteBlock(w http.ResponseWriter, r *http.Request) {
	q, ok := requireQueries(w, r)
	if !ok {
		return
	}
	blockID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteBadRequest(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), courtsQueryTimeout)
	defer cancel()

	n, err := q.DeleteCourtBlock(ctx, blockID)
	if err != nil {
		apiutil.WriteError(w, r, fmt.Errorf("delete block: %w", err))
		return
	}
	if n == 0 {
		apiutil.WriteError(w, r, apperr.NotFound("block not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/courts/{id}/availability?date=YYYY-MM-DD
func HandleAvailability(w http.ResponseWriter, r *http.Request) {
	q, ok := requireQueries(w, r)
	if !ok {
		return
	}
	courtID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteBadRequest(w, r, err)
		return
	}
	date, err := apiutil.ParseDate(r.URL.Query().Get("date"), "date")
	if err != nil {
		apiutil.WriteBadRequest(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), courtsQueryTimeout)
	defer cancel()

	slots, err := availability.GetAvailableSlots(ctx, q, courtID, date, now())
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	apiutil.Respond(w, r, http.StatusOK, availabilityResponse{
		CourtID: courtID,
		Date:    date.Format("2006-01-02"),
		Slots:   slots,
	})
}

func notFound(err error, message string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound(message)
	}
	return err
}

func requireQueries(w http.ResponseWriter, r *http.Request) (*dbgen.Queries, bool) {
	q := loadQueries()
	if q == nil {
		log.Ctx(r.Context()).Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, r, errors.New("database queries not initialized"))
		return nil, false
	}
	return q, true
}

func loadQueries() *dbgen.Queries {
	return queries
}
