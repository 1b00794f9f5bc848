package courts

// NOTE: Tests cannot use t.Parallel() due to shared package state.

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codr1/Rankeate/internal/api/apiutil"
	"github.com/codr1/Rankeate/internal/availability"
	"github.com/codr1/Rankeate/internal/db"
	dbgen "github.com/codr1/Rankeate/internal/db/generated"
	"github.com/codr1/Rankeate/internal/testutil"
)

var fixedNow = time.Date(2030, time.February, 1, 8, 0, 0, 0, time.UTC)

func setupCourtsTest(t *testing.T) *db.DB {
	t.Helper()

	database := testutil.NewTestDB(t)

	queries = nil
	queriesOnce = sync.Once{}
	InitHandlers(database.Queries)
	now = func() time.Time { return fixedNow }

	t.Cleanup(func() {
		queries = nil
		queriesOnce = sync.Once{}
		now = time.Now
	})

	return database
}

func serve(method, pattern, target, body string, handler http.HandlerFunc) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc(method+" "+pattern, handler)
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	mux.ServeHTTP(recorder, req)
	return recorder
}

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) apiutil.ErrorResponse {
	t.Helper()
	var body apiutil.ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func TestHandleCreateClubSlug(t *testing.T) {
	setupCourtsTest(t)

	recorder := serve(http.MethodPost, "/api/v1/clubs", "/api/v1/clubs", `{"name":"Club Atlético Padel Norte"}`, HandleCreateClub)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var club dbgen.Club
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &club))
	assert.Equal(t, "club-atletico-padel-norte", club.Slug)

	recorder = serve(http.MethodPost, "/api/v1/clubs", "/api/v1/clubs", `{"name":"Other","slug":"Club Atletico Padel Norte"}`, HandleCreateClub)
	assert.Equal(t, http.StatusConflict, recorder.Code)
	assert.Equal(t, "SLUG_TAKEN", decodeError(t, recorder).Code)

	recorder = serve(http.MethodPost, "/api/v1/clubs", "/api/v1/clubs", `{"name":"Bad TZ","timezone":"Mars/Olympus"}`, HandleCreateClub)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = serve(http.MethodPost, "/api/v1/clubs", "/api/v1/clubs", `{"name":"x","unknown":1}`, HandleCreateClub)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHandleCourtLifecycle(t *testing.T) {
	database := setupCourtsTest(t)
	club := testutil.SeedClub(t, database, "")

	recorder := serve(http.MethodPost, "/api/v1/courts", "/api/v1/courts",
		fmt.Sprintf(`{"clubId":%d,"name":"Cancha 1","surface":"glass","isIndoor":true}`, club.ID), HandleCreateCourt)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	var court dbgen.Court
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &court))
	assert.True(t, court.IsActive)
	assert.True(t, court.IsIndoor)

	recorder = serve(http.MethodPut, "/api/v1/courts/{id}", fmt.Sprintf("/api/v1/courts/%d", court.ID),
		`{"name":"Cancha Central","surface":"cement"}`, HandleUpdateCourt)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &court))
	assert.Equal(t, "Cancha Central", court.Name)
	assert.True(t, court.IsActive)

	recorder = serve(http.MethodDelete, "/api/v1/courts/{id}", fmt.Sprintf("/api/v1/courts/%d", court.ID), "", HandleDeactivateCourt)
	require.Equal(t, http.StatusNoContent, recorder.Code)

	stored, err := database.Queries.GetCourt(t.Context(), court.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)

	recorder = serve(http.MethodPost, "/api/v1/courts", "/api/v1/courts", `{"clubId":9999,"name":"Ghost"}`, HandleCreateCourt)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestHandleUpsertScheduleValidation(t *testing.T) {
	database := setupCourtsTest(t)
	court := testutil.SeedCourt(t, database, testutil.SeedClub(t, database, "").ID)
	target := fmt.Sprintf("/api/v1/courts/%d/schedule", court.ID)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"valid default slot", `{"dayOfWeek":1,"openTime":"09:00","closeTime":"13:00","priceCents":2000}`, http.StatusOK},
		{"close before open", `{"dayOfWeek":1,"openTime":"13:00","closeTime":"09:00"}`, http.StatusBadRequest},
		{"slot too short", `{"dayOfWeek":1,"openTime":"09:00","closeTime":"13:00","slotMinutes":15}`, http.StatusBadRequest},
		{"slot too long", `{"dayOfWeek":1,"openTime":"09:00","closeTime":"13:00","slotMinutes":240}`, http.StatusBadRequest},
		{"bad day", `{"dayOfWeek":7,"openTime":"09:00","closeTime":"13:00"}`, http.StatusBadRequest},
		{"missing day", `{"openTime":"09:00","closeTime":"13:00"}`, http.StatusBadRequest},
		{"negative price", `{"dayOfWeek":2,"openTime":"09:00","closeTime":"13:00","priceCents":-1}`, http.StatusBadRequest},
		{"bad clock", `{"dayOfWeek":2,"openTime":"9am","closeTime":"13:00"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := serve(http.MethodPut, "/api/v1/courts/{id}/schedule", target, tt.body, HandleUpsertSchedule)
			assert.Equal(t, tt.status, recorder.Code, recorder.Body.String())
		})
	}

	schedule, err := database.Queries.GetCourtSchedule(t.Context(), dbgen.GetCourtScheduleParams{CourtID: court.ID, DayOfWeek: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(defaultSlotMinutes), schedule.SlotMinutes)
	assert.Equal(t, "09:00", schedule.OpenTime)
}

func TestHandleAvailabilityWithBlock(t *testing.T) {
	database := setupCourtsTest(t)
	availability.SetDefaultLocation(time.UTC)
	court := testutil.SeedCourt(t, database, testutil.SeedClub(t, database, "").ID)

	// 2030-02-04 is a Monday.
	testutil.SeedSchedule(t, database, court.ID, time.Monday, "09:00", "12:00", 60, 1500)

	blockBody := `{"startTime":"2030-02-04T10:00:00Z","endTime":"2030-02-04T11:00:00Z","reason":"resurfacing"}`
	recorder := serve(http.MethodPost, "/api/v1/courts/{id}/blocks", fmt.Sprintf("/api/v1/courts/%d/blocks", court.ID), blockBody, HandleCreateBlock)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	var block dbgen.CourtBlock
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &block))
	assert.Equal(t, defaultBlockType, block.BlockType)

	recorder = serve(http.MethodGet, "/api/v1/courts/{id}/availability", fmt.Sprintf("/api/v1/courts/%d/availability?date=2030-02-04", court.ID), "", HandleAvailability)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	var got availabilityResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Len(t, got.Slots, 3)
	assert.True(t, got.Slots[0].Available)
	assert.False(t, got.Slots[1].Available)
	assert.True(t, got.Slots[2].Available)
	assert.Equal(t, int64(1500), got.Slots[0].PriceCents)

	recorder = serve(http.MethodDelete, "/api/v1/blocks/{id}", fmt.Sprintf("/api/v1/blocks/%d", block.ID), "", HandleDeleteBlock)
	require.Equal(t, http.StatusNoContent, recorder.Code)
	recorder = serve(http.MethodDelete, "/api/v1/blocks/{id}", fmt.Sprintf("/api/v1/blocks/%d", block.ID), "", HandleDeleteBlock)
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = serve(http.MethodGet, "/api/v1/courts/{id}/availability", fmt.Sprintf("/api/v1/courts/%d/availability?date=04-02-2030", court.ID), "", HandleAvailability)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = serve(http.MethodGet, "/api/v1/courts/{id}/availability", "/api/v1/courts/99999/availability?date=2030-02-04", "", HandleAvailability)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
