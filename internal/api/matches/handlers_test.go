package matches

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
	"github.com/codr1/Rankeate/internal/db"
	dbgen "github.com/codr1/Rankeate/internal/db/generated"
	"github.com/codr1/Rankeate/internal/matches"
	"github.com/codr1/Rankeate/internal/testutil"
)

var fixedNow = time.Date(2030, time.May, 3, 18, 0, 0, 0, time.UTC)

func setupMatchesTest(t *testing.T) (*db.DB, dbgen.Court) {
	t.Helper()

	database := testutil.NewTestDB(t)
	svc, err := matches.NewService(database, 5*time.Minute, matches.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)

	service = nil
	serviceOnce = sync.Once{}
	InitHandlers(svc)
	t.Cleanup(func() {
		service = nil
		serviceOnce = sync.Once{}
	})

	return database, testutil.SeedCourt(t, database, testutil.SeedClub(t, database, "").ID)
}

func do(method, pattern, target, body string, actorID int64, handler http.HandlerFunc) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc(method+" "+pattern, handler)
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if actorID != 0 {
		req = req.WithContext(apiutil.ContextWithActor(req.Context(), actorID))
	}
	recorder := httptest.NewRecorder()
	mux.ServeHTTP(recorder, req)
	return recorder
}

func TestHandleMatchFlow(t *testing.T) {
	database, court := setupMatchesTest(t)
	creator := testutil.SeedPlayer(t, database, 6, "")
	joiner := testutil.SeedPlayer(t, database, 6, "")
	start := fixedNow.Add(24 * time.Hour)
	booking := testutil.SeedPricedBooking(t, database, court, start, start.Add(time.Hour), "confirmed", time.Time{}, 2000)

	body := fmt.Sprintf(`{"bookingId":%d,"isPublic":true,"maxPlayers":2}`, booking.ID)
	recorder := do(http.MethodPost, "/api/v1/matches", "/api/v1/matches", body, creator.ID, HandleCreateMatch)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	var details matches.Details
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &details))
	assert.Equal(t, matches.StatusOpen, details.Match.Status)
	require.Len(t, details.Participants, 1)

	joinPath := fmt.Sprintf("/api/v1/matches/%d/join", details.Match.ID)
	recorder = do(http.MethodPost, "/api/v1/matches/{id}/join", joinPath, "", joiner.ID, HandleJoinMatch)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	var seat dbgen.MatchParticipant
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &seat))
	assert.Equal(t, matches.ParticipantPendingPayment, seat.Status)
	assert.Equal(t, int64(1000), seat.SplitCents)

	recorder = do(http.MethodPost, "/api/v1/matches/{id}/join", joinPath, "", testutil.SeedPlayer(t, database, 6, "").ID, HandleJoinMatch)
	assert.Equal(t, http.StatusConflict, recorder.Code)
	var errBody apiutil.ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &errBody))
	assert.Equal(t, "MATCH_FULL", errBody.Code)

	confirmPath := fmt.Sprintf("/api/v1/matches/participants/%d/confirm", seat.ID)
	recorder = do(http.MethodPost, "/api/v1/matches/participants/{id}/confirm", confirmPath, "", joiner.ID, HandleConfirmPayment)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &seat))
	assert.Equal(t, matches.ParticipantConfirmed, seat.Status)

	match, err := database.Queries.GetMatch(t.Context(), details.Match.ID)
	require.NoError(t, err)
	assert.Equal(t, matches.StatusConfirmed, match.Status)

	recorder = do(http.MethodPost, "/api/v1/matches/participants/{id}/confirm", confirmPath, "", joiner.ID, HandleConfirmPayment)
	assert.Equal(t, http.StatusConflict, recorder.Code)
}

func TestHandleCreateMatchRejectsBadRequests(t *testing.T) {
	database, _ := setupMatchesTest(t)
	creator := testutil.SeedPlayer(t, database, 6, "")

	recorder := do(http.MethodPost, "/api/v1/matches", "/api/v1/matches", `{"bookingId":1}`, 0, HandleCreateMatch)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = do(http.MethodPost, "/api/v1/matches", "/api/v1/matches", `{"isPublic":true}`, creator.ID, HandleCreateMatch)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = do(http.MethodPost, "/api/v1/matches", "/api/v1/matches", `{"bookingId":777}`, creator.ID, HandleCreateMatch)
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = do(http.MethodPost, "/api/v1/matches/{id}/join", "/api/v1/matches/zero/join", "", creator.ID, HandleJoinMatch)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHandleListOpen(t *testing.T) {
	database, court := setupMatchesTest(t)
	creator := testutil.SeedPlayer(t, database, 6, "")
	start := fixedNow.Add(24 * time.Hour)
	booking := testutil.SeedPricedBooking(t, database, court, start, start.Add(time.Hour), "confirmed", time.Time{}, 2000)

	body := fmt.Sprintf(`{"bookingId":%d,"isPublic":true}`, booking.ID)
	recorder := do(http.MethodPost, "/api/v1/matches", "/api/v1/matches", body, creator.ID, HandleCreateMatch)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	recorder = do(http.MethodGet, "/api/v1/matches/open", fmt.Sprintf("/api/v1/matches/open?club_id=%d", court.ClubID), "", 0, HandleListOpen)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	var open []dbgen.ListOpenMatchesRow
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &open))
	require.Len(t, open, 1)
	assert.Equal(t, booking.ID, open[0].BookingID)
	assert.True(t, open[0].StartTime.Equal(start))

	recorder = do(http.MethodGet, "/api/v1/matches/open", "/api/v1/matches/open?club_id=987654", "", 0, HandleListOpen)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `[]`, recorder.Body.String())

	recorder = do(http.MethodGet, "/api/v1/matches/open", "/api/v1/matches/open?category_id=x", "", 0, HandleListOpen)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
