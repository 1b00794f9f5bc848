package corrections

// NOTE: Tests cannot use t.Parallel() due to shared package state.

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codr1/Rankeate/internal/api/apiutil"
	"github.com/codr1/Rankeate/internal/corrections"
	"github.com/codr1/Rankeate/internal/db"
	dbgen "github.com/codr1/Rankeate/internal/db/generated"
	"github.com/codr1/Rankeate/internal/testutil"
)

func setupCorrectionsTest(t *testing.T) *db.DB {
	t.Helper()

	database := testutil.NewTestDB(t)
	svc, err := corrections.NewService(database)
	require.NoError(t, err)

	service = nil
	serviceOnce = sync.Once{}
	InitHandlers(svc)
	t.Cleanup(func() {
		service = nil
		serviceOnce = sync.Once{}
	})
	return database
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

func TestHandleSubmitAndResolve(t *testing.T) {
	database := setupCorrectionsTest(t)
	player := testutil.SeedPlayer(t, database, 6, "")

	recorder := do(http.MethodPost, "/api/v1/corrections", "/api/v1/corrections",
		`{"message":"my semifinal points from March are missing"}`, player.ID, HandleSubmit)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	var created dbgen.CorrectionRequest
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))
	assert.Equal(t, player.ID, created.PlayerID)
	assert.Equal(t, corrections.StatusPending, created.Status)

	target := fmt.Sprintf("/api/v1/corrections/%d/resolve", created.ID)
	pattern := "/api/v1/corrections/{id}/resolve"

	recorder = do(http.MethodPost, pattern, target, `{"status":"pending"}`, 1, HandleResolve)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = do(http.MethodPost, pattern, target, `{"status":"resolved","response":"points restored"}`, 1, HandleResolve)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	var closed dbgen.CorrectionRequest
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &closed))
	assert.Equal(t, corrections.StatusResolved, closed.Status)
	assert.Equal(t, "points restored", closed.Response.String)

	recorder = do(http.MethodPost, pattern, target, `{"status":"rejected"}`, 1, HandleResolve)
	assert.Equal(t, http.StatusConflict, recorder.Code)

	recorder = do(http.MethodPost, pattern, "/api/v1/corrections/55555/resolve", `{"status":"rejected"}`, 1, HandleResolve)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestHandleSubmitValidation(t *testing.T) {
	database := setupCorrectionsTest(t)
	player := testutil.SeedPlayer(t, database, 6, "")

	tests := []struct {
		name    string
		body    string
		actorID int64
		status  int
	}{
		{"no player", `{"message":"points are missing from last month"}`, 0, http.StatusBadRequest},
		{"short message", fmt.Sprintf(`{"playerId":%d,"message":"wrong"}`, player.ID), 0, http.StatusBadRequest},
		{"unknown player", `{"playerId":424242,"message":"points are missing from last month"}`, 0, http.StatusNotFound},
		{"unknown club", fmt.Sprintf(`{"playerId":%d,"clubId":9999,"message":"points are missing from last month"}`, player.ID), 0, http.StatusNotFound},
		{"explicit player", fmt.Sprintf(`{"playerId":%d,"message":"points are missing from last month"}`, player.ID), 0, http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := do(http.MethodPost, "/api/v1/corrections", "/api/v1/corrections", tt.body, tt.actorID, HandleSubmit)
			assert.Equal(t, tt.status, recorder.Code, recorder.Body.String())
		})
	}
}

func TestHandleListCorrections(t *testing.T) {
	database := setupCorrectionsTest(t)
	player := testutil.SeedPlayer(t, database, 6, "")
	club := testutil.SeedClub(t, database, "")

	recorder := do(http.MethodPost, "/api/v1/corrections", "/api/v1/corrections",
		fmt.Sprintf(`{"clubId":%d,"message":"quarterfinal points were not added"}`, club.ID), player.ID, HandleSubmit)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	var forClub dbgen.CorrectionRequest
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &forClub))

	recorder = do(http.MethodPost, "/api/v1/corrections", "/api/v1/corrections",
		`{"message":"my category is two tiers too low"}`, player.ID, HandleSubmit)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	var noClub dbgen.CorrectionRequest
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &noClub))

	recorder = do(http.MethodGet, "/api/v1/admin/corrections", "/api/v1/admin/corrections", "", 1, HandleListEscalated)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	var escalated []dbgen.CorrectionRequest
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &escalated))
	require.Len(t, escalated, 1)
	assert.Equal(t, noClub.ID, escalated[0].ID)

	pattern := "/api/v1/clubs/{id}/corrections"
	recorder = do(http.MethodGet, pattern, fmt.Sprintf("/api/v1/clubs/%d/corrections", club.ID), "", 1, HandleListForClub)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	var clubList []dbgen.CorrectionRequest
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &clubList))
	require.Len(t, clubList, 1)
	assert.Equal(t, forClub.ID, clubList[0].ID)

	recorder = do(http.MethodGet, pattern, "/api/v1/clubs/55555/corrections", "", 1, HandleListForClub)
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = do(http.MethodGet, pattern, "/api/v1/clubs/abc/corrections", "", 1, HandleListForClub)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
