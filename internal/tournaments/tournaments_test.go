package tournaments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codr1/Rankeate/internal/apperr"
	"github.com/codr1/Rankeate/internal/db"
	dbgen "github.com/codr1/Rankeate/internal/db/generated"
	"github.com/codr1/Rankeate/internal/points"
	"github.com/codr1/Rankeate/internal/promotion"
	"github.com/codr1/Rankeate/internal/testutil"
)

var now = time.Date(2030, time.July, 12, 20, 0, 0, 0, time.UTC)

func newService(t *testing.T) (*Service, *db.DB, dbgen.Club) {
	t.Helper()
	database := testutil.NewTestDB(t)
	ledger, err := points.NewLedger(database)
	require.NoError(t, err)
	evaluator, err := promotion.NewEvaluator(database)
	require.NoError(t, err)
	svc, err := NewService(database, ledger, evaluator)
	require.NoError(t, err)
	return svc.WithClock(func() time.Time { return now }), database, testutil.SeedClub(t, database, "")
}

func TestCreateTournamentValidates(t *testing.T) {
	svc, _, club := newService(t)
	ctx := context.Background()

	tournament, err := svc.CreateTournament(ctx, club.ID, " Apertura ", points.LevelRegional500)
	require.NoError(t, err)
	assert.Equal(t, "Apertura", tournament.Name)
	assert.Equal(t, "open", tournament.Status)

	_, err = svc.CreateTournament(ctx, club.ID, "Clausura", "MAJOR")
	assert.True(t, errors.Is(err, apperr.ErrInvalid))

	_, err = svc.CreateTournament(ctx, club.ID, "", points.LevelLocal250)
	assert.True(t, errors.Is(err, apperr.ErrInvalid))

	_, err = svc.CreateTournament(ctx, 777, "Nowhere", points.LevelLocal250)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestSubmitResultsReplacesDraft(t *testing.T) {
	svc, database, club := newService(t)
	ctx := context.Background()
	tournament := testutil.SeedTournament(t, database, club.ID, points.LevelLocal250)
	category := testutil.CategoryBySortOrder(t, database, 8)
	a := testutil.SeedPlayer(t, database, 8, "")
	b := testutil.SeedPlayer(t, database, 8, "")

	first, err := svc.SubmitResults(ctx, tournament.ID, category.ID, []Entry{
		{PlayerID: a.ID, FinishPosition: points.Champion},
		{PlayerID: b.ID, FinishPosition: points.Finalist},
	})
	require.NoError(t, err)
	assert.Equal(t, ResultDraft, first.Result.Status)
	require.Len(t, first.Entries, 2)

	second, err := svc.SubmitResults(ctx, tournament.ID, category.ID, []Entry{
		{PlayerID: b.ID, FinishPosition: points.Champion},
	})
	require.NoError(t, err)
	assert.Equal(t, first.Result.ID, second.Result.ID)

	stored, err := database.Queries.ListTournamentResultEntries(ctx, second.Result.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, b.ID, stored[0].PlayerID)
}

func TestSubmitResultsValidation(t *testing.T) {
	svc, database, club := newService(t)
	ctx := context.Background()
	tournament := testutil.SeedTournament(t, database, club.ID, points.LevelLocal250)
	category := testutil.CategoryBySortOrder(t, database, 8)
	p := testutil.SeedPlayer(t, database, 8, "")

	tests := []struct {
		name         string
		tournamentID int64
		entries      []Entry
		want         error
	}{
		{"no entries", tournament.ID, nil, apperr.ErrInvalid},
		{"bad position", tournament.ID, []Entry{{PlayerID: p.ID, FinishPosition: "WINNER"}}, apperr.ErrInvalid},
		{"duplicate player", tournament.ID, []Entry{{PlayerID: p.ID, FinishPosition: points.Champion}, {PlayerID: p.ID, FinishPosition: points.Finalist}}, apperr.ErrInvalid},
		{"unknown player", tournament.ID, []Entry{{PlayerID: 31337, FinishPosition: points.Champion}}, apperr.ErrNotFound},
		{"unknown tournament", 31337, []Entry{{PlayerID: p.ID, FinishPosition: points.Champion}}, apperr.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SubmitResults(ctx, tt.tournamentID, category.ID, tt.entries)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestConfirmResultsRecordsPointsAndPromotes(t *testing.T) {
	svc, database, club := newService(t)
	ctx := context.Background()
	tournament := testutil.SeedTournament(t, database, club.ID, points.LevelRegional500)
	category := testutil.CategoryBySortOrder(t, database, 8)
	champion := testutil.SeedPlayer(t, database, 8, "")
	runnerUp := testutil.SeedPlayer(t, database, 8, "")
	early := testutil.SeedPlayer(t, database, 8, "")

	_, err := svc.SubmitResults(ctx, tournament.ID, category.ID, []Entry{
		{PlayerID: champion.ID, FinishPosition: points.Champion},
		{PlayerID: runnerUp.ID, FinishPosition: points.Finalist},
		{PlayerID: early.ID, FinishPosition: points.RoundOf16},
	})
	require.NoError(t, err)

	got, err := svc.ConfirmResults(ctx, tournament.ID, category.ID, 99)
	require.NoError(t, err)
	require.Len(t, got.Movements, 3)

	byPlayer := map[int64]int64{}
	for _, m := range got.Movements {
		byPlayer[m.PlayerID] = m.Points
		assert.Equal(t, category.ID, m.CategoryID)
		assert.Equal(t, int64(99), m.CreatedBy)
		assert.True(t, m.CreatedAt.Equal(now))
	}
	assert.Equal(t, int64(500), byPlayer[champion.ID])
	assert.Equal(t, int64(300), byPlayer[runnerUp.ID])
	assert.Equal(t, int64(45), byPlayer[early.ID])

	// 500 and 300 both clear the 8va threshold of 300.
	require.Len(t, got.Promotions, 2)
	assert.Equal(t, champion.ID, got.Promotions[0].PlayerID)
	assert.Equal(t, runnerUp.ID, got.Promotions[1].PlayerID)

	stored, err := database.Queries.GetTournament(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", stored.Status)

	_, err = svc.ConfirmResults(ctx, tournament.ID, category.ID, 99)
	assert.ErrorIs(t, err, ErrAlreadyConfirmed)

	_, err = svc.SubmitResults(ctx, tournament.ID, category.ID, []Entry{{PlayerID: early.ID, FinishPosition: points.Champion}})
	assert.ErrorIs(t, err, ErrAlreadyConfirmed)
}

func TestConfirmResultsRejectsExistingMovements(t *testing.T) {
	svc, database, club := newService(t)
	ctx := context.Background()
	tournament := testutil.SeedTournament(t, database, club.ID, points.LevelLocal250)
	category := testutil.CategoryBySortOrder(t, database, 8)
	p := testutil.SeedPlayer(t, database, 8, "")

	_, err := svc.SubmitResults(ctx, tournament.ID, category.ID, []Entry{{PlayerID: p.ID, FinishPosition: points.Champion}})
	require.NoError(t, err)
	testutil.SeedMovement(t, database, p, tournament.ID, 250, now.Add(-time.Hour))

	_, err = svc.ConfirmResults(ctx, tournament.ID, category.ID, 1)
	assert.ErrorIs(t, err, ErrAlreadyConfirmed)

	// Nothing was committed.
	result, err := database.Queries.GetTournamentResult(ctx, dbgen.GetTournamentResultParams{TournamentID: tournament.ID, CategoryID: category.ID})
	require.NoError(t, err)
	assert.Equal(t, ResultDraft, result.Status)
}

func TestConfirmResultsMissingResult(t *testing.T) {
	svc, database, club := newService(t)
	tournament := testutil.SeedTournament(t, database, club.ID, points.LevelLocal250)

	_, err := svc.ConfirmResults(context.Background(), tournament.ID, testutil.CategoryBySortOrder(t, database, 8).ID, 1)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}
