// cmd/server/server.go
package main

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/codr1/Rankeate/internal/api"
	"github.com/codr1/Rankeate/internal/api/bookings"
	"github.com/codr1/Rankeate/internal/api/corrections"
	"github.com/codr1/Rankeate/internal/api/courts"
	"github.com/codr1/Rankeate/internal/api/matches"
	"github.com/codr1/Rankeate/internal/api/rankings"
	"github.com/codr1/Rankeate/internal/api/tournaments"
	"github.com/codr1/Rankeate/internal/booking"
	"github.com/codr1/Rankeate/internal/config"
	correctionsvc "github.com/codr1/Rankeate/internal/corrections"
	"github.com/codr1/Rankeate/internal/db"
	matchsvc "github.com/codr1/Rankeate/internal/matches"
	"github.com/codr1/Rankeate/internal/metrics"
	"github.com/codr1/Rankeate/internal/points"
	"github.com/codr1/Rankeate/internal/promotion"
	"github.com/codr1/Rankeate/internal/ratelimit"
	tournamentsvc "github.com/codr1/Rankeate/internal/tournaments"
)

func newServer(cfg *config.Config, database *db.DB, limiter *ratelimit.Limiter) (*http.Server, error) {
	if err := initHandlers(cfg, database); err != nil {
		return nil, err
	}

	router := http.NewServeMux()
	registerRoutes(router, cfg, limiter)

	// Setup middleware chain
	handler := api.ChainMiddleware(
		router,
		api.WithActor,
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
		api.WithContentType,
	)

	return &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, nil
}

func initHandlers(cfg *config.Config, database *db.DB) error {
	allocator, err := booking.NewAllocator(database, cfg.Booking.HoldDuration.Std())
	if err != nil {
		return fmt.Errorf("booking allocator: %w", err)
	}
	matchService, err := matchsvc.NewService(database, cfg.Booking.MatchPaymentHold.Std(),
		matchsvc.WithDefaultMaxPlayers(cfg.Booking.MatchMaxPlayers))
	if err != nil {
		return fmt.Errorf("match service: %w", err)
	}
	ledger, err := points.NewLedger(database)
	if err != nil {
		return fmt.Errorf("points ledger: %w", err)
	}
	evaluator, err := promotion.NewEvaluator(database)
	if err != nil {
		return fmt.Errorf("promotion evaluator: %w", err)
	}
	tournamentService, err := tournamentsvc.NewService(database, ledger, evaluator)
	if err != nil {
		return fmt.Errorf("tournament service: %w", err)
	}
	correctionService, err := correctionsvc.NewService(database)
	if err != nil {
		return fmt.Errorf("corrections service: %w", err)
	}

	courts.InitHandlers(database.Queries)
	bookings.InitHandlers(allocator)
	matches.InitHandlers(matchService)
	rankings.InitHandlers(database.Queries, cfg.Ranking)
	tournaments.InitHandlers(tournamentService, ledger)
	corrections.InitHandlers(correctionService)
	return nil
}

func registerRoutes(mux *http.ServeMux, cfg *config.Config, limiter *ratelimit.Limiter) {
	// Routes that open a payment hold are rate limited when a limiter is configured.
	holds := func(h http.HandlerFunc) http.HandlerFunc {
		if limiter == nil {
			return h
		}
		return limiter.Middleware(h)
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	if cfg.Features.EnableMetrics {
		mux.Handle("GET /metrics", metrics.Handler())
	}

	// Clubs and courts
	mux.HandleFunc("POST /api/v1/clubs", courts.HandleCreateClub)
	mux.HandleFunc("POST /api/v1/courts", courts.HandleCreateCourt)
	mux.HandleFunc("PUT /api/v1/courts/{id}", courts.HandleUpdateCourt)
	mux.HandleFunc("DELETE /api/v1/courts/{id}", courts.HandleDeactivateCourt)
	mux.HandleFunc("PUT /api/v1/courts/{id}/schedule", courts.HandleUpsertSchedule)
	mux.HandleFunc("POST /api/v1/courts/{id}/blocks", courts.HandleCreateBlock)
	mux.HandleFunc("DELETE /api/v1/blocks/{id}", courts.HandleDeleteBlock)
	mux.HandleFunc("GET /api/v1/courts/{id}/availability", courts.HandleAvailability)

	// Bookings
	mux.HandleFunc("POST /api/v1/bookings", holds(bookings.HandleCreateBooking))
	mux.HandleFunc("POST /api/v1/bookings/{id}/confirm", bookings.HandleConfirmBooking)
	mux.HandleFunc("POST /api/v1/bookings/{id}/cancel", bookings.HandleCancelBooking)
	mux.HandleFunc("POST /api/v1/bookings/{id}/no-show", bookings.HandleNoShow)
	mux.HandleFunc("GET /api/v1/bookings/mine", bookings.HandleListMine)
	mux.HandleFunc("GET /api/v1/clubs/{id}/bookings", bookings.HandleListClubBookings)

	// Matches
	mux.HandleFunc("POST /api/v1/matches", holds(matches.HandleCreateMatch))
	mux.HandleFunc("POST /api/v1/matches/{id}/join", holds(matches.HandleJoinMatch))
	mux.HandleFunc("POST /api/v1/matches/participants/{id}/confirm", matches.HandleConfirmPayment)
	mux.HandleFunc("GET /api/v1/matches/open", matches.HandleListOpen)

	// Players and rankings
	mux.HandleFunc("POST /api/v1/players", rankings.HandleCreatePlayer)
	mux.HandleFunc("GET /api/v1/rankings", rankings.HandleListRankings)
	mux.HandleFunc("GET /api/v1/players/{id}/score", rankings.HandlePlayerScore)
	mux.HandleFunc("GET /api/v1/players/{id}/position", rankings.HandlePlayerPosition)
	mux.HandleFunc("GET /api/v1/players/{id}/history", rankings.HandlePlayerHistory)

	// Tournaments and the points ledger
	mux.HandleFunc("POST /api/v1/tournaments", tournaments.HandleCreateTournament)
	mux.HandleFunc("POST /api/v1/tournaments/{id}/results", tournaments.HandleSubmitResults)
	mux.HandleFunc("POST /api/v1/tournaments/{id}/results/confirm", tournaments.HandleConfirmResults)
	mux.HandleFunc("POST /api/v1/admin/point-movements/{id}/void", tournaments.HandleVoidMovement)

	// Corrections
	mux.HandleFunc("POST /api/v1/corrections", corrections.HandleSubmit)
	mux.HandleFunc("POST /api/v1/corrections/{id}/resolve", corrections.HandleResolve)
	mux.HandleFunc("GET /api/v1/clubs/{id}/corrections", corrections.HandleListForClub)
	mux.HandleFunc("GET /api/v1/admin/corrections", corrections.HandleListEscalated)
}
