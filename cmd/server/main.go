// cmd/server/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/codr1/Rankeate/internal/availability"
	"github.com/codr1/Rankeate/internal/config"
	"github.com/codr1/Rankeate/internal/db"
	"github.com/codr1/Rankeate/internal/obs"
	"github.com/codr1/Rankeate/internal/ratelimit"
	"github.com/codr1/Rankeate/internal/scheduler"
)

const shutdownTimeout = 30 * time.Second

func setupLogger(environment string, debug bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *configPath).Msg("Failed to load configuration")
	}

	setupLogger(cfg.App.Environment, cfg.Features.EnableDebug)
	availability.SetDefaultLocation(cfg.DefaultLocation())

	database, err := db.NewFromConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Features.EnableTracing {
		shutdownTracer, err := obs.InitTracer(ctx, cfg.App.Name, cfg.App.Environment, cfg.Tracing.Endpoint)
		if err != nil {
			log.Fatal().Err(err).Str("endpoint", cfg.Tracing.Endpoint).Msg("Failed to initialize tracing")
		}
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracer(flushCtx); err != nil {
				log.Error().Err(err).Msg("Failed to flush traces")
			}
		}()
	}

	if err := scheduler.Init(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize scheduler")
	}
	if cfg.Sweeper.IsEnabled() {
		if err := scheduler.RegisterExpiryJobs(database, cfg.Sweeper); err != nil {
			log.Fatal().Err(err).Msg("Failed to register expiry jobs")
		}
	} else {
		log.Warn().Msg("Expiry sweeper disabled; lapsed holds will not be released")
	}

	var limiter *ratelimit.Limiter
	if cfg.RateLimit.IsEnabled() {
		limiter = ratelimit.New(&ratelimit.Config{
			HoldMaxPerActorPerHour: cfg.RateLimit.HoldMaxPerActorPerHour,
			HoldMaxIPPerHour:       cfg.RateLimit.HoldMaxIPPerHour,
			TrustProxy:             cfg.RateLimit.TrustProxy,
		})
		defer limiter.Close()
	}

	server, err := newServer(cfg, database, limiter)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build server")
	}

	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Str("environment", cfg.App.Environment).Msg("Starting server")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		log.Info().Msg("Shutting down server")
		if err := scheduler.Stop(); err != nil {
			log.Error().Err(err).Msg("Failed to stop scheduler")
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server terminated with error")
		os.Exit(1)
	}
}
