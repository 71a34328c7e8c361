package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"

	"github.com/XavierBriggs/splashtrack/internal/config"
	"github.com/XavierBriggs/splashtrack/internal/handlers"
	"github.com/XavierBriggs/splashtrack/internal/hub"
	"github.com/XavierBriggs/splashtrack/internal/poller"
	"github.com/XavierBriggs/splashtrack/internal/scorefeed"
	"github.com/XavierBriggs/splashtrack/internal/store"
	"github.com/XavierBriggs/splashtrack/internal/transitions"
)

func main() {
	fmt.Println("=== Splashtrack v0 ===")

	cfg := config.LoadConfig()

	// Connect to the signals database
	signalStore, err := store.NewPostgres(cfg.Database.DSN)
	if err != nil {
		fmt.Printf("❌ Failed to open signals database: %v\n", err)
		os.Exit(1)
	}
	defer signalStore.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	if err := signalStore.Ping(pingCtx); err != nil {
		pingCancel()
		fmt.Printf("❌ Failed to connect to signals database: %v\n", err)
		os.Exit(1)
	}
	pingCancel()
	fmt.Println("✓ Connected to signals database")

	// Connect to Redis for the last-good snapshot store. Optional: a dead
	// Redis only costs snapshot persistence across restarts.
	var lastGood scorefeed.LastGoodStore
	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		fmt.Printf("⚠️  Invalid Redis URL, running without snapshot persistence: %v\n", err)
	} else {
		if cfg.Redis.Password != "" {
			redisOpts.Password = cfg.Redis.Password
		}
		redisClient := redis.NewClient(redisOpts)
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			fmt.Printf("⚠️  Redis unreachable, running without snapshot persistence: %v\n", err)
		} else {
			lastGood = scorefeed.NewRedisStore(redisClient)
			fmt.Println("✓ Connected to Redis")
		}
	}

	// Score feed proxy
	cache := scorefeed.NewSnapshotCache(cfg.Poller.CacheTTL, nil)
	scores := scorefeed.NewService(scorefeed.NewClient(), cache, lastGood, nil)

	// Live broadcast hub
	wsHub := hub.New()
	go wsHub.Run(ctx)

	// Polling loop
	detector := transitions.New(nil)
	p := poller.New(scores, signalStore, detector, wsHub, cfg.Poller.Interval, nil)
	go p.Run(ctx)

	// HTTP surface
	handler := handlers.NewHandler(signalStore, scores, cfg.Staking.StartingBankroll, cfg.Staking.KellyFraction, nil)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", handler.HealthCheck)
	r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
		hub.ServeWS(wsHub, w, req)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/live-scores", handler.GetLiveScores)
		r.Get("/signals/today", handler.GetTodaySignals)
		r.Get("/performance", handler.GetPerformance)
		r.Get("/pnl/daily", handler.GetDailyPnL)
		r.Get("/results/recent", handler.GetRecentResults)
		r.Post("/sizing", handler.CalculateSizing)
		r.Post("/bankroll/simulate", handler.SimulateBankroll)
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	serverErrors := make(chan error, 1)
	go func() {
		fmt.Printf("✓ Splashtrack listening on %s\n", cfg.Server.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		fmt.Printf("❌ Server error: %v\n", err)
		os.Exit(1)

	case sig := <-shutdown:
		fmt.Printf("\n⚠️  Received signal: %v\n", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("⚠️  Graceful shutdown failed: %v\n", err)
			if err := srv.Close(); err != nil {
				fmt.Printf("❌ Could not stop server: %v\n", err)
			}
		}
	}

	fmt.Println("✓ Shutdown complete")
}
