package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"github.com/coyotle/smotrim-rss-proxy/internal/cache"
	"github.com/coyotle/smotrim-rss-proxy/internal/config"
	"github.com/coyotle/smotrim-rss-proxy/internal/db"
	"github.com/coyotle/smotrim-rss-proxy/internal/feed"
	"github.com/coyotle/smotrim-rss-proxy/internal/handlers"
	"github.com/coyotle/smotrim-rss-proxy/internal/middleware"
	"github.com/coyotle/smotrim-rss-proxy/internal/smotrim"
)

// CommitSHA is set at build time via ldflags
var CommitSHA = "unknown"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded")
	}

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	store, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open size store: %v", err)
	}
	defer store.Close()

	client := smotrim.NewClient(&http.Client{Timeout: 30 * time.Second})
	builder := feed.NewBuilder(store, client, cfg.SkipActiveItems)
	feedCache := cache.New()
	h := handlers.New(feedCache, client, builder, cfg)
	rl := middleware.NewRateLimiterMiddleware(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)

	r := mux.NewRouter()
	r.Handle("/brand/{id}", rl.Middleware(http.HandlerFunc(h.GetBrandFeed))).
		Methods(http.MethodGet, http.MethodHead)

	addr := net.JoinHostPort(cfg.BindAddr, cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		log.Printf("Server running at http://%s (commit: %s)", addr, CommitSHA)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Shutdown: %v", err)
	}
}
