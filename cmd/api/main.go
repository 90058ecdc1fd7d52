package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cpms.org/internal/audit"
	"cpms.org/internal/auth"
	"cpms.org/internal/config"
	"cpms.org/internal/httpapi"
	"cpms.org/internal/mail"
	"cpms.org/internal/obs"
	"cpms.org/internal/placement"
	"cpms.org/internal/store/pg"
)

var (
	version = "1.2.0"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.PGDSN == "" {
		log.Fatal("missing CPMS_PG_DSN")
	}

	store, err := pg.Open(cfg.PGDSN)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer store.Close()

	tokens, err := auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		log.Fatalf("tokens: %v", err)
	}

	var mailer mail.Mailer = mail.Nop{}
	if cfg.SMTP.Enabled() {
		mailer = mail.NewSMTP(cfg.SMTP.Host, cfg.SMTP.Port,
			cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	}

	allow := auth.NewAllowList(auth.DefaultPermissions()...)
	directory := auth.NewDirectory(store.Users, store.Roles, mailer)
	registry := auth.NewRegistry(store.Roles, store.Users, allow)
	placements := placement.NewService(store.Companies, store.Jobs,
		store.Notices, store.Alumni, store.Records)
	recorder := audit.NewRecorder(store.Audit, 0)

	api := httpapi.New(directory, registry, tokens, placements, recorder, store, version)

	handler := httpapi.RequestID(
		httpapi.Logging(
			httpapi.SecurityHeaders(
				httpapi.CORS(
					httpapi.MaxBodyBytes(
						httpapi.RateLimit(api.Handler(), cfg.RateBurst, cfg.RatePerSec),
						cfg.MaxBodyBytes)))))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting cpms-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	recorder.Close()
	log.Println("Stopped")
}
