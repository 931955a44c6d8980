package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/relaycrm/relay/internal/auth"
	"github.com/relaycrm/relay/internal/httpapi"
	"github.com/relaycrm/relay/internal/idp"
	"github.com/relaycrm/relay/internal/obs"
)

var (
	version = "0.3.1"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	dsn := os.Getenv("RELAY_PG_DSN")
	if dsn == "" {
		log.Fatal("RELAY_PG_DSN is required")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	validator, err := auth.NewValidator(os.Getenv("RELAY_AUTH_SECRET"),
		auth.WithAudience(envOr("RELAY_AUTH_AUDIENCE", auth.DefaultAudience)))
	if err != nil {
		log.Fatalf("token validator: %v", err)
	}

	provider, err := idp.NewClient(idp.Config{
		URL:         os.Getenv("RELAY_IDP_URL"),
		ServiceKey:  os.Getenv("RELAY_IDP_SERVICE_KEY"),
		RedirectURL: os.Getenv("RELAY_IDP_REDIRECT_URL"),
	})
	if err != nil {
		log.Fatalf("identity provider: %v", err)
	}

	store := auth.NewPGStore(db)
	production := strings.EqualFold(os.Getenv("RELAY_ENV"), "production")
	accounts := auth.NewService(store, provider, auth.WithProductionRedaction(production))

	api := httpapi.New(httpapi.Config{
		ReadyProbe:     httpapi.ReadyProbe{DB: db},
		Version:        version,
		Validator:      validator,
		Resolver:       auth.NewResolver(store),
		Accounts:       accounts,
		AllowedOrigins: splitList(os.Getenv("RELAY_CORS_ORIGINS")),
	})

	srv := &http.Server{
		Addr:              envOr("RELAY_HTTP_ADDR", ":8080"),
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting relay-api %s on %s", version, srv.Addr)

	// graceful shutdown
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
	_ = db.Close()
	log.Println("Stopped")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
