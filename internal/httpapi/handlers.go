package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/relaycrm/relay/internal/audit"
	"github.com/relaycrm/relay/internal/auth"
	"github.com/relaycrm/relay/internal/obs"
)

// ReadyProbe reports whether downstream dependencies are reachable.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// Config wires the HTTP layer to the rest of the service.
type Config struct {
	ReadyProbe ReadyProbe
	Version    string

	Validator *auth.Validator
	Resolver  *auth.Resolver
	Accounts  *auth.Service

	// MaxBodyBytes limits request bodies; defaults to 1 MiB.
	MaxBodyBytes int64
	// RateBurst and RatePerSecond tune the per-IP limiter; defaults 20/10.
	RateBurst     int
	RatePerSecond int
	// AllowedOrigins is the CORS allow list; localhost is always allowed.
	AllowedOrigins []string
}

// API is the HTTP layer.
type API struct {
	mux        *http.ServeMux
	readyProbe ReadyProbe
	version    string

	validator *auth.Validator
	resolver  *auth.Resolver
	accounts  *auth.Service

	maxBodyBytes   int64
	rateBurst      int
	ratePerSecond  int
	allowedOrigins []string
}

func New(cfg Config) *API {
	a := &API{
		mux:            http.NewServeMux(),
		readyProbe:     cfg.ReadyProbe,
		version:        cfg.Version,
		validator:      cfg.Validator,
		resolver:       cfg.Resolver,
		accounts:       cfg.Accounts,
		maxBodyBytes:   cfg.MaxBodyBytes,
		rateBurst:      cfg.RateBurst,
		ratePerSecond:  cfg.RatePerSecond,
		allowedOrigins: cfg.AllowedOrigins,
	}
	if a.maxBodyBytes <= 0 {
		a.maxBodyBytes = 1 << 20
	}
	if a.rateBurst <= 0 {
		a.rateBurst = 20
	}
	if a.ratePerSecond <= 0 {
		a.ratePerSecond = 10
	}

	// health/ready/info
	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)

	// Prometheus metrics
	a.mux.Handle("/metrics", obs.Handler())

	// identity and account management
	a.mux.HandleFunc("/v1/me", a.handleMe)
	a.mux.HandleFunc("/v1/users", a.handleUsers)
	a.mux.HandleFunc("/v1/users/", a.handleUserScoped)
	a.mux.HandleFunc("/v1/invite", a.handleInvite)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "resource not found")
	})

	return a
}

// Handler returns the fully wrapped http.Handler. Authentication sits
// closest to the mux so every outer layer runs for public routes too.
func (a *API) Handler() http.Handler {
	h := a.withAuth(a.mux)
	h = MaxBodyBytes(h, a.maxBodyBytes)
	h = RateLimit(h, a.rateBurst, a.ratePerSecond)
	h = obs.Instrument(h)
	h = LoggingJSON(h)
	h = CORS(h, a.allowedOrigins)
	h = SecurityHeaders(h)
	h = RequestID(h)
	return h
}

// --- Handlers ---

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "relay-api",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "relay-api",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}

// audit records an account-management event with the request id attached.
func (a *API) audit(ctx context.Context, event string, fields map[string]any) {
	_ = audit.LogEvent(ctx, event, fields)
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	payload := map[string]any{
		"error": msg,
	}
	if rid := RequestIDFromContext(r.Context()); rid != "" {
		payload["request_id"] = rid
	}
	writeJSON(w, code, payload)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	reader := http.MaxBytesReader(w, r.Body, 1<<20)
	defer reader.Close()
	dec := json.NewDecoder(reader)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected data after JSON body")
		}
		return err
	}
	return nil
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
}
