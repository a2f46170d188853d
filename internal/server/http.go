package server

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/extreme-startup/internal/auth"
	"github.com/gokatarajesh/extreme-startup/internal/config"
	"github.com/gokatarajesh/extreme-startup/internal/game"
	"github.com/gokatarajesh/extreme-startup/internal/logging"
	"github.com/gokatarajesh/extreme-startup/internal/scoreboard"
	httperrors "github.com/gokatarajesh/extreme-startup/pkg/http/errors"
)

// WSUpgrader handles WebSocket upgrades for scoreboard viewers.
var WSUpgrader = websocket.Upgrader{
	// TODO: restrict to the configured dashboard origin once one exists.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Dependencies are the handlers and clients the router wires. Nil handlers
// leave their routes unregistered.
type Dependencies struct {
	Pool       *pgxpool.Pool
	Redis      *redis.Client
	Gatherer   prometheus.Gatherer
	Game       *game.HTTPHandler
	Scoreboard *scoreboard.HTTPHandler
	Auth       *auth.HTTPHandlers
	AuthSvc    *auth.Service
}

// NewHTTPServer wires every route of the game master.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, deps Dependencies) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           withRequestLogging(NewRouter(logger, deps), logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// NewRouter builds the route table.
func NewRouter(logger zerolog.Logger, deps Dependencies) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := pingDependencies(r.Context(), deps.Pool, deps.Redis); err != nil {
			logger := logging.FromContext(r.Context())
			logger.Error().Err(err).Msg("dependency ping failed")
			httperrors.RespondServiceUnavailable(w, httperrors.ErrCodeServiceUnavailable, "Upstream dependency unavailable")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	})

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	admin := func(h http.HandlerFunc) http.Handler {
		if deps.AuthSvc == nil {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				httperrors.RespondServiceUnavailable(w, httperrors.ErrCodeServiceUnavailable, "Admin authentication not configured")
			})
		}
		return auth.RequireAdmin(deps.AuthSvc, logger)(h)
	}

	if deps.Auth != nil {
		mux.HandleFunc("POST /v1/admin/login", deps.Auth.Login)
		mux.Handle("POST /v1/admin/logout", admin(deps.Auth.Logout))
	}

	if deps.Game != nil {
		mux.HandleFunc("GET /v1/players", deps.Game.ListPlayers)
		mux.HandleFunc("POST /v1/players", deps.Game.CreatePlayer)
		mux.HandleFunc("DELETE /v1/players/{id}", deps.Game.DeletePlayer)
		mux.HandleFunc("GET /v1/players/{id}/answers", deps.Game.ListAnswers)
		mux.Handle("POST /v1/admin/start", admin(deps.Game.Start))
		mux.Handle("POST /v1/admin/advance-round", admin(deps.Game.AdvanceRound))
		mux.Handle("GET /v1/admin/round", admin(deps.Game.Status))
	}

	if deps.Scoreboard != nil {
		mux.HandleFunc("GET /v1/scoreboard", deps.Scoreboard.HandleGet)
		mux.HandleFunc("GET /ws/scoreboard", deps.Scoreboard.HandleWS)
		mux.Handle("POST /v1/admin/scoreboard/reset", admin(deps.Scoreboard.HandleReset))
	}

	return mux
}

func pingDependencies(ctx context.Context, pool *pgxpool.Pool, redis *redis.Client) error {
	if pool != nil {
		if err := pool.Ping(ctx); err != nil {
			return err
		}
	}
	if redis != nil {
		if err := redis.Ping(ctx).Err(); err != nil {
			return err
		}
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Hijack hands the connection to the websocket upgrader.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func withRequestLogging(next http.Handler, logger zerolog.Logger) http.Handler {
	logger = logging.Component(logger, "http")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(logging.IntoContext(r.Context(), logger)))

		logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request served")
	})
}
