package scoreboard

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/extreme-startup/internal/logging"
	httperrors "github.com/gokatarajesh/extreme-startup/pkg/http/errors"
	ws "github.com/gokatarajesh/extreme-startup/pkg/http/ws"
)

// Board is the live scoreboard the handler serves.
type Board interface {
	Top(ctx context.Context, limit int) ([]Entry, error)
	Reset(ctx context.Context) error
}

// HTTPHandler exposes REST and WebSocket endpoints for the scoreboard.
type HTTPHandler struct {
	board     Board
	snapshots snapshotStore
	hub       *ws.Hub
	upgrader  websocket.Upgrader
	topN      int
	logger    zerolog.Logger
}

// NewHTTPHandler constructs a scoreboard HTTP handler. snapshots and hub may be nil.
func NewHTTPHandler(board Board, snapshots snapshotStore, hub *ws.Hub, upgrader websocket.Upgrader, topN int, logger zerolog.Logger) *HTTPHandler {
	if topN <= 0 {
		topN = 50
	}
	return &HTTPHandler{
		board:     board,
		snapshots: snapshots,
		hub:       hub,
		upgrader:  upgrader,
		topN:      topN,
		logger:    logging.Component(logger, "scoreboard_http"),
	}
}

// HandleGet responds with the current standings.
// Route: GET /v1/scoreboard?limit=10
func (h *HTTPHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	limit := h.topN
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= h.topN {
			limit = parsed
		}
	}

	ctx := r.Context()
	top, err := h.current(ctx, limit)
	source := "redis"
	retrievedAt := time.Now().UTC()
	if err != nil {
		h.logger.Warn().Err(err).Msg("redis scoreboard fetch failed")
		entries, at, ok := h.snapshotFallback(ctx, limit)
		if !ok {
			httperrors.RespondServiceUnavailable(w, httperrors.ErrCodeScoreboardFailed, "Scoreboard unavailable")
			return
		}
		top, source, retrievedAt = entries, "snapshot", at
	}

	httperrors.RespondJSON(w, http.StatusOK, map[string]any{
		"top":          top,
		"source":       source,
		"retrieved_at": retrievedAt.Format(time.RFC3339),
	})
}

// HandleReset wipes all scores.
// Route: POST /v1/admin/scoreboard/reset
func (h *HTTPHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	if err := h.board.Reset(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("scoreboard reset failed")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeScoreboardResetFail, "Failed to reset scoreboard")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleWS streams scoreboard updates to a viewer.
// Route: GET /ws/scoreboard
func (h *HTTPHandler) HandleWS(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		httperrors.RespondServiceUnavailable(w, httperrors.ErrCodeServiceUnavailable, "Live scoreboard not configured")
		return
	}

	raw, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	conn := ws.NewConnection(raw, h.logger)
	id := h.hub.Register(conn)
	go conn.WritePump()

	ctx := context.WithoutCancel(r.Context())
	h.sendSnapshot(ctx, conn, "")
	conn.ReadPump(func(msg ws.Message) error {
		switch msg.Type {
		case ws.TypeRequestSnapshot:
			h.sendSnapshot(ctx, conn, msg.RequestID)
			return nil
		case ws.TypePing:
			return conn.Send(ws.Message{Type: ws.TypePong, RequestID: msg.RequestID})
		default:
			reply, err := ws.NewMessage(ws.TypeError, ws.ErrorPayload{
				Code:    httperrors.ErrCodeUnknownMessageType,
				Message: "unknown message type " + msg.Type,
			})
			if err != nil {
				return err
			}
			reply.RequestID = msg.RequestID
			return conn.Send(reply)
		}
	})
	h.hub.Unregister(id)
}

func (h *HTTPHandler) sendSnapshot(ctx context.Context, conn *ws.Connection, requestID string) {
	top, err := h.current(ctx, h.topN)
	if err != nil {
		h.logger.Warn().Err(err).Msg("snapshot for viewer failed")
		return
	}
	msg, err := ws.NewMessage(ws.TypeScoreboardUpdate, ws.ScoreboardUpdatePayload{Top: top})
	if err != nil {
		return
	}
	msg.RequestID = requestID
	if err := conn.Send(msg); err != nil {
		h.logger.Debug().Err(err).Msg("viewer send failed")
	}
}

func (h *HTTPHandler) current(ctx context.Context, limit int) ([]ws.ScoreboardEntry, error) {
	entries, err := h.board.Top(ctx, limit)
	if err != nil {
		return nil, err
	}
	return toWSEntries(entries), nil
}

func (h *HTTPHandler) snapshotFallback(ctx context.Context, limit int) ([]ws.ScoreboardEntry, time.Time, bool) {
	if h.snapshots == nil {
		return nil, time.Time{}, false
	}
	entries, at, err := LatestSnapshot(ctx, h.snapshots)
	if err != nil {
		h.logger.Warn().Err(err).Msg("snapshot fetch failed")
		return nil, time.Time{}, false
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, at, true
}
