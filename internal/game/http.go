package game

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/extreme-startup/internal/logging"
	"github.com/gokatarajesh/extreme-startup/internal/question"
	httperrors "github.com/gokatarajesh/extreme-startup/pkg/http/errors"
)

const (
	defaultAnswerLimit = 50
	maxAnswerLimit     = 500
)

// AnswerLister reads a player's answer log, newest first.
type AnswerLister interface {
	ListAnswers(ctx context.Context, playerID uuid.UUID, limit int) ([]Outcome, error)
}

// RegisterPlayerRequest is the body of POST /v1/players.
type RegisterPlayerRequest struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// RoundResponse reports the current round.
type RoundResponse struct {
	Round int `json:"round"`
}

// HTTPHandler exposes player registration and game administration.
type HTTPHandler struct {
	master  *Master
	answers AnswerLister
	logger  zerolog.Logger
}

// NewHTTPHandler creates game handlers. answers may be nil when no answer log is configured.
func NewHTTPHandler(master *Master, answers AnswerLister, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		master:  master,
		answers: answers,
		logger:  logging.Component(logger, "game_http"),
	}
}

// ListPlayers handles GET /v1/players
func (h *HTTPHandler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	httperrors.RespondJSON(w, http.StatusOK, map[string]any{"players": h.master.Players()})
}

// CreatePlayer handles POST /v1/players
func (h *HTTPHandler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req RegisterPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	player, err := h.master.AddPlayer(r.Context(), req.Name, req.URL)
	switch {
	case errors.Is(err, ErrInvalidPlayer):
		httperrors.RespondBadRequest(w, httperrors.ErrCodeValidationFailed, err.Error())
		return
	case errors.Is(err, ErrDuplicateName):
		httperrors.RespondError(w, http.StatusConflict, httperrors.ErrCodeNameTaken, err.Error())
		return
	case err != nil:
		h.logger.Error().Err(err).Str("name", req.Name).Msg("failed to register player")
		httperrors.RespondInternalError(w, "Failed to register player")
		return
	}

	httperrors.RespondJSON(w, http.StatusCreated, player)
}

// DeletePlayer handles DELETE /v1/players/{id}
func (h *HTTPHandler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.playerID(w, r)
	if !ok {
		return
	}

	err := h.master.RemovePlayer(r.Context(), id)
	switch {
	case errors.Is(err, ErrPlayerNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodePlayerNotFound, "Player not found")
		return
	case err != nil:
		h.logger.Error().Err(err).Str("player_id", id.String()).Msg("failed to remove player")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeRemovalFailed, "Failed to remove player")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListAnswers handles GET /v1/players/{id}/answers?limit=N
func (h *HTTPHandler) ListAnswers(w http.ResponseWriter, r *http.Request) {
	id, ok := h.playerID(w, r)
	if !ok {
		return
	}
	player, found := h.master.Player(id)
	if !found {
		httperrors.RespondNotFound(w, httperrors.ErrCodePlayerNotFound, "Player not found")
		return
	}
	if h.answers == nil {
		httperrors.RespondServiceUnavailable(w, httperrors.ErrCodeServiceUnavailable, "Answer log not configured")
		return
	}

	limit := defaultAnswerLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "limit must be a positive integer", "limit")
			return
		}
		limit = min(n, maxAnswerLimit)
	}

	answers, err := h.answers.ListAnswers(r.Context(), id, limit)
	if err != nil {
		h.logger.Error().Err(err).Str("player_id", id.String()).Msg("failed to list answers")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeAnswersFetchFailed, "Failed to load answers")
		return
	}
	// The answer log stores ids only.
	for i := range answers {
		answers[i].PlayerName = player.Name
	}
	httperrors.RespondJSON(w, http.StatusOK, map[string]any{"answers": answers})
}

// Start handles POST /v1/admin/start
func (h *HTTPHandler) Start(w http.ResponseWriter, r *http.Request) {
	if err := h.master.Start(); err != nil {
		if errors.Is(err, ErrAlreadyStarted) {
			httperrors.RespondError(w, http.StatusConflict, httperrors.ErrCodeAlreadyStarted, "Game already started")
			return
		}
		httperrors.RespondInternalError(w, err.Error())
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, h.master.Status())
}

// AdvanceRound handles POST /v1/admin/advance-round
func (h *HTTPHandler) AdvanceRound(w http.ResponseWriter, r *http.Request) {
	round, err := h.master.AdvanceRound()
	if err != nil {
		if errors.Is(err, question.ErrRoundNotSupported) {
			httperrors.RespondError(w, http.StatusConflict, httperrors.ErrCodeRoundNotSupported, "Warm-up has no rounds; start the game first")
			return
		}
		httperrors.RespondInternalError(w, err.Error())
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, RoundResponse{Round: round})
}

// Status handles GET /v1/admin/round
func (h *HTTPHandler) Status(w http.ResponseWriter, r *http.Request) {
	httperrors.RespondJSON(w, http.StatusOK, h.master.Status())
}

func (h *HTTPHandler) playerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidPlayerID, "Invalid player id")
		return uuid.Nil, false
	}
	return id, true
}
