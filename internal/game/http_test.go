package game

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/extreme-startup/internal/question"
	httperrors "github.com/gokatarajesh/extreme-startup/pkg/http/errors"
)

type stubAnswers struct {
	outcomes []Outcome
	err      error
	limit    int
}

func (s *stubAnswers) ListAnswers(_ context.Context, _ uuid.UUID, limit int) ([]Outcome, error) {
	s.limit = limit
	return s.outcomes, s.err
}

func newTestMux(t *testing.T, answers AnswerLister) (*http.ServeMux, *Master) {
	t.Helper()
	m := newTestMaster(t, &teamDispatcher{}, Options{DelayUnit: time.Hour})
	h := NewHTTPHandler(m, answers, zerolog.Nop())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/players", h.ListPlayers)
	mux.HandleFunc("POST /v1/players", h.CreatePlayer)
	mux.HandleFunc("DELETE /v1/players/{id}", h.DeletePlayer)
	mux.HandleFunc("GET /v1/players/{id}/answers", h.ListAnswers)
	mux.HandleFunc("POST /v1/admin/start", h.Start)
	mux.HandleFunc("POST /v1/admin/advance-round", h.AdvanceRound)
	mux.HandleFunc("GET /v1/admin/round", h.Status)
	return mux, m
}

func do(mux http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) httperrors.ErrorResponse {
	t.Helper()
	var resp httperrors.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestCreateAndListPlayers(t *testing.T) {
	mux, _ := newTestMux(t, nil)

	rec := do(mux, http.MethodPost, "/v1/players", `{"name":"Ada","url":"http://localhost:9000/"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created Player
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, "Ada", created.Name)
	assert.NotEqual(t, uuid.Nil, created.ID)

	rec = do(mux, http.MethodGet, "/v1/players", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Players []Player `json:"players"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	require.Len(t, list.Players, 1)
	assert.Equal(t, created.ID, list.Players[0].ID)
}

func TestCreatePlayerErrors(t *testing.T) {
	mux, _ := newTestMux(t, nil)

	rec := do(mux, http.MethodPost, "/v1/players", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, httperrors.ErrCodeInvalidRequest, decodeError(t, rec).Error)

	rec = do(mux, http.MethodPost, "/v1/players", `{"name":"x","url":"not a url"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, httperrors.ErrCodeValidationFailed, decodeError(t, rec).Error)

	require.Equal(t, http.StatusCreated, do(mux, http.MethodPost, "/v1/players", `{"name":"x","url":"http://a/"}`).Code)
	rec = do(mux, http.MethodPost, "/v1/players", `{"name":"X","url":"http://b/"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, httperrors.ErrCodeNameTaken, decodeError(t, rec).Error)
}

func TestDeletePlayer(t *testing.T) {
	mux, m := newTestMux(t, nil)
	p, err := m.AddPlayer(context.Background(), "gone", "http://localhost:9000/")
	require.NoError(t, err)

	assert.Equal(t, http.StatusNoContent, do(mux, http.MethodDelete, "/v1/players/"+p.ID.String(), "").Code)
	assert.Empty(t, m.Players())

	rec := do(mux, http.MethodDelete, "/v1/players/"+p.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, httperrors.ErrCodePlayerNotFound, decodeError(t, rec).Error)

	rec = do(mux, http.MethodDelete, "/v1/players/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, httperrors.ErrCodeInvalidPlayerID, decodeError(t, rec).Error)
}

func TestListAnswers(t *testing.T) {
	answers := &stubAnswers{outcomes: []Outcome{{QuestionID: "abcd1234", Result: question.ResultCorrect, Points: 10}}}
	mux, m := newTestMux(t, answers)
	p, err := m.AddPlayer(context.Background(), "ada", "http://localhost:9000/")
	require.NoError(t, err)

	rec := do(mux, http.MethodGet, "/v1/players/"+p.ID.String()+"/answers", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, defaultAnswerLimit, answers.limit)
	var body struct {
		Answers []Outcome `json:"answers"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Answers, 1)
	assert.Equal(t, "abcd1234", body.Answers[0].QuestionID)
	assert.Equal(t, "ada", body.Answers[0].PlayerName)

	do(mux, http.MethodGet, "/v1/players/"+p.ID.String()+"/answers?limit=10000", "")
	assert.Equal(t, maxAnswerLimit, answers.limit)

	rec = do(mux, http.MethodGet, "/v1/players/"+p.ID.String()+"/answers?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "limit", decodeError(t, rec).Field)

	rec = do(mux, http.MethodGet, "/v1/players/"+uuid.NewString()+"/answers", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	answers.err = errors.New("db down")
	rec = do(mux, http.MethodGet, "/v1/players/"+p.ID.String()+"/answers", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, httperrors.ErrCodeAnswersFetchFailed, decodeError(t, rec).Error)
}

func TestListAnswersWithoutLog(t *testing.T) {
	mux, m := newTestMux(t, nil)
	p, err := m.AddPlayer(context.Background(), "ada", "http://localhost:9000/")
	require.NoError(t, err)

	rec := do(mux, http.MethodGet, "/v1/players/"+p.ID.String()+"/answers", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAdminRoundFlow(t *testing.T) {
	mux, _ := newTestMux(t, nil)

	rec := do(mux, http.MethodPost, "/v1/admin/advance-round", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, httperrors.ErrCodeRoundNotSupported, decodeError(t, rec).Error)

	rec = do(mux, http.MethodPost, "/v1/admin/start", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var status Status
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
	assert.True(t, status.Started)
	assert.Equal(t, 1, status.Round)

	rec = do(mux, http.MethodPost, "/v1/admin/start", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, httperrors.ErrCodeAlreadyStarted, decodeError(t, rec).Error)

	rec = do(mux, http.MethodPost, "/v1/admin/advance-round", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var round RoundResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&round))
	assert.Equal(t, 2, round.Round)

	rec = do(mux, http.MethodGet, "/v1/admin/round", "")
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
	assert.Equal(t, 2, status.Round)
}
