package scoreboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	sqlcgen "github.com/gokatarajesh/extreme-startup/internal/db/sqlc"
	httperrors "github.com/gokatarajesh/extreme-startup/pkg/http/errors"
	ws "github.com/gokatarajesh/extreme-startup/pkg/http/ws"
)

type fakeBoard struct {
	mu       sync.Mutex
	entries  []Entry
	err      error
	resetErr error
	resets   int
}

func (b *fakeBoard) Top(_ context.Context, limit int) ([]Entry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	if limit < len(b.entries) {
		return b.entries[:limit], nil
	}
	return b.entries, nil
}

func (b *fakeBoard) Reset(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.resets++
	return b.resetErr
}

func (b *fakeBoard) set(entries []Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = entries
}

type mockSnapshotStore struct {
	mock.Mock
}

func (m *mockSnapshotStore) InsertScoreboardSnapshot(ctx context.Context, arg sqlcgen.InsertScoreboardSnapshotParams) (sqlcgen.ScoreboardSnapshot, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(sqlcgen.ScoreboardSnapshot), args.Error(1)
}

func (m *mockSnapshotStore) GetLatestScoreboardSnapshot(ctx context.Context) (sqlcgen.ScoreboardSnapshot, error) {
	args := m.Called(ctx)
	return args.Get(0).(sqlcgen.ScoreboardSnapshot), args.Error(1)
}

func sampleEntries() []Entry {
	return []Entry{
		{PlayerID: uuid.MustParse("00000000-0000-0000-0000-000000000001"), Name: "Ada", Score: 120, Asked: 10, Correct: 8, Wrong: 2},
		{PlayerID: uuid.MustParse("00000000-0000-0000-0000-000000000002"), Name: "Bob", Score: 40, Asked: 9, Correct: 3, NoResponse: 6},
	}
}

func TestToWSEntriesRanks(t *testing.T) {
	got := toWSEntries(sampleEntries())
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Rank)
	assert.Equal(t, 2, got[1].Rank)
	assert.Equal(t, "Bob", got[1].Name)
	assert.Equal(t, 6, got[1].NoResponse)
	assert.Equal(t, "00000000-0000-0000-0000-000000000001", got[0].PlayerID)
}

func TestEntryFromMeta(t *testing.T) {
	id := uuid.New()
	e := entryFromMeta(id, map[string]string{
		"name": "Ada", "asked": "7", "correct": "4", "wrong": "1", "no_response": "2", "error_response": "x",
	})
	assert.Equal(t, Entry{PlayerID: id, Name: "Ada", Asked: 7, Correct: 4, Wrong: 1, NoResponse: 2}, e)
}

func newHandler(board Board, snaps snapshotStore, hub *ws.Hub) *HTTPHandler {
	return NewHTTPHandler(board, snaps, hub, websocket.Upgrader{}, 10, zerolog.Nop())
}

func TestHandleGetFromRedis(t *testing.T) {
	h := newHandler(&fakeBoard{entries: sampleEntries()}, nil, nil)

	rec := httptest.NewRecorder()
	h.HandleGet(rec, httptest.NewRequest(http.MethodGet, "/v1/scoreboard?limit=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Top    []ws.ScoreboardEntry `json:"top"`
		Source string               `json:"source"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "redis", body.Source)
	require.Len(t, body.Top, 1)
	assert.Equal(t, "Ada", body.Top[0].Name)
}

func TestHandleGetFallsBackToSnapshot(t *testing.T) {
	stored, err := json.Marshal(toWSEntries(sampleEntries()))
	require.NoError(t, err)
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	snaps := new(mockSnapshotStore)
	snaps.On("GetLatestScoreboardSnapshot", mock.Anything).Return(sqlcgen.ScoreboardSnapshot{
		GeneratedAt: pgtype.Timestamptz{Time: at, Valid: true},
		Entries:     stored,
	}, nil)

	h := newHandler(&fakeBoard{err: errors.New("redis down")}, snaps, nil)
	rec := httptest.NewRecorder()
	h.HandleGet(rec, httptest.NewRequest(http.MethodGet, "/v1/scoreboard", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Top         []ws.ScoreboardEntry `json:"top"`
		Source      string               `json:"source"`
		RetrievedAt string               `json:"retrieved_at"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "snapshot", body.Source)
	assert.Len(t, body.Top, 2)
	assert.Equal(t, at.Format(time.RFC3339), body.RetrievedAt)
}

func TestHandleGetUnavailable(t *testing.T) {
	h := newHandler(&fakeBoard{err: errors.New("redis down")}, nil, nil)
	rec := httptest.NewRecorder()
	h.HandleGet(rec, httptest.NewRequest(http.MethodGet, "/v1/scoreboard", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleReset(t *testing.T) {
	board := &fakeBoard{}
	h := newHandler(board, nil, nil)

	rec := httptest.NewRecorder()
	h.HandleReset(rec, httptest.NewRequest(http.MethodPost, "/v1/admin/scoreboard/reset", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, board.resets)

	board.resetErr = errors.New("nope")
	rec = httptest.NewRecorder()
	h.HandleReset(rec, httptest.NewRequest(http.MethodPost, "/v1/admin/scoreboard/reset", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp httperrors.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, httperrors.ErrCodeScoreboardResetFail, resp.Error)
}

func readMessage(t *testing.T, c *websocket.Conn) ws.Message {
	t.Helper()
	c.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg ws.Message
	require.NoError(t, c.ReadJSON(&msg))
	return msg
}

func TestHandleWSProtocol(t *testing.T) {
	board := &fakeBoard{entries: sampleEntries()}
	hub := ws.NewHub(zerolog.Nop())
	h := newHandler(board, nil, hub)

	srv := httptest.NewServer(http.HandlerFunc(h.HandleWS))
	t.Cleanup(srv.Close)

	c, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	initial := readMessage(t, c)
	assert.Equal(t, ws.TypeScoreboardUpdate, initial.Type)
	var payload ws.ScoreboardUpdatePayload
	require.NoError(t, json.Unmarshal(initial.Payload, &payload))
	assert.Len(t, payload.Top, 2)

	board.set(sampleEntries()[:1])
	require.NoError(t, c.WriteJSON(ws.Message{Type: ws.TypeRequestSnapshot, RequestID: "r1"}))
	refreshed := readMessage(t, c)
	assert.Equal(t, "r1", refreshed.RequestID)
	require.NoError(t, json.Unmarshal(refreshed.Payload, &payload))
	assert.Len(t, payload.Top, 1)

	require.NoError(t, c.WriteJSON(ws.Message{Type: ws.TypePing, RequestID: "r2"}))
	pong := readMessage(t, c)
	assert.Equal(t, ws.TypePong, pong.Type)
	assert.Equal(t, "r2", pong.RequestID)

	require.NoError(t, c.WriteJSON(ws.Message{Type: "bogus"}))
	errMsg := readMessage(t, c)
	assert.Equal(t, ws.TypeError, errMsg.Type)
	var ep ws.ErrorPayload
	require.NoError(t, json.Unmarshal(errMsg.Payload, &ep))
	assert.Equal(t, httperrors.ErrCodeUnknownMessageType, ep.Code)

	assert.Equal(t, 1, hub.Len())
}

func TestBroadcasterForward(t *testing.T) {
	hub := ws.NewHub(zerolog.Nop())
	h := newHandler(&fakeBoard{}, nil, hub)
	srv := httptest.NewServer(http.HandlerFunc(h.HandleWS))
	t.Cleanup(srv.Close)

	c, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	readMessage(t, c)

	b := NewBroadcaster(nil, hub, "", zerolog.Nop())
	data, err := json.Marshal(ws.ScoreboardUpdatePayload{
		Top:  toWSEntries(sampleEntries()),
		Last: &ws.OutcomeSummary{PlayerName: "Ada", Result: "correct", Points: 10},
	})
	require.NoError(t, err)

	b.forward("not json")
	b.forward(string(data))

	msg := readMessage(t, c)
	assert.Equal(t, ws.TypeScoreboardUpdate, msg.Type)
	var payload ws.ScoreboardUpdatePayload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	require.NotNil(t, payload.Last)
	assert.Equal(t, "Ada", payload.Last.PlayerName)
}

func TestSnapshotWorkerSkipsUnchangedBoard(t *testing.T) {
	board := &fakeBoard{entries: sampleEntries()}
	store := new(mockSnapshotStore)
	store.On("InsertScoreboardSnapshot", mock.Anything, mock.MatchedBy(func(arg sqlcgen.InsertScoreboardSnapshotParams) bool {
		return len(arg.SourceHash) == 64 && arg.GeneratedAt.Valid && len(arg.Entries) > 0
	})).Return(sqlcgen.ScoreboardSnapshot{}, nil).Twice()

	w := NewSnapshotWorker(board, store, time.Hour, 10, zerolog.Nop())

	wrote, err := w.Snapshot(context.Background())
	require.NoError(t, err)
	assert.True(t, wrote)

	wrote, err = w.Snapshot(context.Background())
	require.NoError(t, err)
	assert.False(t, wrote)

	board.set(sampleEntries()[:1])
	wrote, err = w.Snapshot(context.Background())
	require.NoError(t, err)
	assert.True(t, wrote)
	store.AssertExpectations(t)
}

func TestSnapshotWorkerEmptyBoard(t *testing.T) {
	store := new(mockSnapshotStore)
	w := NewSnapshotWorker(&fakeBoard{}, store, time.Hour, 10, zerolog.Nop())

	wrote, err := w.Snapshot(context.Background())
	require.NoError(t, err)
	assert.False(t, wrote)
	store.AssertNotCalled(t, "InsertScoreboardSnapshot", mock.Anything, mock.Anything)
}

func TestSnapshotWorkerRunStopsOnCancel(t *testing.T) {
	store := new(mockSnapshotStore)
	store.On("GetLatestScoreboardSnapshot", mock.Anything).Return(sqlcgen.ScoreboardSnapshot{}, pgx.ErrNoRows)
	w := NewSnapshotWorker(&fakeBoard{}, store, time.Hour, 10, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
