package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/extreme-startup/internal/auth"
	"github.com/gokatarajesh/extreme-startup/internal/auth/jwt"
	"github.com/gokatarajesh/extreme-startup/internal/config"
	"github.com/gokatarajesh/extreme-startup/internal/game"
	"github.com/gokatarajesh/extreme-startup/internal/metrics"
	"github.com/gokatarajesh/extreme-startup/internal/question"
	"github.com/gokatarajesh/extreme-startup/internal/scoreboard"
	ws "github.com/gokatarajesh/extreme-startup/pkg/http/ws"
)

type silentDispatcher struct{}

func (silentDispatcher) Dispatch(context.Context, string) (question.Response, error) {
	return question.Response{StatusCode: http.StatusOK}, nil
}

type emptyBoard struct{}

func (emptyBoard) Top(context.Context, int) ([]scoreboard.Entry, error) { return nil, nil }
func (emptyBoard) Reset(context.Context) error                          { return nil }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := zerolog.Nop()

	banks, err := question.DefaultBanks()
	require.NoError(t, err)
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	master := game.NewMaster(func() question.Source {
		return question.NewFactory(banks, question.NewRand(1))
	}, silentDispatcher{}, game.Options{DelayUnit: time.Hour, Metrics: collector}, logger)
	t.Cleanup(master.Shutdown)

	authSvc, err := auth.NewService(auth.ServiceOptions{
		AdminPassword: "letmein123",
		TokenConfig:   jwt.TokenConfig{Secret: []byte("s")},
	}, logger)
	require.NoError(t, err)

	srv := NewHTTPServer(&config.App{HTTPAddr: "127.0.0.1:0"}, logger, Dependencies{
		Gatherer:   reg,
		Game:       game.NewHTTPHandler(master, nil, logger),
		Scoreboard: scoreboard.NewHTTPHandler(emptyBoard{}, nil, ws.NewHub(logger), WSUpgrader, 10, logger),
		Auth:       auth.NewHTTPHandlers(authSvc, logger),
		AuthSvc:    authSvc,
	})

	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestReadyzWithoutDependencies(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/readyz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestReadyzReportsUnreachableRedis(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 200 * time.Millisecond})
	t.Cleanup(func() { client.Close() })

	ts := httptest.NewServer(withRequestLogging(NewRouter(logger, Dependencies{Redis: client}), logger))

	resp, err := http.Get(ts.URL + "/readyz")
	require.NoError(t, err)
	resp.Body.Close()
	ts.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, buf.String(), "dependency ping failed")
}

func TestAdminRoutesRequireToken(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/v1/admin/start", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = http.Post(ts.URL+"/v1/admin/login", "application/json", strings.NewReader(`{"password":"letmein123"}`))
	require.NoError(t, err)
	var token auth.Token
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&token))
	resp.Body.Close()

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/v1/admin/start", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	var body strings.Builder
	_, err = body.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, body.String(), "gamemaster_round 1")
}

func TestPublicPlayerRoutes(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/v1/players", "application/json", strings.NewReader(`{"name":"Ada","url":"http://localhost:9999/"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/v1/scoreboard")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestScoreboardWebSocketThroughMiddleware(t *testing.T) {
	ts := newTestServer(t)

	c, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws/scoreboard", nil)
	require.NoError(t, err)
	defer c.Close()

	c.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg ws.Message
	require.NoError(t, c.ReadJSON(&msg))
	assert.Equal(t, ws.TypeScoreboardUpdate, msg.Type)
}
