package external

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/extreme-startup/internal/question"
)

func TestPlayerClientReturnsBodyAndStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte("7"))
	}))
	defer srv.Close()

	c := NewPlayerClient(time.Second, nil)

	resp, err := c.Dispatch(context.Background(), srv.URL+"?q=abc")
	require.NoError(t, err)
	assert.True(t, resp.Success())
	assert.Equal(t, "7", resp.Body)

	resp, err = c.Dispatch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.False(t, resp.Success())
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPlayerClientTransportFailures(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer slow.Close()

	c := NewPlayerClient(20*time.Millisecond, nil)
	_, err := c.Dispatch(context.Background(), slow.URL)
	assert.Error(t, err)

	closed := httptest.NewServer(http.NotFoundHandler())
	addr := closed.URL
	closed.Close()
	_, err = c.Dispatch(context.Background(), addr)
	assert.Error(t, err)
}

func TestPlayerClientCapsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", defaultMaxBody+100)))
	}))
	defer srv.Close()

	resp, err := NewPlayerClient(time.Second, nil).Dispatch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, resp.Body, defaultMaxBody)
}

func TestAskThroughPlayerClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("Team Seven\n"))
	}))
	defer srv.Close()

	player := question.Player{Name: "team seven", URL: srv.URL}
	q := question.WarmupSource{}.NextQuestion(player)
	require.NoError(t, q.Ask(context.Background(), NewPlayerClient(time.Second, nil), player))
	assert.Equal(t, question.ResultCorrect, q.Result())
}

func TestOpenTDBFetchTrivia(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api.php", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("amount"))
		assert.Equal(t, "multiple", r.URL.Query().Get("type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response_code":0,"results":[
			{"question":"Who wrote &quot;Hamlet&quot;?","correct_answer":"Shakespeare"},
			{"question":"","correct_answer":"skip"}]}`))
	}))
	defer srv.Close()

	items, err := NewOpenTDBClient(srv.URL, nil).FetchTrivia(context.Background(), 2, "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, `Who wrote "Hamlet"?`, items[0].Question)
	assert.Equal(t, "Shakespeare", items[0].Answer)
}

func TestOpenTDBErrorCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response_code":1,"results":[]}`))
	}))
	defer srv.Close()

	_, err := NewOpenTDBClient(srv.URL, nil).Fetch(context.Background(), 1, "")
	assert.ErrorContains(t, err, "response code 1")
}

func TestTriviaAPIFetchTrivia(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/questions", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("limit"))
		assert.Equal(t, "general_knowledge", r.URL.Query().Get("categories"))
		assert.Equal(t, "secret", r.Header.Get("X-API-Key"))
		_, _ = w.Write([]byte(`[
			{"question":"What is the capital of Peru?","correctAnswer":"Lima"},
			{"question":"No answer","correctAnswer":" "}]`))
	}))
	defer srv.Close()

	items, err := NewTriviaAPIClient(srv.URL+"/", "secret", nil).FetchTrivia(context.Background(), 3, "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, question.TriviaItem{Question: "What is the capital of Peru?", Answer: "Lima"}, items[0])
}

func TestTriviaAPIStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewTriviaAPIClient(srv.URL, "", nil).FetchTrivia(context.Background(), 1, "")
	assert.ErrorContains(t, err, "429")
}
