package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/gokatarajesh/extreme-startup/internal/config"
	"github.com/gokatarajesh/extreme-startup/internal/question"
)

type fetcherFunc func(ctx context.Context, amount int, difficulty string) ([]question.TriviaItem, error)

func (f fetcherFunc) FetchTrivia(ctx context.Context, amount int, difficulty string) ([]question.TriviaItem, error) {
	return f(ctx, amount, difficulty)
}

func TestFetchTriviaSkipsFailingSources(t *testing.T) {
	var gotAmount int
	var gotDifficulty string
	sources := []triviaSource{
		{name: "broken", amount: 5, fetcher: fetcherFunc(func(ctx context.Context, amount int, difficulty string) ([]question.TriviaItem, error) {
			return nil, errors.New("down")
		})},
		{name: "ok", amount: 2, fetcher: fetcherFunc(func(ctx context.Context, amount int, difficulty string) ([]question.TriviaItem, error) {
			gotAmount, gotDifficulty = amount, difficulty
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			return []question.TriviaItem{{Question: "q", Answer: "a"}}, nil
		})},
	}

	items := fetchTrivia(context.Background(), sources, config.Trivia{Difficulty: "hard", FetchTimeout: time.Second}, zerolog.Nop())
	assert.Equal(t, []question.TriviaItem{{Question: "q", Answer: "a"}}, items)
	assert.Equal(t, 2, gotAmount)
	assert.Equal(t, "hard", gotDifficulty)
}

func TestTriviaSourcesHonorAmounts(t *testing.T) {
	cfg := &config.App{Trivia: config.Trivia{OpenTDBAmount: 0, TriviaAPIAmount: 3}}
	sources := triviaSources(cfg, nil)
	if assert.Len(t, sources, 1) {
		assert.Equal(t, "triviaapi", sources[0].name)
		assert.Equal(t, 3, sources[0].amount)
	}
}
