package app

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/extreme-startup/internal/config"
	"github.com/gokatarajesh/extreme-startup/internal/question"
	"github.com/gokatarajesh/extreme-startup/internal/question/external"
)

const defaultTriviaTimeout = 6 * time.Second

type triviaSource struct {
	name    string
	amount  int
	fetcher question.TriviaFetcher
}

// triviaSources lists the configured upstream trivia APIs, each behind the Redis cache.
func triviaSources(cfg *config.App, client *redis.Client) []triviaSource {
	httpClient := &http.Client{Timeout: cfg.Trivia.FetchTimeout}
	cache := question.NewTriviaCache(client, cfg.Trivia.CacheTTL)

	var sources []triviaSource
	if cfg.Trivia.OpenTDBAmount > 0 {
		sources = append(sources, triviaSource{
			name:   "opentdb",
			amount: cfg.Trivia.OpenTDBAmount,
			fetcher: question.CachedFetcher{
				Source:  "opentdb",
				Fetcher: external.NewOpenTDBClient(cfg.Trivia.OpenTDBURL, httpClient),
				Cache:   cache,
			},
		})
	}
	if cfg.Trivia.TriviaAPIAmount > 0 {
		sources = append(sources, triviaSource{
			name:   "triviaapi",
			amount: cfg.Trivia.TriviaAPIAmount,
			fetcher: question.CachedFetcher{
				Source:  "triviaapi",
				Fetcher: external.NewTriviaAPIClient(cfg.Trivia.TriviaAPIURL, cfg.Trivia.TriviaAPIKey, httpClient),
				Cache:   cache,
			},
		})
	}
	return sources
}

// fetchTrivia collects extra trivia from every source. A failing source is
// logged and skipped; the compiled-in bank always remains available.
func fetchTrivia(ctx context.Context, sources []triviaSource, cfg config.Trivia, logger zerolog.Logger) []question.TriviaItem {
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = defaultTriviaTimeout
	}
	var out []question.TriviaItem
	for _, src := range sources {
		fetchCtx, cancel := context.WithTimeout(ctx, timeout)
		items, err := src.fetcher.FetchTrivia(fetchCtx, src.amount, cfg.Difficulty)
		cancel()
		if err != nil {
			logger.Warn().Err(err).Str("source", src.name).Msg("trivia fetch failed")
			continue
		}
		out = append(out, items...)
	}
	return out
}
