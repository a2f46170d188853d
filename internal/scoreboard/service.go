package scoreboard

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/extreme-startup/internal/game"
	"github.com/gokatarajesh/extreme-startup/internal/logging"
	ws "github.com/gokatarajesh/extreme-startup/pkg/http/ws"
)

// Meta hash fields. Result counters use the result name as the field.
const (
	fieldName  = "name"
	fieldAsked = "asked"
)

// Entry is one player's standing.
type Entry struct {
	PlayerID      uuid.UUID `json:"player_id"`
	Name          string    `json:"name"`
	Score         int       `json:"score"`
	Asked         int       `json:"asked"`
	Correct       int       `json:"correct"`
	Wrong         int       `json:"wrong"`
	NoResponse    int       `json:"no_response"`
	ErrorResponse int       `json:"error_response"`
}

// ServiceOptions configures scoreboard service behavior.
type ServiceOptions struct {
	TopN          int
	PubSubChannel string
	KeyPrefix     string
}

// Service keeps running totals in Redis and emits updates over Pub/Sub.
type Service struct {
	redis         *redis.Client
	logger        zerolog.Logger
	topN          int
	pubsubChannel string
	prefix        string
}

var _ game.Recorder = (*Service)(nil)

// NewService constructs a scoreboard service instance.
func NewService(redis *redis.Client, logger zerolog.Logger, opts ServiceOptions) *Service {
	topN := opts.TopN
	if topN <= 0 {
		topN = 50
	}
	channel := opts.PubSubChannel
	if channel == "" {
		channel = "scoreboard:updates"
	}
	prefix := opts.KeyPrefix
	if prefix == "" {
		prefix = "scoreboard"
	}

	return &Service{
		redis:         redis,
		logger:        logging.Component(logger, "scoreboard"),
		topN:          topN,
		pubsubChannel: channel,
		prefix:        prefix,
	}
}

// Channel is the Pub/Sub channel updates are published on.
func (s *Service) Channel() string { return s.pubsubChannel }

// RecordOutcome adds the outcome's points and bumps the player's counters.
func (s *Service) RecordOutcome(ctx context.Context, o game.Outcome) error {
	member := o.PlayerID.String()
	metaKey := s.metaKey(o.PlayerID)

	pipe := s.redis.TxPipeline()
	pipe.ZIncrBy(ctx, s.scoresKey(), float64(o.Points), member)
	pipe.HIncrBy(ctx, metaKey, fieldAsked, 1)
	pipe.HIncrBy(ctx, metaKey, string(o.Result), 1)
	pipe.HSet(ctx, metaKey, fieldName, o.PlayerName)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("update scoreboard for %s: %w", o.PlayerName, err)
	}

	go s.publishUpdate(context.WithoutCancel(ctx), o)
	return nil
}

// Top returns up to limit entries ordered by score, highest first.
func (s *Service) Top(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > s.topN {
		limit = s.topN
	}

	results, err := s.redis.ZRevRangeWithScores(ctx, s.scoresKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("fetch scoreboard: %w", err)
	}

	entries := make([]Entry, 0, len(results))
	for _, z := range results {
		member, _ := z.Member.(string)
		id, err := uuid.Parse(member)
		if err != nil {
			s.logger.Warn().Str("member", member).Msg("skipping malformed scoreboard member")
			continue
		}
		data, err := s.redis.HGetAll(ctx, s.metaKey(id)).Result()
		if err != nil {
			s.logger.Warn().Err(err).Msg("failed to read scoreboard metadata")
			continue
		}
		entry := entryFromMeta(id, data)
		entry.Score = int(z.Score)
		entries = append(entries, entry)
	}
	return entries, nil
}

// Reset wipes every score and counter.
func (s *Service) Reset(ctx context.Context) error {
	keys := []string{s.scoresKey()}
	iter := s.redis.Scan(ctx, 0, s.prefix+":meta:*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan scoreboard keys: %w", err)
	}
	if err := s.redis.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("reset scoreboard: %w", err)
	}
	s.logger.Info().Int("keys", len(keys)).Msg("scoreboard reset")
	go s.publishUpdate(context.WithoutCancel(ctx), game.Outcome{})
	return nil
}

// Snapshot is the payload pushed to viewers.
func (s *Service) Snapshot(ctx context.Context, limit int) (ws.ScoreboardUpdatePayload, error) {
	entries, err := s.Top(ctx, limit)
	if err != nil {
		return ws.ScoreboardUpdatePayload{}, err
	}
	return ws.ScoreboardUpdatePayload{Top: toWSEntries(entries)}, nil
}

func (s *Service) publishUpdate(ctx context.Context, o game.Outcome) {
	payload, err := s.Snapshot(ctx, s.topN)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to collect scoreboard update")
		return
	}
	if o.PlayerID != uuid.Nil {
		payload.Last = toOutcomeSummary(o)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to marshal scoreboard update")
		return
	}
	if err := s.redis.Publish(ctx, s.pubsubChannel, data).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish scoreboard update")
	}
}

func (s *Service) scoresKey() string {
	return s.prefix + ":scores"
}

func (s *Service) metaKey(playerID uuid.UUID) string {
	return fmt.Sprintf("%s:meta:%s", s.prefix, playerID.String())
}

func entryFromMeta(id uuid.UUID, data map[string]string) Entry {
	return Entry{
		PlayerID:      id,
		Name:          data[fieldName],
		Asked:         parseInt(data[fieldAsked]),
		Correct:       parseInt(data["correct"]),
		Wrong:         parseInt(data["wrong"]),
		NoResponse:    parseInt(data["no_response"]),
		ErrorResponse: parseInt(data["error_response"]),
	}
}

func parseInt(val string) int {
	if val == "" {
		return 0
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return i
}
