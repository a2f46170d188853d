package scoreboard

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"

	sqlcgen "github.com/gokatarajesh/extreme-startup/internal/db/sqlc"
	"github.com/gokatarajesh/extreme-startup/internal/logging"
	ws "github.com/gokatarajesh/extreme-startup/pkg/http/ws"
)

type snapshotStore interface {
	InsertScoreboardSnapshot(ctx context.Context, arg sqlcgen.InsertScoreboardSnapshotParams) (sqlcgen.ScoreboardSnapshot, error)
	GetLatestScoreboardSnapshot(ctx context.Context) (sqlcgen.ScoreboardSnapshot, error)
}

type topReader interface {
	Top(ctx context.Context, limit int) ([]Entry, error)
}

// SnapshotWorker periodically persists the Redis scoreboard into Postgres.
// Unchanged boards are not written again.
type SnapshotWorker struct {
	board    topReader
	store    snapshotStore
	logger   zerolog.Logger
	interval time.Duration
	topN     int
	lastHash string
}

func NewSnapshotWorker(board topReader, store snapshotStore, interval time.Duration, topN int, logger zerolog.Logger) *SnapshotWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	if topN <= 0 {
		topN = 50
	}
	return &SnapshotWorker{
		board:    board,
		store:    store,
		logger:   logging.Component(logger, "scoreboard_snapshot_worker"),
		interval: interval,
		topN:     topN,
	}
}

// Run blocks until context cancellation.
func (w *SnapshotWorker) Run(ctx context.Context) error {
	if w.board == nil || w.store == nil {
		return nil
	}

	if latest, err := w.store.GetLatestScoreboardSnapshot(ctx); err == nil {
		w.lastHash = latest.SourceHash
	} else if !errors.Is(err, pgx.ErrNoRows) {
		w.logger.Warn().Err(err).Msg("failed to read latest snapshot")
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.Snapshot(ctx); err != nil {
				w.logger.Warn().Err(err).Msg("snapshot failed")
			}
		}
	}
}

// Snapshot persists the current top entries and reports whether a row was written.
func (w *SnapshotWorker) Snapshot(ctx context.Context) (bool, error) {
	entries, err := w.board.Top(ctx, w.topN)
	if err != nil {
		return false, err
	}
	if len(entries) == 0 {
		return false, nil
	}

	wsEntries := toWSEntries(entries)
	data, err := json.Marshal(wsEntries)
	if err != nil {
		return false, err
	}

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])
	if hash == w.lastHash {
		return false, nil
	}

	now := time.Now().UTC()
	if _, err := w.store.InsertScoreboardSnapshot(ctx, sqlcgen.InsertScoreboardSnapshotParams{
		GeneratedAt: pgtype.Timestamptz{Time: now, Valid: true},
		Entries:     data,
		SourceHash:  hash,
	}); err != nil {
		return false, err
	}
	w.lastHash = hash

	w.logger.Info().
		Int("entries", len(wsEntries)).
		Time("generated_at", now).
		Msg("scoreboard snapshot persisted")
	return true, nil
}

// LatestSnapshot decodes the most recent persisted scoreboard.
func LatestSnapshot(ctx context.Context, store snapshotStore) ([]ws.ScoreboardEntry, time.Time, error) {
	row, err := store.GetLatestScoreboardSnapshot(ctx)
	if err != nil {
		return nil, time.Time{}, err
	}
	var entries []ws.ScoreboardEntry
	if err := json.Unmarshal(row.Entries, &entries); err != nil {
		return nil, time.Time{}, err
	}
	return entries, row.GeneratedAt.Time, nil
}
