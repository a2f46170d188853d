package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	sqlcgen "github.com/gokatarajesh/extreme-startup/internal/db/sqlc"
	"github.com/gokatarajesh/extreme-startup/internal/game"
)

type playerStore interface {
	UpsertPlayer(ctx context.Context, arg sqlcgen.UpsertPlayerParams) error
	DeletePlayer(ctx context.Context, playerID pgtype.UUID) error
	ListPlayers(ctx context.Context) ([]sqlcgen.Player, error)
}

// PlayerRepository persists registrations so a restarted game master can
// resume quizzing the same teams.
type PlayerRepository struct {
	store playerStore
}

var _ game.PlayerStore = (*PlayerRepository)(nil)

func NewPlayerRepository(store playerStore) *PlayerRepository {
	return &PlayerRepository{store: store}
}

// SavePlayer inserts or updates a registration.
func (r *PlayerRepository) SavePlayer(ctx context.Context, p game.Player) error {
	return r.store.UpsertPlayer(ctx, sqlcgen.UpsertPlayerParams{
		PlayerID:  pgUUID(p.ID),
		Name:      p.Name,
		Url:       p.URL,
		CreatedAt: pgTime(p.CreatedAt),
	})
}

func (r *PlayerRepository) DeletePlayer(ctx context.Context, id uuid.UUID) error {
	return r.store.DeletePlayer(ctx, pgUUID(id))
}

// ListPlayers returns stored registrations in registration order.
func (r *PlayerRepository) ListPlayers(ctx context.Context) ([]game.Player, error) {
	rows, err := r.store.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	players := make([]game.Player, 0, len(rows))
	for _, row := range rows {
		players = append(players, game.Player{
			ID:        fromPGUUID(row.PlayerID),
			Name:      row.Name,
			URL:       row.Url,
			CreatedAt: row.CreatedAt.Time,
		})
	}
	return players, nil
}
