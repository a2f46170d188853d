package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	sqlcgen "github.com/gokatarajesh/extreme-startup/internal/db/sqlc"
	"github.com/gokatarajesh/extreme-startup/internal/game"
	"github.com/gokatarajesh/extreme-startup/internal/question"
)

type answerStore interface {
	InsertAnswer(ctx context.Context, arg sqlcgen.InsertAnswerParams) error
	ListAnswersByPlayer(ctx context.Context, arg sqlcgen.ListAnswersByPlayerParams) ([]sqlcgen.Answer, error)
}

// AnswerRepository is the append-only log of graded questions.
type AnswerRepository struct {
	store answerStore
}

var (
	_ game.Recorder     = (*AnswerRepository)(nil)
	_ game.AnswerLister = (*AnswerRepository)(nil)
)

func NewAnswerRepository(store answerStore) *AnswerRepository {
	return &AnswerRepository{store: store}
}

// sanitizeText makes a player's raw reply storable in a TEXT column, which
// rejects NUL bytes and invalid UTF-8.
func sanitizeText(s string) string {
	return strings.ReplaceAll(strings.ToValidUTF8(s, "\uFFFD"), "\x00", "")
}

// RecordOutcome appends one graded question. Unanswered questions store a NULL answer.
func (r *AnswerRepository) RecordOutcome(ctx context.Context, o game.Outcome) error {
	answered := o.Result == question.ResultCorrect || o.Result == question.ResultWrong
	err := r.store.InsertAnswer(ctx, sqlcgen.InsertAnswerParams{
		QuestionID: o.QuestionID,
		PlayerID:   pgUUID(o.PlayerID),
		Kind:       string(o.Kind),
		Question:   sanitizeText(o.Question),
		Answer:     pgtype.Text{String: sanitizeText(o.Answer), Valid: answered},
		Result:     string(o.Result),
		Points:     int32(o.Points),
		Round:      int32(o.Round),
		AskedAt:    pgTime(o.AskedAt),
	})
	if err != nil {
		return fmt.Errorf("insert answer %s: %w", o.QuestionID, err)
	}
	return nil
}

// ListAnswers returns the player's most recent answers, newest first.
func (r *AnswerRepository) ListAnswers(ctx context.Context, playerID uuid.UUID, limit int) ([]game.Outcome, error) {
	rows, err := r.store.ListAnswersByPlayer(ctx, sqlcgen.ListAnswersByPlayerParams{
		PlayerID: pgUUID(playerID),
		Limit:    int32(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}

	outcomes := make([]game.Outcome, 0, len(rows))
	for _, row := range rows {
		outcomes = append(outcomes, game.Outcome{
			PlayerID:   fromPGUUID(row.PlayerID),
			QuestionID: row.QuestionID,
			Kind:       question.Kind(row.Kind),
			Question:   row.Question,
			Answer:     row.Answer.String,
			Result:     question.Result(row.Result),
			Points:     int(row.Points),
			Round:      int(row.Round),
			AskedAt:    row.AskedAt.Time,
		})
	}
	return outcomes, nil
}
