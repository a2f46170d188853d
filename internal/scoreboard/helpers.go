package scoreboard

import (
	"github.com/gokatarajesh/extreme-startup/internal/game"
	ws "github.com/gokatarajesh/extreme-startup/pkg/http/ws"
)

func toWSEntries(entries []Entry) []ws.ScoreboardEntry {
	result := make([]ws.ScoreboardEntry, len(entries))
	for i, e := range entries {
		result[i] = ws.ScoreboardEntry{
			Rank:          i + 1,
			PlayerID:      e.PlayerID.String(),
			Name:          e.Name,
			Score:         e.Score,
			Asked:         e.Asked,
			Correct:       e.Correct,
			Wrong:         e.Wrong,
			NoResponse:    e.NoResponse,
			ErrorResponse: e.ErrorResponse,
		}
	}
	return result
}

func toOutcomeSummary(o game.Outcome) *ws.OutcomeSummary {
	return &ws.OutcomeSummary{
		PlayerID:   o.PlayerID.String(),
		PlayerName: o.PlayerName,
		Kind:       string(o.Kind),
		Result:     string(o.Result),
		Points:     o.Points,
		Round:      o.Round,
	}
}
