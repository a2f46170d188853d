package ws

import "encoding/json"

// MessageType constants for the scoreboard WebSocket protocol.
const (
	// Client -> Server
	TypeRequestSnapshot = "request_snapshot"
	TypePing            = "ping"

	// Server -> Client
	TypeScoreboardUpdate = "scoreboard_update"
	TypePong             = "pong"
	TypeError            = "error"
)

// Message wraps all WebSocket payloads with type and optional request ID.
type Message struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
}

// NewMessage marshals payload into a typed message.
func NewMessage(msgType string, payload any) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msgType, Payload: raw}, nil
}

// ScoreboardUpdatePayload is pushed after every graded question.
type ScoreboardUpdatePayload struct {
	Top  []ScoreboardEntry `json:"top"`
	Last *OutcomeSummary   `json:"last,omitempty"`
}

type ScoreboardEntry struct {
	Rank          int    `json:"rank"`
	PlayerID      string `json:"player_id"`
	Name          string `json:"name"`
	Score         int    `json:"score"`
	Asked         int    `json:"asked"`
	Correct       int    `json:"correct"`
	Wrong         int    `json:"wrong"`
	NoResponse    int    `json:"no_response"`
	ErrorResponse int    `json:"error_response"`
}

// OutcomeSummary describes the question that triggered an update.
type OutcomeSummary struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Kind       string `json:"kind"`
	Result     string `json:"result"`
	Points     int    `json:"points"`
	Round      int    `json:"round"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
