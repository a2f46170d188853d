package errors

// Error codes for standardized error responses
const (
	// Authentication errors
	ErrCodeForbidden              = "forbidden"
	ErrCodeInvalidToken           = "invalid_token"
	ErrCodeTokenExpired           = "token_expired"
	ErrCodeAuthenticationRequired = "authentication_required"
	ErrCodeLoginFailed            = "login_failed"

	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"
	ErrCodeInvalidPlayerID  = "invalid_player_id"

	// Resource errors
	ErrCodePlayerNotFound = "player_not_found"
	ErrCodeNameTaken      = "name_taken"

	// Game errors
	ErrCodeAlreadyStarted      = "game_already_started"
	ErrCodeRoundNotSupported   = "round_not_supported"
	ErrCodeRemovalFailed       = "removal_failed"
	ErrCodeAnswersFetchFailed  = "answers_fetch_failed"
	ErrCodeScoreboardFailed    = "scoreboard_fetch_failed"
	ErrCodeScoreboardResetFail = "scoreboard_reset_failed"

	// WebSocket errors
	ErrCodeUnknownMessageType = "unknown_message_type"

	// Server errors
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"
)
