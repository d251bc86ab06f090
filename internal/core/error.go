package core

import "errors"

var (
	// ErrInputFormat marks a malformed square or promotion string
	ErrInputFormat = errors.New("invalid input")

	ErrNoPiece            = errors.New("no piece at square")
	ErrWrongColor         = errors.New("wrong color to move")
	ErrIllegalDestination = errors.New("illegal destination")
	ErrGameOver           = errors.New("game is over")

	ErrGameNotFound  = errors.New("game not found")
	ErrInvalidRecord = errors.New("invalid game record")
)

// Error codes
const (
	CodeInvalidInput    = "INVALID_INPUT"
	CodeNoPiece         = "NO_PIECE"
	CodeWrongColor      = "WRONG_COLOR"
	CodeIllegalMove     = "ILLEGAL_MOVE"
	CodeGameOver        = "GAME_OVER"
	CodeGameNotFound    = "GAME_NOT_FOUND"
	CodeInvalidRecord   = "INVALID_RECORD"
	CodeRateLimit       = "RATE_LIMIT_EXCEEDED"
	CodeInvalidContent  = "INVALID_CONTENT_TYPE"
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeStorageDisabled = "STORAGE_DISABLED"
	CodeInternalError   = "INTERNAL_ERROR"
)

var errorCodes = []struct {
	err  error
	code string
}{
	{ErrInputFormat, CodeInvalidInput},
	{ErrNoPiece, CodeNoPiece},
	{ErrWrongColor, CodeWrongColor},
	{ErrIllegalDestination, CodeIllegalMove},
	{ErrGameOver, CodeGameOver},
	{ErrGameNotFound, CodeGameNotFound},
	{ErrInvalidRecord, CodeInvalidRecord},
}

// ErrorCode maps an engine or service error to its wire code
func ErrorCode(err error) string {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return CodeInternalError
}
