package rules

import "chessrules/internal/core"

// Evaluate computes the status of the side to move: checkmate when attacked
// without a legal move, stalemate when not attacked without a legal move,
// check when attacked with moves left. The rules never produce a draw.
func Evaluate(pos *Position) core.Status {
	c := pos.Turn
	check := InCheck(&pos.Board, c)
	canMove := HasLegalMove(pos, c)

	switch {
	case check && !canMove:
		return core.Checkmate(c)
	case !canMove:
		return core.Stalemate()
	case check:
		return core.Check(c)
	}
	return core.InProgress()
}
