package domain

import "errors"

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrReconciliationFailed = errors.New("totals do not reconcile")
	ErrScoreOutOfBounds     = errors.New("score out of bounds")
	ErrDuplicateContract    = errors.New("contract already used by dealer")
	ErrComplianceNotMet     = errors.New("each non-dealer must double each dealer at least twice")
	ErrNothingToUndo        = errors.New("no hands to undo")
	ErrWrongPhase           = errors.New("operation not allowed in current phase")
	ErrGameComplete         = errors.New("game already complete")
	ErrInvalidPlayers       = errors.New("invalid players")
)
