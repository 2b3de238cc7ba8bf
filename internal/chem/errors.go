package chem

import "errors"

// Sentinel errors for the construction-time failure modes of the model.
// All of them are wrapped with call-site context via fmt.Errorf and %w,
// so callers should test with errors.Is.
var (
	// ErrInvalidCombination is returned by Formula.BalanceCombine when the
	// two valences cannot neutralise each other (zero or same sign).
	ErrInvalidCombination = errors.New("chem: invalid formula combination")

	// ErrUnbalanceable is returned by BalanceReaction when the conservation
	// system has no unique solution for the given substances.
	ErrUnbalanceable = errors.New("chem: reaction cannot be balanced")

	// ErrSubstanceMismatch is returned by Matter.Merge and Matter.Remove
	// when the two quantities hold different substances. This is a caller
	// bug, not a runtime condition.
	ErrSubstanceMismatch = errors.New("chem: matter substances do not match")

	// ErrEmptyReactionSet is returned by BalanceReaction when called with
	// no substances at all.
	ErrEmptyReactionSet = errors.New("chem: no substances to balance")
)
