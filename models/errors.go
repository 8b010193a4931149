package models

import "errors"

// Error taxonomy reported synchronously to callers. None of these are
// retried inside the core; retry policy belongs to the caller.
var (
	// ErrInvalidWager: bad stake (non-positive or above the table's max
	// bet). Rejected before any funds move.
	ErrInvalidWager = errors.New("invalid wager")

	// ErrInvalidSelection: selection outside the game's valid domain.
	ErrInvalidSelection = errors.New("invalid selection")

	// ErrInsufficientFunds: the player cannot cover the stake or fee.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrTableNotFound: no table with the given id.
	ErrTableNotFound = errors.New("table not found")

	// ErrUnauthorized: a non-owner attempted an owner-only mutation, or
	// someone other than the dispossessed owner tried to resolve a
	// buy-back offer.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrOfferNotFound: no buy-back offer with the given id.
	ErrOfferNotFound = errors.New("buy-back offer not found")

	// ErrOfferExpired: the offer's window passed before the decision.
	ErrOfferExpired = errors.New("buy-back offer expired")

	// ErrOfferAlreadyResolved: a second accept/reject on a resolved
	// offer.
	ErrOfferAlreadyResolved = errors.New("buy-back offer already resolved")

	// ErrOfferPending: an ownership mutation that would orphan a
	// pending buy-back offer.
	ErrOfferPending = errors.New("buy-back offer pending")

	// ErrConcurrentModification: lost a race against another mutation
	// of the same table. Safe to retry the whole operation from
	// scratch; settlement is all-or-nothing.
	ErrConcurrentModification = errors.New("concurrent modification")

	// ErrHandNotFound: no pending poker hand with the given id.
	ErrHandNotFound = errors.New("poker hand not found")

	// ErrHandAlreadySettled: a second draw on a settled poker hand.
	ErrHandAlreadySettled = errors.New("poker hand already settled")
)
