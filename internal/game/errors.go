package game

import (
	"errors"
	"fmt"

	"github.com/UnknownOlympus/bazaar/internal/repository"
)

var (
	// ErrInsufficientBalance is returned when the buyer cannot afford the product.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrNotEligible is returned when the product is inactive or not sold to the buyer's role.
	ErrNotEligible = errors.New("product is not available to this employee")
	// ErrNotAuthorized is returned when the caller may not perform the transition.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrAlreadyDecided is returned when the purchase has already been approved or rejected.
	ErrAlreadyDecided = errors.New("purchase already decided")
	// ErrNotApproved is returned when activating a purchase that is not approved.
	ErrNotApproved = errors.New("purchase is not approved")
	// ErrActivationExhausted is returned when all activations of a purchase are used.
	ErrActivationExhausted = errors.New("all activations are used")
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrStorageUnavailable is returned when the store cannot be reached.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrConflict is returned when a transition kept losing to concurrent writers.
	ErrConflict = errors.New("concurrent update conflict")
)

// InsufficientBalanceError carries the numbers behind ErrInsufficientBalance.
type InsufficientBalanceError struct {
	Balance int64
	Cost    int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: have %d, need %d", e.Balance, e.Cost)
}

func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}

// Kind is a stable, presentation-friendly error classification.
type Kind string

const (
	KindNone                Kind = ""
	KindInsufficientBalance Kind = "insufficient_balance"
	KindNotEligible         Kind = "not_eligible"
	KindNotAuthorized       Kind = "not_authorized"
	KindAlreadyDecided      Kind = "already_decided"
	KindNotApproved         Kind = "not_approved"
	KindActivationExhausted Kind = "activation_exhausted"
	KindNotFound            Kind = "not_found"
	KindStorageUnavailable  Kind = "storage_unavailable"
	KindConflict            Kind = "conflict"
	KindInternal            Kind = "internal"
)

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrInsufficientBalance, KindInsufficientBalance},
	{ErrNotEligible, KindNotEligible},
	{ErrNotAuthorized, KindNotAuthorized},
	{ErrAlreadyDecided, KindAlreadyDecided},
	{ErrNotApproved, KindNotApproved},
	{ErrActivationExhausted, KindActivationExhausted},
	{ErrNotFound, KindNotFound},
	{ErrStorageUnavailable, KindStorageUnavailable},
	{ErrConflict, KindConflict},
}

// KindOf classifies err. Unknown errors are KindInternal, nil is KindNone.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}

// fromStore maps storage sentinels onto engine errors, keeping the cause in the chain.
func fromStore(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, repository.ErrUnavailable):
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	case errors.Is(err, repository.ErrConflict), errors.Is(err, repository.ErrStaleState):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case errors.Is(err, repository.ErrInsufficientFunds):
		return fmt.Errorf("%w: %w", ErrInsufficientBalance, err)
	}
	return err
}

// retryable reports whether a failed conditional write should be retried after a re-read.
func retryable(err error) bool {
	return errors.Is(err, repository.ErrStaleState) || errors.Is(err, repository.ErrConflict)
}
