package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInsufficientFunds is returned when a debit would make the balance negative.
	ErrInsufficientFunds = errors.New("insufficient funds for debit")
	// ErrStaleState is returned when a conditional update matched no row because the
	// purchase is no longer in the expected state.
	ErrStaleState = errors.New("purchase state changed concurrently")
	// ErrConflict is returned when the database aborted the statement because of a
	// concurrent transaction (serialization failure, deadlock, lock timeout).
	ErrConflict = errors.New("concurrent write conflict")
	// ErrUnavailable is returned when the database cannot be reached.
	ErrUnavailable = errors.New("storage unavailable")
	// ErrEmptyUpdate is returned when a purchase update carries no change.
	ErrEmptyUpdate = errors.New("empty purchase update")
)

// classify maps driver errors onto the repository sentinels, keeping the original
// error in the chain.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected, pgerrcode.LockNotAvailable:
			return fmt.Errorf("%w: %w", ErrConflict, err)
		case pgerrcode.AdminShutdown, pgerrcode.CrashShutdown, pgerrcode.CannotConnectNow,
			pgerrcode.ConnectionFailure, pgerrcode.ConnectionException, pgerrcode.TooManyConnections:
			return fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		return err
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || pgconn.Timeout(err) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	return err
}
