package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// WrapTx runs f inside a transaction which is committed only if f
// succeeds. Any error from f rolls the transaction back and is returned
// unwrapped, so callers can still match sentinel errors.
func WrapTx(db *sqlx.DB, f func(tx *sqlx.Tx) error) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := f(tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			dbLogger.Warnf("Rollback failed: %v (original error: %v)\n", rollbackErr, err)
		}

		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
