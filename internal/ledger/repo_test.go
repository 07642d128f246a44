package ledger

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapInsertErrorUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "gl_entries_voucher_key"}
	err := mapInsertError(fmt.Errorf("exec insert: %w", pgErr))

	assert.ErrorIs(t, err, ErrDuplicateEntry)
}

func TestMapInsertErrorPassesOtherErrors(t *testing.T) {
	fkErr := &pgconn.PgError{Code: "23503"}
	assert.NotErrorIs(t, mapInsertError(fkErr), ErrDuplicateEntry)

	plain := errors.New("connection reset")
	assert.Equal(t, plain, mapInsertError(plain))

	assert.NoError(t, mapInsertError(nil))
}
