package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestViolationClassification(t *testing.T) {
	fk := fmt.Errorf("delete: %w", &pgconn.PgError{Code: "23503", ConstraintName: "fk_order_lines_beer"})
	unique := &pgconn.PgError{Code: "23505"}

	require.True(t, IsForeignKeyViolation(fk))
	require.False(t, IsUniqueViolation(fk))
	require.Equal(t, "fk_order_lines_beer", ConstraintName(fk))

	require.True(t, IsUniqueViolation(unique))
	require.False(t, IsForeignKeyViolation(errors.New("connection refused")))
	require.Empty(t, ConstraintName(errors.New("x")))
}
