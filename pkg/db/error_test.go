package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsDuplicateKeyErr(t *testing.T) {
	assert.False(t, IsDuplicateKeyErr(nil))
	assert.False(t, IsDuplicateKeyErr(errors.New("connection refused")))
	assert.False(t, IsDuplicateKeyErr(gorm.ErrRecordNotFound))

	assert.True(t, IsDuplicateKeyErr(gorm.ErrDuplicatedKey))
	assert.True(t, IsDuplicateKeyErr(fmt.Errorf("query: %w", gorm.ErrDuplicatedKey)))

	// Driver messages per dialect.
	assert.True(t, IsDuplicateKeyErr(errors.New(
		`ERROR: duplicate key value violates unique constraint "ux_ticket_types_name" (SQLSTATE 23505)`,
	)))
	assert.True(t, IsDuplicateKeyErr(errors.New(
		"Error 1062 (23000): Duplicate entry 'ficha 24h' for key 'ux_ticket_types_name'",
	)))
	assert.True(t, IsDuplicateKeyErr(errors.New(
		"constraint failed: UNIQUE constraint failed: index 'ux_ticket_types_name' (2067)",
	)))
}
