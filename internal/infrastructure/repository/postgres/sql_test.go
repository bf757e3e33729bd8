package postgres

import (
	"database/sql"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestIsNoRows(t *testing.T) {
	t.Run("matches bare ErrNoRows", func(t *testing.T) {
		if !isNoRows(sql.ErrNoRows) {
			t.Fatalf("expected true for sql.ErrNoRows")
		}
	})

	t.Run("matches wrapped ErrNoRows", func(t *testing.T) {
		if !isNoRows(errors.Wrap(sql.ErrNoRows, "select league by id")) {
			t.Fatalf("expected true for wrapped sql.ErrNoRows")
		}
	})

	t.Run("ignores unrelated error", func(t *testing.T) {
		if isNoRows(errors.New("connection reset")) {
			t.Fatalf("expected false for unrelated error")
		}
	})
}
