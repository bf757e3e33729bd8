package postgres

import (
	"database/sql"

	"github.com/cockroachdb/errors"
)

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
