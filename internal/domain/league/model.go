package league

import (
	"github.com/leaguehq/league-server/internal/domain/conference"
	"github.com/leaguehq/league-server/internal/domain/storage"
	"github.com/leaguehq/league-server/internal/domain/validate"
)

// League is the root of the organization hierarchy.
type League struct {
	storage.Model

	Name         string `db:"name" validate:"required,max=100"`
	Abbreviation string `db:"abbreviation" validate:"required,max=10"`

	// Conferences is populated by eager loads, never persisted directly.
	Conferences []conference.Conference `db:"-"`
}

func (l League) Validate() error {
	return validate.Struct(l)
}
