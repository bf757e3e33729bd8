package conference

import (
	"github.com/leaguehq/league-server/internal/domain/division"
	"github.com/leaguehq/league-server/internal/domain/storage"
	"github.com/leaguehq/league-server/internal/domain/validate"
)

// Conference groups divisions under a league.
type Conference struct {
	storage.Model

	LeagueID     int64  `db:"league_id" validate:"required"`
	Name         string `db:"name" validate:"required,max=100"`
	Abbreviation string `db:"abbreviation" validate:"required,max=10"`

	Divisions []division.Division `db:"-"`
}

func (c Conference) Validate() error {
	return validate.Struct(c)
}
