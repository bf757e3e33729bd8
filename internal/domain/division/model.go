package division

import (
	"github.com/leaguehq/league-server/internal/domain/storage"
	"github.com/leaguehq/league-server/internal/domain/team"
	"github.com/leaguehq/league-server/internal/domain/validate"
)

// Division groups teams under a conference.
type Division struct {
	storage.Model

	ConferenceID int64  `db:"conference_id" validate:"required"`
	Name         string `db:"name" validate:"required,max=100"`
	Abbreviation string `db:"abbreviation" validate:"required,max=10"`

	Teams []team.Team `db:"-"`
}

func (d Division) Validate() error {
	return validate.Struct(d)
}
