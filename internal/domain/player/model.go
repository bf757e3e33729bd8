package player

import (
	"time"

	"github.com/leaguehq/league-server/internal/domain/storage"
	"github.com/leaguehq/league-server/internal/domain/validate"
)

// Position is the on-field role a player lines up at.
type Position string

const (
	PositionQuarterback  Position = "QB"
	PositionRunningBack  Position = "RB"
	PositionWideReceiver Position = "WR"
	PositionTightEnd     Position = "TE"
	PositionKicker       Position = "K"
)

// Player is an athlete on a team roster. The team link may be unset while a
// player is between assignments. Players are soft-deletable.
type Player struct {
	storage.Model
	storage.SoftDelete

	TeamID   *int64   `db:"team_id"`
	Number   int      `db:"number" validate:"min=0,max=99"`
	Position Position `db:"position" validate:"max=20"`
	Name     string   `db:"name" validate:"required,max=100"`

	Height    *int       `db:"height" validate:"omitempty,min=0,max=300"`
	Weight    *int       `db:"weight" validate:"omitempty,min=0,max=500"`
	Age       *int       `db:"age" validate:"omitempty,min=0,max=100"`
	BirthDate *time.Time `db:"birth_date"`

	Experience string `db:"experience" validate:"max=50"`
	DraftYear  *int   `db:"draft_year" validate:"omitempty,min=1900,max=2100"`
	DraftRound *int   `db:"draft_round" validate:"omitempty,min=0,max=50"`
	DraftPick  *int   `db:"draft_pick" validate:"omitempty,min=0,max=500"`
	College    string `db:"college" validate:"max=100"`
	State      string `db:"state" validate:"max=50"`

	Rank   *int `db:"rank" validate:"omitempty,min=0"`
	Rating *int `db:"rating" validate:"omitempty,min=0,max=100"`
	Depth  *int `db:"depth" validate:"omitempty,min=0,max=10"`
}

func (p Player) Validate() error {
	return validate.Struct(p)
}
