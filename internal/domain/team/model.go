package team

import (
	"github.com/leaguehq/league-server/internal/domain/player"
	"github.com/leaguehq/league-server/internal/domain/storage"
	"github.com/leaguehq/league-server/internal/domain/validate"
)

// Team is a club competing inside a division. Teams are soft-deletable: a
// deleted team keeps its row and stays linked to its players.
type Team struct {
	storage.Model
	storage.SoftDelete

	DivisionID   int64  `db:"division_id" validate:"required"`
	Location     string `db:"location" validate:"max=100"`
	Name         string `db:"name" validate:"required,max=100"`
	Abbreviation string `db:"abbreviation" validate:"required,max=10"`

	Win           int `db:"win" validate:"min=0,max=500"`
	Loss          int `db:"loss" validate:"min=0,max=500"`
	Tie           int `db:"tie" validate:"min=0,max=500"`
	PointsFor     int `db:"points_for" validate:"min=0"`
	PointsAgainst int `db:"points_against" validate:"min=0"`

	Stadium   string  `db:"stadium" validate:"max=100"`
	Capacity  int     `db:"capacity" validate:"min=0,max=500000"`
	Address   string  `db:"address" validate:"max=200"`
	City      string  `db:"city" validate:"max=100"`
	State     string  `db:"state" validate:"max=50"`
	Zip       string  `db:"zip" validate:"max=20"`
	Latitude  float64 `db:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `db:"longitude" validate:"min=-180,max=180"`

	Players []player.Player `db:"-"`
}

func (t Team) Validate() error {
	return validate.Struct(t)
}
