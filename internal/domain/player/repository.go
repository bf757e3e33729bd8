package player

import (
	"context"

	"github.com/leaguehq/league-server/internal/domain/storage"
)

// Repository describes player persistence needs.
type Repository interface {
	storage.Repository[Player]

	ListByTeam(ctx context.Context, teamID int64) ([]Player, error)
	ListByDivision(ctx context.Context, divisionID int64) ([]Player, error)
	ListByConference(ctx context.Context, conferenceID int64) ([]Player, error)
	ListByLeague(ctx context.Context, leagueID int64) ([]Player, error)
	ListByPosition(ctx context.Context, position Position) ([]Player, error)
}
