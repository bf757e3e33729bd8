package division

import (
	"context"

	"github.com/leaguehq/league-server/internal/domain/storage"
)

// Repository describes division persistence needs.
type Repository interface {
	storage.Repository[Division]

	// ListByLeague flattens every division under the league's conferences.
	ListByLeague(ctx context.Context, leagueID int64) ([]Division, error)
	ListByConference(ctx context.Context, conferenceID int64) ([]Division, error)
	// GetByTeam resolves the single division owning the team. It fails with
	// storage.ErrNotFound when the team does not exist or its division link
	// cannot be resolved.
	GetByTeam(ctx context.Context, teamID int64) (Division, error)
}
