package memory

import (
	"context"

	"github.com/leaguehq/league-server/internal/domain/league"
	"github.com/leaguehq/league-server/internal/domain/storage"
)

type LeagueRepository struct {
	*Collection[league.League, *league.League]
	store *Store
}

func (r *LeagueRepository) SearchByName(ctx context.Context, fragment string) ([]league.League, error) {
	return r.Find(ctx, storage.Contains("name", fragment))
}
