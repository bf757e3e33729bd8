package memory

import (
	"context"

	"github.com/leaguehq/league-server/internal/domain/storage"
	"github.com/leaguehq/league-server/internal/domain/team"
)

type TeamRepository struct {
	*Collection[team.Team, *team.Team]
	store *Store
}

func (r *TeamRepository) ListByDivision(ctx context.Context, divisionID int64) ([]team.Team, error) {
	return r.Find(ctx, storage.Eq("division_id", divisionID))
}

func (r *TeamRepository) ListByConference(ctx context.Context, conferenceID int64) ([]team.Team, error) {
	divisionIDs, err := r.store.divisionIDsByConference(ctx, conferenceID)
	if err != nil {
		return nil, err
	}
	return r.Find(ctx, storage.In("division_id", divisionIDs...))
}

func (r *TeamRepository) ListByLeague(ctx context.Context, leagueID int64) ([]team.Team, error) {
	divisionIDs, err := r.store.divisionIDsByLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	return r.Find(ctx, storage.In("division_id", divisionIDs...))
}
