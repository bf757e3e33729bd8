package memory

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/leaguehq/league-server/internal/domain/division"
	"github.com/leaguehq/league-server/internal/domain/storage"
)

type DivisionRepository struct {
	*Collection[division.Division, *division.Division]
	store *Store
}

func (r *DivisionRepository) ListByLeague(ctx context.Context, leagueID int64) ([]division.Division, error) {
	conferenceIDs, err := r.store.conferenceIDsByLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	return r.Find(ctx, storage.In("conference_id", conferenceIDs...))
}

func (r *DivisionRepository) ListByConference(ctx context.Context, conferenceID int64) ([]division.Division, error) {
	return r.Find(ctx, storage.Eq("conference_id", conferenceID))
}

func (r *DivisionRepository) GetByTeam(ctx context.Context, teamID int64) (division.Division, error) {
	t, ok, err := r.store.Teams.GetByID(ctx, teamID)
	if err != nil {
		return division.Division{}, err
	}
	if !ok {
		return division.Division{}, errors.Wrapf(storage.ErrNotFound, "division for team %d", teamID)
	}

	d, ok, err := r.GetByID(ctx, t.DivisionID)
	if err != nil {
		return division.Division{}, err
	}
	if !ok {
		return division.Division{}, errors.Wrapf(storage.ErrNotFound, "division for team %d", teamID)
	}

	return d, nil
}
