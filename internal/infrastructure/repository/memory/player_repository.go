package memory

import (
	"context"

	"github.com/leaguehq/league-server/internal/domain/player"
	"github.com/leaguehq/league-server/internal/domain/storage"
)

type PlayerRepository struct {
	*Collection[player.Player, *player.Player]
	store *Store
}

func (r *PlayerRepository) ListByTeam(ctx context.Context, teamID int64) ([]player.Player, error) {
	return r.Find(ctx, storage.Eq("team_id", teamID))
}

func (r *PlayerRepository) ListByDivision(ctx context.Context, divisionID int64) ([]player.Player, error) {
	teamIDs, err := r.store.teamIDsByDivisions(ctx, []any{divisionID})
	if err != nil {
		return nil, err
	}
	return r.Find(ctx, storage.In("team_id", teamIDs...))
}

func (r *PlayerRepository) ListByConference(ctx context.Context, conferenceID int64) ([]player.Player, error) {
	divisionIDs, err := r.store.divisionIDsByConference(ctx, conferenceID)
	if err != nil {
		return nil, err
	}

	teamIDs, err := r.store.teamIDsByDivisions(ctx, divisionIDs)
	if err != nil {
		return nil, err
	}
	return r.Find(ctx, storage.In("team_id", teamIDs...))
}

func (r *PlayerRepository) ListByLeague(ctx context.Context, leagueID int64) ([]player.Player, error) {
	divisionIDs, err := r.store.divisionIDsByLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	teamIDs, err := r.store.teamIDsByDivisions(ctx, divisionIDs)
	if err != nil {
		return nil, err
	}
	return r.Find(ctx, storage.In("team_id", teamIDs...))
}

func (r *PlayerRepository) ListByPosition(ctx context.Context, pos player.Position) ([]player.Player, error) {
	return r.Find(ctx, storage.Eq("position", string(pos)))
}
