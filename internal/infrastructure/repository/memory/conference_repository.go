package memory

import (
	"context"

	"github.com/leaguehq/league-server/internal/domain/conference"
	"github.com/leaguehq/league-server/internal/domain/storage"
)

type ConferenceRepository struct {
	*Collection[conference.Conference, *conference.Conference]
	store *Store
}

func (r *ConferenceRepository) ListByLeague(ctx context.Context, leagueID int64) ([]conference.Conference, error) {
	return r.Find(ctx, storage.Eq("league_id", leagueID))
}
