package memory

import (
	"context"

	"github.com/leaguehq/league-server/internal/domain/storage"
)

// Ancestor-id helpers for the multi-level lookups. Each walks one level with
// a default (soft-delete filtered) query and returns the ids for the next
// level's In filter.

func (s *Store) conferenceIDsByLeague(ctx context.Context, leagueID int64) ([]any, error) {
	conferences, err := s.Conferences.Find(ctx, storage.Eq("league_id", leagueID))
	if err != nil {
		return nil, err
	}

	ids := make([]any, 0, len(conferences))
	for _, c := range conferences {
		ids = append(ids, c.ID)
	}
	return ids, nil
}

func (s *Store) divisionIDsByConference(ctx context.Context, conferenceID int64) ([]any, error) {
	divisions, err := s.Divisions.Find(ctx, storage.Eq("conference_id", conferenceID))
	if err != nil {
		return nil, err
	}

	ids := make([]any, 0, len(divisions))
	for _, d := range divisions {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

func (s *Store) divisionIDsByLeague(ctx context.Context, leagueID int64) ([]any, error) {
	conferenceIDs, err := s.conferenceIDsByLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	divisions, err := s.Divisions.Find(ctx, storage.In("conference_id", conferenceIDs...))
	if err != nil {
		return nil, err
	}

	ids := make([]any, 0, len(divisions))
	for _, d := range divisions {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

func (s *Store) teamIDsByDivisions(ctx context.Context, divisionIDs []any) ([]any, error) {
	teams, err := s.Teams.Find(ctx, storage.In("division_id", divisionIDs...))
	if err != nil {
		return nil, err
	}

	ids := make([]any, 0, len(teams))
	for _, t := range teams {
		ids = append(ids, t.ID)
	}
	return ids, nil
}
