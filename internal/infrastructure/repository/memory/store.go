package memory

import (
	"context"

	"github.com/jonboulle/clockwork"

	"github.com/leaguehq/league-server/internal/domain/conference"
	"github.com/leaguehq/league-server/internal/domain/division"
	"github.com/leaguehq/league-server/internal/domain/league"
	"github.com/leaguehq/league-server/internal/domain/player"
	"github.com/leaguehq/league-server/internal/domain/storage"
	"github.com/leaguehq/league-server/internal/domain/team"
	"github.com/leaguehq/league-server/internal/platform/id"
	"github.com/leaguehq/league-server/internal/platform/logging"
)

// Store bundles the five in-memory repositories and wires the relationship
// behavior the relational schema gets from its foreign keys: eager-load
// relations and cascade on physical delete.
type Store struct {
	Leagues     *LeagueRepository
	Conferences *ConferenceRepository
	Divisions   *DivisionRepository
	Teams       *TeamRepository
	Players     *PlayerRepository
}

func NewStore(log *logging.Logger, clock clockwork.Clock, ids id.Generator) *Store {
	s := &Store{}
	s.Leagues = &LeagueRepository{Collection: NewCollection[league.League](log, clock, ids), store: s}
	s.Conferences = &ConferenceRepository{Collection: NewCollection[conference.Conference](log, clock, ids), store: s}
	s.Divisions = &DivisionRepository{Collection: NewCollection[division.Division](log, clock, ids), store: s}
	s.Teams = &TeamRepository{Collection: NewCollection[team.Team](log, clock, ids), store: s}
	s.Players = &PlayerRepository{Collection: NewCollection[player.Player](log, clock, ids), store: s}

	s.Leagues.RegisterRelation("Conferences", s.loadConferences)
	s.Conferences.RegisterRelation("Divisions", s.loadDivisions)
	s.Divisions.RegisterRelation("Teams", s.loadTeams)
	s.Teams.RegisterRelation("Players", s.loadPlayers)

	s.Leagues.OnDelete(s.cascadeLeague)
	s.Conferences.OnDelete(s.cascadeConference)
	s.Divisions.OnDelete(s.cascadeDivision)
	s.Teams.OnDelete(s.cascadeTeam)

	return s
}

func (s *Store) loadConferences(ctx context.Context, parents []*league.League, includeDeleted bool) error {
	for _, l := range parents {
		children, err := s.Conferences.Query(ctx, storage.Query{
			Filters:        []storage.Filter{storage.Eq("league_id", l.ID)},
			IncludeDeleted: includeDeleted,
		})
		if err != nil {
			return err
		}
		l.Conferences = children
	}
	return nil
}

func (s *Store) loadDivisions(ctx context.Context, parents []*conference.Conference, includeDeleted bool) error {
	for _, c := range parents {
		children, err := s.Divisions.Query(ctx, storage.Query{
			Filters:        []storage.Filter{storage.Eq("conference_id", c.ID)},
			IncludeDeleted: includeDeleted,
		})
		if err != nil {
			return err
		}
		c.Divisions = children
	}
	return nil
}

func (s *Store) loadTeams(ctx context.Context, parents []*division.Division, includeDeleted bool) error {
	for _, d := range parents {
		children, err := s.Teams.Query(ctx, storage.Query{
			Filters:        []storage.Filter{storage.Eq("division_id", d.ID)},
			IncludeDeleted: includeDeleted,
		})
		if err != nil {
			return err
		}
		d.Teams = children
	}
	return nil
}

func (s *Store) loadPlayers(ctx context.Context, parents []*team.Team, includeDeleted bool) error {
	for _, t := range parents {
		children, err := s.Players.Query(ctx, storage.Query{
			Filters:        []storage.Filter{storage.Eq("team_id", t.ID)},
			IncludeDeleted: includeDeleted,
		})
		if err != nil {
			return err
		}
		t.Players = children
	}
	return nil
}

func (s *Store) cascadeLeague(ctx context.Context, leagueID int64) error {
	children, err := s.Conferences.Query(ctx, storage.Query{
		Filters:        []storage.Filter{storage.Eq("league_id", leagueID)},
		IncludeDeleted: true,
	})
	if err != nil {
		return err
	}
	for _, c := range children {
		if err := s.Conferences.Purge(ctx, c.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) cascadeConference(ctx context.Context, conferenceID int64) error {
	children, err := s.Divisions.Query(ctx, storage.Query{
		Filters:        []storage.Filter{storage.Eq("conference_id", conferenceID)},
		IncludeDeleted: true,
	})
	if err != nil {
		return err
	}
	for _, d := range children {
		if err := s.Divisions.Purge(ctx, d.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) cascadeDivision(ctx context.Context, divisionID int64) error {
	children, err := s.Teams.Query(ctx, storage.Query{
		Filters:        []storage.Filter{storage.Eq("division_id", divisionID)},
		IncludeDeleted: true,
	})
	if err != nil {
		return err
	}
	for _, t := range children {
		if err := s.Teams.Purge(ctx, t.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) cascadeTeam(ctx context.Context, teamID int64) error {
	children, err := s.Players.Query(ctx, storage.Query{
		Filters:        []storage.Filter{storage.Eq("team_id", teamID)},
		IncludeDeleted: true,
	})
	if err != nil {
		return err
	}
	for _, p := range children {
		if err := s.Players.Purge(ctx, p.ID); err != nil {
			return err
		}
	}
	return nil
}
