package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/jonboulle/clockwork"

	"github.com/leaguehq/league-server/internal/domain/player"
	"github.com/leaguehq/league-server/internal/domain/storage"
	"github.com/leaguehq/league-server/internal/domain/team"
	"github.com/leaguehq/league-server/internal/platform/id"
	"github.com/leaguehq/league-server/internal/platform/logging"
	qb "github.com/leaguehq/league-server/internal/platform/querybuilder"
)

var teamColumns = []string{
	"public_id", "division_id", "location", "name", "abbreviation",
	"win", "loss", "tie", "points_for", "points_against",
	"stadium", "capacity", "address", "city", "state", "zip", "latitude", "longitude",
	"is_deleted", "deleted_at", "deleted_reason", "deleted_by",
}

type TeamRepository struct {
	*Repository[team.Team, *team.Team]
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB, log *logging.Logger, clock clockwork.Clock, ids id.Generator) *TeamRepository {
	base := NewRepository[team.Team](db, log, clock, ids, Table{
		Name:    "teams",
		Columns: teamColumns,
	})

	r := &TeamRepository{Repository: base, db: db}
	base.RegisterRelation("Players", r.loadPlayers)

	return r
}

func (r *TeamRepository) ListByDivision(ctx context.Context, divisionID int64) ([]team.Team, error) {
	return r.Find(ctx, storage.Eq("division_id", divisionID))
}

func (r *TeamRepository) ListByConference(ctx context.Context, conferenceID int64) ([]team.Team, error) {
	query, args, err := qb.Select("t.*").
		From("teams t").
		Join("JOIN divisions d ON d.id = t.division_id").
		Where(qb.Eq("d.conference_id", conferenceID), qb.IsNull("t.deleted_at")).
		OrderBy("t.id").
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build select teams by conference")
	}

	rows := []team.Team{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrapf(err, "select teams by conference %d", conferenceID)
	}

	return rows, nil
}

func (r *TeamRepository) ListByLeague(ctx context.Context, leagueID int64) ([]team.Team, error) {
	query, args, err := qb.Select("t.*").
		From("teams t").
		Join(
			"JOIN divisions d ON d.id = t.division_id",
			"JOIN conferences c ON c.id = d.conference_id",
		).
		Where(qb.Eq("c.league_id", leagueID), qb.IsNull("t.deleted_at")).
		OrderBy("t.id").
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build select teams by league")
	}

	rows := []team.Team{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrapf(err, "select teams by league %d", leagueID)
	}

	return rows, nil
}

func (r *TeamRepository) loadPlayers(ctx context.Context, parents []*team.Team, includeDeleted bool) error {
	ids := make([]any, 0, len(parents))
	for _, t := range parents {
		ids = append(ids, t.ID)
	}

	sel := qb.Select("*").
		From("players").
		Where(qb.In("team_id", ids))
	if !includeDeleted {
		sel.Where(qb.IsNull("deleted_at"))
	}
	query, args, err := sel.OrderBy("id").ToSQL()
	if err != nil {
		return errors.Wrap(err, "build select players for teams")
	}

	var children []player.Player
	if err := r.db.SelectContext(ctx, &children, query, args...); err != nil {
		return errors.Wrap(err, "select players for teams")
	}

	byTeam := make(map[int64][]player.Player, len(parents))
	for _, p := range children {
		if p.TeamID == nil {
			continue
		}
		byTeam[*p.TeamID] = append(byTeam[*p.TeamID], p)
	}
	for _, t := range parents {
		t.Players = byTeam[t.ID]
	}

	return nil
}
