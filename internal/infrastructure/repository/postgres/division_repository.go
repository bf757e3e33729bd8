package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/jonboulle/clockwork"

	"github.com/leaguehq/league-server/internal/domain/division"
	"github.com/leaguehq/league-server/internal/domain/storage"
	"github.com/leaguehq/league-server/internal/domain/team"
	"github.com/leaguehq/league-server/internal/platform/id"
	"github.com/leaguehq/league-server/internal/platform/logging"
	qb "github.com/leaguehq/league-server/internal/platform/querybuilder"
)

var divisionColumns = []string{"public_id", "conference_id", "name", "abbreviation"}

type DivisionRepository struct {
	*Repository[division.Division, *division.Division]
	db *sqlx.DB
}

func NewDivisionRepository(db *sqlx.DB, log *logging.Logger, clock clockwork.Clock, ids id.Generator) *DivisionRepository {
	base := NewRepository[division.Division](db, log, clock, ids, Table{
		Name:    "divisions",
		Columns: divisionColumns,
	})

	r := &DivisionRepository{Repository: base, db: db}
	base.RegisterRelation("Teams", r.loadTeams)

	return r
}

// ListByLeague flattens every division under the league's conferences with a
// single joined query.
func (r *DivisionRepository) ListByLeague(ctx context.Context, leagueID int64) ([]division.Division, error) {
	query, args, err := qb.Select("d.*").
		From("divisions d").
		Join("JOIN conferences c ON c.id = d.conference_id").
		Where(qb.Eq("c.league_id", leagueID)).
		OrderBy("d.id").
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build select divisions by league")
	}

	rows := []division.Division{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrapf(err, "select divisions by league %d", leagueID)
	}

	return rows, nil
}

func (r *DivisionRepository) ListByConference(ctx context.Context, conferenceID int64) ([]division.Division, error) {
	return r.Find(ctx, storage.Eq("conference_id", conferenceID))
}

// GetByTeam resolves the one division owning the team. A team that is
// missing, soft deleted, or carrying an unresolvable division link yields
// storage.ErrNotFound.
func (r *DivisionRepository) GetByTeam(ctx context.Context, teamID int64) (division.Division, error) {
	query, args, err := qb.Select("d.*").
		From("divisions d").
		Join("JOIN teams t ON t.division_id = d.id").
		Where(qb.Eq("t.id", teamID), qb.IsNull("t.deleted_at")).
		Limit(1).
		ToSQL()
	if err != nil {
		return division.Division{}, errors.Wrap(err, "build select division by team")
	}

	var row division.Division
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNoRows(err) {
			return division.Division{}, errors.Wrapf(storage.ErrNotFound, "division for team %d", teamID)
		}
		return division.Division{}, errors.Wrapf(err, "select division by team %d", teamID)
	}

	return row, nil
}

func (r *DivisionRepository) loadTeams(ctx context.Context, parents []*division.Division, includeDeleted bool) error {
	ids := make([]any, 0, len(parents))
	for _, d := range parents {
		ids = append(ids, d.ID)
	}

	sel := qb.Select("*").
		From("teams").
		Where(qb.In("division_id", ids))
	if !includeDeleted {
		sel.Where(qb.IsNull("deleted_at"))
	}
	query, args, err := sel.OrderBy("id").ToSQL()
	if err != nil {
		return errors.Wrap(err, "build select teams for divisions")
	}

	var children []team.Team
	if err := r.db.SelectContext(ctx, &children, query, args...); err != nil {
		return errors.Wrap(err, "select teams for divisions")
	}

	byDivision := make(map[int64][]team.Team, len(parents))
	for _, t := range children {
		byDivision[t.DivisionID] = append(byDivision[t.DivisionID], t)
	}
	for _, d := range parents {
		d.Teams = byDivision[d.ID]
	}

	return nil
}
