package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/jonboulle/clockwork"

	"github.com/leaguehq/league-server/internal/domain/conference"
	"github.com/leaguehq/league-server/internal/domain/league"
	"github.com/leaguehq/league-server/internal/domain/storage"
	"github.com/leaguehq/league-server/internal/platform/id"
	"github.com/leaguehq/league-server/internal/platform/logging"
	qb "github.com/leaguehq/league-server/internal/platform/querybuilder"
)

var leagueColumns = []string{"public_id", "name", "abbreviation"}

type LeagueRepository struct {
	*Repository[league.League, *league.League]
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB, log *logging.Logger, clock clockwork.Clock, ids id.Generator) *LeagueRepository {
	base := NewRepository[league.League](db, log, clock, ids, Table{
		Name:    "leagues",
		Columns: leagueColumns,
	})

	r := &LeagueRepository{Repository: base, db: db}
	base.RegisterRelation("Conferences", r.loadConferences)

	return r
}

func (r *LeagueRepository) SearchByName(ctx context.Context, fragment string) ([]league.League, error) {
	return r.Find(ctx, storage.Contains("name", fragment))
}

func (r *LeagueRepository) loadConferences(ctx context.Context, parents []*league.League, _ bool) error {
	ids := make([]any, 0, len(parents))
	for _, l := range parents {
		ids = append(ids, l.ID)
	}

	query, args, err := qb.Select("id", "public_id", "league_id", "name", "abbreviation").
		From("conferences").
		Where(qb.In("league_id", ids)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return errors.Wrap(err, "build select conferences for leagues")
	}

	var children []conference.Conference
	if err := r.db.SelectContext(ctx, &children, query, args...); err != nil {
		return errors.Wrap(err, "select conferences for leagues")
	}

	byLeague := make(map[int64][]conference.Conference, len(parents))
	for _, c := range children {
		byLeague[c.LeagueID] = append(byLeague[c.LeagueID], c)
	}
	for _, l := range parents {
		l.Conferences = byLeague[l.ID]
	}

	return nil
}
