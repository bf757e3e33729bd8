package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/jonboulle/clockwork"

	"github.com/leaguehq/league-server/internal/domain/conference"
	"github.com/leaguehq/league-server/internal/domain/division"
	"github.com/leaguehq/league-server/internal/domain/storage"
	"github.com/leaguehq/league-server/internal/platform/id"
	"github.com/leaguehq/league-server/internal/platform/logging"
	qb "github.com/leaguehq/league-server/internal/platform/querybuilder"
)

var conferenceColumns = []string{"public_id", "league_id", "name", "abbreviation"}

type ConferenceRepository struct {
	*Repository[conference.Conference, *conference.Conference]
	db *sqlx.DB
}

func NewConferenceRepository(db *sqlx.DB, log *logging.Logger, clock clockwork.Clock, ids id.Generator) *ConferenceRepository {
	base := NewRepository[conference.Conference](db, log, clock, ids, Table{
		Name:    "conferences",
		Columns: conferenceColumns,
	})

	r := &ConferenceRepository{Repository: base, db: db}
	base.RegisterRelation("Divisions", r.loadDivisions)

	return r
}

func (r *ConferenceRepository) ListByLeague(ctx context.Context, leagueID int64) ([]conference.Conference, error) {
	return r.Find(ctx, storage.Eq("league_id", leagueID))
}

func (r *ConferenceRepository) loadDivisions(ctx context.Context, parents []*conference.Conference, _ bool) error {
	ids := make([]any, 0, len(parents))
	for _, c := range parents {
		ids = append(ids, c.ID)
	}

	query, args, err := qb.Select("id", "public_id", "conference_id", "name", "abbreviation").
		From("divisions").
		Where(qb.In("conference_id", ids)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return errors.Wrap(err, "build select divisions for conferences")
	}

	var children []division.Division
	if err := r.db.SelectContext(ctx, &children, query, args...); err != nil {
		return errors.Wrap(err, "select divisions for conferences")
	}

	byConference := make(map[int64][]division.Division, len(parents))
	for _, d := range children {
		byConference[d.ConferenceID] = append(byConference[d.ConferenceID], d)
	}
	for _, c := range parents {
		c.Divisions = byConference[c.ID]
	}

	return nil
}
