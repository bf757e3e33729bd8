package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/jonboulle/clockwork"

	"github.com/leaguehq/league-server/internal/domain/player"
	"github.com/leaguehq/league-server/internal/domain/storage"
	"github.com/leaguehq/league-server/internal/platform/id"
	"github.com/leaguehq/league-server/internal/platform/logging"
	qb "github.com/leaguehq/league-server/internal/platform/querybuilder"
)

var playerColumns = []string{
	"public_id", "team_id", "number", "position", "name",
	"height", "weight", "age", "birth_date",
	"experience", "draft_year", "draft_round", "draft_pick", "college", "state",
	"rank", "rating", "depth",
	"is_deleted", "deleted_at", "deleted_reason", "deleted_by",
}

type PlayerRepository struct {
	*Repository[player.Player, *player.Player]
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB, log *logging.Logger, clock clockwork.Clock, ids id.Generator) *PlayerRepository {
	base := NewRepository[player.Player](db, log, clock, ids, Table{
		Name:    "players",
		Columns: playerColumns,
	})

	return &PlayerRepository{Repository: base, db: db}
}

func (r *PlayerRepository) ListByTeam(ctx context.Context, teamID int64) ([]player.Player, error) {
	return r.Find(ctx, storage.Eq("team_id", teamID))
}

func (r *PlayerRepository) ListByPosition(ctx context.Context, position player.Position) ([]player.Player, error) {
	return r.Find(ctx, storage.Eq("position", string(position)))
}

func (r *PlayerRepository) ListByDivision(ctx context.Context, divisionID int64) ([]player.Player, error) {
	return r.listJoined(ctx,
		[]string{"JOIN teams t ON t.id = p.team_id"},
		qb.Eq("t.division_id", divisionID),
	)
}

func (r *PlayerRepository) ListByConference(ctx context.Context, conferenceID int64) ([]player.Player, error) {
	return r.listJoined(ctx,
		[]string{
			"JOIN teams t ON t.id = p.team_id",
			"JOIN divisions d ON d.id = t.division_id",
		},
		qb.Eq("d.conference_id", conferenceID),
	)
}

func (r *PlayerRepository) ListByLeague(ctx context.Context, leagueID int64) ([]player.Player, error) {
	return r.listJoined(ctx,
		[]string{
			"JOIN teams t ON t.id = p.team_id",
			"JOIN divisions d ON d.id = t.division_id",
			"JOIN conferences c ON c.id = d.conference_id",
		},
		qb.Eq("c.league_id", leagueID),
	)
}

// listJoined walks the ancestor chain in one query. Unassigned players drop
// out of the inner join; soft-deleted players and teams are filtered at their
// own level.
func (r *PlayerRepository) listJoined(ctx context.Context, joins []string, cond qb.Condition) ([]player.Player, error) {
	query, args, err := qb.Select("p.*").
		From("players p").
		Join(joins...).
		Where(cond, qb.IsNull("p.deleted_at"), qb.IsNull("t.deleted_at")).
		OrderBy("p.id").
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build select players by ancestor")
	}

	rows := []player.Player{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "select players by ancestor")
	}

	return rows, nil
}
