// Package app is the composition root: it opens the database and assembles
// the repository set behind the domain interfaces.
package app

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/jonboulle/clockwork"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/leaguehq/league-server/internal/config"
	"github.com/leaguehq/league-server/internal/domain/conference"
	"github.com/leaguehq/league-server/internal/domain/division"
	"github.com/leaguehq/league-server/internal/domain/league"
	"github.com/leaguehq/league-server/internal/domain/player"
	"github.com/leaguehq/league-server/internal/domain/team"
	"github.com/leaguehq/league-server/internal/infrastructure/repository/memory"
	"github.com/leaguehq/league-server/internal/infrastructure/repository/postgres"
	"github.com/leaguehq/league-server/internal/platform/id"
	"github.com/leaguehq/league-server/internal/platform/logging"
)

// Repositories is the full data-access surface, one repository per level of
// the league hierarchy.
type Repositories struct {
	Leagues     league.Repository
	Conferences conference.Repository
	Divisions   division.Repository
	Teams       team.Repository
	Players     player.Repository
}

// OpenDB connects to postgres with tracing instrumentation and applies the
// configured pool limits.
func OpenDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.ConnectContext(ctx, "postgres", dbURL,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(dbURL)),
	)
	if err != nil {
		return nil, errors.Wrap(err, "connect postgres")
	}

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	return db, nil
}

// NewRepositories assembles the postgres-backed repository set.
func NewRepositories(db *sqlx.DB, log *logging.Logger, clock clockwork.Clock, ids id.Generator) Repositories {
	return Repositories{
		Leagues:     postgres.NewLeagueRepository(db, log, clock, ids),
		Conferences: postgres.NewConferenceRepository(db, log, clock, ids),
		Divisions:   postgres.NewDivisionRepository(db, log, clock, ids),
		Teams:       postgres.NewTeamRepository(db, log, clock, ids),
		Players:     postgres.NewPlayerRepository(db, log, clock, ids),
	}
}

// NewMemoryRepositories assembles the in-memory repository set used by local
// development and tests.
func NewMemoryRepositories(log *logging.Logger, clock clockwork.Clock, ids id.Generator) Repositories {
	store := memory.NewStore(log, clock, ids)
	return Repositories{
		Leagues:     store.Leagues,
		Conferences: store.Conferences,
		Divisions:   store.Divisions,
		Teams:       store.Teams,
		Players:     store.Players,
	}
}
