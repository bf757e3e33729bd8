package team

import (
	"context"

	"github.com/leaguehq/league-server/internal/domain/storage"
)

// Repository describes team persistence needs.
type Repository interface {
	storage.Repository[Team]

	ListByDivision(ctx context.Context, divisionID int64) ([]Team, error)
	ListByConference(ctx context.Context, conferenceID int64) ([]Team, error)
	ListByLeague(ctx context.Context, leagueID int64) ([]Team, error)
}
