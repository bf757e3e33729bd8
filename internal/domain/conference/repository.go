package conference

import (
	"context"

	"github.com/leaguehq/league-server/internal/domain/storage"
)

// Repository describes conference persistence needs.
type Repository interface {
	storage.Repository[Conference]

	ListByLeague(ctx context.Context, leagueID int64) ([]Conference, error)
}
