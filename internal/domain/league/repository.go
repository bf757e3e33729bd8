package league

import (
	"context"

	"github.com/leaguehq/league-server/internal/domain/storage"
)

// Repository describes league persistence needs.
type Repository interface {
	storage.Repository[League]

	// SearchByName matches leagues whose name contains the given fragment,
	// case sensitively.
	SearchByName(ctx context.Context, fragment string) ([]League, error)
}
