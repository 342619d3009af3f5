package presence

import (
	"context"
	"time"

	"github.com/google/uuid"

	"atendo/internal/domain/presence"
	"atendo/pkg/logger"
)

// fanoutStore espelha cada transição em vários StatusStore. Cada destino é
// best-effort: falhas são logadas e não impedem os demais destinos nem a
// transição em memória.
type fanoutStore struct {
	stores []presence.StatusStore
	logger logger.Logger
}

// NewFanoutStore combina múltiplos stores de status em um só
func NewFanoutStore(log logger.Logger, stores ...presence.StatusStore) presence.StatusStore {
	return &fanoutStore{
		stores: stores,
		logger: log.WithComponent("presence-store"),
	}
}

func (f *fanoutStore) SaveStatus(ctx context.Context, userID uuid.UUID, status presence.Status, ts time.Time) error {
	for _, s := range f.stores {
		if err := s.SaveStatus(ctx, userID, status, ts); err != nil {
			f.logger.WithError(err).WithField("userId", userID).
				Warn().Msg("Status store write failed")
		}
	}
	return nil
}
