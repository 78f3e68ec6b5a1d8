package factory

import (
	"context"
	"fmt"

	"github.com/tenderhound/tenderhound/internal/storage"
	"github.com/tenderhound/tenderhound/internal/storage/inmem"
	"github.com/tenderhound/tenderhound/internal/storage/mongodb"
)

// NewStore creates a storage.Store based on the configured storage type.
func NewStore(ctx context.Context, cfg *StorageConfig) (storage.Store, error) {
	switch cfg.Type {
	case storage.Mongo:
		if cfg.Mongo == nil {
			return nil, fmt.Errorf("mongo storage selected but not configured")
		}
		return mongodb.New(ctx, *cfg.Mongo)

	case storage.InMem:
		return inmem.New(), nil

	default:
		return nil, fmt.Errorf("%w: %s", storage.ErrUnsupportedStore, cfg.Type)
	}
}
