package factory

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/tenderhound/tenderhound/internal/storage"
	"github.com/tenderhound/tenderhound/internal/storage/mongodb"
)

type StorageConfig struct {
	storage.Type
	Mongo *mongodb.Config
}

// LoadEnv reads the storage selection from the environment. STORAGE_TYPE
// defaults to mongo, keeping the single-binary deployment config-free
// beyond the connection string.
func LoadEnv() (*StorageConfig, error) {
	storageType := storage.Type(os.Getenv("STORAGE_TYPE"))
	if storageType == "" {
		storageType = storage.Mongo
	}
	if storageType != storage.Mongo && storageType != storage.InMem {
		slog.Error("Invalid STORAGE_TYPE environment variable value", "value", storageType)
		return nil, fmt.Errorf(
			"invalid STORAGE_TYPE environment variable value: %s, expected one of %v",
			storageType,
			[]storage.Type{storage.Mongo, storage.InMem})
	}

	var mongoCfg *mongodb.Config
	if storageType == storage.Mongo {
		mongoCfg = &mongodb.Config{
			URI:      os.Getenv("MONGODB_URI"),
			Database: os.Getenv("MONGODB_DB"),
		}
		if mongoCfg.URI == "" {
			slog.Error("MongoDB connection string is not set")
			return nil, fmt.Errorf("MONGODB_URI environment variable is not set")
		}
		if mongoCfg.Database == "" {
			mongoCfg.Database = "tenderhound"
		}
	}

	return &StorageConfig{
		Type:  storageType,
		Mongo: mongoCfg,
	}, nil
}
