package storage

import (
	"context"
	"errors"

	"github.com/tenderhound/tenderhound/internal/domain"
)

// Storer writes normalized notices into the sink, keyed by document_id.
type Storer interface {
	// Upsert inserts the notice or fully replaces the stored attributes of
	// the existing record with the same document_id.
	Upsert(ctx context.Context, notice domain.ProcurementNotice) error
}

// Reader serves the read API.
type Reader interface {
	// List returns persisted notices. A limit of 0 means no limit.
	List(ctx context.Context, limit int64) ([]domain.ProcurementNotice, error)
}

// CursorStore persists the harvester's single progress document.
type CursorStore interface {
	SaveCursor(ctx context.Context, c domain.FetchCursor) error
	// LoadCursor returns (nil, nil) when no cursor has been saved yet.
	LoadCursor(ctx context.Context) (*domain.FetchCursor, error)
}

// Store is the full persistence surface the harvester binary wires up.
type Store interface {
	Storer
	Reader
	CursorStore
	Close(ctx context.Context) error
}

type Type string

const (
	Mongo Type = "mongo"
	InMem Type = "in_mem"
)

var ErrUnsupportedStore = errors.New("unsupported store type")
