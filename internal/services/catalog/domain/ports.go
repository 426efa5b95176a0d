package domain

import "context"

// ReaderPort is the read surface other modules use to resolve catalog entities
type ReaderPort interface {
	Restaurant(ctx context.Context, id string) (Restaurant, error)
	Sector(ctx context.Context, id string) (Sector, error)
	TablesBySector(ctx context.Context, sectorID string) ([]Table, error)
	TableByID(ctx context.Context, id string) (Table, error)
}
