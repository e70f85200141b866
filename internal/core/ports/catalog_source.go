package ports

import (
	"context"

	"orderhub/internal/core/domain/model/catalog"
)

// CatalogSource fetches the canonical catalog from wherever it is published.
type CatalogSource interface {
	// Fetch returns the raw payload. Decoding problems are returned as errors; structural
	// validation is left to catalog.NewSnapshot.
	Fetch(ctx context.Context) (catalog.Payload, error)

	// Name identifies the source in logs and SyncErrors.
	Name() string
}
