package providers

import (
	"context"
	"encoding/json"

	"github.com/AveGamers/HolySMP-Website/models"
)

// CatalogReader serves read-only catalog data. Implementations must only use
// public credentials.
type CatalogReader interface {
	// ListCategories returns the categories payload including packages.
	ListCategories(ctx context.Context) (json.RawMessage, error)

	// ListPackages returns the flat packages payload.
	ListPackages(ctx context.Context) (json.RawMessage, error)

	// GetPackage returns a single package payload.
	GetPackage(ctx context.Context, id int) (json.RawMessage, error)

	// GetWebstoreInfo returns the category listing without packages.
	GetWebstoreInfo(ctx context.Context) (json.RawMessage, error)
}

// BasketWriter performs the basket mutations of a checkout attempt.
type BasketWriter interface {
	// CreateBasket opens an empty basket. Requires the secret credential.
	CreateBasket(ctx context.Context, req models.CreateBasketRequest) (models.RemoteBasket, error)

	// AddPackage appends one line to the basket identified by ident.
	AddPackage(ctx context.Context, ident string, req models.AddPackageRequest) error

	// GetBasket re-reads the basket and returns the raw payload alongside the
	// fields this service needs.
	GetBasket(ctx context.Context, ident string) (json.RawMessage, models.RemoteBasket, error)
}

// CommerceProvider is the full gateway surface of the external commerce API.
type CommerceProvider interface {
	CatalogReader
	BasketWriter
}
