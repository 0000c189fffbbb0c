package storefront

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/AveGamers/HolySMP-Website/models"
	"go.uber.org/zap"
)

// ErrUnknownPackage is returned when adding a package that is not in the
// loaded catalog.
var ErrUnknownPackage = errors.New("storefront: unknown package")

// Shop is one shop page session: catalog, cart and checkout.
type Shop struct {
	client   *Client
	catalog  Catalog
	cart     *Cart
	checkout *Checkout
}

// NewShop creates a session using client for the shop API and store for the
// remembered player name.
func NewShop(client *Client, store IdentityStore, logger *zap.Logger) *Shop {
	cart := NewCart()
	return &Shop{
		client:   client,
		cart:     cart,
		checkout: NewCheckout(cart, store, client, logger),
	}
}

// Init loads the catalog.
func (s *Shop) Init(ctx context.Context) {
	s.catalog = s.client.FetchCatalog(ctx)
}

func (s *Shop) Catalog() Catalog { return s.catalog }

func (s *Shop) Cart() *Cart { return s.cart }

func (s *Shop) Checkout() *Checkout { return s.checkout }

// Empty reports whether there is nothing to display.
func (s *Shop) Empty() bool {
	return len(s.catalog.Categories) == 0 && len(s.catalog.Packages) == 0
}

// Package looks up a package in the loaded catalog.
func (s *Shop) Package(id int) (models.CatalogPackage, bool) {
	for _, p := range s.catalog.Packages {
		if p.ID == id {
			return p, true
		}
	}
	for _, cat := range s.catalog.Categories {
		for _, p := range cat.Packages {
			if p.ID == id {
				return p, true
			}
		}
	}
	return models.CatalogPackage{}, false
}

// AddToCart adds one unit of a catalog package.
func (s *Shop) AddToCart(id int, variant models.Variant) error {
	pkg, ok := s.Package(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownPackage, id)
	}
	return s.cart.Add(pkg, variant)
}

// HandleReturn processes the query of the page the payment provider
// redirected to.
func (s *Shop) HandleReturn(query url.Values) {
	if query.Get("success") == "true" {
		s.checkout.ConfirmReturn(true)
	}
}
