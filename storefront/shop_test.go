package storefront_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/AveGamers/HolySMP-Website/models"
	"github.com/AveGamers/HolySMP-Website/storefront"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newShopServer(t *testing.T) (*httptest.Server, *[]models.BasketRequest) {
	t.Helper()
	var posted []models.BasketRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/categories":
			_, _ = io.WriteString(w, categoriesJSON)
		case "/api/packages":
			_, _ = io.WriteString(w, packagesJSON)
		case "/api/basket":
			var req models.BasketRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			posted = append(posted, req)
			_, _ = io.WriteString(w, `{"data":{"ident":"abc","links":{"checkout":"https://pay.tebex.io/abc"}}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &posted
}

func TestShop_EndToEnd(t *testing.T) {
	srv, posted := newShopServer(t)
	shop := storefront.NewShop(storefront.NewClient(srv.URL, nil), storefront.NewMemoryIdentityStore(), nil)
	ctx := context.Background()

	shop.Init(ctx)
	assert.False(t, shop.Empty())

	require.NoError(t, shop.AddToCart(7, models.VariantNone))
	require.NoError(t, shop.AddToCart(7, models.VariantNone))
	require.NoError(t, shop.AddToCart(9, models.VariantSubscription))
	assert.ErrorIs(t, shop.AddToCart(404, models.VariantNone), storefront.ErrUnknownPackage)

	co := shop.Checkout()
	require.NoError(t, co.Open(ctx))
	co.SetUsername("Max123")
	require.NoError(t, co.Next(ctx))

	checkoutURL, err := co.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://pay.tebex.io/abc", checkoutURL)

	require.Len(t, *posted, 1)
	assert.Equal(t, models.BasketRequest{
		Packages: []models.BasketLine{
			{ID: 7, Quantity: 2},
			{ID: 9, Quantity: 1, Type: models.VariantSubscription},
		},
		Username: "Max123",
	}, (*posted)[0])

	q, _ := url.ParseQuery("success=true")
	shop.HandleReturn(q)
	assert.True(t, shop.Cart().Empty())
}

func TestShop_EmptyCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	shop := storefront.NewShop(storefront.NewClient(srv.URL, nil), nil, nil)
	shop.Init(context.Background())

	assert.True(t, shop.Empty())
	assert.ErrorIs(t, shop.AddToCart(7, models.VariantNone), storefront.ErrUnknownPackage)
}

func TestShop_PackageFromCategories(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/categories" {
			_, _ = io.WriteString(w, categoriesJSON)
			return
		}
		_, _ = io.WriteString(w, `{"data":[]}`)
	}))
	defer srv.Close()

	shop := storefront.NewShop(storefront.NewClient(srv.URL, nil), nil, nil)
	shop.Init(context.Background())

	pkg, ok := shop.Package(7)
	require.True(t, ok)
	assert.Equal(t, "VIP Rang", pkg.Name)
}

func TestShop_HandleReturnWithoutSuccess(t *testing.T) {
	srv, _ := newShopServer(t)
	shop := storefront.NewShop(storefront.NewClient(srv.URL, nil), nil, nil)
	shop.Init(context.Background())
	require.NoError(t, shop.AddToCart(7, models.VariantNone))

	q, _ := url.ParseQuery("success=false")
	shop.HandleReturn(q)
	assert.False(t, shop.Cart().Empty())
}
