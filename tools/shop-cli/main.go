package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/AveGamers/HolySMP-Website/logger"
	"github.com/AveGamers/HolySMP-Website/models"
	"github.com/AveGamers/HolySMP-Website/storefront"
	"go.uber.org/zap"
)

// shop-cli runs a storefront session against a shop API: it lists the
// catalog, or fills a cart and prints the checkout URL.
//
//	shop-cli -api http://localhost:3000 -list
//	shop-cli -api http://localhost:3000 -user Max123 -items 7x2,9:subscription
func main() {
	var apiURL, user, items, session string
	var list bool
	flag.StringVar(&apiURL, "api", envOr("SHOP_API_URL", "http://localhost:3000"), "shop API base URL")
	flag.StringVar(&user, "user", "", "player name (prefix Bedrock names with a dot)")
	flag.StringVar(&items, "items", "", "comma separated id[xqty][:single|:subscription]")
	flag.StringVar(&session, "session", envOr("SHOP_SESSION", "cli"), "session id for the remembered player name")
	flag.BoolVar(&list, "list", false, "print the catalog and exit")
	flag.Parse()

	log, err := logger.Initialize(os.Getenv("APP_ENV"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store := identityStore(ctx, session, log)
	shop := storefront.NewShop(storefront.NewClient(apiURL, log), store, log)
	shop.Init(ctx)

	if shop.Empty() {
		log.Fatal("No packages available")
	}
	if list {
		printCatalog(shop.Catalog())
		return
	}

	if err := fillCart(shop, items); err != nil {
		log.Fatal("Invalid items", zap.Error(err))
	}

	co := shop.Checkout()
	if err := co.Open(ctx); err != nil {
		log.Fatal("Cannot open checkout", zap.Error(err))
	}
	if user != "" {
		co.SetUsername(user)
	}
	if err := co.Next(ctx); err != nil {
		log.Fatal("Invalid player name", zap.Error(err))
	}

	view := co.View()
	for _, item := range view.Items {
		fmt.Printf("%3dx %-30s %s %s\n", item.Quantity, item.Name, item.Subtotal().StringFixed(2), item.Currency)
	}
	fmt.Printf("Total: %s %s for %s\n", view.Total.StringFixed(2), view.Currency, view.Identity.Raw)

	checkoutURL, err := co.Submit(ctx)
	if err != nil {
		log.Fatal("Checkout failed", zap.Error(err))
	}
	fmt.Println(checkoutURL)
}

func identityStore(ctx context.Context, session string, log *zap.Logger) storefront.IdentityStore {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return storefront.NewMemoryIdentityStore()
	}
	client, err := storefront.NewRedisClient(ctx, redisURL)
	if err != nil {
		log.Warn("Redis unavailable, player name will not be remembered", zap.Error(err))
		return storefront.NewMemoryIdentityStore()
	}
	return storefront.NewRedisIdentityStore(client, session, 30*24*time.Hour)
}

// fillCart parses "7x2,9:subscription".
func fillCart(shop *storefront.Shop, items string) error {
	for _, part := range strings.Split(items, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		variant := models.VariantNone
		if i := strings.Index(part, ":"); i >= 0 {
			variant = models.Variant(part[i+1:])
			part = part[:i]
		}
		qty := 1
		if i := strings.Index(part, "x"); i >= 0 {
			n, err := strconv.Atoi(part[i+1:])
			if err != nil || n < 1 {
				return fmt.Errorf("bad quantity in %q", part)
			}
			qty, part = n, part[:i]
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return fmt.Errorf("bad package id %q", part)
		}
		for n := 0; n < qty; n++ {
			if err := shop.AddToCart(id, variant); err != nil {
				return err
			}
		}
	}
	return nil
}

func printCatalog(catalog storefront.Catalog) {
	for _, cat := range catalog.Categories {
		fmt.Printf("# %s\n", cat.Name)
		for _, p := range cat.Packages {
			printPackage(p)
		}
	}
	if len(catalog.Categories) == 0 {
		for _, p := range catalog.Packages {
			printPackage(p)
		}
	}
}

func printPackage(p models.CatalogPackage) {
	line := fmt.Sprintf("%6d  %-30s %s %s", p.ID, p.Name, p.EffectivePrice().StringFixed(2), p.Currency)
	if p.Type == models.PackageTypeBoth {
		line += "  [single|subscription]"
	} else if p.Recurring() {
		line += fmt.Sprintf("  every %d %s", p.ExpiryLength, p.ExpiryPeriod)
	}
	fmt.Println(line)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
