package storefront

import (
	"fmt"

	"github.com/AveGamers/HolySMP-Website/models"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is reported for an empty cart.
const DefaultCurrency = "EUR"

// ItemKey identifies a cart line. The same package bought once and as a
// subscription yields two lines.
type ItemKey struct {
	PackageID int
	Variant   models.Variant
}

// CartItem is one cart line with the price captured when it was added.
type CartItem struct {
	Key       ItemKey
	Name      string
	UnitPrice decimal.Decimal
	Currency  string
	Quantity  int
}

// Subtotal returns UnitPrice × Quantity.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart holds the lines of one shop session in insertion order.
// A Cart is not safe for concurrent use.
type Cart struct {
	items []*CartItem
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

// Add puts one unit of pkg in the cart, incrementing an existing line with
// the same package and variant.
func (c *Cart) Add(pkg models.CatalogPackage, variant models.Variant) error {
	if err := pkg.CheckVariant(variant); err != nil {
		return err
	}
	key := ItemKey{PackageID: pkg.ID, Variant: variant}
	if item := c.find(key); item != nil {
		item.Quantity++
		return nil
	}

	currency := pkg.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	c.items = append(c.items, &CartItem{
		Key:       key,
		Name:      displayName(pkg.Name, variant),
		UnitPrice: pkg.EffectivePrice(),
		Currency:  currency,
		Quantity:  1,
	})
	return nil
}

// Remove deletes the line for key. It reports whether a line was removed.
func (c *Cart) Remove(key ItemKey) bool {
	for i, item := range c.items {
		if item.Key == key {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// ChangeQuantity adds delta to the line for key and removes the line when the
// quantity drops to zero or below.
func (c *Cart) ChangeQuantity(key ItemKey, delta int) bool {
	item := c.find(key)
	if item == nil {
		return false
	}
	item.Quantity += delta
	if item.Quantity <= 0 {
		c.Remove(key)
	}
	return true
}

// Items returns a copy of the cart lines.
func (c *Cart) Items() []CartItem {
	out := make([]CartItem, 0, len(c.items))
	for _, item := range c.items {
		out = append(out, *item)
	}
	return out
}

// Count returns the number of units across all lines.
func (c *Cart) Count() int {
	n := 0
	for _, item := range c.items {
		n += item.Quantity
	}
	return n
}

// Total sums all lines. The currency is that of the first line.
func (c *Cart) Total() (decimal.Decimal, string) {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.Subtotal())
	}
	if len(c.items) == 0 {
		return total, DefaultCurrency
	}
	return total, c.items[0].Currency
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return len(c.items) == 0
}

// Clear removes every line.
func (c *Cart) Clear() {
	c.items = nil
}

// Lines converts the cart into the order lines posted to the shop API.
func (c *Cart) Lines() []models.BasketLine {
	lines := make([]models.BasketLine, 0, len(c.items))
	for _, item := range c.items {
		lines = append(lines, models.BasketLine{
			ID:       item.Key.PackageID,
			Quantity: item.Quantity,
			Type:     item.Key.Variant,
		})
	}
	return lines
}

func (c *Cart) find(key ItemKey) *CartItem {
	for _, item := range c.items {
		if item.Key == key {
			return item
		}
	}
	return nil
}

func displayName(name string, variant models.Variant) string {
	switch variant {
	case models.VariantSubscription:
		return fmt.Sprintf("%s (Abo)", name)
	case models.VariantSingle:
		return fmt.Sprintf("%s (Einmalig)", name)
	}
	return name
}
