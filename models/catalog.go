package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PackageType describes how a package can be purchased.
type PackageType string

const (
	PackageTypeSingle       PackageType = "single"
	PackageTypeSubscription PackageType = "subscription"
	PackageTypeBoth         PackageType = "both"
)

// Variant selects the fulfilment mode of a dual-mode package.
type Variant string

const (
	VariantNone         Variant = ""
	VariantSingle       Variant = "single"
	VariantSubscription Variant = "subscription"
)

// Valid reports whether v is a known variant or the empty variant.
func (v Variant) Valid() bool {
	switch v {
	case VariantNone, VariantSingle, VariantSubscription:
		return true
	}
	return false
}

// ExpiryPeriod is the recurring interval of a subscription package.
type ExpiryPeriod string

const (
	ExpiryNone  ExpiryPeriod = "none"
	ExpiryDay   ExpiryPeriod = "day"
	ExpiryWeek  ExpiryPeriod = "week"
	ExpiryMonth ExpiryPeriod = "month"
	ExpiryYear  ExpiryPeriod = "year"
)

// Sale is an active or scheduled price reduction on a package.
type Sale struct {
	Active bool            `json:"active"`
	Price  decimal.Decimal `json:"price"`
}

// CategoryRef is the short category reference embedded in a package.
type CategoryRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CatalogPackage is a purchasable package as served by the commerce provider.
// Values are never mutated after decoding.
type CatalogPackage struct {
	ID           int             `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Image        string          `json:"image,omitempty"`
	BasePrice    decimal.Decimal `json:"base_price"`
	Currency     string          `json:"currency"`
	ExpiryPeriod ExpiryPeriod    `json:"expiry_period,omitempty"`
	ExpiryLength int             `json:"expiry_length,omitempty"`
	Sale         *Sale           `json:"sale,omitempty"`
	Type         PackageType     `json:"type"`
	Category     *CategoryRef    `json:"category,omitempty"`
}

// EffectivePrice returns the sale price while a sale is active, the base price otherwise.
func (p CatalogPackage) EffectivePrice() decimal.Decimal {
	if p.Sale != nil && p.Sale.Active {
		return p.Sale.Price
	}
	return p.BasePrice
}

// Recurring reports whether the package renews on an interval.
func (p CatalogPackage) Recurring() bool {
	return p.ExpiryPeriod != "" && p.ExpiryPeriod != ExpiryNone
}

// CheckVariant enforces that dual-mode packages name a variant and that
// every other package does not.
func (p CatalogPackage) CheckVariant(v Variant) error {
	if !v.Valid() {
		return fmt.Errorf("package %d: unknown variant %q", p.ID, v)
	}
	if p.Type == PackageTypeBoth && v == VariantNone {
		return fmt.Errorf("package %d: a variant is required", p.ID)
	}
	if p.Type != PackageTypeBoth && v != VariantNone {
		return fmt.Errorf("package %d: variant %q not allowed for %s packages", p.ID, v, p.Type)
	}
	return nil
}

// Category groups packages in the webstore.
type Category struct {
	ID          int              `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Packages    []CatalogPackage `json:"packages,omitempty"`
}
