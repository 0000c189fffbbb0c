package models

import "time"

// BasketLine is one requested line item, as posted by the shop client.
type BasketLine struct {
	ID       int     `json:"id" validate:"gt=0"`
	Quantity int     `json:"quantity" validate:"gte=0"`
	Type     Variant `json:"type,omitempty" validate:"omitempty,oneof=single subscription"`
}

// BasketRequest is the body of POST /api/basket.
type BasketRequest struct {
	Packages []BasketLine `json:"packages"`
	Username string       `json:"username,omitempty"`
}

// CreateBasketRequest is sent to the provider to open an empty basket.
type CreateBasketRequest struct {
	CompleteURL string `json:"complete_url"`
	CancelURL   string `json:"cancel_url"`
	Username    string `json:"username,omitempty"`
}

// AddPackageRequest adds one line to an existing remote basket.
type AddPackageRequest struct {
	PackageID int     `json:"package_id"`
	Quantity  int     `json:"quantity"`
	Type      Variant `json:"type,omitempty"`
}

// RemoteBasket identifies a basket living on the provider side.
type RemoteBasket struct {
	Ident       string `json:"ident"`
	CheckoutURL string `json:"checkout_url"`
}

// BasketEnvelope is the subset of the provider's basket payload this
// service reads. The full payload is always forwarded untouched.
type BasketEnvelope struct {
	Data struct {
		Ident string `json:"ident"`
		Links struct {
			Checkout string `json:"checkout"`
		} `json:"links"`
	} `json:"data"`
}

// Remote converts the envelope into a RemoteBasket.
func (e BasketEnvelope) Remote() RemoteBasket {
	return RemoteBasket{Ident: e.Data.Ident, CheckoutURL: e.Data.Links.Checkout}
}

// BasketCreatedEvent is published after a checkout-ready basket was assembled.
type BasketCreatedEvent struct {
	EventType   string       `json:"event_type"`
	EventID     string       `json:"event_id"`
	BasketIdent string       `json:"basket_ident"`
	Username    string       `json:"username,omitempty"`
	Items       []BasketLine `json:"items"`
	Timestamp   time.Time    `json:"timestamp"`
}
