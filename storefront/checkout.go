package storefront

import (
	"context"
	"errors"

	"github.com/AveGamers/HolySMP-Website/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Step is a stage of the checkout dialog.
type Step int

const (
	StepIdentity Step = 1
	StepReview   Step = 2
)

var (
	// ErrEmptyCart is returned when checkout is attempted with nothing in the cart.
	ErrEmptyCart = errors.New("storefront: cart is empty")
	// ErrTerminalStep is returned by Next on the review step; use Submit.
	ErrTerminalStep = errors.New("storefront: review is the last step")
	// ErrClosed is returned for step changes while the dialog is closed.
	ErrClosed = errors.New("storefront: checkout is not open")
	// ErrNotReviewed is returned by Submit before the review step.
	ErrNotReviewed = errors.New("storefront: confirm the player name first")
)

// BasketCreator submits an order and returns the checkout URL.
type BasketCreator interface {
	CreateBasket(ctx context.Context, req models.BasketRequest) (string, error)
}

// CheckoutView is a render snapshot of the checkout dialog.
type CheckoutView struct {
	Open       bool
	Step       Step
	Username   string
	Identity   *Identity
	ShowNext   bool
	ShowBack   bool
	ShowSubmit bool
	Items      []CartItem
	Count      int
	Total      decimal.Decimal
	Currency   string
}

// Checkout drives the two-step checkout dialog over a cart.
// It is not safe for concurrent use.
type Checkout struct {
	cart    *Cart
	store   IdentityStore
	baskets BasketCreator
	logger  *zap.Logger

	open     bool
	step     Step
	draft    string
	identity *Identity
}

// NewCheckout creates a closed checkout dialog.
func NewCheckout(cart *Cart, store IdentityStore, baskets BasketCreator, logger *zap.Logger) *Checkout {
	if store == nil {
		store = NewMemoryIdentityStore()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Checkout{cart: cart, store: store, baskets: baskets, logger: logger, step: StepIdentity}
}

// Open shows the dialog on the identity step, pre-filled with the stored name.
func (c *Checkout) Open(ctx context.Context) error {
	if c.cart.Empty() {
		return ErrEmptyCart
	}
	c.open = true
	c.step = StepIdentity
	c.identity = nil

	raw, err := c.store.Load(ctx)
	if err != nil {
		c.logger.Warn("load stored player name failed", zap.Error(err))
		return nil
	}
	if raw != "" {
		c.draft = raw
	}
	return nil
}

// Close hides the dialog. The cart is kept.
func (c *Checkout) Close() {
	c.open = false
	c.step = StepIdentity
}

// SetUsername updates the name being typed.
func (c *Checkout) SetUsername(raw string) {
	c.draft = raw
}

// Next validates the name and advances to review. An invalid name keeps the
// identity step and returns an *IdentityError.
func (c *Checkout) Next(ctx context.Context) error {
	if !c.open {
		return ErrClosed
	}
	if c.step == StepReview {
		return ErrTerminalStep
	}

	id, err := ParseIdentity(c.draft)
	if err != nil {
		return err
	}
	c.identity = &id
	c.draft = id.Raw
	if err := c.store.Save(ctx, id.Raw); err != nil {
		c.logger.Warn("persist player name failed", zap.Error(err))
	}
	c.step = StepReview
	return nil
}

// Back returns from review to the identity step.
func (c *Checkout) Back() {
	if c.step == StepReview {
		c.step = StepIdentity
	}
}

// Submit sends the order and returns the checkout URL to redirect to. On
// failure the dialog stays on review with the cart untouched.
func (c *Checkout) Submit(ctx context.Context) (string, error) {
	if !c.open {
		return "", ErrClosed
	}
	if c.step != StepReview || c.identity == nil {
		return "", ErrNotReviewed
	}
	if c.cart.Empty() {
		return "", ErrEmptyCart
	}

	url, err := c.baskets.CreateBasket(ctx, models.BasketRequest{
		Packages: c.cart.Lines(),
		Username: c.identity.Raw,
	})
	if err != nil {
		c.logger.Warn("checkout failed", zap.Error(err))
		return "", err
	}
	return url, nil
}

// ConfirmReturn handles the return from the payment page. A successful
// purchase empties the cart.
func (c *Checkout) ConfirmReturn(success bool) {
	if !success {
		return
	}
	c.cart.Clear()
	c.Close()
}

// View returns the current render snapshot.
func (c *Checkout) View() CheckoutView {
	total, currency := c.cart.Total()
	v := CheckoutView{
		Open:     c.open,
		Step:     c.step,
		Username: c.draft,
		Items:    c.cart.Items(),
		Count:    c.cart.Count(),
		Total:    total,
		Currency: currency,
	}
	if c.identity != nil {
		id := *c.identity
		v.Identity = &id
	}
	if c.open {
		v.ShowNext = c.step == StepIdentity
		v.ShowBack = c.step == StepReview
		v.ShowSubmit = c.step == StepReview
	}
	return v
}
