package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/AveGamers/HolySMP-Website/models"
	"github.com/AveGamers/HolySMP-Website/providers"
	"github.com/AveGamers/HolySMP-Website/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ---- mock basket writer ----

type addCall struct {
	ident string
	req   models.AddPackageRequest
}

type mockBaskets struct {
	calls []string

	createReqs []models.CreateBasketRequest
	createErr  error
	ident      string

	adds      []addCall
	failAddAt int // 1-based; 0 disables
	addErr    error

	fetched  []string
	payload  json.RawMessage
	fetchErr error
}

func (m *mockBaskets) CreateBasket(_ context.Context, req models.CreateBasketRequest) (models.RemoteBasket, error) {
	m.calls = append(m.calls, "create")
	m.createReqs = append(m.createReqs, req)
	if m.createErr != nil {
		return models.RemoteBasket{}, m.createErr
	}
	return models.RemoteBasket{Ident: m.ident}, nil
}

func (m *mockBaskets) AddPackage(_ context.Context, ident string, req models.AddPackageRequest) error {
	m.calls = append(m.calls, "add")
	m.adds = append(m.adds, addCall{ident: ident, req: req})
	if m.failAddAt > 0 && len(m.adds) == m.failAddAt {
		return m.addErr
	}
	return nil
}

func (m *mockBaskets) GetBasket(_ context.Context, ident string) (json.RawMessage, models.RemoteBasket, error) {
	m.calls = append(m.calls, "fetch")
	m.fetched = append(m.fetched, ident)
	if m.fetchErr != nil {
		return nil, models.RemoteBasket{}, m.fetchErr
	}
	var env models.BasketEnvelope
	_ = json.Unmarshal(m.payload, &env)
	return m.payload, env.Remote(), nil
}

// ---- mock publisher / metrics ----

type mockPublisher struct {
	topics   []string
	messages [][]byte
	err      error
}

func (p *mockPublisher) Publish(_ context.Context, topic string, msg []byte) error {
	p.topics = append(p.topics, topic)
	p.messages = append(p.messages, msg)
	return p.err
}

type mockMetrics struct{ names []string }

func (m *mockMetrics) RecordCount(_ context.Context, name string, _ map[string]string) error {
	m.names = append(m.names, name)
	return nil
}

// ---- helper ----

const checkoutPayload = `{"data":{"ident":"bsk-1","links":{"checkout":"https://pay.tebex.io/bsk-1"}}}`

func newTestService(m *mockBaskets, opts services.BasketOptions) services.BasketService {
	logger, _ := zap.NewDevelopment()
	if opts.CompleteURL == "" {
		opts.CompleteURL = "https://holysmp.net/shop?success=true"
		opts.CancelURL = "https://holysmp.net/shop"
	}
	return services.NewBasketService(m, opts, logger)
}

// ---- tests ----

func TestCreateCheckout_SingleLine(t *testing.T) {
	m := &mockBaskets{ident: "bsk-1", payload: json.RawMessage(checkoutPayload)}
	svc := newTestService(m, services.BasketOptions{})

	out, err := svc.CreateCheckout(context.Background(), models.BasketRequest{
		Packages: []models.BasketLine{{ID: 7, Quantity: 2}},
		Username: "Max123",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"create", "add", "fetch"}, m.calls)
	require.Len(t, m.createReqs, 1)
	assert.Equal(t, "Max123", m.createReqs[0].Username)
	assert.Equal(t, "https://holysmp.net/shop?success=true", m.createReqs[0].CompleteURL)
	assert.Equal(t, "https://holysmp.net/shop", m.createReqs[0].CancelURL)

	require.Len(t, m.adds, 1)
	assert.Equal(t, "bsk-1", m.adds[0].ident)
	assert.Equal(t, models.AddPackageRequest{PackageID: 7, Quantity: 2}, m.adds[0].req)
	assert.Equal(t, []string{"bsk-1"}, m.fetched)

	var env models.BasketEnvelope
	require.NoError(t, json.Unmarshal(out, &env))
	assert.Equal(t, "https://pay.tebex.io/bsk-1", env.Data.Links.Checkout)
	assert.JSONEq(t, checkoutPayload, string(out))
}

func TestCreateCheckout_SubscriptionVariantIsForwarded(t *testing.T) {
	m := &mockBaskets{ident: "bsk-9", payload: json.RawMessage(checkoutPayload)}
	svc := newTestService(m, services.BasketOptions{})

	_, err := svc.CreateCheckout(context.Background(), models.BasketRequest{
		Packages: []models.BasketLine{{ID: 9, Quantity: 1, Type: models.VariantSubscription}},
	})
	require.NoError(t, err)
	require.Len(t, m.adds, 1)
	assert.Equal(t, models.VariantSubscription, m.adds[0].req.Type)
}

func TestCreateCheckout_AddsInInputOrder(t *testing.T) {
	m := &mockBaskets{ident: "bsk-2", payload: json.RawMessage(checkoutPayload)}
	svc := newTestService(m, services.BasketOptions{})

	lines := []models.BasketLine{{ID: 3, Quantity: 1}, {ID: 1, Quantity: 4}, {ID: 2, Quantity: 1, Type: models.VariantSingle}}
	_, err := svc.CreateCheckout(context.Background(), models.BasketRequest{Packages: lines})
	require.NoError(t, err)

	require.Len(t, m.createReqs, 1)
	require.Len(t, m.adds, 3)
	for i, line := range lines {
		assert.Equal(t, line.ID, m.adds[i].req.PackageID)
		assert.Equal(t, line.Quantity, m.adds[i].req.Quantity)
		assert.Equal(t, line.Type, m.adds[i].req.Type)
	}
}

func TestCreateCheckout_QuantityDefaultsToOne(t *testing.T) {
	m := &mockBaskets{ident: "bsk-3", payload: json.RawMessage(checkoutPayload)}
	svc := newTestService(m, services.BasketOptions{})

	_, err := svc.CreateCheckout(context.Background(), models.BasketRequest{Packages: []models.BasketLine{{ID: 5}}})
	require.NoError(t, err)
	assert.Equal(t, 1, m.adds[0].req.Quantity)
}

func TestCreateCheckout_EmptyPackages(t *testing.T) {
	m := &mockBaskets{ident: "bsk-x"}
	svc := newTestService(m, services.BasketOptions{})

	_, err := svc.CreateCheckout(context.Background(), models.BasketRequest{})
	var vErr *services.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, http.StatusBadRequest, services.StatusCode(err))
	assert.Empty(t, m.calls)
}

func TestCreateCheckout_InvalidLines(t *testing.T) {
	cases := map[string]models.BasketLine{
		"zero id":         {ID: 0, Quantity: 1},
		"negative qty":    {ID: 1, Quantity: -2},
		"unknown variant": {ID: 1, Quantity: 1, Type: "lifetime"},
	}
	for name, line := range cases {
		t.Run(name, func(t *testing.T) {
			m := &mockBaskets{ident: "bsk-x"}
			svc := newTestService(m, services.BasketOptions{})

			_, err := svc.CreateCheckout(context.Background(), models.BasketRequest{Packages: []models.BasketLine{line}})
			var vErr *services.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, "packages[0]", vErr.Field)
			assert.Empty(t, m.calls)
		})
	}
}

func TestCreateCheckout_StopsAtFirstFailedAdd(t *testing.T) {
	gwErr := &providers.GatewayError{Op: "add_package", StatusCode: http.StatusUnprocessableEntity, Message: "package disabled"}
	m := &mockBaskets{ident: "bsk-4", failAddAt: 2, addErr: gwErr}
	svc := newTestService(m, services.BasketOptions{})

	_, err := svc.CreateCheckout(context.Background(), models.BasketRequest{
		Packages: []models.BasketLine{{ID: 1, Quantity: 1}, {ID: 2, Quantity: 1}, {ID: 3, Quantity: 1}},
	})

	var wfErr *services.WorkflowError
	require.ErrorAs(t, err, &wfErr)
	assert.Equal(t, services.StepAddPackage, wfErr.Step)
	assert.Equal(t, 1, wfErr.Index)
	assert.Equal(t, 2, wfErr.PackageID)
	assert.Equal(t, "bsk-4", wfErr.BasketIdent)
	assert.True(t, errors.Is(err, gwErr))

	assert.Equal(t, []string{"create", "add", "add"}, m.calls)
	assert.Empty(t, m.fetched)
	assert.Equal(t, http.StatusUnprocessableEntity, services.StatusCode(err))
}

func TestCreateCheckout_CreateFails(t *testing.T) {
	m := &mockBaskets{createErr: &providers.GatewayError{Op: "create_basket", StatusCode: http.StatusUnauthorized, Message: "bad secret"}}
	metrics := &mockMetrics{}
	svc := newTestService(m, services.BasketOptions{Metrics: metrics})

	_, err := svc.CreateCheckout(context.Background(), models.BasketRequest{Packages: []models.BasketLine{{ID: 1, Quantity: 1}}})

	var wfErr *services.WorkflowError
	require.ErrorAs(t, err, &wfErr)
	assert.Equal(t, services.StepCreateBasket, wfErr.Step)
	assert.Equal(t, []string{"create"}, m.calls)
	assert.Equal(t, http.StatusUnauthorized, services.StatusCode(err))
	assert.Equal(t, []string{services.MetricBasketsFailed}, metrics.names)
}

func TestCreateCheckout_FetchFails(t *testing.T) {
	m := &mockBaskets{ident: "bsk-5", fetchErr: &providers.GatewayError{Op: "get_basket", Message: "connection reset"}}
	svc := newTestService(m, services.BasketOptions{})

	_, err := svc.CreateCheckout(context.Background(), models.BasketRequest{Packages: []models.BasketLine{{ID: 1, Quantity: 1}}})

	var wfErr *services.WorkflowError
	require.ErrorAs(t, err, &wfErr)
	assert.Equal(t, services.StepFetchBasket, wfErr.Step)
	assert.Equal(t, http.StatusInternalServerError, services.StatusCode(err))
}

func TestCreateCheckout_PublishesEventAndMetric(t *testing.T) {
	m := &mockBaskets{ident: "bsk-6", payload: json.RawMessage(checkoutPayload)}
	pub := &mockPublisher{}
	metrics := &mockMetrics{}
	svc := newTestService(m, services.BasketOptions{Publisher: pub, EventTopic: "arn:aws:sns:eu-central-1:000000000000:baskets", Metrics: metrics})

	_, err := svc.CreateCheckout(context.Background(), models.BasketRequest{
		Packages: []models.BasketLine{{ID: 7, Quantity: 2}},
		Username: ".Steve",
	})
	require.NoError(t, err)

	require.Len(t, pub.messages, 1)
	var ev models.BasketCreatedEvent
	require.NoError(t, json.Unmarshal(pub.messages[0], &ev))
	assert.Equal(t, "basket.created", ev.EventType)
	assert.Equal(t, "bsk-6", ev.BasketIdent)
	assert.Equal(t, ".Steve", ev.Username)
	assert.NotEmpty(t, ev.EventID)
	assert.Equal(t, []string{services.MetricBasketsCreated}, metrics.names)
}

func TestCreateCheckout_PublishFailureIsNotFatal(t *testing.T) {
	m := &mockBaskets{ident: "bsk-7", payload: json.RawMessage(checkoutPayload)}
	pub := &mockPublisher{err: errors.New("sns down")}
	svc := newTestService(m, services.BasketOptions{Publisher: pub, EventTopic: "topic"})

	out, err := svc.CreateCheckout(context.Background(), models.BasketRequest{Packages: []models.BasketLine{{ID: 1, Quantity: 1}}})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
