package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/AveGamers/HolySMP-Website/models"
	"github.com/AveGamers/HolySMP-Website/providers"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Metric names recorded by the basket workflow.
const (
	MetricBasketsCreated = "BasketsCreated"
	MetricBasketsFailed  = "BasketsFailed"
)

// EventPublisher publishes raw messages to a topic.
type EventPublisher interface {
	Publish(ctx context.Context, topicArn string, message []byte) error
}

// MetricsRecorder records counter metrics.
type MetricsRecorder interface {
	RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error
}

// BasketService turns a shop order into a checkout-ready remote basket.
type BasketService interface {
	CreateCheckout(ctx context.Context, req models.BasketRequest) (json.RawMessage, error)
}

// BasketOptions configures redirect targets and optional integrations.
type BasketOptions struct {
	CompleteURL string
	CancelURL   string

	Publisher  EventPublisher
	EventTopic string
	Metrics    MetricsRecorder
}

type basketServiceImpl struct {
	baskets  providers.BasketWriter
	opts     BasketOptions
	validate *validator.Validate
	logger   *zap.Logger
}

// NewBasketService creates a new BasketService.
func NewBasketService(baskets providers.BasketWriter, opts BasketOptions, logger *zap.Logger) BasketService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &basketServiceImpl{
		baskets:  baskets,
		opts:     opts,
		validate: validator.New(),
		logger:   logger,
	}
}

// CreateCheckout creates one basket, adds every line in order and returns the
// re-fetched basket payload. Calls are strictly sequential: the provider does
// not support concurrent writers on one basket. A failed add abandons the
// basket without rollback.
func (s *basketServiceImpl) CreateCheckout(ctx context.Context, req models.BasketRequest) (json.RawMessage, error) {
	lines, err := s.normalize(req.Packages)
	if err != nil {
		return nil, err
	}
	username := strings.TrimSpace(req.Username)

	basket, err := s.baskets.CreateBasket(ctx, models.CreateBasketRequest{
		CompleteURL: s.opts.CompleteURL,
		CancelURL:   s.opts.CancelURL,
		Username:    username,
	})
	if err != nil {
		s.logger.Error("create basket failed", zap.Error(err))
		s.recordFailure(ctx, StepCreateBasket)
		return nil, &WorkflowError{Step: StepCreateBasket, Err: err}
	}
	s.logger.Info("basket created", zap.String("basket", basket.Ident), zap.Int("lines", len(lines)))

	for i, line := range lines {
		add := models.AddPackageRequest{PackageID: line.ID, Quantity: line.Quantity, Type: line.Type}
		if err := s.baskets.AddPackage(ctx, basket.Ident, add); err != nil {
			s.logger.Warn("add package failed, abandoning basket",
				zap.String("basket", basket.Ident),
				zap.Int("index", i),
				zap.Int("package_id", line.ID),
				zap.Error(err),
			)
			s.recordFailure(ctx, StepAddPackage)
			return nil, &WorkflowError{Step: StepAddPackage, Index: i, PackageID: line.ID, BasketIdent: basket.Ident, Err: err}
		}
	}

	payload, final, err := s.baskets.GetBasket(ctx, basket.Ident)
	if err != nil {
		s.logger.Error("fetch basket failed", zap.String("basket", basket.Ident), zap.Error(err))
		s.recordFailure(ctx, StepFetchBasket)
		return nil, &WorkflowError{Step: StepFetchBasket, BasketIdent: basket.Ident, Err: err}
	}
	if final.CheckoutURL == "" {
		s.logger.Warn("fetched basket carries no checkout link", zap.String("basket", basket.Ident))
	}

	s.recordSuccess(ctx)
	s.publishCreated(ctx, basket.Ident, username, lines)
	return payload, nil
}

func (s *basketServiceImpl) normalize(in []models.BasketLine) ([]models.BasketLine, error) {
	if len(in) == 0 {
		return nil, &ValidationError{Field: "packages", Message: "Packages array is required"}
	}
	out := make([]models.BasketLine, 0, len(in))
	for i, line := range in {
		if err := s.validate.Struct(line); err != nil {
			return nil, &ValidationError{Field: fmt.Sprintf("packages[%d]", i), Message: describeValidation(err)}
		}
		if line.Quantity == 0 {
			line.Quantity = 1
		}
		out = append(out, line)
	}
	return out, nil
}

func describeValidation(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	switch fe.Field() {
	case "ID":
		return "id must be a positive package id"
	case "Quantity":
		return "quantity must not be negative"
	case "Type":
		return "type must be single or subscription"
	}
	return fe.Error()
}

func (s *basketServiceImpl) recordSuccess(ctx context.Context) {
	if s.opts.Metrics == nil {
		return
	}
	if err := s.opts.Metrics.RecordCount(ctx, MetricBasketsCreated, map[string]string{"Service": "shop-api"}); err != nil {
		s.logger.Warn("record metric failed", zap.String("metric", MetricBasketsCreated), zap.Error(err))
	}
}

func (s *basketServiceImpl) recordFailure(ctx context.Context, step Step) {
	if s.opts.Metrics == nil {
		return
	}
	dims := map[string]string{"Service": "shop-api", "Step": string(step)}
	if err := s.opts.Metrics.RecordCount(ctx, MetricBasketsFailed, dims); err != nil {
		s.logger.Warn("record metric failed", zap.String("metric", MetricBasketsFailed), zap.Error(err))
	}
}

// publishCreated emits a basket.created event; failures are logged only.
func (s *basketServiceImpl) publishCreated(ctx context.Context, ident, username string, lines []models.BasketLine) {
	if s.opts.Publisher == nil || s.opts.EventTopic == "" {
		return
	}
	b, err := json.Marshal(models.BasketCreatedEvent{
		EventType:   "basket.created",
		EventID:     uuid.NewString(),
		BasketIdent: ident,
		Username:    username,
		Items:       lines,
		Timestamp:   time.Now().UTC(),
	})
	if err != nil {
		s.logger.Error("marshal basket event failed", zap.Error(err))
		return
	}
	if err := s.opts.Publisher.Publish(ctx, s.opts.EventTopic, b); err != nil {
		s.logger.Error("publish basket event failed", zap.String("basket", ident), zap.Error(err))
	}
}
