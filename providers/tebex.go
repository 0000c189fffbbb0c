package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/AveGamers/HolySMP-Website/models"
	"go.uber.org/zap"
)

// DefaultTebexBaseURL is the Tebex Headless API root.
const DefaultTebexBaseURL = "https://headless.tebex.io/api"

// TebexConfig holds the credentials for one webstore.
type TebexConfig struct {
	BaseURL     string
	PublicToken string
	SecretToken string
	Timeout     time.Duration
}

// TebexProvider implements CommerceProvider using the Tebex Headless API.
type TebexProvider struct {
	baseURL     string
	publicToken string
	secretToken string
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewTebexProvider creates a new TebexProvider.
func NewTebexProvider(cfg TebexConfig, logger *zap.Logger) *TebexProvider {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultTebexBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TebexProvider{
		baseURL:     strings.TrimSuffix(base, "/"),
		publicToken: cfg.PublicToken,
		secretToken: cfg.SecretToken,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

// authMode selects which credentials accompany a request.
type authMode int

const (
	authPublic authMode = iota
	authSecret
)

// ---- CatalogReader ----

func (t *TebexProvider) ListCategories(ctx context.Context) (json.RawMessage, error) {
	q := url.Values{"includePackages": []string{"1"}}
	return t.getRaw(ctx, "list_categories", t.accountPath("/categories"), q)
}

func (t *TebexProvider) ListPackages(ctx context.Context) (json.RawMessage, error) {
	return t.getRaw(ctx, "list_packages", t.accountPath("/packages"), nil)
}

func (t *TebexProvider) GetPackage(ctx context.Context, id int) (json.RawMessage, error) {
	return t.getRaw(ctx, "get_package", t.accountPath(fmt.Sprintf("/packages/%d", id)), nil)
}

func (t *TebexProvider) GetWebstoreInfo(ctx context.Context) (json.RawMessage, error) {
	return t.getRaw(ctx, "webstore_info", t.accountPath("/categories"), nil)
}

// ---- BasketWriter ----

// CreateBasket opens a basket using HTTP basic auth with the secret token.
func (t *TebexProvider) CreateBasket(ctx context.Context, req models.CreateBasketRequest) (models.RemoteBasket, error) {
	const op = "create_basket"
	body, err := t.doRequest(ctx, op, http.MethodPost, t.accountPath("/baskets"), nil, req, authSecret)
	if err != nil {
		return models.RemoteBasket{}, err
	}

	var env models.BasketEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return models.RemoteBasket{}, &GatewayError{Op: op, StatusCode: http.StatusBadGateway, Message: "decode response: " + err.Error(), RawBody: body, Err: err}
	}
	basket := env.Remote()
	if basket.Ident == "" {
		return models.RemoteBasket{}, &GatewayError{Op: op, StatusCode: http.StatusBadGateway, Message: "basket ident missing from response", RawBody: body}
	}
	return basket, nil
}

// AddPackage adds a package line to the basket.
func (t *TebexProvider) AddPackage(ctx context.Context, ident string, req models.AddPackageRequest) error {
	path := "/baskets/" + url.PathEscape(ident) + "/packages"
	_, err := t.doRequest(ctx, "add_package", http.MethodPost, path, nil, req, authPublic)
	return err
}

// GetBasket fetches the basket by ident.
func (t *TebexProvider) GetBasket(ctx context.Context, ident string) (json.RawMessage, models.RemoteBasket, error) {
	const op = "get_basket"
	body, err := t.doRequest(ctx, op, http.MethodGet, t.accountPath("/baskets/"+url.PathEscape(ident)), nil, nil, authPublic)
	if err != nil {
		return nil, models.RemoteBasket{}, err
	}
	var env models.BasketEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, models.RemoteBasket{}, &GatewayError{Op: op, StatusCode: http.StatusBadGateway, Message: "decode response: " + err.Error(), RawBody: body, Err: err}
	}
	return json.RawMessage(body), env.Remote(), nil
}

// ---- HTTP helpers ----

func (t *TebexProvider) accountPath(suffix string) string {
	return "/accounts/" + url.PathEscape(t.publicToken) + suffix
}

func (t *TebexProvider) getRaw(ctx context.Context, op, path string, query url.Values) (json.RawMessage, error) {
	body, err := t.doRequest(ctx, op, http.MethodGet, path, query, nil, authPublic)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, &GatewayError{Op: op, StatusCode: http.StatusBadGateway, Message: "upstream returned invalid JSON", RawBody: body}
	}
	return json.RawMessage(body), nil
}

func (t *TebexProvider) doRequest(ctx context.Context, op, method, path string, query url.Values, payload interface{}, auth authMode) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, &GatewayError{Op: op, Message: "marshal request: " + err.Error(), Err: err}
		}
		reqBody = bytes.NewReader(b)
	}

	u := t.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, &GatewayError{Op: op, Message: "create request: " + err.Error(), Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth == authSecret {
		req.SetBasicAuth(t.publicToken, t.secretToken)
	}

	start := time.Now()
	resp, err := t.httpClient.Do(req)
	if err != nil {
		t.logger.Warn("tebex request failed",
			zap.String("op", op),
			zap.String("method", method),
			zap.Duration("latency", time.Since(start)),
			zap.Error(err),
		)
		return nil, &GatewayError{Op: op, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &GatewayError{Op: op, StatusCode: resp.StatusCode, Message: "read response: " + err.Error(), Err: err}
	}

	t.logger.Debug("tebex request",
		zap.String("op", op),
		zap.String("method", method),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &GatewayError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    upstreamMessage(resp.StatusCode, respBytes),
			RawBody:    respBytes,
		}
	}
	return respBytes, nil
}
