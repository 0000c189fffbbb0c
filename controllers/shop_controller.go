package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/AveGamers/HolySMP-Website/models"
	"github.com/AveGamers/HolySMP-Website/providers"
	"github.com/AveGamers/HolySMP-Website/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ShopController proxies catalog reads and runs basket assembly.
type ShopController struct {
	catalog providers.CatalogReader
	baskets services.BasketService
	logger  *zap.Logger
}

// NewShopController creates a new ShopController.
func NewShopController(catalog providers.CatalogReader, baskets services.BasketService, logger *zap.Logger) *ShopController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShopController{catalog: catalog, baskets: baskets, logger: logger}
}

// Categories handles GET /api/categories
func (sc *ShopController) Categories(ctx *gin.Context) {
	payload, err := sc.catalog.ListCategories(ctx.Request.Context())
	if err != nil {
		sc.logger.Error("fetch categories failed", zap.Error(err))
		abortWithGatewayError(ctx, "Failed to fetch categories", err)
		return
	}
	passthrough(ctx, http.StatusOK, payload)
}

// Packages handles GET /api/packages
func (sc *ShopController) Packages(ctx *gin.Context) {
	payload, err := sc.catalog.ListPackages(ctx.Request.Context())
	if err != nil {
		sc.logger.Error("fetch packages failed", zap.Error(err))
		abortWithGatewayError(ctx, "Failed to fetch packages", err)
		return
	}
	passthrough(ctx, http.StatusOK, payload)
}

// PackageByID handles GET /api/packages/:id
func (sc *ShopController) PackageByID(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "message": "Package id must be a positive integer"})
		return
	}

	payload, err := sc.catalog.GetPackage(ctx.Request.Context(), id)
	if err != nil {
		sc.logger.Error("fetch package failed", zap.Int("package_id", id), zap.Error(err))
		abortWithGatewayError(ctx, "Failed to fetch package", err)
		return
	}
	passthrough(ctx, http.StatusOK, payload)
}

// Info handles GET /api/info
func (sc *ShopController) Info(ctx *gin.Context) {
	payload, err := sc.catalog.GetWebstoreInfo(ctx.Request.Context())
	if err != nil {
		sc.logger.Error("fetch webstore info failed", zap.Error(err))
		abortWithGatewayError(ctx, "Failed to fetch webstore info", err)
		return
	}
	passthrough(ctx, http.StatusOK, payload)
}

// CreateBasket handles POST /api/basket
func (sc *ShopController) CreateBasket(ctx *gin.Context) {
	var req models.BasketRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "message": "Packages array is required"})
		return
	}

	payload, err := sc.baskets.CreateCheckout(ctx.Request.Context(), req)
	if err == nil {
		passthrough(ctx, http.StatusOK, payload)
		return
	}

	var vErr *services.ValidationError
	if errors.As(err, &vErr) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "message": vErr.Message})
		return
	}

	status := services.StatusCode(err)
	var wfErr *services.WorkflowError
	if errors.As(err, &wfErr) && wfErr.Step == services.StepCreateBasket {
		// secret-authenticated call: upstream bodies stay in the logs
		ctx.JSON(status, gin.H{"error": "Failed to create basket", "message": "Could not open a basket with the store"})
		return
	}

	resp := gin.H{"error": "Failed to create basket", "message": errorMessage(err)}
	var gwErr *providers.GatewayError
	if errors.As(err, &gwErr) {
		if details := gwErr.Details(); details != nil {
			resp["details"] = details
		}
	}
	ctx.JSON(status, resp)
}
