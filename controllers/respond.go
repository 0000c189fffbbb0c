package controllers

import (
	"errors"

	"github.com/AveGamers/HolySMP-Website/providers"
	"github.com/AveGamers/HolySMP-Website/services"
	"github.com/gin-gonic/gin"
)

// errorMessage prefers the upstream message over the wrapped error chain.
func errorMessage(err error) string {
	var gwErr *providers.GatewayError
	if errors.As(err, &gwErr) && gwErr.Message != "" {
		return gwErr.Message
	}
	return err.Error()
}

// abortWithGatewayError writes {error, message} with the upstream status, or
// 500 when the upstream never answered.
func abortWithGatewayError(ctx *gin.Context, title string, err error) {
	ctx.JSON(services.StatusCode(err), gin.H{"error": title, "message": errorMessage(err)})
}

// passthrough writes an upstream JSON payload unchanged.
func passthrough(ctx *gin.Context, status int, payload []byte) {
	ctx.Data(status, "application/json; charset=utf-8", payload)
}
