package handlers

import (
	"errors"

	"feed-api/middleware"
	"feed-api/pkg/logger"
	"feed-api/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError writes the error envelope for err and aborts the chain.
// Errors that are not an *types.AppError are reported as store failures.
func respondError(c *gin.Context, err error) {
	var appErr *types.AppError
	if !errors.As(err, &appErr) {
		appErr = types.StoreFailure(err)
	}
	if appErr.Status >= 500 {
		logger.Error("request failed",
			zap.String("requestId", middleware.RequestID(c)),
			zap.String("path", c.FullPath()),
			zap.Error(appErr),
		)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(appErr.Status, appErr.Response())
}
