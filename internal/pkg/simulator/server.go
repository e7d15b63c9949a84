package simulator

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

type ackResponse struct {
	OK bool `json:"ok"`
}

type acceptRequest struct {
	Name string `json:"name"`
}

type setupRequest struct {
	NFSName []string `json:"nfs_name"`
}

// NewRouter serves the backend REST surface under /api.
func NewRouter(b *Backend, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	RegisterRoutes(r.Group("/api"), b)

	return r
}

// RegisterRoutes adds the backend handlers to a router group.
func RegisterRoutes(api *gin.RouterGroup, b *Backend) {
	api.GET("/status", handleStatus(b))
	api.POST("/bootstrap", handleBootstrap(b))
	api.GET("/inventory", handleInventory(b))
	api.POST("/solution/accept", handleAccept(b))
	api.POST("/services/setup", handleSetup(b))
	api.GET("/df", handleUsage(b))
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.String("request_id", c.GetHeader("X-Request-Id")),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}

func abortWithError(c *gin.Context, err error) {
	code := http.StatusInternalServerError

	switch {
	case errors.Is(err, ErrNotReady):
		code = http.StatusConflict
	case errors.Is(err, ErrInvalid):
		code = http.StatusBadRequest
	}

	c.AbortWithStatusJSON(code, ErrorResponse{Error: err.Error()})
}

func handleStatus(b *Backend) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, b.Status())
	}
}

func handleBootstrap(b *Backend) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := b.Bootstrap(); err != nil {
			abortWithError(c, err)

			return
		}

		c.JSON(http.StatusOK, ackResponse{OK: true})
	}
}

func handleInventory(b *Backend) gin.HandlerFunc {
	return func(c *gin.Context) {
		inv, err := b.Inventory()
		if err != nil {
			abortWithError(c, err)

			return
		}

		c.JSON(http.StatusOK, inv)
	}
}

func handleAccept(b *Backend) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req acceptRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, errors.Join(ErrInvalid, err))

			return
		}

		if err := b.AcceptSolution(req.Name); err != nil {
			abortWithError(c, err)

			return
		}

		c.JSON(http.StatusOK, ackResponse{OK: true})
	}
}

func handleSetup(b *Backend) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req setupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, errors.Join(ErrInvalid, err))

			return
		}

		if err := b.SetupServices(req.NFSName); err != nil {
			abortWithError(c, err)

			return
		}

		c.JSON(http.StatusOK, ackResponse{OK: true})
	}
}

func handleUsage(b *Backend) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, b.Usage())
	}
}
