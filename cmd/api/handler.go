package api

import (
	"log/slog"

	contactDelivery "contacthub-backend/internal/contact/delivery"
	contactUsecasePkg "contacthub-backend/internal/contact/usecase"
	duplicateDelivery "contacthub-backend/internal/duplicate/delivery"
	duplicateUsecasePkg "contacthub-backend/internal/duplicate/usecase"
	sourceDelivery "contacthub-backend/internal/source/delivery"
	sourceUsecasePkg "contacthub-backend/internal/source/usecase"
	taskDelivery "contacthub-backend/internal/task/delivery"
	taskUsecasePkg "contacthub-backend/internal/task/usecase"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	contactHandler   *contactDelivery.ContactHandler
	duplicateHandler *duplicateDelivery.DuplicateHandler
	taskHandler      *taskDelivery.TaskHandler
	sourceHandler    *sourceDelivery.SourceHandler
}

func NewHandler(
	contactUc contactUsecasePkg.ContactUsecase,
	duplicateUc duplicateUsecasePkg.DuplicateUsecase,
	taskUc taskUsecasePkg.TaskUsecase,
	sourceUc sourceUsecasePkg.SourceUsecase,
) *Handler {
	return &Handler{
		contactHandler:   contactDelivery.NewContactHandler(contactUc),
		duplicateHandler: duplicateDelivery.NewDuplicateHandler(duplicateUc),
		taskHandler:      taskDelivery.NewTaskHandler(taskUc),
		sourceHandler:    sourceDelivery.NewSourceHandler(sourceUc),
	}
}

// Router builds the gin engine with middleware and every route registered
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(slog.Default().With("component", "HTTP")), gin.Recovery())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.contactHandler, h.duplicateHandler, h.taskHandler, h.sourceHandler)
	return r
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
		}
		if status >= 500 {
			logger.Error("request failed", append(attrs, "errors", c.Errors.String())...)
			return
		}
		logger.Debug("request", attrs...)
	}
}
