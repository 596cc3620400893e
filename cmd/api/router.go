package api

import (
	"net/http"

	contactDelivery "contacthub-backend/internal/contact/delivery"
	duplicateDelivery "contacthub-backend/internal/duplicate/delivery"
	sourceDelivery "contacthub-backend/internal/source/delivery"
	taskDelivery "contacthub-backend/internal/task/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	r *gin.Engine,
	contactHandler *contactDelivery.ContactHandler,
	duplicateHandler *duplicateDelivery.DuplicateHandler,
	taskHandler *taskDelivery.TaskHandler,
	sourceHandler *sourceDelivery.SourceHandler,
) {
	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		contacts := api.Group("/contacts")
		{
			contacts.GET("", contactHandler.GetContacts)
			contacts.POST("", contactHandler.CreateContact)
			contacts.GET("/duplicates", duplicateHandler.GetDuplicates)
			contacts.POST("/merge", contactHandler.MergeContacts)
			contacts.GET("/:id", contactHandler.GetContactByID)
			contacts.PUT("/:id", contactHandler.UpdateContact)
			contacts.DELETE("/:id", contactHandler.DeleteContact)
		}

		history := api.Group("/history")
		{
			history.GET("", contactHandler.GetHistory)
			history.POST("/undo", contactHandler.Undo)
			history.POST("/redo", contactHandler.Redo)
		}

		api.GET("/cache/status", duplicateHandler.GetCacheStatus)

		tasks := api.Group("/tasks")
		{
			tasks.GET("/status", taskHandler.GetTasks)
			tasks.GET("/:id", taskHandler.GetTaskByID)
		}

		sources := api.Group("/sources")
		{
			sources.GET("", sourceHandler.GetSources)
			sources.POST("", sourceHandler.CreateSource)
			sources.GET("/gmail/auth-url", sourceHandler.GetGmailAuthURL)
			sources.GET("/gmail/callback", sourceHandler.GmailCallback)
			sources.POST("/csv/preview", sourceHandler.PreviewCSV)
			sources.POST("/csv/import", sourceHandler.ImportCSV)
			sources.DELETE("/:id", sourceHandler.DeleteSource)
			sources.POST("/:id/sync", sourceHandler.SyncSource)
		}
	}
}
