package events

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(rg *gin.RouterGroup, ctrl *Controller) {
	eventRoutes := rg.Group("/events")
	{
		eventRoutes.GET("", ctrl.ListEvents)
		eventRoutes.GET("/:id", ctrl.GetEvent)
		eventRoutes.GET("/:id/sections", ctrl.GetEventSections)
	}
}
