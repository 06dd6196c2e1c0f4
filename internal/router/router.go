package router

import (
	"github.com/gin-gonic/gin"

	"llm-stack-deploy/internal/handler"
)

func RegisterRoutes(r *gin.Engine, deployHandler *handler.DeployHandler, probeHandler *handler.ProbeHandler) {
	api := r.Group("/api")
	{
		deploy := api.Group("/deploy")
		{
			deploy.POST("", deployHandler.Deploy)
			deploy.GET("/progress/:taskId", deployHandler.Progress)
			deploy.GET("/logs", deployHandler.StreamLogs)
		}

		api.GET("/probe", probeHandler.Probe)
	}
}
