package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"llm-stack-deploy/internal/config"
	"llm-stack-deploy/internal/model"
	"llm-stack-deploy/internal/service"
)

type ProbeHandler struct {
	probeService *service.ProbeService
	cfg          *config.Config
}

func NewProbeHandler(probeService *service.ProbeService, cfg *config.Config) *ProbeHandler {
	return &ProbeHandler{
		probeService: probeService,
		cfg:          cfg,
	}
}

// Probe 对部署目标的固定端点集合做一轮探测
func (h *ProbeHandler) Probe(c *gin.Context) {
	results := h.probeService.ProbeAll(h.cfg.Target.Host, h.cfg.Stack)

	c.JSON(http.StatusOK, model.ProbeResponse{
		Success: true,
		Results: results,
	})
}
