package handler

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"llm-stack-deploy/internal/model"
	"llm-stack-deploy/internal/service"
)

type DeployHandler struct {
	deployService *service.DeployService

	mu    sync.Mutex
	tasks map[string]model.ProgressResponse
}

func NewDeployHandler(deployService *service.DeployService) *DeployHandler {
	return &DeployHandler{
		deployService: deployService,
		tasks:         make(map[string]model.ProgressResponse),
	}
}

// Deploy 启动一次异步部署任务，返回任务ID供进度查询
func (h *DeployHandler) Deploy(c *gin.Context) {
	var req model.DeployRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		zap.L().Error("Invalid deploy request", zap.Error(err))
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: "请求参数无效",
			Details: err.Error(),
		})
		return
	}

	taskId := uuid.New().String()
	h.setProgress(taskId, model.ProgressResponse{
		Success:  true,
		Progress: 0,
		Status:   "deploying",
		Logs:     []string{"Deployment started"},
	})

	go func() {
		err := h.deployService.Run(req.Options(), func(step string, percent float64, message string) {
			h.mu.Lock()
			progress := h.tasks[taskId]
			progress.Progress = percent
			progress.Logs = append(progress.Logs, message)
			h.tasks[taskId] = progress
			h.mu.Unlock()
		})

		h.mu.Lock()
		progress := h.tasks[taskId]
		if err != nil {
			progress.Success = false
			progress.Status = "error"
			progress.Error = err.Error()
			zap.L().Error("Deployment task failed", zap.String("taskId", taskId), zap.Error(err))
		} else {
			progress.Status = "success"
			progress.Progress = 100
			progress.Logs = append(progress.Logs, "Deployment completed successfully")
		}
		h.tasks[taskId] = progress
		h.mu.Unlock()
	}()

	c.JSON(http.StatusOK, model.DeployResponse{
		Success: true,
		TaskID:  taskId,
		Message: "Deployment started",
	})
}

// Progress 查询部署任务进度
func (h *DeployHandler) Progress(c *gin.Context) {
	taskId := c.Param("taskId")

	h.mu.Lock()
	progress, exists := h.tasks[taskId]
	h.mu.Unlock()

	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Task not found"})
		return
	}

	c.JSON(http.StatusOK, progress)
}

func (h *DeployHandler) setProgress(taskId string, progress model.ProgressResponse) {
	h.mu.Lock()
	h.tasks[taskId] = progress
	h.mu.Unlock()
}

func (h *DeployHandler) snapshot(taskId string) (model.ProgressResponse, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	progress, exists := h.tasks[taskId]
	return progress, exists
}
