package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StreamLogs 通过WebSocket推送部署任务日志，
// 任务进入终态后推完剩余日志即关闭连接。
func (h *DeployHandler) StreamLogs(c *gin.Context) {
	taskId := c.Query("taskId")
	if taskId == "" {
		zap.L().Error("Missing taskId")
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing taskId"})
		return
	}

	if _, exists := h.snapshot(taskId); !exists {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Task not found"})
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Error("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer ws.Close()

	sent := 0
	for {
		progress, exists := h.snapshot(taskId)
		if !exists {
			return
		}

		for ; sent < len(progress.Logs); sent++ {
			if err := ws.WriteMessage(websocket.TextMessage, []byte(progress.Logs[sent])); err != nil {
				zap.L().Warn("WebSocket write error", zap.Error(err))
				return
			}
		}

		if progress.Status != "deploying" {
			zap.L().Info("Log stream finished", zap.String("taskId", taskId), zap.String("status", progress.Status))
			return
		}

		time.Sleep(500 * time.Millisecond)
	}
}
