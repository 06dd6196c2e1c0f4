package cli

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"llm-stack-deploy/internal/handler"
	"llm-stack-deploy/internal/router"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "以HTTP API方式提供部署能力",
	Long:  `启动一个本地HTTP服务，通过API触发异步部署、查询进度、经WebSocket实时查看日志。`,
	RunE:  runServer,
}

func runServer(cmd *cobra.Command, args []string) error {
	// 初始化日志
	zapLogger, _ := zap.NewProduction()
	defer zapLogger.Sync()
	zap.ReplaceGlobals(zapLogger)

	// 设置Gin模式
	gin.SetMode(gin.ReleaseMode) // 开发阶段可改为 gin.DebugMode

	r := gin.New()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	// 配置CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.AllowOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	r.Use(cors.New(corsConfig))

	// 初始化处理器
	deployHandler := handler.NewDeployHandler(newDeployService())
	probeHandler := handler.NewProbeHandler(newProbeService(), cfg)

	// 注册路由
	router.RegisterRoutes(r, deployHandler, probeHandler)

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 启动服务器，明确绑定到 localhost
	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port)
	zapLogger.Info("Starting server", zap.String("address", addr))
	if err := r.Run(addr); err != nil {
		zapLogger.Fatal("Failed to start server", zap.Error(err))
	}
	return nil
}
