package cli

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"llm-stack-deploy/internal/config"
	"llm-stack-deploy/internal/pkg/logger"
	"llm-stack-deploy/internal/service"
)

var (
	appLogger *logger.Logger
	cfg       *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "stackdeploy",
	Short: "LLM应用栈部署工具",
	Long:  `部署前端、后端和Ollama运行时组成的容器栈到远程主机，或在本机交互式安装。`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 加载环境变量
		if err := godotenv.Load(); err != nil {
			appLogger.Debug("未找到.env文件，使用默认配置")
		}
		cfg = config.LoadConfig()
		return cfg.Validate()
	},
}

func Root() *cobra.Command {
	return rootCmd
}

func init() {
	appLogger = logger.NewLogger()

	rootCmd.AddCommand(deployCmd)
	rootCmd.AddCommand(redeployCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(serverCmd)
}

// newDeployService 组装部署编排器及其协作服务
func newDeployService() *service.DeployService {
	workDir, _ := os.Getwd()
	gitService := service.NewGitService(appLogger, workDir)
	stackService := service.NewStackService(appLogger, cfg.SSH.ConnectTimeout)
	return service.NewDeployService(cfg, gitService, stackService, newProbeService(), appLogger)
}

func newProbeService() *service.ProbeService {
	return service.NewProbeService(appLogger, cfg.Probe.HTTPTimeout)
}
