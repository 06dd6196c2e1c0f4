package cli

import (
	"os"

	"github.com/spf13/cobra"

	"llm-stack-deploy/internal/service"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "在本机交互式安装并启动栈",
	Long:  `检查Docker环境和系统资源，交互式收集模型与端口选择，写入环境文件后构建并启动本地容器栈，等待服务就绪并下载所选模型。`,
	RunE:  runSetup,
}

func runSetup(cmd *cobra.Command, args []string) error {
	workDir, err := os.Getwd()
	if err != nil {
		return err
	}

	probeService := service.NewProbeService(appLogger, cfg.Probe.HTTPTimeout)
	setupService := service.NewSetupService(cfg, probeService, appLogger, workDir)
	return setupService.Run(os.Stdin)
}
