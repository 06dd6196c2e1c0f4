package cli

import (
	"github.com/spf13/cobra"

	"llm-stack-deploy/internal/model"
)

var (
	deployOpts   model.DeployOptions
	redeployOpts model.DeployOptions
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "完整部署到远程主机",
	Long:  `提交并推送本地修改，SSH到远程主机重建并启动容器栈，然后探测各服务端点。`,
	RunE:  runDeploy,
}

// redeployCmd 快速重新部署：不清理容器网络、保留构建缓存。
// NoCache和Prune不暴露为标志，保持零值。
var redeployCmd = &cobra.Command{
	Use:   "redeploy",
	Short: "快速重新部署（保留缓存，不做清理）",
	RunE: func(cmd *cobra.Command, args []string) error {
		return newDeployService().Run(redeployOpts, nil)
	},
}

func init() {
	deployCmd.Flags().BoolVar(&deployOpts.NoCache, "no-cache", true, "重建镜像时不使用层缓存")
	deployCmd.Flags().BoolVar(&deployOpts.Prune, "prune", true, "停栈后清理无用容器和网络")
	deployCmd.Flags().BoolVar(&deployOpts.RemoveVolumes, "volumes", false, "停栈时同时删除数据卷")
	deployCmd.Flags().BoolVar(&deployOpts.SkipPush, "skip-push", false, "跳过本地提交推送步骤")

	redeployCmd.Flags().BoolVar(&redeployOpts.RemoveVolumes, "volumes", false, "停栈时同时删除数据卷")
	redeployCmd.Flags().BoolVar(&redeployOpts.SkipPush, "skip-push", false, "跳过本地提交推送步骤")
}

func runDeploy(cmd *cobra.Command, args []string) error {
	return newDeployService().Run(deployOpts, nil)
}
