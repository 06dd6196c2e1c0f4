package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"llm-stack-deploy/internal/service"
)

var statusOutputFormat string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "探测部署目标上各服务的可达性",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringVarP(&statusOutputFormat, "output", "o", "text", "输出格式 (text, json)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	probeService := service.NewProbeService(appLogger, cfg.Probe.HTTPTimeout)
	results := probeService.ProbeAll(cfg.Target.Host, cfg.Stack)

	if statusOutputFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	// 文本输出已由探测过程逐条打印
	return nil
}
