package service

import (
	"fmt"
	"time"

	"llm-stack-deploy/internal/model"
	"llm-stack-deploy/internal/pkg/logger"
	"llm-stack-deploy/internal/pkg/ssh"
	"llm-stack-deploy/pkg/utils"
)

type StackService struct {
	logger         *logger.Logger
	connectTimeout time.Duration
}

func NewStackService(logger *logger.Logger, connectTimeout time.Duration) *StackService {
	return &StackService{
		logger:         logger,
		connectTimeout: connectTimeout,
	}
}

func (s *StackService) connect(target model.DeployTarget) (*ssh.Client, error) {
	s.logger.SSHConnectionAttempt(fmt.Sprintf("%s@%s:%d", target.Username, target.Host, target.Port))

	client := ssh.NewClient(ssh.SSHConfig{
		Host:           target.Host,
		Port:           target.Port,
		Username:       target.Username,
		KeyPath:        target.KeyPath,
		ConnectTimeout: s.connectTimeout,
	})

	// 先做TCP可达性检查，避免对不可达主机做完整的握手超时等待
	if !client.IsPortOpen(target.Port) {
		return nil, utils.NewSSHError(fmt.Errorf("SSH端口 %s:%d 不可达", target.Host, target.Port))
	}

	if err := client.Connect(); err != nil {
		return nil, utils.NewSSHError(err)
	}
	return client, nil
}

// RefreshScript 远程刷新命令批次：拉取源码、停栈、可选清理、
// 重建镜像、后台启动、列出服务。逐条命令的失败不单独捕获，
// 调用方只检查整批的退出码。
func (s *StackService) RefreshScript(target model.DeployTarget, opts model.DeployOptions) []string {
	lines := []string{
		fmt.Sprintf("cd %s", target.RemoteDir),
		fmt.Sprintf("git pull origin %s", target.Branch),
	}

	down := "docker compose down --remove-orphans"
	if opts.RemoveVolumes {
		down = "docker compose down --volumes --remove-orphans"
	}
	lines = append(lines, down)

	if opts.Prune {
		lines = append(lines,
			"docker container prune -f",
			"docker network prune -f",
		)
	}

	build := "docker compose build"
	if opts.NoCache {
		build = "docker compose build --no-cache"
	}
	lines = append(lines,
		build,
		"docker compose up -d",
		"sleep 10",
		"docker compose ps",
	)

	return lines
}

// SnapshotScript 日志快照命令批次：容器状态加最近日志
func (s *StackService) SnapshotScript(target model.DeployTarget) []string {
	return []string{
		fmt.Sprintf("cd %s", target.RemoteDir),
		"docker compose ps",
		"docker compose logs --tail=50",
	}
}

// Refresh 打开一次远程会话执行刷新批次，返回合并输出
func (s *StackService) Refresh(target model.DeployTarget, opts model.DeployOptions) (string, error) {
	client, err := s.connect(target)
	if err != nil {
		return "", err
	}
	defer client.Close()

	result, err := client.ExecuteScript(s.RefreshScript(target, opts))
	if err != nil {
		output := ""
		if result != nil {
			output = result.Stdout + "\n" + result.Stderr
		}
		return output, fmt.Errorf("远程刷新失败（退出码%d）: %v", exitCode(result), err)
	}

	return result.Stdout, nil
}

// Snapshot 再开一次远程会话打印容器状态和日志尾部
func (s *StackService) Snapshot(target model.DeployTarget) (string, error) {
	client, err := s.connect(target)
	if err != nil {
		return "", err
	}
	defer client.Close()

	result, err := client.ExecuteScript(s.SnapshotScript(target))
	if err != nil {
		return "", fmt.Errorf("获取日志快照失败: %v", err)
	}

	return result.Stdout, nil
}

func exitCode(result *ssh.CommandResult) int {
	if result == nil {
		return -1
	}
	return result.ExitCode
}
