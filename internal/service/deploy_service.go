package service

import (
	"fmt"

	"llm-stack-deploy/internal/config"
	"llm-stack-deploy/internal/model"
	"llm-stack-deploy/internal/pkg/logger"
	"llm-stack-deploy/pkg/utils"
)

type DeployService struct {
	logger *logger.Logger
	cfg    *config.Config
	git    *GitService
	stack  *StackService
	probe  *ProbeService
}

func NewDeployService(cfg *config.Config, git *GitService, stack *StackService, probe *ProbeService, logger *logger.Logger) *DeployService {
	return &DeployService{
		logger: logger,
		cfg:    cfg,
		git:    git,
		stack:  stack,
		probe:  probe,
	}
}

// ProgressFunc 部署进度回调，API异步任务用它更新进度
type ProgressFunc func(step string, percent float64, message string)

type deployStep struct {
	name  string
	fatal bool
	fn    func(*model.DeployOptions) error
}

// Run 按固定顺序执行部署流程。标记为致命的步骤失败时立即中止，
// 非致命步骤失败只告警继续。
func (s *DeployService) Run(opts model.DeployOptions, progress ProgressFunc) error {
	steps := []deployStep{
		{"前置检查", true, s.preconditionStep},
		{"源码同步", true, s.sourceSyncStep},
		{"远程刷新", true, s.remoteRefreshStep},
		{"健康探测", false, s.healthPollStep},
		{"日志快照", true, s.logSnapshotStep},
		{"部署总结", false, s.summaryStep},
	}

	for i, step := range steps {
		s.logger.DeploymentStep(step.name)
		if progress != nil {
			progress(step.name, float64(i*100)/float64(len(steps)), fmt.Sprintf("开始 %s", step.name))
		}

		if err := step.fn(&opts); err != nil {
			if step.fatal {
				s.logger.DeploymentError(step.name, err)
				if progress != nil {
					progress(step.name, float64(i*100)/float64(len(steps)), fmt.Sprintf("失败 %s: %v", step.name, err))
				}
				return utils.NewDeployError(step.name, err)
			}
			s.logger.Warnf("步骤 %s 出现非致命错误: %v", step.name, err)
		}

		s.logger.DeploymentSuccess(step.name)
		if progress != nil {
			progress(step.name, float64((i+1)*100)/float64(len(steps)), fmt.Sprintf("完成 %s", step.name))
		}
	}

	return nil
}

func (s *DeployService) preconditionStep(_ *model.DeployOptions) error {
	return s.git.CheckProjectRoot(config.MarkerFile)
}

func (s *DeployService) sourceSyncStep(opts *model.DeployOptions) error {
	if opts.SkipPush {
		s.logger.Info("已指定跳过推送，源码同步步骤不执行")
		return nil
	}
	return s.git.SyncSource()
}

func (s *DeployService) remoteRefreshStep(opts *model.DeployOptions) error {
	output, err := s.stack.Refresh(s.cfg.Target, *opts)
	if output != "" {
		s.logger.Infof("远程输出:\n%s", output)
	}
	return err
}

// healthPollStep 先等Ollama接口有响应再做整组探测。
// 这里的等待只是给服务留启动时间，探测失败不会中止部署。
func (s *DeployService) healthPollStep(_ *model.DeployOptions) error {
	host := s.cfg.Target.Host
	ollamaURL := fmt.Sprintf("http://%s:%d/api/tags", host, s.cfg.Stack.OllamaPort)

	_ = s.probe.WaitFor(Prober{
		Name:        "Ollama",
		Interval:    s.cfg.Probe.Interval,
		MaxAttempts: s.cfg.Probe.MaxAttempts,
		Fatal:       false,
		Predicate: func() bool {
			reachable, _ := s.probe.ProbeHTTP(ollamaURL)
			return reachable
		},
	})

	s.probe.ProbeAll(host, s.cfg.Stack)
	return nil
}

func (s *DeployService) logSnapshotStep(_ *model.DeployOptions) error {
	output, err := s.stack.Snapshot(s.cfg.Target)
	if err != nil {
		return err
	}
	s.logger.Infof("容器状态与日志:\n%s", output)
	return nil
}

func (s *DeployService) summaryStep(_ *model.DeployOptions) error {
	host := s.cfg.Target.Host
	s.logger.Info("========================================")
	s.logger.Info("部署完成！")
	s.logger.Infof("前端地址:   http://%s:%d", host, s.cfg.Stack.FrontendPort)
	s.logger.Infof("后端地址:   http://%s:%d", host, s.cfg.Stack.BackendPort)
	s.logger.Infof("Ollama地址: http://%s:%d", host, s.cfg.Stack.OllamaPort)
	s.logger.Info("========================================")
	return nil
}
