package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"llm-stack-deploy/internal/config"
	"llm-stack-deploy/internal/model"
	"llm-stack-deploy/internal/pkg/logger"
)

func newTestDeployService(t *testing.T, workDir string) *DeployService {
	t.Helper()

	// 目标指向不可达端口，私钥路径不存在，触达远程步骤即失败
	t.Setenv("DEPLOY_HOST", "127.0.0.1")
	t.Setenv("DEPLOY_SSH_PORT", "1")
	t.Setenv("DEPLOY_KEY_PATH", filepath.Join(workDir, "no-such-key"))
	t.Setenv("PROBE_INTERVAL", "1")
	t.Setenv("PROBE_MAX_ATTEMPTS", "1")
	cfg := config.LoadConfig()

	log := logger.NewLogger()
	git := NewGitService(log, workDir)
	stack := NewStackService(log, time.Second)
	probe := NewProbeService(log, time.Second)
	return NewDeployService(cfg, git, stack, probe, log)
}

func TestRun_MissingMarkerAbortsBeforeAnyOperation(t *testing.T) {
	workDir := t.TempDir()
	logFile := fakeGit(t, "")

	s := newTestDeployService(t, workDir)
	err := s.Run(model.DeployOptions{}, nil)

	if err == nil {
		t.Fatal("expected error when marker file is absent")
	}
	if !strings.Contains(err.Error(), "前置检查") {
		t.Errorf("expected precondition step in error, got: %v", err)
	}

	// 前置检查失败后不得执行任何git操作
	if calls := gitCalls(t, logFile); len(calls) != 0 {
		t.Errorf("no git operations expected, got: %v", calls)
	}
}

func TestRun_StopsAtRemoteRefresh(t *testing.T) {
	workDir := t.TempDir()
	logFile := fakeGit(t, "")
	if err := os.WriteFile(filepath.Join(workDir, config.MarkerFile), []byte("services: {}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	s := newTestDeployService(t, workDir)

	var steps []string
	err := s.Run(model.DeployOptions{}, func(step string, percent float64, message string) {
		steps = append(steps, step)
	})

	if err == nil {
		t.Fatal("expected remote refresh to fail against unreachable target")
	}
	if !strings.Contains(err.Error(), "远程刷新") {
		t.Errorf("expected remote refresh step in error, got: %v", err)
	}

	// 推送仍然执行（工作区干净时跳过提交）
	joined := strings.Join(gitCalls(t, logFile), "\n")
	if !strings.Contains(joined, "push") {
		t.Errorf("expected push before remote refresh, git calls:\n%s", joined)
	}
	if strings.Contains(joined, "commit") {
		t.Errorf("clean tree must not commit, git calls:\n%s", joined)
	}
}

func TestRun_SkipPushBypassesSourceSync(t *testing.T) {
	workDir := t.TempDir()
	logFile := fakeGit(t, " M main.go\n")
	if err := os.WriteFile(filepath.Join(workDir, config.MarkerFile), []byte("services: {}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	s := newTestDeployService(t, workDir)
	_ = s.Run(model.DeployOptions{SkipPush: true}, nil)

	if calls := gitCalls(t, logFile); len(calls) != 0 {
		t.Errorf("skip-push must not touch git, got: %v", calls)
	}
}
