package service

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"llm-stack-deploy/internal/pkg/logger"
)

type GitService struct {
	logger  *logger.Logger
	workDir string
}

func NewGitService(logger *logger.Logger, workDir string) *GitService {
	return &GitService{
		logger:  logger,
		workDir: workDir,
	}
}

func (s *GitService) run(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = s.workDir
	output, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(output)), err
}

// CheckProjectRoot 检查标记文件是否存在，确认当前目录是项目根目录。
// 缺失时直接失败，不做任何源码或远程操作。
func (s *GitService) CheckProjectRoot(marker string) error {
	path := filepath.Join(s.workDir, marker)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("未找到 %s，请在项目根目录下执行", marker)
	}
	return nil
}

// HasChanges 查询是否存在未提交的本地修改
func (s *GitService) HasChanges() (bool, error) {
	output, err := s.run("status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("查询git状态失败: %v", err)
	}
	return output != "", nil
}

// SyncSource 提交并推送本地修改。
// 无修改时跳过提交（不算错误），推送失败是致命错误。
func (s *GitService) SyncSource() error {
	changed, err := s.HasChanges()
	if err != nil {
		return err
	}

	if changed {
		s.logger.Info("检测到本地修改，自动提交")
		if output, err := s.run("add", "-A"); err != nil {
			return fmt.Errorf("git add 失败: %v\n%s", err, output)
		}

		message := fmt.Sprintf("Deploy: %s", time.Now().Format("2006-01-02 15:04:05"))
		if output, err := s.run("commit", "-m", message); err != nil {
			return fmt.Errorf("git commit 失败: %v\n%s", err, output)
		}
		s.logger.Infof("已提交: %s", message)
	} else {
		s.logger.Info("没有待提交的修改，跳过提交")
	}

	s.logger.Info("推送到远程仓库")
	if output, err := s.run("push"); err != nil {
		return fmt.Errorf("git push 失败: %v\n%s", err, output)
	}

	return nil
}
