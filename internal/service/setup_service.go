package service

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/sys/unix"

	"llm-stack-deploy/internal/config"
	"llm-stack-deploy/internal/model"
	"llm-stack-deploy/internal/pkg/compose"
	"llm-stack-deploy/internal/pkg/logger"
	"llm-stack-deploy/internal/pkg/prompt"
	"llm-stack-deploy/pkg/utils"
)

// 本地安装的资源建议值，低于建议值只告警不阻止
const (
	recommendedMemoryGB = 8
	recommendedDiskGB   = 10
)

// 环境文件的两个写入位置，内容一致，根目录副本额外带端口
const (
	rootEnvFile    = ".env"
	backendEnvFile = "backend/.env"
)

type SetupService struct {
	logger  *logger.Logger
	cfg     *config.Config
	probe   *ProbeService
	workDir string
	out     io.Writer
}

func NewSetupService(cfg *config.Config, probe *ProbeService, logger *logger.Logger, workDir string) *SetupService {
	return &SetupService{
		logger:  logger,
		cfg:     cfg,
		probe:   probe,
		workDir: workDir,
		out:     os.Stdout,
	}
}

func (s *SetupService) runDocker(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	cmd.Dir = s.workDir
	output, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(output)), err
}

// runDockerStreaming 长耗时命令（build/up）直接透传输出
func (s *SetupService) runDockerStreaming(args ...string) error {
	cmd := exec.Command("docker", args...)
	cmd.Dir = s.workDir
	cmd.Stdout = s.out
	cmd.Stderr = s.out
	return cmd.Run()
}

// Run 本地安装完整流程。任一致命步骤失败时打印统一的排查提示后返回错误。
func (s *SetupService) Run(in io.Reader) error {
	err := s.runSteps(in)
	if err != nil {
		s.logger.Error("安装失败。请检查Docker是否正常运行，端口是否被占用，")
		s.logger.Error("然后重新执行安装。查看容器日志: docker compose logs")
	}
	return err
}

func (s *SetupService) runSteps(in io.Reader) error {
	if err := s.CheckEnvironment(); err != nil {
		return err
	}

	gpu := s.DetectGPU()
	stackCfg := s.CollectPreferences(in, gpu)

	if err := s.WriteEnvFiles(stackCfg); err != nil {
		return err
	}

	written, err := compose.WriteFragment(s.workDir, stackCfg)
	if err != nil {
		return err
	}
	if written {
		s.logger.Infof("已生成端口覆盖片段 %s", compose.FragmentFile)
	}

	if err := s.StartStack(stackCfg); err != nil {
		return err
	}

	if err := s.WaitForServices(stackCfg); err != nil {
		return err
	}

	if err := s.EnsureModel(stackCfg); err != nil {
		return err
	}

	s.PrintSummary(stackCfg)
	return nil
}

// CheckEnvironment 检查容器引擎和compose子命令是否可用（致命），
// 以及内存、磁盘是否达到建议值（仅告警）。
func (s *SetupService) CheckEnvironment() error {
	if _, err := exec.LookPath("docker"); err != nil {
		return fmt.Errorf("未找到docker命令，请先安装Docker")
	}

	if _, err := s.runDocker("compose", "version"); err != nil {
		return fmt.Errorf("docker compose 不可用，请安装Compose插件: %v", err)
	}
	s.logger.Info("✓ Docker与Compose插件可用")

	if memGB, err := availableMemoryGB(); err == nil {
		if memGB < recommendedMemoryGB {
			s.logger.Warnf("✗ 可用内存 %dGB 低于建议值 %dGB，模型运行可能缓慢", memGB, recommendedMemoryGB)
		} else {
			s.logger.Infof("✓ 可用内存 %dGB", memGB)
		}
	}

	if diskGB, err := availableDiskGB(s.workDir); err == nil {
		if diskGB < recommendedDiskGB {
			s.logger.Warnf("✗ 可用磁盘 %dGB 低于建议值 %dGB，模型下载可能失败", diskGB, recommendedDiskGB)
		} else {
			s.logger.Infof("✓ 可用磁盘 %dGB", diskGB)
		}
	}

	return nil
}

// DetectGPU 通过nvidia-smi检测NVIDIA GPU是否存在
func (s *SetupService) DetectGPU() bool {
	if _, err := exec.LookPath("nvidia-smi"); err != nil {
		return false
	}
	if err := exec.Command("nvidia-smi").Run(); err != nil {
		return false
	}
	s.logger.Info("✓ 检测到NVIDIA GPU")
	return true
}

// CollectPreferences 交互式收集模型、部署模式和端口选择。
// 无效输入一律回退默认值，自定义模型名和端口不做进一步校验。
func (s *SetupService) CollectPreferences(in io.Reader, gpu bool) model.StackConfig {
	reader := prompt.NewReader(in, s.out)
	stackCfg := model.DefaultStackConfig()

	stackCfg.Model = reader.Ask(prompt.Question{
		Text: "请选择要使用的模型（直接输入其他名称可使用自定义模型）:",
		Options: []prompt.Option{
			{Key: "1", Label: "llama3.2:1b （最小，约1.3GB）", Value: "llama3.2:1b"},
			{Key: "2", Label: "llama3.2:3b （推荐，约2GB）", Value: "llama3.2:3b"},
			{Key: "3", Label: "llama3.1:8b （约4.7GB）", Value: "llama3.1:8b"},
			{Key: "4", Label: "qwen2.5:7b （约4.4GB）", Value: "qwen2.5:7b"},
		},
		Default:     model.DefaultModel,
		AllowCustom: true,
	})

	if gpu {
		stackCfg.GPUMode = reader.AskYesNo("检测到GPU，是否使用GPU模式部署?", true)
	}

	if !reader.AskYesNo("使用默认端口配置 (5173/7091/11434)?", true) {
		stackCfg.FrontendPort = reader.AskInt("前端端口", model.DefaultFrontendPort)
		stackCfg.BackendPort = reader.AskInt("后端端口", model.DefaultBackendPort)
		stackCfg.OllamaPort = reader.AskInt("Ollama端口", model.DefaultOllamaPort)
	}

	return stackCfg
}

// EnvFileContent 环境文件的键值内容。根目录副本带端口，后端副本不带。
func EnvFileContent(cfg model.StackConfig, withPorts bool) map[string]string {
	content := map[string]string{
		"API_KEY":            "",
		"LLM_PROVIDER":       model.DefaultProvider,
		"LLM_NAME":           cfg.Model,
		"VITE_API_STREAMING": "true",
		"OPENAI_BASE_URL":    fmt.Sprintf("http://ollama:%d/v1", model.DefaultOllamaPort),
		"EMBEDDINGS_NAME":    model.DefaultEmbeddings,
	}
	if withPorts {
		content["FRONTEND_PORT"] = strconv.Itoa(cfg.FrontendPort)
		content["BACKEND_PORT"] = strconv.Itoa(cfg.BackendPort)
		content["OLLAMA_PORT"] = strconv.Itoa(cfg.OllamaPort)
	}
	return content
}

// WriteEnvFiles 渲染两份环境文件。写入的端口必须与本次
// compose调用实际使用的端口一致。
func (s *SetupService) WriteEnvFiles(cfg model.StackConfig) error {
	rootPath := filepath.Join(s.workDir, rootEnvFile)
	if err := godotenv.Write(EnvFileContent(cfg, true), rootPath); err != nil {
		return fmt.Errorf("写入 %s 失败: %v", rootEnvFile, err)
	}

	backendPath := filepath.Join(s.workDir, backendEnvFile)
	if err := os.MkdirAll(filepath.Dir(backendPath), 0755); err != nil {
		return fmt.Errorf("创建backend目录失败: %v", err)
	}
	if err := godotenv.Write(EnvFileContent(cfg, false), backendPath); err != nil {
		return fmt.Errorf("写入 %s 失败: %v", backendEnvFile, err)
	}

	s.logger.Infof("✓ 环境文件已写入 %s 和 %s", rootEnvFile, backendEnvFile)
	return nil
}

// StartStack 构建镜像并后台启动本地栈
func (s *SetupService) StartStack(cfg model.StackConfig) error {
	fileArgs := compose.FileArgs(cfg)

	s.logger.Info("开始构建镜像（首次构建可能需要几分钟）")
	buildArgs := append([]string{"compose"}, fileArgs...)
	buildArgs = append(buildArgs, "build")
	if err := s.runDockerStreaming(buildArgs...); err != nil {
		return fmt.Errorf("镜像构建失败: %v", err)
	}

	s.logger.Info("启动容器栈")
	upArgs := append([]string{"compose"}, fileArgs...)
	upArgs = append(upArgs, "up", "-d")
	if err := s.runDockerStreaming(upArgs...); err != nil {
		return fmt.Errorf("启动容器栈失败: %v", err)
	}

	return nil
}

// WaitForServices 等待核心服务就绪。Ollama是硬前置条件，
// 超时则打印容器日志并中止；后端只是尽力检查，超时仅告警。
func (s *SetupService) WaitForServices(cfg model.StackConfig) error {
	fileArgs := compose.FileArgs(cfg)
	ollamaURL := fmt.Sprintf("http://localhost:%d/api/tags", cfg.OllamaPort)
	backendURL := fmt.Sprintf("http://localhost:%d/health", cfg.BackendPort)

	if err := s.probe.WaitFor(Prober{
		Name:        "Ollama",
		Interval:    s.cfg.Probe.Interval,
		MaxAttempts: s.cfg.Probe.MaxAttempts,
		Fatal:       true,
		Predicate: func() bool {
			reachable, _ := s.probe.ProbeHTTP(ollamaURL)
			return reachable
		},
		OnExhausted: func() {
			logArgs := append([]string{"compose"}, fileArgs...)
			logArgs = append(logArgs, "logs", "ollama", "--tail=30")
			if output, err := s.runDocker(logArgs...); err == nil {
				s.logger.Errorf("Ollama容器日志:\n%s", output)
			}
		},
	}); err != nil {
		return err
	}

	return s.probe.WaitFor(Prober{
		Name:        "后端",
		Interval:    s.cfg.Probe.Interval,
		MaxAttempts: s.cfg.Probe.MaxAttempts,
		Fatal:       false,
		Predicate: func() bool {
			reachable, _ := s.probe.ProbeHTTP(backendURL)
			return reachable
		},
	})
}

// EnsureModel 查询Ollama容器内已有模型，配置的模型不存在时触发下载。
// 下载失败是致命错误。
func (s *SetupService) EnsureModel(cfg model.StackConfig) error {
	fileArgs := compose.FileArgs(cfg)

	listArgs := append([]string{"compose"}, fileArgs...)
	listArgs = append(listArgs, "exec", "-T", "ollama", "ollama", "list")
	output, err := s.runDocker(listArgs...)
	if err == nil && modelInList(output, cfg.Model) {
		s.logger.Infof("✓ 模型 %s 已存在，跳过下载", cfg.Model)
		return nil
	}

	s.logger.Infof("开始下载模型 %s（依模型大小可能需要较长时间）", cfg.Model)
	pullArgs := append([]string{"compose"}, fileArgs...)
	pullArgs = append(pullArgs, "exec", "-T", "ollama", "ollama", "pull", cfg.Model)
	if err := s.runDockerStreaming(pullArgs...); err != nil {
		return utils.NewSystemError(fmt.Errorf("模型 %s 下载失败: %v", cfg.Model, err))
	}

	s.logger.Infof("✓ 模型 %s 下载完成", cfg.Model)
	return nil
}

// modelInList 判断 ollama list 输出中是否已包含目标模型
func modelInList(output, modelName string) bool {
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) > 0 && fields[0] == modelName {
			return true
		}
	}
	return false
}

func (s *SetupService) PrintSummary(cfg model.StackConfig) {
	s.logger.Info("========================================")
	s.logger.Info("安装完成！")
	s.logger.Infof("前端地址:   http://localhost:%d", cfg.FrontendPort)
	s.logger.Infof("后端地址:   http://localhost:%d", cfg.BackendPort)
	s.logger.Infof("Ollama地址: http://localhost:%d", cfg.OllamaPort)
	s.logger.Infof("使用模型:   %s", cfg.Model)
	s.logger.Info("停止: docker compose down    查看日志: docker compose logs -f")
	s.logger.Info("========================================")
}

// availableMemoryGB 读取 /proc/meminfo 的 MemAvailable
func availableMemoryGB() (int, error) {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "MemAvailable:") {
			fields := strings.Fields(line)
			if len(fields) < 2 {
				break
			}
			kb, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				return 0, err
			}
			return int(kb / 1024 / 1024), nil
		}
	}
	return 0, fmt.Errorf("未找到MemAvailable")
}

func availableDiskGB(dir string) (int, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(dir, &stat); err != nil {
		return 0, err
	}
	return int(uint64(stat.Bavail) * uint64(stat.Bsize) / (1 << 30)), nil
}
