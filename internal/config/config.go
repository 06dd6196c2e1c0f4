package config

import (
	"os"
	"strconv"
	"time"

	"llm-stack-deploy/internal/model"
	"llm-stack-deploy/pkg/utils"
)

type Config struct {
	Server Server
	Target model.DeployTarget
	Stack  model.StackConfig
	Probe  Probe
	SSH    SSH
}

type Server struct {
	Port         int
	AllowOrigins []string
}

// Probe 轮询探测参数，两个轮询循环共用同一组预算
type Probe struct {
	Interval    time.Duration
	MaxAttempts int
	HTTPTimeout time.Duration
}

type SSH struct {
	ConnectTimeout time.Duration
}

// MarkerFile 项目根目录标记文件，部署前置检查使用
const MarkerFile = "docker-compose.yml"

func LoadConfig() *Config {
	return &Config{
		Server: Server{
			Port:         getEnvAsInt("SERVER_PORT", 8080),
			AllowOrigins: []string{getEnvAsString("CORS_ORIGIN", "http://localhost:3000")},
		},
		Target: model.DeployTarget{
			Host:      getEnvAsString("DEPLOY_HOST", "47.108.135.87"),
			Port:      getEnvAsInt("DEPLOY_SSH_PORT", 22),
			Username:  getEnvAsString("DEPLOY_USER", "root"),
			KeyPath:   getEnvAsString("DEPLOY_KEY_PATH", os.Getenv("HOME")+"/.ssh/id_rsa"),
			RemoteDir: getEnvAsString("DEPLOY_REMOTE_DIR", "/opt/llm-stack"),
			Branch:    getEnvAsString("DEPLOY_BRANCH", "main"),
		},
		Stack: model.StackConfig{
			Model:        getEnvAsString("LLM_NAME", model.DefaultModel),
			FrontendPort: getEnvAsInt("FRONTEND_PORT", model.DefaultFrontendPort),
			BackendPort:  getEnvAsInt("BACKEND_PORT", model.DefaultBackendPort),
			OllamaPort:   getEnvAsInt("OLLAMA_PORT", model.DefaultOllamaPort),
		},
		Probe: Probe{
			Interval:    time.Duration(getEnvAsInt("PROBE_INTERVAL", 5)) * time.Second,
			MaxAttempts: getEnvAsInt("PROBE_MAX_ATTEMPTS", 12),
			HTTPTimeout: time.Duration(getEnvAsInt("PROBE_HTTP_TIMEOUT", 5)) * time.Second,
		},
		SSH: SSH{
			ConnectTimeout: time.Duration(getEnvAsInt("SSH_CONNECT_TIMEOUT", 30)) * time.Second,
		},
	}
}

// Validate 校验来自环境变量的配置取值，任何命令执行前调用。
// 交互式收集的值不经过这里。
func (c *Config) Validate() error {
	if err := utils.ValidateHost(c.Target.Host); err != nil {
		return utils.NewValidationError("DEPLOY_HOST", c.Target.Host)
	}

	ports := []struct {
		name string
		port int
	}{
		{"DEPLOY_SSH_PORT", c.Target.Port},
		{"SERVER_PORT", c.Server.Port},
		{"FRONTEND_PORT", c.Stack.FrontendPort},
		{"BACKEND_PORT", c.Stack.BackendPort},
		{"OLLAMA_PORT", c.Stack.OllamaPort},
	}
	for _, p := range ports {
		if err := utils.ValidatePort(p.port); err != nil {
			return utils.NewValidationError(p.name, p.port)
		}
	}

	if err := utils.ValidateModelName(c.Stack.Model); err != nil {
		return utils.NewValidationError("LLM_NAME", c.Stack.Model)
	}

	return nil
}

func getEnvAsString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
