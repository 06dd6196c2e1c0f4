package compose

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"llm-stack-deploy/internal/model"
)

const (
	// BaseFile 栈的主编排文件，同时作为项目根目录标记
	BaseFile = "docker-compose.yml"
	// GPUFile GPU模式附加的编排文件
	GPUFile = "docker-compose.gpu.yml"
	// FragmentFile 端口覆盖片段，仅在端口偏离默认值时生成
	FragmentFile = "docker-compose.ports.yml"
)

type fragmentService struct {
	Ports []string `yaml:"ports"`
}

type fragment struct {
	Services map[string]fragmentService `yaml:"services"`
}

// WriteFragment 在端口偏离默认值时生成端口覆盖片段，
// 三个服务各覆盖一条端口映射，容器内端口保持默认。
// 端口全部为默认值时不生成文件，返回false。
func WriteFragment(dir string, cfg model.StackConfig) (bool, error) {
	if cfg.UsesDefaultPorts() {
		return false, nil
	}

	frag := fragment{
		Services: map[string]fragmentService{
			"frontend": {Ports: []string{fmt.Sprintf("%d:%d", cfg.FrontendPort, model.DefaultFrontendPort)}},
			"backend":  {Ports: []string{fmt.Sprintf("%d:%d", cfg.BackendPort, model.DefaultBackendPort)}},
			"ollama":   {Ports: []string{fmt.Sprintf("%d:%d", cfg.OllamaPort, model.DefaultOllamaPort)}},
		},
	}

	data, err := yaml.Marshal(frag)
	if err != nil {
		return false, fmt.Errorf("生成端口覆盖片段失败: %v", err)
	}

	path := filepath.Join(dir, FragmentFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return false, fmt.Errorf("写入 %s 失败: %v", FragmentFile, err)
	}

	return true, nil
}

// Files 返回本次运行所有compose调用要带的 -f 参数。
// 端口片段一旦生成，后续 build/up/ps/exec 都必须带上它。
func Files(cfg model.StackConfig) []string {
	files := []string{BaseFile}
	if cfg.GPUMode {
		files = append(files, GPUFile)
	}
	if !cfg.UsesDefaultPorts() {
		files = append(files, FragmentFile)
	}
	return files
}

// FileArgs 把 -f 参数展开成命令行参数切片
func FileArgs(cfg model.StackConfig) []string {
	var args []string
	for _, f := range Files(cfg) {
		args = append(args, "-f", f)
	}
	return args
}
