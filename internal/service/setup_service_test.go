package service

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joho/godotenv"

	"llm-stack-deploy/internal/config"
	"llm-stack-deploy/internal/model"
	"llm-stack-deploy/internal/pkg/logger"
)

// fakeDocker 在临时目录放一个记录工作目录和参数的docker脚本并加入PATH
func fakeDocker(t *testing.T) (logFile string) {
	t.Helper()

	binDir := t.TempDir()
	logFile = filepath.Join(binDir, "docker.log")

	script := fmt.Sprintf(`#!/bin/sh
echo "$PWD $@" >> %q
exit 0
`, logFile)

	if err := os.WriteFile(filepath.Join(binDir, "docker"), []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	return logFile
}

func newTestSetupService(t *testing.T) (*SetupService, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.LoadConfig()
	s := NewSetupService(cfg, newTestProbeService(), logger.NewLogger(), dir)
	s.out = &bytes.Buffer{}
	return s, dir
}

func TestCollectPreferences_MenuChoiceTwo(t *testing.T) {
	s, _ := newTestSetupService(t)

	// 模型选2，端口用默认
	in := strings.NewReader("2\n\n")
	got := s.CollectPreferences(in, false)

	if got.Model != "llama3.2:3b" {
		t.Errorf("choice 2 must select llama3.2:3b, got %q", got.Model)
	}
	if !got.UsesDefaultPorts() {
		t.Error("expected default ports")
	}
	if got.GPUMode {
		t.Error("GPU mode must stay off when no GPU was detected")
	}
}

func TestCollectPreferences_CustomPortsAndGPU(t *testing.T) {
	s, _ := newTestSetupService(t)

	// 自定义模型名、接受GPU模式、自定义三个端口
	in := strings.NewReader("mistral:7b\ny\nn\n8080\n9090\n11500\n")
	got := s.CollectPreferences(in, true)

	if got.Model != "mistral:7b" {
		t.Errorf("expected custom model, got %q", got.Model)
	}
	if !got.GPUMode {
		t.Error("expected GPU mode on")
	}
	if got.FrontendPort != 8080 || got.BackendPort != 9090 || got.OllamaPort != 11500 {
		t.Errorf("unexpected ports: %d/%d/%d", got.FrontendPort, got.BackendPort, got.OllamaPort)
	}
}

func TestCollectPreferences_InvalidInputFallsBack(t *testing.T) {
	s, _ := newTestSetupService(t)

	// 端口选择"n"后全部输入非法值
	in := strings.NewReader("\n" + "n\nabc\n\nxyz\n")
	got := s.CollectPreferences(in, false)

	if got.Model != model.DefaultModel {
		t.Errorf("expected default model, got %q", got.Model)
	}
	if !got.UsesDefaultPorts() {
		t.Errorf("invalid port input must fall back to defaults: %d/%d/%d",
			got.FrontendPort, got.BackendPort, got.OllamaPort)
	}
}

func TestEnvFileContent(t *testing.T) {
	cfg := model.DefaultStackConfig()
	cfg.Model = "llama3.2:3b"

	content := EnvFileContent(cfg, true)

	expect := map[string]string{
		"API_KEY":            "",
		"LLM_PROVIDER":       "ollama",
		"LLM_NAME":           "llama3.2:3b",
		"VITE_API_STREAMING": "true",
		"OPENAI_BASE_URL":    "http://ollama:11434/v1",
		"EMBEDDINGS_NAME":    "nomic-embed-text",
		"FRONTEND_PORT":      "5173",
		"BACKEND_PORT":       "7091",
		"OLLAMA_PORT":        "11434",
	}
	if len(content) != len(expect) {
		t.Fatalf("expected %d keys, got %d: %v", len(expect), len(content), content)
	}
	for k, v := range expect {
		if content[k] != v {
			t.Errorf("key %s: expected %q, got %q", k, v, content[k])
		}
	}

	// 后端副本不带端口
	backend := EnvFileContent(cfg, false)
	for _, k := range []string{"FRONTEND_PORT", "BACKEND_PORT", "OLLAMA_PORT"} {
		if _, ok := backend[k]; ok {
			t.Errorf("backend copy must not contain %s", k)
		}
	}
}

func TestWriteEnvFiles(t *testing.T) {
	s, dir := newTestSetupService(t)

	cfg := model.DefaultStackConfig()
	cfg.Model = "llama3.2:3b"
	cfg.BackendPort = 9090

	if err := s.WriteEnvFiles(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	root, err := godotenv.Read(filepath.Join(dir, rootEnvFile))
	if err != nil {
		t.Fatalf("read root env: %v", err)
	}
	if root["LLM_NAME"] != "llama3.2:3b" {
		t.Errorf("LLM_NAME: expected llama3.2:3b, got %q", root["LLM_NAME"])
	}
	if root["BACKEND_PORT"] != "9090" {
		t.Errorf("BACKEND_PORT: expected 9090, got %q", root["BACKEND_PORT"])
	}

	backend, err := godotenv.Read(filepath.Join(dir, backendEnvFile))
	if err != nil {
		t.Fatalf("read backend env: %v", err)
	}
	if backend["LLM_NAME"] != "llama3.2:3b" {
		t.Errorf("backend LLM_NAME: expected llama3.2:3b, got %q", backend["LLM_NAME"])
	}
	if _, ok := backend["BACKEND_PORT"]; ok {
		t.Error("backend copy must not contain port keys")
	}
}

func TestEnsureModel_PullRunsInWorkDir(t *testing.T) {
	logFile := fakeDocker(t)
	s, dir := newTestSetupService(t)

	// 非默认端口：所有compose调用都必须带上端口片段
	cfg := model.DefaultStackConfig()
	cfg.OllamaPort = 11500

	// 假docker的list输出为空，模型必然触发下载
	if err := s.EnsureModel(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("read docker log: %v", err)
	}

	var pullLine string
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if strings.Contains(line, "ollama pull") {
			pullLine = line
		}
	}
	if pullLine == "" {
		t.Fatalf("expected a pull invocation, got:\n%s", data)
	}

	// 下载命令必须在工作目录执行，相对的 -f 参数才能正确解析
	if !strings.HasPrefix(pullLine, dir+" ") {
		t.Errorf("pull must run in workDir %q, got: %s", dir, pullLine)
	}
	if !strings.Contains(pullLine, "-f docker-compose.ports.yml") {
		t.Errorf("pull must thread the port fragment, got: %s", pullLine)
	}
}

func TestModelInList(t *testing.T) {
	output := `NAME            ID              SIZE      MODIFIED
llama3.2:3b     a80c4f17acd5    2.0 GB    2 days ago
nomic-embed-text:latest  0a109f422b47    274 MB    2 days ago`

	if !modelInList(output, "llama3.2:3b") {
		t.Error("expected llama3.2:3b to be found")
	}
	if modelInList(output, "llama3.2:1b") {
		t.Error("llama3.2:1b must not be found")
	}
	if modelInList("", "llama3.2:3b") {
		t.Error("empty output must not match")
	}
}
