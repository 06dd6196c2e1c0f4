package compose

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"llm-stack-deploy/internal/model"
)

func TestWriteFragment_DefaultPortsNoFile(t *testing.T) {
	dir := t.TempDir()

	written, err := WriteFragment(dir, model.DefaultStackConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if written {
		t.Error("expected no fragment for default ports")
	}

	if _, err := os.Stat(filepath.Join(dir, FragmentFile)); !os.IsNotExist(err) {
		t.Error("fragment file should not exist")
	}
}

func TestWriteFragment_OverriddenPort(t *testing.T) {
	dir := t.TempDir()
	cfg := model.DefaultStackConfig()
	cfg.FrontendPort = 8080

	written, err := WriteFragment(dir, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !written {
		t.Fatal("expected fragment to be written")
	}

	data, err := os.ReadFile(filepath.Join(dir, FragmentFile))
	if err != nil {
		t.Fatalf("read fragment: %v", err)
	}

	var frag struct {
		Services map[string]struct {
			Ports []string `yaml:"ports"`
		} `yaml:"services"`
	}
	if err := yaml.Unmarshal(data, &frag); err != nil {
		t.Fatalf("fragment is not valid yaml: %v", err)
	}

	if len(frag.Services) != 3 {
		t.Fatalf("expected exactly 3 services, got %d", len(frag.Services))
	}

	expect := map[string]string{
		"frontend": "8080:5173",
		"backend":  "7091:7091",
		"ollama":   "11434:11434",
	}
	for name, mapping := range expect {
		svc, ok := frag.Services[name]
		if !ok {
			t.Errorf("missing service %s", name)
			continue
		}
		if len(svc.Ports) != 1 || svc.Ports[0] != mapping {
			t.Errorf("service %s: expected [%s], got %v", name, mapping, svc.Ports)
		}
	}
}

func TestFiles_Threading(t *testing.T) {
	cfg := model.DefaultStackConfig()
	files := Files(cfg)
	if len(files) != 1 || files[0] != BaseFile {
		t.Errorf("default config: expected [%s], got %v", BaseFile, files)
	}

	cfg.GPUMode = true
	cfg.OllamaPort = 11500
	files = Files(cfg)
	want := []string{BaseFile, GPUFile, FragmentFile}
	if len(files) != len(want) {
		t.Fatalf("expected %v, got %v", want, files)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], files[i])
		}
	}
}

func TestFileArgs(t *testing.T) {
	cfg := model.DefaultStackConfig()
	cfg.BackendPort = 9000

	args := strings.Join(FileArgs(cfg), " ")
	if args != "-f docker-compose.yml -f docker-compose.ports.yml" {
		t.Errorf("unexpected args: %s", args)
	}
}
