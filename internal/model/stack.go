package model

// 默认端口与默认模型配置
const (
	DefaultFrontendPort = 5173
	DefaultBackendPort  = 7091
	DefaultOllamaPort   = 11434

	DefaultModel      = "llama3.2:3b"
	DefaultProvider   = "ollama"
	DefaultEmbeddings = "nomic-embed-text"
)

// DeployTarget 部署目标主机信息，进程启动时填充，运行期间只读
type DeployTarget struct {
	Host      string
	Port      int
	Username  string
	KeyPath   string
	RemoteDir string
	Branch    string
}

// StackConfig 本次部署的栈配置，交互式收集或使用默认值
type StackConfig struct {
	Model        string
	GPUMode      bool
	FrontendPort int
	BackendPort  int
	OllamaPort   int
}

func DefaultStackConfig() StackConfig {
	return StackConfig{
		Model:        DefaultModel,
		GPUMode:      false,
		FrontendPort: DefaultFrontendPort,
		BackendPort:  DefaultBackendPort,
		OllamaPort:   DefaultOllamaPort,
	}
}

// UsesDefaultPorts 判断三个端口是否全部为默认值
func (c StackConfig) UsesDefaultPorts() bool {
	return c.FrontendPort == DefaultFrontendPort &&
		c.BackendPort == DefaultBackendPort &&
		c.OllamaPort == DefaultOllamaPort
}

// ProbeResult 单次健康探测结果，打印后即丢弃
type ProbeResult struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	Reachable bool   `json:"reachable"`
	Body      string `json:"body,omitempty"`
}
