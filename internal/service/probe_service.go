package service

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"llm-stack-deploy/internal/model"
	"llm-stack-deploy/internal/pkg/logger"
	"llm-stack-deploy/pkg/utils"
)

type ProbeService struct {
	logger *logger.Logger
	client *http.Client
}

func NewProbeService(logger *logger.Logger, timeout time.Duration) *ProbeService {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &ProbeService{
		logger: logger,
		client: &http.Client{Timeout: timeout},
	}
}

// ProbeHTTP 单次GET探测，连接成功且非HTTP错误码视为可达
func (s *ProbeService) ProbeHTTP(url string) (bool, string) {
	resp, err := s.client.Get(url)
	if err != nil {
		return false, ""
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return resp.StatusCode < 400, string(body)
}

// ProbeAll 对固定端点集合逐一探测。探测失败只告警不中断，
// 服务可能仍在启动中。后端配置端点额外回显响应体供人工检查。
func (s *ProbeService) ProbeAll(host string, cfg model.StackConfig) []model.ProbeResult {
	endpoints := []struct {
		name     string
		url      string
		echoBody bool
	}{
		{"前端", fmt.Sprintf("http://%s:%d/", host, cfg.FrontendPort), false},
		{"后端健康检查", fmt.Sprintf("http://%s:%d/health", host, cfg.BackendPort), false},
		{"后端配置接口", fmt.Sprintf("http://%s:%d/api/config", host, cfg.BackendPort), true},
		{"Ollama", fmt.Sprintf("http://%s:%d/api/tags", host, cfg.OllamaPort), false},
	}

	results := make([]model.ProbeResult, 0, len(endpoints))
	for _, ep := range endpoints {
		reachable, body := s.ProbeHTTP(ep.url)
		result := model.ProbeResult{
			Name:      ep.name,
			URL:       ep.url,
			Reachable: reachable,
		}
		if ep.echoBody && reachable {
			result.Body = body
		}
		s.logger.ProbeResult(ep.name, ep.url, reachable)
		if result.Body != "" {
			s.logger.Infof("响应内容: %s", result.Body)
		}
		results = append(results, result)
	}

	return results
}

// Prober 有界重试探测。两个轮询循环形状相同，
// 只在重试耗尽时的处理上不同：Fatal为真时中止运行，否则仅告警。
type Prober struct {
	Name        string
	Interval    time.Duration
	MaxAttempts int
	Fatal       bool
	Predicate   func() bool
	OnExhausted func() // 重试耗尽时的附加动作，如打印容器日志
}

// WaitFor 按固定间隔轮询条件直到成功或达到最大次数
func (s *ProbeService) WaitFor(p Prober) error {
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if p.Predicate() {
			s.logger.Infof("✓ %s 已就绪（第%d次检查）", p.Name, attempt)
			return nil
		}
		s.logger.Infof("等待 %s 就绪... (%d/%d)", p.Name, attempt, p.MaxAttempts)
		if attempt < p.MaxAttempts {
			time.Sleep(p.Interval)
		}
	}

	if p.OnExhausted != nil {
		p.OnExhausted()
	}

	if p.Fatal {
		return utils.NewProbeError(p.Name, fmt.Errorf("等待%d次后仍未就绪", p.MaxAttempts))
	}

	s.logger.Warnf("✗ %s 在%d次检查后仍未就绪，继续执行", p.Name, p.MaxAttempts)
	return nil
}
