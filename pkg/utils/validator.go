package utils

import (
	"fmt"
	"net"
	"strings"
)

func ValidateHost(host string) error {
	if host == "" {
		return fmt.Errorf("主机地址不能为空")
	}

	if net.ParseIP(host) != nil {
		return nil
	}

	// 非IP时按主机名规则粗检
	for _, char := range host {
		if !((char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') ||
			(char >= '0' && char <= '9') || char == '-' || char == '.') {
			return fmt.Errorf("无效的主机地址: %s", host)
		}
	}

	return nil
}

func ValidatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("端口必须在1-65535范围内: %d", port)
	}
	return nil
}

func ValidateModelName(name string) error {
	if name == "" {
		return fmt.Errorf("模型名称不能为空")
	}

	// Ollama模型名规则：字母、数字、点、冒号、连字符、下划线、斜杠
	for _, char := range name {
		if !((char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') ||
			(char >= '0' && char <= '9') ||
			char == '.' || char == ':' || char == '-' || char == '_' || char == '/') {
			return fmt.Errorf("模型名称包含非法字符: %s", name)
		}
	}

	return nil
}

func SanitizeString(input string) string {
	// 移除潜在的命令注入字符
	dangerous := []string{";", "&", "|", "`", "$", "(", ")", "<", ">", "\"", "'"}
	result := input

	for _, char := range dangerous {
		result = strings.ReplaceAll(result, char, "")
	}

	return strings.TrimSpace(result)
}
