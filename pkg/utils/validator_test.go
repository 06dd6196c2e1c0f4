package utils

import "testing"

func TestValidateHost(t *testing.T) {
	valid := []string{"192.168.1.1", "10.0.0.5", "example.com", "my-host.internal"}
	for _, host := range valid {
		if err := ValidateHost(host); err != nil {
			t.Errorf("expected %q to be valid: %v", host, err)
		}
	}

	invalid := []string{"", "host name", "host;rm -rf /"}
	for _, host := range invalid {
		if err := ValidateHost(host); err == nil {
			t.Errorf("expected %q to be invalid", host)
		}
	}
}

func TestValidatePort(t *testing.T) {
	for _, port := range []int{1, 22, 5173, 65535} {
		if err := ValidatePort(port); err != nil {
			t.Errorf("expected port %d to be valid: %v", port, err)
		}
	}
	for _, port := range []int{0, -1, 65536} {
		if err := ValidatePort(port); err == nil {
			t.Errorf("expected port %d to be invalid", port)
		}
	}
}

func TestValidateModelName(t *testing.T) {
	valid := []string{"llama3.2:3b", "qwen2.5:7b", "library/mistral", "nomic-embed-text"}
	for _, name := range valid {
		if err := ValidateModelName(name); err != nil {
			t.Errorf("expected %q to be valid: %v", name, err)
		}
	}

	invalid := []string{"", "model name", "model;evil", "模型"}
	for _, name := range invalid {
		if err := ValidateModelName(name); err == nil {
			t.Errorf("expected %q to be invalid", name)
		}
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  hello; rm -rf / | cat  "); got != "hello rm -rf /  cat" {
		t.Errorf("unexpected sanitize result: %q", got)
	}
}

func TestAPIError(t *testing.T) {
	err := NewDeployError("远程刷新", NewSSHError(assertErr("connection refused")))
	if err.Code != 2001 {
		t.Errorf("expected code 2001, got %d", err.Code)
	}
	if err.Error() == "" {
		t.Error("expected non-empty error string")
	}
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
