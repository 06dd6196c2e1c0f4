package model

type DeployResponse struct {
	Success bool   `json:"success"`
	TaskID  string `json:"taskId,omitempty"`
	Message string `json:"message,omitempty"`
}

type ProgressResponse struct {
	Success  bool     `json:"success"`
	Progress float64  `json:"progress"`
	Status   string   `json:"status"`
	Logs     []string `json:"logs"`
	Error    string   `json:"error,omitempty"`
}

type ProbeResponse struct {
	Success bool          `json:"success"`
	Results []ProbeResult `json:"results"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
