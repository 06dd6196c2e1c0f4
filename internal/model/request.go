package model

// DeployRequest API触发部署的请求参数
type DeployRequest struct {
	NoCache       bool `json:"noCache"`
	Prune         bool `json:"prune"`
	RemoveVolumes bool `json:"removeVolumes"`
	SkipPush      bool `json:"skipPush"`
}

// DeployOptions 一次部署运行的选项，由CLI标志或API请求映射而来
type DeployOptions struct {
	NoCache       bool
	Prune         bool
	RemoveVolumes bool
	SkipPush      bool
}

func (r *DeployRequest) Options() DeployOptions {
	return DeployOptions{
		NoCache:       r.NoCache,
		Prune:         r.Prune,
		RemoveVolumes: r.RemoveVolumes,
		SkipPush:      r.SkipPush,
	}
}
