package engine

import "lpd/pkg/codec"

// Rollup 把一组组件状态聚合成项目状态。
// 优先级是 Failed > Running > Paused > Stopped，过渡状态归入目标族：
// Starting/Resuming/Stopping 算 Running 族，Pausing 算 Paused 族。
func Rollup(states []codec.ComponentState) codec.ProjectStatus {
	var running, paused int

	for _, s := range states {
		switch s {
		case codec.ComponentFailed:
			return codec.ProjectFailed
		case codec.ComponentRunning, codec.ComponentStarting,
			codec.ComponentResuming, codec.ComponentStopping:
			running++
		case codec.ComponentPaused, codec.ComponentPausing:
			paused++
		}
	}

	if running > 0 {
		return codec.ProjectRunning
	}
	if paused > 0 {
		return codec.ProjectPaused
	}
	return codec.ProjectStopped
}

// Active 判断项目是否算在用，Running 和 Paused 都算
func Active(status codec.ProjectStatus) bool {
	return status == codec.ProjectRunning || status == codec.ProjectPaused
}
