package codec

type ComponentState string

const (
	ComponentStopped  ComponentState = "Stopped"
	ComponentStarting ComponentState = "Starting"
	ComponentRunning  ComponentState = "Running"
	ComponentPausing  ComponentState = "Pausing"
	ComponentPaused   ComponentState = "Paused"
	ComponentResuming ComponentState = "Resuming"
	ComponentStopping ComponentState = "Stopping"
	ComponentFailed   ComponentState = "Failed"
)

// Attached 判断组件当前是否持有底层进程
func (s ComponentState) Attached() bool {
	switch s {
	case ComponentRunning, ComponentPausing, ComponentPaused,
		ComponentResuming, ComponentStopping:
		return true
	}
	return false
}

// Transitional 判断组件是否处于不可打断的过渡状态
func (s ComponentState) Transitional() bool {
	switch s {
	case ComponentStarting, ComponentPausing, ComponentResuming, ComponentStopping:
		return true
	}
	return false
}

type ProjectStatus string

const (
	ProjectStopped ProjectStatus = "Stopped"
	ProjectRunning ProjectStatus = "Running"
	ProjectPaused  ProjectStatus = "Paused"
	ProjectFailed  ProjectStatus = "Failed"
)

type ProbeStatus string

const (
	ProbeHealthy   ProbeStatus = "Healthy"
	ProbeUnhealthy ProbeStatus = "Unhealthy"
	ProbeUnknown   ProbeStatus = "Unknown"
)
