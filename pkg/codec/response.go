package codec

import "time"

type ResponseCtl int

const (
	ResponseNormal ResponseCtl = iota
	ResponseShutdown
	ResponseReload
	ResponseMsgErr
)

// LogLine 是组件输出缓冲区里的一行
type LogLine struct {
	At     time.Time `json:"at"`
	Source string    `json:"source"`
	Text   string    `json:"text"`
}

// HealthResult 是单项健康检查的最近一次结果
type HealthResult struct {
	Label     string      `json:"label"`
	Status    ProbeStatus `json:"status"`
	Detail    string      `json:"detail,omitempty"`
	CheckedAt time.Time   `json:"checked_at"`
}

// ComponentInfo 描述运行中项目里单个组件的状态
type ComponentInfo struct {
	Name    string         `json:"name"`
	Summary string         `json:"summary,omitempty"`
	Pid     int            `json:"pid"`
	State   ComponentState `json:"state"`
	StartAt time.Time      `json:"start_at"`
	StopAt  time.Time      `json:"stop_at"`
	Health  []HealthResult `json:"health,omitempty"`
	Logs    []LogLine      `json:"logs,omitempty"`
}

// OverviewRow 是面板总览里的一行，按项目聚合
type OverviewRow struct {
	Key        string        `json:"key"`
	Name       string        `json:"name"`
	Icon       string        `json:"icon,omitempty"`
	Summary    string        `json:"summary,omitempty"`
	Tags       []string      `json:"tags,omitempty"`
	Favorite   bool          `json:"favorite"`
	Status     ProjectStatus `json:"status"`
	Active     bool          `json:"active"`
	Profile    string        `json:"profile,omitempty"`
	Running    int           `json:"running"`
	Total      int           `json:"total"`
	UsageHours float64       `json:"usage_hours"`
}

type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

type Folder struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

type HistoryEntry struct {
	At   time.Time `json:"at"`
	Text string    `json:"text"`
}

// ProjectDetail 是单个项目的完整视图，总览行加组件明细
type ProjectDetail struct {
	Overview   OverviewRow     `json:"overview"`
	Components []ComponentInfo `json:"components"`
	QuickLinks []Link          `json:"quick_links,omitempty"`
	Folders    []Folder        `json:"folders,omitempty"`
	Profiles   []string        `json:"profiles,omitempty"`
}

type ResponseMsg struct {
	Code     int             `json:"code"`
	Message  string          `json:"message"`
	Overview []OverviewRow   `json:"overview,omitempty"`
	Detail   *ProjectDetail  `json:"detail,omitempty"`
	Details  []ProjectDetail `json:"details,omitempty"`
	History  []HistoryEntry  `json:"history,omitempty"`
}
