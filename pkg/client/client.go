// Package client 提供启动引擎客户端的高级封装
//
// 本包封装了与 lpd 守护进程通信的底层细节，为 cmd 层提供简洁的 API。
// 通过引入这一抽象层，降低了 cmd 包与 engine 包之间的耦合度。
package client

import (
	"lpd/pkg/codec"
	"lpd/pkg/engine"
)

// Launch 快速启动一个项目
//
// 参数：
//
//	project: 项目键名
//	profile: 配置档名，为空时沿用项目当前的配置档
//
// 返回：
//
//	*codec.ResponseMsg: 响应消息，含项目的总览行
//	  - daemon 未启动或通信失败时返回 nil
//
// 注意事项：
//   - 此函数通过 Unix Socket 与 lpd daemon 通信
//   - 部分组件没拉起来时调用依然成功，失败清单在 Message 里
func Launch(project, profile string) *codec.ResponseMsg {
	return engine.ClientRun(&codec.ActionMsg{
		Action:  codec.ActionLaunch,
		Project: project,
		Profile: profile,
	})
}

// StartComponent 启动项目里的单个组件
func StartComponent(project, component string) *codec.ResponseMsg {
	return componentMsg(codec.ActionStartComponent, project, component)
}

// StopComponent 停止项目里的单个组件
func StopComponent(project, component string) *codec.ResponseMsg {
	return componentMsg(codec.ActionStopComponent, project, component)
}

// PauseComponent 暂停项目里的单个组件
func PauseComponent(project, component string) *codec.ResponseMsg {
	return componentMsg(codec.ActionPauseComponent, project, component)
}

// ResumeComponent 恢复项目里被暂停的组件
func ResumeComponent(project, component string) *codec.ResponseMsg {
	return componentMsg(codec.ActionResumeComponent, project, component)
}

func componentMsg(action codec.ActionCtl, project, component string) *codec.ResponseMsg {
	return engine.ClientRun(&codec.ActionMsg{
		Action:    action,
		Project:   project,
		Component: component,
	})
}

// Overview 获取全部项目的总览
func Overview() *codec.ResponseMsg {
	return engine.ClientRun(&codec.ActionMsg{Action: codec.ActionOverview})
}

// OverviewFor 获取单个项目的总览行
func OverviewFor(project string) *codec.ResponseMsg {
	return engine.ClientRun(&codec.ActionMsg{
		Action:  codec.ActionOverviewFor,
		Project: project,
	})
}

// Details 获取单个项目的完整视图，组件明细带健康结果和日志缓冲
func Details(project string) *codec.ResponseMsg {
	return engine.ClientRun(&codec.ActionMsg{
		Action:  codec.ActionDetails,
		Project: project,
	})
}

// DetailsAll 获取全部项目的完整视图
func DetailsAll() *codec.ResponseMsg {
	return engine.ClientRun(&codec.ActionMsg{Action: codec.ActionDetailsAll})
}

// History 获取项目的操作流水，新的在前
func History(project string) *codec.ResponseMsg {
	return engine.ClientRun(&codec.ActionMsg{
		Action:  codec.ActionHistory,
		Project: project,
	})
}

// Teardown 停掉项目的全部组件
func Teardown(project string) *codec.ResponseMsg {
	return engine.ClientRun(&codec.ActionMsg{
		Action:  codec.ActionTeardown,
		Project: project,
	})
}

// Reload 让 daemon 重新读取项目目录
func Reload() *codec.ResponseMsg {
	return engine.ClientRun(&codec.ActionMsg{Action: codec.ActionReload})
}

// Shutdown 让 daemon 优雅退出
func Shutdown() *codec.ResponseMsg {
	return engine.ClientRun(&codec.ActionMsg{Action: codec.ActionShutdown})
}
