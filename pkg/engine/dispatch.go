package engine

import (
	"fmt"

	"lpd/pkg/catalog"
	"lpd/pkg/codec"
	"lpd/pkg/config"
)

func (se *LpdSession) dispatch(msg *codec.ActionMsg) codec.ResponseCtl {
	var res *codec.ResponseMsg
	var result codec.ResponseCtl

	switch msg.Action {
	case codec.ActionShutdown:
		{
			// 先准备响应消息，引擎关停放在会话结束后由守护进程收尾
			res = &codec.ResponseMsg{
				Code:    200,
				Message: "Shutdown prepared",
			}
			result = codec.ResponseShutdown
		}
	case codec.ActionLaunch:
		res = se.doLaunch(msg)
		result = codec.ResponseNormal
	case codec.ActionStartComponent, codec.ActionStopComponent,
		codec.ActionPauseComponent, codec.ActionResumeComponent:
		res = se.doComponentOp(msg)
		result = codec.ResponseNormal
	case codec.ActionOverview:
		res = &codec.ResponseMsg{
			Code:     200,
			Message:  codec.ActionResponse[msg.Action],
			Overview: se.eng.Overview(),
		}
		result = codec.ResponseNormal
	case codec.ActionOverviewFor:
		res = se.doOverviewFor(msg)
		result = codec.ResponseNormal
	case codec.ActionDetails:
		res = se.doDetails(msg)
		result = codec.ResponseNormal
	case codec.ActionDetailsAll:
		res = &codec.ResponseMsg{
			Code:    200,
			Message: codec.ActionResponse[msg.Action],
			Details: se.eng.DetailsAll(),
		}
		result = codec.ResponseNormal
	case codec.ActionHistory:
		res = se.doHistory(msg)
		result = codec.ResponseNormal
	case codec.ActionTeardown:
		res = se.doTeardown(msg)
		result = codec.ResponseNormal
	case codec.ActionReload:
		res = se.doReload()
		result = codec.ResponseReload
	default:
		res = &codec.ResponseMsg{
			Code:    404,
			Message: fmt.Sprintf("Unknown action %d", msg.Action),
		}
		result = codec.ResponseMsgErr
	}

	return se.sendResponse(res, result)
}

func (se *LpdSession) doLaunch(msg *codec.ActionMsg) *codec.ResponseMsg {
	failures, err := se.eng.Launch(msg.Project, msg.Profile)
	if err != nil {
		res, _ := se.errorResponse(err)
		return res
	}

	message := codec.ActionResponse[msg.Action]
	if len(failures) > 0 {
		message = fmt.Sprintf("Launched with failures: %v", failures)
	}

	return se.snapshotResponse(msg.Project, message)
}

// snapshotResponse 变更操作统一返回 {总览行, 完整视图}，调用方一次刷新列表和详情
func (se *LpdSession) snapshotResponse(project, message string) *codec.ResponseMsg {
	row, err := se.eng.OverviewFor(project)
	if err != nil {
		res, _ := se.errorResponse(err)
		return res
	}

	detail, err := se.eng.Details(project)
	if err != nil {
		res, _ := se.errorResponse(err)
		return res
	}

	return &codec.ResponseMsg{
		Code:     200,
		Message:  message,
		Overview: []codec.OverviewRow{*row},
		Detail:   detail,
	}
}

func (se *LpdSession) doComponentOp(msg *codec.ActionMsg) *codec.ResponseMsg {
	var err error

	switch msg.Action {
	case codec.ActionStartComponent:
		err = se.eng.StartComponent(msg.Project, msg.Component)
	case codec.ActionStopComponent:
		err = se.eng.StopComponent(msg.Project, msg.Component)
	case codec.ActionPauseComponent:
		err = se.eng.PauseComponent(msg.Project, msg.Component)
	case codec.ActionResumeComponent:
		err = se.eng.ResumeComponent(msg.Project, msg.Component)
	}

	if err != nil {
		res, _ := se.errorResponse(err)
		return res
	}

	return se.snapshotResponse(msg.Project, codec.ActionResponse[msg.Action])
}

func (se *LpdSession) doOverviewFor(msg *codec.ActionMsg) *codec.ResponseMsg {
	row, err := se.eng.OverviewFor(msg.Project)
	if err != nil {
		res, _ := se.errorResponse(err)
		return res
	}

	return &codec.ResponseMsg{
		Code:     200,
		Message:  codec.ActionResponse[msg.Action],
		Overview: []codec.OverviewRow{*row},
	}
}

func (se *LpdSession) doDetails(msg *codec.ActionMsg) *codec.ResponseMsg {
	detail, err := se.eng.Details(msg.Project)
	if err != nil {
		res, _ := se.errorResponse(err)
		return res
	}

	return &codec.ResponseMsg{
		Code:    200,
		Message: codec.ActionResponse[msg.Action],
		Detail:  detail,
	}
}

func (se *LpdSession) doHistory(msg *codec.ActionMsg) *codec.ResponseMsg {
	history, err := se.eng.History(msg.Project)
	if err != nil {
		res, _ := se.errorResponse(err)
		return res
	}

	return &codec.ResponseMsg{
		Code:    200,
		Message: codec.ActionResponse[msg.Action],
		History: history,
	}
}

func (se *LpdSession) doTeardown(msg *codec.ActionMsg) *codec.ResponseMsg {
	if err := se.eng.Teardown(msg.Project); err != nil {
		res, _ := se.errorResponse(err)
		return res
	}

	return se.snapshotResponse(msg.Project, codec.ActionResponse[msg.Action])
}

func (se *LpdSession) doReload() *codec.ResponseMsg {
	cat, err := catalog.Load(config.GetConfig().Projects)
	if err != nil {
		res, _ := se.errorResponse(err)
		return res
	}

	if err = se.eng.Reload(cat); err != nil {
		res, _ := se.errorResponse(err)
		return res
	}

	return &codec.ResponseMsg{
		Code:     200,
		Message:  codec.ActionResponse[codec.ActionReload],
		Overview: se.eng.Overview(),
	}
}
