package codec

type ActionCtl int

const (
	ActionLaunch ActionCtl = iota
	ActionStartComponent
	ActionStopComponent
	ActionPauseComponent
	ActionResumeComponent
	ActionOverview
	ActionOverviewFor
	ActionDetails
	ActionDetailsAll
	ActionHistory
	ActionTeardown
	ActionReload
	ActionShutdown
)

var ActionResponse = map[ActionCtl]string{
	ActionLaunch:          "Launch project successfully",
	ActionStartComponent:  "Start component successfully",
	ActionStopComponent:   "Stop component successfully",
	ActionPauseComponent:  "Pause component successfully",
	ActionResumeComponent: "Resume component successfully",
	ActionOverview:        "Fetch overview successfully",
	ActionOverviewFor:     "Fetch project overview successfully",
	ActionDetails:         "Fetch project details successfully",
	ActionDetailsAll:      "Fetch all project details successfully",
	ActionHistory:         "Fetch project history successfully",
	ActionTeardown:        "Teardown project successfully",
	ActionReload:          "Reload catalog successfully",
}

type ActionMsg struct {
	Action    ActionCtl `cbor:"action"`
	Project   string    `cbor:"project,omitempty"`
	Component string    `cbor:"component,omitempty"`
	Profile   string    `cbor:"profile,omitempty"`
}
