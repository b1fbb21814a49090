package engine

import (
	"fmt"
	"sort"
	"sync"

	"lpd/pkg/catalog"
	"lpd/pkg/codec"
	"lpd/pkg/logger"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"go.uber.org/zap"
)

// ProjectRuntime 是一个项目的运行时，持有当前配置档下全部组件的监督器。
// 组件表按定义顺序排列，使用时长和流水账跨配置档累计。
type ProjectRuntime struct {
	record *catalog.ProjectRecord
	meter  *UsageMeter
	ledger *Ledger
	store  *Store
	opts   SupervisorOptions

	mu         sync.Mutex
	profile    string
	components *orderedmap.OrderedMap[string, *ComponentSupervisor]

	logger *zap.SugaredLogger
}

func NewProjectRuntime(record *catalog.ProjectRecord, store *Store, opts SupervisorOptions) (*ProjectRuntime, error) {
	rt := &ProjectRuntime{
		record: record,
		store:  store,
		opts:   opts,
		logger: logger.Logging(record.Key),
	}

	profile := record.DefaultProfile
	persisted, err := store.Load(record.Key)
	if err != nil {
		return nil, err
	}

	if persisted != nil {
		rt.meter = NewUsageMeter(persisted.Usage)
		rt.ledger = NewLedger(persisted.History)
		if _, ok := record.Profiles[persisted.Profile]; ok {
			profile = persisted.Profile
		}
	} else {
		rt.meter = NewUsageMeter(0)
		rt.ledger = NewLedger(nil)
	}

	rt.profile = profile
	rt.components = rt.buildComponents(profile)

	return rt, nil
}

func (rt *ProjectRuntime) buildComponents(profile string) *orderedmap.OrderedMap[string, *ComponentSupervisor] {
	table := orderedmap.New[string, *ComponentSupervisor]()
	for _, def := range rt.record.Profiles[profile].Components {
		table.Set(def.Name, NewComponentSupervisor(rt.record.Key, def, rt.meter, rt.opts))
	}
	return table
}

func (rt *ProjectRuntime) Key() string {
	return rt.record.Key
}

// Launch 把项目整个拉起来。已在跑的组件跳过，暂停的恢复，停止和失败的
// 启动；组件之间并发拉起，没拉起来的收集到返回值里，调用本身不算失败。
// 指定新配置档时先停掉旧档的全部组件再切换组件表。
func (rt *ProjectRuntime) Launch(profile string) ([]string, error) {
	rt.mu.Lock()

	if profile == "" {
		profile = rt.profile
	}

	if _, ok := rt.record.Profiles[profile]; !ok {
		rt.mu.Unlock()
		return nil, fmt.Errorf("%w: profile %s in project %s", ErrNotFound, profile, rt.record.Key)
	}

	if profile != rt.profile {
		rt.teardownLocked()
		rt.profile = profile
		rt.components = rt.buildComponents(profile)
	}

	sups := make([]*ComponentSupervisor, 0, rt.components.Len())
	for pair := rt.components.Oldest(); pair != nil; pair = pair.Next() {
		sups = append(sups, pair.Value)
	}
	rt.mu.Unlock()

	// 各组件并发拉起，结果按定义顺序落位
	results := make([]string, len(sups))
	var wg sync.WaitGroup
	for i, sup := range sups {
		wg.Add(1)
		go func(i int, sup *ComponentSupervisor) {
			defer wg.Done()

			var err error
			switch sup.State() {
			case codec.ComponentRunning:
				return
			case codec.ComponentPaused:
				err = sup.Resume()
			case codec.ComponentStopped, codec.ComponentFailed:
				err = sup.Start()
			default:
				err = fmt.Errorf("%w: %s", ErrBusy, sup.FullName)
			}

			if err != nil {
				results[i] = fmt.Sprintf("%s: %v", sup.Name(), err)
			} else if sup.State() == codec.ComponentFailed {
				results[i] = fmt.Sprintf("%s: failed to start", sup.Name())
			}
		}(i, sup)
	}
	wg.Wait()

	var failures []string
	for _, r := range results {
		if r != "" {
			failures = append(failures, r)
		}
	}

	rt.mu.Lock()
	rt.ledger.Record("Launch (%s)", profile)
	rt.persistLocked()
	rt.mu.Unlock()

	return failures, nil
}

// StartComponent 启动单个组件
func (rt *ProjectRuntime) StartComponent(name string) error {
	return rt.componentOp(name, "Start %s", (*ComponentSupervisor).Start)
}

// StopComponent 停止单个组件
func (rt *ProjectRuntime) StopComponent(name string) error {
	return rt.componentOp(name, "Stop %s", (*ComponentSupervisor).Stop)
}

// PauseComponent 暂停单个组件
func (rt *ProjectRuntime) PauseComponent(name string) error {
	return rt.componentOp(name, "Pause %s", (*ComponentSupervisor).Pause)
}

// ResumeComponent 恢复单个组件
func (rt *ProjectRuntime) ResumeComponent(name string) error {
	return rt.componentOp(name, "Resume %s", (*ComponentSupervisor).Resume)
}

func (rt *ProjectRuntime) componentOp(name, format string, op func(*ComponentSupervisor) error) error {
	rt.mu.Lock()
	sup, ok := rt.components.Get(name)
	rt.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: component %s in project %s", ErrNotFound, name, rt.record.Key)
	}

	if err := op(sup); err != nil {
		return err
	}

	rt.mu.Lock()
	current, ok := rt.components.Get(name)
	if !ok || current != sup {
		// 操作窗口里配置档换掉了组件表，操作落在过期实例上。
		// 过期实例不再归任何表管，就地回收，不记流水。
		rt.mu.Unlock()
		sup.Shutdown()
		return fmt.Errorf("%w: component %s in project %s", ErrNotFound, name, rt.record.Key)
	}
	rt.ledger.Record(format, name)
	rt.persistLocked()
	rt.mu.Unlock()

	return nil
}

// Teardown 把项目全停掉并记一笔流水
func (rt *ProjectRuntime) Teardown() {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	rt.teardownLocked()
	rt.ledger.Record("Teardown")
	rt.persistLocked()
}

// Shutdown 是守护进程退出时的静默回收，不产生流水
func (rt *ProjectRuntime) Shutdown() {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	rt.teardownLocked()
	rt.persistLocked()
}

func (rt *ProjectRuntime) teardownLocked() {
	for pair := rt.components.Oldest(); pair != nil; pair = pair.Next() {
		pair.Value.Shutdown()
	}
}

func (rt *ProjectRuntime) persistLocked() {
	err := rt.store.Save(rt.record.Key, &ProjectState{
		Profile: rt.profile,
		Usage:   rt.meter.Total(),
		History: rt.ledger.raw(),
	})
	if err != nil {
		rt.logger.Error(err)
	}
}

// OverviewRow 返回聚合后的项目总览行
func (rt *ProjectRuntime) OverviewRow() codec.OverviewRow {
	rt.mu.Lock()
	profile := rt.profile
	sups := make([]*ComponentSupervisor, 0, rt.components.Len())
	for pair := rt.components.Oldest(); pair != nil; pair = pair.Next() {
		sups = append(sups, pair.Value)
	}
	rt.mu.Unlock()

	states := make([]codec.ComponentState, 0, len(sups))
	running := 0
	for _, sup := range sups {
		state := sup.State()
		states = append(states, state)
		if state == codec.ComponentRunning {
			running++
		}
	}

	status := Rollup(states)

	return codec.OverviewRow{
		Key:        rt.record.Key,
		Name:       rt.record.Name,
		Icon:       rt.record.Icon,
		Summary:    rt.record.Summary,
		Tags:       rt.record.Tags,
		Favorite:   rt.record.Favorite,
		Status:     status,
		Active:     Active(status),
		Profile:    profile,
		Running:    running,
		Total:      len(states),
		UsageHours: rt.meter.Hours(),
	}
}

// Detail 返回项目的完整视图
func (rt *ProjectRuntime) Detail() codec.ProjectDetail {
	detail := codec.ProjectDetail{
		Overview: rt.OverviewRow(),
	}

	rt.mu.Lock()
	sups := make([]*ComponentSupervisor, 0, rt.components.Len())
	for pair := rt.components.Oldest(); pair != nil; pair = pair.Next() {
		sups = append(sups, pair.Value)
	}
	rt.mu.Unlock()

	for _, sup := range sups {
		detail.Components = append(detail.Components, sup.Info())
	}

	for _, link := range rt.record.QuickLinks {
		detail.QuickLinks = append(detail.QuickLinks, codec.Link{Label: link.Label, URL: link.URL})
	}
	for _, folder := range rt.record.Folders {
		detail.Folders = append(detail.Folders, codec.Folder{Label: folder.Label, Path: folder.Path})
	}

	for name := range rt.record.Profiles {
		detail.Profiles = append(detail.Profiles, name)
	}
	sort.Strings(detail.Profiles)

	return detail
}

// History 返回从新到旧的操作流水
func (rt *ProjectRuntime) History() []codec.HistoryEntry {
	return rt.ledger.Entries()
}
