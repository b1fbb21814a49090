package engine

import (
	"fmt"
	"sync"

	"lpd/pkg/catalog"
	"lpd/pkg/codec"
	"lpd/pkg/logger"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"go.uber.org/zap"
)

// LaunchEngine 是面向外层的门面，管理全部项目运行时。
// 项目表沿用目录的排序，读操作随时可用，写操作逐项目下发。
type LaunchEngine struct {
	store *Store
	opts  SupervisorOptions

	mu       sync.RWMutex
	projects *orderedmap.OrderedMap[string, *ProjectRuntime]

	logger *zap.SugaredLogger
}

func NewLaunchEngine(store *Store, opts SupervisorOptions) *LaunchEngine {
	return &LaunchEngine{
		store:    store,
		opts:     opts,
		projects: orderedmap.New[string, *ProjectRuntime](),
		logger:   logger.Logging("engine"),
	}
}

// Register 给一个项目定义建立运行时
func (e *LaunchEngine) Register(record *catalog.ProjectRecord) error {
	rt, err := NewProjectRuntime(record, e.store, e.opts)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.projects.Set(record.Key, rt)
	e.mu.Unlock()

	return nil
}

// LoadCatalog 按目录顺序登记全部项目
func (e *LaunchEngine) LoadCatalog(cat *catalog.Catalog) error {
	var firstErr error
	cat.Each(func(record *catalog.ProjectRecord) {
		if err := e.Register(record); err != nil {
			e.logger.Errorf("Cannot register project %s: %v", record.Key, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	})
	return firstErr
}

// Reload 用新目录刷新项目表。组件全停的项目换成新定义，还在跑的
// 保持原运行时不动，目录里消失且已停的项目被摘掉。
func (e *LaunchEngine) Reload(cat *catalog.Catalog) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	refreshed := orderedmap.New[string, *ProjectRuntime]()
	var firstErr error

	replaceable := func(rt *ProjectRuntime) bool {
		row := rt.OverviewRow()
		return row.Status == codec.ProjectStopped || row.Status == codec.ProjectFailed
	}

	cat.Each(func(record *catalog.ProjectRecord) {
		old, exists := e.projects.Get(record.Key)
		if exists && !replaceable(old) {
			refreshed.Set(record.Key, old)
			return
		}

		rt, err := NewProjectRuntime(record, e.store, e.opts)
		if err != nil {
			e.logger.Errorf("Cannot reload project %s: %v", record.Key, err)
			if firstErr == nil {
				firstErr = err
			}
			if exists {
				refreshed.Set(record.Key, old)
			}
			return
		}
		refreshed.Set(record.Key, rt)
	})

	// 目录里已经没有的项目，还有组件在跑就留着
	for pair := e.projects.Oldest(); pair != nil; pair = pair.Next() {
		if _, ok := refreshed.Get(pair.Key); ok {
			continue
		}
		if !replaceable(pair.Value) {
			e.logger.Warnf("Project %s removed from catalog but still active, keeping it", pair.Key)
			refreshed.Set(pair.Key, pair.Value)
		}
	}

	e.projects = refreshed
	return firstErr
}

func (e *LaunchEngine) lookup(key string) (*ProjectRuntime, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	rt, ok := e.projects.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: project %s", ErrNotFound, key)
	}
	return rt, nil
}

// Launch 快速启动一个项目，空 profile 用当前配置档
func (e *LaunchEngine) Launch(key, profile string) ([]string, error) {
	rt, err := e.lookup(key)
	if err != nil {
		return nil, err
	}
	return rt.Launch(profile)
}

func (e *LaunchEngine) StartComponent(key, name string) error {
	rt, err := e.lookup(key)
	if err != nil {
		return err
	}
	return rt.StartComponent(name)
}

func (e *LaunchEngine) StopComponent(key, name string) error {
	rt, err := e.lookup(key)
	if err != nil {
		return err
	}
	return rt.StopComponent(name)
}

func (e *LaunchEngine) PauseComponent(key, name string) error {
	rt, err := e.lookup(key)
	if err != nil {
		return err
	}
	return rt.PauseComponent(name)
}

func (e *LaunchEngine) ResumeComponent(key, name string) error {
	rt, err := e.lookup(key)
	if err != nil {
		return err
	}
	return rt.ResumeComponent(name)
}

// Overview 返回全部项目的总览行，顺序与目录一致
func (e *LaunchEngine) Overview() []codec.OverviewRow {
	e.mu.RLock()
	rts := make([]*ProjectRuntime, 0, e.projects.Len())
	for pair := e.projects.Oldest(); pair != nil; pair = pair.Next() {
		rts = append(rts, pair.Value)
	}
	e.mu.RUnlock()

	rows := make([]codec.OverviewRow, 0, len(rts))
	for _, rt := range rts {
		rows = append(rows, rt.OverviewRow())
	}
	return rows
}

// OverviewFor 返回单个项目的总览行
func (e *LaunchEngine) OverviewFor(key string) (*codec.OverviewRow, error) {
	rt, err := e.lookup(key)
	if err != nil {
		return nil, err
	}

	row := rt.OverviewRow()
	return &row, nil
}

// Details 返回单个项目的完整视图
func (e *LaunchEngine) Details(key string) (*codec.ProjectDetail, error) {
	rt, err := e.lookup(key)
	if err != nil {
		return nil, err
	}

	detail := rt.Detail()
	return &detail, nil
}

// DetailsAll 返回全部项目的完整视图
func (e *LaunchEngine) DetailsAll() []codec.ProjectDetail {
	e.mu.RLock()
	rts := make([]*ProjectRuntime, 0, e.projects.Len())
	for pair := e.projects.Oldest(); pair != nil; pair = pair.Next() {
		rts = append(rts, pair.Value)
	}
	e.mu.RUnlock()

	details := make([]codec.ProjectDetail, 0, len(rts))
	for _, rt := range rts {
		details = append(details, rt.Detail())
	}
	return details
}

// History 返回项目的操作流水，新的在前
func (e *LaunchEngine) History(key string) ([]codec.HistoryEntry, error) {
	rt, err := e.lookup(key)
	if err != nil {
		return nil, err
	}
	return rt.History(), nil
}

// Teardown 停掉一个项目的全部组件
func (e *LaunchEngine) Teardown(key string) error {
	rt, err := e.lookup(key)
	if err != nil {
		return err
	}

	rt.Teardown()
	return nil
}

// Shutdown 停掉所有项目，守护进程退出前调用
func (e *LaunchEngine) Shutdown() {
	e.mu.RLock()
	rts := make([]*ProjectRuntime, 0, e.projects.Len())
	for pair := e.projects.Oldest(); pair != nil; pair = pair.Next() {
		rts = append(rts, pair.Value)
	}
	e.mu.RUnlock()

	var wg sync.WaitGroup
	for _, rt := range rts {
		wg.Add(1)
		go func(rt *ProjectRuntime) {
			defer wg.Done()
			rt.Shutdown()
		}(rt)
	}
	wg.Wait()
}
