package engine

import (
	"fmt"
	"sync"
	"time"

	"lpd/pkg/catalog"
	"lpd/pkg/codec"
	"lpd/pkg/logger"

	"go.uber.org/zap"
)

// ComponentSupervisor 管理一个组件的完整生命周期。
// 状态读写由 mu 保护，操作之间由 opMu 互斥，抢不到锁的调用立刻返回
// ErrBusy 而不是排队。
type ComponentSupervisor struct {
	FullName string

	def   *catalog.ComponentDefinition
	meter *UsageMeter
	grace time.Duration

	mu      sync.Mutex
	state   codec.ComponentState
	handle  *ProcessHandle
	exitCh  chan struct{}
	startAt time.Time
	stopAt  time.Time
	metered bool

	opMu sync.Mutex

	logbuf *LogBuffer
	probes []*Probe
	logger *zap.SugaredLogger
}

// SupervisorOptions 是构造组件监督器需要的引擎级参数
type SupervisorOptions struct {
	GracePeriod   time.Duration
	ProbeInterval time.Duration
	ProbeTimeout  time.Duration
	LogCapacity   int
}

func NewComponentSupervisor(project string, def *catalog.ComponentDefinition, meter *UsageMeter, opts SupervisorOptions) *ComponentSupervisor {
	fullName := fmt.Sprintf("%s::%s", project, def.Name)

	grace := opts.GracePeriod
	if grace <= 0 {
		grace = 10 * time.Second
	}

	s := &ComponentSupervisor{
		FullName: fullName,
		def:      def,
		meter:    meter,
		grace:    grace,
		state:    codec.ComponentStopped,
		logbuf:   NewLogBuffer(opts.LogCapacity),
		logger:   logger.Logging(fullName),
	}

	for _, check := range def.Checks {
		s.probes = append(s.probes, NewProbe(check, opts.ProbeInterval, opts.ProbeTimeout))
	}

	return s
}

func (s *ComponentSupervisor) Name() string {
	return s.def.Name
}

func (s *ComponentSupervisor) State() codec.ComponentState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Info 返回组件的完整快照，含健康结果和日志缓冲
func (s *ComponentSupervisor) Info() codec.ComponentInfo {
	s.mu.Lock()
	pid := 0
	if s.handle != nil {
		pid = s.handle.Pid
	}
	info := codec.ComponentInfo{
		Name:    s.def.Name,
		Summary: s.def.Summary,
		Pid:     pid,
		State:   s.state,
		StartAt: s.startAt,
		StopAt:  s.stopAt,
	}
	s.mu.Unlock()

	for _, probe := range s.probes {
		info.Health = append(info.Health, probe.Last())
	}
	info.Logs = s.logbuf.Snapshot()

	return info
}

// Start 把组件从 Stopped 或 Failed 拉起来。
// 启动失败不算调用失败，组件落在 Failed 态，原因进日志缓冲。
func (s *ComponentSupervisor) Start() error {
	if !s.opMu.TryLock() {
		return fmt.Errorf("%w: %s", ErrBusy, s.FullName)
	}
	defer s.opMu.Unlock()

	s.mu.Lock()
	if s.state != codec.ComponentStopped && s.state != codec.ComponentFailed {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("%w: cannot start %s from %s", ErrInvalidTransition, s.FullName, state)
	}
	s.state = codec.ComponentStarting
	s.mu.Unlock()

	handle, err := Spawn(s.FullName, s.def, s.logbuf)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.logger.Errorf("Failed to start: %v", err)
		s.logbuf.Append("engine", fmt.Sprintf("Failed: failed to start: %v", err))
		s.state = codec.ComponentFailed
		return nil
	}

	s.handle = handle
	s.exitCh = make(chan struct{})
	s.startAt = handle.StartAt
	s.stopAt = time.Time{}
	s.state = codec.ComponentRunning
	s.meter.MarkRunning()
	s.metered = true

	for _, probe := range s.probes {
		probe.Unpause()
		probe.Start()
	}

	go s.watchExit(handle)

	return nil
}

// Stop 走优雅停止的阶梯：暂停中的进程组先 SIGCONT，然后发停止信号，
// 宽限期内没退出就 SIGKILL
func (s *ComponentSupervisor) Stop() error {
	if !s.opMu.TryLock() {
		return fmt.Errorf("%w: %s", ErrBusy, s.FullName)
	}
	defer s.opMu.Unlock()

	return s.stopLocked()
}

func (s *ComponentSupervisor) stopLocked() error {
	s.mu.Lock()
	if s.state != codec.ComponentRunning && s.state != codec.ComponentPaused {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("%w: cannot stop %s from %s", ErrInvalidTransition, s.FullName, state)
	}

	paused := s.state == codec.ComponentPaused
	handle := s.handle
	exitCh := s.exitCh
	s.state = codec.ComponentStopping
	s.mu.Unlock()

	if paused {
		if err := handle.Resume(); err != nil {
			s.logger.Error(err)
		}
	}

	if err := handle.Terminate(); err != nil {
		s.logger.Error(err)
	}

	timer := time.NewTimer(s.grace)
	defer timer.Stop()

	select {
	case <-exitCh:
		s.logger.Infof("Process %s exited gracefully", s.FullName)
	case <-timer.C:
		s.logger.Warnf("Process %s exited timeout", s.FullName)
		if err := handle.Kill(); err != nil {
			s.logger.Error(err)
		}
		<-exitCh
	}

	return nil
}

// Pause 给进程组发 SIGSTOP，把组件钉在 Paused 态
func (s *ComponentSupervisor) Pause() error {
	if !s.opMu.TryLock() {
		return fmt.Errorf("%w: %s", ErrBusy, s.FullName)
	}
	defer s.opMu.Unlock()

	s.mu.Lock()
	if s.state != codec.ComponentRunning {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("%w: cannot pause %s from %s", ErrInvalidTransition, s.FullName, state)
	}

	s.state = codec.ComponentPausing
	handle := s.handle
	exitCh := s.exitCh
	s.mu.Unlock()

	if err := handle.Suspend(); err != nil {
		s.logger.Error(err)
		s.reclaim(handle, exitCh)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// 信号送达的瞬间进程可能已经退出，维持退出监控落下的状态
	if s.handle != handle {
		return nil
	}

	s.state = codec.ComponentPaused
	if s.metered {
		s.meter.MarkStopped()
		s.metered = false
	}
	for _, probe := range s.probes {
		probe.Pause()
	}

	return nil
}

// Resume 给进程组发 SIGCONT，组件回到 Running 态
func (s *ComponentSupervisor) Resume() error {
	if !s.opMu.TryLock() {
		return fmt.Errorf("%w: %s", ErrBusy, s.FullName)
	}
	defer s.opMu.Unlock()

	s.mu.Lock()
	if s.state != codec.ComponentPaused {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("%w: cannot resume %s from %s", ErrInvalidTransition, s.FullName, state)
	}

	s.state = codec.ComponentResuming
	handle := s.handle
	exitCh := s.exitCh
	s.mu.Unlock()

	if err := handle.Resume(); err != nil {
		s.logger.Error(err)
		s.reclaim(handle, exitCh)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle != handle {
		return nil
	}

	s.state = codec.ComponentRunning
	s.meter.MarkRunning()
	s.metered = true
	for _, probe := range s.probes {
		probe.Unpause()
	}

	return nil
}

// Shutdown 是回收路径，持有进程就停掉，没有就原样返回
func (s *ComponentSupervisor) Shutdown() {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	attached := s.state.Attached()
	s.mu.Unlock()

	if attached {
		if err := s.stopLocked(); err != nil {
			s.logger.Error(err)
		}
	}
}

// reclaim 在信号投递失败后回收进程组并等它退出，最终状态由退出监控
// 落下（非 Stopping 的退出记成 Failed，进程句柄随之摘除）
func (s *ComponentSupervisor) reclaim(handle *ProcessHandle, exitCh chan struct{}) {
	if err := handle.Kill(); err != nil {
		s.logger.Error(err)
	}
	<-exitCh
}

// watchExit 消费进程退出通知。主动停止的退出把状态归位到 Stopped，
// 计划外的退出一律记成 Failed。
func (s *ComponentSupervisor) watchExit(handle *ProcessHandle) {
	status := <-handle.Done()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle != handle {
		return
	}

	s.handle = nil
	s.stopAt = status.ExitedAt

	if s.state == codec.ComponentStopping {
		s.state = codec.ComponentStopped
	} else {
		s.logger.Warnf("Process %s exited unexpectedly with code=%d", s.FullName, status.Code)
		s.logbuf.Append("engine", fmt.Sprintf("Failed: exited unexpectedly with code=%d", status.Code))
		s.state = codec.ComponentFailed
	}

	if s.metered {
		s.meter.MarkStopped()
		s.metered = false
	}

	for _, probe := range s.probes {
		probe.Stop()
	}

	close(s.exitCh)
}
