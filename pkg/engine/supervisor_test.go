package engine

import (
	"testing"
	"time"

	"lpd/pkg/catalog"
	"lpd/pkg/codec"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSupervisor(t *testing.T, command string) *ComponentSupervisor {
	t.Helper()

	def := &catalog.ComponentDefinition{
		Name:       "main",
		Command:    command,
		StopSignal: "TERM",
	}

	s := NewComponentSupervisor("demo", def, NewUsageMeter(0), SupervisorOptions{
		GracePeriod: 2 * time.Second,
		LogCapacity: 16,
	})
	t.Cleanup(s.Shutdown)

	return s
}

func waitForState(t *testing.T, s *ComponentSupervisor, want codec.ComponentState) {
	t.Helper()
	require.Eventually(t, func() bool {
		return s.State() == want
	}, 5*time.Second, 20*time.Millisecond, "expected state %s, got %s", want, s.State())
}

func TestSupervisorStartStopCycle(t *testing.T) {
	s := testSupervisor(t, "/bin/sleep 60")

	require.NoError(t, s.Start())
	assert.Equal(t, codec.ComponentRunning, s.State())
	assert.Greater(t, s.Info().Pid, 0)

	require.NoError(t, s.Stop())
	waitForState(t, s, codec.ComponentStopped)

	// 停掉之后还能再拉起来
	require.NoError(t, s.Start())
	assert.Equal(t, codec.ComponentRunning, s.State())
}

func TestSupervisorPauseResume(t *testing.T) {
	s := testSupervisor(t, "/bin/sleep 60")

	require.NoError(t, s.Start())
	require.NoError(t, s.Pause())
	assert.Equal(t, codec.ComponentPaused, s.State())

	require.NoError(t, s.Resume())
	assert.Equal(t, codec.ComponentRunning, s.State())

	require.NoError(t, s.Stop())
	waitForState(t, s, codec.ComponentStopped)
}

func TestSupervisorStopWhilePaused(t *testing.T) {
	s := testSupervisor(t, "/bin/sleep 60")

	require.NoError(t, s.Start())
	require.NoError(t, s.Pause())

	// 停止暂停中的组件需要先唤醒进程组才能送达停止信号
	require.NoError(t, s.Stop())
	waitForState(t, s, codec.ComponentStopped)
}

func TestSupervisorInvalidTransitions(t *testing.T) {
	s := testSupervisor(t, "/bin/sleep 60")

	assert.ErrorIs(t, s.Stop(), ErrInvalidTransition)
	assert.ErrorIs(t, s.Pause(), ErrInvalidTransition)
	assert.ErrorIs(t, s.Resume(), ErrInvalidTransition)

	require.NoError(t, s.Start())
	assert.ErrorIs(t, s.Start(), ErrInvalidTransition)
	assert.ErrorIs(t, s.Resume(), ErrInvalidTransition)
}

func TestSupervisorBusy(t *testing.T) {
	// 进程忽略 TERM，Stop 会在宽限期里等退出
	def := &catalog.ComponentDefinition{
		Name:       "stubborn",
		Command:    `trap "" TERM; while true; do sleep 1; done`,
		StopSignal: "TERM",
	}
	s := NewComponentSupervisor("demo", def, NewUsageMeter(0), SupervisorOptions{
		GracePeriod: time.Second,
		LogCapacity: 16,
	})
	t.Cleanup(s.Shutdown)

	require.NoError(t, s.Start())

	stopDone := make(chan error, 1)
	go func() {
		stopDone <- s.Stop()
	}()

	// 等 Stop 占住操作锁再发起并发操作
	require.Eventually(t, func() bool {
		return s.State() == codec.ComponentStopping
	}, 2*time.Second, 10*time.Millisecond)

	assert.ErrorIs(t, s.Pause(), ErrBusy)
	assert.ErrorIs(t, s.Start(), ErrBusy)

	require.NoError(t, <-stopDone)
	waitForState(t, s, codec.ComponentStopped)
}

func TestSupervisorSpawnFailure(t *testing.T) {
	s := testSupervisor(t, "/nonexistent/binary --flag")

	// 启动失败不是调用错误，组件落在 Failed 态
	require.NoError(t, s.Start())
	assert.Equal(t, codec.ComponentFailed, s.State())

	info := s.Info()
	require.NotEmpty(t, info.Logs)
	assert.Contains(t, info.Logs[len(info.Logs)-1].Text, "failed to start")

	// Failed 态允许重试
	assert.ErrorIs(t, s.Stop(), ErrInvalidTransition)
}

func TestSupervisorUnexpectedExit(t *testing.T) {
	s := testSupervisor(t, `sh -c 'exit 3'`)

	require.NoError(t, s.Start())
	waitForState(t, s, codec.ComponentFailed)

	info := s.Info()
	require.NotEmpty(t, info.Logs)
	assert.Contains(t, info.Logs[len(info.Logs)-1].Text, "exited unexpectedly with code=3")
}

func TestSupervisorReclaimAfterSignalFailure(t *testing.T) {
	s := testSupervisor(t, "/bin/sleep 60")

	require.NoError(t, s.Start())

	s.mu.Lock()
	handle := s.handle
	exitCh := s.exitCh
	s.mu.Unlock()

	// 信号投递失败的收尾路径：回收进程组并等退出监控归位
	s.reclaim(handle, exitCh)
	waitForState(t, s, codec.ComponentFailed)

	// 句柄已摘除，状态与进程持有保持一致
	assert.Zero(t, s.Info().Pid)

	// Failed 之后重新拉起只会产生一个新进程
	require.NoError(t, s.Start())
	assert.Equal(t, codec.ComponentRunning, s.State())
	assert.Greater(t, s.Info().Pid, 0)
	assert.NotEqual(t, handle.Pid, s.Info().Pid)
}

func TestSupervisorCapturesOutput(t *testing.T) {
	s := testSupervisor(t, `sh -c 'echo hello from stdout; echo oops >&2; sleep 60'`)

	require.NoError(t, s.Start())

	require.Eventually(t, func() bool {
		return len(s.Info().Logs) >= 2
	}, 5*time.Second, 20*time.Millisecond)

	var stdout, stderr bool
	for _, line := range s.Info().Logs {
		if line.Source == "stdout" && line.Text == "hello from stdout" {
			stdout = true
		}
		if line.Source == "stderr" && line.Text == "oops" {
			stderr = true
		}
	}
	assert.True(t, stdout)
	assert.True(t, stderr)
}
