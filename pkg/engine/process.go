// Package engine
package engine

import (
	"bufio"
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"lpd/pkg/catalog"
	"lpd/pkg/logger"

	"go.uber.org/zap"
)

var sigTable = map[string]syscall.Signal{
	"INT":   syscall.SIGINT,
	"TERM":  syscall.SIGTERM,
	"QUIT":  syscall.SIGQUIT,
	"HUP":   syscall.SIGHUP,
	"ABORT": syscall.SIGABRT,
}

// ExitStatus 是进程退出时的最终信息，由监控 goroutine 投递
type ExitStatus struct {
	Code     int
	Signaled bool
	ExitedAt time.Time
	Err      error
}

// ProcessHandle 包装一个已启动的子进程，进程跑在独立的进程组里，
// 信号统一发给整个组
type ProcessHandle struct {
	Pid     int
	StartAt time.Time

	cmd    *exec.Cmd
	signal syscall.Signal
	done   chan ExitStatus
	wg     sync.WaitGroup
	logbuf *LogBuffer
	logger *zap.SugaredLogger
}

// Spawn 启动组件定义的命令，输出接到环形缓冲区
func Spawn(fullName string, def *catalog.ComponentDefinition, logbuf *LogBuffer) (*ProcessHandle, error) {
	stopSignal, ok := sigTable[def.StopSignal]
	if !ok {
		stopSignal = sigTable["TERM"]
	}

	task := def.Argv()
	exe := task[0]
	var args []string
	if len(task) > 1 {
		args = task[1:]
	}

	cmd := exec.Command(exe, args...)
	cmd.Dir = def.WorkDir
	cmd.Env = append(os.Environ(), def.Env...)
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}

	h := &ProcessHandle{
		cmd:    cmd,
		signal: stopSignal,
		done:   make(chan ExitStatus, 1),
		logbuf: logbuf,
		logger: logger.Logging(fullName),
	}

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}

	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return nil, err
	}

	h.wg.Add(2)
	go h.watchLog("stdout", stdoutPipe)
	go h.watchLog("stderr", stderrPipe)

	if err = cmd.Start(); err != nil {
		return nil, err
	}

	h.Pid = cmd.Process.Pid
	h.StartAt = time.Now()

	go h.monitor()

	h.logger.Infof("Process started with PID %d", h.Pid)
	return h, nil
}

// Done 返回退出通知通道，进程结束后投递一条 ExitStatus 并关闭
func (h *ProcessHandle) Done() <-chan ExitStatus {
	return h.done
}

// Terminate 给进程组发送配置的停止信号
func (h *ProcessHandle) Terminate() error {
	h.logger.Infof("Sending %v to process group %d", h.signal, h.Pid)
	err := syscall.Kill(-h.Pid, h.signal)
	if err != nil && !errors.Is(err, syscall.ESRCH) {
		return err
	}
	return nil
}

// Kill 强制杀掉整个进程组
func (h *ProcessHandle) Kill() error {
	h.logger.Warnf("Force kill process group %d", h.Pid)
	err := syscall.Kill(-h.Pid, syscall.SIGKILL)
	if err != nil && !errors.Is(err, syscall.ESRCH) {
		return err
	}
	return nil
}

// Suspend 暂停整个进程组
func (h *ProcessHandle) Suspend() error {
	err := syscall.Kill(-h.Pid, syscall.SIGSTOP)
	if err != nil && !errors.Is(err, syscall.ESRCH) {
		return err
	}
	return nil
}

// Resume 恢复被暂停的进程组
func (h *ProcessHandle) Resume() error {
	err := syscall.Kill(-h.Pid, syscall.SIGCONT)
	if err != nil && !errors.Is(err, syscall.ESRCH) {
		return err
	}
	return nil
}

// monitor 等待输出管道排空和进程退出，然后投递退出状态
func (h *ProcessHandle) monitor() {
	h.wg.Wait()

	status := ExitStatus{}
	err := h.cmd.Wait()
	status.ExitedAt = time.Now()

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			h.logger.Error(err)
			status.Err = err
		} else {
			ws := exitErr.Sys().(syscall.WaitStatus)
			if ws.Signaled() {
				h.logger.Infof("Process %d terminated by %v", h.Pid, ws.Signal())
				status.Signaled = true
				status.Code = int(ws.Signal())
			} else {
				h.logger.Infof("Process %d exited with code=%d", h.Pid, ws.ExitStatus())
				status.Code = ws.ExitStatus()
			}
		}
	}

	h.done <- status
	close(h.done)
}

func (h *ProcessHandle) watchLog(source string, r io.ReadCloser) {
	defer h.wg.Done()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		h.logbuf.Append(source, scanner.Text())
	}

	err := scanner.Err()
	if err != nil && !errors.Is(err, os.ErrClosed) {
		h.logger.Error(err)
	}
}
