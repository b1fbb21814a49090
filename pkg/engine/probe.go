package engine

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"lpd/pkg/catalog"
	"lpd/pkg/codec"
)

const (
	defaultProbeInterval = 15 * time.Second
	defaultProbeTimeout  = 5 * time.Second
)

// Probe 是单项健康检查的执行器，检查结果只作展示，不触发任何状态流转
type Probe struct {
	def      *catalog.CheckDefinition
	interval time.Duration
	timeout  time.Duration

	mu     sync.Mutex
	last   codec.HealthResult
	paused atomic.Bool
	cancel context.CancelFunc
	done   chan struct{}
}

func NewProbe(def *catalog.CheckDefinition, interval, timeout time.Duration) *Probe {
	if def.Interval > 0 {
		interval = time.Duration(def.Interval)
	}
	if def.Timeout > 0 {
		timeout = time.Duration(def.Timeout)
	}
	if interval <= 0 {
		interval = defaultProbeInterval
	}
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}

	return &Probe{
		def:      def,
		interval: interval,
		timeout:  timeout,
		last: codec.HealthResult{
			Label:  def.Label,
			Status: codec.ProbeUnknown,
		},
	}
}

// Start 启动后台巡检，先立即执行一次再按间隔循环
func (p *Probe) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})

	go func() {
		defer close(p.done)

		p.run(ctx)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.run(ctx)
			}
		}
	}()
}

// Stop 结束巡检并等待后台 goroutine 退出
func (p *Probe) Stop() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
	p.cancel = nil
}

// Pause 让巡检留在原地，组件暂停期间不产生误报
func (p *Probe) Pause() {
	p.paused.Store(true)

	p.mu.Lock()
	p.last.Status = codec.ProbeUnknown
	p.last.Detail = "component paused"
	p.mu.Unlock()
}

func (p *Probe) Unpause() {
	p.paused.Store(false)
}

// Last 返回最近一次检查结果
func (p *Probe) Last() codec.HealthResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

func (p *Probe) run(ctx context.Context) {
	if p.paused.Load() {
		return
	}

	checkCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	status, detail := p.Execute(checkCtx)

	p.mu.Lock()
	p.last = codec.HealthResult{
		Label:     p.def.Label,
		Status:    status,
		Detail:    detail,
		CheckedAt: time.Now(),
	}
	p.mu.Unlock()
}

// Execute 执行一次检查，超时或无法判定时返回 Unknown
func (p *Probe) Execute(ctx context.Context) (codec.ProbeStatus, string) {
	switch p.def.Kind {
	case "http":
		return p.checkHTTP(ctx)
	case "tcp":
		return p.checkTCP(ctx)
	case "command":
		return p.checkCommand(ctx)
	}
	return codec.ProbeUnknown, fmt.Sprintf("unknown check kind %q", p.def.Kind)
}

func (p *Probe) checkHTTP(ctx context.Context) (codec.ProbeStatus, string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.def.Target, nil)
	if err != nil {
		return codec.ProbeUnknown, err.Error()
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return codec.ProbeUnknown, "check timed out"
		}
		return codec.ProbeUnhealthy, err.Error()
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		return codec.ProbeHealthy, resp.Status
	}
	return codec.ProbeUnhealthy, resp.Status
}

func (p *Probe) checkTCP(ctx context.Context) (codec.ProbeStatus, string) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", p.def.Target)
	if err != nil {
		if ctx.Err() != nil {
			return codec.ProbeUnknown, "check timed out"
		}
		return codec.ProbeUnhealthy, err.Error()
	}
	_ = conn.Close()

	return codec.ProbeHealthy, fmt.Sprintf("connected to %s", p.def.Target)
}

func (p *Probe) checkCommand(ctx context.Context) (codec.ProbeStatus, string) {
	argv := p.def.CommandArgv()
	exe := argv[0]
	var args []string
	if len(argv) > 1 {
		args = argv[1:]
	}

	cmd := exec.CommandContext(ctx, exe, args...)
	err := cmd.Run()
	if err != nil {
		if ctx.Err() != nil {
			return codec.ProbeUnknown, "check timed out"
		}
		return codec.ProbeUnhealthy, err.Error()
	}

	return codec.ProbeHealthy, "exit code 0"
}
