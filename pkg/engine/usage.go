package engine

import (
	"sync"
	"time"
)

// UsageMeter 统计项目的累计使用时长。
// 记的是运行区间的并集：只要有组件在跑就计时，多个组件同时跑不重复累加。
type UsageMeter struct {
	mu       sync.Mutex
	total    time.Duration
	running  int
	openedAt time.Time
	now      func() time.Time
}

func NewUsageMeter(initial time.Duration) *UsageMeter {
	return &UsageMeter{
		total: initial,
		now:   time.Now,
	}
}

// MarkRunning 登记一个组件进入运行态
func (m *UsageMeter) MarkRunning() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running == 0 {
		m.openedAt = m.now()
	}
	m.running++
}

// MarkStopped 登记一个组件离开运行态，最后一个停下时关闭计时区间
func (m *UsageMeter) MarkStopped() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running == 0 {
		return
	}

	m.running--
	if m.running == 0 {
		m.total += m.now().Sub(m.openedAt)
	}
}

// Total 返回累计时长，包含当前未关闭的区间
func (m *UsageMeter) Total() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := m.total
	if m.running > 0 {
		total += m.now().Sub(m.openedAt)
	}
	return total
}

// Hours 返回累计小时数，总览里就用这个口径
func (m *UsageMeter) Hours() float64 {
	return m.Total().Hours()
}
