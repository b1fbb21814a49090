package engine

import (
	"sync"
	"time"

	"lpd/pkg/codec"
)

const defaultLogCapacity = 100

// LogBuffer 是固定容量的日志环形缓冲区，写满后覆盖最旧的行
type LogBuffer struct {
	mu    sync.Mutex
	lines []codec.LogLine
	head  int
	full  bool
	now   func() time.Time
}

func NewLogBuffer(capacity int) *LogBuffer {
	if capacity <= 0 {
		capacity = defaultLogCapacity
	}
	return &LogBuffer{
		lines: make([]codec.LogLine, capacity),
		now:   time.Now,
	}
}

// Append 追加一行输出，source 标记来自 stdout 还是 stderr
func (b *LogBuffer) Append(source, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lines[b.head] = codec.LogLine{
		At:     b.now(),
		Source: source,
		Text:   text,
	}
	b.head = (b.head + 1) % len(b.lines)
	if b.head == 0 {
		b.full = true
	}
}

// Snapshot 返回从旧到新排列的所有行
func (b *LogBuffer) Snapshot() []codec.LogLine {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.full {
		out := make([]codec.LogLine, b.head)
		copy(out, b.lines[:b.head])
		return out
	}

	out := make([]codec.LogLine, 0, len(b.lines))
	out = append(out, b.lines[b.head:]...)
	out = append(out, b.lines[:b.head]...)
	return out
}

func (b *LogBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.full {
		return len(b.lines)
	}
	return b.head
}
