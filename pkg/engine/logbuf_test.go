package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestLogBufferKeepsOrder(t *testing.T) {
	buf := NewLogBuffer(5)
	for i := 0; i < 3; i++ {
		buf.Append("stdout", fmt.Sprintf("line %d", i))
	}

	lines := buf.Snapshot()
	require.Len(t, lines, 3)
	assert.Equal(t, "line 0", lines[0].Text)
	assert.Equal(t, "line 2", lines[2].Text)
}

func TestLogBufferDropsOldest(t *testing.T) {
	buf := NewLogBuffer(3)
	for i := 0; i < 7; i++ {
		buf.Append("stdout", fmt.Sprintf("line %d", i))
	}

	lines := buf.Snapshot()
	require.Len(t, lines, 3)
	assert.Equal(t, "line 4", lines[0].Text)
	assert.Equal(t, "line 5", lines[1].Text)
	assert.Equal(t, "line 6", lines[2].Text)
}

func TestLogBufferProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		capacity := rapid.IntRange(1, 16).Draw(t, "capacity")
		count := rapid.IntRange(0, 64).Draw(t, "count")

		buf := NewLogBuffer(capacity)
		for i := 0; i < count; i++ {
			buf.Append("stdout", fmt.Sprintf("line %d", i))
		}

		lines := buf.Snapshot()
		want := count
		if want > capacity {
			want = capacity
		}
		assert.Len(t, lines, want)
		assert.Equal(t, want, buf.Len())

		// 保留的永远是最新的 want 行，顺序从旧到新
		for i, line := range lines {
			assert.Equal(t, fmt.Sprintf("line %d", count-want+i), line.Text)
		}
	})
}
