package engine

import (
	"testing"

	"lpd/pkg/codec"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestRollup(t *testing.T) {
	tests := []struct {
		name   string
		states []codec.ComponentState
		want   codec.ProjectStatus
	}{
		{"empty", nil, codec.ProjectStopped},
		{"all stopped", []codec.ComponentState{codec.ComponentStopped, codec.ComponentStopped}, codec.ProjectStopped},
		{"one running", []codec.ComponentState{codec.ComponentStopped, codec.ComponentRunning}, codec.ProjectRunning},
		{"starting counts as running", []codec.ComponentState{codec.ComponentStarting}, codec.ProjectRunning},
		{"stopping counts as running", []codec.ComponentState{codec.ComponentStopping, codec.ComponentStopped}, codec.ProjectRunning},
		{"all paused", []codec.ComponentState{codec.ComponentPaused, codec.ComponentPaused}, codec.ProjectPaused},
		{"pausing counts as paused", []codec.ComponentState{codec.ComponentPausing, codec.ComponentStopped}, codec.ProjectPaused},
		{"running beats paused", []codec.ComponentState{codec.ComponentPaused, codec.ComponentRunning}, codec.ProjectRunning},
		{"failed beats everything", []codec.ComponentState{codec.ComponentRunning, codec.ComponentFailed, codec.ComponentPaused}, codec.ProjectFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Rollup(tt.states))
		})
	}
}

func TestRollupProperties(t *testing.T) {
	all := []codec.ComponentState{
		codec.ComponentStopped, codec.ComponentStarting, codec.ComponentRunning,
		codec.ComponentPausing, codec.ComponentPaused, codec.ComponentResuming,
		codec.ComponentStopping, codec.ComponentFailed,
	}

	rapid.Check(t, func(t *rapid.T) {
		states := rapid.SliceOfN(rapid.SampledFrom(all), 0, 12).Draw(t, "states")
		got := Rollup(states)

		hasFailed := false
		for _, s := range states {
			if s == codec.ComponentFailed {
				hasFailed = true
			}
		}

		// 只要有一个 Failed，聚合结果必然是 Failed
		if hasFailed {
			assert.Equal(t, codec.ProjectFailed, got)
		} else if len(states) == 0 {
			assert.Equal(t, codec.ProjectStopped, got)
		}

		// 聚合顺序无关
		for i, j := 0, len(states)-1; i < j; i, j = i+1, j-1 {
			states[i], states[j] = states[j], states[i]
		}
		assert.Equal(t, got, Rollup(states))
	})
}

func TestActive(t *testing.T) {
	assert.True(t, Active(codec.ProjectRunning))
	assert.True(t, Active(codec.ProjectPaused))
	assert.False(t, Active(codec.ProjectStopped))
	assert.False(t, Active(codec.ProjectFailed))
}
