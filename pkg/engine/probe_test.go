package engine

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lpd/pkg/catalog"
	"lpd/pkg/codec"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	healthy := NewProbe(&catalog.CheckDefinition{
		Label:  "web",
		Kind:   "http",
		Target: srv.URL + "/healthz",
	}, time.Second, time.Second)

	status, _ := healthy.Execute(context.Background())
	assert.Equal(t, codec.ProbeHealthy, status)

	broken := NewProbe(&catalog.CheckDefinition{
		Label:  "web",
		Kind:   "http",
		Target: srv.URL + "/broken",
	}, time.Second, time.Second)

	status, detail := broken.Execute(context.Background())
	assert.Equal(t, codec.ProbeUnhealthy, status)
	assert.Contains(t, detail, "503")
}

func TestProbeTCP(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = ln.Close() }()

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			_ = conn.Close()
		}
	}()

	probe := NewProbe(&catalog.CheckDefinition{
		Label:  "port",
		Kind:   "tcp",
		Target: ln.Addr().String(),
	}, time.Second, time.Second)

	status, _ := probe.Execute(context.Background())
	assert.Equal(t, codec.ProbeHealthy, status)
}

func TestProbeTCPRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	target := ln.Addr().String()
	require.NoError(t, ln.Close())

	probe := NewProbe(&catalog.CheckDefinition{
		Label:  "port",
		Kind:   "tcp",
		Target: target,
	}, time.Second, time.Second)

	status, _ := probe.Execute(context.Background())
	assert.Equal(t, codec.ProbeUnhealthy, status)
}

func TestProbeCommand(t *testing.T) {
	ok := NewProbe(&catalog.CheckDefinition{
		Label:   "always",
		Kind:    "command",
		Command: "true",
	}, time.Second, time.Second)

	status, detail := ok.Execute(context.Background())
	assert.Equal(t, codec.ProbeHealthy, status)
	assert.Equal(t, "exit code 0", detail)

	bad := NewProbe(&catalog.CheckDefinition{
		Label:   "never",
		Kind:    "command",
		Command: "false",
	}, time.Second, time.Second)

	status, _ = bad.Execute(context.Background())
	assert.Equal(t, codec.ProbeUnhealthy, status)
}

func TestProbeCommandTimeout(t *testing.T) {
	probe := NewProbe(&catalog.CheckDefinition{
		Label:   "slow",
		Kind:    "command",
		Command: "sleep 10",
	}, time.Second, time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	status, detail := probe.Execute(ctx)
	assert.Equal(t, codec.ProbeUnknown, status)
	assert.Equal(t, "check timed out", detail)
}

func TestProbePauseSkipsExecution(t *testing.T) {
	probe := NewProbe(&catalog.CheckDefinition{
		Label:   "always",
		Kind:    "command",
		Command: "true",
	}, 10*time.Millisecond, time.Second)

	probe.Start()
	defer probe.Stop()

	require.Eventually(t, func() bool {
		return probe.Last().Status == codec.ProbeHealthy
	}, 2*time.Second, 10*time.Millisecond)

	probe.Pause()
	assert.Equal(t, codec.ProbeUnknown, probe.Last().Status)

	// 暂停期间后台循环不会覆盖 Unknown 结果
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, codec.ProbeUnknown, probe.Last().Status)

	probe.Unpause()
	require.Eventually(t, func() bool {
		return probe.Last().Status == codec.ProbeHealthy
	}, 2*time.Second, 10*time.Millisecond)
}
