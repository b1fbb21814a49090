package engine

import (
	"fmt"
	"testing"
	"time"

	"lpd/pkg/codec"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerRecordsNewestFirst(t *testing.T) {
	ledger := NewLedger(nil)
	ledger.Record("Launch (%s)", "default")
	ledger.Record("Stop %s", "api")

	entries := ledger.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "Stop api", entries[0].Text)
	assert.Equal(t, "Launch (default)", entries[1].Text)
}

func TestLedgerCapsDisplayNotStorage(t *testing.T) {
	ledger := NewLedger(nil)
	for i := 0; i < maxHistoryEntries+50; i++ {
		ledger.Record("Start op-%d", i)
	}

	// 展示侧最多 maxHistoryEntries 条，取最新的
	entries := ledger.Entries()
	require.Len(t, entries, maxHistoryEntries)
	assert.Equal(t, fmt.Sprintf("Start op-%d", maxHistoryEntries+49), entries[0].Text)

	// 存储侧只追加，最早的记录还在
	stored := ledger.raw()
	require.Len(t, stored, maxHistoryEntries+50)
	assert.Equal(t, "Start op-0", stored[0].Text)
}

func TestStoreRoundTrip(t *testing.T) {
	store, err := OpenStore(t.TempDir())
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	state := &ProjectState{
		Profile: "default",
		Usage:   90 * time.Minute,
		History: []codec.HistoryEntry{
			{At: time.Unix(1700000000, 0), Text: "Launch (default)"},
			{At: time.Unix(1700000600, 0), Text: "Stop api"},
		},
	}
	require.NoError(t, store.Save("shop", state))

	loaded, err := store.Load("shop")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "default", loaded.Profile)
	assert.Equal(t, 90*time.Minute, loaded.Usage)
	require.Len(t, loaded.History, 2)
	assert.Equal(t, "Launch (default)", loaded.History[0].Text)

	require.NoError(t, store.Delete("shop"))
	gone, err := store.Load("shop")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestStoreLoadMissing(t *testing.T) {
	store, err := OpenStore(t.TempDir())
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	state, err := store.Load("nobody")
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestNilStoreIsNoop(t *testing.T) {
	var store *Store

	require.NoError(t, store.Save("x", &ProjectState{}))
	state, err := store.Load("x")
	require.NoError(t, err)
	assert.Nil(t, state)
	require.NoError(t, store.Delete("x"))
	require.NoError(t, store.Close())
}
