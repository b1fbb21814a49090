package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"lpd/pkg/codec"
	"lpd/pkg/logger"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"go.uber.org/zap"
)

// maxHistoryEntries 限制单次返回给调用方的流水条数，存储本身不截断
const maxHistoryEntries = 200

// Ledger 是单个项目的操作流水账，只追加，按时间先后存放
type Ledger struct {
	mu      sync.Mutex
	entries []codec.HistoryEntry
	now     func() time.Time
}

func NewLedger(entries []codec.HistoryEntry) *Ledger {
	return &Ledger{
		entries: entries,
		now:     time.Now,
	}
}

// Record 追加一条流水，格式化规则与操作动词一一对应
func (l *Ledger) Record(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, codec.HistoryEntry{
		At:   l.now(),
		Text: fmt.Sprintf(format, args...),
	})
}

// Entries 返回从新到旧排列的流水副本，最多 maxHistoryEntries 条
func (l *Ledger) Entries() []codec.HistoryEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	count := len(l.entries)
	if count > maxHistoryEntries {
		count = maxHistoryEntries
	}

	out := make([]codec.HistoryEntry, count)
	for i := 0; i < count; i++ {
		out[i] = l.entries[len(l.entries)-1-i]
	}
	return out
}

// raw 返回存储顺序的流水，持久化时用
func (l *Ledger) raw() []codec.HistoryEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]codec.HistoryEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// ProjectState 是项目落盘的全部内容，一个项目一个键
type ProjectState struct {
	Profile string               `cbor:"profile"`
	Usage   time.Duration        `cbor:"usage"`
	History []codec.HistoryEntry `cbor:"history,omitempty"`
}

// Store 把项目状态持久化到 badger，nil Store 的读写都是安全的空操作
type Store struct {
	db     *badger.DB
	logger *zap.SugaredLogger
}

func OpenStore(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:     db,
		logger: logger.Logging("store"),
	}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func storeKey(project string) []byte {
	return []byte(fmt.Sprintf("project/%s", project))
}

// Save 写入一个项目的状态
func (s *Store) Save(project string, state *ProjectState) error {
	if s == nil || s.db == nil {
		return nil
	}

	encoder, err := codec.GetEncoder()
	if err != nil {
		return err
	}

	data, err := encoder.Marshal(state)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(storeKey(project), data)
	})
}

// Load 读取一个项目的状态，没有记录时返回 nil
func (s *Store) Load(project string) (*ProjectState, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}

	var state *ProjectState
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(storeKey(project))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			state = &ProjectState{}
			return cbor.Unmarshal(val, state)
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return state, nil
}

// Delete 抹掉一个项目的记录
func (s *Store) Delete(project string) error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(storeKey(project))
	})
}
