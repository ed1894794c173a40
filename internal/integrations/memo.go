package integrations

import (
	"sort"
	"strings"
	"sync"
)

// Memo is a process-lifetime response store with no TTL and no eviction.
// It is a best-effort cost reducer for third-party quota, not a freshness
// mechanism, and is injected so tests get a clean instance per run.
type Memo struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemo creates an empty Memo.
func NewMemo() *Memo {
	return &Memo{entries: make(map[string][]byte)}
}

// Get returns the stored payload for key, if any.
func (m *Memo) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.entries[key]
	return b, ok
}

// Set stores the payload for key. Last writer wins.
func (m *Memo) Set(key string, payload []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = payload
}

// Len reports the number of stored entries.
func (m *Memo) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// memoKey builds a deterministic key from sorted key=value pairs.
func memoKey(prefix string, params map[string]string) string {
	pairs := make([]string, 0, len(params))
	for k, v := range params {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return prefix + ":" + strings.Join(pairs, ":")
}
