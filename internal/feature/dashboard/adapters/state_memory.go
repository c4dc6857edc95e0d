// Package adapters はdashboardフィーチャーの状態ストア実装を提供します。
package adapters

import (
	"context"
	"sync"
	"time"

	"stockscope/internal/feature/dashboard/domain/entity"
	"stockscope/internal/feature/dashboard/usecase"
)

// DefaultTTL は最終更新からセッション状態を保持する期間のデフォルト値です。
const DefaultTTL = 24 * time.Hour

type memoryEntry struct {
	state     entity.State
	expiresAt time.Time
}

// StateMemory はプロセス内メモリにセッション状態を保持するStateRepository実装です。
// Redisが利用できない場合のフォールバックとして使用します。
type StateMemory struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

var _ usecase.StateRepository = (*StateMemory)(nil)

// NewStateMemory は新しいStateMemoryを生成します。ttl が0以下の場合は DefaultTTL を使用します。
func NewStateMemory(ttl time.Duration) *StateMemory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &StateMemory{ttl: ttl, entries: map[string]memoryEntry{}, now: time.Now}
}

// Load はセッションの状態を返します。存在しないか期限切れの場合は初期状態を返します。
func (m *StateMemory) Load(_ context.Context, sessionID string) (entity.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[sessionID]
	if !ok || !m.now().Before(e.expiresAt) {
		delete(m.entries, sessionID)
		return entity.InitialState(), nil
	}
	return e.state, nil
}

// Save はセッションの状態を保存し、期限切れのエントリを掃除します。
func (m *StateMemory) Save(_ context.Context, sessionID string, state entity.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for id, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, id)
		}
	}
	m.entries[sessionID] = memoryEntry{state: state, expiresAt: now.Add(m.ttl)}
	return nil
}

// Len は保持しているセッション数を返します。
func (m *StateMemory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
