// Package store 提供 core.InteractionStore 的内存与 Redis 实现。
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/rushteam/reelkit/core"
)

// MemoryInteractionStore 是内存实现的交互存储，用于测试/开发/原型。
// 进程重启后数据丢失。所有列表输出都有确定顺序，保证推荐结果可复现。
type MemoryInteractionStore struct {
	mu     sync.RWMutex
	byUser map[string]map[int64]core.Interaction
}

func NewMemoryInteractionStore() *MemoryInteractionStore {
	return &MemoryInteractionStore{
		byUser: make(map[string]map[int64]core.Interaction),
	}
}

func (m *MemoryInteractionStore) Name() string { return "memory" }

func (m *MemoryInteractionStore) ListForUser(ctx context.Context, userID string) ([]core.Interaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := m.byUser[userID]
	out := make([]core.Interaction, 0, len(items))
	for _, in := range items {
		out = append(out, in)
	}
	sortInteractions(out)
	return out, nil
}

func (m *MemoryInteractionStore) ListAll(ctx context.Context) ([]core.Interaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]core.Interaction, 0)
	for _, items := range m.byUser {
		for _, in := range items {
			out = append(out, in)
		}
	}
	sortInteractions(out)
	return out, nil
}

func (m *MemoryInteractionStore) ListLikedByUsers(ctx context.Context, userIDs []string) ([]core.Interaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]core.Interaction, 0)
	for _, userID := range userIDs {
		for _, in := range m.byUser[userID] {
			if in.Liked {
				out = append(out, in)
			}
		}
	}
	sortInteractions(out)
	return out, nil
}

func (m *MemoryInteractionStore) Record(ctx context.Context, in core.Interaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.byUser[in.UserID] == nil {
		m.byUser[in.UserID] = make(map[int64]core.Interaction)
	}
	m.byUser[in.UserID][in.ItemID] = in // 同一 (user, item) 覆盖写入
	return nil
}

func (m *MemoryInteractionStore) Delete(ctx context.Context, userID string, itemID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.byUser[userID], itemID)
	return nil
}

func (m *MemoryInteractionStore) Close() error { return nil }

// sortInteractions 按时间倒序，同时间按 userID / itemID 升序，保证确定性。
func sortInteractions(out []core.Interaction) {
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		return out[i].ItemID < out[j].ItemID
	})
}

var _ core.InteractionStore = (*MemoryInteractionStore)(nil)
