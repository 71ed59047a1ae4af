package store

import (
	"fmt"
	"sync"

	"github.com/shouni/go-reg-harvest/pkg/dedupe"
	"github.com/shouni/go-reg-harvest/pkg/types"
)

// Checkpointer は詳細取得の進行中に一定件数ごとの途中保存を行います。
// 長時間の初期取り込みが途中で落ちても、それまでの成果と既読IDが残るため、
// 再実行は未取得分から再開できます。
type Checkpointer struct {
	store    *Store
	index    *dedupe.Index
	interval int

	mu      sync.Mutex
	pending []types.Item
	flushes int
}

// NewCheckpointer は新しい Checkpointer を初期化します。
// interval が0以下の場合は DefaultCheckpointInterval を使用します。
func NewCheckpointer(store *Store, index *dedupe.Index, interval int) *Checkpointer {
	if interval <= 0 {
		interval = DefaultCheckpointInterval
	}
	return &Checkpointer{store: store, index: index, interval: interval}
}

// Add はレコードを追加し、間隔に達した場合は途中保存を実行します。
func (c *Checkpointer) Add(item types.Item) error {
	c.mu.Lock()
	c.pending = append(c.pending, item)
	shouldFlush := len(c.pending) >= c.interval
	c.mu.Unlock()

	if shouldFlush {
		return c.Flush()
	}
	return nil
}

// Flush は未保存レコードをマージ書き込みし、既読IDも合わせて保存します。
func (c *Checkpointer) Flush() error {
	c.mu.Lock()
	if len(c.pending) == 0 {
		c.mu.Unlock()
		return nil
	}
	batch := c.pending
	c.pending = nil
	c.mu.Unlock()

	if _, err := c.store.MergeAndSave(batch); err != nil {
		// 失敗したバッチは破棄しない。次回のFlushで再試行される
		c.mu.Lock()
		c.pending = append(batch, c.pending...)
		c.mu.Unlock()
		return fmt.Errorf("途中保存に失敗しました: %w", err)
	}
	if err := c.index.Save(dedupe.SidecarPath(c.store.Path())); err != nil {
		return err
	}

	c.mu.Lock()
	c.flushes++
	c.mu.Unlock()
	return nil
}

// Flushes は実行された途中保存の回数を返します。
func (c *Checkpointer) Flushes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flushes
}
