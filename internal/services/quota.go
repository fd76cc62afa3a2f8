package services

import (
	"fmt"
	"sync"
	"time"
)

// ErrQuotaExceeded は当日のAPI呼び出し枠を使い切った場合に返る。
var ErrQuotaExceeded = fmt.Errorf("本日のAPI利用枠を使い切りました")

// QuotaUsage は現在のクォータ消費状況。
type QuotaUsage struct {
	Count     int
	Limit     int
	Remaining int
	Disabled  bool
}

// QuotaCounter はAPI呼び出しの日次上限を管理する。
// カウントは暦日単位で、日付が変わると自動的にリセットされる。
type QuotaCounter struct {
	mutex    sync.Mutex
	count    int
	limit    int
	day      string
	disabled bool
	now      func() time.Time
}

// NewQuotaCounter は日次上限limitのカウンタを生成する。
// disabled=trueの場合はAcquireが常に成功する（カウントは続ける）。
func NewQuotaCounter(limit int, disabled bool) *QuotaCounter {
	c := &QuotaCounter{
		limit:    limit,
		disabled: disabled,
		now:      time.Now,
	}
	c.day = c.today()
	return c
}

func (c *QuotaCounter) today() string {
	return c.now().Format("2006-01-02")
}

// rollover は日付が変わっていればカウントをリセットする。ロック保持中に呼ぶこと。
func (c *QuotaCounter) rollover() {
	if today := c.today(); today != c.day {
		c.day = today
		c.count = 0
	}
}

// Acquire は1回分の呼び出し枠を確保する。枠の確認と消費は不可分で、
// 並行に呼ばれても上限を超えて成功することはない。
func (c *QuotaCounter) Acquire() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.rollover()

	if !c.disabled && c.count >= c.limit {
		return fmt.Errorf("%w (%d/%d)", ErrQuotaExceeded, c.count, c.limit)
	}
	c.count++
	return nil
}

// Usage は現在の消費状況を返す。
func (c *QuotaCounter) Usage() QuotaUsage {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.rollover()

	remaining := c.limit - c.count
	if remaining < 0 {
		remaining = 0
	}
	return QuotaUsage{
		Count:     c.count,
		Limit:     c.limit,
		Remaining: remaining,
		Disabled:  c.disabled,
	}
}

// Reset はカウントを手動でゼロに戻す。
func (c *QuotaCounter) Reset() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.day = c.today()
	c.count = 0
}
