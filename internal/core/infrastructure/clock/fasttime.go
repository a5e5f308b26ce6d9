package clock

import (
	"errors"
	"sync/atomic"

	"github.com/weisyn/rovclock/pkg/types"
)

// FastTimeHz 快速时钟频率：每个 tick 代表 100ms
const FastTimeHz = 10

// ErrWriterClaimed 快速时钟写端已被另一个驱动持有
var ErrWriterClaimed = errors.New("fasttime writer already claimed")

// fastTimeCounter 单写多读的 tick 计数器
type fastTimeCounter struct {
	ticks   atomic.Uint64
	claimed atomic.Bool
}

// FastTimeWriter 计数器写端，只应由一个驱动 goroutine 使用
type FastTimeWriter struct {
	c *fastTimeCounter
}

// FastTimeReader 计数器读端，可以随意复制与并发读取
type FastTimeReader struct {
	c *fastTimeCounter
}

// NewFastTime 创建从 0 开始的快速时钟计数器
func NewFastTime() (*FastTimeWriter, FastTimeReader) {
	c := &fastTimeCounter{}
	return &FastTimeWriter{c: c}, FastTimeReader{c: c}
}

// Tick 计数加一并返回新值
func (w *FastTimeWriter) Tick() types.FastTime {
	return types.FastTime(w.c.ticks.Add(1))
}

// Reader 返回与写端共享计数的读端
func (w *FastTimeWriter) Reader() FastTimeReader {
	return FastTimeReader{c: w.c}
}

func (w *FastTimeWriter) claim() error {
	if !w.c.claimed.CompareAndSwap(false, true) {
		return ErrWriterClaimed
	}
	return nil
}

func (w *FastTimeWriter) release() {
	w.c.claimed.Store(false)
}

// Get 读取当前 tick 数，不修改计数
func (r FastTimeReader) Get() types.FastTime {
	if r.c == nil {
		return 0
	}
	return types.FastTime(r.c.ticks.Load())
}

// FastTimeToSeconds tick 数换算为整秒（截断）
func FastTimeToSeconds(ft types.FastTime) int64 {
	return int64(ft / FastTimeHz)
}

// FastTimeToMillis tick 数换算为毫秒
func FastTimeToMillis(ft types.FastTime) int64 {
	return int64(ft) * (1000 / FastTimeHz)
}

// SecondsToFastTime 秒换算为 tick 数
func SecondsToFastTime(sec int64) types.FastTime {
	return types.FastTime(sec * FastTimeHz)
}

// MillisToFastTime 毫秒换算为 tick 数（截断到 100ms）
func MillisToFastTime(ms int64) types.FastTime {
	return types.FastTime(ms / (1000 / FastTimeHz))
}
