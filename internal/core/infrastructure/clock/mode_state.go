package clock

import (
	"math"
	"sync/atomic"

	"github.com/weisyn/rovclock/pkg/types"
)

// modeState 当前模式与重导航时间
//
// 两个字段各自原子读写，彼此之间没有一致性要求：
// 读到新模式配旧的重导航值是允许的。
type modeState struct {
	mode  atomic.Int32
	renav atomic.Uint64 // math.Float64bits
}

func (s *modeState) loadMode() types.TimeMode {
	return types.TimeMode(s.mode.Load())
}

// swapMode 写入新模式并返回旧模式
func (s *modeState) swapMode(m types.TimeMode) types.TimeMode {
	return types.TimeMode(s.mode.Swap(int32(m)))
}

func (s *modeState) loadRenav() float64 {
	return math.Float64frombits(s.renav.Load())
}

func (s *modeState) storeRenav(v float64) {
	s.renav.Store(math.Float64bits(v))
}
