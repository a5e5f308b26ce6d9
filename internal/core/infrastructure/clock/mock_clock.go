package clock

import (
	"sync"
	"time"
)

// MockWallSource 测试用实时时钟，时间可控，可注入读取失败
type MockWallSource struct {
	mu          sync.Mutex
	currentTime time.Time
	err         error
}

func NewMockWallSource(initial time.Time) *MockWallSource {
	return &MockWallSource{currentTime: initial}
}

func (c *MockWallSource) ReadWall() (int64, int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return 0, 0, c.err
	}
	return c.currentTime.Unix(), int64(c.currentTime.Nanosecond()), nil
}

func (c *MockWallSource) Resolution() (time.Duration, error) { return time.Nanosecond, nil }

// Advance 推进时间
func (c *MockWallSource) Advance(d time.Duration) {
	c.mu.Lock()
	c.currentTime = c.currentTime.Add(d)
	c.mu.Unlock()
}

// Set 设置当前时间
func (c *MockWallSource) Set(t time.Time) {
	c.mu.Lock()
	c.currentTime = t
	c.mu.Unlock()
}

// Fail 之后的读取返回 err，传 nil 恢复
func (c *MockWallSource) Fail(err error) {
	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
}

var _ WallSource = (*MockWallSource)(nil)
