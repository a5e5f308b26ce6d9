package log

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logconfig "github.com/weisyn/rovclock/internal/config/log"
	"github.com/weisyn/rovclock/pkg/types"
)

type fakeSource struct {
	t    time.Time
	mode types.TimeMode
	err  error
}

func (s fakeSource) TryNow() (time.Time, error) { return s.t, s.err }
func (s fakeSource) Mode() types.TimeMode       { return s.mode }

var renavInstant = time.Date(2024, 7, 4, 13, 45, 30, 123456789, time.UTC)

// newFileLogger 创建只写文件的日志记录器，返回日志文件路径
func newFileLogger(t *testing.T, adapter *ClockAdapter, modeClock bool) (*Logger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rovclock.log")
	cfg := logconfig.New(&types.UserLogConfig{
		FilePath:  types.StringPtr(path),
		ModeClock: types.BoolPtr(modeClock),
	})
	logger, err := New(cfg, adapter)
	require.NoError(t, err)
	return logger.(*Logger), path
}

// readEntries 读取 JSON 日志行
func readEntries(t *testing.T, path string) []map[string]interface{} {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []map[string]interface{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		entries = append(entries, entry)
	}
	require.NoError(t, scanner.Err())
	return entries
}

func TestModeClockTimestamps(t *testing.T) {
	t.Run("重导航模式为毫秒布局", func(t *testing.T) {
		adapter := NewClockAdapter()
		adapter.Bind(fakeSource{t: renavInstant, mode: types.TimeModeRenav})
		logger, path := newFileLogger(t, adapter, true)

		logger.Info("测试信息日志")
		require.NoError(t, logger.Sync())

		entries := readEntries(t, path)
		require.Len(t, entries, 1)
		assert.Equal(t, "2024/07/04 13:45:30.123", entries[0]["timestamp"])
		assert.Equal(t, "测试信息日志", entries[0]["message"])
		assert.Equal(t, "info", entries[0]["level"])
	})

	t.Run("系统模式为纳秒布局", func(t *testing.T) {
		adapter := NewClockAdapter()
		adapter.Bind(fakeSource{t: renavInstant, mode: types.TimeModeSystem})
		logger, path := newFileLogger(t, adapter, true)

		logger.Warn("偏移过大")
		require.NoError(t, logger.Sync())

		entries := readEntries(t, path)
		require.Len(t, entries, 1)
		assert.Equal(t, "2024/07/04 13:45:30.123456789", entries[0]["timestamp"])
	})

	t.Run("关闭mode_clock时使用ISO8601", func(t *testing.T) {
		adapter := NewClockAdapter()
		adapter.Bind(fakeSource{t: renavInstant, mode: types.TimeModeRenav})
		logger, path := newFileLogger(t, adapter, false)

		logger.Info("普通时间戳")
		require.NoError(t, logger.Sync())

		entries := readEntries(t, path)
		require.Len(t, entries, 1)
		ts, ok := entries[0]["timestamp"].(string)
		require.True(t, ok)
		assert.Contains(t, ts, "T", "ISO8601 布局")
		assert.NotContains(t, ts, "2024/07/04")
	})
}

func TestClockAdapter(t *testing.T) {
	t.Run("未绑定时使用运行时时钟", func(t *testing.T) {
		adapter := NewClockAdapter()
		assert.WithinDuration(t, time.Now(), adapter.Now(), time.Second)
		assert.Equal(t, types.TimeModeSystem, adapter.Mode())
	})

	t.Run("读取失败时回退", func(t *testing.T) {
		adapter := NewClockAdapter()
		adapter.Bind(fakeSource{t: renavInstant, mode: types.TimeModeRenav, err: errors.New("clock read failed")})
		assert.WithinDuration(t, time.Now(), adapter.Now(), time.Second)
		assert.Equal(t, types.TimeModeRenav, adapter.Mode())
	})

	t.Run("解除绑定", func(t *testing.T) {
		adapter := NewClockAdapter()
		adapter.Bind(fakeSource{t: renavInstant, mode: types.TimeModeFastTime})
		assert.Equal(t, renavInstant, adapter.Now())
		adapter.Bind(nil)
		assert.Equal(t, types.TimeModeSystem, adapter.Mode())
	})

	t.Run("Ticker按真实时间", func(t *testing.T) {
		ticker := NewClockAdapter().NewTicker(time.Millisecond)
		defer ticker.Stop()
		select {
		case <-ticker.C:
		case <-time.After(time.Second):
			t.Fatal("ticker 未触发")
		}
	})
}

func TestStructuredLogging(t *testing.T) {
	logger, path := newFileLogger(t, nil, true)

	logger.With("module", "clock", "key2", 42).Info("结构化日志测试")
	logger.Debug("低于配置级别，不应写出")
	require.NoError(t, logger.Sync())

	entries := readEntries(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, "clock", entries[0]["module"])
	assert.Equal(t, float64(42), entries[0]["key2"])
}

func TestToZapFields(t *testing.T) {
	fields := toZapFields("a", 1, "b")
	require.Len(t, fields, 1, "奇数个参数时丢弃最后一个")
	assert.Equal(t, "a", fields[0].Key)

	fields = toZapFields(7, "x")
	require.Len(t, fields, 1)
	assert.Equal(t, "7", fields[0].Key)
}

func TestGlobalLogger(t *testing.T) {
	old := GetLogger()
	t.Cleanup(func() { SetLogger(old) })

	logger, path := newFileLogger(t, nil, true)
	SetLogger(logger)
	SetLogger(nil)
	assert.Same(t, logger, GetLogger(), "nil 不替换全局记录器")

	L().Infof("全局 %s", "info")
	L().Errorf("全局 %s", "error")
	require.NoError(t, logger.Sync())

	entries := readEntries(t, path)
	require.Len(t, entries, 2)
	assert.Equal(t, "全局 info", entries[0]["message"])
	assert.Equal(t, "error", entries[1]["level"])
}

func TestNewModuleZapLogger(t *testing.T) {
	assert.NotNil(t, NewModuleZapLogger(nil, "clock"))
	assert.Nil(t, NewModuleLogger(nil, "clock"))
}
