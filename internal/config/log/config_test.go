package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"

	"github.com/weisyn/rovclock/pkg/types"
)

func TestNew(t *testing.T) {
	t.Run("默认配置", func(t *testing.T) {
		cfg := New(nil)
		assert.True(t, cfg.IsConsoleEnabled())
		assert.Empty(t, cfg.GetFilePath())
		assert.True(t, cfg.GetOptions().ModeClock)
		assert.Equal(t, zapcore.InfoLevel, cfg.GetZapLevel())
	})

	t.Run("指定文件后关闭控制台", func(t *testing.T) {
		cfg := New(&types.UserLogConfig{
			Level:       types.StringPtr("debug"),
			FilePath:    types.StringPtr("/tmp/rovclock.log"),
			DSLFilePath: types.StringPtr("/tmp/rovclock.dsl"),
			ModeClock:   types.BoolPtr(false),
		})
		assert.False(t, cfg.IsConsoleEnabled())
		assert.Equal(t, zapcore.DebugLevel, cfg.GetZapLevel())
		assert.Equal(t, "/tmp/rovclock.dsl", cfg.GetOptions().DSLFilePath)
		assert.False(t, cfg.GetOptions().ModeClock)
	})

	t.Run("未知级别回退到info", func(t *testing.T) {
		cfg := New(&types.UserLogConfig{Level: types.StringPtr("verbose")})
		assert.Equal(t, zapcore.InfoLevel, cfg.GetZapLevel())
	})
}

func TestNewFromOptions(t *testing.T) {
	assert.NotNil(t, NewFromOptions(nil).GetOptions())

	opts := createDefaultLogOptions()
	opts.Level = "warn"
	assert.Equal(t, zapcore.WarnLevel, NewFromOptions(opts).GetZapLevel())
}

func TestValidate(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "fatal"} {
		assert.NoError(t, New(&types.UserLogConfig{Level: types.StringPtr(level)}).GetOptions().Validate(), level)
	}
	assert.Error(t, New(&types.UserLogConfig{Level: types.StringPtr("verbose")}).GetOptions().Validate())
}

func TestEncoders(t *testing.T) {
	cfg := New(nil)
	assert.NotNil(t, cfg.CreateFileEncoder(nil))
	assert.NotNil(t, cfg.CreateConsoleEncoder(zapcore.RFC3339TimeEncoder))
}
