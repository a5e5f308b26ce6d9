package log

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	configtypes "github.com/weisyn/rovclock/pkg/types"
)

// LogOptions 日志配置选项
type LogOptions struct {
	// === 基础配置 ===
	Level     string `json:"level"`      // 日志级别 (debug, info, warn, error, fatal)
	ToConsole bool   `json:"to_console"` // 是否输出到控制台
	FilePath  string `json:"file_path"`  // 日志文件路径，空表示不写文件

	// === 时间戳 ===
	ModeClock bool `json:"mode_clock"` // 日志时间戳取自模式时钟，并使用 DSL 布局

	// === DSL 记录文件 ===
	DSLFilePath string `json:"dsl_file_path"` // 空表示不开启

	// === 基础轮转配置 ===
	MaxSize    int  `json:"max_size"`    // 单个日志文件最大大小(MB)
	MaxBackups int  `json:"max_backups"` // 最大备份文件数
	MaxAge     int  `json:"max_age"`     // 日志文件最大保留天数
	Compress   bool `json:"compress"`    // 是否压缩历史日志文件

	// === 调试配置 ===
	EnableCaller     bool `json:"enable_caller"`     // 是否启用调用者信息
	EnableStacktrace bool `json:"enable_stacktrace"` // 是否启用堆栈跟踪

	// === 内部配置（不对外暴露） ===
	LevelMap map[string]zapcore.Level `json:"-"` // 级别映射
}

// Config 日志配置实现
type Config struct {
	options *LogOptions
}

// New 创建日志配置实现
func New(userConfig *configtypes.UserLogConfig) *Config {
	options := createDefaultLogOptions()
	if userConfig != nil {
		applyUserLogConfig(options, userConfig)
	}
	return &Config{options: options}
}

// NewFromOptions 包装已有的日志选项
func NewFromOptions(options *LogOptions) *Config {
	if options == nil {
		return New(nil)
	}
	return &Config{options: options}
}

// createDefaultLogOptions 创建默认日志配置
func createDefaultLogOptions() *LogOptions {
	return &LogOptions{
		Level:     defaultLogLevel,
		ToConsole: defaultToConsole,
		FilePath:  defaultFilePath,

		ModeClock:   defaultModeClock,
		DSLFilePath: defaultDSLFilePath,

		MaxSize:    defaultMaxSize,
		MaxBackups: defaultMaxBackups,
		MaxAge:     defaultMaxAge,
		Compress:   defaultCompress,

		EnableCaller:     defaultEnableCaller,
		EnableStacktrace: defaultEnableStacktrace,

		LevelMap: defaultLevelMap,
	}
}

// applyUserLogConfig 应用用户日志配置覆盖默认值
func applyUserLogConfig(options *LogOptions, logConfig *configtypes.UserLogConfig) {
	// 只处理JSON配置文件中实际出现的字段
	if logConfig.Level != nil {
		options.Level = *logConfig.Level
	}
	if logConfig.FilePath != nil {
		options.FilePath = *logConfig.FilePath
		options.ToConsole = false // 指定文件路径时默认不输出到控制台
	}
	if logConfig.DSLFilePath != nil {
		options.DSLFilePath = *logConfig.DSLFilePath
	}
	if logConfig.ModeClock != nil {
		options.ModeClock = *logConfig.ModeClock
	}
}

// Validate 校验日志级别
func (o *LogOptions) Validate() error {
	if !configtypes.LogLevel(o.Level).Valid() {
		return fmt.Errorf("未知的日志级别: %q", o.Level)
	}
	return nil
}

// GetOptions 获取完整的日志配置选项
func (c *Config) GetOptions() *LogOptions {
	return c.options
}

// GetZapLevel 获取zap日志级别
func (c *Config) GetZapLevel() zapcore.Level {
	if level, exists := c.options.LevelMap[c.options.Level]; exists {
		return level
	}
	return zapcore.InfoLevel
}

// IsConsoleEnabled 是否启用控制台输出
func (c *Config) IsConsoleEnabled() bool {
	return c.options.ToConsole
}

// GetFilePath 获取日志文件路径
func (c *Config) GetFilePath() string {
	return c.options.FilePath
}

// === 编码器 ===

// CreateFileEncoder JSON 文件编码器，timeEncoder 为 nil 时使用 ISO8601
func (c *Config) CreateFileEncoder(timeEncoder zapcore.TimeEncoder) zapcore.Encoder {
	if timeEncoder == nil {
		timeEncoder = zapcore.ISO8601TimeEncoder
	}
	return zapcore.NewJSONEncoder(encoderConfig(timeEncoder, zapcore.LowercaseLevelEncoder))
}

// CreateConsoleEncoder 控制台编码器，timeEncoder 为 nil 时只显示时分秒
func (c *Config) CreateConsoleEncoder(timeEncoder zapcore.TimeEncoder) zapcore.Encoder {
	if timeEncoder == nil {
		timeEncoder = zapcore.TimeEncoderOfLayout("15:04:05.000")
	}
	return zapcore.NewConsoleEncoder(encoderConfig(timeEncoder, zapcore.CapitalColorLevelEncoder))
}

func encoderConfig(timeEncoder zapcore.TimeEncoder, levelEncoder zapcore.LevelEncoder) zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.MessageKey = "message"
	cfg.EncodeTime = timeEncoder
	cfg.EncodeLevel = levelEncoder
	cfg.EncodeDuration = zapcore.StringDurationEncoder
	return cfg
}
