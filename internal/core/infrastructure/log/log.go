// Package log 提供了一个通用的日志接口和基于zap的实现
// 它支持不同级别的日志记录、结构化日志、日志旋转，
// 以及取自模式时钟的日志时间戳
package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	logconfig "github.com/weisyn/rovclock/internal/config/log"
	logInterface "github.com/weisyn/rovclock/pkg/interfaces/infrastructure/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu           sync.RWMutex
	globalLogger logInterface.Logger
)

// Logger 基于 zap 的 log.Logger 实现
type Logger struct {
	zapLogger *zap.Logger
	sugar     *zap.SugaredLogger
}

func init() {
	ResetDefault()
}

// ResetDefault 全局日志记录器恢复为默认配置（控制台输出，时间戳取运行时时钟）
func ResetDefault() {
	logger, err := New(logconfig.New(nil), nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "默认日志记录器初始化失败: %v\n", err)
		return
	}
	SetLogger(logger)
}

// rotatingWriter lumberjack 滚动文件，目录无法创建时退回 stderr
func rotatingWriter(path string, opts *logconfig.LogOptions) zapcore.WriteSyncer {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		fmt.Fprintf(os.Stderr, "创建日志目录失败 %s: %v\n", filepath.Dir(path), err)
		return zapcore.AddSync(os.Stderr)
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    opts.MaxSize, // MB
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAge, // 天
		Compress:   opts.Compress,
	})
}

// New 根据配置创建新的日志记录器
//
// clock 不为 nil 且配置启用 mode_clock 时，日志时间戳取自 clock，
// 并按当前模式精度输出 DSL 时间布局。
func New(config *logconfig.Config, clock *ClockAdapter) (logInterface.Logger, error) {
	level := zap.NewAtomicLevelAt(config.GetZapLevel())
	opts := config.GetOptions()

	var timeEncoder zapcore.TimeEncoder
	zapOptions := []zap.Option{}
	if clock != nil && opts.ModeClock {
		timeEncoder = clock.TimeEncoder()
		zapOptions = append(zapOptions, zap.WithClock(clock))
	}

	var cores []zapcore.Core
	outputPath := config.GetFilePath()

	// 1. 控制台输出
	if outputPath == "stdout" || outputPath == "stderr" || config.IsConsoleEnabled() {
		output := zapcore.AddSync(os.Stdout)
		if outputPath == "stderr" {
			output = zapcore.AddSync(os.Stderr)
		}
		cores = append(cores, zapcore.NewCore(config.CreateConsoleEncoder(timeEncoder), output, level))
	}

	// 2. 文件输出
	if outputPath != "" && outputPath != "stdout" && outputPath != "stderr" {
		absPath, err := filepath.Abs(outputPath)
		if err != nil {
			return nil, fmt.Errorf("获取日志文件绝对路径失败: %w", err)
		}
		cores = append(cores, zapcore.NewCore(config.CreateFileEncoder(timeEncoder), rotatingWriter(absPath, opts), level))
	}

	core := zapcore.NewTee(cores...)

	// 添加调用者信息
	if opts.EnableCaller {
		zapOptions = append(zapOptions, zap.AddCaller())
		// 跳过一层日志封装，使调用位置指向真实业务代码位置（而非本文件）
		zapOptions = append(zapOptions, zap.AddCallerSkip(1))
	}

	// 添加堆栈跟踪
	if opts.EnableStacktrace {
		zapOptions = append(zapOptions, zap.AddStacktrace(zapcore.ErrorLevel))
	}

	return wrap(zap.New(core, zapOptions...)), nil
}

// GetZapLogger 获取底层的zap日志记录器
func (l *Logger) GetZapLogger() *zap.Logger {
	return l.zapLogger
}

// SetLogger 替换全局日志记录器，nil 被忽略
func SetLogger(logger logInterface.Logger) {
	if logger == nil {
		return
	}
	mu.Lock()
	globalLogger = logger
	mu.Unlock()
}

// GetLogger 全局日志记录器
func GetLogger() logInterface.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return globalLogger
}

// L 全局日志记录器，未设置时先恢复默认配置
func L() logInterface.Logger {
	if l := GetLogger(); l != nil {
		return l
	}
	ResetDefault()
	return GetLogger()
}

// toZapFields 键值对转换为 zap 字段，奇数个参数时丢弃最后一个
func toZapFields(args ...interface{}) []zap.Field {
	n := len(args) / 2
	fields := make([]zap.Field, 0, n)
	for i := 0; i < n*2; i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		fields = append(fields, zap.Any(key, args[i+1]))
	}
	return fields
}

func (l *Logger) Debug(msg string)                          { l.sugar.Debug(msg) }
func (l *Logger) Debugf(format string, args ...interface{}) { l.sugar.Debugf(format, args...) }
func (l *Logger) Info(msg string)                           { l.sugar.Info(msg) }
func (l *Logger) Infof(format string, args ...interface{})  { l.sugar.Infof(format, args...) }
func (l *Logger) Warn(msg string)                           { l.sugar.Warn(msg) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.sugar.Warnf(format, args...) }
func (l *Logger) Error(msg string)                          { l.sugar.Error(msg) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.sugar.Errorf(format, args...) }

// With 返回附带键值对字段的子记录器
func (l *Logger) With(args ...interface{}) logInterface.Logger {
	return wrap(l.zapLogger.With(toZapFields(args...)...))
}

// Sync 刷新缓冲
func (l *Logger) Sync() error {
	return l.zapLogger.Sync()
}

func wrap(zl *zap.Logger) *Logger {
	return &Logger{zapLogger: zl, sugar: zl.Sugar()}
}
