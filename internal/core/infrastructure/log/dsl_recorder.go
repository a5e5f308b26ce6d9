package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"

	logconfig "github.com/weisyn/rovclock/internal/config/log"
)

// DSLSource 提供当前模式下的 DSL 时间字符串
type DSLSource interface {
	DSLString() (string, error)
}

// DSLRecorder 写 DSL 记录行：<TAG> <DSL 时间> <消息>
//
// 记录文件供离线工具按时间戳与测量数据对齐，格式固定，不走 zap 编码器。
type DSLRecorder struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
	src    DSLSource
}

// NewDSLRecorder 打开按配置轮转的记录文件
func NewDSLRecorder(options *logconfig.LogOptions, src DSLSource) (*DSLRecorder, error) {
	path, err := filepath.Abs(options.DSLFilePath)
	if err != nil {
		return nil, fmt.Errorf("获取DSL记录文件绝对路径失败: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("创建DSL记录目录失败: %w", err)
	}
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    options.MaxSize,
		MaxBackups: options.MaxBackups,
		MaxAge:     options.MaxAge,
		Compress:   options.Compress,
	}
	return &DSLRecorder{w: lj, closer: lj, src: src}, nil
}

// NewDSLRecorderWriter 写到任意 io.Writer
func NewDSLRecorderWriter(w io.Writer, src DSLSource) *DSLRecorder {
	r := &DSLRecorder{w: w, src: src}
	if c, ok := w.(io.Closer); ok {
		r.closer = c
	}
	return r
}

// Record 以当前时间写一行
func (r *DSLRecorder) Record(tag, message string) error {
	ts, err := r.src.DSLString()
	if err != nil {
		return fmt.Errorf("dsl record %s: %w", tag, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err = fmt.Fprintf(r.w, "%s %s %s\n", tag, ts, message)
	return err
}

// Recordf 格式化消息后写一行
func (r *DSLRecorder) Recordf(tag, format string, args ...interface{}) error {
	return r.Record(tag, fmt.Sprintf(format, args...))
}

// Close 关闭底层文件
func (r *DSLRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
