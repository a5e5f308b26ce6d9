package api

import "time"

// 运维API默认配置值
const (
	// defaultHTTPEnabled 默认启用HTTP API
	defaultHTTPEnabled = true

	// defaultHTTPHost HTTP监听地址设为127.0.0.1
	// 原因：运维接口可以改写重导航时间，默认只对本机开放
	defaultHTTPHost = "127.0.0.1"

	// defaultHTTPPort HTTP端口设为8089
	defaultHTTPPort = 8089

	// defaultHTTPReadTimeout HTTP读取超时设为5秒
	defaultHTTPReadTimeout = 5 * time.Second

	// defaultHTTPWriteTimeout HTTP写入超时设为5秒
	defaultHTTPWriteTimeout = 5 * time.Second

	// defaultHTTPShutdownTimeout 关闭时最多等待进行中的请求3秒
	defaultHTTPShutdownTimeout = 3 * time.Second

	// defaultMaxRequestSize 最大请求大小设为64KB，请求体只有几个字段
	defaultMaxRequestSize = 64 * 1024

	// defaultMetricsPath Prometheus 指标路径
	defaultMetricsPath = "/metrics"
)
