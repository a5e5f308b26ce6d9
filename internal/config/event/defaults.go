package event

// 事件系统默认配置值
const (
	// defaultEnabled 默认启用事件系统
	// 原因：模式切换与重导航注入需要通知指标与日志等订阅方
	defaultEnabled = true

	// defaultHistorySize 默认保留最近100条事件
	// 原因：运维排查时能看到最近几次模式切换，内存占用可忽略
	defaultHistorySize = 100

	// defaultMaxSubscribers 默认单个事件类型最多64个订阅者
	defaultMaxSubscribers = 64
)
