package app

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	"github.com/weisyn/rovclock/internal/core/infrastructure/log"
	"github.com/weisyn/rovclock/pkg/interfaces/infrastructure/event"
	logiface "github.com/weisyn/rovclock/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/rovclock/pkg/types"
)

// DSL 记录文件中的标签
const (
	TagStart  = "START"
	TagStop   = "STOP"
	TagMode   = "MODE"
	TagRenav  = "RENAV"
	TagOffset = "OFFSET"
)

// RecorderParams DSL 记录文件接线所需依赖
type RecorderParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Recorder  *log.DSLRecorder `optional:"true"`
	EventBus  event.EventBus   `optional:"true"`
	Logger    logiface.Logger  `optional:"true"`
}

// WireDSLRecorder 把时钟事件写入 DSL 记录文件
func WireDSLRecorder(p RecorderParams) error {
	if p.Recorder == nil {
		return nil
	}
	rec := p.Recorder
	record := func(tag, msg string) {
		if err := rec.Record(tag, msg); err != nil && p.Logger != nil {
			p.Logger.Warnf("写入DSL记录失败: %v", err)
		}
	}

	if p.EventBus != nil {
		subs := []struct {
			eventType types.EventType
			handler   interface{}
		}{
			{types.EventTypeClockModeChanged, func(e types.ModeChangedEvent) {
				record(TagMode, fmt.Sprintf("%s -> %s", e.From, e.To))
			}},
			{types.EventTypeClockRenavSet, func(e types.RenavSetEvent) {
				record(TagRenav, fmt.Sprintf("%.3f (%s)", e.Value, e.Source))
			}},
			{types.EventTypeClockOffsetAlarm, func(e types.OffsetAlarmEvent) {
				record(TagOffset, fmt.Sprintf("%s offset=%.6fs threshold=%.6fs", e.Server, e.OffsetSeconds, e.Threshold))
			}},
		}
		for _, s := range subs {
			if err := p.EventBus.Subscribe(s.eventType, s.handler); err != nil {
				return fmt.Errorf("订阅 %s 失败: %w", s.eventType, err)
			}
		}
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			record(TagStart, "rovclock started")
			return nil
		},
		OnStop: func(context.Context) error {
			record(TagStop, "rovclock stopping")
			return nil
		},
	})
	return nil
}
