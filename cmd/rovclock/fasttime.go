package main

import (
	"context"
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/weisyn/rovclock/internal/core/infrastructure/clock"
	"github.com/weisyn/rovclock/pkg/types"
)

const fastTimeSteps = 20

type fastTimeFlags struct {
	interval time.Duration
	duration time.Duration
	quiet    bool
}

func newFastTimeCmd() *cobra.Command {
	f := &fastTimeFlags{}
	cmd := &cobra.Command{
		Use:   "fasttime",
		Short: "运行快速时钟驱动并显示推进情况",
		Long: `运行快速时钟驱动 --duration 时长，结束后输出计数与 fasttime 模式下的 DSL 时间。

--interval 是每个 tick 的真实间隔：100ms 与真实时间同速，更小的值加速，0 表示全速运行。`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if f.duration <= 0 {
				return fmt.Errorf("--duration 必须为正")
			}
			writer, reader := clock.NewFastTime()
			timer, err := clock.NewFastTimer(writer, nil, f.interval, nil)
			if err != nil {
				return err
			}
			mc := clock.NewModeClock(nil, reader, nil, nil)

			ctx, cancel := context.WithTimeout(cmd.Context(), f.duration)
			defer cancel()
			if err := timer.Start(ctx); err != nil {
				return err
			}
			defer timer.Stop()

			var bar *pterm.ProgressbarPrinter
			if !f.quiet {
				bar, _ = pterm.DefaultProgressbar.
					WithTotal(fastTimeSteps).
					WithTitle("fasttime").
					WithWriter(cmd.ErrOrStderr()).
					Start()
			}
			step := time.NewTicker(f.duration / fastTimeSteps)
			defer step.Stop()

		loop:
			for {
				select {
				case <-ctx.Done():
					break loop
				case <-step.C:
					if bar != nil {
						dsl, _ := mc.DSLStringMode(types.TimeModeFastTime)
						bar.UpdateTitle(dsl)
						bar.Increment()
					}
				}
			}
			timer.Stop()
			if bar != nil {
				_, _ = bar.Stop()
			}

			dsl, err := mc.DSLStringMode(types.TimeModeFastTime)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ticks=%d %s\n", reader.Get(), dsl)
			return nil
		},
	}
	cmd.Flags().DurationVar(&f.interval, "interval", 100*time.Millisecond, "每个 tick 的真实间隔")
	cmd.Flags().DurationVar(&f.duration, "duration", 2*time.Second, "运行时长")
	cmd.Flags().BoolVarP(&f.quiet, "quiet", "q", false, "不显示进度条")
	return cmd
}
