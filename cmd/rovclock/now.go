package main

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/weisyn/rovclock/internal/core/infrastructure/clock"
	"github.com/weisyn/rovclock/pkg/types"
	"github.com/weisyn/rovclock/pkg/utils/timeutil"
)

type nowFlags struct {
	mode   string
	renav  string
	ticks  uint64
	pretty bool
}

func newNowCmd(global *GlobalFlags) *cobra.Command {
	f := &nowFlags{}
	cmd := &cobra.Command{
		Use:   "now",
		Short: "按模式解析当前时间",
		Long: `按模式解析当前时间。

renav 模式使用 --renav 指定的时间，fasttime 模式使用 --ticks 指定的计数。`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loc, err := loadZone(global.Zone)
			if err != nil {
				return err
			}
			mode, err := types.ParseTimeMode(f.mode)
			if err != nil {
				return err
			}

			writer, reader := clock.NewFastTime()
			for i := uint64(0); i < f.ticks; i++ {
				writer.Tick()
			}
			mc := clock.NewModeClock(nil, reader, loc, nil)
			if f.renav != "" {
				if err := mc.SetTimeString(f.renav); err != nil {
					return err
				}
			}

			ts, err := mc.TimeStructMode(mode)
			if err != nil {
				return err
			}
			if !f.pretty {
				fmt.Fprintln(cmd.OutOrStdout(), timeutil.FormatDSL(ts))
				return nil
			}
			return renderTimeStruct(cmd, ts)
		},
	}
	cmd.Flags().StringVarP(&f.mode, "mode", "m", "system", "时间模式: system|renav|fasttime")
	cmd.Flags().StringVar(&f.renav, "renav", "", "重导航时间 \"月/日/年 时:分:秒\"")
	cmd.Flags().Uint64Var(&f.ticks, "ticks", 0, "快速时钟计数（100ms/tick）")
	cmd.Flags().BoolVar(&f.pretty, "pretty", false, "以表格显示全部字段")
	return cmd
}

func renderTimeStruct(cmd *cobra.Command, ts types.TimeStruct) error {
	data := pterm.TableData{
		{"字段", "值"},
		{"mode", ts.Mode.String()},
		{"dsl", timeutil.FormatDSL(ts)},
		{"year/month/day", fmt.Sprintf("%04d/%02d/%02d", ts.Year, ts.Month, ts.Day)},
		{"hour:min:sec", fmt.Sprintf("%02d:%02d:%02d", ts.Hour, ts.Min, ts.Sec)},
		{"msec", strconv.Itoa(ts.Msec)},
		{"clock_sec", strconv.FormatInt(ts.ClockSec, 10)},
		{"clock_nsec", strconv.FormatInt(ts.ClockNsec, 10)},
		{"sec_double", strconv.FormatFloat(ts.SecDouble, 'f', 9, 64)},
		{"sec_today", strconv.FormatFloat(ts.SecToday, 'f', 9, 64)},
		{"sec_rov_time", strconv.FormatFloat(ts.SecRovTime, 'f', 9, 64)},
	}
	return pterm.DefaultTable.WithHasHeader(true).WithWriter(cmd.OutOrStdout()).WithData(data).Render()
}
