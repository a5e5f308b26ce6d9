package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/weisyn/rovclock/internal/app/version"
	"github.com/weisyn/rovclock/pkg/utils/timeutil"
)

// GlobalFlags 全局标志
type GlobalFlags struct {
	Zone string // 日历字段换算时区
}

// newRootCmd 创建根命令
func newRootCmd() *cobra.Command {
	flags := &GlobalFlags{}

	root := &cobra.Command{
		Use:   "rovclock",
		Short: "载具导航进程的模式时钟工具",
		Long: `rovclock - 模式可切换的进程时钟

时间模式:
  system    操作系统实时时钟，纳秒精度
  renav     操作员注入的重导航时间，毫秒精度
  fasttime  10Hz 快速时钟计数，毫秒精度

DSL 时间格式为 YYYY/MM/DD HH:MM:SS.fff（system 模式为 9 位小数）。`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.Zone, "zone", "UTC", "日历字段换算时区（IANA 名称）")

	root.AddCommand(
		newNowCmd(flags),
		newConvertCmd(),
		newHMCmd(),
		newHMSCmd(),
		newDiffCmd(),
		newRenavCmd(flags),
		newFastTimeCmd(),
		newServeCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "显示版本信息",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.GetBuildInfo())
		},
	}
}

// loadZone 解析时区标志
func loadZone(name string) (*time.Location, error) {
	if name == "" || name == "UTC" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("未知时区 %q: %w", name, err)
	}
	return loc, nil
}

// parseEpoch 解析纪元秒参数
func parseEpoch(arg string) (float64, error) {
	v, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, fmt.Errorf("无效的纪元秒 %q", arg)
	}
	if err := timeutil.CheckEpoch(v); err != nil {
		return 0, err
	}
	return v, nil
}
