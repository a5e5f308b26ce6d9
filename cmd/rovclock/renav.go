package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weisyn/rovclock/internal/core/infrastructure/clock"
	"github.com/weisyn/rovclock/pkg/types"
)

func newRenavCmd(global *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "renav <\"月/日/年 时:分:秒\">",
		Short: "解析重导航时间文本，输出纪元秒与 DSL 时间",
		Example: `  rovclock renav "07/04/2024 13:45:30.5"
  1720100730.500 2024/07/04 13:45:30.500`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := loadZone(global.Zone)
			if err != nil {
				return err
			}
			mc := clock.NewModeClock(nil, nil, loc, nil)
			if err := mc.SetTimeString(args[0]); err != nil {
				return err
			}
			dsl, err := mc.DSLStringMode(types.TimeModeRenav)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.3f %s\n", mc.RenavTime(), dsl)
			return nil
		},
	}
}
