package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weisyn/rovclock/pkg/utils/timeutil"
)

func newConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <epoch>",
		Short: "纪元秒格式化为 DSL 时间（毫秒）",
		Example: `  rovclock convert 1720100730.5
  2024/07/04 13:45:30.500`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseEpoch(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), timeutil.FormatDSLEpoch(v))
			return nil
		},
	}
}

func newHMCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hm <epoch>",
		Short: "只输出当日时分 HH:MM",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseEpoch(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), timeutil.FormatHourMinute(v))
			return nil
		},
	}
}

func newHMSCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hms <epoch>",
		Short: "只输出当日时分秒 HH:MM:SS",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseEpoch(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), timeutil.FormatHourMinuteSecond(v))
			return nil
		},
	}
}

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <t1> <t0>",
		Short: "两个纪元秒之差 t1 - t0",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t1, err := parseEpoch(args[0])
			if err != nil {
				return err
			}
			t0, err := parseEpoch(args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.6f\n", timeutil.Diff(t1, t0))
			return nil
		},
	}
}
