package main

import (
	"github.com/spf13/cobra"

	"github.com/weisyn/rovclock/configs"
	"github.com/weisyn/rovclock/internal/app"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		builtin    bool
		noAPI      bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "运行时钟服务（快速时钟驱动、偏移监测、运维 HTTP API）",
		Long: `运行时钟服务，直到收到 SIGINT/SIGTERM。

配置文件路径优先级：--config > ` + app.ConfigPathEnv + ` > ` + app.DefaultConfigPath + `。`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := []app.Option{app.WithConfigFile(configPath)}
			if builtin {
				opts = []app.Option{app.WithEmbeddedConfig(configs.Default())}
			}
			if noAPI {
				opts = append(opts, app.WithoutAPI())
			}
			a, err := app.Start(opts...)
			if err != nil {
				return err
			}
			return a.Wait()
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "配置文件路径")
	cmd.Flags().BoolVar(&builtin, "builtin", false, "使用内置默认配置，忽略配置文件")
	cmd.Flags().BoolVar(&noAPI, "no-api", false, "不启动运维 HTTP API")
	return cmd
}
