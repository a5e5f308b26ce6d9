package app

import (
	"fmt"
	"os"

	"github.com/weisyn/rovclock/internal/config"
	"github.com/weisyn/rovclock/pkg/types"
)

// ConfigPathEnv 配置文件路径环境变量
const ConfigPathEnv = "ROVCLOCK_CONFIG_PATH"

// DefaultConfigPath 默认配置文件路径
const DefaultConfigPath = "configs/rovclock.json"

// resolveAppConfig 按优先级确定应用配置
//
// 显式配置 > 嵌入配置 > 配置文件。
// 未显式指定的配置文件不存在时使用默认配置。
func (o *options) resolveAppConfig() (*types.AppConfig, error) {
	if o.appConfig != nil {
		return o.appConfig, nil
	}
	if len(o.embeddedConfig) > 0 {
		return config.ParseAppConfig(o.embeddedConfig)
	}

	path, explicit := configFilePath(o.configFilePath)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return nil, fmt.Errorf("配置文件 %s 不存在", path)
		}
		return &types.AppConfig{}, nil
	}
	return config.LoadAppConfig(path)
}

// configFilePath 获取配置文件路径，第二个返回值表示是否显式指定
func configFilePath(flagPath string) (string, bool) {
	if flagPath != "" {
		return flagPath, true
	}
	if envPath := os.Getenv(ConfigPathEnv); envPath != "" {
		return envPath, true
	}
	return DefaultConfigPath, false
}
