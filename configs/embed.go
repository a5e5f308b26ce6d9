// Package configs 内置配置文件
package configs

import _ "embed"

// 随二进制发布的默认配置，与 configs/rovclock.json 相同
//
//go:embed rovclock.json
var defaultConfig []byte

// Default 内置默认配置内容
func Default() []byte {
	return defaultConfig
}
