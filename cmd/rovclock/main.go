// rovclock 命令行入口
//
// 提供时间格式化与换算工具，以及运行完整时钟服务的 serve 子命令。
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}
